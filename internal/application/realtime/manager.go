package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-realtime-api/pkg/logger"
)

// receiveTimeout espera máxima por iteración del loop suscriptor: acota el
// bloqueo para poder atender cancelación y el resto de los canales.
const receiveTimeout = time.Second

// Message sobre que viaja por el bus y hacia los clientes WebSocket.
// Origin identifica el proceso emisor: el loop suscriptor descarta los
// mensajes propios para no entregar dos veces el mismo evento (el camino
// directo local ya lo entregó).
type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp"`
	Severity  string          `json:"severity,omitempty"`
	Origin    string          `json:"origin,omitempty"`
	Channel   string          `json:"channel,omitempty"`
}

// ManagerStats snapshot del estado del manager.
type ManagerStats struct {
	TotalConnections  int            `json:"total_connections"`
	ConnectionsByType map[string]int `json:"connections_by_type"`
	IsListening       bool           `json:"is_redis_listening"`
	SubscriberRunning bool           `json:"subscriber_task_running"`
}

// Manager registro de conexiones WebSocket por tipo, broadcast tipado y
// puente con el bus. Ciclo de vida explícito: Start al arrancar el proceso,
// Stop en el shutdown. Las registries se protegen con RWMutex y los
// broadcasts iteran sobre un snapshot para no mutar durante el recorrido.
type Manager struct {
	bus    Bus
	log    *logger.Logger
	origin string

	mu    sync.RWMutex
	conns map[string][]Conn

	listening   atomic.Bool
	running     atomic.Bool
	failedSends atomic.Uint64

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager construye el manager con las registries vacías.
func NewManager(bus Bus, log *logger.Logger) *Manager {
	return &Manager{
		bus:    bus,
		log:    log,
		origin: uuid.NewString(),
		conns: map[string][]Conn{
			ConnTypeInventory: {},
			ConnTypePrice:     {},
			ConnTypeAlerts:    {},
		},
	}
}

// Start suscribe a los cinco canales del bus y lanza el único goroutine
// suscriptor del proceso. Idempotente: llamadas posteriores no hacen nada.
func (m *Manager) Start(ctx context.Context) error {
	// CAS: solo una llamada concurrente gana y lanza el loop.
	if !m.listening.CompareAndSwap(false, true) {
		return nil
	}
	sub, err := m.bus.Subscribe(ctx, allChannels()...)
	if err != nil {
		m.listening.Store(false)
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running.Store(true)

	go m.listen(loopCtx, sub)

	m.log.Info().Strs("channels", allChannels()).Msg("suscriptor del bus iniciado")
	return nil
}

// Stop cancela el loop suscriptor y espera a que termine.
func (m *Manager) Stop() {
	if !m.listening.Load() {
		return
	}
	m.listening.Store(false)
	m.cancel()
	<-m.done
	m.log.Info().Msg("suscriptor del bus detenido")
}

func (m *Manager) listen(ctx context.Context, sub Subscription) {
	defer func() {
		_ = sub.Close()
		m.running.Store(false)
		close(m.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		channel, payload, err := sub.ReceiveTimeout(ctx, receiveTimeout)
		if err != nil {
			if errors.Is(err, ErrReceiveTimeout) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			m.log.Error().Err(err).Msg("error recibiendo del bus")
			continue
		}
		m.handleBusMessage(channel, payload)
	}
}

// handleBusMessage parsea y enruta un mensaje del bus. Payload malformado se
// registra y se descarta: nunca tumba el loop.
func (m *Manager) handleBusMessage(channel string, payload []byte) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		m.log.Warn().Str("channel", channel).Msg("mensaje del bus con JSON inválido, descartado")
		return
	}
	if msg.Origin != "" && msg.Origin == m.origin {
		// Eco de una publicación propia: el broadcast directo ya lo entregó.
		return
	}

	msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	msg.Channel = channel

	switch channel {
	case ChannelInventoryUpdates:
		m.broadcastToType(msg, ConnTypeInventory)
	case ChannelPriceUpdates:
		m.broadcastToType(msg, ConnTypePrice)
	case ChannelStockAlerts, ChannelPriceAlerts:
		m.broadcastToType(msg, ConnTypeAlerts)
	case ChannelSystemNotifications:
		m.broadcastToAll(msg)
	default:
		m.log.Warn().Str("channel", channel).Msg("canal del bus desconocido")
	}
}

// Register clasifica la conexión por el path de su endpoint y la agrega a la
// registry de su tipo. Sin match usa defaultType (y sin defaultType, alerts).
// Devuelve el tipo asignado.
func (m *Manager) Register(conn Conn, path, defaultType string) string {
	connType := classify(path, defaultType)

	m.mu.Lock()
	m.conns[connType] = append(m.conns[connType], conn)
	total := m.totalLocked()
	m.mu.Unlock()

	m.log.Info().
		Str("connection_type", connType).
		Int("total_connections", total).
		Msg("cliente WebSocket conectado")
	return connType
}

// Unregister quita la conexión de su registry (desconexión explícita).
func (m *Manager) Unregister(conn Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for connType, conns := range m.conns {
		for i, c := range conns {
			if c == conn {
				m.conns[connType] = append(conns[:i], conns[i+1:]...)
				m.log.Info().
					Str("connection_type", connType).
					Int("remaining_connections", len(m.conns[connType])).
					Msg("cliente WebSocket desconectado")
				return
			}
		}
	}
}

// SendInventoryUpdate publica y difunde un evento inventory_update.
func (m *Manager) SendInventoryUpdate(ctx context.Context, data any) {
	m.emit(ctx, ChannelInventoryUpdates, ConnTypeInventory, "inventory_update", data, "")
}

// SendPriceUpdate publica y difunde un evento price_update.
func (m *Manager) SendPriceUpdate(ctx context.Context, data any) {
	m.emit(ctx, ChannelPriceUpdates, ConnTypePrice, "price_update", data, "")
}

// SendStockAlert publica y difunde una alerta de stock hacia las conexiones
// de alertas. La severidad sale del alert_level del payload.
func (m *Manager) SendStockAlert(ctx context.Context, data any) {
	m.emit(ctx, ChannelStockAlerts, ConnTypeAlerts, "stock_alert", data, "alert_level")
}

// SendPriceAlert publica y difunde una alerta de cambio de precio.
func (m *Manager) SendPriceAlert(ctx context.Context, data any) {
	m.emit(ctx, ChannelPriceAlerts, ConnTypeAlerts, "price_alert", data, "alert_type")
}

// emit arma el sobre, lo publica en el bus (para otras instancias) y lo
// difunde directo a las conexiones locales del tipo. Falla de publicación se
// registra y se traga: una notificación perdida no falla la mutación.
func (m *Manager) emit(ctx context.Context, channel, connType, msgType string, data any, severityField string) {
	raw, err := json.Marshal(data)
	if err != nil {
		m.log.Error().Err(err).Str("type", msgType).Msg("no se pudo serializar el payload del evento")
		return
	}

	msg := Message{
		Type:      msgType,
		Data:      raw,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Severity:  probeSeverity(raw, severityField),
		Origin:    m.origin,
	}

	if err := m.bus.Publish(ctx, channel, msg); err != nil {
		m.log.Warn().Err(err).Str("channel", channel).Msg("fallo publicando en el bus")
	} else {
		m.log.Debug().Str("channel", channel).Str("type", msgType).Msg("evento publicado en el bus")
	}

	m.broadcastToType(msg, connType)
}

// broadcastToType serializa una vez y entrega a un snapshot de la registry.
// Un envío fallido es terminal para esa conexión: se quita de inmediato,
// se cierra y se cuenta — nunca se reintenta ni se propaga.
func (m *Manager) broadcastToType(msg Message, connType string) {
	m.mu.RLock()
	snapshot := make([]Conn, len(m.conns[connType]))
	copy(snapshot, m.conns[connType])
	m.mu.RUnlock()

	if len(snapshot) == 0 {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		m.log.Error().Err(err).Msg("no se pudo serializar el mensaje de broadcast")
		return
	}

	var failed []Conn
	for _, conn := range snapshot {
		if err := conn.WriteTextMessage(payload); err != nil {
			m.log.Warn().Err(err).Str("connection_type", connType).Msg("fallo enviando a cliente WebSocket")
			failed = append(failed, conn)
		}
	}

	for _, conn := range failed {
		m.failedSends.Add(1)
		m.Unregister(conn)
		_ = conn.Close()
	}

	m.log.Debug().
		Str("connection_type", connType).
		Int("successful_sends", len(snapshot)-len(failed)).
		Int("failed_sends", len(failed)).
		Msg("broadcast entregado")
}

func (m *Manager) broadcastToAll(msg Message) {
	for _, connType := range []string{ConnTypeInventory, ConnTypePrice, ConnTypeAlerts} {
		m.broadcastToType(msg, connType)
	}
}

// Stats snapshot de conexiones y estado del loop suscriptor.
func (m *Manager) Stats() ManagerStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byType := make(map[string]int, len(m.conns))
	total := 0
	for connType, conns := range m.conns {
		byType[connType] = len(conns)
		total += len(conns)
	}
	return ManagerStats{
		TotalConnections:  total,
		ConnectionsByType: byType,
		IsListening:       m.listening.Load(),
		SubscriberRunning: m.running.Load(),
	}
}

// FailedSends total acumulado de envíos fallidos (conexiones evictadas).
func (m *Manager) FailedSends() uint64 {
	return m.failedSends.Load()
}

func (m *Manager) totalLocked() int {
	total := 0
	for _, conns := range m.conns {
		total += len(conns)
	}
	return total
}

// classify deriva el tipo de conexión del path del endpoint.
func classify(path, defaultType string) string {
	switch {
	case strings.Contains(path, "inventory"):
		return ConnTypeInventory
	case strings.Contains(path, "price"):
		return ConnTypePrice
	case strings.Contains(path, "alert"):
		return ConnTypeAlerts
	}
	if defaultType == ConnTypeInventory || defaultType == ConnTypePrice || defaultType == ConnTypeAlerts {
		return defaultType
	}
	return ConnTypeAlerts
}

// probeSeverity extrae el campo de severidad del payload sin conocer su tipo.
func probeSeverity(raw json.RawMessage, field string) string {
	if field == "" {
		return ""
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	var severity string
	if err := json.Unmarshal(probe[field], &severity); err != nil {
		return ""
	}
	return severity
}
