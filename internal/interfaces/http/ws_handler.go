package http

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-realtime-api/internal/application/realtime"
	"github.com/jhoicas/Inventario-realtime-api/pkg/logger"
)

// WSHandler maneja las conexiones WebSocket de tiempo real.
// Cada endpoint registra la conexión en el manager bajo su tipo y mantiene un
// read-loop que hace eco de los mensajes de texto del cliente; al desconectar,
// la conexión sale del registro.
type WSHandler struct {
	manager *realtime.Manager
	log     *logger.Logger
}

// NewWSHandler construye el handler.
func NewWSHandler(manager *realtime.Manager, log *logger.Logger) *WSHandler {
	return &WSHandler{manager: manager, log: log}
}

// Upgrade middleware que exige el handshake de WebSocket en las rutas /ws.
// Guarda el path en Locals porque la conexión ya upgradeada no lo expone.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("ws_path", c.Path())
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Inventory conexiones que reciben eventos de inventario.
func (h *WSHandler) Inventory(c *websocket.Conn) {
	h.serve(c, realtime.ConnTypeInventory)
}

// Price conexiones que reciben eventos de precio.
func (h *WSHandler) Price(c *websocket.Conn) {
	h.serve(c, realtime.ConnTypePrice)
}

// Alerts conexiones que reciben alertas de stock y de precio.
func (h *WSHandler) Alerts(c *websocket.Conn) {
	h.serve(c, realtime.ConnTypeAlerts)
}

// Stats endpoint HTTP con el estado del manager (conteos por tipo, estado del
// suscriptor). Útil para monitoreo.
func (h *WSHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.manager.Stats())
}

func (h *WSHandler) serve(c *websocket.Conn, defaultType string) {
	conn := &wsConn{c: c}
	path, _ := c.Locals("ws_path").(string)
	connType := h.manager.Register(conn, path, defaultType)
	defer func() {
		h.manager.Unregister(conn)
		_ = c.Close()
	}()

	h.log.Info().Str("type", connType).Str("remote", c.RemoteAddr().String()).Msg("conexión WebSocket establecida")

	welcome, _ := json.Marshal(welcomeMessage())
	if err := conn.WriteTextMessage(welcome); err != nil {
		h.log.Warn().Err(err).Msg("fallo enviando mensaje de bienvenida")
		return
	}

	for {
		msgType, msg, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.log.Warn().Err(err).Str("type", connType).Msg("error en conexión WebSocket")
			}
			break
		}
		// Eco de keep-alive: el cliente puede mandar texto y recibirlo de vuelta.
		if msgType == websocket.TextMessage {
			if err := conn.WriteTextMessage(msg); err != nil {
				break
			}
		}
	}

	h.log.Info().Str("type", connType).Msg("conexión WebSocket cerrada")
}

// welcomeMessage sobre inicial que recibe cada cliente al conectar. El
// timestamp viaja como string RFC3339, igual que el resto de los sobres.
func welcomeMessage() realtime.Message {
	return realtime.Message{
		Type:      "connection_established",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// wsConn adapta *websocket.Conn al puerto realtime.Conn serializando las
// escrituras: gofiber/contrib/websocket no admite escritores concurrentes y
// aquí escriben el read-loop (eco) y el broadcast del manager.
type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) WriteTextMessage(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteMessage(websocket.TextMessage, data)
}

func (w *wsConn) Close() error {
	return w.c.Close()
}
