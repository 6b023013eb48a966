package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Inventario-realtime-api/internal/application/realtime"
)

var _ realtime.Bus = (*Bus)(nil)

// Bus implementación del puerto pub/sub sobre Redis.
// Los payloads se publican como JSON.
type Bus struct {
	client *redis.Client
}

func NewBus(client *redis.Client) *Bus {
	return &Bus{client: client}
}

// Publish serializa el payload como JSON y lo publica en el canal.
func (b *Bus) Publish(ctx context.Context, channel string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal bus payload: %w", err)
	}
	if err := b.client.Publish(ctx, channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return nil
}

// Subscribe abre una suscripción a los canales dados y espera la confirmación
// de Redis antes de devolverla.
func (b *Bus) Subscribe(ctx context.Context, channels ...string) (realtime.Subscription, error) {
	pubsub := b.client.Subscribe(ctx, channels...)
	// Receive fuerza la confirmación de la suscripción: si Redis no responde,
	// mejor fallar aquí que perder mensajes en silencio.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}
	return &subscription{pubsub: pubsub}, nil
}

type subscription struct {
	pubsub *redis.PubSub
}

// ReceiveTimeout espera el siguiente mensaje hasta timeout.
// Al vencerse devuelve realtime.ErrReceiveTimeout; los mensajes de control
// (confirmaciones de suscripción, pongs) también se mapean a timeout para que
// el loop del caller simplemente reintente.
func (s *subscription) ReceiveTimeout(ctx context.Context, timeout time.Duration) (string, []byte, error) {
	msg, err := s.pubsub.ReceiveTimeout(ctx, timeout)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", nil, realtime.ErrReceiveTimeout
		}
		return "", nil, fmt.Errorf("redis receive: %w", err)
	}
	switch m := msg.(type) {
	case *redis.Message:
		return m.Channel, []byte(m.Payload), nil
	default:
		return "", nil, realtime.ErrReceiveTimeout
	}
}

func (s *subscription) Close() error {
	return s.pubsub.Close()
}
