package realtime

import (
	"context"
	"time"
)

// Bus puerto de pub/sub sobre el almacén clave-valor (adaptador Redis).
// Entrega at-least-once, sin orden garantizado entre canales.
type Bus interface {
	Publish(ctx context.Context, channel string, payload any) error
	Subscribe(ctx context.Context, channels ...string) (Subscription, error)
}

// Subscription recepción de mensajes de los canales suscritos.
// ReceiveTimeout espera como máximo timeout; al vencerse devuelve ErrReceiveTimeout
// para que el loop pueda revisar cancelación sin bloquearse indefinidamente.
type Subscription interface {
	ReceiveTimeout(ctx context.Context, timeout time.Duration) (channel string, payload []byte, err error)
	Close() error
}

// Conn conexión WebSocket vista por el manager: solo necesita enviar texto y
// cerrarse. *websocket.Conn de gofiber la satisface vía el adaptador del
// endpoint.
type Conn interface {
	WriteTextMessage(data []byte) error
	Close() error
}
