package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-realtime-api/internal/domain/repository"
)

// Cache puerto de cache-aside sobre el almacén clave-valor (adaptador Redis).
// Get devuelve (false, nil) en miss; un valor corrupto también cuenta como miss.
// El cache es solo una optimización: los casos de uso registran y tragan
// cualquier error de este puerto, nunca fallan la petición por él.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Notifier puerto de notificaciones en tiempo real (ConnectionManager).
// Los envíos son best-effort: una notificación perdida es aceptable,
// una escritura perdida no.
type Notifier interface {
	SendInventoryUpdate(ctx context.Context, data any)
	SendPriceUpdate(ctx context.Context, data any)
	SendStockAlert(ctx context.Context, data any)
	SendPriceAlert(ctx context.Context, data any)
}

// PriceTxRunner ejecuta fn dentro de una transacción con los repos de precio
// atados a la tx, para que desactivar + insertar + historial sea atómico.
type PriceTxRunner interface {
	Run(ctx context.Context, fn func(
		prices repository.PriceRepository,
		history repository.PriceHistoryRepository,
	) error) error
}
