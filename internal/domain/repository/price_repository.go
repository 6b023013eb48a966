package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-realtime-api/internal/domain/entity"
)

// PriceRepository define el puerto de persistencia para Price.
// GetCurrent devuelve (nil, nil) si el ítem no tiene precio vigente.
type PriceRepository interface {
	Insert(ctx context.Context, price *entity.Price) error
	GetCurrent(ctx context.Context, inventoryID int64) (*entity.Price, error)
	ListActive(ctx context.Context, limit, offset int) ([]*entity.Price, error)
	// DeactivateCurrent cierra la ventana del precio vigente
	// (is_active=false, effective_until=until). Devuelve cuántas filas cerró.
	DeactivateCurrent(ctx context.Context, inventoryID int64, until time.Time) (int64, error)
}

// PriceHistoryRepository define el puerto para el log inmutable de transiciones.
type PriceHistoryRepository interface {
	Insert(ctx context.Context, h *entity.PriceHistory) error
	ListByItem(ctx context.Context, inventoryID int64, since time.Time) ([]*entity.PriceHistory, error)
	// ListSignificant filtra por |price_change_percent| >= threshold desde since,
	// ordenado por |Δ%| descendente.
	ListSignificant(ctx context.Context, thresholdPercent float64, since time.Time) ([]*entity.PriceHistory, error)
}
