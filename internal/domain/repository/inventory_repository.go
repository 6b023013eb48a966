package repository

import (
	"context"

	"github.com/jhoicas/Inventario-realtime-api/internal/domain/entity"
)

// InventoryRepository define el puerto de persistencia para InventoryItem (DIP).
// Los point lookups devuelven (nil, nil) cuando no existe la fila.
type InventoryRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error)
	SKUExists(ctx context.Context, sku string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*entity.InventoryItem, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
	Delete(ctx context.Context, id int64) (bool, error)
	ListLowStock(ctx context.Context, threshold int) ([]*entity.InventoryItem, error)
	Stats(ctx context.Context) (*entity.InventoryStats, error)
}
