package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-realtime-api/internal/domain"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const inventoryColumns = `id, sku, name, description, category, stock_quantity, reserved_quantity,
	available_quantity, weight_grams, dimensions, cost_price, min_stock_level, max_stock_level,
	is_active, is_trackable, created_at, updated_at`

// InventoryRepo implementación del puerto InventoryRepository sobre PostgreSQL.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Create persiste un ítem nuevo y asigna el ID generado.
// SKU duplicado -> domain.ErrDuplicate.
func (r *InventoryRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (sku, name, description, category, stock_quantity, reserved_quantity,
			available_quantity, weight_grams, dimensions, cost_price, min_stock_level, max_stock_level,
			is_active, is_trackable, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.SKU, item.Name, item.Description, item.Category, item.StockQuantity, item.ReservedQuantity,
		item.AvailableQuantity, item.WeightGrams, item.Dimensions, item.CostPrice, item.MinStockLevel,
		item.MaxStockLevel, item.IsActive, item.IsTrackable, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID. Devuelve (nil, nil) si no existe.
func (r *InventoryRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1`
	item, err := scanInventoryItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return item, nil
}

// SKUExists lookup puntual de existencia del SKU.
func (r *InventoryRepo) SKUExists(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM inventory_items WHERE sku = $1)`, sku).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sku exists: %w", err)
	}
	return exists, nil
}

// List lista ítems paginados, más recientes primero.
func (r *InventoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventory_items ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	return collectInventoryItems(rows)
}

// Update actualiza todos los campos mutables del ítem.
// SKU duplicado -> domain.ErrDuplicate.
func (r *InventoryRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET sku = $2, name = $3, description = $4, category = $5,
			stock_quantity = $6, reserved_quantity = $7, available_quantity = $8, weight_grams = $9,
			dimensions = $10, cost_price = $11, min_stock_level = $12, max_stock_level = $13,
			is_active = $14, is_trackable = $15, updated_at = $16
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.SKU, item.Name, item.Description, item.Category,
		item.StockQuantity, item.ReservedQuantity, item.AvailableQuantity, item.WeightGrams,
		item.Dimensions, item.CostPrice, item.MinStockLevel, item.MaxStockLevel,
		item.IsActive, item.IsTrackable, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update inventory item: %w", err)
	}
	return nil
}

// Delete elimina un ítem por ID (hard delete). Devuelve false si no existía.
func (r *InventoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete inventory item: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListLowStock ítems activos con disponible en o bajo el umbral, peor primero.
func (r *InventoryRepo) ListLowStock(ctx context.Context, threshold int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE available_quantity <= $1 AND is_active
		ORDER BY available_quantity ASC`
	rows, err := r.q.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock items: %w", err)
	}
	defer rows.Close()
	return collectInventoryItems(rows)
}

// Stats agregado SQL sobre ítems activos: conteos por bucket de stock y
// valor total (stock_quantity * cost_price).
func (r *InventoryRepo) Stats(ctx context.Context) (*entity.InventoryStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE stock_quantity <= 0),
			COUNT(*) FILTER (WHERE stock_quantity > 0 AND stock_quantity <= min_stock_level),
			COALESCE(SUM(stock_quantity * cost_price), 0)
		FROM inventory_items
		WHERE is_active`
	var stats entity.InventoryStats
	err := r.q.QueryRow(ctx, query).Scan(
		&stats.TotalItems, &stats.OutOfStockCount, &stats.LowStockCount, &stats.TotalValue,
	)
	if err != nil {
		return nil, fmt.Errorf("inventory stats: %w", err)
	}
	stats.NormalStockCount = stats.TotalItems - stats.OutOfStockCount - stats.LowStockCount
	return &stats, nil
}

func scanInventoryItem(row pgx.Row) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := row.Scan(
		&item.ID, &item.SKU, &item.Name, &item.Description, &item.Category,
		&item.StockQuantity, &item.ReservedQuantity, &item.AvailableQuantity,
		&item.WeightGrams, &item.Dimensions, &item.CostPrice, &item.MinStockLevel,
		&item.MaxStockLevel, &item.IsActive, &item.IsTrackable, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func collectInventoryItems(rows pgx.Rows) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
