package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-realtime-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain/repository"
)

var _ repository.PriceRepository = (*PriceRepo)(nil)

const priceColumns = `id, inventory_id, selling_price, cost_price, discount_price, currency,
	margin_percent, markup_percent, is_active, requires_approval,
	effective_from, effective_until, created_at, updated_at`

// PriceRepo implementación del puerto PriceRepository sobre PostgreSQL.
type PriceRepo struct {
	q Querier
}

func NewPriceRepository(q Querier) *PriceRepo {
	return &PriceRepo{q: q}
}

// Insert persiste una fila de precio nueva y asigna el ID generado.
func (r *PriceRepo) Insert(ctx context.Context, price *entity.Price) error {
	query := `
		INSERT INTO prices (inventory_id, selling_price, cost_price, discount_price, currency,
			margin_percent, markup_percent, is_active, requires_approval,
			effective_from, effective_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		price.InventoryID, price.SellingPrice, price.CostPrice, price.DiscountPrice, price.Currency,
		price.MarginPercent, price.MarkupPercent, price.IsActive, price.RequiresApproval,
		price.EffectiveFrom, price.EffectiveUntil, price.CreatedAt, price.UpdatedAt,
	).Scan(&price.ID)
	if err != nil {
		return fmt.Errorf("insert price: %w", err)
	}
	return nil
}

// GetCurrent precio vigente del ítem. Devuelve (nil, nil) si no hay.
func (r *PriceRepo) GetCurrent(ctx context.Context, inventoryID int64) (*entity.Price, error) {
	query := `SELECT ` + priceColumns + `
		FROM prices
		WHERE inventory_id = $1 AND is_active AND effective_from <= now()
		ORDER BY effective_from DESC, id DESC
		LIMIT 1`
	price, err := scanPrice(r.q.QueryRow(ctx, query, inventoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get current price: %w", err)
	}
	return price, nil
}

// ListActive precios vigentes paginados, más recientes primero.
func (r *PriceRepo) ListActive(ctx context.Context, limit, offset int) ([]*entity.Price, error) {
	query := `SELECT ` + priceColumns + `
		FROM prices
		WHERE is_active
		ORDER BY effective_from DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list active prices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Price
	for rows.Next() {
		price, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		list = append(list, price)
	}
	return list, rows.Err()
}

// DeactivateCurrent cierra la ventana del precio vigente del ítem.
// Devuelve cuántas filas cerró (0 si el ítem no tenía precio activo).
func (r *PriceRepo) DeactivateCurrent(ctx context.Context, inventoryID int64, until time.Time) (int64, error) {
	query := `
		UPDATE prices SET is_active = false, effective_until = $2, updated_at = $2
		WHERE inventory_id = $1 AND is_active`
	cmd, err := r.q.Exec(ctx, query, inventoryID, until)
	if err != nil {
		return 0, fmt.Errorf("deactivate current price: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanPrice(row pgx.Row) (*entity.Price, error) {
	var price entity.Price
	err := row.Scan(
		&price.ID, &price.InventoryID, &price.SellingPrice, &price.CostPrice,
		&price.DiscountPrice, &price.Currency, &price.MarginPercent, &price.MarkupPercent,
		&price.IsActive, &price.RequiresApproval, &price.EffectiveFrom, &price.EffectiveUntil,
		&price.CreatedAt, &price.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &price, nil
}
