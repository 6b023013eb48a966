package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-realtime-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain/repository"
)

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

const priceHistoryColumns = `id, inventory_id, old_price, new_price, price_change_amount,
	price_change_percent, change_reason, changed_by, change_type, notes, external_reference, changed_at`

// PriceHistoryRepo implementación del puerto PriceHistoryRepository sobre PostgreSQL.
// La tabla es append-only: solo INSERT y SELECT.
type PriceHistoryRepo struct {
	q Querier
}

func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

// Insert registra una transición de precio en el log inmutable.
func (r *PriceHistoryRepo) Insert(ctx context.Context, h *entity.PriceHistory) error {
	query := `
		INSERT INTO price_history (inventory_id, old_price, new_price, price_change_amount,
			price_change_percent, change_reason, changed_by, change_type, notes, external_reference, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		h.InventoryID, h.OldPrice, h.NewPrice, h.PriceChangeAmount, h.PriceChangePercent,
		h.ChangeReason, h.ChangedBy, h.ChangeType, h.Notes, h.ExternalReference, h.ChangedAt,
	).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("insert price history: %w", err)
	}
	return nil
}

// ListByItem transiciones de un ítem desde since, más recientes primero.
func (r *PriceHistoryRepo) ListByItem(ctx context.Context, inventoryID int64, since time.Time) ([]*entity.PriceHistory, error) {
	query := `SELECT ` + priceHistoryColumns + `
		FROM price_history
		WHERE inventory_id = $1 AND changed_at >= $2
		ORDER BY changed_at DESC`
	rows, err := r.q.Query(ctx, query, inventoryID, since)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	defer rows.Close()
	return collectPriceHistory(rows)
}

// ListSignificant transiciones con |Δ%| >= threshold desde since,
// ordenadas por magnitud descendente.
func (r *PriceHistoryRepo) ListSignificant(ctx context.Context, thresholdPercent float64, since time.Time) ([]*entity.PriceHistory, error) {
	query := `SELECT ` + priceHistoryColumns + `
		FROM price_history
		WHERE ABS(price_change_percent) >= $1 AND changed_at >= $2
		ORDER BY ABS(price_change_percent) DESC`
	rows, err := r.q.Query(ctx, query, thresholdPercent, since)
	if err != nil {
		return nil, fmt.Errorf("list significant price changes: %w", err)
	}
	defer rows.Close()
	return collectPriceHistory(rows)
}

func collectPriceHistory(rows pgx.Rows) ([]*entity.PriceHistory, error) {
	var list []*entity.PriceHistory
	for rows.Next() {
		var h entity.PriceHistory
		err := rows.Scan(
			&h.ID, &h.InventoryID, &h.OldPrice, &h.NewPrice, &h.PriceChangeAmount,
			&h.PriceChangePercent, &h.ChangeReason, &h.ChangedBy, &h.ChangeType,
			&h.Notes, &h.ExternalReference, &h.ChangedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan price history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
