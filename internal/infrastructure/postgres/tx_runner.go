package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-realtime-api/internal/application/usecase"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain/repository"
)

var _ usecase.PriceTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos de precio atados a la tx
// y hace Commit o Rollback. Así desactivar el precio vigente, insertar el nuevo
// y registrar el historial es una sola operación atómica.
func (r *TxRunner) Run(ctx context.Context, fn func(
	prices repository.PriceRepository,
	history repository.PriceHistoryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	priceRepo := NewPriceRepository(tx)
	historyRepo := NewPriceHistoryRepository(tx)

	if err := fn(priceRepo, historyRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
