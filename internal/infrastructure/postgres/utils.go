package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint
// único (23505), p. ej. un SKU duplicado. Los repos lo traducen a
// domain.ErrDuplicate: la base es la única garantía de unicidad, no hay
// pre-chequeo check-then-act.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
