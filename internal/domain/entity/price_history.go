package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Buckets de significancia de un cambio de precio (sobre |Δ%|).
const (
	ChangeMajor       = "major"
	ChangeSignificant = "significant"
	ChangeModerate    = "moderate"
	ChangeMinor       = "minor"
)

// PriceHistory es una fila inmutable del log de transiciones de precio.
// Nunca se actualiza después del insert.
type PriceHistory struct {
	ID          int64
	InventoryID int64

	OldPrice           decimal.Decimal
	NewPrice           decimal.Decimal
	PriceChangeAmount  decimal.Decimal
	PriceChangePercent decimal.Decimal // 0 si OldPrice <= 0

	ChangeReason string
	ChangedBy    string
	ChangeType   string // manual, automatic, bulk_update, etc.

	Notes             string
	ExternalReference string

	ChangedAt time.Time
}

// IsPriceIncrease indica si la transición fue un aumento.
func (h *PriceHistory) IsPriceIncrease() bool {
	return h.NewPrice.GreaterThan(h.OldPrice)
}

// ChangeSignificance clasifica la magnitud del cambio por |Δ%|:
// >=20 major, >=10 significant, >=5 moderate, resto minor.
func (h *PriceHistory) ChangeSignificance() string {
	abs := h.PriceChangePercent.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(20)):
		return ChangeMajor
	case abs.GreaterThanOrEqual(decimal.NewFromInt(10)):
		return ChangeSignificant
	case abs.GreaterThanOrEqual(decimal.NewFromInt(5)):
		return ChangeModerate
	default:
		return ChangeMinor
	}
}

// NewPriceChange construye la fila de historial para una transición old -> new.
// Con old <= 0 el porcentaje queda en 0 (guardia de división por cero).
func NewPriceChange(inventoryID int64, oldPrice, newPrice decimal.Decimal, reason, changeType string, at time.Time) *PriceHistory {
	amount := newPrice.Sub(oldPrice)
	percent := decimal.Zero
	if oldPrice.GreaterThan(decimal.Zero) {
		percent = amount.Div(oldPrice).Mul(decimal.NewFromInt(100))
	}
	return &PriceHistory{
		InventoryID:        inventoryID,
		OldPrice:           oldPrice,
		NewPrice:           newPrice,
		PriceChangeAmount:  amount,
		PriceChangePercent: percent,
		ChangeReason:       reason,
		ChangeType:         changeType,
		ChangedAt:          at,
	}
}
