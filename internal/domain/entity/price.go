package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price es una fila de precio vigente con ventana temporal
// [EffectiveFrom, EffectiveUntil). El historial de precios vigentes es
// append-only: crear un precio nuevo desactiva el anterior, nunca lo borra.
type Price struct {
	ID          int64
	InventoryID int64

	SellingPrice  decimal.Decimal
	CostPrice     decimal.Decimal
	DiscountPrice *decimal.Decimal
	Currency      string // ISO 4217

	MarginPercent *decimal.Decimal
	MarkupPercent *decimal.Decimal

	IsActive         bool
	RequiresApproval bool

	EffectiveFrom  time.Time
	EffectiveUntil *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FinalPrice devuelve el precio final de venta (descuento si existe, si no el de lista).
func (p *Price) FinalPrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.SellingPrice
}

// CalculatedMargin calcula el margen en porcentaje sobre el precio final.
// Con CostPrice <= 0 devuelve 0 para no dividir por cero.
func (p *Price) CalculatedMargin() decimal.Decimal {
	if p.CostPrice.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	final := p.FinalPrice()
	if final.IsZero() {
		return decimal.Zero
	}
	return final.Sub(p.CostPrice).Div(final).Mul(decimal.NewFromInt(100))
}
