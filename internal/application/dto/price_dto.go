package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePriceRequest entrada para fijar el precio vigente de un ítem.
// Si el ítem ya tiene precio activo, este se desactiva y la fila nueva
// pasa a ser la vigente (modelo append-only).
type CreatePriceRequest struct {
	InventoryID      int64            `json:"inventory_id"`
	SellingPrice     decimal.Decimal  `json:"selling_price"`
	CostPrice        decimal.Decimal  `json:"cost_price"`
	DiscountPrice    *decimal.Decimal `json:"discount_price,omitempty"`
	Currency         string           `json:"currency"`
	MarginPercent    *decimal.Decimal `json:"margin_percent,omitempty"`
	MarkupPercent    *decimal.Decimal `json:"markup_percent,omitempty"`
	RequiresApproval bool             `json:"requires_approval"`
	ChangeReason     string           `json:"change_reason,omitempty"`
}

// UpdatePriceRequest actualización parcial del precio vigente de un ítem.
// Los cambios también se materializan como fila nueva (misma ventana temporal
// que CreatePriceRequest), nunca se muta la fila vigente.
type UpdatePriceRequest struct {
	SellingPrice     *decimal.Decimal `json:"selling_price,omitempty"`
	CostPrice        *decimal.Decimal `json:"cost_price,omitempty"`
	DiscountPrice    *decimal.Decimal `json:"discount_price,omitempty"`
	Currency         *string          `json:"currency,omitempty"`
	MarginPercent    *decimal.Decimal `json:"margin_percent,omitempty"`
	MarkupPercent    *decimal.Decimal `json:"markup_percent,omitempty"`
	RequiresApproval *bool            `json:"requires_approval,omitempty"`
	ChangeReason     string           `json:"change_reason,omitempty"`
}

// PriceResponse forma única de respuesta para precios (cache y consulta viva).
type PriceResponse struct {
	ID               int64            `json:"id"`
	InventoryID      int64            `json:"inventory_id"`
	SellingPrice     decimal.Decimal  `json:"selling_price"`
	CostPrice        decimal.Decimal  `json:"cost_price"`
	DiscountPrice    *decimal.Decimal `json:"discount_price,omitempty"`
	Currency         string           `json:"currency"`
	MarginPercent    *decimal.Decimal `json:"margin_percent,omitempty"`
	MarkupPercent    *decimal.Decimal `json:"markup_percent,omitempty"`
	IsActive         bool             `json:"is_active"`
	RequiresApproval bool             `json:"requires_approval"`
	FinalPrice       decimal.Decimal  `json:"final_price"`
	CalculatedMargin decimal.Decimal  `json:"calculated_margin"`
	EffectiveFrom    time.Time        `json:"effective_from"`
	EffectiveUntil   *time.Time       `json:"effective_until,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// PriceListResponse página de precios vigentes.
type PriceListResponse struct {
	Items []PriceResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// PriceHistoryResponse fila del log de transiciones de precio.
type PriceHistoryResponse struct {
	ID                 int64           `json:"id"`
	InventoryID        int64           `json:"inventory_id"`
	OldPrice           decimal.Decimal `json:"old_price"`
	NewPrice           decimal.Decimal `json:"new_price"`
	PriceChangeAmount  decimal.Decimal `json:"price_change_amount"`
	PriceChangePercent decimal.Decimal `json:"price_change_percent"`
	ChangeReason       string          `json:"change_reason,omitempty"`
	ChangeType         string          `json:"change_type,omitempty"`
	IsPriceIncrease    bool            `json:"is_price_increase"`
	ChangeSignificance string          `json:"change_significance"`
	ChangedAt          time.Time       `json:"changed_at"`
}

// PriceUpdateEvent payload del evento price_update.
type PriceUpdateEvent struct {
	Action string          `json:"action"` // created, updated
	Price  PriceEventPrice `json:"price"`
}

// PriceEventPrice proyección del precio que viaja en eventos.
type PriceEventPrice struct {
	ID            int64            `json:"id"`
	InventoryID   int64            `json:"inventory_id"`
	SellingPrice  decimal.Decimal  `json:"selling_price"`
	CostPrice     decimal.Decimal  `json:"cost_price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	FinalPrice    decimal.Decimal  `json:"final_price"`
	MarginPercent decimal.Decimal  `json:"margin_percent"`
	EffectiveFrom time.Time        `json:"effective_from"`
}

// PriceChangeAlertEvent payload del evento price_alert para cambios significativos.
type PriceChangeAlertEvent struct {
	InventoryID   int64           `json:"inventory_id"`
	SKU           string          `json:"sku"`
	ItemName      string          `json:"item_name"`
	OldPrice      decimal.Decimal `json:"old_price"`
	NewPrice      decimal.Decimal `json:"new_price"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	ChangeAmount  decimal.Decimal `json:"change_amount"`
	AlertType     string          `json:"alert_type"` // major_change, significant_increase, significant_decrease
}
