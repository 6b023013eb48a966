package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de stock derivados de AvailableQuantity vs MinStockLevel.
const (
	StockStatusOut = "out_of_stock"
	StockStatusLow = "low_stock"
	StockStatusOK  = "in_stock"
)

// InventoryItem representa un ítem de inventario monitoreado en tiempo real.
// AvailableQuantity es derivado (stock - reservado) y se recalcula en cada
// mutación que toque StockQuantity o ReservedQuantity.
type InventoryItem struct {
	ID          int64
	SKU         string // código único del ítem
	Name        string
	Description string
	Category    string

	StockQuantity     int
	ReservedQuantity  int
	AvailableQuantity int

	WeightGrams *float64
	Dimensions  string // formato: "largo x ancho x alto"

	CostPrice     decimal.Decimal
	MinStockLevel int
	MaxStockLevel int

	IsActive    bool
	IsTrackable bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComputeAvailable recalcula AvailableQuantity = StockQuantity - ReservedQuantity.
func (i *InventoryItem) ComputeAvailable() {
	i.AvailableQuantity = i.StockQuantity - i.ReservedQuantity
}

// IsLowStock indica si el disponible está en o por debajo del mínimo.
func (i *InventoryItem) IsLowStock() bool {
	return i.AvailableQuantity <= i.MinStockLevel
}

// StockStatus devuelve out_of_stock, low_stock o in_stock según el disponible.
func (i *InventoryItem) StockStatus() string {
	switch {
	case i.AvailableQuantity <= 0:
		return StockStatusOut
	case i.IsLowStock():
		return StockStatusLow
	default:
		return StockStatusOK
	}
}
