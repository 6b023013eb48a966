package entity

import "github.com/shopspring/decimal"

// InventoryStats agregado sobre los ítems activos: conteos por bucket de stock
// y valor total del inventario (suma de stock_quantity * cost_price).
type InventoryStats struct {
	TotalItems       int
	OutOfStockCount  int
	LowStockCount    int
	NormalStockCount int
	TotalValue       decimal.Decimal
}
