package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInventoryRequest entrada para crear un ítem de inventario.
type CreateInventoryRequest struct {
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	StockQuantity    int             `json:"stock_quantity"`
	ReservedQuantity int             `json:"reserved_quantity"`
	WeightGrams      *float64        `json:"weight,omitempty"`
	Dimensions       string          `json:"dimensions,omitempty"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	MinStockLevel    int             `json:"min_stock_level"`
	MaxStockLevel    int             `json:"max_stock_level"`
	IsActive         *bool           `json:"is_active,omitempty"`
	IsTrackable      *bool           `json:"is_trackable,omitempty"`
}

// UpdateInventoryRequest actualización parcial; solo los campos presentes se aplican.
// available_quantity no es editable: se recalcula si cambia stock o reservado.
type UpdateInventoryRequest struct {
	SKU              *string          `json:"sku,omitempty"`
	Name             *string          `json:"name,omitempty"`
	Description      *string          `json:"description,omitempty"`
	Category         *string          `json:"category,omitempty"`
	StockQuantity    *int             `json:"stock_quantity,omitempty"`
	ReservedQuantity *int             `json:"reserved_quantity,omitempty"`
	WeightGrams      *float64         `json:"weight,omitempty"`
	Dimensions       *string          `json:"dimensions,omitempty"`
	CostPrice        *decimal.Decimal `json:"cost_price,omitempty"`
	MinStockLevel    *int             `json:"min_stock_level,omitempty"`
	MaxStockLevel    *int             `json:"max_stock_level,omitempty"`
	IsActive         *bool            `json:"is_active,omitempty"`
	IsTrackable      *bool            `json:"is_trackable,omitempty"`
}

// InventoryResponse forma única de respuesta para ítems de inventario.
// Tanto el camino de cache como el de consulta viva serializan esta struct,
// así un hit y un miss devuelven contenido lógico idéntico.
type InventoryResponse struct {
	ID                int64           `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	StockQuantity     int             `json:"stock_quantity"`
	ReservedQuantity  int             `json:"reserved_quantity"`
	AvailableQuantity int             `json:"available_quantity"`
	WeightGrams       *float64        `json:"weight,omitempty"`
	Dimensions        string          `json:"dimensions,omitempty"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	MinStockLevel     int             `json:"min_stock_level"`
	MaxStockLevel     int             `json:"max_stock_level"`
	IsActive          bool            `json:"is_active"`
	IsTrackable       bool            `json:"is_trackable"`
	IsLowStock        bool            `json:"is_low_stock"`
	StockStatus       string          `json:"stock_status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// InventoryListResponse página de ítems.
type InventoryListResponse struct {
	Items []InventoryResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// StockAlertResponse vista normalizada de alerta de stock bajo.
type StockAlertResponse struct {
	ID             int64  `json:"id"`
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	CurrentStock   int    `json:"current_stock"`
	MinStockLevel  int    `json:"min_stock_level"`
	ShortageAmount int    `json:"shortage_amount"`
	AlertLevel     string `json:"alert_level"` // out_of_stock, critical, low
}

// InventoryStatsResponse agregado de inventario (sin cache, uso batch).
type InventoryStatsResponse struct {
	TotalItems            int             `json:"total_items"`
	OutOfStockCount       int             `json:"out_of_stock_count"`
	LowStockCount         int             `json:"low_stock_count"`
	NormalStockCount      int             `json:"normal_stock_count"`
	TotalValue            decimal.Decimal `json:"total_value"`
	NormalStockPercentage float64         `json:"normal_stock_percentage"`
	LowStockPercentage    float64         `json:"low_stock_percentage"`
	OutOfStockPercentage  float64         `json:"out_of_stock_percentage"`
}

// InventoryUpdateEvent payload del evento inventory_update.
type InventoryUpdateEvent struct {
	Action string             `json:"action"` // created, updated, deleted
	Item   InventoryEventItem `json:"item"`
}

// InventoryEventItem proyección del ítem que viaja en eventos de inventario.
type InventoryEventItem struct {
	ID                int64  `json:"id"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	StockQuantity     int    `json:"stock_quantity"`
	AvailableQuantity int    `json:"available_quantity"`
	IsLowStock        bool   `json:"is_low_stock"`
	StockStatus       string `json:"stock_status"`
}

// StockAlertEvent payload del evento stock_alert.
type StockAlertEvent struct {
	ItemID        int64  `json:"item_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	CurrentStock  int    `json:"current_stock"`
	MinStockLevel int    `json:"min_stock_level"`
	AlertLevel    string `json:"alert_level"` // critical, warning
	Message       string `json:"message"`
}
