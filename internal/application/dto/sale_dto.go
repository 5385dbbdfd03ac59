package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta de entrada.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	WarehouseID string            `json:"warehouse_id"`
	Items       []SaleItemRequest `json:"items"`
}

// UpdateSaleItemsRequest body para PUT /api/sales/:id/items.
type UpdateSaleItemsRequest struct {
	Items []SaleItemRequest `json:"items"`
}

// SaleItemResponse línea de venta persistida.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID          string             `json:"id"`
	WarehouseID string             `json:"warehouse_id"`
	Status      string             `json:"status"`
	Items       []SaleItemResponse `json:"items"`
	CreatedAt   time.Time          `json:"created_at"`
}
