package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. Solo las ventas pagadas consumen stock y cuentan
// para la conciliación; una venta cancelada debe haber devuelto todo lo
// que consumió.
const (
	SaleStatusPending   = "pending"
	SaleStatusPaid      = "paid"
	SaleStatusCancelled = "cancelled"
)

// Sale representa una venta con sus líneas.
type Sale struct {
	ID          string
	WarehouseID string
	Status      string
	Items       []SaleItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string // UserID
}

// SaleItem es una línea de venta: cantidad consumida de un producto.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  decimal.Decimal // siempre positiva
}
