package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN  = "IN"  // entrada de mercancía
	MovementTypeOUT = "OUT" // salida de mercancía
)

// Estados de movimiento. Solo los confirmados cuentan para la conciliación.
const (
	MovementStatusConfirmed = "CONFIRMED"
	MovementStatusDraft     = "DRAFT"
)

// StockMovement es un registro histórico de un cambio de cantidad, con
// fotografía de la cantidad previa. El log de movimientos es append-only:
// una vez confirmado el registro no se modifica.
//
// Quantity es firmada: positiva para IN, negativa para OUT. QuantityBefore
// es la cantidad en la bodega justo antes de aplicar el movimiento; el
// registro cronológicamente primero de un producto define su línea base
// histórica para el auditor.
type StockMovement struct {
	ID             string
	ProductID      string
	WarehouseID    string
	Type           string
	Status         string
	Quantity       decimal.Decimal
	QuantityBefore decimal.Decimal
	Reference      string // factura, orden de compra, nota de ajuste
	Notes          string
	CreatedAt      time.Time
	CreatedBy      string // UserID
}
