package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel representa la cantidad actual de un producto en una bodega
// (tabla materializada). Existe a lo sumo una fila por par (producto, bodega).
//
// La fila se crea al aprovisionar el producto en la bodega; su ausencia es un
// error de configuración, nunca se auto-crea en caliente. Quantity jamás baja
// de cero: el UPDATE condicional del adaptador lo garantiza.
type StockLevel struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
