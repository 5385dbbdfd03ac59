package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrSaleNotAdjustable  = errors.New("la venta no admite ajustes de inventario en su estado actual")
	ErrAuditUnavailable   = errors.New("datos de auditoría no disponibles")
)

// StockNotConfiguredError indica que el par (producto, bodega) no tiene fila
// de stock. Es un error de configuración: el caller debe aprovisionar la fila,
// nunca se crea en silencio.
type StockNotConfiguredError struct {
	ProductID   string
	WarehouseID string
}

func (e *StockNotConfiguredError) Error() string {
	return fmt.Sprintf("stock no configurado para producto %s en bodega %s", e.ProductID, e.WarehouseID)
}

// InsufficientStockError indica que el ajuste dejaría la cantidad en negativo.
// El stock queda intacto. OldQuantity y NewQuantity (la cantidad que habría
// resultado) se conservan para diagnóstico.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	OldQuantity decimal.Decimal
	NewQuantity decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en bodega %s: disponible %s, resultado solicitado %s",
		e.ProductID, e.WarehouseID, e.OldQuantity.String(), e.NewQuantity.String())
}
