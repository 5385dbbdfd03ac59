package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// StockAdjustment es el resultado de un ajuste atómico: la cantidad antes y
// después de aplicar el cambio.
type StockAdjustment struct {
	OldQuantity decimal.Decimal
	NewQuantity decimal.Decimal
}

// ProductStockTotal es la suma de stock de un producto en todas las bodegas.
type ProductStockTotal struct {
	ProductID string
	Quantity  decimal.Decimal
}

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
type StockRepository interface {
	// Get devuelve la fila de stock o nil si el par no está aprovisionado.
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error)

	// Create aprovisiona la fila de stock (cantidad inicial cero salvo carga de saldo).
	Create(ctx context.Context, level *entity.StockLevel) error

	// AdjustQuantity aplica delta (firmado) sobre la fila en una sola sentencia
	// atómica: nunca lee-y-escribe por separado, de modo que dos ajustes
	// concurrentes sobre el mismo par jamás se pisan (lost update).
	// Retorna *domain.StockNotConfiguredError si no hay fila y
	// *domain.InsufficientStockError si el resultado sería negativo; en ambos
	// casos la fila queda intacta.
	AdjustQuantity(ctx context.Context, productID, warehouseID string, delta decimal.Decimal) (*StockAdjustment, error)

	// TotalsByProduct suma el stock actual por producto en todas las bodegas.
	TotalsByProduct(ctx context.Context) ([]ProductStockTotal, error)
}
