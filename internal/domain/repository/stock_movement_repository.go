package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// MovementAggregate condensa el historial confirmado de un producto:
// entradas y salidas en magnitud, la fotografía previa del primer movimiento
// (línea base histórica) y cuántos registros se examinaron.
type MovementAggregate struct {
	ProductID           string
	TotalIn             decimal.Decimal
	TotalOut            decimal.Decimal
	FirstQuantityBefore *decimal.Decimal // nil si el producto no tiene historial
	FirstCreatedAt      *time.Time
	MovementCount       int64
}

// StockMovementRepository define el puerto de persistencia del log de movimientos.
// El log es append-only: solo Create escribe, el resto son lecturas.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)

	// AggregatesByProduct agrega los movimientos CONFIRMED por producto.
	AggregatesByProduct(ctx context.Context) ([]MovementAggregate, error)
}
