package sales

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/application/stock"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// StockAdjuster es el contrato que los workflows de venta necesitan del motor
// de ajustes: lotes best-effort con resultado línea por línea.
type StockAdjuster interface {
	ApplySale(ctx context.Context, items []stock.SaleLine, warehouseID string) (*stock.OperationResult, error)
	RevertSale(ctx context.Context, items []stock.SaleLine, warehouseID string) (*stock.OperationResult, error)
	ApplyDeltas(ctx context.Context, deltas []stock.StockDelta, warehouseID string) (*stock.OperationResult, error)
}

// SaleTxRunner ejecuta fn con un SaleRepository atado a una transacción, para
// que cabecera y líneas de la venta se persistan atómicamente.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(saleRepo repository.SaleRepository) error) error
}
