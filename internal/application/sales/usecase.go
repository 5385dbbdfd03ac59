package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/stock"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// UseCase orquesta los workflows de venta sobre el motor de stock: crear
// (consumir), cancelar (devolver) y editar líneas (delta neto). El motor es
// best-effort por línea; la compensación ante fallos parciales vive aquí.
type UseCase struct {
	txRunner      SaleTxRunner
	saleRepo      repository.SaleRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	adjuster      StockAdjuster
	log           *logger.Logger
}

// NewUseCase construye los workflows de venta.
func NewUseCase(
	txRunner SaleTxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	adjuster StockAdjuster,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		saleRepo:      saleRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		adjuster:      adjuster,
		log:           log,
	}
}

// SaleInputItem línea de venta de entrada (cantidad positiva).
type SaleInputItem struct {
	ProductID string
	Quantity  decimal.Decimal
}

// CreateSale persiste la venta pagada y descuenta el stock. Si el descuento
// falla en alguna línea, se compensa: las líneas que sí aplicaron se
// devuelven y la venta queda cancelada, de modo que el estado persistido
// nunca refleja una venta a medio consumir. El resultado del lote se devuelve
// siempre para que el caller vea qué pasó línea por línea.
func (uc *UseCase) CreateSale(ctx context.Context, userID, warehouseID string, items []SaleInputItem) (*entity.Sale, *stock.OperationResult, error) {
	if warehouseID == "" || len(items) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, nil, err
	}
	if wh == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines := make([]stock.SaleLine, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if product == nil {
			return nil, nil, domain.ErrNotFound
		}
		lines = append(lines, stock.SaleLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:          uuid.New().String(),
		WarehouseID: warehouseID,
		Status:      entity.SaleStatusPaid,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   userID,
	}
	for _, l := range lines {
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}

	// Cabecera y líneas en una sola transacción.
	if err := uc.txRunner.RunSale(ctx, func(saleRepo repository.SaleRepository) error {
		return saleRepo.Create(ctx, sale)
	}); err != nil {
		return nil, nil, err
	}

	res, err := uc.adjuster.ApplySale(ctx, lines, warehouseID)
	if err != nil {
		// Fallo sistémico antes de tocar stock: la venta no debe contar.
		_ = uc.saleRepo.UpdateStatus(ctx, sale.ID, entity.SaleStatusCancelled)
		return nil, nil, err
	}
	if !res.Success {
		uc.compensate(ctx, res, warehouseID)
		if err := uc.saleRepo.UpdateStatus(ctx, sale.ID, entity.SaleStatusCancelled); err != nil {
			uc.log.Error().Err(err).Str("sale_id", sale.ID).Msg("no se pudo cancelar la venta tras fallo de stock")
		}
		sale.Status = entity.SaleStatusCancelled
		uc.log.Warn().Str("sale_id", sale.ID).Int("errors", len(res.Errors)).Msg("venta compensada por consumo parcial")
	}
	return sale, res, nil
}

// CancelSale devuelve al stock las líneas de una venta pagada y la marca
// cancelada. Si la devolución falla parcialmente, la venta sigue pagada y el
// resultado reporta las líneas pendientes para reintentar.
func (uc *UseCase) CancelSale(ctx context.Context, saleID string) (*stock.OperationResult, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusPaid {
		return nil, domain.ErrSaleNotAdjustable
	}

	lines := saleLines(sale.Items)
	res, err := uc.adjuster.RevertSale(ctx, lines, sale.WarehouseID)
	if err != nil {
		return nil, err
	}
	if res.Success {
		if err := uc.saleRepo.UpdateStatus(ctx, saleID, entity.SaleStatusCancelled); err != nil {
			return res, err
		}
	}
	return res, nil
}

// UpdateSaleItems edita las líneas de una venta pagada: calcula el delta neto
// por producto entre líneas viejas y nuevas y lo aplica. Solo si todo el
// delta aplicó se persisten las nuevas líneas; ante fallo parcial se
// compensa lo aplicado y la venta conserva sus líneas originales.
func (uc *UseCase) UpdateSaleItems(ctx context.Context, saleID string, newItems []SaleInputItem) (*stock.OperationResult, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusPaid {
		return nil, domain.ErrSaleNotAdjustable
	}
	newLines := make([]stock.SaleLine, 0, len(newItems))
	for _, it := range newItems {
		if it.ProductID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		newLines = append(newLines, stock.SaleLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	deltas := stock.CalculateStockDelta(saleLines(sale.Items), newLines)
	res, err := uc.adjuster.ApplyDeltas(ctx, deltas, sale.WarehouseID)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		uc.compensate(ctx, res, sale.WarehouseID)
		return res, nil
	}

	items := make([]entity.SaleItem, 0, len(newLines))
	for _, l := range newLines {
		items = append(items, entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	// Borrado e inserción de líneas en una sola transacción.
	if err := uc.txRunner.RunSale(ctx, func(saleRepo repository.SaleRepository) error {
		return saleRepo.ReplaceItems(ctx, saleID, items)
	}); err != nil {
		return res, err
	}
	return res, nil
}

// compensate revierte las líneas que sí aplicaron dentro de un lote fallido,
// negando cada ajuste exitoso. Un fallo aquí solo se registra: el auditor de
// conciliación detectará el residuo.
func (uc *UseCase) compensate(ctx context.Context, res *stock.OperationResult, warehouseID string) {
	reverse := make([]stock.StockDelta, 0, len(res.Adjustments))
	for _, adj := range res.Adjustments {
		if adj.Error != "" || adj.OldQuantity == nil || adj.NewQuantity == nil {
			continue
		}
		applied := adj.NewQuantity.Sub(*adj.OldQuantity)
		if applied.IsZero() {
			continue
		}
		reverse = append(reverse, stock.StockDelta{ProductID: adj.ProductID, QuantityChange: applied.Neg()})
	}
	if len(reverse) == 0 {
		return
	}
	if compRes, err := uc.adjuster.ApplyDeltas(ctx, reverse, warehouseID); err != nil || !compRes.Success {
		uc.log.Error().Str("warehouse_id", warehouseID).Msg("compensación de stock incompleta")
	}
}

func saleLines(items []entity.SaleItem) []stock.SaleLine {
	lines := make([]stock.SaleLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, stock.SaleLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}
