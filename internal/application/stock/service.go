package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// ItemAdjustment es el resultado de una línea dentro de un lote: ajuste
// aplicado (con cantidades antes/después) o fallo con su motivo legible.
type ItemAdjustment struct {
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name,omitempty"`
	OldQuantity *decimal.Decimal `json:"old_quantity,omitempty"`
	NewQuantity *decimal.Decimal `json:"new_quantity,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// OperationResult acumula el desenlace real de cada línea de un lote
// best-effort. Success es verdadero solo si ninguna línea falló; Partial
// indica que la cancelación del contexto detuvo el lote antes de procesar
// todas las líneas (lo ya aplicado no se revierte).
type OperationResult struct {
	Success     bool             `json:"success"`
	Partial     bool             `json:"partial,omitempty"`
	Errors      []string         `json:"errors"`
	Adjustments []ItemAdjustment `json:"adjustments"`
}

// Service es el motor de ajustes de stock: una primitiva atómica por línea
// (Adjust) y lotes best-effort construidos sobre ella. Única vía de mutación
// de la tabla de stock.
type Service struct {
	stockRepo   repository.StockRepository
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewService construye el motor de ajustes.
func NewService(stockRepo repository.StockRepository, productRepo repository.ProductRepository, log *logger.Logger) *Service {
	return &Service{stockRepo: stockRepo, productRepo: productRepo, log: log}
}

// Adjust aplica quantityChange (firmado) sobre el par (producto, bodega) en
// una sola operación atómica de almacenamiento. Positivo agrega stock,
// negativo consume. El repositorio garantiza que dos Adjust concurrentes
// sobre la misma fila se serializan: nunca hay lost update.
func (s *Service) Adjust(ctx context.Context, productID, warehouseID string, quantityChange decimal.Decimal) (*repository.StockAdjustment, error) {
	adj, err := s.stockRepo.AdjustQuantity(ctx, productID, warehouseID, quantityChange)
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("product_id", productID).
		Str("warehouse_id", warehouseID).
		Str("change", quantityChange.String()).
		Str("new_quantity", adj.NewQuantity.String()).
		Msg("stock ajustado")
	return adj, nil
}

// ApplySale descuenta del stock cada línea de una venta. Lote best-effort:
// una línea fallida no bloquea a las demás; el resultado reporta línea por
// línea lo que pasó para que el workflow de ventas pueda compensar.
func (s *Service) ApplySale(ctx context.Context, items []SaleLine, warehouseID string) (*OperationResult, error) {
	return s.applyBatch(ctx, negateLines(items), warehouseID)
}

// RevertSale devuelve al stock cada línea de una venta cancelada o eliminada.
// Mismo contrato best-effort que ApplySale.
func (s *Service) RevertSale(ctx context.Context, items []SaleLine, warehouseID string) (*OperationResult, error) {
	deltas := make([]StockDelta, 0, len(items))
	for _, it := range items {
		deltas = append(deltas, StockDelta{ProductID: it.ProductID, QuantityChange: it.Quantity})
	}
	return s.applyBatch(ctx, deltas, warehouseID)
}

// ApplyDeltas aplica deltas firmados (típicamente de CalculateStockDelta al
// editar una venta), con el mismo contrato best-effort de los otros lotes.
func (s *Service) ApplyDeltas(ctx context.Context, deltas []StockDelta, warehouseID string) (*OperationResult, error) {
	return s.applyBatch(ctx, deltas, warehouseID)
}

// applyBatch procesa cada delta de forma independiente: los errores por línea
// se capturan aquí y se convierten en entradas estructuradas del resultado,
// nunca se propagan al caller. Solo un fallo sistémico al arrancar (resolver
// nombres de producto imposible) hace fallar la llamada completa.
func (s *Service) applyBatch(ctx context.Context, deltas []StockDelta, warehouseID string) (*OperationResult, error) {
	names, err := s.resolveNames(ctx, deltas)
	if err != nil {
		return nil, fmt.Errorf("resolver nombres de producto: %w", err)
	}

	res := &OperationResult{
		Errors:      []string{},
		Adjustments: make([]ItemAdjustment, 0, len(deltas)),
	}

	for _, d := range deltas {
		if err := ctx.Err(); err != nil {
			// Cancelación del caller: se detiene el lote sin revertir lo ya
			// aplicado y se reporta el resultado parcial.
			res.Partial = true
			res.Errors = append(res.Errors, "lote interrumpido: "+err.Error())
			break
		}

		name := names[d.ProductID]
		adj, err := s.stockRepo.AdjustQuantity(ctx, d.ProductID, warehouseID, d.QuantityChange)
		if err != nil {
			msg := itemErrorMessage(name, d, err)
			res.Errors = append(res.Errors, msg)
			res.Adjustments = append(res.Adjustments, ItemAdjustment{
				ProductID:   d.ProductID,
				ProductName: name,
				Error:       msg,
			})
			s.log.Warn().
				Str("product_id", d.ProductID).
				Str("warehouse_id", warehouseID).
				Str("change", d.QuantityChange.String()).
				Err(err).
				Msg("línea de lote fallida")
			continue
		}

		oldQ, newQ := adj.OldQuantity, adj.NewQuantity
		res.Adjustments = append(res.Adjustments, ItemAdjustment{
			ProductID:   d.ProductID,
			ProductName: name,
			OldQuantity: &oldQ,
			NewQuantity: &newQ,
		})
	}

	res.Success = len(res.Errors) == 0
	return res, nil
}

// resolveNames busca los nombres de los productos del lote para armar mensajes
// legibles. Un producto desconocido usa su ID como nombre (el ajuste fallará
// por sí solo); un fallo de almacenamiento aquí sí es sistémico.
func (s *Service) resolveNames(ctx context.Context, deltas []StockDelta) (map[string]string, error) {
	names := make(map[string]string, len(deltas))
	for _, d := range deltas {
		if _, ok := names[d.ProductID]; ok {
			continue
		}
		p, err := s.productRepo.GetByID(ctx, d.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			names[d.ProductID] = d.ProductID
			continue
		}
		names[d.ProductID] = p.Name
	}
	return names, nil
}

// itemErrorMessage arma el motivo legible de una línea fallida, referenciando
// el nombre del producto.
func itemErrorMessage(name string, d StockDelta, err error) string {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return fmt.Sprintf("stock insuficiente para %s: disponible %s, se requieren %s",
			name, insufficient.OldQuantity.String(), d.QuantityChange.Abs().String())
	}
	var notConfigured *domain.StockNotConfiguredError
	if errors.As(err, &notConfigured) {
		return fmt.Sprintf("producto %s sin stock configurado en la bodega", name)
	}
	return fmt.Sprintf("error ajustando %s: %v", name, err)
}

func negateLines(items []SaleLine) []StockDelta {
	deltas := make([]StockDelta, 0, len(items))
	for _, it := range items {
		deltas = append(deltas, StockDelta{ProductID: it.ProductID, QuantityChange: it.Quantity.Neg()})
	}
	return deltas
}
