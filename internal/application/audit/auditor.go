package audit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// Estados de una fila de auditoría.
const (
	StatusOK        = "ok"
	StatusDivergent = "divergent"
)

// divergenceTolerance absorbe acumulación de redondeo en cantidades
// fraccionarias: |delta| >= 0.01 se considera divergencia real.
var divergenceTolerance = decimal.NewFromFloat(0.01)

// Row es el resultado de conciliación de un producto. Valor derivado, nunca
// se persiste.
type Row struct {
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	OpeningQuantity    decimal.Decimal `json:"opening_quantity"`
	TotalEntries       decimal.Decimal `json:"total_entries"`
	TotalExits         decimal.Decimal `json:"total_exits"`
	TotalSalesConsumed decimal.Decimal `json:"total_sales_consumed"`
	ExpectedQuantity   decimal.Decimal `json:"expected_quantity"`
	ActualQuantity     decimal.Decimal `json:"actual_quantity"`
	Delta              decimal.Decimal `json:"delta"`
	Status             string          `json:"status"`
}

// Summary acompaña la lista de filas: conteos por estado y cuántos registros
// crudos examinó la corrida (para verificar que la auditoría tuvo datos).
type Summary struct {
	TotalProducts     int   `json:"total_products"`
	OKCount           int   `json:"ok_count"`
	DivergentCount    int   `json:"divergent_count"`
	MovementsExamined int64 `json:"movements_examined"`
	SaleItemsExamined int64 `json:"sale_items_examined"`
}

// Report es la salida completa de una corrida del auditor.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Rows        []Row     `json:"rows"`
	Summary     Summary   `json:"summary"`
}

// Auditor recomputa, por producto, la cantidad esperada a partir del log de
// movimientos y el consumo de ventas pagadas, y la compara contra la tabla de
// stock materializada. Proceso batch de solo lectura, sin estado: una venta en
// vuelo puede producir una divergencia transitoria que desaparece en la
// siguiente corrida.
type Auditor struct {
	stockRepo    repository.StockRepository
	movementRepo repository.StockMovementRepository
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	log          *logger.Logger
}

// NewAuditor construye el auditor de conciliación.
func NewAuditor(
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *Auditor {
	return &Auditor{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		log:          log,
	}
}

// Run ejecuta la conciliación completa. Cualquier fallo leyendo los datos
// aborta toda la corrida con domain.ErrAuditUnavailable: al ser solo lectura
// no hay éxito parcial que valga la pena reportar.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	stockTotals, err := a.stockRepo.TotalsByProduct(ctx)
	if err != nil {
		return nil, unavailable("totales de stock", err)
	}
	movAggs, err := a.movementRepo.AggregatesByProduct(ctx)
	if err != nil {
		return nil, unavailable("movimientos", err)
	}
	consumptions, err := a.saleRepo.ConsumptionByProduct(ctx)
	if err != nil {
		return nil, unavailable("consumo de ventas", err)
	}
	products, err := a.productRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, unavailable("productos", err)
	}

	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	// Universo de productos a conciliar: todo lo que aparezca en stock,
	// movimientos o ventas, aunque el catálogo esté incompleto.
	type productData struct {
		actual   decimal.Decimal
		agg      *repository.MovementAggregate
		consumed decimal.Decimal
	}
	byProduct := make(map[string]*productData)
	order := make([]string, 0)
	get := func(productID string) *productData {
		if d, ok := byProduct[productID]; ok {
			return d
		}
		d := &productData{}
		byProduct[productID] = d
		order = append(order, productID)
		return d
	}

	for _, t := range stockTotals {
		get(t.ProductID).actual = t.Quantity
	}
	var movementsExamined int64
	for i := range movAggs {
		agg := movAggs[i]
		get(agg.ProductID).agg = &agg
		movementsExamined += agg.MovementCount
	}
	var saleItemsExamined int64
	for _, c := range consumptions {
		get(c.ProductID).consumed = c.Quantity
		saleItemsExamined += c.ItemCount
	}

	rows := make([]Row, 0, len(order))
	summary := Summary{
		MovementsExamined: movementsExamined,
		SaleItemsExamined: saleItemsExamined,
	}

	for _, productID := range order {
		d := byProduct[productID]

		var totalIn, totalOut decimal.Decimal
		var firstBefore *decimal.Decimal
		if d.agg != nil {
			totalIn = d.agg.TotalIn
			totalOut = d.agg.TotalOut
			firstBefore = d.agg.FirstQuantityBefore
		}

		// Línea base: la fotografía previa del primer movimiento. Sin
		// historial se asume que el stock actual queda explicado por lo
		// registrado (la divergencia previa a todo registro es inobservable).
		var opening decimal.Decimal
		if firstBefore != nil {
			opening = *firstBefore
		} else {
			opening = d.actual.Sub(totalIn).Add(totalOut).Add(d.consumed)
		}

		expected := opening.Add(totalIn).Sub(totalOut).Sub(d.consumed)
		delta := d.actual.Sub(expected)

		status := StatusOK
		if delta.Abs().GreaterThanOrEqual(divergenceTolerance) {
			status = StatusDivergent
			summary.DivergentCount++
		} else {
			summary.OKCount++
		}

		name := names[productID]
		if name == "" {
			name = productID
		}

		rows = append(rows, Row{
			ProductID:          productID,
			ProductName:        name,
			OpeningQuantity:    opening,
			TotalEntries:       totalIn,
			TotalExits:         totalOut,
			TotalSalesConsumed: d.consumed,
			ExpectedQuantity:   expected,
			ActualQuantity:     d.actual,
			Delta:              delta,
			Status:             status,
		})
	}
	summary.TotalProducts = len(rows)

	// Divergentes primero para que el operador las vea sin recorrer toda la
	// lista; dentro de cada grupo, alfabético por nombre con colación española.
	coll := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Status != rows[j].Status {
			return rows[i].Status == StatusDivergent
		}
		return coll.CompareString(rows[i].ProductName, rows[j].ProductName) < 0
	})

	a.log.Info().
		Int("products", summary.TotalProducts).
		Int("divergent", summary.DivergentCount).
		Int64("movements", summary.MovementsExamined).
		Int64("sale_items", summary.SaleItemsExamined).
		Msg("conciliación ejecutada")

	return &Report{GeneratedAt: time.Now(), Rows: rows, Summary: summary}, nil
}

func unavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrAuditUnavailable, what, err)
}
