package sales

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/stock"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. Los workflows se prueban contra el motor de stock real
// para que la compensación se verifique de punta a punta.
// ──────────────────────────────────────────────────────────────────────────────

type memStockRepo struct {
	mu     sync.Mutex
	levels map[string]decimal.Decimal // productID -> cantidad (una sola bodega en tests)
}

func newMemStockRepo(seed map[string]int64) *memStockRepo {
	levels := make(map[string]decimal.Decimal, len(seed))
	for id, q := range seed {
		levels[id] = decimal.NewFromInt(q)
	}
	return &memStockRepo{levels: levels}
}

func (m *memStockRepo) quantity(productID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[productID]
}

func (m *memStockRepo) Get(context.Context, string, string) (*entity.StockLevel, error) {
	return nil, nil
}

func (m *memStockRepo) Create(_ context.Context, level *entity.StockLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[level.ProductID] = level.Quantity
	return nil
}

func (m *memStockRepo) AdjustQuantity(_ context.Context, productID, warehouseID string, delta decimal.Decimal) (*repository.StockAdjustment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.levels[productID]
	if !ok {
		return nil, &domain.StockNotConfiguredError{ProductID: productID, WarehouseID: warehouseID}
	}
	next := current.Add(delta)
	if next.IsNegative() {
		return nil, &domain.InsufficientStockError{
			ProductID:   productID,
			WarehouseID: warehouseID,
			OldQuantity: current,
			NewQuantity: next,
		}
	}
	m.levels[productID] = next
	return &repository.StockAdjustment{OldQuantity: current, NewQuantity: next}, nil
}

func (m *memStockRepo) TotalsByProduct(context.Context) ([]repository.ProductStockTotal, error) {
	return nil, nil
}

type memSaleRepo struct {
	mu    sync.Mutex
	sales map[string]*entity.Sale
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sales: make(map[string]*entity.Sale)}
}

func (m *memSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sale
	cp.Items = append([]entity.SaleItem(nil), sale.Items...)
	m.sales[sale.ID] = &cp
	return nil
}

func (m *memSaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	return &cp, nil
}

func (m *memSaleRepo) UpdateStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	return nil
}

func (m *memSaleRepo) ReplaceItems(_ context.Context, saleID string, items []entity.SaleItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[saleID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Items = append([]entity.SaleItem(nil), items...)
	return nil
}

func (m *memSaleRepo) ConsumptionByProduct(context.Context) ([]repository.SaleConsumption, error) {
	return nil, nil
}

// memTxRunner pasa el repo compartido directamente: las pruebas no necesitan
// transaccionalidad real.
type memTxRunner struct {
	saleRepo repository.SaleRepository
}

func (m *memTxRunner) RunSale(ctx context.Context, fn func(saleRepo repository.SaleRepository) error) error {
	return fn(m.saleRepo)
}

type memProductRepo struct {
	names map[string]string
}

func (m *memProductRepo) Create(context.Context, *entity.Product) error { return nil }
func (m *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	name, ok := m.names[id]
	if !ok {
		return nil, nil
	}
	return &entity.Product{ID: id, Name: name}, nil
}
func (m *memProductRepo) List(context.Context, int, int) ([]*entity.Product, error) {
	return nil, nil
}

type memWarehouseRepo struct {
	ids map[string]bool
}

func (m *memWarehouseRepo) Create(context.Context, *entity.Warehouse) error { return nil }
func (m *memWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	if !m.ids[id] {
		return nil, nil
	}
	return &entity.Warehouse{ID: id, Name: "Principal"}, nil
}
func (m *memWarehouseRepo) List(context.Context) ([]*entity.Warehouse, error) { return nil, nil }

type fixture struct {
	uc        *UseCase
	stockRepo *memStockRepo
	saleRepo  *memSaleRepo
}

const whID = "wh-1"

func newFixture(stockSeed map[string]int64, productNames map[string]string) *fixture {
	stockRepo := newMemStockRepo(stockSeed)
	saleRepo := newMemSaleRepo()
	productRepo := &memProductRepo{names: productNames}
	warehouseRepo := &memWarehouseRepo{ids: map[string]bool{whID: true}}
	adjuster := stock.NewService(stockRepo, productRepo, logger.Nop())
	uc := NewUseCase(&memTxRunner{saleRepo: saleRepo}, saleRepo, productRepo, warehouseRepo, adjuster, logger.Nop())
	return &fixture{uc: uc, stockRepo: stockRepo, saleRepo: saleRepo}
}

func items(pairs ...any) []SaleInputItem {
	out := make([]SaleInputItem, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, SaleInputItem{
			ProductID: pairs[i].(string),
			Quantity:  decimal.NewFromInt(pairs[i+1].(int64)),
		})
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_ConsumeStockYQuedaPagada(t *testing.T) {
	f := newFixture(map[string]int64{"p1": 10, "p2": 5}, map[string]string{"p1": "Café", "p2": "Azúcar"})

	sale, res, err := f.uc.CreateSale(context.Background(), "user-1", whID, items("p1", int64(4), "p2", int64(2)))
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, entity.SaleStatusPaid, sale.Status)
	assert.Len(t, sale.Items, 2)

	assert.True(t, f.stockRepo.quantity("p1").Equal(decimal.NewFromInt(6)))
	assert.True(t, f.stockRepo.quantity("p2").Equal(decimal.NewFromInt(3)))

	persisted, err := f.saleRepo.GetByID(context.Background(), sale.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, entity.SaleStatusPaid, persisted.Status)
}

func TestCreateSale_FalloParcial_CompensaYCancela(t *testing.T) {
	// p1 alcanza, p2 no: la línea de p1 se consume y luego se devuelve.
	f := newFixture(map[string]int64{"p1": 10, "p2": 1}, map[string]string{"p1": "Café", "p2": "Azúcar"})

	sale, res, err := f.uc.CreateSale(context.Background(), "user-1", whID, items("p1", int64(4), "p2", int64(2)))
	require.NoError(t, err, "el fallo parcial se reporta en el resultado, no como error")
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, entity.SaleStatusCancelled, sale.Status)

	// El stock queda como antes de la venta: lo aplicado se compensó.
	assert.True(t, f.stockRepo.quantity("p1").Equal(decimal.NewFromInt(10)),
		"la línea aplicada debe devolverse al compensar")
	assert.True(t, f.stockRepo.quantity("p2").Equal(decimal.NewFromInt(1)))

	persisted, err := f.saleRepo.GetByID(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, persisted.Status,
		"la venta persistida nunca queda pagada a medio consumir")
}

func TestCreateSale_BodegaInexistente(t *testing.T) {
	f := newFixture(map[string]int64{"p1": 10}, map[string]string{"p1": "Café"})

	_, _, err := f.uc.CreateSale(context.Background(), "user-1", "wh-fantasma", items("p1", int64(1)))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSale_EntradaInvalida(t *testing.T) {
	f := newFixture(map[string]int64{"p1": 10}, map[string]string{"p1": "Café"})

	_, _, err := f.uc.CreateSale(context.Background(), "user-1", whID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "venta sin líneas")

	_, _, err = f.uc.CreateSale(context.Background(), "user-1", whID, items("p1", int64(0)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// CancelSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelSale_DevuelveStock(t *testing.T) {
	f := newFixture(map[string]int64{"p1": 10}, map[string]string{"p1": "Café"})

	sale, res, err := f.uc.CreateSale(context.Background(), "user-1", whID, items("p1", int64(4)))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.True(t, f.stockRepo.quantity("p1").Equal(decimal.NewFromInt(6)))

	res, err = f.uc.CancelSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, f.stockRepo.quantity("p1").Equal(decimal.NewFromInt(10)),
		"cancelar debe devolver exactamente lo consumido")

	persisted, _ := f.saleRepo.GetByID(context.Background(), sale.ID)
	assert.Equal(t, entity.SaleStatusCancelled, persisted.Status)
}

func TestCancelSale_SoloVentasPagadas(t *testing.T) {
	f := newFixture(map[string]int64{"p1": 10}, map[string]string{"p1": "Café"})

	sale, res, err := f.uc.CreateSale(context.Background(), "user-1", whID, items("p1", int64(4)))
	require.NoError(t, err)
	require.True(t, res.Success)

	_, err = f.uc.CancelSale(context.Background(), sale.ID)
	require.NoError(t, err)

	// Segunda cancelación: la venta ya no está pagada.
	_, err = f.uc.CancelSale(context.Background(), sale.ID)
	assert.ErrorIs(t, err, domain.ErrSaleNotAdjustable,
		"cancelar dos veces no debe devolver stock dos veces")
	assert.True(t, f.stockRepo.quantity("p1").Equal(decimal.NewFromInt(10)))
}

func TestCancelSale_VentaInexistente(t *testing.T) {
	f := newFixture(nil, nil)
	_, err := f.uc.CancelSale(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateSaleItems
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateSaleItems_AplicaDeltaNeto(t *testing.T) {
	f := newFixture(map[string]int64{"p1": 10, "p2": 5}, map[string]string{"p1": "Café", "p2": "Azúcar"})

	sale, res, err := f.uc.CreateSale(context.Background(), "user-1", whID, items("p1", int64(5)))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.True(t, f.stockRepo.quantity("p1").Equal(decimal.NewFromInt(5)))

	// De 5×p1 a 3×p1 + 2×p2: devuelve 2 de p1, consume 2 de p2.
	res, err = f.uc.UpdateSaleItems(context.Background(), sale.ID, items("p1", int64(3), "p2", int64(2)))
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.True(t, f.stockRepo.quantity("p1").Equal(decimal.NewFromInt(7)))
	assert.True(t, f.stockRepo.quantity("p2").Equal(decimal.NewFromInt(3)))

	persisted, _ := f.saleRepo.GetByID(context.Background(), sale.ID)
	require.Len(t, persisted.Items, 2)
	assert.Equal(t, "p1", persisted.Items[0].ProductID)
	assert.True(t, persisted.Items[0].Quantity.Equal(decimal.NewFromInt(3)))
}

func TestUpdateSaleItems_FalloParcial_ConservaLineasOriginales(t *testing.T) {
	// Subir p1 de 2 a 4 cabe; agregar 10×p2 no. El delta de p1 aplicado se
	// compensa y la venta conserva sus líneas.
	f := newFixture(map[string]int64{"p1": 10, "p2": 1}, map[string]string{"p1": "Café", "p2": "Azúcar"})

	sale, res, err := f.uc.CreateSale(context.Background(), "user-1", whID, items("p1", int64(2)))
	require.NoError(t, err)
	require.True(t, res.Success)

	res, err = f.uc.UpdateSaleItems(context.Background(), sale.ID, items("p1", int64(4), "p2", int64(10)))
	require.NoError(t, err)
	assert.False(t, res.Success)

	assert.True(t, f.stockRepo.quantity("p1").Equal(decimal.NewFromInt(8)),
		"el consumo extra de p1 debe haberse devuelto")
	assert.True(t, f.stockRepo.quantity("p2").Equal(decimal.NewFromInt(1)))

	persisted, _ := f.saleRepo.GetByID(context.Background(), sale.ID)
	require.Len(t, persisted.Items, 1)
	assert.True(t, persisted.Items[0].Quantity.Equal(decimal.NewFromInt(2)),
		"las líneas originales no deben tocarse ante fallo parcial")
}

func TestUpdateSaleItems_SinCambios_NoTocaStock(t *testing.T) {
	f := newFixture(map[string]int64{"p1": 10}, map[string]string{"p1": "Café"})

	sale, res, err := f.uc.CreateSale(context.Background(), "user-1", whID, items("p1", int64(5)))
	require.NoError(t, err)
	require.True(t, res.Success)

	res, err = f.uc.UpdateSaleItems(context.Background(), sale.ID, items("p1", int64(5)))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Adjustments, "delta neto vacío no ajusta nada")
	assert.True(t, f.stockRepo.quantity("p1").Equal(decimal.NewFromInt(5)))
}

func TestUpdateSaleItems_VentaCancelada_NoAdmiteEdicion(t *testing.T) {
	f := newFixture(map[string]int64{"p1": 10}, map[string]string{"p1": "Café"})

	sale, res, err := f.uc.CreateSale(context.Background(), "user-1", whID, items("p1", int64(2)))
	require.NoError(t, err)
	require.True(t, res.Success)
	_, err = f.uc.CancelSale(context.Background(), sale.ID)
	require.NoError(t, err)

	_, err = f.uc.UpdateSaleItems(context.Background(), sale.ID, items("p1", int64(1)))
	assert.ErrorIs(t, err, domain.ErrSaleNotAdjustable)
}
