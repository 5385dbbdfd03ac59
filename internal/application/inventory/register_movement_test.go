package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: el runner pasa repos en memoria dentro del mismo "commit"
// ──────────────────────────────────────────────────────────────────────────────

type memStock struct {
	levels map[string]decimal.Decimal // productID -> cantidad
}

func (m *memStock) Get(context.Context, string, string) (*entity.StockLevel, error) {
	return nil, nil
}
func (m *memStock) Create(context.Context, *entity.StockLevel) error { return nil }
func (m *memStock) AdjustQuantity(_ context.Context, productID, warehouseID string, delta decimal.Decimal) (*repository.StockAdjustment, error) {
	current, ok := m.levels[productID]
	if !ok {
		return nil, &domain.StockNotConfiguredError{ProductID: productID, WarehouseID: warehouseID}
	}
	next := current.Add(delta)
	if next.IsNegative() {
		return nil, &domain.InsufficientStockError{
			ProductID: productID, WarehouseID: warehouseID,
			OldQuantity: current, NewQuantity: next,
		}
	}
	m.levels[productID] = next
	return &repository.StockAdjustment{OldQuantity: current, NewQuantity: next}, nil
}
func (m *memStock) TotalsByProduct(context.Context) ([]repository.ProductStockTotal, error) {
	return nil, nil
}

type memMovements struct {
	created []*entity.StockMovement
}

func (m *memMovements) Create(_ context.Context, mov *entity.StockMovement) error {
	m.created = append(m.created, mov)
	return nil
}
func (m *memMovements) ListByProduct(context.Context, string, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (m *memMovements) AggregatesByProduct(context.Context) ([]repository.MovementAggregate, error) {
	return nil, nil
}

// fakeTxRunner simula el commit/rollback: si fn falla, descarta los
// movimientos registrados durante la "transacción".
type fakeTxRunner struct {
	stock *memStock
	movs  *memMovements
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	snapshot := make(map[string]decimal.Decimal, len(f.stock.levels))
	for k, v := range f.stock.levels {
		snapshot[k] = v
	}
	created := len(f.movs.created)
	if err := fn(f.stock, f.movs); err != nil {
		f.stock.levels = snapshot
		f.movs.created = f.movs.created[:created]
		return err
	}
	return nil
}

type oneProduct struct{ id string }

func (o *oneProduct) Create(context.Context, *entity.Product) error { return nil }
func (o *oneProduct) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if id != o.id {
		return nil, nil
	}
	return &entity.Product{ID: id, Name: "Café"}, nil
}
func (o *oneProduct) List(context.Context, int, int) ([]*entity.Product, error) { return nil, nil }

type oneWarehouse struct{ id string }

func (o *oneWarehouse) Create(context.Context, *entity.Warehouse) error { return nil }
func (o *oneWarehouse) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	if id != o.id {
		return nil, nil
	}
	return &entity.Warehouse{ID: id, Name: "Principal"}, nil
}
func (o *oneWarehouse) List(context.Context) ([]*entity.Warehouse, error) { return nil, nil }

func newTestUC(seed int64) (*RegisterMovementUseCase, *memStock, *memMovements) {
	stock := &memStock{levels: map[string]decimal.Decimal{"p1": decimal.NewFromInt(seed)}}
	movs := &memMovements{}
	uc := NewRegisterMovementUseCase(&fakeTxRunner{stock: stock, movs: movs}, &oneProduct{id: "p1"}, &oneWarehouse{id: "wh-1"})
	return uc, stock, movs
}

func input(movType string, qty int64) MovementInput {
	return MovementInput{
		UserID:      "user-1",
		ProductID:   "p1",
		WarehouseID: "wh-1",
		Type:        movType,
		Quantity:    decimal.NewFromInt(qty),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaAjustaYRegistra(t *testing.T) {
	uc, stock, movs := newTestUC(10)

	mov, err := uc.RegisterMovement(context.Background(), input(entity.MovementTypeIN, 5))
	require.NoError(t, err)

	assert.Equal(t, entity.MovementStatusConfirmed, mov.Status)
	assert.True(t, mov.Quantity.Equal(decimal.NewFromInt(5)), "las entradas quedan con signo positivo")
	assert.True(t, mov.QuantityBefore.Equal(decimal.NewFromInt(10)),
		"el movimiento guarda la fotografía previa al ajuste")
	assert.True(t, stock.levels["p1"].Equal(decimal.NewFromInt(15)))
	require.Len(t, movs.created, 1)
}

func TestRegisterMovement_SalidaConSignoNegativo(t *testing.T) {
	uc, stock, _ := newTestUC(10)

	mov, err := uc.RegisterMovement(context.Background(), input(entity.MovementTypeOUT, 4))
	require.NoError(t, err)

	assert.True(t, mov.Quantity.Equal(decimal.NewFromInt(-4)), "las salidas quedan con signo negativo")
	assert.True(t, mov.QuantityBefore.Equal(decimal.NewFromInt(10)))
	assert.True(t, stock.levels["p1"].Equal(decimal.NewFromInt(6)))
}

func TestRegisterMovement_SalidaInsuficiente_NadaPersiste(t *testing.T) {
	uc, stock, movs := newTestUC(3)

	_, err := uc.RegisterMovement(context.Background(), input(entity.MovementTypeOUT, 5))
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
	assert.True(t, stock.levels["p1"].Equal(decimal.NewFromInt(3)), "el stock no debe tocarse")
	assert.Empty(t, movs.created, "el log no debe registrar el movimiento fallido")
}

func TestRegisterMovement_ValidaEntrada(t *testing.T) {
	uc, _, _ := newTestUC(10)

	cases := []struct {
		name string
		in   MovementInput
	}{
		{"TipoDesconocido", input("TRANSFER", 1)},
		{"CantidadCero", input(entity.MovementTypeIN, 0)},
		{"CantidadNegativa", input(entity.MovementTypeIN, -2)},
		{"SinProducto", MovementInput{WarehouseID: "wh-1", Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RegisterMovement(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRegisterMovement_ProductoOBodegaInexistente(t *testing.T) {
	uc, _, _ := newTestUC(10)

	in := input(entity.MovementTypeIN, 1)
	in.ProductID = "fantasma"
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = input(entity.MovementTypeIN, 1)
	in.WarehouseID = "wh-fantasma"
	_, err = uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
