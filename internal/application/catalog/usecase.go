// Package catalog gestiona productos, bodegas y el aprovisionamiento de
// filas de stock (la fila nace en cero; el saldo inicial se carga con un
// movimiento IN para que quede línea base en el log).
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// UseCase agrupa las operaciones de catálogo.
type UseCase struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
) *UseCase {
	return &UseCase{productRepo: productRepo, warehouseRepo: warehouseRepo, stockRepo: stockRepo}
}

// CreateProduct valida y persiste un producto.
func (uc *UseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	p := &entity.Product{
		ID:          uuid.NewString(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		UnitMeasure: in.UnitMeasure,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct devuelve un producto o ErrNotFound.
func (uc *UseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ListProducts lista productos paginados.
func (uc *UseCase) ListProducts(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.productRepo.List(ctx, limit, offset)
}

// CreateWarehouse valida y persiste una bodega.
func (uc *UseCase) CreateWarehouse(ctx context.Context, in dto.CreateWarehouseRequest) (*entity.Warehouse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	w := &entity.Warehouse{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.warehouseRepo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// ListWarehouses lista todas las bodegas.
func (uc *UseCase) ListWarehouses(ctx context.Context) ([]*entity.Warehouse, error) {
	return uc.warehouseRepo.List(ctx)
}

// ProvisionStock crea la fila de stock (producto, bodega) con cantidad cero.
// Sin la fila, todo ajuste sobre el par falla con StockNotConfiguredError.
func (uc *UseCase) ProvisionStock(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	w, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	level := &entity.StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    decimal.Zero,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := uc.stockRepo.Create(ctx, level); err != nil {
		return nil, err
	}
	return level, nil
}
