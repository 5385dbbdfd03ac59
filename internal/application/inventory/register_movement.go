package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// MovementInput entrada para registrar un movimiento de inventario.
// Quantity es la magnitud (positiva); Type define el signo.
type MovementInput struct {
	UserID      string
	ProductID   string
	WarehouseID string
	Type        string // IN | OUT
	Quantity    decimal.Decimal
	Reference   string
	Notes       string
}

// RegisterMovementUseCase registra entradas y salidas de inventario de forma
// transaccional: el ajuste atómico de stock y el registro append-only del
// movimiento (con la cantidad previa como fotografía) comparten transacción,
// de modo que el log nunca queda desalineado del stock materializado.
type RegisterMovementUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// RegisterMovement valida la entrada, abre la transacción, ajusta el stock y
// persiste el movimiento confirmado. Devuelve el movimiento registrado.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if input.ProductID == "" || input.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Type != entity.MovementTypeIN && input.Type != entity.MovementTypeOUT {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	signed := input.Quantity
	if input.Type == entity.MovementTypeOUT {
		signed = signed.Neg()
	}

	now := time.Now()
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   input.ProductID,
		WarehouseID: input.WarehouseID,
		Type:        input.Type,
		Status:      entity.MovementStatusConfirmed,
		Quantity:    signed,
		Reference:   input.Reference,
		Notes:       input.Notes,
		CreatedAt:   now,
		CreatedBy:   input.UserID,
	}

	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		adj, err := stockRepo.AdjustQuantity(ctx, input.ProductID, input.WarehouseID, signed)
		if err != nil {
			return err
		}
		mov.QuantityBefore = adj.OldQuantity
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}
