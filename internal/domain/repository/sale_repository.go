package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// SaleConsumption es el total consumido por ventas pagadas para un producto,
// con el número de líneas examinadas.
type SaleConsumption struct {
	ProductID string
	Quantity  decimal.Decimal
	ItemCount int64
}

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	// Create persiste cabecera y líneas. Dentro del TxRunner ambas quedan en
	// la misma transacción.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	UpdateStatus(ctx context.Context, id, status string) error

	// ReplaceItems reemplaza las líneas de la venta (edición de venta).
	ReplaceItems(ctx context.Context, saleID string, items []entity.SaleItem) error

	// ConsumptionByProduct suma las cantidades de líneas cuyas ventas están en
	// estado paid. Ni pending ni cancelled aportan consumo.
	ConsumptionByProduct(ctx context.Context) ([]SaleConsumption, error)
}
