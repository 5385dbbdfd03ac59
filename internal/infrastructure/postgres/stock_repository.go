package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la fila de stock, o nil si el par no está aprovisionado.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2`
	var s entity.StockLevel
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Create aprovisiona la fila de stock para un par (producto, bodega).
func (r *StockRepo) Create(ctx context.Context, level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())`
	_, err := r.q.Exec(ctx, query, level.ProductID, level.WarehouseID, level.Quantity)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// AdjustQuantity aplica el delta en una sola sentencia condicional: la
// cantidad nueva se calcula y valida (>= 0) dentro del UPDATE, nunca con un
// read-modify-write separado, así dos ajustes concurrentes sobre la misma
// fila se serializan a nivel de fila y no hay lost update.
func (r *StockRepo) AdjustQuantity(ctx context.Context, productID, warehouseID string, delta decimal.Decimal) (*repository.StockAdjustment, error) {
	query := `
		UPDATE stock_levels
		SET quantity = quantity + $3, updated_at = now()
		WHERE product_id = $1 AND warehouse_id = $2 AND quantity + $3 >= 0
		RETURNING quantity`
	var newQty decimal.Decimal
	err := r.q.QueryRow(ctx, query, productID, warehouseID, delta).Scan(&newQty)
	if err == nil {
		return &repository.StockAdjustment{
			OldQuantity: newQty.Sub(delta),
			NewQuantity: newQty,
		}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}

	// El UPDATE no tocó fila: o el par no está aprovisionado o el resultado
	// sería negativo. La lectura extra es solo para diagnóstico.
	var current decimal.Decimal
	err = r.q.QueryRow(ctx,
		`SELECT quantity FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.StockNotConfiguredError{ProductID: productID, WarehouseID: warehouseID}
	}
	if err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	return nil, &domain.InsufficientStockError{
		ProductID:   productID,
		WarehouseID: warehouseID,
		OldQuantity: current,
		NewQuantity: current.Add(delta),
	}
}

// TotalsByProduct suma el stock actual por producto en todas las bodegas.
func (r *StockRepo) TotalsByProduct(ctx context.Context) ([]repository.ProductStockTotal, error) {
	query := `
		SELECT product_id, COALESCE(SUM(quantity), 0)
		FROM stock_levels
		GROUP BY product_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stock totals: %w", err)
	}
	defer rows.Close()

	var totals []repository.ProductStockTotal
	for rows.Next() {
		var t repository.ProductStockTotal
		if err := rows.Scan(&t.ProductID, &t.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stock totals: %w", err)
	}
	return totals, nil
}
