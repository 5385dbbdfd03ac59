package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del puerto StockMovementRepository sobre
// PostgreSQL (usable con pool o tx). El log es append-only: no hay UPDATE ni
// DELETE sobre stock_movements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento con su fotografía de cantidad previa.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, warehouse_id, type, status, quantity, quantity_before, reference, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.WarehouseID, m.Type, m.Status,
		m.Quantity, m.QuantityBefore, m.Reference, m.Notes, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByProduct lista los movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, product_id, warehouse_id, type, status, quantity, quantity_before, reference, notes, created_at, created_by
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.WarehouseID, &m.Type, &m.Status,
			&m.Quantity, &m.QuantityBefore, &m.Reference, &m.Notes, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}

// AggregatesByProduct agrega los movimientos CONFIRMED por producto: entradas
// y salidas en magnitud, más la fotografía previa del movimiento más antiguo
// (la línea base histórica del producto).
func (r *StockMovementRepo) AggregatesByProduct(ctx context.Context) ([]repository.MovementAggregate, error) {
	query := `
		SELECT m.product_id,
		       COALESCE(SUM(CASE WHEN m.type = 'IN'  THEN ABS(m.quantity) ELSE 0 END), 0) AS total_in,
		       COALESCE(SUM(CASE WHEN m.type = 'OUT' THEN ABS(m.quantity) ELSE 0 END), 0) AS total_out,
		       (SELECT f.quantity_before FROM stock_movements f
		         WHERE f.product_id = m.product_id AND f.status = 'CONFIRMED'
		         ORDER BY f.created_at ASC, f.id ASC LIMIT 1) AS first_quantity_before,
		       (SELECT f.created_at FROM stock_movements f
		         WHERE f.product_id = m.product_id AND f.status = 'CONFIRMED'
		         ORDER BY f.created_at ASC, f.id ASC LIMIT 1) AS first_created_at,
		       COUNT(*) AS movement_count
		FROM stock_movements m
		WHERE m.status = 'CONFIRMED'
		GROUP BY m.product_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("movement aggregates: %w", err)
	}
	defer rows.Close()

	var aggs []repository.MovementAggregate
	for rows.Next() {
		var a repository.MovementAggregate
		if err := rows.Scan(
			&a.ProductID, &a.TotalIn, &a.TotalOut,
			&a.FirstQuantityBefore, &a.FirstCreatedAt, &a.MovementCount,
		); err != nil {
			return nil, fmt.Errorf("scan movement aggregate: %w", err)
		}
		aggs = append(aggs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("movement aggregates: %w", err)
	}
	return aggs, nil
}
