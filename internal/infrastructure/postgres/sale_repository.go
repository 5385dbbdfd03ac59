package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste cabecera y líneas. Llamar dentro del TxRunner para que
// ambas queden en la misma transacción.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, warehouse_id, status, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.WarehouseID, sale.Status, sale.CreatedAt, sale.UpdatedAt, sale.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, item := range sale.Items {
		if err := r.insertItem(ctx, &item); err != nil {
			return err
		}
	}
	return nil
}

func (r *SaleRepo) insertItem(ctx context.Context, item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, item.ID, item.SaleID, item.ProductID, item.Quantity)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene la venta con sus líneas, o nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `
		SELECT id, warehouse_id, status, created_at, updated_at, created_by
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.WarehouseID, &s.Status, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	itemsQuery := `
		SELECT id, sale_id, product_id, quantity
		FROM sale_items WHERE sale_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	return &s, nil
}

// UpdateStatus cambia el estado de la venta.
func (r *SaleRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE sales SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems reemplaza las líneas de la venta. Llamar dentro del TxRunner.
func (r *SaleRepo) ReplaceItems(ctx context.Context, saleID string, items []entity.SaleItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	for _, item := range items {
		if err := r.insertItem(ctx, &item); err != nil {
			return err
		}
	}
	if _, err := r.q.Exec(ctx, `UPDATE sales SET updated_at = now() WHERE id = $1`, saleID); err != nil {
		return fmt.Errorf("touch sale: %w", err)
	}
	return nil
}

// ConsumptionByProduct suma las cantidades de líneas de ventas pagadas.
// Ni pending ni cancelled aportan consumo.
func (r *SaleRepo) ConsumptionByProduct(ctx context.Context) ([]repository.SaleConsumption, error) {
	query := `
		SELECT si.product_id, COALESCE(SUM(si.quantity), 0), COUNT(*)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.status = 'paid'
		GROUP BY si.product_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sale consumption: %w", err)
	}
	defer rows.Close()

	var consumptions []repository.SaleConsumption
	for rows.Next() {
		var c repository.SaleConsumption
		if err := rows.Scan(&c.ProductID, &c.Quantity, &c.ItemCount); err != nil {
			return nil, fmt.Errorf("scan sale consumption: %w", err)
		}
		consumptions = append(consumptions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sale consumption: %w", err)
	}
	return consumptions, nil
}
