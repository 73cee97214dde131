package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación del puerto PurchaseOrderRepository sobre
// PostgreSQL. Las líneas se guardan como JSONB en la misma fila.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador de persistencia para órdenes de compra.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, vendor_id, items, total_amount, status, approved_by, created_at, updated_at`

// Create persiste una nueva orden de compra.
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	items, err := json.Marshal(po.Items)
	if err != nil {
		return fmt.Errorf("marshal po items: %w", err)
	}
	query := `
		INSERT INTO purchase_orders (` + poColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(context.Background(), query,
		po.ID, po.VendorID, items, po.TotalAmount, string(po.Status),
		po.ApprovedBy, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("purchase order %s: %w", po.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de compra por ID.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1`
	po, err := scanPO(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return po, nil
}

// Delete elimina una orden de compra.
func (r *PurchaseOrderRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("purchase order %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List devuelve órdenes filtradas por estado y/o proveedor.
func (r *PurchaseOrderRepo) List(statusFilter entity.POStatus, vendorID string) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE 1=1`
	args := []any{}
	if statusFilter != "" {
		args = append(args, string(statusFilter))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if vendorID != "" {
		args = append(args, vendorID)
		query += fmt.Sprintf(` AND vendor_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		out = append(out, po)
	}
	return out, rows.Err()
}

// UpdateStatusIf aplica la transición solo si el estado actual coincide.
// El WHERE sobre el estado hace la comparación y el cambio atómicos.
func (r *PurchaseOrderRepo) UpdateStatusIf(id string, expected, next entity.POStatus, approvedBy string) (bool, error) {
	query := `
		UPDATE purchase_orders
		SET status = $3,
		    approved_by = CASE WHEN $4 <> '' THEN $4 ELSE approved_by END,
		    updated_at = now()
		WHERE id = $1 AND status = $2`
	cmd, err := r.q.Exec(context.Background(), query, id, string(expected), string(next), approvedBy)
	if err != nil {
		return false, fmt.Errorf("update purchase order status: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return true, nil
	}

	// Distinguir orden inexistente de condición no cumplida.
	var exists bool
	err = r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM purchase_orders WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check purchase order: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("purchase order %s: %w", id, domain.ErrNotFound)
	}
	return false, nil
}

func scanPO(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var status string
	var items []byte
	err := row.Scan(
		&po.ID, &po.VendorID, &items, &po.TotalAmount, &status,
		&po.ApprovedBy, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &po.Items); err != nil {
		return nil, fmt.Errorf("unmarshal po items: %w", err)
	}
	po.Status = entity.POStatus(status)
	return &po, nil
}
