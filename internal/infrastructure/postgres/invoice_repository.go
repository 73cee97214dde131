package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL.
// La unicidad global de invoice_number la garantiza el índice único del esquema.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de persistencia para facturas.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, po_id, invoice_number, items, total_amount, status, approved_by, approved_at, notes, created_at, updated_at`

// Create persiste una nueva factura.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("marshal invoice items: %w", err)
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.q.Exec(context.Background(), query,
		inv.ID, inv.POID, inv.InvoiceNumber, items, inv.TotalAmount,
		string(inv.Status), inv.ApprovedBy, inv.ApprovedAt, inv.Notes,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", inv.InvoiceNumber, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByNumber obtiene una factura por su número único.
func (r *InvoiceRepo) GetByNumber(invoiceNumber string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, invoiceNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice number %s: %w", invoiceNumber, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get invoice by number: %w", err)
	}
	return inv, nil
}

// Update actualiza líneas, total y notas. El estado no se toca aquí.
func (r *InvoiceRepo) Update(inv *entity.Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("marshal invoice items: %w", err)
	}
	query := `
		UPDATE invoices
		SET items = $2, total_amount = $3, notes = $4, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, inv.ID, items, inv.TotalAmount, inv.Notes)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s: %w", inv.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina una factura.
func (r *InvoiceRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List devuelve facturas filtradas por estado y/o OC.
func (r *InvoiceRepo) List(statusFilter entity.InvoiceStatus, poID string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	args := []any{}
	if statusFilter != "" {
		args = append(args, string(statusFilter))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if poID != "" {
		args = append(args, poID)
		query += fmt.Sprintf(` AND po_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// UpdateStatusIf aplica la transición solo si el estado actual coincide.
// Es el guard at-most-once del motor de conciliación: dos procesos pueden
// evaluar la misma factura, pero solo uno consigue la fila.
func (r *InvoiceRepo) UpdateStatusIf(id string, expected, next entity.InvoiceStatus) (bool, error) {
	query := `
		UPDATE invoices SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`
	cmd, err := r.q.Exec(context.Background(), query, id, string(expected), string(next))
	if err != nil {
		return false, fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	err = r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	return false, nil
}

// SetApproval registra los metadatos de aprobación sin tocar el estado.
func (r *InvoiceRepo) SetApproval(id, approvedBy string, approvedAt time.Time) error {
	query := `
		UPDATE invoices SET approved_by = $2, approved_at = $3, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, id, approvedBy, approvedAt)
	if err != nil {
		return fmt.Errorf("set invoice approval: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status string
	var items []byte
	err := row.Scan(
		&inv.ID, &inv.POID, &inv.InvoiceNumber, &items, &inv.TotalAmount,
		&status, &inv.ApprovedBy, &inv.ApprovedAt, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("unmarshal invoice items: %w", err)
	}
	inv.Status = entity.InvoiceStatus(status)
	return &inv, nil
}
