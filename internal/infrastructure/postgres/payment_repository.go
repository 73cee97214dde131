package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación del puerto PaymentRepository sobre PostgreSQL.
// El índice único sobre invoice_id garantiza un pago por factura aunque dos
// aprobaciones corran en paralelo.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador de persistencia para pagos.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, invoice_id, vendor_id, amount, currency, status, approved_at, xml_key, json_key, workday_confirmed_at, workday_callback_received, created_at, updated_at`

// Create persiste un nuevo pago.
func (r *PaymentRepo) Create(p *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.InvoiceID, p.VendorID, p.Amount, p.Currency, string(p.Status),
		p.ApprovedAt, p.XMLKey, p.JSONKey, p.WorkdayConfirmedAt,
		p.WorkdayCallbackReceived, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("payment for invoice %s: %w", p.InvoiceID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene un pago por ID.
func (r *PaymentRepo) GetByID(id string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// GetByInvoiceID devuelve (nil, nil) si la factura no tiene pago.
func (r *PaymentRepo) GetByInvoiceID(invoiceID string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1`
	p, err := scanPayment(r.q.QueryRow(context.Background(), query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by invoice: %w", err)
	}
	return p, nil
}

// List devuelve pagos filtrados por estado, proveedor y/o factura.
func (r *PaymentRepo) List(statusFilter entity.PaymentStatus, vendorID, invoiceID string) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE 1=1`
	args := []any{}
	if statusFilter != "" {
		args = append(args, string(statusFilter))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if vendorID != "" {
		args = append(args, vendorID)
		query += fmt.Sprintf(` AND vendor_id = $%d`, len(args))
	}
	if invoiceID != "" {
		args = append(args, invoiceID)
		query += fmt.Sprintf(` AND invoice_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	return collectPayments(rows)
}

// ListPendingDelivery devuelve los pagos approved que aún no recibieron callback.
func (r *PaymentRepo) ListPendingDelivery() ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + ` FROM payments
		WHERE status = $1 AND workday_callback_received = FALSE
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, string(entity.PaymentApproved))
	if err != nil {
		return nil, fmt.Errorf("list pending deliveries: %w", err)
	}
	defer rows.Close()
	return collectPayments(rows)
}

// SetFileKeys registra las claves de los artefactos generados.
func (r *PaymentRepo) SetFileKeys(id, xmlKey, jsonKey string) error {
	query := `
		UPDATE payments SET xml_key = $2, json_key = $3, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, id, xmlKey, jsonKey)
	if err != nil {
		return fmt.Errorf("set payment file keys: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ConfirmDeliveryIf marca el pago como sent solo si sigue approved y sin
// callback previo. La condición en el WHERE hace la confirmación idempotente.
func (r *PaymentRepo) ConfirmDeliveryIf(id string, confirmedAt time.Time) (bool, error) {
	query := `
		UPDATE payments
		SET status = $2, workday_callback_received = TRUE,
		    workday_confirmed_at = $3, updated_at = now()
		WHERE id = $1 AND status = $4 AND workday_callback_received = FALSE`
	cmd, err := r.q.Exec(context.Background(), query,
		id, string(entity.PaymentSent), confirmedAt, string(entity.PaymentApproved))
	if err != nil {
		return false, fmt.Errorf("confirm payment delivery: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	err = r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check payment: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	return false, nil
}

// MarkFailed lleva el pago a failed.
func (r *PaymentRepo) MarkFailed(id string) error {
	query := `UPDATE payments SET status = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, id, string(entity.PaymentFailed))
	if err != nil {
		return fmt.Errorf("mark payment failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func collectPayments(rows pgx.Rows) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	var status string
	err := row.Scan(
		&p.ID, &p.InvoiceID, &p.VendorID, &p.Amount, &p.Currency, &status,
		&p.ApprovedAt, &p.XMLKey, &p.JSONKey, &p.WorkdayConfirmedAt,
		&p.WorkdayCallbackReceived, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = entity.PaymentStatus(status)
	return &p, nil
}
