package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo implementación del puerto VendorRepository sobre PostgreSQL (usable con pool o tx).
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador de persistencia para proveedores.
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

const vendorColumns = `id, name, email, phone, address, tax_id, payment_terms, status, created_at, updated_at`

// Create persiste un nuevo proveedor.
func (r *VendorRepo) Create(v *entity.Vendor) error {
	query := `
		INSERT INTO vendors (` + vendorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.Name, v.Email, v.Phone, v.Address, v.TaxID, v.PaymentTerms,
		string(v.Status), v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("vendor %s: %w", v.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *VendorRepo) GetByID(id string) (*entity.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`
	v, err := scanVendor(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("vendor %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// Update actualiza un proveedor existente.
func (r *VendorRepo) Update(v *entity.Vendor) error {
	query := `
		UPDATE vendors
		SET name = $2, email = $3, phone = $4, address = $5, tax_id = $6,
		    payment_terms = $7, status = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		v.ID, v.Name, v.Email, v.Phone, v.Address, v.TaxID, v.PaymentTerms,
		string(v.Status), v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vendor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("vendor %s: %w", v.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina un proveedor.
func (r *VendorRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("vendor %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List devuelve los proveedores, opcionalmente filtrados por estado.
func (r *VendorRepo) List(statusFilter entity.VendorStatus) ([]*entity.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors`
	args := []any{}
	if statusFilter != "" {
		query += ` WHERE status = $1`
		args = append(args, string(statusFilter))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var out []*entity.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVendor(row pgx.Row) (*entity.Vendor, error) {
	var v entity.Vendor
	var status string
	err := row.Scan(
		&v.ID, &v.Name, &v.Email, &v.Phone, &v.Address, &v.TaxID,
		&v.PaymentTerms, &status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Status = entity.VendorStatus(status)
	return &v, nil
}
