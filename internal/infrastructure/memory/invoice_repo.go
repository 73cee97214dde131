package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// InvoiceRepository implementación en memoria. Mantiene un índice por
// número de factura para replicar la unicidad global del esquema Postgres.
type InvoiceRepository struct {
	mu       sync.RWMutex
	invoices map[string]*entity.Invoice
	byNumber map[string]string // invoice_number -> id
}

// NewInvoiceRepository crea el repositorio vacío.
func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{
		invoices: make(map[string]*entity.Invoice),
		byNumber: make(map[string]string),
	}
}

func (r *InvoiceRepository) Create(inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[inv.ID]; ok {
		return fmt.Errorf("invoice %s: %w", inv.ID, domain.ErrAlreadyExists)
	}
	if _, ok := r.byNumber[inv.InvoiceNumber]; ok {
		return fmt.Errorf("invoice number %s: %w", inv.InvoiceNumber, domain.ErrAlreadyExists)
	}
	r.invoices[inv.ID] = cloneInvoice(inv)
	r.byNumber[inv.InvoiceNumber] = inv.ID
	return nil
}

func (r *InvoiceRepository) GetByID(id string) (*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	return cloneInvoice(inv), nil
}

func (r *InvoiceRepository) GetByNumber(invoiceNumber string) (*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byNumber[invoiceNumber]
	if !ok {
		return nil, fmt.Errorf("invoice number %s: %w", invoiceNumber, domain.ErrNotFound)
	}
	return cloneInvoice(r.invoices[id]), nil
}

func (r *InvoiceRepository) Update(inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.invoices[inv.ID]
	if !ok {
		return fmt.Errorf("invoice %s: %w", inv.ID, domain.ErrNotFound)
	}
	cur.Items = append([]entity.LineItem(nil), inv.Items...)
	cur.TotalAmount = inv.TotalAmount
	cur.Notes = inv.Notes
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InvoiceRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	delete(r.byNumber, inv.InvoiceNumber)
	delete(r.invoices, id)
	return nil
}

func (r *InvoiceRepository) List(statusFilter entity.InvoiceStatus, poID string) ([]*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		if statusFilter != "" && inv.Status != statusFilter {
			continue
		}
		if poID != "" && inv.POID != poID {
			continue
		}
		out = append(out, cloneInvoice(inv))
	}
	sortByCreatedAtInvoices(out)
	return out, nil
}

// UpdateStatusIf aplica la transición solo si el estado actual coincide,
// atómicamente bajo el mutex.
func (r *InvoiceRepository) UpdateStatusIf(id string, expected, next entity.InvoiceStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return false, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	if inv.Status != expected {
		return false, nil
	}
	inv.Status = next
	inv.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *InvoiceRepository) SetApproval(id, approvedBy string, approvedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	inv.ApprovedBy = approvedBy
	at := approvedAt
	inv.ApprovedAt = &at
	inv.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	cp := *inv
	cp.Items = append([]entity.LineItem(nil), inv.Items...)
	if inv.ApprovedAt != nil {
		at := *inv.ApprovedAt
		cp.ApprovedAt = &at
	}
	return &cp
}
