package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// PaymentRepository implementación en memoria. Mantiene un índice por
// factura para replicar la unicidad un-pago-por-factura del esquema Postgres.
type PaymentRepository struct {
	mu        sync.RWMutex
	payments  map[string]*entity.Payment
	byInvoice map[string]string // invoice_id -> payment_id
}

// NewPaymentRepository crea el repositorio vacío.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments:  make(map[string]*entity.Payment),
		byInvoice: make(map[string]string),
	}
}

func (r *PaymentRepository) Create(p *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.ID]; ok {
		return fmt.Errorf("payment %s: %w", p.ID, domain.ErrAlreadyExists)
	}
	if _, ok := r.byInvoice[p.InvoiceID]; ok {
		return fmt.Errorf("payment for invoice %s: %w", p.InvoiceID, domain.ErrAlreadyExists)
	}
	r.payments[p.ID] = clonePayment(p)
	r.byInvoice[p.InvoiceID] = p.ID
	return nil
}

func (r *PaymentRepository) GetByID(id string) (*entity.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	return clonePayment(p), nil
}

func (r *PaymentRepository) GetByInvoiceID(invoiceID string) (*entity.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byInvoice[invoiceID]
	if !ok {
		return nil, nil
	}
	return clonePayment(r.payments[id]), nil
}

func (r *PaymentRepository) List(statusFilter entity.PaymentStatus, vendorID, invoiceID string) ([]*entity.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		if statusFilter != "" && p.Status != statusFilter {
			continue
		}
		if vendorID != "" && p.VendorID != vendorID {
			continue
		}
		if invoiceID != "" && p.InvoiceID != invoiceID {
			continue
		}
		out = append(out, clonePayment(p))
	}
	sortByCreatedAtPayments(out)
	return out, nil
}

func (r *PaymentRepository) ListPendingDelivery() ([]*entity.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Payment, 0)
	for _, p := range r.payments {
		if p.Status == entity.PaymentApproved && !p.WorkdayCallbackReceived {
			out = append(out, clonePayment(p))
		}
	}
	sortByCreatedAtPayments(out)
	return out, nil
}

func (r *PaymentRepository) SetFileKeys(id, xmlKey, jsonKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	p.XMLKey = xmlKey
	p.JSONKey = jsonKey
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// ConfirmDeliveryIf marca el pago como sent solo si sigue approved y sin
// callback previo. Devuelve false cuando la confirmación ya fue aplicada.
func (r *PaymentRepository) ConfirmDeliveryIf(id string, confirmedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return false, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	if p.WorkdayCallbackReceived || p.Status != entity.PaymentApproved {
		return false, nil
	}
	p.Status = entity.PaymentSent
	p.WorkdayCallbackReceived = true
	at := confirmedAt
	p.WorkdayConfirmedAt = &at
	p.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *PaymentRepository) MarkFailed(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	p.Status = entity.PaymentFailed
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func clonePayment(p *entity.Payment) *entity.Payment {
	cp := *p
	if p.WorkdayConfirmedAt != nil {
		at := *p.WorkdayConfirmedAt
		cp.WorkdayConfirmedAt = &at
	}
	return &cp
}
