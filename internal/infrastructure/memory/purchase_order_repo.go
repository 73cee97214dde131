package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// PurchaseOrderRepository implementación en memoria.
type PurchaseOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*entity.PurchaseOrder
}

// NewPurchaseOrderRepository crea el repositorio vacío.
func NewPurchaseOrderRepository() *PurchaseOrderRepository {
	return &PurchaseOrderRepository{orders: make(map[string]*entity.PurchaseOrder)}
}

func (r *PurchaseOrderRepository) Create(po *entity.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[po.ID]; ok {
		return fmt.Errorf("purchase order %s: %w", po.ID, domain.ErrAlreadyExists)
	}
	r.orders[po.ID] = clonePO(po)
	return nil
}

func (r *PurchaseOrderRepository) GetByID(id string) (*entity.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	po, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("purchase order %s: %w", id, domain.ErrNotFound)
	}
	return clonePO(po), nil
}

func (r *PurchaseOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("purchase order %s: %w", id, domain.ErrNotFound)
	}
	delete(r.orders, id)
	return nil
}

func (r *PurchaseOrderRepository) List(statusFilter entity.POStatus, vendorID string) ([]*entity.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.PurchaseOrder, 0, len(r.orders))
	for _, po := range r.orders {
		if statusFilter != "" && po.Status != statusFilter {
			continue
		}
		if vendorID != "" && po.VendorID != vendorID {
			continue
		}
		out = append(out, clonePO(po))
	}
	sortByCreatedAtPOs(out)
	return out, nil
}

// UpdateStatusIf aplica la transición solo si el estado actual coincide.
// El mutex hace la comparación y el cambio atómicos, igual que el
// UPDATE ... WHERE status = $expected de la implementación Postgres.
func (r *PurchaseOrderRepository) UpdateStatusIf(id string, expected, next entity.POStatus, approvedBy string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.orders[id]
	if !ok {
		return false, fmt.Errorf("purchase order %s: %w", id, domain.ErrNotFound)
	}
	if po.Status != expected {
		return false, nil
	}
	po.Status = next
	if approvedBy != "" {
		po.ApprovedBy = approvedBy
	}
	po.UpdatedAt = time.Now().UTC()
	return true, nil
}

func clonePO(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	cp := *po
	cp.Items = append([]entity.LineItem(nil), po.Items...)
	return &cp
}
