// Package memory implementa los puertos de persistencia sobre mapas en
// memoria protegidos por mutex. Respeta la misma semántica que la
// implementación Postgres (errores de dominio, guards condicionales),
// por lo que sirve tanto para tests como para el modo desarrollo.
package memory

import (
	"fmt"
	"sync"

	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// VendorRepository implementación en memoria.
type VendorRepository struct {
	mu      sync.RWMutex
	vendors map[string]*entity.Vendor
}

// NewVendorRepository crea el repositorio vacío.
func NewVendorRepository() *VendorRepository {
	return &VendorRepository{vendors: make(map[string]*entity.Vendor)}
}

func (r *VendorRepository) Create(v *entity.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vendors[v.ID]; ok {
		return fmt.Errorf("vendor %s: %w", v.ID, domain.ErrAlreadyExists)
	}
	cp := *v
	r.vendors[v.ID] = &cp
	return nil
}

func (r *VendorRepository) GetByID(id string) (*entity.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vendors[id]
	if !ok {
		return nil, fmt.Errorf("vendor %s: %w", id, domain.ErrNotFound)
	}
	cp := *v
	return &cp, nil
}

func (r *VendorRepository) Update(v *entity.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vendors[v.ID]; !ok {
		return fmt.Errorf("vendor %s: %w", v.ID, domain.ErrNotFound)
	}
	cp := *v
	r.vendors[v.ID] = &cp
	return nil
}

func (r *VendorRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vendors[id]; !ok {
		return fmt.Errorf("vendor %s: %w", id, domain.ErrNotFound)
	}
	delete(r.vendors, id)
	return nil
}

func (r *VendorRepository) List(statusFilter entity.VendorStatus) ([]*entity.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Vendor, 0, len(r.vendors))
	for _, v := range r.vendors {
		if statusFilter != "" && v.Status != statusFilter {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sortByCreatedAtVendors(out)
	return out, nil
}
