package repository

import "github.com/tu-usuario/p2p-automation/internal/domain/entity"

// VendorRepository define el puerto de persistencia para proveedores.
type VendorRepository interface {
	Create(v *entity.Vendor) error
	GetByID(id string) (*entity.Vendor, error)
	Update(v *entity.Vendor) error
	Delete(id string) error
	// List devuelve los proveedores; statusFilter vacío lista todos.
	List(statusFilter entity.VendorStatus) ([]*entity.Vendor, error)
}
