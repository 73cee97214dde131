package repository

import "github.com/tu-usuario/p2p-automation/internal/domain/entity"

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	Delete(id string) error
	// List filtra por estado y/o proveedor; valores vacíos listan todo.
	List(statusFilter entity.POStatus, vendorID string) ([]*entity.PurchaseOrder, error)
	// UpdateStatusIf aplica la transición solo si el estado actual es expected.
	// Devuelve false (sin error) cuando la condición no se cumple.
	UpdateStatusIf(id string, expected, next entity.POStatus, approvedBy string) (bool, error)
}
