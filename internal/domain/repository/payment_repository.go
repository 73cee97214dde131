package repository

import (
	"time"

	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para pagos.
type PaymentRepository interface {
	// Create inserta el pago. Debe fallar con domain.ErrAlreadyExists si ya
	// existe un pago para el mismo invoice_id (unicidad por factura).
	Create(p *entity.Payment) error
	GetByID(id string) (*entity.Payment, error)
	// GetByInvoiceID devuelve (nil, nil) si no hay pago para la factura.
	GetByInvoiceID(invoiceID string) (*entity.Payment, error)
	// List filtra por estado, proveedor y/o factura; valores vacíos listan todo.
	List(statusFilter entity.PaymentStatus, vendorID, invoiceID string) ([]*entity.Payment, error)
	// ListPendingDelivery devuelve pagos approved sin callback recibido
	// (snapshot para el monitor de exportación).
	ListPendingDelivery() ([]*entity.Payment, error)
	// SetFileKeys registra las claves de los artefactos generados.
	SetFileKeys(id, xmlKey, jsonKey string) error
	// ConfirmDeliveryIf marca el pago como sent solo si aún no lo está.
	// Devuelve false cuando otro actor ya confirmó (idempotencia).
	ConfirmDeliveryIf(id string, confirmedAt time.Time) (bool, error)
	// MarkFailed lleva el pago a failed ante un fallo irrecuperable.
	MarkFailed(id string) error
}
