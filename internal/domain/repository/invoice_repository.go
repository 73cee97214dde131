package repository

import (
	"time"

	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas.
type InvoiceRepository interface {
	// Create inserta la factura. Debe fallar con domain.ErrAlreadyExists si el
	// invoice_number ya existe (único global).
	Create(inv *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	GetByNumber(invoiceNumber string) (*entity.Invoice, error)
	// Update actualiza los campos corregibles manualmente (líneas, total, notas).
	// No cambia el estado: eso es exclusivo de UpdateStatusIf.
	Update(inv *entity.Invoice) error
	Delete(id string) error
	// List filtra por estado y/o OC; valores vacíos listan todo.
	List(statusFilter entity.InvoiceStatus, poID string) ([]*entity.Invoice, error)
	// UpdateStatusIf es la única vía de transición de estado. Aplica el cambio
	// solo si el estado actual es expected; devuelve false cuando otro actor
	// ganó la transición (guard contra doble procesamiento concurrente).
	UpdateStatusIf(id string, expected, next entity.InvoiceStatus) (bool, error)
	// SetApproval registra metadatos de aprobación sin tocar el estado.
	SetApproval(id, approvedBy string, approvedAt time.Time) error
}
