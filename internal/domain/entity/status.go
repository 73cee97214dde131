package entity

// Estados de proveedor (vendor).
type VendorStatus string

const (
	VendorActive    VendorStatus = "active"
	VendorInactive  VendorStatus = "inactive"
	VendorPending   VendorStatus = "pending"
	VendorSuspended VendorStatus = "suspended"
)

// Valid indica si el valor corresponde a un estado de proveedor conocido.
func (s VendorStatus) Valid() bool {
	switch s {
	case VendorActive, VendorInactive, VendorPending, VendorSuspended:
		return true
	}
	return false
}

// Estados de orden de compra. pending -> approved | rejected; approved y rejected son terminales.
type POStatus string

const (
	POPending  POStatus = "pending"
	POApproved POStatus = "approved"
	PORejected POStatus = "rejected"
	// POSent es un valor heredado del sistema origen; se acepta en lectura
	// y cuenta como conciliable, pero nunca se escribe.
	POSent POStatus = "sent"
)

// Valid indica si el valor corresponde a un estado de OC conocido.
func (s POStatus) Valid() bool {
	switch s {
	case POPending, POApproved, PORejected, POSent:
		return true
	}
	return false
}

// CanTransition define la tabla de transiciones de la OC.
func (s POStatus) CanTransition(to POStatus) bool {
	return s == POPending && (to == POApproved || to == PORejected)
}

// Reconcilable indica si una factura puede conciliarse contra una OC en este estado.
func (s POStatus) Reconcilable() bool {
	return s == POApproved || s == POSent
}

// Estados de factura. received -> matched | rejected, únicamente vía el motor de conciliación.
type InvoiceStatus string

const (
	InvoiceReceived InvoiceStatus = "received"
	InvoiceMatched  InvoiceStatus = "matched"
	InvoiceRejected InvoiceStatus = "rejected"
)

// Valid indica si el valor corresponde a un estado de factura conocido.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceReceived, InvoiceMatched, InvoiceRejected:
		return true
	}
	return false
}

// CanTransition define la tabla de transiciones de la factura.
// matched y rejected son terminales para la ruta de conciliación.
func (s InvoiceStatus) CanTransition(to InvoiceStatus) bool {
	return s == InvoiceReceived && (to == InvoiceMatched || to == InvoiceRejected)
}

// Estados de pago. approved -> sent al confirmar la entrega externa;
// failed es alcanzable desde approved o sent ante un fallo irrecuperable.
type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "approved"
	PaymentSent     PaymentStatus = "sent"
	PaymentFailed   PaymentStatus = "failed"
)

// Valid indica si el valor corresponde a un estado de pago conocido.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentApproved, PaymentSent, PaymentFailed:
		return true
	}
	return false
}

// CanTransition define la tabla de transiciones del pago.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	switch s {
	case PaymentApproved:
		return to == PaymentSent || to == PaymentFailed
	case PaymentSent:
		return to == PaymentFailed
	}
	return false
}
