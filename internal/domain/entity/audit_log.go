package entity

import "time"

// Tipos de entrada de auditoría.
const (
	AuditTypeVendorAction    = "VENDOR_ACTION"
	AuditTypePOAction        = "PO_ACTION"
	AuditTypeInvoiceAction   = "INVOICE_ACTION"
	AuditTypePaymentAction   = "PAYMENT_ACTION"
	AuditTypeWorkdayCallback = "WORKDAY_CALLBACK"
	AuditTypeExportMonitor   = "EXPORT_MONITOR"
	AuditTypeExportAction    = "EXPORT_ACTION"
)

// Acciones de auditoría (verbos).
const (
	AuditActionCreate           = "CREATE"
	AuditActionUpdate           = "UPDATE"
	AuditActionDelete           = "DELETE"
	AuditActionApprove          = "APPROVE"
	AuditActionReject           = "REJECT"
	AuditActionReconcile        = "RECONCILE"
	AuditActionBatchReconcile   = "BATCH_RECONCILE"
	AuditActionReconcileError   = "RECONCILE_ERROR"
	AuditActionJobComplete      = "JOB_COMPLETE"
	AuditActionApproveWithFiles = "APPROVE_WITH_FILES"
	AuditActionCallbackReceived = "CALLBACK_RECEIVED"
	AuditActionMonitorStart     = "MONITOR_START"
	AuditActionMonitorComplete  = "MONITOR_COMPLETE"
	AuditActionDeliverySuccess  = "WORKDAY_DELIVERY_SUCCESS"
	AuditActionDeliveryFailed   = "WORKDAY_DELIVERY_FAILED"
	AuditActionFilesMissing     = "FILES_MISSING"
	AuditActionListExports      = "LIST_EXPORTS"
)

// AuditLogEntry es un registro inmutable de una acción de negocio.
// Solo se inserta; la lógica de negocio nunca lo actualiza ni lo borra.
type AuditLogEntry struct {
	ID         string
	Type       string // categoría (INVOICE_ACTION, PAYMENT_ACTION, ...)
	Action     string // verbo (RECONCILE, APPROVE_WITH_FILES, ...)
	EntityType string
	EntityID   string
	Actor      string // usuario o proceso que originó la acción
	Timestamp  time.Time
	Details    map[string]any
}
