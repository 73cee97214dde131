package dto

import "github.com/tu-usuario/p2p-automation/internal/domain/matching"

// ReconciliationOutcome resultado de conciliar una factura.
type ReconciliationOutcome struct {
	InvoiceID string               `json:"invoice_id"`
	Status    string               `json:"status"` // matched | rejected
	Result    matching.MatchResult `json:"result"`
}

// BatchStats estadísticas agregadas del job de conciliación batch.
// skipped cuenta facturas cuya OC no existe o no está en estado conciliable;
// se contabilizan aparte de los errores duros de infraestructura.
type BatchStats struct {
	Processed int `json:"processed"`
	Matched   int `json:"matched"`
	Rejected  int `json:"rejected"`
	Errors    int `json:"errors"`
	Skipped   int `json:"skipped"`
}
