// Package exporting contiene el monitor de exportación y el acceso de solo
// lectura a los artefactos generados.
package exporting

import (
	"context"
	"errors"
	"fmt"

	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/payments"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
)

// DeliveryClient notifica la disponibilidad de los artefactos de un pago.
type DeliveryClient interface {
	Deliver(ctx context.Context, p *entity.Payment) error
}

// MonitorStats son las estadísticas de un ciclo del monitor.
type MonitorStats struct {
	PaymentsScanned  int `json:"payments_scanned"`
	ApprovedFound    int `json:"approved_found"`
	FilesValidated   int `json:"files_validated"`
	MissingFiles     int `json:"missing_files"`
	DeliveriesSent   int `json:"deliveries_sent"`
	DeliveriesFailed int `json:"deliveries_failed"`
}

// Monitor recorre los pagos aprobados pendientes de confirmación, valida que
// sus artefactos existan en el blob store y dispara la entrega a Workday.
// Cada ciclo es independiente: los fallos de un pago no detienen el resto y
// los pagos con entrega fallida por dependencia quedan para el próximo ciclo.
type Monitor struct {
	payments repository.PaymentRepository
	blobs    repository.BlobStore
	delivery DeliveryClient
	auditor  *audit.Recorder
	log      *logger.Logger
}

// NewMonitor construye el monitor.
func NewMonitor(
	paymentRepo repository.PaymentRepository,
	blobs repository.BlobStore,
	delivery DeliveryClient,
	auditor *audit.Recorder,
	log *logger.Logger,
) *Monitor {
	return &Monitor{
		payments: paymentRepo,
		blobs:    blobs,
		delivery: delivery,
		auditor:  auditor,
		log:      log,
	}
}

// RunCycle ejecuta un ciclo completo del monitor y devuelve sus estadísticas.
func (m *Monitor) RunCycle(ctx context.Context) (*MonitorStats, error) {
	m.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeExportMonitor, entity.AuditActionMonitorStart,
		"export_monitor", "cycle", "export-monitor", nil,
	))

	pending, err := m.payments.ListPendingDelivery()
	if err != nil {
		return nil, fmt.Errorf("scan pending payments: %w", err)
	}

	stats := &MonitorStats{PaymentsScanned: len(pending)}
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		// El snapshot puede quedar obsoleto: un callback pudo llegar entre el
		// listado y este punto. La confirmación condicional resuelve la carrera.
		if p.Status != entity.PaymentApproved || p.WorkdayCallbackReceived {
			continue
		}
		stats.ApprovedFound++
		m.processPayment(ctx, p, stats)
	}

	m.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeExportMonitor, entity.AuditActionMonitorComplete,
		"export_monitor", "cycle", "export-monitor",
		map[string]any{
			"payments_scanned":  stats.PaymentsScanned,
			"approved_found":    stats.ApprovedFound,
			"files_validated":   stats.FilesValidated,
			"missing_files":     stats.MissingFiles,
			"deliveries_sent":   stats.DeliveriesSent,
			"deliveries_failed": stats.DeliveriesFailed,
		},
	))

	m.log.Info().
		Int("payments_scanned", stats.PaymentsScanned).
		Int("approved_found", stats.ApprovedFound).
		Int("files_validated", stats.FilesValidated).
		Int("missing_files", stats.MissingFiles).
		Int("deliveries_sent", stats.DeliveriesSent).
		Int("deliveries_failed", stats.DeliveriesFailed).
		Msg("ciclo del monitor de exportación completado")
	return stats, nil
}

func (m *Monitor) processPayment(ctx context.Context, p *entity.Payment, stats *MonitorStats) {
	missing, err := m.missingArtifacts(ctx, p)
	if err != nil {
		stats.DeliveriesFailed++
		m.log.Error().Err(err).Str("payment_id", p.ID).Msg("no se pudieron validar los artefactos")
		return
	}
	if len(missing) > 0 {
		stats.MissingFiles++
		m.log.Warn().
			Str("payment_id", p.ID).
			Strs("missing", missing).
			Msg("pago aprobado sin artefactos completos")
		m.auditor.Record(ctx, audit.Entry(
			entity.AuditTypeExportMonitor, entity.AuditActionFilesMissing,
			"payment", p.ID, "export-monitor",
			map[string]any{"missing_keys": missing},
		))
		return
	}
	stats.FilesValidated++

	if err := m.delivery.Deliver(ctx, p); err != nil {
		stats.DeliveriesFailed++
		m.log.Error().Err(err).Str("payment_id", p.ID).Msg("fallo la entrega a workday")
		m.auditor.Record(ctx, audit.Entry(
			entity.AuditTypeExportMonitor, entity.AuditActionDeliveryFailed,
			"payment", p.ID, "export-monitor",
			map[string]any{"error": err.Error()},
		))
		// Una dependencia caída se reintenta en el próximo ciclo; cualquier
		// otro fallo es permanente y el pago pasa a failed.
		if !errors.Is(err, domain.ErrDependencyFailure) {
			if markErr := m.payments.MarkFailed(p.ID); markErr != nil {
				m.log.Error().Err(markErr).Str("payment_id", p.ID).Msg("no se pudo marcar el pago como failed")
			}
		}
		return
	}

	stats.DeliveriesSent++
	m.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeExportMonitor, entity.AuditActionDeliverySuccess,
		"payment", p.ID, "export-monitor",
		map[string]any{"xml_key": p.XMLKey, "json_key": p.JSONKey},
	))
}

// missingArtifacts devuelve las claves ausentes del par XML/JSON del pago.
// Si el pago no registró claves se valida contra la convención de nombres.
func (m *Monitor) missingArtifacts(ctx context.Context, p *entity.Payment) ([]string, error) {
	xmlKey, jsonKey := p.XMLKey, p.JSONKey
	if xmlKey == "" {
		xmlKey = payments.XMLKeyFor(p.ID)
	}
	if jsonKey == "" {
		jsonKey = payments.JSONKeyFor(p.ID)
	}

	var missing []string
	for _, key := range []string{xmlKey, jsonKey} {
		ok, err := m.blobs.Exists(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("check artifact %s: %w", key, err)
		}
		if !ok {
			missing = append(missing, key)
		}
	}
	return missing, nil
}
