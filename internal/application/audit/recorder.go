package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
)

// Recorder persiste entradas de auditoría en modo best-effort: un fallo al
// escribir auditoría jamás se propaga a la operación de negocio que la originó
// (trade-off deliberado de disponibilidad sobre completitud).
type Recorder struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.AuditLogRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record completa ID y timestamp UTC de la entrada y la persiste.
// Nunca devuelve error: los fallos se registran en el log interno y se descartan.
func (r *Recorder) Record(ctx context.Context, e *entity.AuditLogEntry) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if err := r.repo.Append(e); err != nil {
		r.log.Error().Err(err).
			Str("type", e.Type).
			Str("action", e.Action).
			Str("entity_id", e.EntityID).
			Msg("no se pudo persistir la entrada de auditoría")
	}
}

// Entry arma una entrada con los campos fijos del modelo.
func Entry(logType, action, entityType, entityID, actor string, details map[string]any) *entity.AuditLogEntry {
	return &entity.AuditLogEntry{
		Type:       logType,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Actor:      actor,
		Details:    details,
	}
}
