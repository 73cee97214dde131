package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación del puerto AuditLogRepository sobre PostgreSQL.
// Tabla solo-inserción; los detalles van como JSONB.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador de persistencia para auditoría.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Append inserta una entrada de auditoría.
func (r *AuditLogRepo) Append(e *entity.AuditLogEntry) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	query := `
		INSERT INTO audit_log (id, log_type, action, entity_type, entity_id, actor, ts, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(context.Background(), query,
		e.ID, e.Type, e.Action, e.EntityType, e.EntityID, e.Actor, e.Timestamp, details,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByEntity devuelve las entradas de una entidad, más reciente primero.
func (r *AuditLogRepo) ListByEntity(entityType, entityID string) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT id, log_type, action, entity_type, entity_id, actor, ts, details
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY ts DESC`
	rows, err := r.q.Query(context.Background(), query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var out []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		var details []byte
		err := rows.Scan(&e.ID, &e.Type, &e.Action, &e.EntityType, &e.EntityID, &e.Actor, &e.Timestamp, &details)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
