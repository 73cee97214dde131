package repository

import "github.com/tu-usuario/p2p-automation/internal/domain/entity"

// AuditLogRepository define el puerto de persistencia del log de auditoría.
// Solo inserción y lectura: las entradas nunca se actualizan ni se borran.
type AuditLogRepository interface {
	Append(e *entity.AuditLogEntry) error
	// ListByEntity devuelve las entradas de una entidad, más reciente primero.
	ListByEntity(entityType, entityID string) ([]*entity.AuditLogEntry, error)
}
