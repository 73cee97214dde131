package memory

import (
	"sort"
	"sync"

	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// AuditLogRepository implementación en memoria, solo-inserción.
type AuditLogRepository struct {
	mu      sync.RWMutex
	entries []*entity.AuditLogEntry
}

// NewAuditLogRepository crea el repositorio vacío.
func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) Append(e *entity.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *AuditLogRepository) ListByEntity(entityType, entityID string) ([]*entity.AuditLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.AuditLogEntry, 0)
	for _, e := range r.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// All devuelve todas las entradas en orden de inserción (soporte de tests).
func (r *AuditLogRepository) All() []*entity.AuditLogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.AuditLogEntry, 0, len(r.entries))
	for _, e := range r.entries {
		cp := *e
		out = append(out, &cp)
	}
	return out
}
