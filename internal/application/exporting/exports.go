package exporting

import (
	"context"
	"fmt"

	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/payments"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
)

// ExportFile describe un artefacto exportado.
type ExportFile struct {
	Key         string            `json:"key"`
	ContentType string            `json:"content_type"`
	Tags        map[string]string `json:"tags"`
}

// Service es el acceso de solo lectura a los artefactos del blob store.
type Service struct {
	blobs   repository.BlobStore
	auditor *audit.Recorder
}

// NewService construye el servicio de exportaciones.
func NewService(blobs repository.BlobStore, auditor *audit.Recorder) *Service {
	return &Service{blobs: blobs, auditor: auditor}
}

// ListArtifacts lista los artefactos; con paymentID acota al pago indicado.
func (s *Service) ListArtifacts(ctx context.Context, paymentID, actor string) ([]ExportFile, error) {
	prefix := payments.KeyPrefix
	if paymentID != "" {
		prefix = payments.KeyPrefix + paymentID + "/"
	}

	keys, err := s.blobs.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	out := make([]ExportFile, 0, len(keys))
	for _, key := range keys {
		obj, err := s.blobs.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load artifact %s: %w", key, err)
		}
		out = append(out, ExportFile{Key: key, ContentType: obj.ContentType, Tags: obj.Tags})
	}

	s.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeExportAction, entity.AuditActionListExports,
		"export", prefix, actor,
		map[string]any{"count": len(out)},
	))
	return out, nil
}

// GetArtifact devuelve el contenido de un artefacto por clave.
// Propaga domain.ErrNotFound si la clave no existe.
func (s *Service) GetArtifact(ctx context.Context, key string) (*repository.BlobObject, error) {
	obj, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load artifact %s: %w", key, err)
	}
	return obj, nil
}
