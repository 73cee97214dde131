// Package storage implementa el blob store de artefactos sobre el sistema
// de archivos local. Cada objeto guarda su contenido en la clave literal y
// sus metadatos (content type y tags) en un sidecar .meta.json.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
)

const metaSuffix = ".meta.json"

// FilesystemStore implementación del puerto BlobStore sobre disco.
type FilesystemStore struct {
	root string
}

// NewFilesystemStore crea el store con raíz en root, creándola si no existe.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root %s: %w", root, err)
	}
	return &FilesystemStore{root: root}, nil
}

type blobMeta struct {
	ContentType string            `json:"content_type"`
	Tags        map[string]string `json:"tags"`
}

// Put escribe el contenido y su sidecar de metadatos.
func (s *FilesystemStore) Put(_ context.Context, key string, obj repository.BlobObject) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}
	if err := os.WriteFile(path, obj.Content, 0o644); err != nil {
		return fmt.Errorf("write blob %s: %w", key, err)
	}

	meta, err := json.Marshal(blobMeta{ContentType: obj.ContentType, Tags: obj.Tags})
	if err != nil {
		return fmt.Errorf("marshal blob meta: %w", err)
	}
	if err := os.WriteFile(path+metaSuffix, meta, 0o644); err != nil {
		return fmt.Errorf("write blob meta %s: %w", key, err)
	}
	return nil
}

// Get lee el contenido y su sidecar. Un sidecar ausente no es un error:
// el objeto se devuelve sin tags.
func (s *FilesystemStore) Get(_ context.Context, key string) (*repository.BlobObject, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}

	obj := &repository.BlobObject{Content: content}
	metaRaw, err := os.ReadFile(path + metaSuffix)
	if err == nil {
		var meta blobMeta
		if err := json.Unmarshal(metaRaw, &meta); err != nil {
			return nil, fmt.Errorf("unmarshal blob meta %s: %w", key, err)
		}
		obj.ContentType = meta.ContentType
		obj.Tags = meta.Tags
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read blob meta %s: %w", key, err)
	}
	return obj, nil
}

// Exists indica si la clave tiene contenido en disco.
func (s *FilesystemStore) Exists(_ context.Context, key string) (bool, error) {
	path, err := s.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat blob %s: %w", key, err)
	}
	return true, nil
}

// List devuelve las claves bajo un prefijo, ordenadas. Los sidecars no cuentan.
func (s *FilesystemStore) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, metaSuffix) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list blobs under %s: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// path valida que la clave no escape de la raíz y la traduce a ruta local.
func (s *FilesystemStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("blob key %q escapes the store root: %w", key, domain.ErrInvalidInput)
	}
	return filepath.Join(s.root, clean), nil
}
