package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
)

// BlobStore implementación en memoria del almacenamiento de artefactos.
type BlobStore struct {
	mu      sync.RWMutex
	objects map[string]repository.BlobObject
}

// NewBlobStore crea el almacenamiento vacío.
func NewBlobStore() *BlobStore {
	return &BlobStore{objects: make(map[string]repository.BlobObject)}
}

func (s *BlobStore) Put(_ context.Context, key string, obj repository.BlobObject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := repository.BlobObject{
		Content:     append([]byte(nil), obj.Content...),
		ContentType: obj.ContentType,
		Tags:        make(map[string]string, len(obj.Tags)),
	}
	for k, v := range obj.Tags {
		cp.Tags[k] = v
	}
	s.objects[key] = cp
	return nil
}

func (s *BlobStore) Get(_ context.Context, key string) (*repository.BlobObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", key, domain.ErrNotFound)
	}
	cp := repository.BlobObject{
		Content:     append([]byte(nil), obj.Content...),
		ContentType: obj.ContentType,
		Tags:        make(map[string]string, len(obj.Tags)),
	}
	for k, v := range obj.Tags {
		cp.Tags[k] = v
	}
	return &cp, nil
}

func (s *BlobStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *BlobStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0)
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
