package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del blob store en disco: round-trip con metadatos, listado por prefijo
// y rechazo de claves que escapan de la raíz.
// ──────────────────────────────────────────────────────────────────────────────

func newStore(t *testing.T) *FilesystemStore {
	t.Helper()
	s, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestPutGet_ConMetadatos(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	err := s.Put(ctx, "payments/pay-1/payment.xml", repository.BlobObject{
		Content:     []byte("<Payment/>"),
		ContentType: "application/xml",
		Tags:        map[string]string{"payment_id": "pay-1", "file_format": "xml"},
	})
	require.NoError(t, err)

	obj, err := s.Get(ctx, "payments/pay-1/payment.xml")
	require.NoError(t, err)
	assert.Equal(t, []byte("<Payment/>"), obj.Content)
	assert.Equal(t, "application/xml", obj.ContentType)
	assert.Equal(t, "pay-1", obj.Tags["payment_id"])
}

func TestGet_Inexistente(t *testing.T) {
	s := newStore(t)

	_, err := s.Get(context.Background(), "payments/nada/payment.xml")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_IgnoraSidecars(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, key := range []string{
		"payments/pay-1/payment.xml",
		"payments/pay-1/payment.json",
		"payments/pay-2/payment.xml",
	} {
		require.NoError(t, s.Put(ctx, key, repository.BlobObject{Content: []byte("x")}))
	}

	keys, err := s.List(ctx, "payments/pay-1/")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"payments/pay-1/payment.json",
		"payments/pay-1/payment.xml",
	}, keys)

	all, err := s.List(ctx, "payments/")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPath_ClaveMaliciosa(t *testing.T) {
	s := newStore(t)

	err := s.Put(context.Background(), "../fuera.txt", repository.BlobObject{Content: []byte("x")})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExists(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "payments/pay-1/payment.xml")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "payments/pay-1/payment.xml", repository.BlobObject{Content: []byte("x")}))

	ok, err = s.Exists(ctx, "payments/pay-1/payment.xml")
	require.NoError(t, err)
	assert.True(t, ok)
}
