package repository

import "context"

// BlobObject es el contenido y los metadatos de un artefacto en el blob store.
type BlobObject struct {
	Content     []byte
	ContentType string
	Tags        map[string]string
}

// BlobStore define el puerto de almacenamiento de artefactos de pago
// (XML y espejo JSON). Las claves siguen la convención
// payments/{payment_id}/payment.{xml|json}.
type BlobStore interface {
	// Put escribe el objeto; sobrescribe si la clave ya existe.
	Put(ctx context.Context, key string, obj BlobObject) error
	// Get devuelve domain.ErrNotFound si la clave no existe.
	Get(ctx context.Context, key string) (*BlobObject, error)
	Exists(ctx context.Context, key string) (bool, error)
	// List devuelve las claves bajo un prefijo, ordenadas.
	List(ctx context.Context, prefix string) ([]string, error)
}
