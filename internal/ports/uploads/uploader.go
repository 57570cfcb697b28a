package uploads

import "context"

// Uploader recibe bytes de imagen y devuelve una URL ya hosteada.
// El core nunca guarda bytes, solo URLs.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}
