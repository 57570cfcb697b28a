package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploader de dev: escribe los bytes a un directorio servido estático
// por el propio router y devuelve el path público. En producción va el
// adapter imagehost; este existe para correr sin servicios externos.
type Uploader struct {
	dir     string // directorio en disco
	baseURL string // prefijo público, ej. "/uploads"
}

func New(dir, baseURL string) (*Uploader, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("local uploader: dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Uploader{
		dir:     dir,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}, nil
}

func (u *Uploader) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("local uploader: empty file")
	}

	name := uuid.NewString() + safeExt(filename)
	if err := os.WriteFile(filepath.Join(u.dir, name), data, 0o644); err != nil {
		return "", err
	}

	return u.baseURL + "/" + name, nil
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ".bin"
	}
}
