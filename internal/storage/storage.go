package storage

import (
	"context"
	"io"
)

// Storage abstracts where uploaded files (carousel images, resume PDFs,
// chatbot reference documents) live.
type Storage interface {
	Save(ctx context.Context, path string, data io.Reader) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	PublicURL(path string) string
}
