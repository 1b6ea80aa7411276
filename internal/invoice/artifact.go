package invoice

import (
	"context"
	"errors"
	"io"

	"github.com/minio/minio-go/v7"

	"freshkart_back_end/internal/database"
)

// ErrArtifactNotFound is returned by Stat/Open when no object exists under
// the given key.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore is the durable home of rendered invoice PDFs.
type ArtifactStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	// Stat returns the stored object size; existence plus a non-zero size is
	// the renderer's definition of a successful artifact.
	Stat(ctx context.Context, key string) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Remove(ctx context.Context, key string) error
}

// NewMinIOArtifactStore stores artifacts in the invoices bucket of the global
// MinIO client.
func NewMinIOArtifactStore() ArtifactStore {
	return &minioArtifactStore{bucket: database.InvoicesBucket()}
}

type minioArtifactStore struct {
	bucket string
}

func (s *minioArtifactStore) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	_, err := database.MinIO.PutObject(ctx, s.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: "application/pdf"})
	return err
}

func (s *minioArtifactStore) Stat(ctx context.Context, key string) (int64, error) {
	info, err := database.MinIO.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return 0, ErrArtifactNotFound
		}
		return 0, err
	}
	return info.Size, nil
}

func (s *minioArtifactStore) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	size, err := s.Stat(ctx, key)
	if err != nil {
		return nil, 0, err
	}

	obj, err := database.MinIO.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}
	return obj, size, nil
}

func (s *minioArtifactStore) Remove(ctx context.Context, key string) error {
	return database.MinIO.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
