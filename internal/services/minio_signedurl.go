package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"freshkart_back_end/internal/database"
)

// GenerateSignedURL turns a stored image URL (or bare object key) into a
// presigned GET URL with the given expiry.
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO not initialized")
	}

	bucket := database.ImagesBucket()

	// Stored URLs are absolute; strip down to the object key.
	prefix := fmt.Sprintf("http://%s/%s/", os.Getenv("MINIO_ENDPOINT"), bucket)
	key := strings.TrimPrefix(objectPath, prefix)

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, key, duration, make(url.Values))
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}
