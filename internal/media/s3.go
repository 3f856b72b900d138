package media

import (
	"context"
	"fmt"

	"github.com/casinohub/backend/pkg/storage"
)

// S3Store keeps media in the configured bucket and references it by public URL.
type S3Store struct {
	s3 *storage.S3
}

// NewS3Store wraps an S3 client.
func NewS3Store(s3 *storage.S3) *S3Store {
	return &S3Store{s3: s3}
}

// Save uploads to media/<generated name>.
func (s *S3Store) Save(ctx context.Context, u *Upload) (string, error) {
	body, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer body.Close()
	return s.s3.Upload(ctx, storage.ObjectKey(u.StoredName()), u.ContentType, body, u.Size)
}

// Remove deletes the object behind a URL returned by Save.
func (s *S3Store) Remove(ctx context.Context, ref string) error {
	return s.s3.DeleteURL(ctx, ref)
}
