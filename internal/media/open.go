package media

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/casinohub/backend/config"
	"github.com/casinohub/backend/pkg/storage"
)

// FromConfig builds the media backend named by MEDIA_BACKEND.
func FromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Media.Backend {
	case config.MediaLocal:
		return NewLocalStore(cfg.Media.UploadDir, cfg.Media.PublicPrefix)
	case config.MediaS3:
		client, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Bucket:          cfg.AWS.MediaBucket,
			PublicRead:      cfg.AWS.MediaPublicRead,
		}, logger)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client), nil
	case config.MediaCloudinary:
		return NewCloudinaryStore(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
}
