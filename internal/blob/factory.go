package blob

import (
	"context"
	"fmt"

	"artchive-gallery/internal/common/config"
)

// Open выбирает реализацию по GALLERY_BLOB_DRIVER: fs (по умолчанию), memory, s3.
func Open(ctx context.Context, cfg *config.StoreConfig) (Store, error) {
	switch Driver(cfg.BlobDriver) {
	case "", DriverFilesystem:
		return NewFilesystem(cfg.BlobRoot)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.BlobDriver)
	}
}
