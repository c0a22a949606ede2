package storage

import (
	"context"
	"fmt"
)

// Storage drivers
const (
	DriverS3    = "s3"
	DriverMinio = "minio"
)

// New builds the storage service for the configured driver. An empty driver
// disables object storage and returns nil.
func New(ctx context.Context, driver string, cfg S3Config) (S3Service, error) {
	switch driver {
	case "":
		return nil, nil
	case DriverS3:
		return NewS3Service(ctx, cfg)
	case DriverMinio:
		svc, err := NewMinioService(cfg)
		if err != nil {
			return nil, err
		}
		if err := svc.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
