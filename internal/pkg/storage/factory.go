package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	// DriverS3 selects the AWS S3 backend.
	DriverS3 = "s3"
	// DriverGCS selects the Google Cloud Storage backend.
	DriverGCS = "gcs"
	// DriverMinIO selects the MinIO backend.
	DriverMinIO = "minio"
)

// ErrUnknownDriver indicates an unsupported storage driver.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// FactoryOptions groups configuration for storage drivers. Only the section
// matching the selected driver is read.
type FactoryOptions struct {
	S3    S3Options
	GCS   GCSOptions
	MinIO MinIOOptions
}

var constructors = map[string]func(context.Context, FactoryOptions) (Storage, error){
	DriverS3: func(ctx context.Context, o FactoryOptions) (Storage, error) {
		return NewS3(ctx, o.S3)
	},
	DriverGCS: func(ctx context.Context, o FactoryOptions) (Storage, error) {
		return NewGCS(ctx, o.GCS)
	},
	DriverMinIO: func(_ context.Context, o FactoryOptions) (Storage, error) {
		return NewMinIO(o.MinIO)
	},
}

// NewFromDriver constructs a Storage implementation by driver name.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Storage, error) {
	build, ok := constructors[strings.ToLower(strings.TrimSpace(driver))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownDriver, driver, lo.Keys(constructors))
	}
	return build(ctx, opts)
}
