// Package archive keeps a copy of every accepted upload, byte for byte, in a
// local directory or an S3-compatible bucket.
package archive

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/gocsv/internal/csvfile/usecase"
)

const (
	DriverNone  = "none"
	DriverLocal = "local"
	DriverMinio = "minio"
)

type Options struct {
	Driver         string
	LocalDir       string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
}

// Open returns the configured archiver, or nil when archiving is disabled.
func Open(ctx context.Context, opts Options) (usecase.Archiver, error) {
	switch opts.Driver {
	case "", DriverNone:
		return nil, nil
	case DriverLocal:
		l, err := NewLocal(opts.LocalDir)
		if err != nil {
			return nil, err
		}
		return l, nil
	case DriverMinio:
		m, err := NewMinio(ctx, MinioConfig{
			Endpoint:  opts.MinioEndpoint,
			AccessKey: opts.MinioAccessKey,
			SecretKey: opts.MinioSecretKey,
			Bucket:    opts.MinioBucket,
			Region:    opts.MinioRegion,
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown archive driver %q", opts.Driver)
	}
}
