// Package blob writes uploaded photo bytes to an object store and derives
// the public address of the written object.
package blob

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/petermazzocco/go-photo-gallery/internal/config"
)

// ErrWriteFailed wraps any error from the object store during a write.
var ErrWriteFailed = errors.New("blob write failed")

// Store writes an object and returns its public address. Write returns
// only after the upload has completed, so a nil error means the object is
// durable. Writing an existing name replaces the object.
type Store interface {
	Write(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// PublicURL joins base, bucket and object name into a path-style address,
// escaping each segment.
func PublicURL(base, bucket, objectName string) string {
	base = strings.TrimRight(base, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" {
		return base + "/" + url.PathEscape(bucket) + "/" + url.PathEscape(objectName)
	}
	return u.JoinPath(url.PathEscape(bucket), url.PathEscape(objectName)).String()
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.Blob) (Store, error) {
	switch cfg.Driver {
	case "s3", "":
		return NewS3(ctx, cfg)
	case "minio":
		return NewMinio(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported blob driver %q", cfg.Driver)
	}
}

func writeFailed(objectName string, err error) error {
	return fmt.Errorf("write %q: %w: %w", objectName, ErrWriteFailed, err)
}
