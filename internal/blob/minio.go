package blob

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/petermazzocco/go-photo-gallery/internal/config"
)

type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// normaliseEndpoint accepts "host:port" or a scheme-qualified URL and
// returns the host part plus whether TLS should be used.
func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// Bare host:port is a local MinIO without TLS.
	return raw, false, nil
}

// NewMinio builds the client without contacting the server. The region is
// pinned so writes skip the bucket-location lookup.
func NewMinio(_ context.Context, cfg config.Blob) (*MinioStore, error) {
	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" || region == "auto" {
		region = "us-east-1"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{client: client, bucket: cfg.Bucket, publicURL: cfg.PublicURL}, nil
}

func (s *MinioStore) Write(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType:        contentType,
			ContentDisposition: "attachment",
		})
	if err != nil {
		return "", writeFailed(objectName, err)
	}
	slog.DebugContext(ctx, "blob written", "backend", "minio", "key", info.Key, "etag", info.ETag)
	return PublicURL(s.publicURL, s.bucket, objectName), nil
}
