// Package objectstore provides the MinIO store client.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioTransfer writes objects through the MinIO client.
type minioTransfer struct {
	client *minio.Client
}

var _ transferClient = (*minioTransfer)(nil)

// newMinIOTransfer builds a MinIO client for the endpoint. Credentials come
// from the shared credentials file, keyed by profile, so the same profile
// names work for both store client implementations.
func newMinIOTransfer(endpoint, profile string) (*minioTransfer, error) {
	host, secure, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewFileAWSCredentials("", profile),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}
	return &minioTransfer{client: client}, nil
}

func (t *minioTransfer) putObject(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error {
	_, err := t.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// splitEndpoint converts an endpoint URL into the host form the MinIO client
// takes, reporting whether the connection uses TLS. A bare host without a
// scheme defaults to TLS.
func splitEndpoint(endpoint string) (host string, secure bool, err error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, true, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("cannot parse endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("endpoint %q names no host", endpoint)
	}
	return u.Host, u.Scheme != "http", nil
}
