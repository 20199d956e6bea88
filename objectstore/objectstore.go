// Package objectstore copies local files into client-authenticated object
// stores. It implements the ObjectStoreTransfer collaborator of the upload
// package: the platform only records provenance for these destinations, so
// the bytes move with credentials configured on this machine, never with
// platform credentials.
//
// Two store client implementations are available. ProviderAWS uses the AWS
// SDK with shared-config profiles and path-style addressing against custom
// endpoints. ProviderMinIO uses the MinIO client, which reads the same
// shared credentials file and handles large objects with its own internal
// multipart.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/fileref"
	"github.com/sage-bionetworks/synapse-go/fs"
	"github.com/sage-bionetworks/synapse-go/upload"
)

// Provider selects the store client implementation used for transfers.
type Provider string

const (
	// ProviderAWS transfers through the AWS SDK using shared-config profiles.
	ProviderAWS Provider = "aws"

	// ProviderMinIO transfers through the MinIO client.
	ProviderMinIO Provider = "minio"
)

// transferClient executes one store-specific object write.
type transferClient interface {
	putObject(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error
}

// transferFactory builds a transferClient for an endpoint and profile.
type transferFactory func(ctx context.Context, provider Provider, endpoint, profile, region string) (transferClient, error)

// Client copies local files into caller-owned object stores using named
// access profiles from the shared credentials file.
//
// Thread Safety: This struct is thread-safe for concurrent use. Store
// clients are built once per endpoint and profile and reused.
type Client struct {
	// fs reads upload content
	fs fs.Filesystem

	// logger is used for structured logging of operations
	logger *slog.Logger

	// provider selects the store client implementation
	provider Provider

	// region overrides the shared-config region for AWS transfers
	region string

	// newTransfer builds store clients; tests substitute fakes
	newTransfer transferFactory

	mu        sync.Mutex
	transfers map[string]transferClient
}

var _ upload.ObjectStoreTransfer = (*Client)(nil)

// New creates an object store Client.
func New(opts ...Option) *Client {
	options := defaultOptions()
	applyOptions(options, opts)

	fsys := options.filesystem
	if fsys == nil {
		fsys = fs.NewOSFS("/")
	}

	return &Client{
		fs:          fsys,
		logger:      options.logger,
		provider:    options.provider,
		region:      options.region,
		newTransfer: defaultTransferFactory,
		transfers:   make(map[string]transferClient),
	}
}

// Upload copies the file at path into bucket under key, authenticating with
// the named profile against the given endpoint. The content type is detected
// from the file.
func (c *Client) Upload(ctx context.Context, bucket, endpoint, key, path, profile string) error {
	const op = "objectStoreUpload"

	info, err := c.fs.Stat(path)
	if err != nil {
		return synerrors.NewPathError(op, path, err)
	}
	if info.IsDir() {
		return synerrors.NewPathError(op, path, synerrors.ErrInvalidArgument).
			WithMessage("cannot upload a directory")
	}

	transfer, err := c.transferFor(ctx, endpoint, profile)
	if err != nil {
		return synerrors.NewDestinationError(op, endpoint, synerrors.ErrInvalidCredentials).
			WithMessage(fmt.Sprintf("profile %q: %v", profile, err))
	}

	contentType := fileref.DetectContentType(c.fs, path)

	f, err := c.fs.Open(path)
	if err != nil {
		return synerrors.NewPathError(op, path, err)
	}
	defer func() { _ = f.Close() }()

	if err := transfer.putObject(ctx, bucket, key, contentType, f, info.Size()); err != nil {
		return classify(op, bucket, key, err)
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "object stored",
			"bucket", bucket,
			"key", key,
			"bytes", info.Size(),
			"profile", profile,
		)
	}
	return nil
}

// transferFor returns the store client for an endpoint and profile, building
// it on first use.
//
//nolint:ireturn // callers only need the transfer behavior
func (c *Client) transferFor(ctx context.Context, endpoint, profile string) (transferClient, error) {
	cacheKey := endpoint + "|" + profile

	c.mu.Lock()
	defer c.mu.Unlock()

	if transfer, ok := c.transfers[cacheKey]; ok {
		return transfer, nil
	}
	transfer, err := c.newTransfer(ctx, c.provider, endpoint, profile, c.region)
	if err != nil {
		return nil, err
	}
	c.transfers[cacheKey] = transfer
	return transfer, nil
}

// defaultTransferFactory builds real store clients.
//
//nolint:ireturn // factory result is used through the interface
func defaultTransferFactory(ctx context.Context, provider Provider, endpoint, profile, region string) (transferClient, error) {
	switch provider {
	case ProviderMinIO:
		return newMinIOTransfer(endpoint, profile)
	case ProviderAWS, "":
		return newAWSTransfer(ctx, endpoint, profile, region)
	default:
		return nil, fmt.Errorf("unknown object store provider %q", provider)
	}
}
