// Package synapse provides functional options for configuring the REST client.
package synapse

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sage-bionetworks/synapse-go/fs"
)

// Production service endpoints.
const (
	// DefaultRepoEndpoint is the production repository service.
	DefaultRepoEndpoint = "https://repo-prod.prod.sagebase.org/repo/v1"

	// DefaultFileEndpoint is the production file service.
	DefaultFileEndpoint = "https://repo-prod.prod.sagebase.org/file/v1"
)

// defaultTimeout bounds a single REST call. Multipart byte transfers use
// their own client and are not subject to it.
const defaultTimeout = 70 * time.Second

// clientOptions holds configuration options for the Synapse client.
type clientOptions struct {
	logger       *slog.Logger
	httpClient   *http.Client
	filesystem   fs.Filesystem
	repoEndpoint string
	fileEndpoint string
}

// Option is a functional option for configuring the Client.
type Option func(*clientOptions)

// WithLogger configures the client with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// WithHTTPClient configures the underlying HTTP client.
// Useful for custom transports and timeouts.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *clientOptions) {
		opts.httpClient = client
	}
}

// WithFilesystem sets the filesystem abstraction used when handle issuance
// needs to read local file content. Default is the OS filesystem.
func WithFilesystem(fsys fs.Filesystem) Option {
	return func(opts *clientOptions) {
		opts.filesystem = fsys
	}
}

// WithRepoEndpoint overrides the repository service endpoint.
func WithRepoEndpoint(endpoint string) Option {
	return func(opts *clientOptions) {
		opts.repoEndpoint = endpoint
	}
}

// WithFileEndpoint overrides the file service endpoint.
func WithFileEndpoint(endpoint string) Option {
	return func(opts *clientOptions) {
		opts.fileEndpoint = endpoint
	}
}

// defaultOptions returns the default configuration options.
func defaultOptions() *clientOptions {
	return &clientOptions{
		logger:       nil, // No default logger
		httpClient:   &http.Client{Timeout: defaultTimeout},
		repoEndpoint: DefaultRepoEndpoint,
		fileEndpoint: DefaultFileEndpoint,
	}
}

// applyOptions applies the given options to the client options.
func applyOptions(opts *clientOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
