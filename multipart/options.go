// Package multipart provides functional options for configuring the uploader.
package multipart

import (
	"log/slog"
	"net/http"

	"github.com/sage-bionetworks/synapse-go/fs"
)

// uploaderOptions holds configuration options for the Uploader.
type uploaderOptions struct {
	logger      *slog.Logger
	httpClient  *http.Client
	filesystem  fs.Filesystem
	partSize    int64
	concurrency int
}

// Option is a functional option for configuring the Uploader.
type Option func(*uploaderOptions)

// WithLogger configures the uploader with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *uploaderOptions) {
		opts.logger = logger
	}
}

// WithHTTPClient configures the HTTP client used for presigned part
// transfers. The default client has no timeout; per-part deadlines come from
// the caller's context.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *uploaderOptions) {
		opts.httpClient = client
	}
}

// WithFilesystem sets the filesystem abstraction used to read upload content.
// Default is the OS filesystem.
func WithFilesystem(fsys fs.Filesystem) Option {
	return func(opts *uploaderOptions) {
		opts.filesystem = fsys
	}
}

// WithPartSize overrides the computed part size. Must be at least MinPartSize
// and small enough to fit the file in MaxParts parts.
func WithPartSize(size int64) Option {
	return func(opts *uploaderOptions) {
		opts.partSize = size
	}
}

// WithConcurrency sets how many parts are transferred at once.
// Default is 8.
func WithConcurrency(n int) Option {
	return func(opts *uploaderOptions) {
		opts.concurrency = n
	}
}

// defaultOptions returns the default configuration options.
func defaultOptions() *uploaderOptions {
	return &uploaderOptions{
		logger:      nil, // No default logger
		httpClient:  &http.Client{},
		concurrency: defaultConcurrency,
	}
}

// applyOptions applies the given options to the uploader options.
func applyOptions(opts *uploaderOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
