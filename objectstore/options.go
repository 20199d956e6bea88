// Package objectstore provides functional options for configuring the client.
package objectstore

import (
	"log/slog"

	"github.com/sage-bionetworks/synapse-go/fs"
)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	logger     *slog.Logger
	filesystem fs.Filesystem
	provider   Provider
	region     string
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

// WithFilesystem sets the filesystem abstraction used to read upload content.
// Default is the OS filesystem.
func WithFilesystem(fsys fs.Filesystem) Option {
	return func(opts *clientOptions) {
		opts.filesystem = fsys
	}
}

// WithProvider selects the store client implementation.
// Default is ProviderAWS.
func WithProvider(provider Provider) Option {
	return func(opts *clientOptions) {
		opts.provider = provider
	}
}

// WithRegion sets the region for AWS transfers. When unset, the region comes
// from the shared configuration, falling back to us-east-1.
func WithRegion(region string) Option {
	return func(opts *clientOptions) {
		opts.region = region
	}
}

// defaultOptions returns the default configuration options.
func defaultOptions() *clientOptions {
	return &clientOptions{
		provider: ProviderAWS,
	}
}

// applyOptions applies the given options to the client options.
func applyOptions(opts *clientOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
