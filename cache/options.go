// Package cache provides functional options for configuring the cache.
package cache

import (
	"log/slog"

	"github.com/sage-bionetworks/synapse-go/fs"
)

// cacheOptions holds configuration options for the Cache.
type cacheOptions struct {
	logger     *slog.Logger
	filesystem fs.Filesystem
	root       string
}

// Option is a functional option for configuring the Cache.
type Option func(*cacheOptions)

// WithLogger configures the cache with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *cacheOptions) {
		opts.logger = logger
	}
}

// WithFilesystem sets the filesystem abstraction the cache lives on.
// Default is the OS filesystem.
func WithFilesystem(fsys fs.Filesystem) Option {
	return func(opts *cacheOptions) {
		opts.filesystem = fsys
	}
}

// WithRoot sets the cache root directory.
// Default is a "synapse" directory under the user cache directory.
func WithRoot(root string) Option {
	return func(opts *cacheOptions) {
		opts.root = root
	}
}

// defaultOptions returns the default configuration options.
func defaultOptions() *cacheOptions {
	return &cacheOptions{}
}

// applyOptions applies the given options to the cache options.
func applyOptions(opts *cacheOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
