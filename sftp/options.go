// Package sftp provides functional options for configuring the uploader.
package sftp

import (
	"log/slog"
	"time"

	gossh "golang.org/x/crypto/ssh"

	"github.com/sage-bionetworks/synapse-go/fs"
)

// defaultTimeout bounds the TCP dial and SSH handshake.
const defaultTimeout = 30 * time.Second

// uploaderOptions holds configuration options for the Uploader.
type uploaderOptions struct {
	logger          *slog.Logger
	filesystem      fs.Filesystem
	hostKeyCallback gossh.HostKeyCallback
	timeout         time.Duration
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

// WithFilesystem sets the filesystem abstraction used to read upload content.
// Default is the OS filesystem.
func WithFilesystem(fsys fs.Filesystem) Option {
	return func(opts *uploaderOptions) {
		opts.filesystem = fsys
	}
}

// WithHostKeyCallback sets the host key verification callback.
// If unset, any host key is accepted (insecure).
func WithHostKeyCallback(callback gossh.HostKeyCallback) Option {
	return func(opts *uploaderOptions) {
		opts.hostKeyCallback = callback
	}
}

// WithTimeout bounds the TCP dial and SSH handshake.
// Default is 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *uploaderOptions) {
		opts.timeout = timeout
	}
}

// defaultOptions returns the default configuration options.
func defaultOptions() *uploaderOptions {
	return &uploaderOptions{
		timeout: defaultTimeout,
	}
}

// applyOptions applies the given options to the uploader options.
func applyOptions(opts *uploaderOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
