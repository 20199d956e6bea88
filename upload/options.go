// Package upload provides functional options for configuring the upload
// orchestrator. These options follow the functional options pattern for clean,
// composable configuration.
package upload

import (
	"log/slog"

	"github.com/sage-bionetworks/synapse-go/fs"
	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

// WithLogger sets the logger used for warnings and diagnostics.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) uploadtypes.Option {
	return func(c *uploadtypes.UploaderConfig) {
		c.Logger = logger
	}
}

// WithEventSink sets the sink upload events are published to.
// By default events are discarded.
func WithEventSink(sink uploadtypes.EventSink) uploadtypes.Option {
	return func(c *uploadtypes.UploaderConfig) {
		c.Events = sink
	}
}

// WithFilesystem sets the filesystem abstraction used for local file access.
// This is useful for testing with an in-memory filesystem.
// Default is the OS filesystem.
func WithFilesystem(fsys fs.Filesystem) uploadtypes.Option {
	return func(c *uploadtypes.UploaderConfig) {
		c.Filesystem = fsys
	}
}
