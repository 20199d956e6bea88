package upload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

// NopSink discards all events.
type NopSink struct{}

// Publish implements uploadtypes.EventSink.
func (NopSink) Publish(uploadtypes.UploadEvent) {}

// LogSink publishes upload events to a slog logger at info level. It is a
// convenient default presentation layer for command line consumers.
type LogSink struct {
	Logger *slog.Logger
}

// Publish implements uploadtypes.EventSink.
func (s LogSink) Publish(event uploadtypes.UploadEvent) {
	if s.Logger == nil {
		return
	}
	attrs := []any{
		"type", string(event.Type),
		"kind", event.Kind.String(),
		"path", event.Path,
	}
	if event.Endpoint != "" {
		attrs = append(attrs, "endpoint", event.Endpoint)
	}
	if event.Bucket != "" {
		attrs = append(attrs, "bucket", event.Bucket)
	}
	if event.Banner != "" {
		attrs = append(attrs, "banner", event.Banner)
	}
	s.Logger.Info(event.Message, attrs...)
}

// emit stamps and publishes an event. Events are informational only and never
// affect control flow.
func (u *Uploader) emit(event uploadtypes.UploadEvent) {
	if u.events == nil {
		return
	}
	event.EventID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	u.events.Publish(event)
}

// registerWithCache records the (handle id, local path) pair with the cache
// collaborator. The upload has already succeeded by the time this runs, so a
// cache failure degrades to a warning instead of failing the call.
func (u *Uploader) registerWithCache(ctx context.Context, handleID, path string) {
	if u.deps.Cache == nil {
		return
	}
	if err := u.deps.Cache.Add(handleID, path); err != nil {
		if u.logger != nil {
			u.logger.WarnContext(ctx, "failed to register upload with local cache",
				"handle_id", handleID,
				"path", path,
				"error", err,
			)
		}
		u.emit(uploadtypes.UploadEvent{
			Type:    uploadtypes.EventCacheRegisterFailed,
			Path:    path,
			Message: fmt.Sprintf("failed to register handle %s with local cache: %v", handleID, err),
		})
	}
}
