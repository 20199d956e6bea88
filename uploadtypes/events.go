package uploadtypes

import "time"

// EventType classifies upload progress events.
type EventType string

// Predefined upload event types
const (
	// EventStrategySelected is emitted once per upload when a strategy is chosen
	EventStrategySelected EventType = "strategy_selected"

	// EventDestinationFallback is emitted when an unrecognized destination kind
	// falls back to platform-managed storage
	EventDestinationFallback EventType = "destination_fallback"

	// EventCacheRegisterFailed is emitted when registering an issued handle with
	// the local cache fails after a successful upload
	EventCacheRegisterFailed EventType = "cache_register_failed"
)

// UploadEvent represents an informational event emitted during an upload.
// Events never affect control flow; they exist so a presentation layer can
// surface strategy choices, destination banners, and warnings.
type UploadEvent struct {
	// EventID is a unique identifier for this specific event instance.
	EventID string `json:"event_id"`

	// Timestamp is when this event was generated.
	Timestamp time.Time `json:"timestamp"`

	// Type indicates what happened.
	Type EventType `json:"type"`

	// Kind is the destination kind the event relates to, if any.
	Kind DestinationKind `json:"kind,omitempty"`

	// Path is the local file path the event relates to, if any.
	Path string `json:"path,omitempty"`

	// Endpoint is the destination endpoint or URL, if any.
	Endpoint string `json:"endpoint,omitempty"`

	// Bucket is the destination bucket, if any.
	Bucket string `json:"bucket,omitempty"`

	// Banner is the informational banner configured on the destination, if any.
	Banner string `json:"banner,omitempty"`

	// Message is a human-readable description of the event.
	Message string `json:"message,omitempty"`
}

// EventSink consumes upload events. Implementations must not block for long;
// the upload core publishes synchronously.
type EventSink interface {
	Publish(event UploadEvent)
}
