package upload

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/fileref"
	"github.com/sage-bionetworks/synapse-go/fs"
	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

// Uploader routes uploads to the strategy selected by the parent container's
// destination and returns the uniform file handle record. A single Upload call
// runs synchronously; all parallelism belongs to the transfer collaborators.
type Uploader struct {
	deps   Dependencies
	fs     fs.Filesystem
	logger *slog.Logger
	events uploadtypes.EventSink
}

// New creates a new Uploader with the provided collaborators and options.
//
// Example:
//
//	up, err := upload.New(deps,
//	    upload.WithLogger(logger),
//	    upload.WithEventSink(sink),
//	)
func New(deps Dependencies, opts ...uploadtypes.Option) (*Uploader, error) {
	if deps.Handles == nil {
		return nil, synerrors.NewError("new", synerrors.ErrInvalidArgument).
			WithMessage("a file handle service is required")
	}

	cfg := &uploadtypes.UploaderConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	fsys := cfg.Filesystem
	if fsys == nil {
		// Default to OS filesystem rooted at /
		fsys = fs.NewOSFS("/")
	}

	return &Uploader{
		deps:   deps,
		fs:     fsys,
		logger: cfg.Logger,
		events: cfg.Events,
	}, nil
}

// Upload stores or references the file described by req for the given parent
// container and returns the issued file handle.
//
// When req.SynapseStore is false no bytes are moved: the content is referenced
// in place, either by the seed's external URL or by a file URL synthesized
// from req.Path. Otherwise the parent container's destination is resolved and
// its kind selects the transfer strategy. Unrecognized kinds fall back to
// platform-managed storage with a warning so server-added destination types do
// not break older clients.
func (u *Uploader) Upload(ctx context.Context, parentID string, req uploadtypes.UploadRequest) (*uploadtypes.FileHandle, error) {
	if !req.SynapseStore {
		rawurl := ""
		if req.Seed != nil && req.Seed.ExternalURL != "" {
			rawurl = req.Seed.ExternalURL
		} else if req.Path != "" {
			rawurl = fileref.AsFileURL(fileref.ExpandPath(req.Path))
		}
		if rawurl == "" {
			return nil, synerrors.NewError("upload", synerrors.ErrInvalidArgument).
				WithMessage("either a local path or an external URL is required")
		}
		return u.uploadReference(ctx, rawurl, req.Seed)
	}

	if req.Path == "" {
		return nil, synerrors.NewError("upload", synerrors.ErrInvalidArgument).
			WithMessage("a local path is required when storing to the platform")
	}
	path := fileref.ExpandPath(req.Path)

	if u.deps.Resolver == nil {
		return nil, synerrors.NewError("upload", synerrors.ErrInvalidArgument).
			WithMessage("no destination resolver configured")
	}
	dest, err := u.deps.Resolver.ResolveDestination(ctx, parentID)
	if err != nil {
		return nil, synerrors.NewDestinationError("resolveDestination", parentID, err)
	}

	contentType := ""
	if req.Seed != nil {
		contentType = req.Seed.ContentType
	}

	switch dest.Kind {
	case uploadtypes.KindSynapseS3:
		u.emit(uploadtypes.UploadEvent{
			Type:    uploadtypes.EventStrategySelected,
			Kind:    dest.Kind,
			Path:    path,
			Banner:  dest.Banner,
			Message: "uploading to Synapse storage",
		})
		return u.uploadManaged(ctx, path, contentType, dest.StorageLocationID)

	case uploadtypes.KindExternalS3:
		u.emit(uploadtypes.UploadEvent{
			Type:    uploadtypes.EventStrategySelected,
			Kind:    dest.Kind,
			Path:    path,
			Banner:  dest.Banner,
			Message: "uploading to external S3 storage",
		})
		return u.uploadManaged(ctx, path, contentType, dest.StorageLocationID)

	case uploadtypes.KindExternalUpload:
		u.emit(uploadtypes.UploadEvent{
			Type:     uploadtypes.EventStrategySelected,
			Kind:     dest.Kind,
			Path:     path,
			Endpoint: hostOf(dest.URL),
			Banner:   dest.Banner,
			Message:  fmt.Sprintf("uploading to %s", hostOf(dest.URL)),
		})
		return u.uploadSFTP(ctx, path, contentType, dest)

	case uploadtypes.KindExternalObjectStore:
		u.emit(uploadtypes.UploadEvent{
			Type:     uploadtypes.EventStrategySelected,
			Kind:     dest.Kind,
			Path:     path,
			Endpoint: dest.EndpointURL,
			Bucket:   dest.Bucket,
			Banner:   dest.Banner,
			Message:  fmt.Sprintf("uploading to object store %s", dest.EndpointURL),
		})
		return u.uploadObjectStore(ctx, path, contentType, dest)

	default:
		// Forward compatibility: server-added destination kinds route to
		// platform-managed storage at the default storage location.
		if u.logger != nil {
			u.logger.WarnContext(ctx, "unknown upload destination type, defaulting to Synapse storage",
				"kind", dest.Kind.String(),
				"parent_id", parentID,
			)
		}
		u.emit(uploadtypes.UploadEvent{
			Type:    uploadtypes.EventDestinationFallback,
			Kind:    dest.Kind,
			Path:    path,
			Message: fmt.Sprintf("unknown upload destination type %q, defaulting to Synapse storage", dest.Kind.String()),
		})
		return u.uploadManaged(ctx, path, contentType, 0)
	}
}

// hostOf extracts the host from a URL for display, returning the input when it
// does not parse.
func hostOf(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil || u.Host == "" {
		return rawurl
	}
	return u.Host
}
