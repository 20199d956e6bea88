package upload

import (
	"context"
	"path/filepath"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

// uploadObjectStore transfers the file to a caller-owned object store using a
// named access profile resolved for the (endpoint, bucket) pair. The object
// key is the destination's key prefix joined with the file's base name; key
// collisions between concurrent uploads sharing a prefix are the caller's
// responsibility.
func (u *Uploader) uploadObjectStore(ctx context.Context, path, contentType string, dest *uploadtypes.Destination) (*uploadtypes.FileHandle, error) {
	const op = "uploadObjectStore"

	if u.deps.ObjectStore == nil {
		return nil, synerrors.NewError(op, synerrors.ErrInvalidArgument).
			WithMessage("no object store transfer configured")
	}
	if u.deps.Credentials == nil {
		return nil, synerrors.NewError(op, synerrors.ErrInvalidArgument).
			WithMessage("no credential provider configured")
	}

	profile, err := u.deps.Credentials.StorageProfile(ctx, dest.EndpointURL, dest.Bucket)
	if err != nil {
		return nil, synerrors.NewDestinationError("getProfile", dest.Bucket, err)
	}

	key := dest.KeyPrefix + "/" + filepath.Base(path)

	if err := u.deps.ObjectStore.Upload(ctx, dest.Bucket, dest.EndpointURL, key, path, profile); err != nil {
		return nil, synerrors.NewPathError(op, path, err).WithDestination(dest.Bucket)
	}

	handle, err := u.deps.Handles.CreateExternalObjectStoreFileHandle(ctx, key, path, dest.StorageLocationID, contentType)
	if err != nil {
		return nil, synerrors.NewError("createFileHandle", err).WithPath(path)
	}

	u.registerWithCache(ctx, handle.ID, path)
	return handle, nil
}
