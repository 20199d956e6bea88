package upload

import (
	"context"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

// uploadManaged stores the file in platform-managed or external S3 storage via
// the multipart transfer collaborator. The collaborator owns chunking, session
// resumption, and retries; failures propagate with their error chain intact.
// A storageLocationID of 0 selects the platform default location.
func (u *Uploader) uploadManaged(ctx context.Context, path, contentType string, storageLocationID int64) (*uploadtypes.FileHandle, error) {
	const op = "uploadManaged"

	if u.deps.Multipart == nil {
		return nil, synerrors.NewError(op, synerrors.ErrInvalidArgument).
			WithMessage("no multipart uploader configured")
	}

	handleID, err := u.deps.Multipart.Upload(ctx, path, contentType, storageLocationID)
	if err != nil {
		return nil, synerrors.NewPathError(op, path, err)
	}

	handle, err := u.deps.Handles.GetFileHandle(ctx, handleID)
	if err != nil {
		return nil, synerrors.NewPathError("getFileHandle", path, err)
	}

	u.registerWithCache(ctx, handle.ID, path)
	return handle, nil
}
