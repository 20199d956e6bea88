package upload

import (
	"context"
	"fmt"
	"net/url"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/fileref"
	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

// uploadSFTP transfers the file to an external SFTP endpoint. Only the SFTP
// sub-type of external upload destinations is supported; anything else is a
// hard failure rather than a fallback, because the destination kind itself is
// recognized. Digest and size are computed locally after the transfer, the
// transfer collaborator is not trusted to report them.
func (u *Uploader) uploadSFTP(ctx context.Context, path, contentType string, dest *uploadtypes.Destination) (*uploadtypes.FileHandle, error) {
	const op = "uploadSFTP"

	if dest.UploadType != uploadtypes.UploadTypeSFTP {
		return nil, synerrors.NewDestinationError(op, dest.URL, synerrors.ErrUnsupportedDestination).
			WithMessage(fmt.Sprintf("only SFTP is supported for external upload destinations, got upload type %q", dest.UploadType))
	}
	if u.deps.SFTP == nil {
		return nil, synerrors.NewError(op, synerrors.ErrInvalidArgument).
			WithMessage("no SFTP transfer configured")
	}
	if u.deps.Credentials == nil {
		return nil, synerrors.NewError(op, synerrors.ErrInvalidArgument).
			WithMessage("no credential provider configured")
	}

	// Credentials are keyed by the URL exactly as configured on the destination.
	creds, err := u.deps.Credentials.UserCredentials(ctx, dest.URL)
	if err != nil {
		return nil, synerrors.NewDestinationError("getCredentials", dest.URL, err)
	}

	// Destination URLs may arrive percent-encoded from configuration.
	decoded, err := url.PathUnescape(dest.URL)
	if err != nil {
		return nil, synerrors.NewDestinationError(op, dest.URL, synerrors.ErrInvalidArgument).
			WithMessage(fmt.Sprintf("cannot decode destination URL: %v", err))
	}

	uploadedURL, err := u.deps.SFTP.Upload(ctx, path, decoded, creds)
	if err != nil {
		return nil, synerrors.NewPathError(op, path, err).WithDestination(decoded)
	}

	md5sum, err := fileref.MD5Sum(u.fs, path)
	if err != nil {
		return nil, synerrors.NewPathError(op, path, err)
	}
	size, err := fileref.FileSize(u.fs, path)
	if err != nil {
		return nil, synerrors.NewPathError(op, path, err)
	}
	if contentType == "" {
		contentType = fileref.DetectContentType(u.fs, path)
	}

	handle, err := u.deps.Handles.CreateExternalFileHandle(ctx, uploadedURL, contentType, md5sum, size)
	if err != nil {
		return nil, synerrors.NewError("createFileHandle", err).WithPath(path)
	}

	u.registerWithCache(ctx, handle.ID, path)
	return handle, nil
}
