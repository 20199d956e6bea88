package upload

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/fileref"
	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

// uploadReference issues a file handle for content referenced in place. No
// bytes are moved. When the URL names an existing local file its digest and
// size are computed and a conflicting seed digest aborts the upload; for a
// true remote reference the seeded digest and size pass through unexamined.
func (u *Uploader) uploadReference(ctx context.Context, rawurl string, seed *uploadtypes.FileHandleStub) (*uploadtypes.FileHandle, error) {
	const op = "uploadReference"

	if !fileref.IsURL(rawurl) {
		return nil, synerrors.NewError(op, synerrors.ErrInvalidArgument).
			WithMessage(fmt.Sprintf("%q is not a valid URL", rawurl))
	}

	md5sum := ""
	size := int64(0)
	contentType := ""
	if seed != nil {
		md5sum = seed.ContentMD5
		size = seed.ContentSize
		contentType = seed.ContentType
	}

	localPath := u.localTarget(rawurl)
	if localPath != "" {
		computed, err := fileref.MD5Sum(u.fs, localPath)
		if err != nil {
			return nil, synerrors.NewPathError(op, localPath, err)
		}
		if md5sum != "" && !strings.EqualFold(md5sum, computed) {
			return nil, synerrors.NewError(op, synerrors.ErrChecksumMismatch).
				WithPath(localPath).
				WithMessage(fmt.Sprintf("declared md5 %s does not match computed md5 %s", md5sum, computed))
		}
		md5sum = computed

		size, err = fileref.FileSize(u.fs, localPath)
		if err != nil {
			return nil, synerrors.NewPathError(op, localPath, err)
		}
		if contentType == "" {
			contentType = fileref.DetectContentType(u.fs, localPath)
		}
	}

	handle, err := u.deps.Handles.CreateExternalFileHandle(ctx, rawurl, contentType, md5sum, size)
	if err != nil {
		return nil, synerrors.NewError("createFileHandle", err).WithDestination(rawurl)
	}

	handle.IsLocal = localPath != ""
	if handle.IsLocal {
		u.registerWithCache(ctx, handle.ID, localPath)
	}
	return handle, nil
}

// localTarget returns the local path a file URL points at, or "" when the URL
// is not a file URL or the file does not exist.
func (u *Uploader) localTarget(rawurl string) string {
	parsed, err := url.Parse(rawurl)
	if err != nil || parsed.Scheme != "file" {
		return ""
	}
	path, err := fileref.FileURLToPath(rawurl)
	if err != nil {
		return ""
	}
	info, err := u.fs.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return path
}
