package synapse

import (
	"context"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/sage-bionetworks/synapse-go/fileref"
	"github.com/sage-bionetworks/synapse-go/upload"
	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

// The client satisfies the upload collaborator interfaces backed by the
// platform.
var (
	_ upload.DestinationResolver = (*Client)(nil)
	_ upload.FileHandleService   = (*Client)(nil)
)

// ResolveDestination returns the upload destination configured for the given
// container, normalized from the wire record.
func (c *Client) ResolveDestination(ctx context.Context, containerID string) (*uploadtypes.Destination, error) {
	var wire uploadDestination
	err := c.getJSON(ctx, c.fileEndpoint, "/entity/"+url.PathEscape(containerID)+"/uploadDestination", &wire)
	if err != nil {
		return nil, err
	}
	return wire.toDestination(), nil
}

// CreateExternalFileHandle issues a handle for content referenced by URL.
// The recorded file name is the last URL segment; when no mime type is given
// one is derived from that name.
func (c *Client) CreateExternalFileHandle(ctx context.Context, rawurl, mimeType, md5 string, size int64) (*uploadtypes.FileHandle, error) {
	name := fileNameForURL(rawurl)
	if mimeType == "" {
		mimeType = fileref.ContentTypeForName(name)
	}

	req := externalFileHandleRequest{
		ConcreteType: uploadtypes.ConcreteTypeExternalFileHandle,
		FileName:     name,
		ExternalURL:  rawurl,
		ContentMD5:   md5,
		ContentSize:  size,
		ContentType:  mimeType,
	}

	var wire fileHandle
	if err := c.postJSON(ctx, c.fileEndpoint, "/externalFileHandle", req, &wire); err != nil {
		return nil, err
	}
	return wire.toFileHandle(), nil
}

// CreateExternalObjectStoreFileHandle issues a handle for content the client
// placed in its own object store under key. Digest, size, and mime type are
// derived from the local file at path, which must still be readable.
func (c *Client) CreateExternalObjectStoreFileHandle(ctx context.Context, key, localPath string, storageLocationID int64, mimeType string) (*uploadtypes.FileHandle, error) {
	md5sum, err := fileref.MD5Sum(c.fs, localPath)
	if err != nil {
		return nil, err
	}
	size, err := fileref.FileSize(c.fs, localPath)
	if err != nil {
		return nil, err
	}
	if mimeType == "" {
		mimeType = fileref.DetectContentType(c.fs, localPath)
	}

	req := objectStoreFileHandleRequest{
		ConcreteType:      uploadtypes.ConcreteTypeExternalObjectStoreFileHandle,
		FileKey:           key,
		FileName:          filepath.Base(localPath),
		ContentMD5:        md5sum,
		ContentSize:       size,
		ContentType:       mimeType,
		StorageLocationID: storageLocationID,
	}

	var wire fileHandle
	if err := c.postJSON(ctx, c.fileEndpoint, "/externalFileHandle", req, &wire); err != nil {
		return nil, err
	}
	return wire.toFileHandle(), nil
}

// GetFileHandle fetches the canonical handle record for an id.
func (c *Client) GetFileHandle(ctx context.Context, id string) (*uploadtypes.FileHandle, error) {
	var wire fileHandle
	if err := c.getJSON(ctx, c.fileEndpoint, "/fileHandle/"+url.PathEscape(id), &wire); err != nil {
		return nil, err
	}
	return wire.toFileHandle(), nil
}

// fileNameForURL extracts the display name from a URL's last path segment.
func fileNameForURL(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil {
		segments := strings.Split(rawurl, "/")
		return segments[len(segments)-1]
	}

	target := u.Path
	if target == "" {
		target = u.Opaque
	}
	name := path.Base(target)
	if name == "." || name == "/" {
		return ""
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	return name
}
