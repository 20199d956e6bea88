package upload

import (
	"context"

	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

// DestinationResolver resolves the active storage configuration for a parent
// container. The result may reflect server-side policy and is treated as
// read-only.
type DestinationResolver interface {
	ResolveDestination(ctx context.Context, containerID string) (*uploadtypes.Destination, error)
}

// FileHandleService is the authoritative source of file handle records. The
// upload core never invents a handle id itself.
type FileHandleService interface {
	// CreateExternalFileHandle issues a handle for content referenced by URL.
	CreateExternalFileHandle(ctx context.Context, url, mimeType, md5 string, size int64) (*uploadtypes.FileHandle, error)

	// CreateExternalObjectStoreFileHandle issues a handle for content stored in
	// a client-authenticated object store, recording bucket and key provenance.
	// Digest and size are derived from the local file at path.
	CreateExternalObjectStoreFileHandle(ctx context.Context, key, path string, storageLocationID int64, mimeType string) (*uploadtypes.FileHandle, error)

	// GetFileHandle fetches the canonical handle record for an id.
	GetFileHandle(ctx context.Context, id string) (*uploadtypes.FileHandle, error)
}

// MultipartUploader transfers a local file into platform-managed storage and
// returns the id of the resulting file handle. It owns chunking, upload
// session resumption, and any retrying; the call blocks until the transfer
// finishes.
type MultipartUploader interface {
	Upload(ctx context.Context, path, contentType string, storageLocationID int64) (string, error)
}

// SFTPTransfer copies a local file to an SFTP endpoint and returns the URL the
// file was uploaded to. The call blocks until the transfer finishes.
type SFTPTransfer interface {
	Upload(ctx context.Context, path, url string, creds uploadtypes.Credentials) (string, error)
}

// ObjectStoreTransfer copies a local file into a caller-owned object store
// using a named access profile. The call blocks until the transfer finishes.
type ObjectStoreTransfer interface {
	Upload(ctx context.Context, bucket, endpoint, key, path, profile string) error
}

// CredentialProvider supplies endpoint credentials for external transfers.
type CredentialProvider interface {
	// UserCredentials returns credentials for the endpoint named by url.
	UserCredentials(ctx context.Context, url string) (uploadtypes.Credentials, error)

	// StorageProfile returns the named access profile configured for the
	// (endpoint, bucket) pair.
	StorageProfile(ctx context.Context, endpoint, bucket string) (string, error)
}

// Cache indexes local paths under issued file handle ids. The upload core only
// ever appends; implementations must document thread-safety for concurrent
// appends.
type Cache interface {
	Add(fileHandleID, path string) error
}

// Dependencies bundles the collaborators an Uploader needs. Handles is always
// required; the remaining collaborators are required only by the strategies
// that use them.
type Dependencies struct {
	Resolver    DestinationResolver
	Handles     FileHandleService
	Multipart   MultipartUploader
	SFTP        SFTPTransfer
	ObjectStore ObjectStoreTransfer
	Credentials CredentialProvider
	Cache       Cache
}
