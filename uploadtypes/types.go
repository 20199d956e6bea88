// Package uploadtypes provides shared type definitions for the Synapse upload client.
package uploadtypes

import (
	"log/slog"
	"time"

	"github.com/sage-bionetworks/synapse-go/fs"
)

// DestinationKind represents the storage flavor an upload destination resolves to.
// Unrecognized wire discriminants are carried through as their raw string value so
// callers can name them when falling back.
type DestinationKind string

// Predefined destination kinds
const (
	// KindSynapseS3 is platform-managed S3 storage, the default destination
	KindSynapseS3 DestinationKind = "SynapseS3"

	// KindExternalS3 is caller-owned S3 storage managed through the platform
	KindExternalS3 DestinationKind = "ExternalS3"

	// KindExternalUpload is an external upload endpoint such as an SFTP server
	KindExternalUpload DestinationKind = "ExternalUpload"

	// KindExternalObjectStore is a caller-owned object store the client talks to
	// directly with its own credentials
	KindExternalObjectStore DestinationKind = "ExternalObjectStore"
)

// String returns the string representation of the destination kind.
func (k DestinationKind) String() string {
	return string(k)
}

// Synapse wire discriminants for upload destinations and file handles.
const (
	// ConcreteTypeS3UploadDestination identifies platform-managed S3 destinations
	ConcreteTypeS3UploadDestination = "org.sagebionetworks.repo.model.file.S3UploadDestination"

	// ConcreteTypeExternalS3UploadDestination identifies caller-owned S3 destinations
	ConcreteTypeExternalS3UploadDestination = "org.sagebionetworks.repo.model.file.ExternalS3UploadDestination"

	// ConcreteTypeExternalUploadDestination identifies external upload endpoints
	ConcreteTypeExternalUploadDestination = "org.sagebionetworks.repo.model.file.ExternalUploadDestination"

	// ConcreteTypeExternalObjectStoreUploadDestination identifies client-authenticated
	// object store destinations
	ConcreteTypeExternalObjectStoreUploadDestination = "org.sagebionetworks.repo.model.file.ExternalObjectStoreUploadDestination"

	// ConcreteTypeS3FileHandle identifies handles backed by platform-managed storage
	ConcreteTypeS3FileHandle = "org.sagebionetworks.repo.model.file.S3FileHandle"

	// ConcreteTypeExternalFileHandle identifies handles referencing external URLs
	ConcreteTypeExternalFileHandle = "org.sagebionetworks.repo.model.file.ExternalFileHandle"

	// ConcreteTypeExternalObjectStoreFileHandle identifies handles stored in
	// client-authenticated object stores
	ConcreteTypeExternalObjectStoreFileHandle = "org.sagebionetworks.repo.model.file.ExternalObjectStoreFileHandle"
)

// KindForConcreteType maps a wire discriminant onto a DestinationKind.
// Unknown discriminants map onto themselves so the fallback arm can report them.
func KindForConcreteType(concreteType string) DestinationKind {
	switch concreteType {
	case ConcreteTypeS3UploadDestination:
		return KindSynapseS3
	case ConcreteTypeExternalS3UploadDestination:
		return KindExternalS3
	case ConcreteTypeExternalUploadDestination:
		return KindExternalUpload
	case ConcreteTypeExternalObjectStoreUploadDestination:
		return KindExternalObjectStore
	default:
		return DestinationKind(concreteType)
	}
}

// Upload types configured on external upload destinations.
const (
	// UploadTypeS3 marks an S3-style destination
	UploadTypeS3 = "S3"

	// UploadTypeSFTP marks an SFTP destination
	UploadTypeSFTP = "SFTP"
)

// UploadRequest represents the caller's upload intent. It is an immutable input
// to the upload orchestrator.
type UploadRequest struct {
	// Path is the local file path to upload. Optional when SynapseStore is false
	// and the seed carries an external URL.
	Path string

	// SynapseStore indicates whether the platform should store the bytes. When
	// false the file is referenced in place and no transfer is performed.
	SynapseStore bool

	// Seed carries partial prior file-handle metadata used to seed or validate
	// the new handle. Never mutated.
	Seed *FileHandleStub
}

// FileHandleStub is partial prior metadata about a file's content.
type FileHandleStub struct {
	// ExternalURL is a previously known URL for the content
	ExternalURL string

	// ContentMD5 is the hex-encoded MD5 digest the caller believes the content has
	ContentMD5 string

	// ContentType is the MIME type of the content
	ContentType string

	// ContentSize is the content length in bytes
	ContentSize int64
}

// Destination describes where uploads for a container should land. It is
// resolved once per upload from the parent container's storage configuration
// and is read-only for the upload core.
type Destination struct {
	// Kind selects the upload strategy
	Kind DestinationKind

	// ConcreteType is the raw wire discriminant the kind was derived from
	ConcreteType string

	// StorageLocationID identifies the storage location, 0 meaning the platform
	// default
	StorageLocationID int64

	// Banner is an informational message configured for the destination
	Banner string

	// UploadType is the sub-type configured on external upload destinations
	// (e.g. "SFTP")
	UploadType string

	// URL is the base endpoint URL for external upload destinations; it may
	// arrive percent-encoded from configuration
	URL string

	// Bucket is the target bucket for object store destinations
	Bucket string

	// EndpointURL is the object store endpoint for object store destinations
	EndpointURL string

	// KeyPrefix is the key prefix objects are stored under for object store
	// destinations
	KeyPrefix string
}

// FileHandle is the platform record identifying stored or referenced content.
// It is produced by exactly one upload strategy and is immutable once returned.
type FileHandle struct {
	// ID is the platform-issued handle identifier
	ID string

	// Etag is the platform concurrency tag for the record
	Etag string

	// ConcreteType is the wire discriminant of the handle flavor
	ConcreteType string

	// FileName is the name recorded for the content
	FileName string

	// ContentType is the MIME type recorded for the content
	ContentType string

	// ContentMD5 is the hex-encoded MD5 digest of the content
	ContentMD5 string

	// ContentSize is the content length in bytes
	ContentSize int64

	// ExternalURL is the URL for externally referenced content
	ExternalURL string

	// Key is the object key for object store backed content
	Key string

	// Bucket is the bucket for object store backed content
	Bucket string

	// EndpointURL is the object store endpoint for object store backed content
	EndpointURL string

	// StorageLocationID identifies the storage location the content lives in
	StorageLocationID int64

	// CreatedOn is when the platform issued the handle
	CreatedOn time.Time

	// IsLocal marks handles whose content is backed by an existing local file,
	// signalling that the local path may be indexed under the handle id
	IsLocal bool
}

// Credentials are short-lived endpoint credentials for external transfers.
type Credentials struct {
	Username string
	Password string
}

// Configuration types for functional options

// UploaderConfig holds configuration for the upload orchestrator.
type UploaderConfig struct {
	Logger     *slog.Logger
	Events     EventSink
	Filesystem fs.Filesystem // Filesystem abstraction for file operations
}

// Option is a functional option for configuring the upload orchestrator.
type Option func(*UploaderConfig)
