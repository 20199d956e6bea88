package synapse

import (
	"time"

	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

// Wire records for the REST API. Field names follow the platform's JSON
// schema, which is not uniform across record flavors; the exported types in
// uploadtypes are the normalized view.

// uploadDestination is the platform's upload destination record. The concrete
// type discriminant decides which optional fields are populated.
type uploadDestination struct {
	ConcreteType      string `json:"concreteType"`
	StorageLocationID int64  `json:"storageLocationId,omitempty"`
	Banner            string `json:"banner,omitempty"`
	UploadType        string `json:"uploadType,omitempty"`
	URL               string `json:"url,omitempty"`
	Bucket            string `json:"bucket,omitempty"`
	EndpointURL       string `json:"endpointUrl,omitempty"`
	KeyPrefixUUID     string `json:"keyPrefixUUID,omitempty"`
}

// toDestination normalizes the wire record.
func (d *uploadDestination) toDestination() *uploadtypes.Destination {
	return &uploadtypes.Destination{
		Kind:              uploadtypes.KindForConcreteType(d.ConcreteType),
		ConcreteType:      d.ConcreteType,
		StorageLocationID: d.StorageLocationID,
		Banner:            d.Banner,
		UploadType:        d.UploadType,
		URL:               d.URL,
		Bucket:            d.Bucket,
		EndpointURL:       d.EndpointURL,
		KeyPrefix:         d.KeyPrefixUUID,
	}
}

// externalFileHandleRequest creates a handle referencing content by URL.
type externalFileHandleRequest struct {
	ConcreteType string `json:"concreteType"`
	FileName     string `json:"fileName"`
	ExternalURL  string `json:"externalURL"`
	ContentMD5   string `json:"contentMd5,omitempty"`
	ContentSize  int64  `json:"contentSize,omitempty"`
	ContentType  string `json:"contentType,omitempty"`
}

// objectStoreFileHandleRequest creates a handle for content the client placed
// in its own object store.
type objectStoreFileHandleRequest struct {
	ConcreteType      string `json:"concreteType"`
	FileKey           string `json:"fileKey"`
	FileName          string `json:"fileName"`
	ContentMD5        string `json:"contentMd5"`
	ContentSize       int64  `json:"contentSize"`
	ContentType       string `json:"contentType,omitempty"`
	StorageLocationID int64  `json:"storageLocationId"`
}

// fileHandle is the platform's file handle record.
type fileHandle struct {
	ID                string    `json:"id"`
	Etag              string    `json:"etag,omitempty"`
	ConcreteType      string    `json:"concreteType"`
	FileName          string    `json:"fileName,omitempty"`
	ContentType       string    `json:"contentType,omitempty"`
	ContentMD5        string    `json:"contentMd5,omitempty"`
	ContentSize       int64     `json:"contentSize,omitempty"`
	ExternalURL       string    `json:"externalURL,omitempty"`
	FileKey           string    `json:"fileKey,omitempty"`
	Bucket            string    `json:"bucketName,omitempty"`
	EndpointURL       string    `json:"endpointUrl,omitempty"`
	StorageLocationID int64     `json:"storageLocationId,omitempty"`
	CreatedOn         time.Time `json:"createdOn"`
}

// toFileHandle normalizes the wire record.
func (h *fileHandle) toFileHandle() *uploadtypes.FileHandle {
	return &uploadtypes.FileHandle{
		ID:                h.ID,
		Etag:              h.Etag,
		ConcreteType:      h.ConcreteType,
		FileName:          h.FileName,
		ContentType:       h.ContentType,
		ContentMD5:        h.ContentMD5,
		ContentSize:       h.ContentSize,
		ExternalURL:       h.ExternalURL,
		Key:               h.FileKey,
		Bucket:            h.Bucket,
		EndpointURL:       h.EndpointURL,
		StorageLocationID: h.StorageLocationID,
		CreatedOn:         h.CreatedOn,
	}
}
