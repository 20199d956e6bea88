// Package testutil provides test utilities and mocks for upload collaborators.
// This package is internal and should only be used for testing within this module.
package testutil

import (
	"context"
	"sync"

	"github.com/sage-bionetworks/synapse-go/upload"
	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

// MockResolver is a mock implementation of upload.DestinationResolver.
// It allows customization through function fields.
type MockResolver struct {
	ResolveDestinationFunc func(ctx context.Context, containerID string) (*uploadtypes.Destination, error)
}

var _ upload.DestinationResolver = (*MockResolver)(nil)

// ResolveDestination mocks destination resolution.
func (m *MockResolver) ResolveDestination(ctx context.Context, containerID string) (*uploadtypes.Destination, error) {
	if m.ResolveDestinationFunc != nil {
		return m.ResolveDestinationFunc(ctx, containerID)
	}
	return &uploadtypes.Destination{Kind: uploadtypes.KindSynapseS3}, nil
}

// MockFileHandles is a mock implementation of upload.FileHandleService.
// It allows customization of each issuance operation through function fields.
type MockFileHandles struct {
	CreateExternalFileHandleFunc            func(ctx context.Context, url, mimeType, md5 string, size int64) (*uploadtypes.FileHandle, error)
	CreateExternalObjectStoreFileHandleFunc func(ctx context.Context, key, path string, storageLocationID int64, mimeType string) (*uploadtypes.FileHandle, error)
	GetFileHandleFunc                       func(ctx context.Context, id string) (*uploadtypes.FileHandle, error)
}

var _ upload.FileHandleService = (*MockFileHandles)(nil)

// CreateExternalFileHandle mocks external file handle issuance.
func (m *MockFileHandles) CreateExternalFileHandle(
	ctx context.Context,
	url, mimeType, md5 string,
	size int64,
) (*uploadtypes.FileHandle, error) {
	if m.CreateExternalFileHandleFunc != nil {
		return m.CreateExternalFileHandleFunc(ctx, url, mimeType, md5, size)
	}
	return &uploadtypes.FileHandle{}, nil
}

// CreateExternalObjectStoreFileHandle mocks object store file handle issuance.
func (m *MockFileHandles) CreateExternalObjectStoreFileHandle(
	ctx context.Context,
	key, path string,
	storageLocationID int64,
	mimeType string,
) (*uploadtypes.FileHandle, error) {
	if m.CreateExternalObjectStoreFileHandleFunc != nil {
		return m.CreateExternalObjectStoreFileHandleFunc(ctx, key, path, storageLocationID, mimeType)
	}
	return &uploadtypes.FileHandle{}, nil
}

// GetFileHandle mocks canonical handle retrieval.
func (m *MockFileHandles) GetFileHandle(ctx context.Context, id string) (*uploadtypes.FileHandle, error) {
	if m.GetFileHandleFunc != nil {
		return m.GetFileHandleFunc(ctx, id)
	}
	return &uploadtypes.FileHandle{ID: id}, nil
}

// MockMultipart is a mock implementation of upload.MultipartUploader.
type MockMultipart struct {
	UploadFunc func(ctx context.Context, path, contentType string, storageLocationID int64) (string, error)
}

var _ upload.MultipartUploader = (*MockMultipart)(nil)

// Upload mocks a multipart transfer, returning the resulting handle id.
func (m *MockMultipart) Upload(ctx context.Context, path, contentType string, storageLocationID int64) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, path, contentType, storageLocationID)
	}
	return "", nil
}

// MockSFTP is a mock implementation of upload.SFTPTransfer.
type MockSFTP struct {
	UploadFunc func(ctx context.Context, path, url string, creds uploadtypes.Credentials) (string, error)
}

var _ upload.SFTPTransfer = (*MockSFTP)(nil)

// Upload mocks an SFTP transfer, returning the uploaded URL.
func (m *MockSFTP) Upload(ctx context.Context, path, url string, creds uploadtypes.Credentials) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, path, url, creds)
	}
	return url, nil
}

// MockObjectStore is a mock implementation of upload.ObjectStoreTransfer.
type MockObjectStore struct {
	UploadFunc func(ctx context.Context, bucket, endpoint, key, path, profile string) error
}

var _ upload.ObjectStoreTransfer = (*MockObjectStore)(nil)

// Upload mocks an object store transfer.
func (m *MockObjectStore) Upload(ctx context.Context, bucket, endpoint, key, path, profile string) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, bucket, endpoint, key, path, profile)
	}
	return nil
}

// MockCredentials is a mock implementation of upload.CredentialProvider.
type MockCredentials struct {
	UserCredentialsFunc func(ctx context.Context, url string) (uploadtypes.Credentials, error)
	StorageProfileFunc  func(ctx context.Context, endpoint, bucket string) (string, error)
}

var _ upload.CredentialProvider = (*MockCredentials)(nil)

// UserCredentials mocks endpoint credential lookup.
func (m *MockCredentials) UserCredentials(ctx context.Context, url string) (uploadtypes.Credentials, error) {
	if m.UserCredentialsFunc != nil {
		return m.UserCredentialsFunc(ctx, url)
	}
	return uploadtypes.Credentials{}, nil
}

// StorageProfile mocks access profile lookup.
func (m *MockCredentials) StorageProfile(ctx context.Context, endpoint, bucket string) (string, error) {
	if m.StorageProfileFunc != nil {
		return m.StorageProfileFunc(ctx, endpoint, bucket)
	}
	return "default", nil
}

// MockCache is a mock implementation of upload.Cache.
type MockCache struct {
	AddFunc func(fileHandleID, path string) error

	mu      sync.Mutex
	entries map[string]string
}

var _ upload.Cache = (*MockCache)(nil)

// Add mocks cache registration. When AddFunc is unset the entry is recorded
// in memory for inspection via Entries.
func (m *MockCache) Add(fileHandleID, path string) error {
	if m.AddFunc != nil {
		return m.AddFunc(fileHandleID, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string]string)
	}
	m.entries[fileHandleID] = path
	return nil
}

// Entries returns a copy of the recorded (handle id, path) pairs.
func (m *MockCache) Entries() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// CollectorSink records published events for inspection in tests.
type CollectorSink struct {
	mu     sync.Mutex
	events []uploadtypes.UploadEvent
}

var _ uploadtypes.EventSink = (*CollectorSink)(nil)

// Publish implements uploadtypes.EventSink.
func (c *CollectorSink) Publish(event uploadtypes.UploadEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns a copy of the published events in order.
func (c *CollectorSink) Events() []uploadtypes.UploadEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uploadtypes.UploadEvent, len(c.events))
	copy(out, c.events)
	return out
}
