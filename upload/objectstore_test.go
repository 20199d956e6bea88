package upload_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/internal/testutil"
	"github.com/sage-bionetworks/synapse-go/upload"
	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

func objectStoreDest() *uploadtypes.Destination {
	return &uploadtypes.Destination{
		Kind:              uploadtypes.KindExternalObjectStore,
		StorageLocationID: 3,
		Bucket:            "b",
		EndpointURL:       "https://s3.amazonaws.com",
		KeyPrefix:         "p1",
	}
}

func TestUploader_Upload_ObjectStore(t *testing.T) {
	t.Run("composes the key from prefix and base name", func(t *testing.T) {
		fsys := newTestFS(t)
		require.NoError(t, fsys.WriteFile("/data/a.txt", []byte(testContent), 0o644))

		deps := storeDeps(objectStoreDest())
		deps.Credentials = &testutil.MockCredentials{
			StorageProfileFunc: func(ctx context.Context, endpoint, bucket string) (string, error) {
				assert.Equal(t, "https://s3.amazonaws.com", endpoint)
				assert.Equal(t, "b", bucket)
				return "science-profile", nil
			},
		}
		deps.ObjectStore = &testutil.MockObjectStore{
			UploadFunc: func(ctx context.Context, bucket, endpoint, key, path, profile string) error {
				assert.Equal(t, "b", bucket)
				assert.Equal(t, "https://s3.amazonaws.com", endpoint)
				assert.Equal(t, "p1/a.txt", key)
				assert.Equal(t, "/data/a.txt", path)
				assert.Equal(t, "science-profile", profile)
				return nil
			},
		}
		deps.Handles = &testutil.MockFileHandles{
			CreateExternalObjectStoreFileHandleFunc: func(ctx context.Context, key, path string, storageLocationID int64, mimeType string) (*uploadtypes.FileHandle, error) {
				assert.Equal(t, "p1/a.txt", key)
				assert.Equal(t, "/data/a.txt", path)
				assert.Equal(t, int64(3), storageLocationID)
				return &uploadtypes.FileHandle{
					ID:     "os-handle-1",
					Key:    key,
					Bucket: "b",
				}, nil
			},
		}
		cache := &testutil.MockCache{}
		deps.Cache = cache

		up, err := upload.New(deps, upload.WithFilesystem(fsys))
		require.NoError(t, err)

		handle, err := up.Upload(context.Background(), "syn123", uploadtypes.UploadRequest{
			Path:         "/data/a.txt",
			SynapseStore: true,
		})
		require.NoError(t, err)
		require.NotNil(t, handle)
		assert.Equal(t, "os-handle-1", handle.ID)
		assert.Equal(t, "p1/a.txt", handle.Key)
		assert.Equal(t, map[string]string{"os-handle-1": "/data/a.txt"}, cache.Entries())
	})

	t.Run("forwards the seeded content type to handle issuance", func(t *testing.T) {
		deps := storeDeps(objectStoreDest())
		deps.Credentials = &testutil.MockCredentials{}
		deps.ObjectStore = &testutil.MockObjectStore{}
		deps.Handles = &testutil.MockFileHandles{
			CreateExternalObjectStoreFileHandleFunc: func(ctx context.Context, key, path string, storageLocationID int64, mimeType string) (*uploadtypes.FileHandle, error) {
				assert.Equal(t, "text/csv", mimeType)
				return &uploadtypes.FileHandle{ID: "os-handle-2"}, nil
			},
		}

		up, err := upload.New(deps, upload.WithFilesystem(newTestFS(t)))
		require.NoError(t, err)

		_, err = up.Upload(context.Background(), "syn123", uploadtypes.UploadRequest{
			Path:         testPath,
			SynapseStore: true,
			Seed:         &uploadtypes.FileHandleStub{ContentType: "text/csv"},
		})
		require.NoError(t, err)
	})

	t.Run("profile lookup failure", func(t *testing.T) {
		deps := storeDeps(objectStoreDest())
		deps.ObjectStore = &testutil.MockObjectStore{}
		deps.Credentials = &testutil.MockCredentials{
			StorageProfileFunc: func(ctx context.Context, endpoint, bucket string) (string, error) {
				return "", fmt.Errorf("no profile for bucket %s: %w", bucket, synerrors.ErrInvalidCredentials)
			},
		}

		up, err := upload.New(deps, upload.WithFilesystem(newTestFS(t)))
		require.NoError(t, err)

		handle, err := up.Upload(context.Background(), "syn123", uploadtypes.UploadRequest{
			Path:         testPath,
			SynapseStore: true,
		})
		assert.Nil(t, handle)
		require.Error(t, err)
		assert.ErrorIs(t, err, synerrors.ErrInvalidCredentials)
		assert.Contains(t, err.Error(), "b")
	})

	t.Run("transfer failure keeps the collaborator error chain", func(t *testing.T) {
		var handleIssued bool

		deps := storeDeps(objectStoreDest())
		deps.Credentials = &testutil.MockCredentials{}
		deps.ObjectStore = &testutil.MockObjectStore{
			UploadFunc: func(ctx context.Context, bucket, endpoint, key, path, profile string) error {
				return fmt.Errorf("access denied for bucket %s: %w", bucket, synerrors.ErrTransferFailed)
			},
		}
		deps.Handles = &testutil.MockFileHandles{
			CreateExternalObjectStoreFileHandleFunc: func(ctx context.Context, key, path string, storageLocationID int64, mimeType string) (*uploadtypes.FileHandle, error) {
				handleIssued = true
				return &uploadtypes.FileHandle{}, nil
			},
		}

		up, err := upload.New(deps, upload.WithFilesystem(newTestFS(t)))
		require.NoError(t, err)

		handle, err := up.Upload(context.Background(), "syn123", uploadtypes.UploadRequest{
			Path:         testPath,
			SynapseStore: true,
		})
		assert.Nil(t, handle)
		require.Error(t, err)
		assert.True(t, synerrors.IsTransferFailed(err))
		assert.False(t, handleIssued, "no handle is issued when the transfer fails")
	})

	t.Run("missing collaborators", func(t *testing.T) {
		tests := []struct {
			name        string
			mutate      func(*upload.Dependencies)
			errContains string
		}{
			{
				name:        "no object store transfer configured",
				mutate:      func(d *upload.Dependencies) { d.ObjectStore = nil },
				errContains: "no object store transfer",
			},
			{
				name:        "no credential provider configured",
				mutate:      func(d *upload.Dependencies) { d.Credentials = nil },
				errContains: "no credential provider",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				deps := storeDeps(objectStoreDest())
				deps.ObjectStore = &testutil.MockObjectStore{}
				deps.Credentials = &testutil.MockCredentials{}
				tt.mutate(&deps)

				up, err := upload.New(deps, upload.WithFilesystem(newTestFS(t)))
				require.NoError(t, err)

				handle, err := up.Upload(context.Background(), "syn123", uploadtypes.UploadRequest{
					Path:         testPath,
					SynapseStore: true,
				})
				assert.Nil(t, handle)
				require.Error(t, err)
				assert.True(t, synerrors.IsInvalidArgument(err))
				assert.Contains(t, err.Error(), tt.errContains)
			})
		}
	})
}
