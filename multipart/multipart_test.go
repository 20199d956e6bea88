// Package multipart provides mocked tests for the multipart upload engine.
package multipart

import (
	"context"
	"crypto/md5" //nolint:gosec // MD5 is the platform's content digest algorithm
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/fs"
	"github.com/sage-bionetworks/synapse-go/synapse"
)

// fakeService is a func-field fake of the platform session service.
type fakeService struct {
	startFunc    func(ctx context.Context, req synapse.MultipartRequest, forceRestart bool) (*synapse.MultipartStatus, error)
	batchFunc    func(ctx context.Context, uploadID string, partNumbers []int) ([]synapse.PresignedPartURL, error)
	addPartFunc  func(ctx context.Context, uploadID string, partNumber int, partMD5Hex string) (*synapse.AddPartResponse, error)
	completeFunc func(ctx context.Context, uploadID string) (*synapse.MultipartStatus, error)
}

var _ Service = (*fakeService)(nil)

func (f *fakeService) StartMultipartUpload(ctx context.Context, req synapse.MultipartRequest, forceRestart bool) (*synapse.MultipartStatus, error) {
	if f.startFunc != nil {
		return f.startFunc(ctx, req, forceRestart)
	}
	return &synapse.MultipartStatus{UploadID: "u1", State: synapse.MultipartStateUploading}, nil
}

func (f *fakeService) BatchPresignedUploadURLs(ctx context.Context, uploadID string, partNumbers []int) ([]synapse.PresignedPartURL, error) {
	if f.batchFunc != nil {
		return f.batchFunc(ctx, uploadID, partNumbers)
	}
	return nil, nil
}

func (f *fakeService) AddPart(ctx context.Context, uploadID string, partNumber int, partMD5Hex string) (*synapse.AddPartResponse, error) {
	if f.addPartFunc != nil {
		return f.addPartFunc(ctx, uploadID, partNumber, partMD5Hex)
	}
	return &synapse.AddPartResponse{UploadID: uploadID, PartNumber: partNumber, AddPartState: synapse.AddPartStateSuccess}, nil
}

func (f *fakeService) CompleteMultipartUpload(ctx context.Context, uploadID string) (*synapse.MultipartStatus, error) {
	if f.completeFunc != nil {
		return f.completeFunc(ctx, uploadID)
	}
	return &synapse.MultipartStatus{UploadID: uploadID, State: synapse.MultipartStateCompleted}, nil
}

// partRecorder captures presigned part bodies by part number.
type partRecorder struct {
	mu     sync.Mutex
	bodies map[int][]byte
	status int
}

func newPartRecorder() *partRecorder {
	return &partRecorder{bodies: make(map[int][]byte), status: http.StatusOK}
}

func (p *partRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		var part int
		_, err := fmt.Sscanf(r.URL.Path, "/part/%d", &part)
		require.NoError(t, err)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		p.mu.Lock()
		p.bodies[part] = body
		p.mu.Unlock()

		w.WriteHeader(p.status)
	}
}

func (p *partRecorder) body(part int) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bodies[part]
}

func (p *partRecorder) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.bodies)
}

func md5Hex(data []byte) string {
	digest := md5.Sum(data) //nolint:gosec // content digest, not a security control
	return hex.EncodeToString(digest[:])
}

func TestUploader_Upload_SinglePart(t *testing.T) {
	content := []byte("hello world")
	fsys := fs.NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("/data/report.csv", content, 0o644))

	recorder := newPartRecorder()
	server := httptest.NewServer(recorder.handler(t))
	defer server.Close()

	var startCalls int
	svc := &fakeService{
		startFunc: func(ctx context.Context, req synapse.MultipartRequest, forceRestart bool) (*synapse.MultipartStatus, error) {
			startCalls++
			assert.False(t, forceRestart)
			assert.Equal(t, md5Hex(content), req.ContentMD5Hex)
			assert.Equal(t, "report.csv", req.FileName)
			assert.Equal(t, int64(MinPartSize), req.PartSizeBytes)
			assert.Equal(t, int64(len(content)), req.FileSizeBytes)
			require.NotNil(t, req.StorageLocationID)
			assert.Equal(t, int64(9), *req.StorageLocationID)

			state := "0"
			if startCalls > 1 {
				state = "1"
			}
			return &synapse.MultipartStatus{UploadID: "u1", State: synapse.MultipartStateUploading, PartsState: state}, nil
		},
		batchFunc: func(ctx context.Context, uploadID string, partNumbers []int) ([]synapse.PresignedPartURL, error) {
			assert.Equal(t, "u1", uploadID)
			assert.Equal(t, []int{1}, partNumbers)
			return []synapse.PresignedPartURL{{PartNumber: 1, UploadPresignedURL: server.URL + "/part/1"}}, nil
		},
		addPartFunc: func(ctx context.Context, uploadID string, partNumber int, partMD5Hex string) (*synapse.AddPartResponse, error) {
			assert.Equal(t, "u1", uploadID)
			assert.Equal(t, 1, partNumber)
			assert.Equal(t, md5Hex(content), partMD5Hex)
			return &synapse.AddPartResponse{AddPartState: synapse.AddPartStateSuccess}, nil
		},
		completeFunc: func(ctx context.Context, uploadID string) (*synapse.MultipartStatus, error) {
			return &synapse.MultipartStatus{
				UploadID:           uploadID,
				State:              synapse.MultipartStateCompleted,
				ResultFileHandleID: "4242",
			}, nil
		},
	}

	up := New(svc, WithFilesystem(fsys))
	handleID, err := up.Upload(context.Background(), "/data/report.csv", "text/csv", 9)
	require.NoError(t, err)
	assert.Equal(t, "4242", handleID)
	assert.Equal(t, content, recorder.body(1))
}

func TestUploader_Upload_ResumesMissingParts(t *testing.T) {
	// Three parts at the minimum part size; parts 1 and 3 are already present
	// on the platform, so only part 2 moves.
	size := 2*MinPartSize + 100
	content := make([]byte, size)
	for i := range content {
		content[i] = byte(i % 251)
	}
	fsys := fs.NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("/data/big.bin", content, 0o644))

	recorder := newPartRecorder()
	server := httptest.NewServer(recorder.handler(t))
	defer server.Close()

	secondChunk := content[MinPartSize : 2*MinPartSize]

	var startCalls int
	svc := &fakeService{
		startFunc: func(ctx context.Context, req synapse.MultipartRequest, forceRestart bool) (*synapse.MultipartStatus, error) {
			startCalls++
			assert.Nil(t, req.StorageLocationID, "default location is not sent")
			state := "101"
			if startCalls > 1 {
				state = "111"
			}
			return &synapse.MultipartStatus{UploadID: "u2", State: synapse.MultipartStateUploading, PartsState: state}, nil
		},
		batchFunc: func(ctx context.Context, uploadID string, partNumbers []int) ([]synapse.PresignedPartURL, error) {
			assert.Equal(t, []int{2}, partNumbers)
			return []synapse.PresignedPartURL{{PartNumber: 2, UploadPresignedURL: server.URL + "/part/2"}}, nil
		},
		addPartFunc: func(ctx context.Context, uploadID string, partNumber int, partMD5Hex string) (*synapse.AddPartResponse, error) {
			assert.Equal(t, 2, partNumber)
			assert.Equal(t, md5Hex(secondChunk), partMD5Hex)
			return &synapse.AddPartResponse{AddPartState: synapse.AddPartStateSuccess}, nil
		},
		completeFunc: func(ctx context.Context, uploadID string) (*synapse.MultipartStatus, error) {
			return &synapse.MultipartStatus{
				UploadID:           uploadID,
				State:              synapse.MultipartStateCompleted,
				ResultFileHandleID: "77",
			}, nil
		},
	}

	up := New(svc, WithFilesystem(fsys))
	handleID, err := up.Upload(context.Background(), "/data/big.bin", "application/octet-stream", 0)
	require.NoError(t, err)
	assert.Equal(t, "77", handleID)
	assert.Equal(t, 1, recorder.count(), "only the missing part moves")
	assert.Equal(t, secondChunk, recorder.body(2))
}

func TestUploader_Upload_CompletedSessionShortCircuits(t *testing.T) {
	fsys := fs.NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("/data/report.csv", []byte("hello world"), 0o644))

	var batchCalled, completeCalled bool
	svc := &fakeService{
		startFunc: func(ctx context.Context, req synapse.MultipartRequest, forceRestart bool) (*synapse.MultipartStatus, error) {
			return &synapse.MultipartStatus{
				UploadID:           "u3",
				State:              synapse.MultipartStateCompleted,
				ResultFileHandleID: "99",
			}, nil
		},
		batchFunc: func(ctx context.Context, uploadID string, partNumbers []int) ([]synapse.PresignedPartURL, error) {
			batchCalled = true
			return nil, nil
		},
		completeFunc: func(ctx context.Context, uploadID string) (*synapse.MultipartStatus, error) {
			completeCalled = true
			return &synapse.MultipartStatus{State: synapse.MultipartStateCompleted}, nil
		},
	}

	up := New(svc, WithFilesystem(fsys))
	handleID, err := up.Upload(context.Background(), "/data/report.csv", "text/csv", 0)
	require.NoError(t, err)
	assert.Equal(t, "99", handleID)
	assert.False(t, batchCalled, "no parts move for an already finished session")
	assert.False(t, completeCalled)
}

func TestUploader_Upload_RejectedPart(t *testing.T) {
	fsys := fs.NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("/data/report.csv", []byte("hello world"), 0o644))

	recorder := newPartRecorder()
	server := httptest.NewServer(recorder.handler(t))
	defer server.Close()

	svc := &fakeService{
		startFunc: func(ctx context.Context, req synapse.MultipartRequest, forceRestart bool) (*synapse.MultipartStatus, error) {
			return &synapse.MultipartStatus{UploadID: "u4", State: synapse.MultipartStateUploading, PartsState: "0"}, nil
		},
		batchFunc: func(ctx context.Context, uploadID string, partNumbers []int) ([]synapse.PresignedPartURL, error) {
			return []synapse.PresignedPartURL{{PartNumber: 1, UploadPresignedURL: server.URL + "/part/1"}}, nil
		},
		addPartFunc: func(ctx context.Context, uploadID string, partNumber int, partMD5Hex string) (*synapse.AddPartResponse, error) {
			return &synapse.AddPartResponse{
				AddPartState: synapse.AddPartStateFailed,
				ErrorMessage: "the part md5 does not match the stored bytes",
			}, nil
		},
	}

	up := New(svc, WithFilesystem(fsys))
	handleID, err := up.Upload(context.Background(), "/data/report.csv", "text/csv", 0)
	assert.Empty(t, handleID)
	require.Error(t, err)
	assert.True(t, synerrors.IsTransferFailed(err))
	assert.Contains(t, err.Error(), "the part md5 does not match the stored bytes")
}

func TestUploader_Upload_FailedPresignedPut(t *testing.T) {
	fsys := fs.NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("/data/report.csv", []byte("hello world"), 0o644))

	recorder := newPartRecorder()
	recorder.status = http.StatusInternalServerError
	server := httptest.NewServer(recorder.handler(t))
	defer server.Close()

	var partAdded bool
	svc := &fakeService{
		startFunc: func(ctx context.Context, req synapse.MultipartRequest, forceRestart bool) (*synapse.MultipartStatus, error) {
			return &synapse.MultipartStatus{UploadID: "u5", State: synapse.MultipartStateUploading, PartsState: "0"}, nil
		},
		batchFunc: func(ctx context.Context, uploadID string, partNumbers []int) ([]synapse.PresignedPartURL, error) {
			return []synapse.PresignedPartURL{{PartNumber: 1, UploadPresignedURL: server.URL + "/part/1"}}, nil
		},
		addPartFunc: func(ctx context.Context, uploadID string, partNumber int, partMD5Hex string) (*synapse.AddPartResponse, error) {
			partAdded = true
			return &synapse.AddPartResponse{AddPartState: synapse.AddPartStateSuccess}, nil
		},
	}

	up := New(svc, WithFilesystem(fsys))
	_, err := up.Upload(context.Background(), "/data/report.csv", "text/csv", 0)
	require.Error(t, err)
	assert.True(t, synerrors.IsTransferFailed(err))
	assert.Contains(t, err.Error(), "status 500")
	assert.False(t, partAdded, "a failed transfer is not registered")
}

func TestUploader_Upload_DetectsContentType(t *testing.T) {
	fsys := fs.NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("/data/notes.txt", []byte("plain text notes"), 0o644))

	svc := &fakeService{
		startFunc: func(ctx context.Context, req synapse.MultipartRequest, forceRestart bool) (*synapse.MultipartStatus, error) {
			assert.Contains(t, req.ContentType, "text/plain")
			return &synapse.MultipartStatus{
				UploadID:           "u6",
				State:              synapse.MultipartStateCompleted,
				ResultFileHandleID: "11",
			}, nil
		},
	}

	up := New(svc, WithFilesystem(fsys))
	handleID, err := up.Upload(context.Background(), "/data/notes.txt", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "11", handleID)
}

func TestUploader_Upload_MissingFile(t *testing.T) {
	up := New(&fakeService{}, WithFilesystem(fs.NewInMemoryFS()))
	_, err := up.Upload(context.Background(), "/data/absent.bin", "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/data/absent.bin")
}

func TestPartSizeFor(t *testing.T) {
	tests := []struct {
		name       string
		fileSize   int64
		configured int64
		want       int64
		wantErr    bool
	}{
		{
			name:     "small file floors at the minimum",
			fileSize: 11,
			want:     MinPartSize,
		},
		{
			name:     "large file spreads across the part cap",
			fileSize: 100 * 1024 * 1024 * 1024,
			want:     10737419,
		},
		{
			name:       "configured size passes through",
			fileSize:   11,
			configured: 8 * 1024 * 1024,
			want:       8 * 1024 * 1024,
		},
		{
			name:       "configured size below the minimum",
			fileSize:   11,
			configured: 1024,
			wantErr:    true,
		},
		{
			name:       "configured size needs too many parts",
			fileSize:   60 * 1024 * 1024 * 1024,
			configured: MinPartSize,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := partSizeFor(tt.fileSize, tt.configured)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, synerrors.IsInvalidArgument(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPartCount(t *testing.T) {
	assert.Equal(t, 1, partCount(0, MinPartSize))
	assert.Equal(t, 1, partCount(MinPartSize, MinPartSize))
	assert.Equal(t, 2, partCount(MinPartSize+1, MinPartSize))
	assert.Equal(t, 3, partCount(2*MinPartSize+100, MinPartSize))
}

func TestPendingParts(t *testing.T) {
	tests := []struct {
		name       string
		partsState string
		parts      int
		want       []int
	}{
		{"no recorded state means all pending", "", 3, []int{1, 2, 3}},
		{"only unverified parts are pending", "101", 3, []int{2}},
		{"all verified", "111", 3, nil},
		{"short state counts the tail as pending", "1", 3, []int{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pendingParts(tt.partsState, tt.parts)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
