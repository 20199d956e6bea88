package multipart

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // MD5 is the platform's content digest algorithm
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/fileref"
	"github.com/sage-bionetworks/synapse-go/fs"
	"github.com/sage-bionetworks/synapse-go/synapse"
	"github.com/sage-bionetworks/synapse-go/upload"
)

const (
	// MinPartSize is the smallest part the platform accepts.
	MinPartSize = 5 * 1024 * 1024

	// MaxParts is the most parts a single session may hold.
	MaxParts = 10000

	// maxRounds bounds how many times missing parts are re-uploaded before
	// the session is declared failed.
	maxRounds = 7

	// defaultConcurrency is how many parts are transferred at once.
	defaultConcurrency = 8
)

// Service is the platform side of a multipart upload session.
// It is implemented by the synapse client.
type Service interface {
	// StartMultipartUpload starts or resumes a session.
	StartMultipartUpload(ctx context.Context, req synapse.MultipartRequest, forceRestart bool) (*synapse.MultipartStatus, error)

	// BatchPresignedUploadURLs fetches presigned destinations for parts.
	BatchPresignedUploadURLs(ctx context.Context, uploadID string, partNumbers []int) ([]synapse.PresignedPartURL, error)

	// AddPart registers an uploaded part with the session.
	AddPart(ctx context.Context, uploadID string, partNumber int, partMD5Hex string) (*synapse.AddPartResponse, error)

	// CompleteMultipartUpload finalizes the session.
	CompleteMultipartUpload(ctx context.Context, uploadID string) (*synapse.MultipartStatus, error)
}

var _ Service = (*synapse.Client)(nil)

// Uploader transfers local files into platform-managed storage through
// multipart upload sessions.
//
// Thread Safety: This struct is thread-safe for concurrent use. All fields
// are immutable after construction.
type Uploader struct {
	// svc is the platform session service
	svc Service

	// http executes presigned part transfers
	http *http.Client

	// fs reads upload content
	fs fs.Filesystem

	// logger is used for structured logging of operations
	logger *slog.Logger

	// partSize overrides the computed part size when non-zero
	partSize int64

	// concurrency is how many parts are transferred at once
	concurrency int
}

var _ upload.MultipartUploader = (*Uploader)(nil)

// New creates a multipart Uploader on top of the given platform service.
func New(svc Service, opts ...Option) *Uploader {
	options := defaultOptions()
	applyOptions(options, opts)

	fsys := options.filesystem
	if fsys == nil {
		fsys = fs.NewOSFS("/")
	}

	return &Uploader{
		svc:         svc,
		http:        options.httpClient,
		fs:          fsys,
		logger:      options.logger,
		partSize:    options.partSize,
		concurrency: options.concurrency,
	}
}

// Upload stores the file at path and returns the id of the issued file
// handle. The call blocks until the session completes. An interrupted upload
// of the same content resumes from the parts the platform already holds.
// A storageLocationID of 0 selects the platform default location.
func (u *Uploader) Upload(ctx context.Context, path, contentType string, storageLocationID int64) (string, error) {
	const op = "multipartUpload"

	size, err := fileref.FileSize(u.fs, path)
	if err != nil {
		return "", synerrors.NewPathError(op, path, err)
	}
	md5sum, err := fileref.MD5Sum(u.fs, path)
	if err != nil {
		return "", synerrors.NewPathError(op, path, err)
	}
	if contentType == "" {
		contentType = fileref.DetectContentType(u.fs, path)
	}

	partSize, err := partSizeFor(size, u.partSize)
	if err != nil {
		return "", err
	}
	parts := partCount(size, partSize)

	req := synapse.MultipartRequest{
		ContentMD5Hex:   md5sum,
		FileName:        filepath.Base(path),
		GeneratePreview: true,
		ContentType:     contentType,
		PartSizeBytes:   partSize,
		FileSizeBytes:   size,
	}
	if storageLocationID != 0 {
		req.StorageLocationID = &storageLocationID
	}

	status, err := u.svc.StartMultipartUpload(ctx, req, false)
	if err != nil {
		return "", err
	}

	if u.logger != nil {
		u.logger.InfoContext(ctx, "multipart upload session",
			"upload_id", status.UploadID,
			"path", path,
			"size", size,
			"parts", parts,
			"state", status.State,
		)
	}

	for round := 0; status.State != synapse.MultipartStateCompleted && round < maxRounds; round++ {
		pending := pendingParts(status.PartsState, parts)
		if len(pending) == 0 {
			break
		}
		if err := u.uploadParts(ctx, path, status.UploadID, pending, partSize, size); err != nil {
			return "", err
		}

		// Refresh the session to pick up the server's view of the parts.
		status, err = u.svc.StartMultipartUpload(ctx, req, false)
		if err != nil {
			return "", err
		}
	}

	if status.State != synapse.MultipartStateCompleted {
		if remaining := pendingParts(status.PartsState, parts); len(remaining) > 0 {
			return "", synerrors.NewPathError(op, path, synerrors.ErrTransferFailed).
				WithMessage(fmt.Sprintf("%d of %d parts still missing after %d attempts", len(remaining), parts, maxRounds))
		}
		status, err = u.svc.CompleteMultipartUpload(ctx, status.UploadID)
		if err != nil {
			return "", err
		}
	}
	if status.State != synapse.MultipartStateCompleted {
		return "", synerrors.NewPathError(op, path, synerrors.ErrTransferFailed).
			WithMessage(fmt.Sprintf("session %s did not complete", status.UploadID))
	}

	return status.ResultFileHandleID, nil
}

// uploadParts transfers the given parts concurrently, bounded by the
// configured concurrency.
func (u *Uploader) uploadParts(ctx context.Context, path, uploadID string, partNumbers []int, partSize, fileSize int64) error {
	presigned, err := u.svc.BatchPresignedUploadURLs(ctx, uploadID, partNumbers)
	if err != nil {
		return err
	}

	type partResult struct {
		partNumber int
		err        error
	}
	results := make(chan partResult, len(presigned))

	concurrency := u.concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for _, part := range presigned {
		wg.Add(1)
		go func(part synapse.PresignedPartURL) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results <- partResult{
				partNumber: part.PartNumber,
				err:        u.uploadPart(ctx, path, uploadID, part, partSize, fileSize),
			}
		}(part)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		if result.err != nil {
			return result.err
		}
	}
	return nil
}

// uploadPart reads one part, puts it to its presigned destination, and
// registers it with the session.
func (u *Uploader) uploadPart(ctx context.Context, path, uploadID string, part synapse.PresignedPartURL, partSize, fileSize int64) error {
	const op = "uploadPart"

	chunk, err := u.readPart(path, part.PartNumber, partSize, fileSize)
	if err != nil {
		return synerrors.NewPathError(op, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, part.UploadPresignedURL, bytes.NewReader(chunk))
	if err != nil {
		return synerrors.NewPathError(op, path, err)
	}
	resp, err := u.http.Do(req)
	if err != nil {
		return synerrors.NewPathError(op, path, fmt.Errorf("part %d: %w", part.PartNumber, err))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode >= 400 {
		return synerrors.NewPathError(op, path, synerrors.ErrTransferFailed).
			WithMessage(fmt.Sprintf("part %d upload returned status %d", part.PartNumber, resp.StatusCode))
	}

	digest := md5.Sum(chunk) //nolint:gosec // content digest, not a security control
	added, err := u.svc.AddPart(ctx, uploadID, part.PartNumber, hex.EncodeToString(digest[:]))
	if err != nil {
		return err
	}
	if added.AddPartState != synapse.AddPartStateSuccess {
		return synerrors.NewPathError(op, path, synerrors.ErrTransferFailed).
			WithMessage(fmt.Sprintf("part %d was not accepted: %s", part.PartNumber, added.ErrorMessage))
	}

	if u.logger != nil {
		u.logger.DebugContext(ctx, "part uploaded",
			"upload_id", uploadID,
			"part", part.PartNumber,
			"bytes", len(chunk),
		)
	}
	return nil
}

// readPart reads the bytes of one 1-based part. The file is opened per part
// so concurrent reads do not share a file position.
func (u *Uploader) readPart(path string, partNumber int, partSize, fileSize int64) ([]byte, error) {
	f, err := u.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	offset := int64(partNumber-1) * partSize
	length := partSize
	if offset+length > fileSize {
		length = fileSize - offset
	}
	if length <= 0 {
		return []byte{}, nil
	}

	buf := make([]byte, length)
	n, err := f.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if int64(n) != length {
		return nil, io.ErrUnexpectedEOF
	}
	return buf, nil
}

// partSizeFor picks the part size for a file, preferring the configured size
// when non-zero. The computed size is the smallest that fits the file in
// MaxParts parts, floored at MinPartSize.
func partSizeFor(fileSize, configured int64) (int64, error) {
	partSize := configured
	if partSize == 0 {
		partSize = (fileSize + MaxParts - 1) / MaxParts
		if partSize < MinPartSize {
			partSize = MinPartSize
		}
	}
	if partSize < MinPartSize {
		return 0, synerrors.NewError("partSize", synerrors.ErrInvalidArgument).
			WithMessage(fmt.Sprintf("part size %d is below the minimum of %d bytes", partSize, MinPartSize))
	}
	if partCount(fileSize, partSize) > MaxParts {
		return 0, synerrors.NewError("partSize", synerrors.ErrInvalidArgument).
			WithMessage(fmt.Sprintf("a %d byte file does not fit in %d parts of %d bytes", fileSize, MaxParts, partSize))
	}
	return partSize, nil
}

// partCount returns the number of parts for a file. Empty files still occupy
// one part.
func partCount(fileSize, partSize int64) int {
	if fileSize == 0 {
		return 1
	}
	return int((fileSize + partSize - 1) / partSize)
}

// pendingParts lists the 1-based part numbers the session has not verified
// yet. Parts beyond the recorded state string count as pending.
func pendingParts(partsState string, parts int) []int {
	pending := make([]int, 0, parts)
	for i := 1; i <= parts; i++ {
		if i > len(partsState) || partsState[i-1] != '1' {
			pending = append(pending, i)
		}
	}
	return pending
}
