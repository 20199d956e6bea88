package synapse

import (
	"context"
	"fmt"
	"net/url"
)

// Multipart upload session states.
const (
	// MultipartStateUploading marks a session still accepting parts.
	MultipartStateUploading = "UPLOADING"

	// MultipartStateCompleted marks a finished session whose result handle is
	// available.
	MultipartStateCompleted = "COMPLETED"
)

// Part registration outcomes.
const (
	// AddPartStateSuccess marks a part accepted by the platform.
	AddPartStateSuccess = "ADD_SUCCESS"

	// AddPartStateFailed marks a part the platform rejected, usually on a
	// digest mismatch with the stored bytes.
	AddPartStateFailed = "ADD_FAILED"
)

// MultipartRequest describes a multipart upload session. Identical requests
// resume the matching open session instead of starting a new one.
type MultipartRequest struct {
	// ContentMD5Hex is the hex-encoded MD5 digest of the whole file.
	ContentMD5Hex string `json:"contentMD5Hex"`

	// FileName is the name recorded for the uploaded file.
	FileName string `json:"fileName"`

	// GeneratePreview asks the platform to generate a preview.
	GeneratePreview bool `json:"generatePreview"`

	// ContentType is the MIME type recorded for the uploaded file.
	ContentType string `json:"contentType,omitempty"`

	// PartSizeBytes is the size of each part except possibly the last.
	PartSizeBytes int64 `json:"partSizeBytes"`

	// FileSizeBytes is the total file size.
	FileSizeBytes int64 `json:"fileSizeBytes"`

	// StorageLocationID selects where the file lands; nil selects the
	// platform default location.
	StorageLocationID *int64 `json:"storageLocationId,omitempty"`
}

// MultipartStatus is the platform's view of a multipart upload session.
type MultipartStatus struct {
	// UploadID identifies the session.
	UploadID string `json:"uploadId"`

	// State is the session state, one of the MultipartState constants.
	State string `json:"state"`

	// PartsState encodes per-part completion as a string of '0' and '1'
	// runes, one per part in order.
	PartsState string `json:"partsState"`

	// ResultFileHandleID is the issued handle id once the session completes.
	ResultFileHandleID string `json:"resultFileHandleId"`
}

// PresignedPartURL grants a short-lived destination for one part's bytes.
type PresignedPartURL struct {
	// PartNumber is the 1-based part the URL accepts.
	PartNumber int `json:"partNumber"`

	// UploadPresignedURL receives the part's bytes via HTTP PUT.
	UploadPresignedURL string `json:"uploadPresignedUrl"`
}

// AddPartResponse reports the platform's verdict on one uploaded part.
type AddPartResponse struct {
	UploadID     string `json:"uploadId"`
	PartNumber   int    `json:"partNumber"`
	AddPartState string `json:"addPartState"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// StartMultipartUpload starts or resumes the multipart session described by
// req. The returned status carries the parts already present when resuming.
// forceRestart abandons any matching open session and starts fresh.
func (c *Client) StartMultipartUpload(ctx context.Context, req MultipartRequest, forceRestart bool) (*MultipartStatus, error) {
	var status MultipartStatus
	path := fmt.Sprintf("/file/multipart?forceRestart=%t", forceRestart)
	if err := c.postJSON(ctx, c.fileEndpoint, path, req, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// BatchPresignedUploadURLs fetches presigned destinations for the given part
// numbers of an open session.
func (c *Client) BatchPresignedUploadURLs(ctx context.Context, uploadID string, partNumbers []int) ([]PresignedPartURL, error) {
	req := struct {
		UploadID    string `json:"uploadId"`
		PartNumbers []int  `json:"partNumbers"`
	}{UploadID: uploadID, PartNumbers: partNumbers}

	var resp struct {
		PartPresignedURLs []PresignedPartURL `json:"partPresignedUrls"`
	}
	path := "/file/multipart/" + url.PathEscape(uploadID) + "/presigned/url/batch"
	if err := c.postJSON(ctx, c.fileEndpoint, path, req, &resp); err != nil {
		return nil, err
	}
	return resp.PartPresignedURLs, nil
}

// AddPart registers an uploaded part with the session, declaring its digest
// for server-side verification.
func (c *Client) AddPart(ctx context.Context, uploadID string, partNumber int, partMD5Hex string) (*AddPartResponse, error) {
	var resp AddPartResponse
	path := fmt.Sprintf("/file/multipart/%s/add/%d?partMD5Hex=%s",
		url.PathEscape(uploadID), partNumber, url.QueryEscape(partMD5Hex))
	if err := c.putJSON(ctx, c.fileEndpoint, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompleteMultipartUpload finalizes the session. The platform verifies all
// parts are present before issuing the result handle.
func (c *Client) CompleteMultipartUpload(ctx context.Context, uploadID string) (*MultipartStatus, error) {
	var status MultipartStatus
	path := "/file/multipart/" + url.PathEscape(uploadID) + "/complete"
	if err := c.putJSON(ctx, c.fileEndpoint, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
