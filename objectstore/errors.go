// Package objectstore maps store errors onto the client error taxonomy.
package objectstore

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
)

// S3 error codes with a specific failure class.
const (
	codeNoSuchBucket          = "NoSuchBucket"
	codeAccessDenied          = "AccessDenied"
	codeInvalidAccessKeyID    = "InvalidAccessKeyId"
	codeSignatureDoesNotMatch = "SignatureDoesNotMatch"
	codeExpiredToken          = "ExpiredToken"
)

// classify maps a store error onto the client error taxonomy. Both store
// clients surface S3 error codes, through smithy.APIError and
// minio.ErrorResponse respectively.
func classify(op, bucket, key string, err error) error {
	dest := bucket + "/" + key

	switch errorCode(err) {
	case codeNoSuchBucket:
		return synerrors.NewDestinationError(op, dest, synerrors.ErrNotFound).
			WithMessage(fmt.Sprintf("bucket %q does not exist", bucket))
	case codeAccessDenied, codeInvalidAccessKeyID, codeSignatureDoesNotMatch, codeExpiredToken:
		return synerrors.NewDestinationError(op, dest, synerrors.ErrInvalidCredentials).
			WithMessage(err.Error())
	}
	return synerrors.NewDestinationError(op, dest, synerrors.ErrTransferFailed).
		WithMessage(err.Error())
}

// errorCode extracts the S3 error code from a store error, or "" when the
// error carries none.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		return minioErr.Code
	}
	return ""
}
