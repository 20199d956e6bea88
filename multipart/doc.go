// Package multipart uploads files into platform-managed storage in parts,
// with concurrent part transfers and session resumption.
//
// A file is split into parts of at least 5 MiB, each part is PUT to a
// presigned URL and registered with the platform, and completing the session
// yields the file handle id. Sessions are keyed by content digest and
// metadata on the platform side, so re-uploading an interrupted file resumes
// from the parts already present instead of starting over.
//
// Example usage:
//
//	up := multipart.New(client,
//	    multipart.WithLogger(logger),
//	    multipart.WithConcurrency(8),
//	)
//	handleID, err := up.Upload(ctx, "/data/results.csv", "text/csv", 0)
//
// The Uploader satisfies the upload package's MultipartUploader interface.
package multipart
