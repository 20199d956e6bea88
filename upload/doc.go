// Package upload implements the upload-routing core of the Synapse client.
// Given a local file or an already-external resource, it decides where the
// bytes must physically go, delegates the transfer to the matching
// collaborator, and returns the canonical file handle describing the stored
// object.
//
// The hard work lives in destination resolution and integrity verification:
// the destination resolved for a parent container selects one of four upload
// strategies (reference in place, platform-managed multipart, SFTP, or
// client-authenticated object store), caller-supplied digests are
// cross-checked against freshly computed ones for local content, and every
// strategy produces the same uniform result record.
//
// All external effects go through the collaborator interfaces carried in
// Dependencies, so the core can be exercised end to end with fakes.
//
// Example usage:
//
//	up, err := upload.New(upload.Dependencies{
//	    Resolver:    client,
//	    Handles:     client,
//	    Multipart:   multipartEngine,
//	    Credentials: credentialFile,
//	    Cache:       localCache,
//	})
//	if err != nil {
//	    return err
//	}
//
//	handle, err := up.Upload(ctx, "syn12345", uploadtypes.UploadRequest{
//	    Path:         "/data/results.csv",
//	    SynapseStore: true,
//	})
package upload
