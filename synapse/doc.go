// Package synapse provides a client for the Synapse REST API, covering the
// platform operations uploads depend on: resolving a container's upload
// destination, issuing and fetching file handles, and driving multipart
// upload sessions.
//
// The client speaks to two service endpoints. Entity and metadata operations
// go to the repository endpoint; file handle and multipart operations go to
// the file endpoint. Both default to the public production services.
//
// Example usage:
//
//	client := synapse.New(token, synapse.WithLogger(logger))
//	dest, err := client.ResolveDestination(ctx, "syn123")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The client satisfies the upload package's DestinationResolver and
// FileHandleService interfaces, so it plugs directly into an upload.Uploader.
//
// All Client methods are safe for concurrent use by multiple goroutines.
package synapse
