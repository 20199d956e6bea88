package synapse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/fs"
)

// Version is the client version reported to the platform.
const Version = "0.1.0"

// Client is a Synapse REST API client.
//
// Thread Safety: This struct is thread-safe for concurrent use.
// All fields are immutable after construction and http.Client is safe for
// concurrent use.
type Client struct {
	// repoEndpoint is the base URL of the repository service
	repoEndpoint string

	// fileEndpoint is the base URL of the file service
	fileEndpoint string

	// authToken is the bearer token sent with each request, empty for
	// anonymous access
	authToken string

	// http executes the REST calls
	http *http.Client

	// fs reads local file content when handle issuance requires it
	fs fs.Filesystem

	// logger is used for structured logging of operations
	logger *slog.Logger
}

// New creates a new Synapse client authenticated with the given personal
// access token. An empty token yields an anonymous client; most write
// operations will be rejected by the platform.
//
// Example usage:
//
//	client := synapse.New(token,
//	    synapse.WithLogger(slog.Default()),
//	)
func New(authToken string, opts ...Option) *Client {
	options := defaultOptions()
	applyOptions(options, opts)

	fsys := options.filesystem
	if fsys == nil {
		fsys = fs.NewOSFS("/")
	}

	return &Client{
		repoEndpoint: strings.TrimRight(options.repoEndpoint, "/"),
		fileEndpoint: strings.TrimRight(options.fileEndpoint, "/"),
		authToken:    strings.TrimSpace(authToken),
		http:         options.httpClient,
		fs:           fsys,
		logger:       options.logger,
	}
}

// getJSON executes a GET against endpoint+path and decodes the JSON response
// into out.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint+path, nil, out)
}

// postJSON executes a POST with a JSON body against endpoint+path and decodes
// the JSON response into out.
func (c *Client) postJSON(ctx context.Context, endpoint, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, endpoint+path, in, out)
}

// putJSON executes a PUT against endpoint+path and decodes the JSON response
// into out. A nil in sends no body.
func (c *Client) putJSON(ctx context.Context, endpoint, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, endpoint+path, in, out)
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("synapse: marshal %s %s: %w", method, url, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("synapse: create request %s %s: %w", method, url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "synapse-go/"+Version)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "synapse request", "method", method, "url", url)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("synapse: %s %s: %w", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("synapse: %s %s: %w", method, url, responseError(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("synapse: decode %s %s response: %w", method, url, err)
	}
	return nil
}

// responseError converts an API error response into an error carrying the
// platform's reason. Authorization and missing-resource failures map onto the
// matching sentinels for errors.Is checks.
func responseError(resp *http.Response) error {
	var payload struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)

	reason := strings.TrimSpace(payload.Reason)
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", reason, synerrors.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", reason, synerrors.ErrNotFound)
	default:
		return fmt.Errorf("%s (status %d)", reason, resp.StatusCode)
	}
}
