// Package sftp copies local files to SFTP endpoints. It implements the
// SFTPTransfer collaborator of the upload package: password-authenticated
// SSH, remote directory creation, a streaming copy, and composition of the
// URL the file ends up at.
package sftp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"path"
	"path/filepath"
	"time"

	gosftp "github.com/pkg/sftp"
	gossh "golang.org/x/crypto/ssh"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/fs"
	"github.com/sage-bionetworks/synapse-go/upload"
	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

// defaultPort is the SSH port used when the destination URL names none.
const defaultPort = "22"

// remote is the subset of SFTP operations Upload performs against a server.
type remote interface {
	// MkdirAll creates the remote directory along with any necessary parents.
	MkdirAll(path string) error

	// Create creates or truncates the named remote file for writing.
	Create(path string) (io.WriteCloser, error)

	// Close tears down the SFTP session and its SSH connection.
	Close() error
}

// dialFunc opens an SFTP session on addr.
type dialFunc func(ctx context.Context, addr string, config *gossh.ClientConfig) (remote, error)

// Uploader copies local files to SFTP endpoints using password
// authentication.
//
// Thread Safety: This struct is thread-safe for concurrent use. All fields
// are immutable after construction; every Upload call dials its own session.
type Uploader struct {
	// fs reads upload content
	fs fs.Filesystem

	// logger is used for structured logging of operations
	logger *slog.Logger

	// hostKey verifies server host keys during the SSH handshake
	hostKey gossh.HostKeyCallback

	// timeout bounds the TCP dial and SSH handshake
	timeout time.Duration

	// dial opens SFTP sessions; tests substitute an in-memory remote
	dial dialFunc
}

var _ upload.SFTPTransfer = (*Uploader)(nil)

// New creates an SFTP Uploader.
func New(opts ...Option) *Uploader {
	options := defaultOptions()
	applyOptions(options, opts)

	fsys := options.filesystem
	if fsys == nil {
		fsys = fs.NewOSFS("/")
	}
	hostKey := options.hostKeyCallback
	if hostKey == nil {
		hostKey = gossh.InsecureIgnoreHostKey() //nolint:gosec // opt-in verification via WithHostKeyCallback
	}

	return &Uploader{
		fs:      fsys,
		logger:  options.logger,
		hostKey: hostKey,
		timeout: options.timeout,
		dial:    dialRemote,
	}
}

// Upload copies the file at localPath to the directory named by the
// destination URL and returns the URL of the uploaded file. The destination
// URL arrives percent-decoded; the returned URL is re-encoded. Missing remote
// directories are created.
func (u *Uploader) Upload(ctx context.Context, localPath, destURL string, creds uploadtypes.Credentials) (string, error) {
	const op = "sftpUpload"

	dest, err := url.Parse(destURL)
	if err != nil {
		return "", synerrors.NewDestinationError(op, destURL, synerrors.ErrInvalidArgument).
			WithMessage(fmt.Sprintf("cannot parse destination URL: %v", err))
	}
	if dest.Scheme != "sftp" {
		return "", synerrors.NewDestinationError(op, destURL, synerrors.ErrInvalidArgument).
			WithMessage(fmt.Sprintf("expected an sftp URL, got scheme %q", dest.Scheme))
	}
	host := dest.Hostname()
	if host == "" {
		return "", synerrors.NewDestinationError(op, destURL, synerrors.ErrInvalidArgument).
			WithMessage("destination URL names no host")
	}
	port := dest.Port()
	if port == "" {
		port = defaultPort
	}
	addr := net.JoinHostPort(host, port)

	config := &gossh.ClientConfig{
		User:            creds.Username,
		Auth:            []gossh.AuthMethod{gossh.Password(creds.Password)},
		HostKeyCallback: u.hostKey,
		Timeout:         u.timeout,
	}

	session, err := u.dial(ctx, addr, config)
	if err != nil {
		return "", synerrors.NewDestinationError(op, addr, synerrors.ErrTransferFailed).
			WithMessage(fmt.Sprintf("connect as %q: %v", creds.Username, err))
	}
	defer func() { _ = session.Close() }()

	remoteDir := dest.Path
	if remoteDir != "" {
		if err := session.MkdirAll(remoteDir); err != nil {
			return "", synerrors.NewDestinationError(op, addr, synerrors.ErrTransferFailed).
				WithMessage(fmt.Sprintf("create remote directory %q: %v", remoteDir, err))
		}
	}

	name := filepath.Base(localPath)
	remotePath := path.Join(remoteDir, name)

	src, err := u.fs.Open(localPath)
	if err != nil {
		return "", synerrors.NewPathError(op, localPath, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := session.Create(remotePath)
	if err != nil {
		return "", synerrors.NewDestinationError(op, addr, synerrors.ErrTransferFailed).
			WithMessage(fmt.Sprintf("create remote file %q: %v", remotePath, err))
	}
	written, err := io.Copy(dst, src)
	if err != nil {
		_ = dst.Close()
		return "", synerrors.NewPathError(op, localPath, synerrors.ErrTransferFailed).
			WithMessage(fmt.Sprintf("copy to %q failed after %d bytes: %v", remotePath, written, err))
	}
	// Closing flushes outstanding writes, so a close failure fails the upload.
	if err := dst.Close(); err != nil {
		return "", synerrors.NewPathError(op, localPath, synerrors.ErrTransferFailed).
			WithMessage(fmt.Sprintf("finish remote file %q: %v", remotePath, err))
	}

	if u.logger != nil {
		u.logger.InfoContext(ctx, "sftp upload complete",
			"host", addr,
			"remote_path", remotePath,
			"bytes", written,
		)
	}

	return uploadedURL(dest, name), nil
}

// uploadedURL composes the URL of the uploaded file: the destination's scheme
// and host with the file name joined onto the re-encoded path.
func uploadedURL(dest *url.URL, name string) string {
	uploaded := *dest
	uploaded.Path = path.Join(dest.Path, name)
	// The path was rewritten, so any pre-encoded form no longer applies.
	uploaded.RawPath = ""
	return uploaded.String()
}

// dialRemote opens a real SFTP session: TCP dial under ctx, SSH handshake,
// SFTP subsystem on top.
func dialRemote(ctx context.Context, addr string, config *gossh.ClientConfig) (remote, error) {
	dialer := net.Dialer{Timeout: config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	sshConn, chans, reqs, err := gossh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	sshClient := gossh.NewClient(sshConn, chans, reqs)
	sftpClient, err := gosftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, err
	}
	return &sshRemote{ssh: sshClient, sftp: sftpClient}, nil
}

// sshRemote adapts a live SFTP client to the remote interface.
type sshRemote struct {
	ssh  *gossh.Client
	sftp *gosftp.Client
}

func (r *sshRemote) MkdirAll(path string) error {
	return r.sftp.MkdirAll(path)
}

func (r *sshRemote) Create(path string) (io.WriteCloser, error) {
	return r.sftp.Create(path)
}

func (r *sshRemote) Close() error {
	err := r.sftp.Close()
	if cerr := r.ssh.Close(); err == nil {
		err = cerr
	}
	return err
}
