package fileref

import (
	"crypto/md5" //nolint:gosec // MD5 is the platform's content digest algorithm
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sage-bionetworks/synapse-go/fs"
)

// DefaultContentType is the content type used when detection fails.
const DefaultContentType = "application/octet-stream"

// MD5Sum computes the hex-encoded MD5 digest of the named file.
func MD5Sum(fsys fs.Filesystem, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", fmt.Errorf("fileref: open %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := md5.New() //nolint:gosec // content digest, not a security control
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("fileref: digest %q: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FileSize returns the size in bytes of the named file.
func FileSize(fsys fs.Filesystem, path string) (int64, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("fileref: stat %q: %w", path, err)
	}
	return info.Size(), nil
}

// DetectContentType determines the content type using mimetype where possible,
// falling back to extension-based lookup when the path is not a readable local
// file.
func DetectContentType(fsys fs.Filesystem, path string) string {
	info, err := fsys.Stat(path)
	if err != nil || info.IsDir() {
		return ContentTypeForName(path)
	}

	file, err := fsys.Open(path)
	if err != nil {
		return ContentTypeForName(path)
	}
	defer func() { _ = file.Close() }()

	// Read first 512 bytes for content detection
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if n > 0 {
		if mt := mimetype.Detect(buf[:n]); mt != nil {
			return mt.String()
		}
	}

	return ContentTypeForName(path)
}

// ContentTypeForName determines the content type from the name's extension
// alone, for content that cannot be read locally.
func ContentTypeForName(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}

	return DefaultContentType
}
