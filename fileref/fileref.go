// Package fileref provides checksum and locator utilities for upload references:
// digest computation, URL vs. path classification, and conversion between local
// paths and file:// URLs.
package fileref

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// IsURL reports whether s parses as a URL with an addressable target. A bare
// filesystem path is not a URL; a file: URL with a path is.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme == "file" && (u.Path != "" || u.Opaque != "") {
		return true
	}
	return u.Scheme != "" && u.Host != ""
}

// AsFileURL returns s unchanged when it is already a URL, otherwise a file://
// URL referencing the local path. Relative paths are made absolute first so the
// URL has an unambiguous path component.
func AsFileURL(s string) string {
	if IsURL(s) {
		return s
	}
	p := s
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String()
}

// FileURLToPath converts a file URL back to a local filesystem path.
func FileURLToPath(rawurl string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", fmt.Errorf("fileref: parse %q: %w", rawurl, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("fileref: %q is not a file URL", rawurl)
	}
	if u.Opaque != "" {
		p, err := url.PathUnescape(u.Opaque)
		if err != nil {
			return "", fmt.Errorf("fileref: unescape %q: %w", rawurl, err)
		}
		return p, nil
	}
	return u.Path, nil
}

// ExpandPath expands a leading ~ and any environment variables in path.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	return os.ExpandEnv(path)
}
