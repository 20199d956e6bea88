// Package cache records which local files correspond to which platform file
// handles. Each handle owns a small JSON map file of local path to file
// modification time; a later download of the same handle can then reuse the
// local copy instead of fetching bytes that are already on disk.
//
// Map files are sharded under the cache root by the numeric handle id:
// <root>/<id mod 1000>/<id>/cachemap.json.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/adrg/xdg"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/fs"
	"github.com/sage-bionetworks/synapse-go/upload"
)

const (
	// cacheMapName is the per-handle map file name.
	cacheMapName = "cachemap.json"

	// shards is the modulus for the first directory level.
	shards = 1000

	// timeFormat is the modification time format stored in map files,
	// millisecond precision in UTC.
	timeFormat = "2006-01-02T15:04:05.000Z"
)

// Cache is a file-backed index of local paths by file handle id.
//
// Thread Safety: This struct is thread-safe for concurrent use within a
// single process. Map file updates are read-merge-write under a mutex;
// concurrent writers in other processes are not coordinated.
type Cache struct {
	// fs is the filesystem the cache lives on
	fs fs.Filesystem

	// logger is used for structured logging of operations
	logger *slog.Logger

	// root is the cache root directory
	root string

	mu sync.Mutex
}

var _ upload.Cache = (*Cache)(nil)

// New creates a Cache. The default root is a "synapse" directory under the
// user cache directory.
func New(opts ...Option) *Cache {
	options := defaultOptions()
	applyOptions(options, opts)

	fsys := options.filesystem
	if fsys == nil {
		fsys = fs.NewOSFS("/")
	}
	root := options.root
	if root == "" {
		root = filepath.Join(xdg.CacheHome, "synapse")
	}

	return &Cache{
		fs:     fsys,
		logger: options.logger,
		root:   root,
	}
}

// Add records that the file at path holds the content of the given handle.
// The path's current modification time is stored with it, so a changed file
// no longer counts as a cached copy.
func (c *Cache) Add(fileHandleID, path string) error {
	const op = "cacheAdd"

	mapPath, err := c.mapPath(fileHandleID)
	if err != nil {
		return err
	}
	info, err := c.fs.Stat(path)
	if err != nil {
		return synerrors.NewPathError(op, path, err)
	}
	modified := info.ModTime().UTC().Format(timeFormat)

	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.readMap(mapPath)
	entries[filepath.Clean(path)] = modified

	if err := c.fs.MkdirAll(filepath.Dir(mapPath), 0o755); err != nil {
		return synerrors.NewPathError(op, mapPath, err)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return synerrors.NewPathError(op, mapPath, err)
	}
	if err := c.fs.WriteFile(mapPath, data, 0o644); err != nil {
		return synerrors.NewPathError(op, mapPath, err)
	}
	return nil
}

// Entries returns the recorded paths for a handle with their stored
// modification times. A handle with no map file has no entries.
func (c *Cache) Entries(fileHandleID string) (map[string]time.Time, error) {
	mapPath, err := c.mapPath(fileHandleID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	raw := c.readMap(mapPath)
	c.mu.Unlock()

	entries := make(map[string]time.Time, len(raw))
	for path, value := range raw {
		modified, err := time.Parse(timeFormat, value)
		if err != nil {
			// Unreadable timestamps never match a real file.
			continue
		}
		entries[path] = modified
	}
	return entries, nil
}

// mapPath returns the map file path for a handle. Handle ids are numeric;
// the first directory level shards on id mod 1000.
func (c *Cache) mapPath(fileHandleID string) (string, error) {
	id, err := strconv.ParseInt(fileHandleID, 10, 64)
	if err != nil {
		return "", synerrors.NewError("cacheMapPath", synerrors.ErrInvalidArgument).
			WithMessage(fmt.Sprintf("file handle id %q is not numeric", fileHandleID))
	}
	shard := strconv.FormatInt(id%shards, 10)
	return filepath.Join(c.root, shard, fileHandleID, cacheMapName), nil
}

// readMap loads a map file. A missing or unreadable file is an empty map, so
// a damaged cache heals on the next write.
func (c *Cache) readMap(mapPath string) map[string]string {
	entries := make(map[string]string)

	exists, err := c.fs.Exists(mapPath)
	if err != nil || !exists {
		return entries
	}
	data, err := c.fs.ReadFile(mapPath)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("failed to read cache map, starting over",
				"map_path", mapPath,
				"error", err,
			)
		}
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		if c.logger != nil {
			c.logger.Warn("cache map is not valid JSON, starting over",
				"map_path", mapPath,
				"error", err,
			)
		}
		return make(map[string]string)
	}
	return entries
}
