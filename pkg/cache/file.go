package cache

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// entryExt is the extension of FileCache entries.
const entryExt = ".page"

// tmpPrefix names in-flight writes inside a shard.
const tmpPrefix = "tmp-"

// headerSize is the length of the expiry prefix of an entry file.
const headerSize = 8

// FileCache stores one file per entry, for the CLI. An entry file holds the
// expiry as big-endian Unix nanoseconds (0 for none) followed by the raw
// page bytes. Files are sharded by the first two hex digits of the key hash
// and replaced atomically, so concurrent sweeps never read a partial page.
type FileCache struct {
	dir string
}

// NewFileCache creates dir if needed and returns a cache rooted there.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get returns the entry under key. Expired and truncated entries are
// removed and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(raw) < headerSize {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if exp := int64(binary.BigEndian.Uint64(raw)); exp != 0 && time.Now().UnixNano() > exp {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return raw[headerSize:], true, nil
}

// Set writes data under key, expiring after ttl (never when ttl is 0).
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}
	buf := make([]byte, headerSize+len(data))
	binary.BigEndian.PutUint64(buf, uint64(exp))
	copy(buf[headerSize:], data)

	path := c.path(key)
	shard := filepath.Dir(path)
	if err := os.MkdirAll(shard, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(shard, tmpPrefix+"*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. A missing key is not an error.
func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string {
	return c.dir
}

// Clear removes the cache's own files: entries and leftover temp files
// inside shard directories. Shards left empty are removed too. Anything
// else under the directory is untouched. It returns the number of entries
// removed.
func (c *FileCache) Clear() (int, error) {
	top, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, d := range top {
		if !d.IsDir() || !isShard(d.Name()) {
			continue
		}
		shard := filepath.Join(c.dir, d.Name())
		files, err := os.ReadDir(shard)
		if err != nil {
			continue // unreadable; leave it
		}
		for _, f := range files {
			name := f.Name()
			if !f.Type().IsRegular() {
				continue
			}
			switch {
			case strings.HasSuffix(name, entryExt):
				if os.Remove(filepath.Join(shard, name)) == nil {
					count++
				}
			case strings.HasPrefix(name, tmpPrefix):
				_ = os.Remove(filepath.Join(shard, name))
			}
		}
		_ = os.Remove(shard) // fails harmlessly if not empty
	}
	return count, nil
}

// isShard reports whether name is two lowercase hex digits.
func isShard(name string) bool {
	if len(name) != 2 {
		return false
	}
	for _, r := range name {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// Close is a no-op.
func (c *FileCache) Close() error {
	return nil
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

var _ Cache = (*FileCache)(nil)
