package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache stores one JSON file per entry below a directory, fanned out
// into 256 subdirectories by key hash.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates a file-based cache in dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get implements Cache. Unreadable or expired entries are removed and
// reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	entry, err := readEntry(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil || entry.Key != key || entry.expired(c.now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set implements Cache. The entry is written to a temporary file and renamed
// into place so concurrent readers never see partial data.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = c.now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
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

// Delete implements Cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Close implements Cache.
func (c *FileCache) Close() error { return nil }

// Stats summarizes the entries on disk.
type Stats struct {
	Entries int   `json:"entries"`
	Expired int   `json:"expired"`
	Bytes   int64 `json:"bytes"`
}

// Stats walks the cache directory and counts entries.
func (c *FileCache) Stats() (Stats, error) {
	var st Stats
	now := c.now()
	err := c.walk(func(path string, info fs.FileInfo) error {
		st.Entries++
		st.Bytes += info.Size()
		if e, err := readEntry(path); err != nil || e.expired(now) {
			st.Expired++
		}
		return nil
	})
	return st, err
}

// Clear removes entries and returns how many were deleted. With expiredOnly
// set, live entries are kept.
func (c *FileCache) Clear(expiredOnly bool) (int, error) {
	n := 0
	now := c.now()
	err := c.walk(func(path string, _ fs.FileInfo) error {
		if expiredOnly {
			if e, err := readEntry(path); err == nil && !e.expired(now) {
				return nil
			}
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func (c *FileCache) walk(fn func(path string, info fs.FileInfo) error) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(path, info)
	})
}

func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".json")
}

func readEntry(path string) (fileEntry, error) {
	var e fileEntry
	raw, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(raw, &e)
	return e, err
}

var _ Cache = (*FileCache)(nil)
