package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"
)

// DiskCache stores synthesized audio as files named by a hash of voice and
// text.
type DiskCache struct {
	dir    string
	flight singleflight.Group
}

// NewDiskCache creates dir if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tts cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// CacheKey is the hex sha256 of voice + ":" + text.
func CacheKey(voice, text string) string {
	h := sha256.Sum256([]byte(voice + ":" + text))
	return hex.EncodeToString(h[:])
}

func (c *DiskCache) path(key string) string {
	return filepath.Join(c.dir, key+".mp3")
}

// Get returns the cached audio for key.
func (c *DiskCache) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// GetOrCreate returns the cached audio for key, calling create and storing
// its result on a miss. Concurrent misses for the same key share one create
// call; misses for different keys run in parallel.
func (c *DiskCache) GetOrCreate(key string, create func() ([]byte, error)) ([]byte, error) {
	if data, ok := c.Get(key); ok {
		return data, nil
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		if data, ok := c.Get(key); ok {
			return data, nil
		}
		data, err := create()
		if err != nil {
			return nil, err
		}
		return data, c.put(key, data)
	})
	data, _ := v.([]byte)
	return data, err
}

// put writes through a temp file so readers never see a partial mp3.
func (c *DiskCache) put(key string, data []byte) error {
	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write tts cache: %w", err)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write tts cache: %w", errors.Join(werr, cerr))
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write tts cache: %w", err)
	}
	return nil
}
