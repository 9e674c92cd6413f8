package imaging

import (
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// ImageCache holds decoded screenshots keyed by path.
//
// A cached frame is served as long as the file's size and modification time
// are unchanged; overwriting the screenshot on disk makes the next Load decode
// it again. Safe for concurrent use.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	img     image.Image
	size    int64
	modTime time.Time
}

func (e cacheEntry) matches(fi os.FileInfo) bool {
	return e.size == fi.Size() && e.modTime.Equal(fi.ModTime())
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{entries: make(map[string]cacheEntry)}
}

// Load returns the image at path, decoding it only when it is not cached or
// the file changed since it was cached.
func (c *ImageCache) Load(path string) (image.Image, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && e.matches(fi) {
		return e.img, nil
	}

	img, err := Open(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = cacheEntry{img: img, size: fi.Size(), modTime: fi.ModTime()}
	c.mu.Unlock()
	return img, nil
}

// Evict drops the entry for path. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Open decodes the image at path without caching it.
// PNG, JPEG, GIF, BMP and TIFF are supported.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}
