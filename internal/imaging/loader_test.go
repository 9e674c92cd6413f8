package imaging

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func writeFrame(t *testing.T, path string, width, height int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	if err := Save(img, path); err != nil {
		t.Fatalf("failed to write frame: %v", err)
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := filepath.Join(t.TempDir(), "frame.png")
	writeFrame(t, path, 100, 60, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := img1.Bounds(); got.Dx() != 100 || got.Dy() != 60 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x60", got.Dx(), got.Dy())
	}

	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("unchanged file was decoded again")
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestImageCache_ReloadsChangedFile(t *testing.T) {
	cache := NewImageCache()
	path := filepath.Join(t.TempDir(), "frame.png")
	writeFrame(t, path, 10, 10, color.White)

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	writeFrame(t, path, 20, 20, color.Black)
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("stale frame served: width %d, want 20", img.Bounds().Dx())
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache()
	_, err := cache.Load(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("want not-exist error, got %v", err)
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	cache := NewImageCache()
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := cache.Load(path); err == nil {
		t.Error("Load should fail for invalid image data")
	}
	if cache.Len() != 0 {
		t.Error("failed load must not be cached")
	}
}

func TestImageCache_Evict(t *testing.T) {
	cache := NewImageCache()
	path := filepath.Join(t.TempDir(), "frame.png")
	writeFrame(t, path, 10, 10, color.RGBA{0, 255, 0, 255})

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Evict(path)
	if cache.Len() != 0 {
		t.Error("Evict did not remove image from cache")
	}

	// Unknown paths are ignored.
	cache.Evict("/nonexistent/path")
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := filepath.Join(t.TempDir(), "frame.png")
	writeFrame(t, path, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

