// Package capture grabs the frame the region scanner reads from: the live
// game display, or a saved screenshot when calibrating offline.
package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/ironsheep/er-advisor/internal/imaging"
)

// ErrNoDisplay is returned when no active display can be captured.
var ErrNoDisplay = errors.New("no active displays found")

// Capturer returns a fresh full-screen frame on every call.
type Capturer interface {
	Capture() (image.Image, error)
}

// Func adapts a function to the Capturer interface.
type Func func() (image.Image, error)

// Capture calls f.
func (f Func) Capture() (image.Image, error) { return f() }

// Display captures one monitor. The zero value captures the primary display.
type Display struct {
	// Index selects the display, 0 being the primary one.
	Index int
}

// Capture grabs the whole display.
func (d Display) Capture() (image.Image, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, ErrNoDisplay
	}
	if d.Index < 0 || d.Index >= n {
		return nil, fmt.Errorf("display %d out of range (have %d)", d.Index, n)
	}

	img, err := screenshot.CaptureDisplay(d.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display %d: %w", d.Index, err)
	}
	return img, nil
}

// Bounds returns the desktop rectangle covered by the display.
func (d Display) Bounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	if d.Index < 0 || d.Index >= n {
		return image.Rectangle{}, fmt.Errorf("display %d out of range (have %d)", d.Index, n)
	}
	return screenshot.GetDisplayBounds(d.Index), nil
}

// File replays a saved screenshot. The file is decoded again only when it
// changes on disk.
type File struct {
	path  string
	cache *imaging.ImageCache
}

// NewFile returns a Capturer that always yields the image at path.
// The file is read lazily on the first Capture.
func NewFile(path string) *File {
	return &File{path: path, cache: imaging.NewImageCache()}
}

// Path returns the screenshot path.
func (f *File) Path() string { return f.path }

// Capture returns the decoded screenshot.
func (f *File) Capture() (image.Image, error) {
	img, err := f.cache.Load(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load screenshot %s: %w", f.path, err)
	}
	return img, nil
}

// Reload drops the cached frame so the next Capture decodes the file even if
// it looks unchanged.
func (f *File) Reload() {
	f.cache.Evict(f.path)
}
