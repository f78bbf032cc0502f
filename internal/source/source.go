// Package source loads the image shown in the viewport. Decoding happens on a
// background goroutine; the natural size becomes visible to the viewport only
// once the pixels are ready.
package source

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log"
	"os"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/irfansharif/cropview/internal/geom"
)

// Image is a source image that may still be loading.
type Image struct {
	path string
	done chan struct{}

	mu       sync.Mutex
	pixels   image.Image
	format   string
	err      error
	loadTime time.Duration
}

// Load starts decoding the image at path and returns immediately.
func Load(path string) *Image {
	img := &Image{path: path, done: make(chan struct{})}
	go img.load()
	return img
}

// FromImage wraps an already decoded image.
func FromImage(pixels image.Image) *Image {
	img := &Image{path: "<memory>", done: make(chan struct{}), pixels: pixels}
	close(img.done)
	return img
}

func (img *Image) load() {
	defer close(img.done)

	start := time.Now()
	pixels, format, err := decode(img.path)

	img.mu.Lock()
	defer img.mu.Unlock()
	img.pixels, img.format, img.err = pixels, format, err
	img.loadTime = time.Since(start)
	if err != nil {
		log.Printf("Failed to load image %s: %v", img.path, err)
	}
}

func decode(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	pixels, format, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return pixels, format, nil
}

// Size returns the natural size of the image, and false while the image is
// still loading or if it failed to load.
func (img *Image) Size() (geom.Size, bool) {
	img.mu.Lock()
	defer img.mu.Unlock()
	if img.pixels == nil {
		return geom.Size{}, false
	}
	b := img.pixels.Bounds()
	return geom.MakeSize(float64(b.Dx()), float64(b.Dy())), true
}

// Done is closed once loading has finished, successfully or not.
func (img *Image) Done() <-chan struct{} { return img.done }

// Pixels returns the decoded image, or nil if it is not (yet) available.
func (img *Image) Pixels() image.Image {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.pixels
}

// Err returns the load error, if any.
func (img *Image) Err() error {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.err
}

// Format returns the name of the decoder used, e.g. "png".
func (img *Image) Format() string {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.format
}

// LoadTime returns how long decoding took.
func (img *Image) LoadTime() time.Duration {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.loadTime
}

// Path returns the path the image was loaded from.
func (img *Image) Path() string { return img.path }
