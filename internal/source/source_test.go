package source

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/irfansharif/cropview/internal/geom"
)

func writeImage(t *testing.T, name string, w, h int, encode func(*os.File, image.Image) error) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func waitLoaded(t *testing.T, img *Image) {
	t.Helper()
	select {
	case <-img.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("image did not finish loading")
	}
}

func TestLoad_PNG(t *testing.T) {
	path := writeImage(t, "a.png", 16, 9, func(f *os.File, img image.Image) error { return png.Encode(f, img) })

	img := Load(path)
	waitLoaded(t, img)

	require.NoError(t, img.Err())
	size, ok := img.Size()
	require.True(t, ok)
	assert.Equal(t, geom.MakeSize(16, 9), size)
	assert.Equal(t, "png", img.Format())
	assert.NotNil(t, img.Pixels())
	assert.Equal(t, path, img.Path())
}

func TestLoad_BMP(t *testing.T) {
	path := writeImage(t, "a.bmp", 7, 3, func(f *os.File, img image.Image) error { return bmp.Encode(f, img) })

	img := Load(path)
	waitLoaded(t, img)

	require.NoError(t, img.Err())
	size, ok := img.Size()
	require.True(t, ok)
	assert.Equal(t, geom.MakeSize(7, 3), size)
	assert.Equal(t, "bmp", img.Format())
}

func TestLoad_MissingFile(t *testing.T) {
	img := Load(filepath.Join(t.TempDir(), "missing.png"))
	waitLoaded(t, img)

	assert.ErrorIs(t, img.Err(), os.ErrNotExist)
	_, ok := img.Size()
	assert.False(t, ok)
	assert.Nil(t, img.Pixels())
}

func TestLoad_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0644))

	img := Load(path)
	waitLoaded(t, img)

	assert.ErrorIs(t, img.Err(), image.ErrFormat)
	_, ok := img.Size()
	assert.False(t, ok)
}

func TestFromImage(t *testing.T) {
	img := FromImage(image.NewGray(image.Rect(0, 0, 4, 2)))
	waitLoaded(t, img)
	size, ok := img.Size()
	require.True(t, ok)
	assert.Equal(t, geom.MakeSize(4, 2), size)
	assert.NoError(t, img.Err())
}
