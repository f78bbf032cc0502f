// Package render draws the viewport onto an OpenGL surface.
//
// The source image lives in a single texture. Each paint:
// 1. Clears the framebuffer to the background colour.
// 2. Triangulates the destination rectangle handed over by the viewport.
// 3. Draws it textured with the image, mapping surface pixels to NDC.
package render

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/irfansharif/cropview/internal/geom"
	"github.com/irfansharif/cropview/internal/palette"
)

var renderLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("CROPVIEW_DEBUG_RENDER") == "1" {
		renderLogger = log.New(os.Stdout, "[render] ", log.Ltime|log.Lmsgprefix)
	}
}

// Renderer paints the image texture into destination rectangles. It
// requires a current OpenGL context on the calling thread.
type Renderer struct {
	surface    geom.Size
	background palette.Background

	shaderManager *ShaderManager
	vao, vbo      uint32
	texture       uint32 // 0 until SetImage succeeds

	painted bool // a paint happened since the last TakePainted
	stats   Stats
}

// Stats tracks rendering performance metrics.
type Stats struct {
	Paints          int     // paints since creation
	LastPaintTimeUs float64 // time spent in the last Paint() call in microseconds
	LastUploadMs    float64 // time spent uploading the image texture in milliseconds
	TextureW        int     // uploaded texture width (may be below the natural width)
	TextureH        int     // uploaded texture height
}

func NewRenderer(surface geom.Size, background palette.Background) *Renderer {
	r := &Renderer{
		surface:       surface,
		background:    background,
		shaderManager: NewShaderManager(),
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)

	r.shaderManager.SetTransform(affineToMatrix4(geom.SurfaceToNDC(surface)))
	return r
}

// SetImage uploads img as the texture to draw. Images beyond the driver's
// maximum texture size are downsampled first.
func (r *Renderer) SetImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("cannot upload nil image")
	}
	startTime := time.Now()

	var maxSide int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSide)
	rgba := prepareTexture(img, int(maxSide))
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	if w == 0 || h == 0 {
		return fmt.Errorf("cannot upload empty %dx%d image", w, h)
	}

	if r.texture == 0 {
		gl.GenTextures(1, &r.texture)
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("uploading %dx%d texture: GL error 0x%x", w, h, code)
	}

	r.stats.TextureW, r.stats.TextureH = w, h
	r.stats.LastUploadMs = float64(time.Since(startTime).Microseconds()) / 1000.0
	renderLogger.Printf("uploaded %dx%d texture in %.2fms", w, h, r.stats.LastUploadMs)
	return nil
}

// Paint clears the surface and draws the full image into dest. Without an
// uploaded image only the clear happens.
func (r *Renderer) Paint(dest geom.Box) {
	startTime := time.Now()

	gl.Viewport(0, 0, int32(r.surface.W), int32(r.surface.H))
	gl.ClearColor(r.background.GL())
	gl.Clear(gl.COLOR_BUFFER_BIT)

	if r.texture != 0 {
		vertices, err := quadVertices(dest)
		if err != nil {
			log.Fatalf("Failed to build quad for %+v: %v", dest, err)
		}

		gl.BindVertexArray(r.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.texture)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(vertices)/floatsPerVertex))
	}

	r.painted = true
	r.stats.Paints++
	r.stats.LastPaintTimeUs = float64(time.Since(startTime).Microseconds())
}

// TakePainted reports whether a paint happened since the previous call, so
// the caller knows to present the back buffer.
func (r *Renderer) TakePainted() bool {
	p := r.painted
	r.painted = false
	return p
}

// Stats returns the current performance statistics
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Release frees the GL objects owned by the renderer.
func (r *Renderer) Release() {
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
		r.texture = 0
	}
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
	r.shaderManager.Delete()
}
