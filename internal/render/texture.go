package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// prepareTexture converts img into a tightly packed RGBA image whose sides do
// not exceed maxSide, ready for glTexImage2D. Larger images are downsampled
// preserving their aspect ratio; the viewport keeps working with the natural
// size since texture coordinates are normalized.
func prepareTexture(img image.Image, maxSide int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if maxSide > 0 && (w > maxSide || h > maxSide) {
		scale := float64(maxSide) / float64(maxInt(w, h))
		dw := maxInt(1, int(float64(w)*scale))
		dh := maxInt(1, int(float64(h)*scale))
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		renderLogger.Printf("downsampled %dx%d image to %dx%d texture (max %d)", w, h, dw, dh, maxSide)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*w {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// maxInt returns the maximum of two integers
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
