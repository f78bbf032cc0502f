package render

import (
	"github.com/irfansharif/cropview/internal/geom"
)

// floatsPerVertex is the vertex layout: position (x, y) in surface pixels
// followed by texture coordinates (u, v).
const floatsPerVertex = 4

// quadVertices triangulates the destination rectangle and returns the
// interleaved vertex data for drawing the full image into it.
func quadVertices(dest geom.Box) ([]float32, error) {
	corners := dest.Corners()
	triangles, err := earClip(corners[:])
	if err != nil {
		return nil, err
	}

	toUV := geom.BoxToUnit(dest)
	vertices := make([]float32, 0, len(triangles)*3*floatsPerVertex)
	for _, tri := range triangles {
		for _, p := range tri {
			uv := toUV.MulPoint(p)
			vertices = append(vertices,
				float32(p.X), float32(p.Y), // position
				float32(uv.X), float32(uv.Y), // texture coordinates
			)
		}
	}
	return vertices, nil
}

// affineToMatrix4 converts an affine transform to OpenGL 4x4 matrix format.
func affineToMatrix4(transform geom.Affine) [16]float32 {
	return [16]float32{
		float32(transform.A), float32(transform.D), 0, 0,
		float32(transform.B), float32(transform.E), 0, 0,
		0, 0, 1, 0,
		float32(transform.C), float32(transform.F), 0, 1,
	}
}
