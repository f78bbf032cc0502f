package render

import (
	"fmt"

	"github.com/rclancey/earcut"

	"github.com/irfansharif/cropview/internal/geom"
)

// earClip triangulates a polygon using the earcut algorithm, returning one
// [3]geom.Point per triangle.
func earClip(polygon []geom.Point) ([][3]geom.Point, error) {
	if len(polygon) < 3 {
		return nil, fmt.Errorf("degenerate polygon (%d vertices < 3)", len(polygon))
	}

	// Flatten to the [x0, y0, x1, y1, ...] layout earcut expects.
	coords := make([]float64, len(polygon)*2)
	for i, p := range polygon {
		coords[i*2] = p.X
		coords[i*2+1] = p.Y
	}

	indices, err := earcut.Earcut(coords, nil /* holeIndices */, 2 /* dim */)
	if err != nil {
		return nil, fmt.Errorf("triangulating %d-vertex polygon: %w", len(polygon), err)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("invalid triangle index count %d (not divisible by 3)", len(indices))
	}

	triangles := make([][3]geom.Point, len(indices)/3)
	for i := range triangles {
		for v := 0; v < 3; v++ {
			triangles[i][v] = polygon[indices[i*3+v]]
		}
	}
	return triangles, nil
}
