package tessellate

import (
	"fmt"
	"math"

	"github.com/mjkkirschner/strutmesh"
	"github.com/ungerik/go3d/float64/vec3"
)

// Sphere is a node ball placed at a strut junction.
type Sphere struct {
	Center vec3.T
	Radius float64
}

// GridParameters divide a sphere into DivsU longitude and DivsV latitude
// bands.
type GridParameters struct {
	DivsU int
	DivsV int
}

// DefaultGrid is used when SphereCallback receives nil parameters.
var DefaultGrid = GridParameters{DivsU: 16, DivsV: 8}

// Validate reports grids too coarse to enclose a volume.
func (p GridParameters) Validate() error {
	if p.DivsU < 3 || p.DivsV < 2 {
		return fmt.Errorf("%w: sphere grid needs at least 3x2 divisions, got %dx%d",
			strutmesh.ErrInvalidArgument, p.DivsU, p.DivsV)
	}
	return nil
}

// SphereCallback is a Callback for Sphere geometry. It lays points out on a
// DivsU x (DivsV+1) longitude/latitude grid that wraps around the seam and
// splits each grid cell into two outward-wound triangles, omitting the
// zero-area triangle at each pole. Indices are vertex ids, so it pairs with
// Direct.
func SphereCallback(geometry any, params Parameters) ([]float64, []int, error) {
	var sphere Sphere
	switch g := geometry.(type) {
	case Sphere:
		sphere = g
	case *Sphere:
		if g == nil {
			return nil, nil, fmt.Errorf("%w: nil sphere", strutmesh.ErrInvalidArgument)
		}
		sphere = *g
	default:
		return nil, nil, fmt.Errorf("%w: cannot tessellate %T as a sphere", strutmesh.ErrInvalidArgument, geometry)
	}

	grid := DefaultGrid
	switch p := params.(type) {
	case nil:
	case GridParameters:
		grid = p
	case *GridParameters:
		grid = *p
	default:
		return nil, nil, fmt.Errorf("%w: unexpected sphere parameters %T", strutmesh.ErrInvalidArgument, params)
	}

	if err := grid.Validate(); err != nil {
		return nil, nil, err
	}
	if !(sphere.Radius > 0) {
		return nil, nil, fmt.Errorf("%w: sphere radius must be positive, got %v",
			strutmesh.ErrDegenerateGeometry, sphere.Radius)
	}

	divsU, divsV := grid.DivsU, grid.DivsV
	stride := divsV + 1

	vertices := make([]float64, 0, 3*divsU*stride)
	for i := 0; i < divsU; i++ {
		lon := 2 * math.Pi * float64(i) / float64(divsU)
		for j := 0; j <= divsV; j++ {
			lat := math.Pi*float64(j)/float64(divsV) - math.Pi/2

			// pin the poles so every column shares them exactly
			cosLat := math.Cos(lat)
			sinLat := math.Sin(lat)
			switch j {
			case 0:
				cosLat, sinLat = 0, -1
			case divsV:
				cosLat, sinLat = 0, 1
			}

			vertices = append(vertices,
				sphere.Center[0]+sphere.Radius*cosLat*math.Cos(lon),
				sphere.Center[1]+sphere.Radius*cosLat*math.Sin(lon),
				sphere.Center[2]+sphere.Radius*sinLat,
			)
		}
	}

	indices := make([]int, 0, 6*divsU*divsV)
	for i := 0; i < divsU; i++ {
		for j := 0; j < divsV; j++ {
			a := i*stride + j
			b := ((i+1)%divsU)*stride + j
			c := b + 1
			d := a + 1

			if j != 0 {
				indices = append(indices, a, b, c)
			}
			if j != divsV-1 {
				indices = append(indices, a, c, d)
			}
		}
	}

	return vertices, indices, nil
}

// SphereTriangles is the number of triangles SphereCallback produces for grid.
func SphereTriangles(grid GridParameters) int {
	return 2*grid.DivsU*grid.DivsV - 2*grid.DivsU
}
