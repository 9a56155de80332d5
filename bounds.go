package strutmesh

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// BoundingBox is an axis-aligned box. The zero value is empty and ready to use.
type BoundingBox struct {
	Min, Max    vec3.T
	initialized bool
}

// Adds a point to the bounding box, expanding the bounding box if the point is outside of it.
// If the bounding box is not initialized, this method has that side effect.
//
// **params**
// + the point
//
// **returns**
// + This BoundingBox for chaining
func (bb *BoundingBox) Add(point *vec3.T) *BoundingBox {
	if !bb.initialized {
		bb.Min, bb.Max = *point, *point
		bb.initialized = true

		return bb
	}

	for i, val := range point {
		if val > bb.Max[i] {
			bb.Max[i] = val
		}
		if val < bb.Min[i] {
			bb.Min[i] = val
		}
	}

	return bb
}

func (bb *BoundingBox) AddRange(points []vec3.T) *BoundingBox {
	for i := range points {
		bb.Add(&points[i])
	}

	return bb
}

// Empty reports whether no point has been added.
func (bb *BoundingBox) Empty() bool {
	return !bb.initialized
}

// Get length of given axis.
//
// **params**
// + Index of axis to inspect (between 0 and 2)
//
// **returns**
// + Length of the given axis.  If axis is out of bounds, returns 0.
func (bb *BoundingBox) AxisLength(i int) float64 {
	if i < 0 || i > len(bb.Min)-1 {
		return 0
	}
	return math.Abs(bb.Min[i] - bb.Max[i])
}

// Get longest axis of bounding box
//
// **returns**
// + Index of longest axis
func (bb *BoundingBox) LongestAxis() int {
	id, max := 0, 0.0

	for i := range bb.Min {
		l := bb.AxisLength(i)
		if l > max {
			max = l
			id = i
		}
	}

	return id
}

// Flat reports whether the box is empty or thinner than tol along some axis,
// i.e. it cannot enclose a volume.
func (bb *BoundingBox) Flat(tol float64) bool {
	if !bb.initialized {
		return true
	}

	for i := range bb.Min {
		if bb.AxisLength(i) < tol {
			return true
		}
	}

	return false
}
