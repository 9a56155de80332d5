package internal

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Frame is a right-handed orthonormal basis. Normal is the direction the
// frame was built from; XAxis and YAxis span the plane normal to it.
type Frame struct {
	Normal, XAxis, YAxis vec3.T
}

// Build a frame around a direction vector
//
// **params**
// + the direction, need not be normalized
//
// **returns**
// + the frame, false if the direction has zero length
func NewFrame(dir vec3.T) (Frame, bool) {
	length := dir.Length()
	if length < Epsilon {
		return Frame{}, false
	}

	normal := dir.Scaled(1 / length)

	// pick the world axis least aligned with the normal as a helper
	helper := vec3.T{0, 0, 1}
	if math.Abs(normal[2]) > 0.9 {
		helper = vec3.T{1, 0, 0}
	}

	xaxis := vec3.Cross(&normal, &helper)
	xaxis.Normalize()
	yaxis := vec3.Cross(&normal, &xaxis)

	return Frame{normal, xaxis, yaxis}, true
}

// PointOnCircle evaluates the circle of the given radius centered at center
// and lying in the frame's plane. t runs over [0,1) for one full turn,
// starting on the x axis.
func (f *Frame) PointOnCircle(center *vec3.T, radius, t float64) vec3.T {
	angle := 2 * math.Pi * t
	x := f.XAxis.Scaled(radius * math.Cos(angle))
	y := f.YAxis.Scaled(radius * math.Sin(angle))
	offset := vec3.Add(&x, &y)

	return vec3.Add(center, &offset)
}

// RadialDirection is the unit vector from the circle center towards
// PointOnCircle(center, radius, t).
func (f *Frame) RadialDirection(t float64) vec3.T {
	angle := 2 * math.Pi * t
	x := f.XAxis.Scaled(math.Cos(angle))
	y := f.YAxis.Scaled(math.Sin(angle))

	return vec3.Add(&x, &y)
}
