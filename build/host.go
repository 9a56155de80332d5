// Package build assembles indexed meshes into host shapes one face at a
// time, tallying the faces the host rejects instead of aborting on them.
package build

import "github.com/ungerik/go3d/float64/vec3"

// Face is a host-constructed face handle.
type Face any

// Shape is a host-realized geometric object.
type Shape any

// Host is the geometry kernel a Builder drives.
//
// Faces passed to Realize stay owned by the caller; the host must not
// release them. Shapes returned by a successful Realize belong to the
// caller.
type Host interface {
	// BuildFace constructs one planar face from 3 or 4 corners.
	BuildFace(corners []vec3.T) (Face, error)

	// Realize turns faces into shapes of the given target. It returns an
	// error wrapping strutmesh.ErrBuildInfeasible when the target cannot
	// be realized from these faces.
	Realize(faces []Face, target Target) ([]Shape, error)
}

// Releaser is implemented by faces and shapes that hold host resources.
type Releaser interface {
	Release()
}

func release(v any) {
	if r, ok := v.(Releaser); ok {
		r.Release()
	}
}

func releaseFaces(faces []Face) {
	for _, f := range faces {
		release(f)
	}
}

func releaseShapes(shapes []Shape) {
	for _, s := range shapes {
		release(s)
	}
}
