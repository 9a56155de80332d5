// Package local is an in-process geometry host for build. It checks faces
// for degeneracy, welds them by exact corner coordinates, and realizes a
// solid only when the welded faces close up into an edge manifold.
package local

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mjkkirschner/strutmesh"
	"github.com/mjkkirschner/strutmesh/build"
	"github.com/mjkkirschner/strutmesh/internal"
	"github.com/ungerik/go3d/float64/vec3"
)

// Host implements build.Host.
type Host struct {
	// Tolerance bounds corner separation, twice the squared triangle area,
	// and quad planarity.
	Tolerance float64
}

var _ build.Host = (*Host)(nil)

func New() *Host {
	return &Host{Tolerance: internal.Tolerance}
}

// Face is a checked planar face.
type Face struct {
	Corners []vec3.T
	Normal  vec3.T
}

// Shape is a realized face set.
type Shape struct {
	ID uuid.UUID

	// Kind is build.Solid or build.Mesh.
	Kind build.Target

	// Mesh holds the faces welded over shared corners.
	Mesh *strutmesh.Mesh
}

func (s *Shape) Faces() int {
	return len(s.Mesh.Faces)
}

func (s *Shape) String() string {
	return fmt.Sprintf("%s %s (%d faces)", s.Kind, s.ID, s.Faces())
}

func (h *Host) tol() float64 {
	if h.Tolerance > 0 {
		return h.Tolerance
	}
	return internal.Tolerance
}

// BuildFace checks corners and returns a *Face. corners is copied.
func (h *Host) BuildFace(corners []vec3.T) (build.Face, error) {
	tol := h.tol()

	if len(corners) != 3 && len(corners) != 4 {
		return nil, fmt.Errorf("%w: face needs 3 or 4 corners, got %d", strutmesh.ErrInvalidArgument, len(corners))
	}

	for i := range corners {
		for j := i + 1; j < len(corners); j++ {
			if vec3.Distance(&corners[i], &corners[j]) < tol {
				return nil, fmt.Errorf("%w: corners %d and %d coincide at %v",
					strutmesh.ErrDegenerateGeometry, i, j, corners[i])
			}
		}
	}

	face := &Face{Corners: append([]vec3.T(nil), corners...)}
	points := face.Corners

	if len(points) == 3 {
		if strutmesh.ThreePointsAreCollinear(&points[0], &points[1], &points[2], tol) {
			return nil, fmt.Errorf("%w: corners %v are collinear", strutmesh.ErrDegenerateGeometry, points)
		}
		face.Normal = strutmesh.FaceNormal(points, strutmesh.Tri(0, 1, 2))
		return face, nil
	}

	face.Normal = strutmesh.FaceNormal(points, strutmesh.Quad(0, 1, 2, 3))
	if face.Normal == vec3.Zero {
		return nil, fmt.Errorf("%w: quad %v has no area", strutmesh.ErrDegenerateGeometry, points)
	}

	// every corner within tol of the plane through the centroid
	var centroid vec3.T
	for i := range points {
		centroid.Add(&points[i])
	}
	centroid.Scale(0.25)

	for i := range points {
		d := vec3.Sub(&points[i], &centroid)
		if dist := vec3.Dot(&d, &face.Normal); dist > tol || dist < -tol {
			return nil, fmt.Errorf("%w: quad corner %d is %g off the face plane",
				strutmesh.ErrDegenerateGeometry, i, dist)
		}
	}

	return face, nil
}

// Realize welds faces and returns one *Shape. Solid requires a closed edge
// manifold with a bounding box that is not flat. AnyGeometry yields a solid
// when that holds and a mesh otherwise.
func (h *Host) Realize(faces []build.Face, target build.Target) ([]build.Shape, error) {
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: no faces to realize", strutmesh.ErrBuildInfeasible)
	}

	mesh, err := weld(faces)
	if err != nil {
		return nil, err
	}

	kind := build.Mesh
	switch target {
	case build.Solid:
		if err := h.checkSolid(mesh); err != nil {
			return nil, err
		}
		kind = build.Solid
	case build.AnyGeometry:
		if h.checkSolid(mesh) == nil {
			kind = build.Solid
		}
	case build.Mesh:
	default:
		return nil, fmt.Errorf("%w: unknown build target %v", strutmesh.ErrInvalidArgument, target)
	}

	return []build.Shape{&Shape{ID: uuid.New(), Kind: kind, Mesh: mesh}}, nil
}

func weld(faces []build.Face) (*strutmesh.Mesh, error) {
	mesh := strutmesh.NewMesh(0, len(faces))
	ids := make(map[vec3.T]uint32)

	for i, f := range faces {
		face, ok := f.(*Face)
		if !ok || face == nil {
			return nil, fmt.Errorf("%w: face %d is a %T, not built by this host",
				strutmesh.ErrInvalidArgument, i, f)
		}

		var g strutmesh.IndexGroup
		g.Count = len(face.Corners)
		for slot, c := range face.Corners {
			id, ok := ids[c]
			if !ok {
				id = uint32(len(mesh.Vertices))
				ids[c] = id
				mesh.Vertices = append(mesh.Vertices, c)
			}
			g.Indices[slot] = id
		}
		mesh.Faces = append(mesh.Faces, g)
	}

	return mesh, nil
}

type edge [2]uint32

func (h *Host) checkSolid(mesh *strutmesh.Mesh) error {
	use := make(map[edge]int)
	for _, f := range mesh.Faces {
		c := f.Corners()
		for i := range c {
			a, b := c[i], c[(i+1)%len(c)]
			if a > b {
				a, b = b, a
			}
			use[edge{a, b}]++
		}
	}

	var open, nonManifold int
	for _, n := range use {
		switch {
		case n == 1:
			open++
		case n > 2:
			nonManifold++
		}
	}
	if open > 0 || nonManifold > 0 {
		return fmt.Errorf("%w: %d open and %d non-manifold edges",
			strutmesh.ErrBuildInfeasible, open, nonManifold)
	}

	bounds := mesh.Bounds()
	if bounds.Flat(h.tol()) {
		return fmt.Errorf("%w: faces enclose no volume", strutmesh.ErrBuildInfeasible)
	}

	return nil
}
