// Package tessellate turns the flat vertex/index arrays produced by a
// renderer-style tessellation callback into indexed meshes.
package tessellate

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/mjkkirschner/strutmesh"
	"github.com/ungerik/go3d/float64/vec3"
)

// Parameters configure a Callback. They are passed through untouched.
type Parameters any

// Callback tessellates geometry into a flat array of vertex coordinates
// (x, y, z per vertex) and a flat array of triangle indices (three per
// triangle) whose meaning is given by a Mapping.
type Callback func(geometry any, params Parameters) (vertices []float64, indices []int, err error)

// Tessellator adapts a Callback into indexed meshes.
type Tessellator struct {
	Callback Callback
	Mapping  Mapping

	// Repair drops triangles referencing vertices outside the output
	// instead of failing the whole call.
	Repair bool

	Logger *slog.Logger
}

// Report describes one Tessellate call.
type Report struct {
	// Triangles is the number of triangles the callback produced.
	Triangles int

	// Dropped is the number of triangles removed by Repair.
	Dropped int
}

// New returns a Tessellator that maps indices with Direct.
func New(cb Callback) *Tessellator {
	return &Tessellator{Callback: cb, Mapping: Direct}
}

func (t *Tessellator) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

// Tessellate runs the callback on geometry and rebuilds its output as a mesh.
// Every face of the returned mesh references a vertex of that mesh; this is
// checked, not assumed from the mapping.
func (t *Tessellator) Tessellate(geometry any, params Parameters) (*strutmesh.Mesh, Report, error) {
	var report Report

	if t.Callback == nil {
		return nil, report, fmt.Errorf("%w: no tessellation callback", strutmesh.ErrInvalidArgument)
	}
	mapping := t.Mapping
	if mapping == nil {
		mapping = Direct
	}

	flatVerts, flatIndices, err := t.Callback(geometry, params)
	if err != nil {
		return nil, report, fmt.Errorf("tessellate: callback: %w", err)
	}

	points, err := Points(flatVerts)
	if err != nil {
		return nil, report, err
	}
	if len(flatIndices)%3 != 0 {
		return nil, report, fmt.Errorf("%w: index array length %d is not a multiple of 3",
			strutmesh.ErrInvalidArgument, len(flatIndices))
	}

	report.Triangles = len(flatIndices) / 3
	mesh := &strutmesh.Mesh{
		Vertices: points,
		Faces:    make([]strutmesh.IndexGroup, 0, report.Triangles),
	}

	for tri := 0; tri < report.Triangles; tri++ {
		face, err := mapTriangle(mapping, tri, flatIndices[3*tri:3*tri+3], len(points))
		if err != nil {
			if !t.Repair {
				return nil, report, err
			}

			report.Dropped++
			t.logger().Debug("dropped tessellated triangle", "triangle", tri, "err", err)
			continue
		}

		mesh.Faces = append(mesh.Faces, face)
	}

	if report.Dropped > 0 {
		t.logger().Warn("tessellation repaired",
			"triangles", report.Triangles, "dropped", report.Dropped)
	}

	return mesh, report, mesh.Validate()
}

func mapTriangle(mapping Mapping, tri int, raw []int, numVertices int) (strutmesh.IndexGroup, error) {
	var ids [3]uint32

	for slot, r := range raw {
		id, err := mapping.VertexID(tri, slot, r)
		if err != nil {
			return strutmesh.IndexGroup{}, err
		}
		if id < 0 || id >= numVertices || uint64(id) > math.MaxUint32 {
			return strutmesh.IndexGroup{}, fmt.Errorf("%w: triangle %d slot %d maps raw index %d to vertex %d of %d",
				strutmesh.ErrIndexOutOfRange, tri, slot, r, id, numVertices)
		}
		ids[slot] = uint32(id)
	}

	return strutmesh.Tri(ids[0], ids[1], ids[2]), nil
}

// Points groups a flat coordinate array into points.
func Points(flat []float64) ([]vec3.T, error) {
	if len(flat)%3 != 0 {
		return nil, fmt.Errorf("%w: vertex array length %d is not a multiple of 3",
			strutmesh.ErrInvalidArgument, len(flat))
	}

	points := make([]vec3.T, len(flat)/3)
	for i := range points {
		points[i] = vec3.T{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}

	return points, nil
}
