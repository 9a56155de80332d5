// Package strut builds open tubular meshes ("struts") between pairs of
// points, one at a time or packed many to a mesh.
package strut

import (
	"fmt"

	"github.com/mjkkirschner/strutmesh"
	"github.com/mjkkirschner/strutmesh/internal"
	"github.com/ungerik/go3d/float64/vec3"
)

// MinEdgeCount is the fewest ring edges that enclose an area.
const MinEdgeCount = 3

// Generator meshes struts of a fixed radius and ring resolution.
type Generator struct {
	Radius    float64
	EdgeCount int
}

func NewGenerator(radius float64, edgeCount int) (*Generator, error) {
	g := &Generator{Radius: radius, EdgeCount: edgeCount}
	if err := g.check(); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Generator) check() error {
	if !(g.Radius > 0) {
		return fmt.Errorf("%w: strut radius must be positive, got %v", strutmesh.ErrInvalidArgument, g.Radius)
	}
	if g.EdgeCount < MinEdgeCount {
		return fmt.Errorf("%w: strut needs at least %d edges, got %d",
			strutmesh.ErrInvalidArgument, MinEdgeCount, g.EdgeCount)
	}

	return nil
}

// VerticesPerStrut is the vertex (and face) count of one strut.
func (g *Generator) VerticesPerStrut() int {
	return 2 * g.EdgeCount
}

// RingParameter is the circle parameter in [0,1) of ring vertex i.
func RingParameter(i, edgeCount int) float64 {
	return float64(i) / float64(edgeCount)
}

// Generate meshes a single strut from start to end.
//
// The vertex list is the start ring followed by the end ring, edgeCount
// vertices each. Every ring edge i contributes two triangles to the side
// wall; the last edge wraps to vertex 0. Both ends are left open. Each vertex
// carries its outward radial normal.
func (g *Generator) Generate(start, end vec3.T) (*strutmesh.Mesh, error) {
	if err := g.check(); err != nil {
		return nil, err
	}

	if start == end {
		return nil, fmt.Errorf("%w: strut start and end coincide at %v", strutmesh.ErrDegenerateGeometry, start)
	}

	frame, ok := internal.NewFrame(vec3.Sub(&end, &start))
	if !ok {
		return nil, fmt.Errorf("%w: strut from %v to %v has no length", strutmesh.ErrDegenerateGeometry, start, end)
	}

	edges := g.EdgeCount
	mesh := strutmesh.NewMesh(2*edges, 2*edges)
	mesh.Normals = make([]vec3.T, 0, 2*edges)

	for _, center := range [2]vec3.T{start, end} {
		for i := 0; i < edges; i++ {
			t := RingParameter(i, edges)
			mesh.Vertices = append(mesh.Vertices, frame.PointOnCircle(&center, g.Radius, t))
			mesh.Normals = append(mesh.Normals, frame.RadialDirection(t))
		}
	}

	e := uint32(edges)
	for i := uint32(0); i < e; i++ {
		j := (i + 1) % e

		// start[i], start[j], end[j], end[i]; winding gives outward normals
		mesh.Faces = append(mesh.Faces,
			strutmesh.Tri(i, j, e+j),
			strutmesh.Tri(e+j, e+i, i),
		)
	}

	return mesh, nil
}
