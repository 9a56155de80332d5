package strutmesh

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"
)

// IndexGroup is a triangle or quad face. Indices are positions in the
// vertex list of the mesh the face belongs to; only the first Count slots
// are meaningful.
type IndexGroup struct {
	Indices [4]uint32
	Count   int
}

func Tri(a, b, c uint32) IndexGroup {
	return IndexGroup{[4]uint32{a, b, c, 0}, 3}
}

func Quad(a, b, c, d uint32) IndexGroup {
	return IndexGroup{[4]uint32{a, b, c, d}, 4}
}

// Valid reports whether Count is 3 or 4 and any unused slot is empty.
func (g IndexGroup) Valid() bool {
	switch g.Count {
	case 3:
		return g.Indices[3] == 0
	case 4:
		return true
	}
	return false
}

// Corners returns the populated indices. It returns nil for an invalid group.
func (g IndexGroup) Corners() []uint32 {
	if !g.Valid() {
		return nil
	}
	return append([]uint32(nil), g.Indices[:g.Count]...)
}

// Offset returns a copy of g with every populated index shifted by n.
func (g IndexGroup) Offset(n uint32) IndexGroup {
	for i := 0; i < g.Count && i < len(g.Indices); i++ {
		g.Indices[i] += n
	}
	return g
}

// Mesh is an indexed face set. Normals is optional; when it is present and
// has one entry per vertex it is treated as per-vertex normals.
type Mesh struct {
	Vertices []vec3.T
	Faces    []IndexGroup
	Normals  []vec3.T
}

func NewMesh(numVertices, numFaces int) *Mesh {
	return &Mesh{
		Vertices: make([]vec3.T, 0, numVertices),
		Faces:    make([]IndexGroup, 0, numFaces),
	}
}

// HasVertexNormals reports whether the mesh carries one normal per vertex.
func (m *Mesh) HasVertexNormals() bool {
	return len(m.Normals) > 0 && len(m.Normals) == len(m.Vertices)
}

// Validate checks every face against the vertex list. A mesh that fails
// validation is malformed and must not be passed downstream.
func (m *Mesh) Validate() error {
	n := uint64(len(m.Vertices))

	for i, f := range m.Faces {
		if !f.Valid() {
			return fmt.Errorf("%w: face %d has %d indices", ErrInvalidArgument, i, f.Count)
		}

		for slot, index := range f.Indices[:f.Count] {
			if uint64(index) >= n {
				return fmt.Errorf("%w: face %d slot %d references vertex %d of %d",
					ErrIndexOutOfRange, i, slot, index, n)
			}
		}
	}

	return nil
}

// IsTriangulated reports whether every face is a triangle.
func (m *Mesh) IsTriangulated() bool {
	for _, f := range m.Faces {
		if f.Count != 3 {
			return false
		}
	}
	return true
}

func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]vec3.T(nil), m.Vertices...),
		Faces:    append([]IndexGroup(nil), m.Faces...),
		Normals:  append([]vec3.T(nil), m.Normals...),
	}
}

// Triangulated returns a new mesh in which every quad (a,b,c,d) is replaced
// by the triangles (a,b,c) and (a,c,d). Vertices and normals are copied.
func (m *Mesh) Triangulated() *Mesh {
	out := m.Clone()
	out.Faces = make([]IndexGroup, 0, len(m.Faces))

	for _, f := range m.Faces {
		if f.Count != 4 {
			out.Faces = append(out.Faces, f)
			continue
		}

		a, b, c, d := f.Indices[0], f.Indices[1], f.Indices[2], f.Indices[3]
		out.Faces = append(out.Faces, Tri(a, b, c), Tri(a, c, d))
	}

	return out
}

// Extend appends src to a mesh that is still under construction and returns
// the index offset applied to src's faces. Per-vertex normals survive only
// if both meshes carry them.
func (m *Mesh) Extend(src *Mesh) uint32 {
	offset := uint32(len(m.Vertices))
	keepNormals := len(m.Normals) == len(m.Vertices) && src.HasVertexNormals()

	m.Vertices = append(m.Vertices, src.Vertices...)
	for _, f := range src.Faces {
		m.Faces = append(m.Faces, f.Offset(offset))
	}

	if keepNormals {
		m.Normals = append(m.Normals, src.Normals...)
	} else {
		m.Normals = nil
	}

	return offset
}

// Bounds is the axis-aligned bounding box of all vertices.
func (m *Mesh) Bounds() BoundingBox {
	var bb BoundingBox
	return *bb.AddRange(m.Vertices)
}

// VertexNormals averages the normals of the faces around each vertex,
// weighted by face area. Vertices touched only by degenerate faces get a
// zero normal. The mesh must be valid.
func (m *Mesh) VertexNormals() []vec3.T {
	normals := make([]vec3.T, len(m.Vertices))

	for _, f := range m.Faces {
		// the unnormalized cross product carries twice the area
		weighted := faceAreaVector(m.Vertices, f)
		for _, index := range f.Indices[:f.Count] {
			normals[index].Add(&weighted)
		}
	}

	for i := range normals {
		if normals[i].Length() > 0 {
			normals[i].Normalize()
		}
	}

	return normals
}

// WithVertexNormals returns a copy of m carrying computed per-vertex normals.
func (m *Mesh) WithVertexNormals() *Mesh {
	out := m.Clone()
	out.Normals = m.VertexNormals()
	return out
}
