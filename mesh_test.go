package strutmesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func unitSquare() *Mesh {
	return &Mesh{
		Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Faces:    []IndexGroup{Quad(0, 1, 2, 3)},
	}
}

func TestIndexGroup(t *testing.T) {
	tri := Tri(1, 2, 3)
	assert.True(t, tri.Valid())
	assert.Equal(t, []uint32{1, 2, 3}, tri.Corners())
	assert.Equal(t, []uint32{11, 12, 13}, tri.Offset(10).Corners())
	assert.Equal(t, uint32(0), tri.Offset(10).Indices[3], "unused slot stays empty")

	quad := Quad(0, 1, 2, 3)
	assert.True(t, quad.Valid())
	assert.Len(t, quad.Corners(), 4)

	assert.False(t, IndexGroup{Count: 2}.Valid())
	assert.False(t, IndexGroup{Indices: [4]uint32{0, 1, 2, 7}, Count: 3}.Valid())
	assert.Nil(t, IndexGroup{Count: 5}.Corners())
}

func TestMeshValidate(t *testing.T) {
	m := unitSquare()
	require.NoError(t, m.Validate())

	m.Faces = append(m.Faces, Tri(0, 1, 4))
	err := m.Validate()
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	m.Faces = []IndexGroup{{Count: 2}}
	assert.ErrorIs(t, m.Validate(), ErrInvalidArgument)
}

func TestMeshTriangulated(t *testing.T) {
	m := unitSquare()
	tris := m.Triangulated()

	assert.True(t, tris.IsTriangulated())
	assert.False(t, m.IsTriangulated(), "input is not modified")
	assert.Equal(t, []IndexGroup{Tri(0, 1, 2), Tri(0, 2, 3)}, tris.Faces)
	assert.Equal(t, m.Vertices, tris.Vertices)

	tris.Vertices[0] = vec3.T{5, 5, 5}
	assert.Equal(t, vec3.T{0, 0, 0}, m.Vertices[0], "vertices are copied")
}

func TestMeshExtend(t *testing.T) {
	a := NewMesh(0, 0)
	offset := a.Extend(unitSquare().Triangulated())
	assert.Equal(t, uint32(0), offset)

	offset = a.Extend(unitSquare().Triangulated())
	assert.Equal(t, uint32(4), offset)

	require.NoError(t, a.Validate())
	assert.Len(t, a.Vertices, 8)
	assert.Equal(t, Tri(4, 5, 6), a.Faces[2])
	assert.Nil(t, a.Normals)
}

func TestMeshExtendKeepsNormals(t *testing.T) {
	src := unitSquare().WithVertexNormals()

	m := NewMesh(0, 0)
	m.Extend(src)
	m.Extend(src)
	assert.Len(t, m.Normals, 8)

	m.Extend(unitSquare())
	assert.Nil(t, m.Normals)
}

func TestVertexNormals(t *testing.T) {
	normals := unitSquare().VertexNormals()
	require.Len(t, normals, 4)

	for _, n := range normals {
		assert.InDelta(t, 0, n[0], 1e-12)
		assert.InDelta(t, 0, n[1], 1e-12)
		assert.InDelta(t, 1, n[2], 1e-12)
	}
}

func TestFaceNormalAndArea(t *testing.T) {
	m := unitSquare()
	assert.Equal(t, vec3.T{0, 0, 1}, FaceNormal(m.Vertices, m.Faces[0]))
	assert.InDelta(t, 1, FaceArea(m.Vertices, m.Faces[0]), 1e-12)
	assert.InDelta(t, 0.5, FaceArea(m.Vertices, Tri(0, 1, 2)), 1e-12)

	line := []vec3.T{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	assert.Equal(t, vec3.Zero, FaceNormal(line, Tri(0, 1, 2)))
}

func TestCollinearAndPlane(t *testing.T) {
	a, b, c := vec3.T{0, 0, 0}, vec3.T{1, 1, 1}, vec3.T{2, 2, 2}
	assert.True(t, ThreePointsAreCollinear(&a, &b, &c, 1e-9))

	d := vec3.T{1, 0, 0}
	assert.False(t, ThreePointsAreCollinear(&a, &b, &d, 1e-9))

	p1, p2, p3 := vec3.T{0, 0, 0}, vec3.T{1, 0, 0}, vec3.T{0, 1, 0}
	pt := vec3.T{3, 4, 2}
	assert.InDelta(t, 2, DistToPlane(&pt, &p1, &p2, &p3), 1e-12)
	assert.True(t, math.IsInf(DistToPlane(&pt, &a, &b, &c), 1))
}

func TestBounds(t *testing.T) {
	var empty BoundingBox
	assert.True(t, empty.Empty())
	assert.True(t, empty.Flat(1e-6))

	bb := unitSquare().Bounds()
	assert.Equal(t, vec3.T{0, 0, 0}, bb.Min)
	assert.Equal(t, vec3.T{1, 1, 0}, bb.Max)
	assert.True(t, bb.Flat(1e-6))

	bb.Add(&vec3.T{0, 0, 3})
	assert.False(t, bb.Flat(1e-6))
	assert.Equal(t, 2, bb.LongestAxis())
	assert.Equal(t, 3.0, bb.AxisLength(2))
	assert.Equal(t, 0.0, bb.AxisLength(7))
}
