package obj

import (
	"bytes"
	"errors"
	"image/color"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mjkkirschner/strutmesh"
	"github.com/mjkkirschner/strutmesh/strut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

var fixedClock = WithClock(func() time.Time {
	return time.Date(2024, time.March, 9, 14, 5, 30, 0, time.UTC)
})

var triangle = &strutmesh.Mesh{
	Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1.5, -2}},
	Faces:    []strutmesh.IndexGroup{strutmesh.Tri(0, 1, 2)},
}

func encode(t *testing.T, name string, meshes []*strutmesh.Mesh, groups ...Group) string {
	t.Helper()

	var buf bytes.Buffer
	e := NewEncoder(&buf, name, fixedClock)
	for _, m := range meshes {
		require.NoError(t, e.Encode(m, groups...))
	}
	require.NoError(t, e.Flush())

	return buf.String()
}

func TestEncodeExact(t *testing.T) {
	got := encode(t, "tri", []*strutmesh.Mesh{triangle})

	want := `# tri.obj
# 2024-03-09 / 14:05:30

v 0 0 0
v 1 0 0
v 0 1.5 -2

vt 0 0
vt 1 0
vt 0 1.5

usemtl default
usemap default
f 1/1 2/2 3/3
g tri
`
	assert.Equal(t, want, got)
}

func TestEncodeNormals(t *testing.T) {
	flat := &strutmesh.Mesh{
		Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:    []strutmesh.IndexGroup{strutmesh.Tri(0, 1, 2)},
	}
	got := encode(t, "tri", []*strutmesh.Mesh{flat.WithVertexNormals()}, Group{Color: "ff0000"})

	assert.Equal(t, []string{"vn 0 0 1", "vn 0 0 1", "vn 0 0 1"}, lines(got, "vn "))
	assert.Contains(t, got, "\nusemtl ff0000\nusemap ff0000\nf 1/1/1 2/2/2 3/3/3\n")
}

func lines(s, prefix string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.HasPrefix(l, prefix) {
			out = append(out, l)
		}
	}
	return out
}

func TestEncodeShapeInvariants(t *testing.T) {
	g, err := strut.NewGenerator(0.5, 5)
	require.NoError(t, err)

	chunks, err := g.Batch(
		[]vec3.T{{0, 0, 0}, {3, 0, 0}, {0, 3, 0}},
		[]vec3.T{{0, 0, 4}, {3, 1, 4}, {1, 3, 2}},
		3,
	)
	require.NoError(t, err)
	m := chunks[0].Mesh

	groups := []Group{
		{Color: ColorID(color.RGBA{R: 0xc0, G: 0x10, B: 0x2a, A: 0xff})},
		{Color: "secondary"},
	}
	out := encode(t, "struts", []*strutmesh.Mesh{m}, groups...)

	v := len(m.Vertices)
	assert.Len(t, lines(out, "v "), v)
	assert.Len(t, lines(out, "vn "), v)
	assert.Len(t, lines(out, "vt "), v)
	assert.Len(t, lines(out, "usemtl "), 2)

	faces := lines(out, "f ")
	assert.Len(t, faces, len(groups)*len(m.Faces), "every face once per group")

	for _, f := range faces {
		for _, corner := range strings.Fields(f)[1:] {
			for _, ref := range strings.Split(corner, "/") {
				i, err := strconv.Atoi(ref)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, i, 1)
				assert.LessOrEqual(t, i, v)
			}
		}
	}

	assert.Contains(t, out, "usemtl c0102a\n")
}

func TestEncodeGroupSubsets(t *testing.T) {
	square := &strutmesh.Mesh{
		Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Faces:    []strutmesh.IndexGroup{strutmesh.Quad(0, 1, 2, 3)},
	}

	_, err := Marshal("sq", square)
	assert.ErrorIs(t, err, ErrNotTriangulated)

	tris := square.Triangulated()
	out, err := Marshal("sq", tris, Group{Color: "red", Faces: []int{1}}, Group{Color: "blue", Faces: []int{0}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "usemtl red\nusemap red\nf 1/1 3/3 4/4\n")
	assert.Contains(t, string(out), "usemtl blue\nusemap blue\nf 1/1 2/2 3/3\n")

	_, err = Marshal("sq", tris, Group{Color: "red", Faces: []int{2}})
	assert.ErrorIs(t, err, strutmesh.ErrIndexOutOfRange)
}

func TestEncodeRejectsInvalid(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf, "bad", fixedClock)

	bad := &strutmesh.Mesh{
		Vertices: []vec3.T{{0, 0, 0}},
		Faces:    []strutmesh.IndexGroup{strutmesh.Tri(0, 1, 2)},
	}
	assert.ErrorIs(t, e.Encode(bad), strutmesh.ErrIndexOutOfRange)

	lopsided := triangle.Clone()
	lopsided.Normals = []vec3.T{{0, 0, 1}}
	assert.ErrorIs(t, e.Encode(lopsided), strutmesh.ErrInvalidArgument)

	assert.ErrorIs(t, e.Encode(nil), strutmesh.ErrInvalidArgument)

	require.NoError(t, e.Flush())
	assert.Empty(t, buf.String(), "nothing is written for rejected meshes")
}

func TestEncoderStreamsChunks(t *testing.T) {
	second := &strutmesh.Mesh{
		Vertices: []vec3.T{{5, 5, 5}, {6, 5, 5}, {5, 6, 5}, {5, 5, 6}},
		Faces:    []strutmesh.IndexGroup{strutmesh.Tri(0, 1, 2), strutmesh.Tri(0, 2, 3)},
	}

	out := encode(t, "chunks", []*strutmesh.Mesh{triangle, second})

	assert.Len(t, lines(out, "# "), 2, "header is written once")
	assert.Len(t, lines(out, "v "), 7)
	assert.Equal(t, []string{"f 1/1 2/2 3/3", "f 4/4 5/5 6/6", "f 4/4 6/6 7/7"}, lines(out, "f "))

	doc, err := Decode(strings.NewReader(out))
	require.NoError(t, err)
	require.NoError(t, doc.Mesh.Validate())
	assert.Equal(t, []string{"chunks", "chunks"}, doc.Names)

	for i, f := range doc.Mesh.Faces[1:] {
		got := []vec3.T{doc.Mesh.Vertices[f.Indices[0]], doc.Mesh.Vertices[f.Indices[1]], doc.Mesh.Vertices[f.Indices[2]]}
		src := second.Faces[i]
		want := []vec3.T{second.Vertices[src.Indices[0]], second.Vertices[src.Indices[1]], second.Vertices[src.Indices[2]]}
		assert.Equal(t, want, got, "face %d resolves to the same corners", i)
	}
}

func TestEncoderDropsNormalsOnceMixed(t *testing.T) {
	out := encode(t, "mixed", []*strutmesh.Mesh{triangle, triangle.WithVertexNormals()})

	assert.Empty(t, lines(out, "vn "))
	assert.Equal(t, []string{"f 1/1 2/2 3/3", "f 4/4 5/5 6/6"}, lines(out, "f "))
}

func TestDecodeRoundTrip(t *testing.T) {
	g, err := strut.NewGenerator(1, 4)
	require.NoError(t, err)
	m, err := g.Generate(vec3.T{0, 0, 0}, vec3.T{0, 0, 10})
	require.NoError(t, err)

	out, err := Marshal("strut", m, Group{Color: "a"}, Group{Color: "b", Faces: []int{0, 3}})
	require.NoError(t, err)

	doc, err := Decode(bytes.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, m.Vertices, doc.Mesh.Vertices)
	assert.Equal(t, m.Normals, doc.Mesh.Normals)
	assert.Equal(t, len(m.Vertices), doc.TexCoords)
	assert.Equal(t, m.Faces, doc.Mesh.Faces[:len(m.Faces)])
	assert.Equal(t, []string{"strut"}, doc.Names)
	require.Len(t, doc.Comments, 2)
	assert.Equal(t, "strut.obj", doc.Comments[0])

	require.Len(t, doc.Groups, 2)
	assert.Equal(t, "a", doc.Groups[0].Color)
	assert.Len(t, doc.Groups[0].Faces, len(m.Faces))
	assert.Equal(t, "b", doc.Groups[1].Color)
	assert.Equal(t, []int{len(m.Faces), len(m.Faces) + 1}, doc.Groups[1].Faces)
}

func TestDecodeForms(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1//1 3//3 4//4
f -4/1 -3/2 -2/3 -1/4
o ignored
`
	doc, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []strutmesh.IndexGroup{
		strutmesh.Tri(0, 1, 2),
		strutmesh.Tri(0, 2, 3),
		strutmesh.Quad(0, 1, 2, 3),
	}, doc.Mesh.Faces)
	require.Len(t, doc.Groups, 1)
	assert.Equal(t, DefaultColor, doc.Groups[0].Color)
}

func TestDecodeErrors(t *testing.T) {
	for _, src := range []string{
		"v 1 2\n",
		"v a b c\n",
		"v 0 0 0\nf 1 2 3\n",
		"v 0 0 0\nf 1 1\n",
		"usemtl\n",
	} {
		_, err := Decode(strings.NewReader(src))
		assert.ErrorIs(t, err, strutmesh.ErrInvalidArgument, "%q", src)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEncoderWriteError(t *testing.T) {
	e := NewEncoder(failingWriter{}, "x", fixedClock)
	require.NoError(t, e.Encode(triangle), "buffered")
	assert.EqualError(t, e.Flush(), "disk full")
	assert.EqualError(t, e.Encode(triangle), "disk full")
}

func TestColor(t *testing.T) {
	assert.Equal(t, "ff8000", ColorID(color.RGBA{R: 0xff, G: 0x80, A: 0xff}))
	assert.Equal(t, "000000", ColorID(color.Black))

	c, err := ParseColor("#C0102A")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xc0, G: 0x10, B: 0x2a, A: 0xff}, c)
	assert.Equal(t, "c0102a", ColorID(c))

	_, err = ParseColor("red")
	assert.ErrorIs(t, err, strutmesh.ErrInvalidArgument)
	_, err = ParseColor("gg0000")
	assert.ErrorIs(t, err, strutmesh.ErrInvalidArgument)
}
