// Package obj writes indexed meshes as Wavefront OBJ text and reads that
// text back.
package obj

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mjkkirschner/strutmesh"
	"github.com/ungerik/go3d/float64/vec3"
)

// ErrNotTriangulated is returned for meshes that still contain quads.
var ErrNotTriangulated = errors.New("mesh is not triangulated")

// DefaultColor names the material of faces encoded without a Group.
const DefaultColor = "default"

// Group is a set of faces sharing one material. A nil Faces selects every
// face of the mesh.
type Group struct {
	Color string
	Faces []int
}

// Encoder streams meshes into one OBJ document. Successive Encode calls
// append chunks whose face indices continue after the vertices already
// written.
type Encoder struct {
	w     *bufio.Writer
	name  string
	clock func() time.Time

	started  bool
	vertices int
	normals  int
	err      error
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithClock sets the time source for the header.
func WithClock(now func() time.Time) Option {
	return func(e *Encoder) {
		e.clock = now
	}
}

func NewEncoder(w io.Writer, name string, opts ...Option) *Encoder {
	e := &Encoder{w: bufio.NewWriter(w), name: name, clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Vertices is the number of vertices written so far.
func (e *Encoder) Vertices() int {
	return e.vertices
}

// Encode appends mesh, writing its faces once per group. With no groups
// every face is written under DefaultColor. Nothing is written if mesh or
// groups are invalid.
func (e *Encoder) Encode(mesh *strutmesh.Mesh, groups ...Group) error {
	if e.err != nil {
		return e.err
	}
	if err := check(mesh, groups); err != nil {
		return err
	}
	if len(groups) == 0 {
		groups = []Group{{Color: DefaultColor}}
	}

	if !e.started {
		e.header()
		e.started = true
	}

	var buf []byte
	for _, v := range mesh.Vertices {
		buf = appendVec(append(buf[:0], 'v'), v)
		e.line(buf)
	}

	// vn lines are indexed like v lines, so normals are kept only while
	// every chunk so far has had them
	normals := mesh.HasVertexNormals() && e.normals == e.vertices
	if normals {
		e.blank()
		for _, n := range mesh.Normals {
			buf = appendVec(append(buf[:0], "vn"...), n)
			e.line(buf)
		}
	}

	e.blank()
	for _, v := range mesh.Vertices {
		buf = append(buf[:0], "vt "...)
		buf = strconv.AppendFloat(buf, v[0], 'g', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, v[1], 'g', -1, 64)
		e.line(buf)
	}

	for _, g := range groups {
		c := g.Color
		if c == "" {
			c = DefaultColor
		}

		e.blank()
		e.line(append(append(buf[:0], "usemtl "...), c...))
		e.line(append(append(buf[:0], "usemap "...), c...))

		if g.Faces == nil {
			for _, f := range mesh.Faces {
				buf = e.appendFace(buf[:0], f, normals)
				e.line(buf)
			}
			continue
		}
		for _, fi := range g.Faces {
			buf = e.appendFace(buf[:0], mesh.Faces[fi], normals)
			e.line(buf)
		}
	}

	e.line(append(append(buf[:0], "g "...), e.name...))
	e.vertices += len(mesh.Vertices)
	if normals {
		e.normals += len(mesh.Normals)
	}

	return e.err
}

func check(mesh *strutmesh.Mesh, groups []Group) error {
	if mesh == nil {
		return fmt.Errorf("%w: nil mesh", strutmesh.ErrInvalidArgument)
	}
	if err := mesh.Validate(); err != nil {
		return err
	}
	if !mesh.IsTriangulated() {
		return ErrNotTriangulated
	}
	if len(mesh.Normals) > 0 && !mesh.HasVertexNormals() {
		return fmt.Errorf("%w: %d normals for %d vertices",
			strutmesh.ErrInvalidArgument, len(mesh.Normals), len(mesh.Vertices))
	}

	for gi, g := range groups {
		for _, fi := range g.Faces {
			if fi < 0 || fi >= len(mesh.Faces) {
				return fmt.Errorf("%w: group %d references face %d of %d",
					strutmesh.ErrIndexOutOfRange, gi, fi, len(mesh.Faces))
			}
		}
	}

	return nil
}

func (e *Encoder) header() {
	now := e.clock()
	fmt.Fprintf(e.w, "# %s.obj\n# %s / %s\n\n", e.name, now.Format("2006-01-02"), now.Format("15:04:05"))
}

func (e *Encoder) appendFace(buf []byte, f strutmesh.IndexGroup, normals bool) []byte {
	buf = append(buf, 'f')
	for _, i := range f.Indices[:3] {
		idx := int64(e.vertices) + int64(i) + 1

		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, idx, 10)
		buf = append(buf, '/')
		buf = strconv.AppendInt(buf, idx, 10)
		if normals {
			buf = append(buf, '/')
			buf = strconv.AppendInt(buf, idx, 10)
		}
	}
	return buf
}

func appendVec(buf []byte, v vec3.T) []byte {
	for _, x := range v {
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, x, 'g', -1, 64)
	}
	return buf
}

func (e *Encoder) line(b []byte) {
	if e.err != nil {
		return
	}
	if _, err := e.w.Write(b); err != nil {
		e.err = err
		return
	}
	e.err = e.w.WriteByte('\n')
}

func (e *Encoder) blank() {
	e.line(nil)
}

// Flush writes any buffered text to the underlying writer.
func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	e.err = e.w.Flush()
	return e.err
}

// Marshal encodes a single mesh as a complete OBJ document.
func Marshal(name string, mesh *strutmesh.Mesh, groups ...Group) ([]byte, error) {
	var buf bytes.Buffer

	e := NewEncoder(&buf, name)
	if err := e.Encode(mesh, groups...); err != nil {
		return nil, err
	}
	if err := e.Flush(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
