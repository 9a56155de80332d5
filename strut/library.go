package strut

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/mjkkirschner/strutmesh"
	"github.com/mjkkirschner/strutmesh/internal"
	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"
	"github.com/ungerik/go3d/float64/vec4"
)

// MinPrototypeLength is the shortest prototype a Library builds; struts whose
// length rounds below it share a prototype of this length.
const MinPrototypeLength = 0.01

// Library groups struts by rounded length so that each distinct length is
// meshed once and every strut becomes a placement of that prototype.
type Library struct {
	Precision int

	gen     *Generator
	entries map[string]*Entry
}

// Entry is one distinct strut length: a prototype along +Z from the origin
// and the transforms placing it onto each strut.
type Entry struct {
	Key        string
	Length     float64
	Prototype  *strutmesh.Mesh
	Placements []mat4.T
}

// NewLibrary keys struts by their length rounded to precision decimals.
func NewLibrary(gen *Generator, precision int) (*Library, error) {
	if err := gen.check(); err != nil {
		return nil, err
	}
	if precision < 0 {
		return nil, fmt.Errorf("%w: library precision must not be negative, got %d",
			strutmesh.ErrInvalidArgument, precision)
	}

	return &Library{Precision: precision, gen: gen, entries: make(map[string]*Entry)}, nil
}

// Key is the library key for a strut of the given length.
func (l *Library) Key(length float64) string {
	return strconv.FormatFloat(l.round(length), 'f', l.Precision, 64)
}

func (l *Library) round(length float64) float64 {
	scale := math.Pow(10, float64(l.Precision))
	return math.Round(length*scale) / scale
}

// Add records the strut start -> end, creating its prototype on first use.
func (l *Library) Add(start, end vec3.T) (*Entry, error) {
	placement, err := Placement(start, end)
	if err != nil {
		return nil, err
	}

	length := vec3.Distance(&start, &end)
	key := l.Key(length)

	entry, ok := l.entries[key]
	if !ok {
		protoLength := math.Max(l.round(length), MinPrototypeLength)

		proto, err := l.gen.Generate(vec3.Zero, vec3.T{0, 0, protoLength})
		if err != nil {
			return nil, err
		}

		entry = &Entry{Key: key, Length: protoLength, Prototype: proto}
		l.entries[key] = entry
	}

	entry.Placements = append(entry.Placements, placement)
	return entry, nil
}

// Len is the number of distinct keys.
func (l *Library) Len() int {
	return len(l.entries)
}

// Entries returns all entries ordered by length.
func (l *Library) Entries() []*Entry {
	entries := make([]*Entry, 0, len(l.entries))
	for _, e := range l.entries {
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Length != entries[j].Length {
			return entries[i].Length < entries[j].Length
		}
		return entries[i].Key < entries[j].Key
	})

	return entries
}

func (e *Entry) Count() int {
	return len(e.Placements)
}

// Instance returns the prototype moved by placement i as a new mesh.
func (e *Entry) Instance(i int) (*strutmesh.Mesh, error) {
	if i < 0 || i >= len(e.Placements) {
		return nil, fmt.Errorf("%w: instance %d of %d", strutmesh.ErrIndexOutOfRange, i, len(e.Placements))
	}

	placement := e.Placements[i]
	rotation := placement
	rotation[3] = vec4.T{0, 0, 0, 1}

	out := e.Prototype.Clone()
	for j := range out.Vertices {
		out.Vertices[j] = placement.MulVec3(&out.Vertices[j])
	}
	for j := range out.Normals {
		out.Normals[j] = rotation.MulVec3(&out.Normals[j])
	}

	return out, nil
}

// Placement is the rigid transform taking the +Z axis from the origin onto
// the segment start -> end: rotation columns from the segment's frame and a
// translation to start.
func Placement(start, end vec3.T) (mat4.T, error) {
	frame, ok := internal.NewFrame(vec3.Sub(&end, &start))
	if !ok || start == end {
		return mat4.T{}, fmt.Errorf("%w: strut from %v to %v has no length", strutmesh.ErrDegenerateGeometry, start, end)
	}

	x, y, z := frame.XAxis, frame.YAxis, frame.Normal
	return mat4.T{
		{x[0], x[1], x[2], 0},
		{y[0], y[1], y[2], 0},
		{z[0], z[1], z[2], 0},
		{start[0], start[1], start[2], 1},
	}, nil
}
