package tessellate

import (
	"fmt"

	"github.com/mjkkirschner/strutmesh"
)

// Mapping recovers the vertex id referenced by one slot of one triangle of
// a callback's flat index array. raw is the value found at
// indices[3*triangle+slot].
type Mapping interface {
	VertexID(triangle, slot, raw int) (int, error)
}

// MappingFunc adapts a function to Mapping.
type MappingFunc func(triangle, slot, raw int) (int, error)

func (f MappingFunc) VertexID(triangle, slot, raw int) (int, error) {
	return f(triangle, slot, raw)
}

var (
	// Direct treats raw indices as vertex ids.
	Direct Mapping = MappingFunc(direct)

	// FlatOffset treats raw indices as positions in the flat vertex float
	// array, so vertex id = raw / 3.
	FlatOffset Mapping = MappingFunc(flatOffset)

	// Legacy undoes the per-triangle offset of the render-package layout
	// some hosts produce: slot s of triangle t is stored as
	// id + 2 + 2s + 6t. Whether a given host still packs indices this way
	// has to be checked against its output; the post-condition in
	// Tessellate catches layouts where it does not hold.
	Legacy Mapping = MappingFunc(legacy)
)

func direct(_, _, raw int) (int, error) {
	return raw, nil
}

func flatOffset(triangle, slot, raw int) (int, error) {
	if raw%3 != 0 {
		return 0, fmt.Errorf("%w: triangle %d slot %d: flat offset %d is not a multiple of 3",
			strutmesh.ErrIndexOutOfRange, triangle, slot, raw)
	}
	return raw / 3, nil
}

func legacy(triangle, slot, raw int) (int, error) {
	return raw - (2 + 2*slot + 6*triangle), nil
}
