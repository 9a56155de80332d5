package build

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/mjkkirschner/strutmesh"
	"github.com/ungerik/go3d/float64/vec3"
)

// ErrInvalidState is returned when Builder methods are called out of order.
var ErrInvalidState = fmt.Errorf("%w: invalid builder state", strutmesh.ErrInvalidArgument)

// State is the lifecycle position of a Builder.
type State int

const (
	StateIdle State = iota
	StateOpen
	StateAccumulating
	StateClosed
	StateBuilt
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpen:
		return "open"
	case StateAccumulating:
		return "accumulating"
	case StateClosed:
		return "closed"
	case StateBuilt:
		return "built"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Builder accumulates one connected face set and builds it into shapes.
// A Builder is not safe for concurrent use.
type Builder struct {
	host   Host
	logger *slog.Logger
	name   string

	state    State
	vertices []vec3.T
	faces    []Face
	added    int
	failures []FaceResult
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for rejected faces and fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithName labels log records and the Result.
func WithName(name string) Option {
	return func(b *Builder) {
		b.name = name
	}
}

func NewBuilder(host Host, opts ...Option) *Builder {
	b := &Builder{host: host, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	if b.name != "" {
		b.logger = b.logger.With("name", b.name)
	}
	return b
}

func (b *Builder) State() State {
	return b.state
}

func (b *Builder) invalid(op string, want ...State) error {
	return fmt.Errorf("%w: %s while %s, want %v", ErrInvalidState, op, b.state, want)
}

// Open begins a face set over vertices. A built Builder may be opened again.
// vertices are read, never modified.
func (b *Builder) Open(vertices []vec3.T) error {
	if b.state != StateIdle && b.state != StateBuilt {
		return b.invalid("open", StateIdle, StateBuilt)
	}
	if b.host == nil {
		return fmt.Errorf("%w: builder has no host", strutmesh.ErrInvalidArgument)
	}

	b.vertices = vertices
	b.faces = nil
	b.added = 0
	b.failures = nil
	b.state = StateOpen
	return nil
}

// AddFace resolves g against the open vertices and asks the host to
// construct it. A rejected face is counted and reported, never fatal.
func (b *Builder) AddFace(g strutmesh.IndexGroup) FaceResult {
	if b.state != StateOpen && b.state != StateAccumulating {
		return FaceResult{Face: -1, Indices: g, Err: b.invalid("add face", StateOpen, StateAccumulating)}
	}

	res := FaceResult{Face: b.added, Indices: g}
	b.added++
	b.state = StateAccumulating

	corners, err := b.corners(g)
	if err == nil {
		var face Face
		face, err = b.host.BuildFace(corners)
		if err != nil {
			release(face)
			err = fmt.Errorf("%w: %w", strutmesh.ErrFaceConstructionFailed, err)
		} else {
			b.faces = append(b.faces, face)
		}
	}

	if err != nil {
		res.Err = err
		b.failures = append(b.failures, res)
		b.logger.Debug("face rejected", "face", res.Face, "corners", corners, "err", err)
	}

	return res
}

func (b *Builder) corners(g strutmesh.IndexGroup) ([]vec3.T, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: face has %d corners", strutmesh.ErrInvalidArgument, g.Count)
	}

	corners := make([]vec3.T, 0, g.Count)
	for slot, i := range g.Corners() {
		if int(i) >= len(b.vertices) {
			return nil, fmt.Errorf("%w: slot %d references vertex %d of %d",
				strutmesh.ErrIndexOutOfRange, slot, i, len(b.vertices))
		}
		corners = append(corners, b.vertices[i])
	}

	return corners, nil
}

// Close ends the face set.
func (b *Builder) Close() error {
	if b.state != StateOpen && b.state != StateAccumulating {
		return b.invalid("close", StateOpen, StateAccumulating)
	}
	b.state = StateClosed
	return nil
}

// Build realizes the closed face set as target, applying fallback if the
// host reports target as infeasible. Face failures only show up in the
// Result; an error means the arguments were invalid or no representation
// could be realized. Faces are released before Build returns.
func (b *Builder) Build(target Target, fallback Fallback) (*Result, error) {
	if b.state != StateClosed {
		return nil, b.invalid("build", StateClosed)
	}
	if !target.valid() {
		return nil, fmt.Errorf("%w: unknown build target %d", strutmesh.ErrInvalidArgument, int(target))
	}
	if !fallback.valid() {
		return nil, fmt.Errorf("%w: unknown build fallback %d", strutmesh.ErrInvalidArgument, int(fallback))
	}

	faces := b.faces
	defer func() {
		releaseFaces(faces)
		b.faces = nil
		b.vertices = nil
		b.state = StateBuilt
	}()

	res := &Result{
		Name:      b.name,
		Succeeded: len(faces),
		Failed:    len(b.failures),
		Requested: target,
		Target:    target,
		Failures:  b.failures,
	}

	if b.added == 0 && target == Solid {
		return nil, fmt.Errorf("%w: solid target needs at least one face", strutmesh.ErrInvalidArgument)
	}
	if len(faces) == 0 {
		if b.added > 0 {
			b.logger.Warn("every face was rejected", "failed", res.Failed)
		}
		if target == Solid {
			return nil, fmt.Errorf("%w: no face could be constructed for a solid", strutmesh.ErrBuildInfeasible)
		}
		return res, nil
	}

	objects, err := b.host.Realize(faces, target)
	if err == nil {
		res.Objects = objects
		return res, nil
	}
	releaseShapes(objects)
	if !errors.Is(err, strutmesh.ErrBuildInfeasible) {
		return nil, fmt.Errorf("build: realize %s: %w", target, err)
	}

	b.logger.Warn("target infeasible", "target", target, "fallback", fallback, "err", err)

	switch fallback {
	case DegradeToMesh:
		if target == Mesh {
			return nil, err
		}

		objects, err = b.host.Realize(faces, Mesh)
		if err != nil {
			releaseShapes(objects)
			return nil, fmt.Errorf("build: degrade %s to mesh: %w", target, err)
		}

		res.Objects = objects

	case Salvage:
		for i := range faces {
			shapes, ferr := b.host.Realize(faces[i:i+1:i+1], Mesh)
			if ferr != nil {
				releaseShapes(shapes)
				b.logger.Debug("face not salvaged", "face", i, "err", ferr)
				continue
			}

			res.Objects = append(res.Objects, shapes...)
			res.Salvaged++
		}

		if res.Salvaged == 0 {
			return nil, fmt.Errorf("build: salvage %s: %w", target, err)
		}
		b.logger.Info("salvaged faces", "salvaged", res.Salvaged, "of", len(faces))

	default:
		return nil, err
	}

	res.Target = Mesh
	res.Degraded = true
	return res, nil
}

// Release drops any faces accumulated by an unfinished build and returns
// the Builder to idle.
func (b *Builder) Release() {
	releaseFaces(b.faces)
	b.faces = nil
	b.vertices = nil
	b.failures = nil
	b.added = 0
	b.state = StateIdle
}

// BuildMesh runs one full Open/AddFace/Close/Build cycle over mesh.
func BuildMesh(host Host, mesh *strutmesh.Mesh, target Target, fallback Fallback, opts ...Option) (*Result, error) {
	if mesh == nil {
		return nil, fmt.Errorf("%w: nil mesh", strutmesh.ErrInvalidArgument)
	}
	return buildGroups(host, mesh.Vertices, mesh.Faces, target, fallback, opts)
}

// BuildFaces is BuildMesh for raw face lists. Negative indices and faces
// without 3 or 4 corners are rejected before anything is built.
func BuildFaces(host Host, vertices []vec3.T, faces [][]int, target Target, fallback Fallback, opts ...Option) (*Result, error) {
	groups := make([]strutmesh.IndexGroup, len(faces))
	for fi, face := range faces {
		if len(face) != 3 && len(face) != 4 {
			return nil, fmt.Errorf("%w: face %d has %d corners", strutmesh.ErrInvalidArgument, fi, len(face))
		}

		var g strutmesh.IndexGroup
		g.Count = len(face)
		for slot, i := range face {
			if i < 0 {
				return nil, fmt.Errorf("%w: face %d slot %d has negative index %d",
					strutmesh.ErrInvalidArgument, fi, slot, i)
			}
			if uint64(i) > math.MaxUint32 {
				i = math.MaxUint32
			}
			g.Indices[slot] = uint32(i)
		}
		groups[fi] = g
	}

	return buildGroups(host, vertices, groups, target, fallback, opts)
}

func buildGroups(host Host, vertices []vec3.T, groups []strutmesh.IndexGroup, target Target, fallback Fallback, opts []Option) (*Result, error) {
	b := NewBuilder(host, opts...)
	if err := b.Open(vertices); err != nil {
		return nil, err
	}

	for _, g := range groups {
		b.AddFace(g)
	}

	if err := b.Close(); err != nil {
		b.Release()
		return nil, err
	}

	return b.Build(target, fallback)
}
