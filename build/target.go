package build

import (
	"fmt"
	"strings"

	"github.com/mjkkirschner/strutmesh"
)

// Target is the representation a Build asks the host to realize.
type Target int

const (
	// AnyGeometry lets the host pick the richest representation it can
	// realize.
	AnyGeometry Target = iota

	// Solid requires a closed solid.
	Solid

	// Mesh requires only a plain polygon mesh.
	Mesh
)

var targetNames = [...]string{
	AnyGeometry: "any",
	Solid:       "solid",
	Mesh:        "mesh",
}

func (t Target) String() string {
	if t < 0 || int(t) >= len(targetNames) {
		return fmt.Sprintf("Target(%d)", int(t))
	}
	return targetNames[t]
}

func (t Target) valid() bool {
	return t >= 0 && int(t) < len(targetNames)
}

// ParseTarget accepts the names printed by Target.String, case-insensitively.
func ParseTarget(s string) (Target, error) {
	for i, name := range targetNames {
		if strings.EqualFold(s, name) {
			return Target(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown build target %q", strutmesh.ErrInvalidArgument, s)
}

func (t Target) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: unknown build target %d", strutmesh.ErrInvalidArgument, int(t))
	}
	return []byte(t.String()), nil
}

func (t *Target) UnmarshalText(text []byte) error {
	v, err := ParseTarget(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Fallback is what Build does when the host reports the target as
// infeasible.
type Fallback int

const (
	// Abort returns the infeasibility error.
	Abort Fallback = iota

	// DegradeToMesh realizes the whole face set as a Mesh instead.
	DegradeToMesh

	// Salvage realizes faces one at a time as meshes and keeps whatever
	// the host accepts.
	Salvage
)

var fallbackNames = [...]string{
	Abort:         "abort",
	DegradeToMesh: "mesh",
	Salvage:       "salvage",
}

func (f Fallback) String() string {
	if f < 0 || int(f) >= len(fallbackNames) {
		return fmt.Sprintf("Fallback(%d)", int(f))
	}
	return fallbackNames[f]
}

func (f Fallback) valid() bool {
	return f >= 0 && int(f) < len(fallbackNames)
}

// ParseFallback accepts the names printed by Fallback.String,
// case-insensitively.
func ParseFallback(s string) (Fallback, error) {
	for i, name := range fallbackNames {
		if strings.EqualFold(s, name) {
			return Fallback(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown build fallback %q", strutmesh.ErrInvalidArgument, s)
}

func (f Fallback) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: unknown build fallback %d", strutmesh.ErrInvalidArgument, int(f))
	}
	return []byte(f.String()), nil
}

func (f *Fallback) UnmarshalText(text []byte) error {
	v, err := ParseFallback(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
