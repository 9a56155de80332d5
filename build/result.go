package build

import (
	"fmt"

	"github.com/mjkkirschner/strutmesh"
)

// FaceResult is the outcome of one AddFace call.
type FaceResult struct {
	// Face is the position of the face in the order it was added.
	Face    int
	Indices strutmesh.IndexGroup

	// Err is nil when the host accepted the face. Otherwise it wraps
	// strutmesh.ErrIndexOutOfRange, strutmesh.ErrInvalidArgument,
	// strutmesh.ErrFaceConstructionFailed or ErrInvalidState.
	Err error
}

func (r FaceResult) OK() bool {
	return r.Err == nil
}

func (r FaceResult) String() string {
	if r.Err == nil {
		return fmt.Sprintf("face %d %v: ok", r.Face, r.Indices.Corners())
	}
	return fmt.Sprintf("face %d %v: %v", r.Face, r.Indices.Corners(), r.Err)
}

// Result is the outcome of Builder.Build. It is not modified after Build
// returns it.
type Result struct {
	Name string

	// Succeeded and Failed count the faces the host accepted and rejected.
	Succeeded int
	Failed    int

	// Objects are the shapes realized by the host, in host order.
	Objects []Shape

	// Requested is the target passed to Build; Target is the one the
	// objects were actually realized as.
	Requested Target
	Target    Target

	// Degraded reports that the requested target was infeasible and a
	// fallback produced Objects.
	Degraded bool

	// Salvaged is the number of faces kept by the Salvage fallback.
	Salvaged int

	// Failures lists the rejected faces.
	Failures []FaceResult
}

// Faces is the number of faces offered to the builder.
func (r *Result) Faces() int {
	return r.Succeeded + r.Failed
}

func (r *Result) String() string {
	s := fmt.Sprintf("%d faces ok, %d failed, %d objects (%s)", r.Succeeded, r.Failed, len(r.Objects), r.Target)
	if r.Degraded {
		s += fmt.Sprintf(", degraded from %s", r.Requested)
	}
	return s
}
