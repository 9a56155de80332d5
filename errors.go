package strutmesh

import "errors"

// Error taxonomy shared by every stage of the pipeline. Callers match with
// errors.Is; producers wrap with fmt.Errorf("%w: ...").
var (
	// ErrInvalidArgument reports malformed parameters such as a non-positive
	// chunk size or radius. It is fatal to the call that returned it.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDegenerateGeometry reports a zero-length segment or a zero-size
	// request. It is scoped to one element; the caller decides whether to
	// skip it or abort.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrIndexOutOfRange reports a face referencing a vertex beyond the
	// vertex buffer.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrFaceConstructionFailed reports that the geometry host rejected a
	// single face.
	ErrFaceConstructionFailed = errors.New("face construction failed")

	// ErrBuildInfeasible reports that the geometry host cannot realize the
	// requested representation at all.
	ErrBuildInfeasible = errors.New("build infeasible")
)
