package internal

const (
	// Tolerance is the default geometric tolerance used for area and
	// planarity tests.
	Tolerance = 1e-6

	// Epsilon is the smallest length treated as non-zero.
	Epsilon = 1e-10
)
