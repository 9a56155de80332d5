package strutmesh

import "github.com/ungerik/go3d/float64/vec3"

//
// Get the unit normal of a face
//
// **params**
// + the vertex list the face indexes into
// + a triangle or quad
//
// **returns**
// + the normal, or the zero vector for a degenerate face
//
func FaceNormal(points []vec3.T, f IndexGroup) vec3.T {
	n := faceAreaVector(points, f)
	if n.Length() == 0 {
		return vec3.Zero
	}

	return *n.Normalize()
}

// FaceArea is the area of a triangle, or of a quad measured through its
// diagonals.
func FaceArea(points []vec3.T, f IndexGroup) float64 {
	n := faceAreaVector(points, f)
	return n.Length() / 2
}

// faceAreaVector is normal to the face with a length of twice its area.
func faceAreaVector(points []vec3.T, f IndexGroup) vec3.T {
	v0 := points[f.Indices[0]]
	v1 := points[f.Indices[1]]
	v2 := points[f.Indices[2]]

	if f.Count == 4 {
		v3 := points[f.Indices[3]]

		// the cross product of the diagonals
		d0 := vec3.Sub(&v2, &v0)
		d1 := vec3.Sub(&v3, &v1)
		return vec3.Cross(&d0, &d1)
	}

	v1.Sub(&v0)
	v2.Sub(&v0)
	return vec3.Cross(&v1, &v2)
}
