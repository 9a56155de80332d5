package strutmesh

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Determine if three points form a straight line within a given tolerance for their 2 * squared area
//
//          * p2
//         / \
//        /   \
//       /     \
//      /       \
//     * p1 ---- * p3
//
// The area metric is 2 * the squared norm of the cross product of two edges, requiring no square roots and no divisions
//
// **params**
// + p1
// + p2
// + p3
// + The tolerance
//
// **returns**
// + Whether the triangle passes the test
//
func ThreePointsAreCollinear(p1, p2, p3 *vec3.T, tol float64) bool {
	p2mp1 := vec3.Sub(p2, p1)
	p3mp1 := vec3.Sub(p3, p1)
	norm := vec3.Cross(&p2mp1, &p3mp1)
	area := vec3.Dot(&norm, &norm)

	return area < tol
}

// DistToPlane is the unsigned distance from pt to the plane through p1, p2
// and p3. It returns +Inf when the three points are collinear.
func DistToPlane(pt, p1, p2, p3 *vec3.T) float64 {
	p2mp1 := vec3.Sub(p2, p1)
	p3mp1 := vec3.Sub(p3, p1)
	norm := vec3.Cross(&p2mp1, &p3mp1)

	l := norm.Length()
	if l == 0 {
		return math.Inf(1)
	}

	ptmp1 := vec3.Sub(pt, p1)
	return math.Abs(vec3.Dot(&ptmp1, &norm)) / l
}
