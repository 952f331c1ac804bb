package uvalign

import "github.com/go-gl/mathgl/mgl64"

// DegenerateEpsilon is the squared UV length at or below which an island's
// longest edge is treated as zero length.
const DegenerateEpsilon = 1e-20

// Edge is a directed UV edge from one loop to the next loop of its face.
type Edge struct {
	From, To mgl64.Vec2
}

func (e Edge) LenSqr() float64 {
	return lenSqr2(e.To.Sub(e.From))
}

// Angle returns the direction of the edge in radians.
func (e Edge) Angle() float64 {
	return VectorAngle2(e.To.Sub(e.From))
}

// LongestEdge returns the longest distinct UV edge of the island together with
// its squared length. Edges shared by two faces are considered once. On ties
// the first edge in face then loop order wins. An island without edges yields
// a squared length of -1.
func LongestEdge(acc Accessor, island Island) (Edge, float64) {
	best := Edge{To: mgl64.Vec2{1, 0}}
	bestSq := -1.0
	seen := make(map[EdgeKey]struct{})
	for _, f := range island.Faces {
		forEachEdge(acc, f, func(a, b mgl64.Vec2) {
			k := NewEdgeKey(a, b, 0)
			if _, ok := seen[k]; ok {
				return
			}
			seen[k] = struct{}{}
			e := Edge{From: a, To: b}
			if sq := e.LenSqr(); sq > bestSq {
				best, bestSq = e, sq
			}
		})
	}
	return best, bestSq
}

// AlignmentAngle returns the rotation that maps the island's longest edge onto
// the +U axis. ok is false for degenerate islands whose longest squared edge
// length is at or below eps.
func AlignmentAngle(acc Accessor, island Island, eps float64) (angle float64, ok bool) {
	e, sq := LongestEdge(acc, island)
	if sq <= eps {
		return 0, false
	}
	return -e.Angle(), true
}
