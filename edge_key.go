package uvalign

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EdgeKey is an order-independent UV-space edge. A is never greater than B
// in (u, v) order, so NewEdgeKey(a, b, tol) == NewEdgeKey(b, a, tol).
type EdgeKey struct {
	A, B mgl64.Vec2
}

// NewEdgeKey builds the canonical key for the edge a-b. With tol > 0 both
// coordinates are snapped to the nearest multiple of tol first, so edges that
// differ only by floating round-off share a key.
func NewEdgeKey(a, b mgl64.Vec2, tol float64) EdgeKey {
	if tol > 0 {
		a = quantizeUV(a, tol)
		b = quantizeUV(b, tol)
	}
	if lessUV(b, a) {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

func quantizeUV(v mgl64.Vec2, tol float64) mgl64.Vec2 {
	return mgl64.Vec2{quantize(v[0], tol), quantize(v[1], tol)}
}

// quantize keeps x exact when x/tol does not fit in a float64.
func quantize(x, tol float64) float64 {
	steps := x / tol
	if math.IsInf(steps, 0) {
		return x
	}
	return math.RoundToEven(steps) * tol
}

// validTolerance accepts 0 and any finite positive grid whose reciprocal is
// representable, so that unit-range UVs quantize without overflow.
func validTolerance(tol float64) bool {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		return false
	}
	return tol == 0 || !math.IsInf(1/tol, 0)
}
