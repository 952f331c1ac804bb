package uvalign

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// VectorAngle2 returns the direction of v in radians, measured from the +U axis.
func VectorAngle2(v mgl64.Vec2) float64 {
	return math.Atan2(v.Y(), v.X())
}

// RotateAbout applies rot to v around pivot: pivot + rot*(v-pivot).
func RotateAbout(v, pivot mgl64.Vec2, rot mgl64.Mat2) mgl64.Vec2 {
	return pivot.Add(rot.Mul2x1(v.Sub(pivot)))
}

func lenSqr2(v mgl64.Vec2) float64 {
	return v.Dot(v)
}

// lessUV orders coordinates lexicographically by (u, v).
func lessUV(a, b mgl64.Vec2) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}
