package uvalign

import "github.com/go-gl/mathgl/mgl64"

// RotateIsland rotates every loop UV of the island by angle radians around
// pivot. All loops go through the same matrix, so loops that shared a
// coordinate before still share it afterwards. A zero angle leaves the
// coordinates untouched.
func RotateIsland(acc Accessor, island Island, angle float64, pivot mgl64.Vec2) {
	if angle == 0 || len(island.Faces) == 0 {
		return
	}
	rot := mgl64.Rotate2D(angle)
	for _, f := range island.Faces {
		for _, l := range acc.FaceLoops(f) {
			acc.SetLoopUV(l, RotateAbout(acc.LoopUV(l), pivot, rot))
		}
	}
}
