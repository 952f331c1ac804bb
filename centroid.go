package uvalign

import "github.com/go-gl/mathgl/mgl64"

// Centroid returns the mean of the island's distinct UV positions. Loops that
// share a coordinate count once.
func Centroid(acc Accessor, island Island) mgl64.Vec2 {
	uvs := UniqueUVs(acc, island.Faces)
	if len(uvs) == 0 {
		return mgl64.Vec2{}
	}
	sumX, sumY := 0.0, 0.0
	for _, uv := range uvs {
		sumX += uv[0]
		sumY += uv[1]
	}
	c := 1.0 / float64(len(uvs))
	return mgl64.Vec2{sumX * c, sumY * c}
}
