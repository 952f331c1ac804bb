package uvalign

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const float64EqualityThreshold = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= float64EqualityThreshold
}

func vecAlmostEqual(a, b mgl64.Vec2) bool {
	return almostEqual(a[0], b[0]) && almostEqual(a[1], b[1])
}

func uv(u, v float64) mgl64.Vec2 { return mgl64.Vec2{u, v} }

// uvMesh builds a mesh whose faces are given purely by their UV cycles.
func uvMesh(t *testing.T, faces ...[]mgl64.Vec2) *Mesh {
	t.Helper()
	m := NewMesh("test")
	for _, f := range faces {
		if _, err := m.AddUVFace(f...); err != nil {
			t.Fatalf("AddUVFace(%v): %v", f, err)
		}
	}
	return m
}

func faceUVs(m *Mesh, f int) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, 0, len(m.Faces[f].Loops))
	for _, l := range m.Faces[f].Loops {
		out = append(out, m.Loops[l].UV)
	}
	return out
}
