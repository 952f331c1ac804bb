package uvalign

import "github.com/go-gl/mathgl/mgl64"

// Face is an ordered cycle of loop indices into the owning mesh.
type Face struct {
	Loops    []int
	Selected bool
}

func NewFace(size int) *Face {
	return &Face{Loops: make([]int, 0, size)}
}

func (f *Face) AddLoop(l int) {
	f.Loops = append(f.Loops, l)
}

func (f *Face) Copy() *Face {
	return &Face{
		Loops:    append([]int(nil), f.Loops...),
		Selected: f.Selected,
	}
}

// forEachEdge calls fn with the UVs of every consecutive loop pair of face f,
// wrapping from the last loop back to the first.
func forEachEdge(acc Accessor, f int, fn func(a, b mgl64.Vec2)) {
	loops := acc.FaceLoops(f)
	n := len(loops)
	for i := 0; i < n; i++ {
		fn(acc.LoopUV(loops[i]), acc.LoopUV(loops[(i+1)%n]))
	}
}
