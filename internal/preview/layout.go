// Package preview draws UV layouts as PNG snapshots or PDF sheets. Islands are
// coloured individually so the result of an alignment pass is easy to inspect.
package preview

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/smasonuk/uvalign"
)

// Layout maps UV space onto a width x height pixel area. V grows upwards in UV
// space and downwards on screen.
type Layout struct {
	Width, Height int
	Padding       int

	min   mgl64.Vec2
	scale float64
}

// NewLayout fits the bounding box of every UV used by faces into the area.
func NewLayout(acc uvalign.Accessor, faces []int, width, height, padding int) *Layout {
	l := &Layout{Width: width, Height: height, Padding: clamp(padding, 0, min(width, height)/2)}
	uvs := uvalign.UniqueUVs(acc, faces)
	if len(uvs) == 0 {
		l.scale = 1
		return l
	}
	lo := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, uv := range uvs {
		lo = mgl64.Vec2{math.Min(lo[0], uv[0]), math.Min(lo[1], uv[1])}
		hi = mgl64.Vec2{math.Max(hi[0], uv[0]), math.Max(hi[1], uv[1])}
	}
	span := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	if span <= 0 {
		span = 1
	}
	avail := float64(min(width, height) - 2*l.Padding)
	if avail <= 0 {
		avail = 1
	}
	l.min = lo
	l.scale = avail / span
	return l
}

// ToScreen converts a UV coordinate into pixel coordinates.
func (l *Layout) ToScreen(uv mgl64.Vec2) (float32, float32) {
	x := float64(l.Padding) + (uv[0]-l.min[0])*l.scale
	y := float64(l.Height-l.Padding) - (uv[1]-l.min[1])*l.scale
	return float32(x), float32(y)
}

// FacePolygon returns the screen-space outline of face f.
func (l *Layout) FacePolygon(acc uvalign.Accessor, f int) (xp, yp []float32) {
	loops := acc.FaceLoops(f)
	xp = make([]float32, len(loops))
	yp = make([]float32, len(loops))
	for i, lp := range loops {
		xp[i], yp[i] = l.ToScreen(acc.LoopUV(lp))
	}
	return xp, yp
}

// Palette returns n visually distinct colours, one per island.
func Palette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		h := math.Mod(float64(i)*137.508, 360)
		c := colorful.Hsv(h, 0.55, 0.9)
		r, g, b := c.RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
