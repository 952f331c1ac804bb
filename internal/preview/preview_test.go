package preview

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/smasonuk/uvalign"
)

func testMesh(t *testing.T) (*uvalign.Mesh, []uvalign.Island) {
	t.Helper()
	m := uvalign.NewMesh("preview")
	faces := [][]mgl64.Vec2{
		{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		{{1, 0}, {2, 0}, {2, 1}, {1, 1}},
		{{3, 0}, {4, 0}, {3.5, 1}},
	}
	for _, f := range faces {
		if _, err := m.AddUVFace(f...); err != nil {
			t.Fatal(err)
		}
	}
	islands, err := uvalign.BuildIslands(m, uvalign.AllFaces(m), 0)
	if err != nil {
		t.Fatal(err)
	}
	return m, islands
}

func closeColor(a, b color.RGBA) bool {
	d := func(x, y uint8) bool { return x-y <= 2 || y-x <= 2 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestLayoutToScreen(t *testing.T) {
	m, _ := testMesh(t)
	l := NewLayout(m, uvalign.AllFaces(m), 100, 100, 10)

	// UV bounds are (0,0)-(4,1), so 80px cover 4 units
	testCases := []struct {
		uv   mgl64.Vec2
		x, y float32
	}{
		{mgl64.Vec2{0, 0}, 10, 90},
		{mgl64.Vec2{4, 0}, 90, 90},
		{mgl64.Vec2{0, 1}, 10, 70},
	}
	for _, tc := range testCases {
		x, y := l.ToScreen(tc.uv)
		if x != tc.x || y != tc.y {
			t.Errorf("ToScreen(%v) = (%v, %v), want (%v, %v)", tc.uv, x, y, tc.x, tc.y)
		}
	}
}

func TestPalette(t *testing.T) {
	p := Palette(5)
	if len(p) != 5 {
		t.Fatalf("len = %d", len(p))
	}
	seen := make(map[[3]uint8]bool)
	for i, c := range p {
		if c.A != 255 {
			t.Errorf("colour %d not opaque", i)
		}
		key := [3]uint8{c.R, c.G, c.B}
		if seen[key] {
			t.Errorf("colour %d repeats %v", i, c)
		}
		seen[key] = true
	}
}

func TestRasterize(t *testing.T) {
	m, islands := testMesh(t)
	img := Rasterize(m, islands, 200, 200, 10)
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("bounds = %v", b)
	}
	if img.RGBAAt(0, 0) != background {
		t.Errorf("corner pixel = %v, want background", img.RGBAAt(0, 0))
	}
	// centre of the first quad, well inside the fill
	x, y := NewLayout(m, uvalign.AllFaces(m), 200, 200, 10).ToScreen(mgl64.Vec2{0.5, 0.5})
	if got := img.RGBAAt(int(x), int(y)); !closeColor(got, Palette(len(islands))[0]) {
		t.Errorf("pixel inside island 0 = %v, want %v", got, Palette(len(islands))[0])
	}

	path := filepath.Join(t.TempDir(), "layout.png")
	if err := WritePNG(img, path); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("written PNG does not decode: %v", err)
	}
}

func TestWritePDF(t *testing.T) {
	m, islands := testMesh(t)
	var buf bytes.Buffer
	if err := WritePDF(m, islands, &buf); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not look like a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}
