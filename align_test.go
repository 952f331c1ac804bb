package uvalign

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAlignMeshAlreadyHorizontal(t *testing.T) {
	face := []mgl64.Vec2{uv(0, 0), uv(1, 0), uv(1, 0.5), uv(0, 0.5)}
	m := uvMesh(t, face)

	res, err := AlignMesh(m, AllFaces(m), DefaultOptions())
	if err != nil {
		t.Fatalf("AlignMesh: %v", err)
	}
	if res.Islands != 1 {
		t.Errorf("Islands = %d, want 1", res.Islands)
	}
	for i, got := range faceUVs(m, 0) {
		if got != face[i] {
			t.Errorf("loop %d changed from %v to %v", i, face[i], got)
		}
	}
}

func TestAlignMeshRotated45(t *testing.T) {
	s := math.Sqrt(0.5)
	m := uvMesh(t, []mgl64.Vec2{uv(0, 0), uv(s, s), uv(0, 2*s), uv(-s, s)})
	isl := Island{Faces: []int{0}}
	before := Centroid(m, isl)

	res, err := AlignMesh(m, AllFaces(m), DefaultOptions())
	if err != nil {
		t.Fatalf("AlignMesh: %v", err)
	}
	if res.Rotated != 1 {
		t.Errorf("Rotated = %d, want 1", res.Rotated)
	}

	got := faceUVs(m, 0)
	if !almostEqual(got[0].Y(), got[1].Y()) {
		t.Errorf("former longest edge %v -> %v is not horizontal", got[0], got[1])
	}
	if got[1].X() <= got[0].X() {
		t.Errorf("former longest edge %v -> %v should point along +U", got[0], got[1])
	}
	if after := Centroid(m, isl); !vecAlmostEqual(before, after) {
		t.Errorf("centroid moved from %v to %v", before, after)
	}
	want := []mgl64.Vec2{uv(-0.5, s-0.5), uv(0.5, s-0.5), uv(0.5, s+0.5), uv(-0.5, s+0.5)}
	for i := range got {
		if !vecAlmostEqual(got[i], want[i]) {
			t.Errorf("loop %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAlignMeshIsIdempotent(t *testing.T) {
	m := uvMesh(t,
		[]mgl64.Vec2{uv(0, 0), uv(2, 1), uv(0.5, 1)},
		[]mgl64.Vec2{uv(5, 5), uv(5.3, 6), uv(4.8, 5.2)},
	)
	if _, err := AlignMesh(m, AllFaces(m), DefaultOptions()); err != nil {
		t.Fatalf("first AlignMesh: %v", err)
	}
	first := append([]Loop(nil), m.Loops...)

	islands, err := BuildIslands(m, AllFaces(m), 0)
	if err != nil {
		t.Fatalf("BuildIslands: %v", err)
	}
	for _, isl := range islands {
		angle, ok := AlignmentAngle(m, isl, DegenerateEpsilon)
		if !ok || !almostEqual(angle, 0) {
			t.Errorf("island %v: angle after alignment = %v (ok=%v), want 0", isl.Faces, angle, ok)
		}
	}

	if _, err := AlignMesh(m, AllFaces(m), DefaultOptions()); err != nil {
		t.Fatalf("second AlignMesh: %v", err)
	}
	for i := range m.Loops {
		if !vecAlmostEqual(m.Loops[i].UV, first[i].UV) {
			t.Errorf("loop %d moved on second pass: %v -> %v", i, first[i].UV, m.Loops[i].UV)
		}
	}
}

func TestAlignMeshDegenerateIslandIsCounted(t *testing.T) {
	m := uvMesh(t,
		[]mgl64.Vec2{uv(0, 0), uv(0, 0), uv(0, 0)},
		[]mgl64.Vec2{uv(3, 3), uv(4, 4), uv(3, 4)},
	)
	res, err := AlignMesh(m, AllFaces(m), DefaultOptions())
	if err != nil {
		t.Fatalf("AlignMesh: %v", err)
	}
	if res.Islands != 2 || res.Degenerate != 1 || res.Rotated != 1 {
		t.Errorf("result = %+v, want 2 islands, 1 degenerate, 1 rotated", res)
	}
	for i, got := range faceUVs(m, 0) {
		if got != uv(0, 0) {
			t.Errorf("degenerate loop %d moved to %v", i, got)
		}
	}
}

func TestAlignMeshErrors(t *testing.T) {
	m := uvMesh(t, []mgl64.Vec2{uv(0, 0), uv(1, 0), uv(0, 1)})

	opts := DefaultOptions()
	opts.Tolerance = -1
	if _, err := AlignMesh(m, AllFaces(m), opts); !errors.Is(err, ErrInvalidTolerance) {
		t.Errorf("err = %v, want ErrInvalidTolerance", err)
	}

	m.SetHasUV(false)
	if _, err := AlignMesh(m, AllFaces(m), DefaultOptions()); !errors.Is(err, ErrNoUVLayer) {
		t.Errorf("err = %v, want ErrNoUVLayer", err)
	}
}

// twoIslandMesh returns a mesh with a tilted triangle island (face 0) and a
// separate tilted quad island (face 1).
func twoIslandMesh(t *testing.T) *Mesh {
	return uvMesh(t,
		[]mgl64.Vec2{uv(0, 0), uv(2, 1), uv(0.5, 1)},
		[]mgl64.Vec2{uv(5, 5), uv(6, 6), uv(5.5, 6.5), uv(4.8, 5.6)},
	)
}

func TestAlignerLinkedDuplicatesEditMode(t *testing.T) {
	m := twoIslandMesh(t)
	m.Faces[0].Selected = true
	untouched := faceUVs(m, 1)

	scene := NewScene()
	a, err := scene.AddMeshObject("A", m)
	if err != nil {
		t.Fatalf("AddMeshObject: %v", err)
	}
	b := scene.LinkDuplicate(a, "B")
	scene.LinkDuplicate(a, "C")
	b.Mode = ModeEdit

	rep, err := NewAligner(DefaultOptions(), nil).Align(scene)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if rep.Meshes != 1 {
		t.Errorf("Meshes = %d, want 1", rep.Meshes)
	}
	if rep.Islands != 1 {
		t.Errorf("Islands = %d, want 1 (only the selected face)", rep.Islands)
	}
	if m.Revision() != 1 {
		t.Errorf("Revision = %d, want exactly one commit", m.Revision())
	}
	got := faceUVs(m, 0)
	if !almostEqual(got[0].Y(), got[1].Y()) {
		t.Errorf("selected island not aligned: %v", got)
	}
	for i, got := range faceUVs(m, 1) {
		if got != untouched[i] {
			t.Errorf("unselected loop %d moved from %v to %v", i, untouched[i], got)
		}
	}
}

func TestAlignerObjectModeWritesBack(t *testing.T) {
	m := twoIslandMesh(t)
	m.Faces[0].Selected = true // ignored outside edit mode

	scene := NewScene()
	a, _ := scene.AddMeshObject("A", m)
	scene.LinkDuplicate(a, "B")

	rep, err := NewAligner(DefaultOptions(), nil).Align(scene)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if rep.Meshes != 1 || rep.Islands != 2 {
		t.Errorf("report = %+v, want 1 mesh and 2 islands", rep)
	}
	if m.Revision() != 1 {
		t.Errorf("Revision = %d, want 1", m.Revision())
	}
	for f := 0; f < 2; f++ {
		got := faceUVs(m, f)
		if !almostEqual(got[0].Y(), got[1].Y()) {
			t.Errorf("face %d not aligned: %v", f, got)
		}
	}
	if got, want := rep.Summary(), "Processed 1 mesh(es). Islands aligned: 2"; got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
	if s := rep.SkipSummary(); s != "" {
		t.Errorf("SkipSummary = %q, want empty", s)
	}
}

func TestAlignerNoSelection(t *testing.T) {
	m := twoIslandMesh(t)
	before := append([]Loop(nil), m.Loops...)

	scene := NewScene()
	a, _ := scene.AddMeshObject("A", m)
	a.Selected = false
	scene.Objects = append(scene.Objects, &Object{Name: "Camera", Type: ObjectCamera, Selected: true})

	_, err := NewAligner(DefaultOptions(), nil).Align(scene)
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}
	if m.Revision() != 0 {
		t.Errorf("Revision = %d, want 0", m.Revision())
	}
	for i := range m.Loops {
		if m.Loops[i].UV != before[i].UV {
			t.Errorf("loop %d modified", i)
		}
	}
}

func TestAlignerSkipsMeshWithoutUVs(t *testing.T) {
	withUV := twoIslandMesh(t)
	noUV := twoIslandMesh(t)
	noUV.SetHasUV(false)

	scene := NewScene()
	scene.AddMeshObject("plain", noUV)
	scene.AddMeshObject("mapped", withUV)

	rep, err := NewAligner(DefaultOptions(), nil).Align(scene)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if rep.Meshes != 1 || rep.Islands != 2 {
		t.Errorf("report = %+v, want 1 mesh and 2 islands", rep)
	}
	if len(rep.Skipped) != 1 || rep.Skipped[0].Object != "plain" || !errors.Is(rep.Skipped[0].Err, ErrNoUVLayer) {
		t.Fatalf("Skipped = %+v", rep.Skipped)
	}
	if noUV.Revision() != 0 {
		t.Errorf("mesh without UVs was committed")
	}
	if got, want := rep.Summary(), "Processed 1 mesh(es). Islands aligned: 2"; got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
	if got, want := rep.SkipSummary(), "Skipped 1 mesh(es) without usable UVs"; got != want {
		t.Errorf("SkipSummary = %q, want %q", got, want)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("default options invalid: %v", err)
	}
	for _, eps := range []float64{-1, math.Inf(1), math.NaN()} {
		opts := DefaultOptions()
		opts.DegenerateEpsilon = eps
		if err := opts.Validate(); err == nil {
			t.Errorf("degenerate epsilon %v accepted", eps)
		}
	}
}
