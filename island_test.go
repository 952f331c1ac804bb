package uvalign

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBuildIslands(t *testing.T) {
	left := []mgl64.Vec2{uv(0, 0), uv(1, 0), uv(1, 1), uv(0, 1)}
	right := []mgl64.Vec2{uv(1, 0), uv(2, 0), uv(2, 1), uv(1, 1)}
	// same shape as right but split off along a seam
	seam := []mgl64.Vec2{uv(1.5, 0), uv(2.5, 0), uv(2.5, 1), uv(1.5, 1)}
	farRight := []mgl64.Vec2{uv(2, 0), uv(3, 0), uv(3, 1), uv(2, 1)}
	// touches left only at the (1,1) corner
	corner := []mgl64.Vec2{uv(1, 1), uv(2, 1), uv(2, 2)}

	testCases := []struct {
		name     string
		faces    [][]mgl64.Vec2
		tol      float64
		expected [][]int
	}{
		{
			name:     "Two faces sharing an edge",
			faces:    [][]mgl64.Vec2{left, right},
			expected: [][]int{{0, 1}},
		},
		{
			name:     "UV seam splits islands",
			faces:    [][]mgl64.Vec2{left, seam},
			expected: [][]int{{0}, {1}},
		},
		{
			name:     "Shared corner only",
			faces:    [][]mgl64.Vec2{left, corner},
			expected: [][]int{{0}, {1}},
		},
		{
			name:     "Chain through a middle face",
			faces:    [][]mgl64.Vec2{left, farRight, right},
			expected: [][]int{{0, 1, 2}},
		},
		{
			name: "Opposite winding still matches",
			faces: [][]mgl64.Vec2{
				left,
				{uv(1, 1), uv(2, 1), uv(2, 0), uv(1, 0)},
			},
			expected: [][]int{{0, 1}},
		},
		{
			name: "Round-off below tolerance joins",
			faces: [][]mgl64.Vec2{
				left,
				{uv(1+1e-9, 0), uv(2, 0), uv(2, 1), uv(1+1e-9, 1)},
			},
			tol:      1e-6,
			expected: [][]int{{0, 1}},
		},
		{
			name: "Coordinates too large for the grid stay exact",
			faces: [][]mgl64.Vec2{
				{uv(1e10, 1e10), uv(2e10, 1e10), uv(2e10, 2e10)},
				{uv(5e10, 5e10), uv(6e10, 5e10), uv(6e10, 6e10)},
			},
			tol:      1e-300,
			expected: [][]int{{0}, {1}},
		},
		{
			name: "Round-off without tolerance splits",
			faces: [][]mgl64.Vec2{
				left,
				{uv(1+1e-9, 0), uv(2, 0), uv(2, 1), uv(1+1e-9, 1)},
			},
			expected: [][]int{{0}, {1}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := uvMesh(t, tc.faces...)
			islands, err := BuildIslands(m, AllFaces(m), tc.tol)
			if err != nil {
				t.Fatalf("BuildIslands: %v", err)
			}
			got := make([][]int, len(islands))
			for i, isl := range islands {
				got[i] = isl.Faces
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("islands = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestBuildIslandsPartitionsInput(t *testing.T) {
	m := uvMesh(t,
		[]mgl64.Vec2{uv(0, 0), uv(1, 0), uv(0, 1)},
		[]mgl64.Vec2{uv(5, 5), uv(6, 5), uv(6, 6)},
		[]mgl64.Vec2{uv(1, 0), uv(1, 1), uv(0, 1)},
		[]mgl64.Vec2{uv(6, 5), uv(7, 5), uv(6, 6)},
		[]mgl64.Vec2{uv(10, 0), uv(11, 0), uv(10, 1)},
	)
	input := []int{4, 2, 0, 3, 1, 2}
	islands, err := BuildIslands(m, input, 0)
	if err != nil {
		t.Fatalf("BuildIslands: %v", err)
	}
	if len(islands) != 3 {
		t.Fatalf("got %d islands, want 3", len(islands))
	}

	var all []int
	seen := make(map[int]bool)
	for _, isl := range islands {
		for _, f := range isl.Faces {
			if seen[f] {
				t.Errorf("face %d appears in more than one island", f)
			}
			seen[f] = true
			all = append(all, f)
		}
	}
	sort.Ints(all)
	if !reflect.DeepEqual(all, []int{0, 1, 2, 3, 4}) {
		t.Errorf("union of islands = %v", all)
	}

	// islands follow the order of their first face in the input
	want := [][]int{{4}, {2, 0}, {3, 1}}
	for i, isl := range islands {
		if !reflect.DeepEqual(isl.Faces, want[i]) {
			t.Errorf("island %d = %v, want %v", i, isl.Faces, want[i])
		}
	}
}

func TestBuildIslandsErrors(t *testing.T) {
	m := uvMesh(t, []mgl64.Vec2{uv(0, 0), uv(1, 0), uv(0, 1)})

	if _, err := BuildIslands(m, AllFaces(m), -1); !errors.Is(err, ErrInvalidTolerance) {
		t.Errorf("negative tolerance: err = %v, want ErrInvalidTolerance", err)
	}
	if _, err := BuildIslands(m, AllFaces(m), 5e-324); !errors.Is(err, ErrInvalidTolerance) {
		t.Errorf("subnormal tolerance: err = %v, want ErrInvalidTolerance", err)
	}

	islands, err := BuildIslands(m, nil, 0)
	if err != nil || len(islands) != 0 {
		t.Errorf("empty input: got %v, %v", islands, err)
	}

	m.SetHasUV(false)
	if _, err := BuildIslands(m, AllFaces(m), 0); !errors.Is(err, ErrNoUVLayer) {
		t.Errorf("no UV layer: err = %v, want ErrNoUVLayer", err)
	}
}
