package uvalign

// AllFaces returns every face index of acc in order.
func AllFaces(acc Accessor) []int {
	faces := make([]int, acc.FaceCount())
	for i := range faces {
		faces[i] = i
	}
	return faces
}

// SelectedFaces returns the faces touched by the current selection: faces that
// are selected themselves or own a selected loop. With nothing selected the
// whole mesh counts as selected.
func SelectedFaces(acc Accessor) []int {
	faces := make([]int, 0)
	for f := 0; f < acc.FaceCount(); f++ {
		if faceTouched(acc, f) {
			faces = append(faces, f)
		}
	}
	if len(faces) == 0 {
		return AllFaces(acc)
	}
	return faces
}

func faceTouched(acc Accessor, f int) bool {
	if acc.FaceSelected(f) {
		return true
	}
	for _, l := range acc.FaceLoops(f) {
		if acc.LoopSelected(l) {
			return true
		}
	}
	return false
}

func uniqueFaces(faces []int) []int {
	seen := make(map[int]struct{}, len(faces))
	out := make([]int, 0, len(faces))
	for _, f := range faces {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
