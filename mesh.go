package uvalign

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// MeshID identifies a mesh datablock. Several objects may reference the same ID.
type MeshID string

func NewMeshID() MeshID {
	return MeshID(uuid.NewString())
}

// Loop is a face-relative occurrence of a vertex carrying its own UV.
type Loop struct {
	Face     int
	Vert     int
	UV       mgl64.Vec2
	Selected bool
}

// Accessor is the view of mesh data the alignment pipeline reads and writes.
type Accessor interface {
	FaceCount() int
	FaceLoops(f int) []int
	FaceSelected(f int) bool
	HasUV() bool
	LoopUV(l int) mgl64.Vec2
	SetLoopUV(l int, uv mgl64.Vec2)
	LoopSelected(l int) bool
}

type Mesh struct {
	ID        MeshID
	Name      string
	Positions []mgl64.Vec3
	Loops     []Loop
	Faces     []Face

	hasUV    bool
	revision int
}

// NewMesh returns an empty mesh with a fresh ID and an active UV layer.
func NewMesh(name string) *Mesh {
	return &Mesh{
		ID:        NewMeshID(),
		Name:      name,
		Positions: make([]mgl64.Vec3, 0, 16),
		Loops:     make([]Loop, 0, 64),
		Faces:     make([]Face, 0, 16),
		hasUV:     true,
	}
}

func (m *Mesh) AddVertex(x, y, z float64) int {
	m.Positions = append(m.Positions, mgl64.Vec3{x, y, z})
	return len(m.Positions) - 1
}

// AddFace appends a face over the given vertex indices. uvs may be nil, otherwise
// it must hold one coordinate per vertex.
func (m *Mesh) AddFace(verts []int, uvs []mgl64.Vec2) (int, error) {
	if len(verts) < 3 {
		return -1, fmt.Errorf("face %d: %w", len(m.Faces), ErrDegenerateFace)
	}
	if uvs != nil && len(uvs) != len(verts) {
		return -1, fmt.Errorf("face %d: %d uvs for %d vertices", len(m.Faces), len(uvs), len(verts))
	}
	fi := len(m.Faces)
	face := NewFace(len(verts))
	for i, v := range verts {
		l := Loop{Face: fi, Vert: v}
		if uvs != nil {
			l.UV = uvs[i]
		}
		m.Loops = append(m.Loops, l)
		face.AddLoop(len(m.Loops) - 1)
	}
	m.Faces = append(m.Faces, *face)
	return fi, nil
}

// AddUVFace adds a face whose vertices are created from the UV coordinates
// themselves. Handy for hosts that only carry UV data.
func (m *Mesh) AddUVFace(uvs ...mgl64.Vec2) (int, error) {
	verts := make([]int, len(uvs))
	for i, uv := range uvs {
		verts[i] = m.AddVertex(uv.X(), uv.Y(), 0)
	}
	return m.AddFace(verts, uvs)
}

func (m *Mesh) HasUV() bool { return m.hasUV }

// SetHasUV adds or removes the active UV layer. Removing it keeps the stored
// coordinates but makes them unavailable to the pipeline.
func (m *Mesh) SetHasUV(has bool) { m.hasUV = has }

func (m *Mesh) FaceCount() int { return len(m.Faces) }

func (m *Mesh) FaceLoops(f int) []int { return m.Faces[f].Loops }

func (m *Mesh) FaceSelected(f int) bool { return m.Faces[f].Selected }

func (m *Mesh) LoopUV(l int) mgl64.Vec2 { return m.Loops[l].UV }

func (m *Mesh) SetLoopUV(l int, uv mgl64.Vec2) { m.Loops[l].UV = uv }

func (m *Mesh) LoopSelected(l int) bool { return m.Loops[l].Selected }

// Commit signals that the mesh was modified and derived data must be refreshed.
func (m *Mesh) Commit() { m.revision++ }

// Revision counts the commits made to this mesh.
func (m *Mesh) Revision() int { return m.revision }

// Copy returns a detached working copy. The revision counter is not carried over.
func (m *Mesh) Copy() *Mesh {
	faces := make([]Face, len(m.Faces))
	for i := range m.Faces {
		faces[i] = *m.Faces[i].Copy()
	}
	return &Mesh{
		ID:        m.ID,
		Name:      m.Name,
		Positions: append([]mgl64.Vec3(nil), m.Positions...),
		Loops:     append([]Loop(nil), m.Loops...),
		Faces:     faces,
		hasUV:     m.hasUV,
	}
}

// WriteBackUVs copies every loop UV of src into m. src must share m's topology.
func (m *Mesh) WriteBackUVs(src *Mesh) error {
	if len(src.Loops) != len(m.Loops) {
		return fmt.Errorf("write back %q: %d loops, want %d", m.Name, len(src.Loops), len(m.Loops))
	}
	for i := range m.Loops {
		m.Loops[i].UV = src.Loops[i].UV
	}
	m.hasUV = src.hasUV
	return nil
}

// UniqueUVs returns the distinct UV coordinates used by the given faces, in
// first-seen order.
func UniqueUVs(acc Accessor, faces []int) []mgl64.Vec2 {
	index := make(map[mgl64.Vec2]int)
	uvs := make([]mgl64.Vec2, 0)
	for _, f := range faces {
		for _, l := range acc.FaceLoops(f) {
			uv := acc.LoopUV(l)
			if _, found := index[uv]; found {
				continue
			}
			index[uv] = len(uvs)
			uvs = append(uvs, uv)
		}
	}
	return uvs
}
