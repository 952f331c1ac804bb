package uvalign

import "fmt"

type ObjectType string

const (
	ObjectMesh   ObjectType = "MESH"
	ObjectCurve  ObjectType = "CURVE"
	ObjectEmpty  ObjectType = "EMPTY"
	ObjectCamera ObjectType = "CAMERA"
	ObjectLight  ObjectType = "LIGHT"
)

// Mode is an object's interaction mode.
type Mode string

const (
	ModeObject Mode = "OBJECT"
	ModeEdit   Mode = "EDIT"
)

// Object is a handle onto mesh data in a Pool. Linked duplicates are objects
// sharing the same Data ID.
type Object struct {
	Name     string
	Type     ObjectType
	Data     MeshID
	Mode     Mode
	Selected bool
}

func (o *Object) IsMesh() bool { return o.Type == ObjectMesh }

// Pool owns mesh datablocks by ID. Mutation always goes through the pool
// entry, never through an object handle.
type Pool struct {
	meshes map[MeshID]*Mesh
	order  []MeshID
}

func NewPool() *Pool {
	return &Pool{meshes: make(map[MeshID]*Mesh)}
}

// Add stores m, assigning a fresh ID when it has none. Adding a second mesh
// under an existing ID is an error.
func (p *Pool) Add(m *Mesh) (MeshID, error) {
	if m.ID == "" {
		m.ID = NewMeshID()
	}
	if _, found := p.meshes[m.ID]; found {
		return "", fmt.Errorf("mesh %s already in pool", m.ID)
	}
	p.meshes[m.ID] = m
	p.order = append(p.order, m.ID)
	return m.ID, nil
}

func (p *Pool) Get(id MeshID) (*Mesh, bool) {
	m, ok := p.meshes[id]
	return m, ok
}

// Meshes returns the pooled meshes in insertion order.
func (p *Pool) Meshes() []*Mesh {
	out := make([]*Mesh, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.meshes[id])
	}
	return out
}

func (p *Pool) Len() int { return len(p.order) }

// Group is the set of objects sharing one mesh datablock.
type Group struct {
	Mesh           MeshID
	Members        []*Object
	Representative *Object
}

// GroupByMesh groups mesh objects by their mesh data. Non-mesh objects are
// dropped. Groups come out in first-appearance order. The representative is
// the first member in edit mode, else the first member.
func GroupByMesh(objs []*Object) []Group {
	index := make(map[MeshID]int)
	groups := make([]Group, 0)
	for _, o := range objs {
		if o == nil || !o.IsMesh() {
			continue
		}
		i, found := index[o.Data]
		if !found {
			i = len(groups)
			index[o.Data] = i
			groups = append(groups, Group{Mesh: o.Data})
		}
		groups[i].Members = append(groups[i].Members, o)
	}
	for i := range groups {
		g := &groups[i]
		g.Representative = g.Members[0]
		for _, o := range g.Members {
			if o.Mode == ModeEdit {
				g.Representative = o
				break
			}
		}
	}
	return groups
}
