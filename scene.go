package uvalign

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/xeipuuv/gojsonschema"
)

// Scene is the host state an invocation runs against: the mesh pool and the
// objects referencing it.
type Scene struct {
	Pool    *Pool
	Objects []*Object
}

func NewScene() *Scene {
	return &Scene{Pool: NewPool()}
}

// AddMeshObject pools m and adds a selected object-mode object using it.
func (s *Scene) AddMeshObject(name string, m *Mesh) (*Object, error) {
	id, err := s.Pool.Add(m)
	if err != nil {
		return nil, err
	}
	o := &Object{Name: name, Type: ObjectMesh, Data: id, Mode: ModeObject, Selected: true}
	s.Objects = append(s.Objects, o)
	return o, nil
}

// LinkDuplicate adds a new object sharing src's mesh data.
func (s *Scene) LinkDuplicate(src *Object, name string) *Object {
	o := &Object{Name: name, Type: src.Type, Data: src.Data, Mode: ModeObject, Selected: src.Selected}
	s.Objects = append(s.Objects, o)
	return o
}

func (s *Scene) SelectedObjects() []*Object {
	out := make([]*Object, 0, len(s.Objects))
	for _, o := range s.Objects {
		if o.Selected {
			out = append(out, o)
		}
	}
	return out
}

// Object returns the first object with the given name.
func (s *Scene) Object(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

type sceneDoc struct {
	Meshes  []meshDoc   `json:"meshes"`
	Objects []objectDoc `json:"objects"`
}

type meshDoc struct {
	ID        string       `json:"id"`
	Name      string       `json:"name,omitempty"`
	HasUV     *bool        `json:"has_uv,omitempty"`
	Positions [][3]float64 `json:"positions,omitempty"`
	Faces     []faceDoc    `json:"faces"`
}

type faceDoc struct {
	Loops    []loopDoc `json:"loops"`
	Selected bool      `json:"selected,omitempty"`
}

type loopDoc struct {
	Vert     *int       `json:"vert,omitempty"`
	UV       [2]float64 `json:"uv"`
	Selected bool       `json:"selected,omitempty"`
}

type objectDoc struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Data     string `json:"data,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

const sceneSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["meshes", "objects"],
  "properties": {
    "meshes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "faces"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "has_uv": {"type": "boolean"},
          "positions": {
            "type": "array",
            "items": {"type": "array", "items": {"type": "number"}, "minItems": 3, "maxItems": 3}
          },
          "faces": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["loops"],
              "properties": {
                "selected": {"type": "boolean"},
                "loops": {
                  "type": "array",
                  "minItems": 3,
                  "items": {
                    "type": "object",
                    "required": ["uv"],
                    "properties": {
                      "vert": {"type": "integer", "minimum": 0},
                      "uv": {"type": "array", "items": {"type": "number"}, "minItems": 2, "maxItems": 2},
                      "selected": {"type": "boolean"}
                    }
                  }
                }
              }
            }
          }
        }
      }
    },
    "objects": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "type"],
        "properties": {
          "name": {"type": "string"},
          "type": {"type": "string", "enum": ["MESH", "CURVE", "EMPTY", "CAMERA", "LIGHT"]},
          "data": {"type": "string"},
          "mode": {"type": "string", "enum": ["OBJECT", "EDIT"]},
          "selected": {"type": "boolean"}
        }
      }
    }
  }
}`

// ValidateScene checks a scene document against the scene schema.
func ValidateScene(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(sceneSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidScene, strings.Join(msgs, "; "))
	}
	return nil
}

func LoadSceneFile(fileName string) (*Scene, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("could not open scene file %s: %w", fileName, err)
	}
	s, err := DecodeScene(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing scene file %s: %w", fileName, err)
	}
	return s, nil
}

// OpenScene loads a JSON scene, or wraps a single PLY mesh in a scene with one
// selected object named after the file.
func OpenScene(fileName string) (*Scene, error) {
	if !strings.EqualFold(filepath.Ext(fileName), ".ply") {
		return LoadSceneFile(fileName)
	}
	m, err := LoadMeshFromPLYFile(fileName)
	if err != nil {
		return nil, err
	}
	s := NewScene()
	if _, err := s.AddMeshObject(m.Name, m); err != nil {
		return nil, err
	}
	return s, nil
}

// DecodeScene validates and decodes a JSON scene document.
func DecodeScene(data []byte) (*Scene, error) {
	if err := ValidateScene(data); err != nil {
		return nil, err
	}
	var doc sceneDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}

	s := NewScene()
	for _, md := range doc.Meshes {
		m, err := md.toMesh()
		if err != nil {
			return nil, err
		}
		if _, err := s.Pool.Add(m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
		}
	}
	for _, od := range doc.Objects {
		o := &Object{
			Name:     od.Name,
			Type:     ObjectType(od.Type),
			Data:     MeshID(od.Data),
			Mode:     Mode(od.Mode),
			Selected: od.Selected,
		}
		if o.Mode == "" {
			o.Mode = ModeObject
		}
		if o.IsMesh() {
			if _, ok := s.Pool.Get(o.Data); !ok {
				return nil, fmt.Errorf("%w: object %q: %s: %v", ErrInvalidScene, o.Name, o.Data, ErrUnknownMesh)
			}
		}
		s.Objects = append(s.Objects, o)
	}
	return s, nil
}

func (md meshDoc) toMesh() (*Mesh, error) {
	m := NewMesh(md.Name)
	m.ID = MeshID(md.ID)
	for _, p := range md.Positions {
		m.AddVertex(p[0], p[1], p[2])
	}
	for fi, fd := range md.Faces {
		verts := make([]int, len(fd.Loops))
		uvs := make([]mgl64.Vec2, len(fd.Loops))
		for i, ld := range fd.Loops {
			uvs[i] = mgl64.Vec2{ld.UV[0], ld.UV[1]}
			if ld.Vert == nil {
				verts[i] = m.AddVertex(ld.UV[0], ld.UV[1], 0)
				continue
			}
			if *ld.Vert >= len(m.Positions) {
				return nil, fmt.Errorf("%w: mesh %s face %d: vertex %d out of range", ErrInvalidScene, md.ID, fi, *ld.Vert)
			}
			verts[i] = *ld.Vert
		}
		f, err := m.AddFace(verts, uvs)
		if err != nil {
			return nil, fmt.Errorf("%w: mesh %s: %v", ErrInvalidScene, md.ID, err)
		}
		m.Faces[f].Selected = fd.Selected
		for i, l := range m.Faces[f].Loops {
			m.Loops[l].Selected = fd.Loops[i].Selected
		}
	}
	if md.HasUV != nil {
		m.SetHasUV(*md.HasUV)
	}
	return m, nil
}

// Encode writes the scene as an indented JSON document.
func (s *Scene) Encode(w io.Writer) error {
	doc := sceneDoc{
		Meshes:  make([]meshDoc, 0, s.Pool.Len()),
		Objects: make([]objectDoc, 0, len(s.Objects)),
	}
	for _, m := range s.Pool.Meshes() {
		doc.Meshes = append(doc.Meshes, newMeshDoc(m))
	}
	for _, o := range s.Objects {
		doc.Objects = append(doc.Objects, objectDoc{
			Name:     o.Name,
			Type:     string(o.Type),
			Data:     string(o.Data),
			Mode:     string(o.Mode),
			Selected: o.Selected,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (s *Scene) Save(fileName string) error {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return fmt.Errorf("could not encode scene: %w", err)
	}
	if err := os.WriteFile(fileName, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("could not write scene file %s: %w", fileName, err)
	}
	return nil
}

func newMeshDoc(m *Mesh) meshDoc {
	hasUV := m.HasUV()
	md := meshDoc{
		ID:        string(m.ID),
		Name:      m.Name,
		HasUV:     &hasUV,
		Positions: make([][3]float64, len(m.Positions)),
		Faces:     make([]faceDoc, len(m.Faces)),
	}
	for i, p := range m.Positions {
		md.Positions[i] = [3]float64{p[0], p[1], p[2]}
	}
	for fi, f := range m.Faces {
		fd := faceDoc{Loops: make([]loopDoc, len(f.Loops)), Selected: f.Selected}
		for i, l := range f.Loops {
			loop := m.Loops[l]
			vert := loop.Vert
			fd.Loops[i] = loopDoc{Vert: &vert, UV: [2]float64{loop.UV[0], loop.UV[1]}, Selected: loop.Selected}
		}
		md.Faces[fi] = fd
	}
	return md
}
