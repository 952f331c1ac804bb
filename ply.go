package uvalign

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

type plyProperty struct {
	name string
	list bool
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

func (e *plyElement) has(names ...string) bool {
	for _, p := range e.props {
		for _, n := range names {
			if p.name == n {
				return true
			}
		}
	}
	return false
}

// plyRow is one parsed element line: scalar properties by name and list
// properties by name.
type plyRow struct {
	scalars map[string]float64
	lists   map[string][]float64
}

func (r plyRow) scalar(names ...string) (float64, bool) {
	for _, n := range names {
		if v, ok := r.scalars[n]; ok {
			return v, true
		}
	}
	return 0, false
}

func (r plyRow) list(names ...string) ([]float64, bool) {
	for _, n := range names {
		if v, ok := r.lists[n]; ok {
			return v, true
		}
	}
	return nil, false
}

var (
	plyUNames = []string{"s", "u", "texture_u"}
	plyVNames = []string{"t", "v", "texture_v"}
)

func LoadMeshFromPLYFile(fileName string) (*Mesh, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("could not open PLY file %s: %w", fileName, err)
	}
	defer file.Close()

	m, err := LoadMeshFromPLYReader(file)
	if err != nil {
		return nil, fmt.Errorf("error parsing PLY file %s: %w", fileName, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	}
	return m, nil
}

// LoadMeshFromPLYReader reads an ASCII PLY mesh. UVs are taken from a per-face
// "texcoord" list when present, otherwise from per-vertex s/t (or u/v,
// texture_u/texture_v) properties. A file with neither loads without a UV layer.
func LoadMeshFromPLYReader(reader io.Reader) (*Mesh, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	elements, err := readPLYHeader(scanner)
	if err != nil {
		return nil, err
	}

	m := NewMesh("")
	var vertexUVs []mgl64.Vec2
	hasVertexUV, hasFaceUV := false, false

	for _, el := range elements {
		switch el.name {
		case "vertex":
			hasVertexUV = el.has(plyUNames...) && el.has(plyVNames...)
		case "face":
			hasFaceUV = el.has("texcoord")
		}
		for i := 0; i < el.count; i++ {
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected end of file while reading %s %d", el.name, i)
			}
			row, err := parsePLYRow(el, strings.Fields(scanner.Text()))
			if err != nil {
				return nil, fmt.Errorf("invalid %s data on line %d: %w", el.name, i, err)
			}
			switch el.name {
			case "vertex":
				x, _ := row.scalar("x")
				y, _ := row.scalar("y")
				z, _ := row.scalar("z")
				m.AddVertex(x, y, z)
				if hasVertexUV {
					u, _ := row.scalar(plyUNames...)
					v, _ := row.scalar(plyVNames...)
					vertexUVs = append(vertexUVs, mgl64.Vec2{u, v})
				}
			case "face":
				if err := addPLYFace(m, row, vertexUVs, hasFaceUV); err != nil {
					return nil, fmt.Errorf("invalid face data on line %d: %w", i, err)
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from PLY source: %w", err)
	}
	m.SetHasUV(hasVertexUV || hasFaceUV)
	return m, nil
}

func readPLYHeader(scanner *bufio.Scanner) ([]*plyElement, error) {
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return nil, fmt.Errorf("missing ply magic")
	}
	var elements []*plyElement
	var current *plyElement
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "format":
			if len(parts) < 2 || parts[1] != "ascii" {
				return nil, fmt.Errorf("unsupported PLY format %q", strings.Join(parts[1:], " "))
			}
		case "element":
			if len(parts) != 3 {
				return nil, fmt.Errorf("malformed element line %q", scanner.Text())
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("bad element count %q", parts[2])
			}
			current = &plyElement{name: parts[1], count: count}
			elements = append(elements, current)
		case "property":
			if current == nil {
				return nil, fmt.Errorf("property before element")
			}
			if len(parts) == 5 && parts[1] == "list" {
				current.props = append(current.props, plyProperty{name: parts[4], list: true})
			} else if len(parts) == 3 {
				current.props = append(current.props, plyProperty{name: parts[2]})
			} else {
				return nil, fmt.Errorf("malformed property line %q", scanner.Text())
			}
		case "end_header":
			return elements, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("missing end_header")
}

func parsePLYRow(el *plyElement, parts []string) (plyRow, error) {
	row := plyRow{scalars: make(map[string]float64), lists: make(map[string][]float64)}
	pos := 0
	next := func() (float64, error) {
		if pos >= len(parts) {
			return 0, fmt.Errorf("expected more values")
		}
		v, err := strconv.ParseFloat(parts[pos], 64)
		pos++
		return v, err
	}
	for _, p := range el.props {
		if !p.list {
			v, err := next()
			if err != nil {
				return row, fmt.Errorf("property %s: %w", p.name, err)
			}
			row.scalars[p.name] = v
			continue
		}
		if pos >= len(parts) {
			return row, fmt.Errorf("list %s: missing length", p.name)
		}
		n, err := strconv.Atoi(parts[pos])
		pos++
		if err != nil || n < 0 || n > len(parts)-pos {
			return row, fmt.Errorf("list %s: bad length %q", p.name, parts[pos-1])
		}
		vals := make([]float64, n)
		for j := range vals {
			if vals[j], err = next(); err != nil {
				return row, fmt.Errorf("list %s: %w", p.name, err)
			}
		}
		row.lists[p.name] = vals
	}
	return row, nil
}

func addPLYFace(m *Mesh, row plyRow, vertexUVs []mgl64.Vec2, hasFaceUV bool) error {
	idx, ok := row.list("vertex_indices", "vertex_index")
	if !ok {
		return fmt.Errorf("face without vertex_indices")
	}
	verts := make([]int, len(idx))
	for j, v := range idx {
		verts[j] = int(v)
		if verts[j] < 0 || verts[j] >= len(m.Positions) {
			return fmt.Errorf("vertex index %d out of range", verts[j])
		}
	}

	var uvs []mgl64.Vec2
	if hasFaceUV {
		tc, _ := row.list("texcoord")
		if len(tc) != 2*len(verts) {
			return fmt.Errorf("texcoord has %d values for %d vertices", len(tc), len(verts))
		}
		uvs = make([]mgl64.Vec2, len(verts))
		for j := range verts {
			uvs[j] = mgl64.Vec2{tc[2*j], tc[2*j+1]}
		}
	} else if vertexUVs != nil {
		uvs = make([]mgl64.Vec2, len(verts))
		for j, v := range verts {
			uvs[j] = vertexUVs[v]
		}
	}
	_, err := m.AddFace(verts, uvs)
	return err
}

func (m *Mesh) SavePLY(fileName string) error {
	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("could not create PLY file %s: %w", fileName, err)
	}
	defer file.Close()

	if err := m.WritePLY(file); err != nil {
		return fmt.Errorf("could not write PLY file %s: %w", fileName, err)
	}
	return file.Close()
}

// WritePLY writes the mesh as ASCII PLY with per-corner texcoords.
func (m *Mesh) WritePLY(w io.Writer) error {
	writer := bufio.NewWriter(w)

	_, _ = fmt.Fprintln(writer, "ply")
	_, _ = fmt.Fprintln(writer, "format ascii 1.0")
	_, _ = fmt.Fprintln(writer, "comment Generated by uvalign")
	_, _ = fmt.Fprintf(writer, "element vertex %d\n", len(m.Positions))
	_, _ = fmt.Fprintln(writer, "property float x")
	_, _ = fmt.Fprintln(writer, "property float y")
	_, _ = fmt.Fprintln(writer, "property float z")
	_, _ = fmt.Fprintf(writer, "element face %d\n", len(m.Faces))
	_, _ = fmt.Fprintln(writer, "property list uchar int vertex_indices")
	if m.HasUV() {
		_, _ = fmt.Fprintln(writer, "property list uchar float texcoord")
	}
	_, _ = fmt.Fprintln(writer, "end_header")

	for _, p := range m.Positions {
		_, _ = fmt.Fprintf(writer, "%s %s %s\n", formatFloat(p[0]), formatFloat(p[1]), formatFloat(p[2]))
	}

	for _, f := range m.Faces {
		_, _ = fmt.Fprintf(writer, "%d", len(f.Loops))
		for _, l := range f.Loops {
			_, _ = fmt.Fprintf(writer, " %d", m.Loops[l].Vert)
		}
		if m.HasUV() {
			_, _ = fmt.Fprintf(writer, " %d", 2*len(f.Loops))
			for _, l := range f.Loops {
				uv := m.Loops[l].UV
				_, _ = fmt.Fprintf(writer, " %s %s", formatFloat(uv[0]), formatFloat(uv[1]))
			}
		}
		_, _ = fmt.Fprintln(writer)
	}

	return writer.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
