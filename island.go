package uvalign

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Island is a maximal set of faces connected through shared UV edges. Faces are
// listed in the order they appeared in the input.
type Island struct {
	Faces []int
}

func (isl Island) Len() int { return len(isl.Faces) }

// BuildIslands partitions faces into UV islands. Two faces are adjacent when
// they present the same edge key under tolerance tol. Islands are returned in
// the order their first face appears in faces.
func BuildIslands(acc Accessor, faces []int, tol float64) ([]Island, error) {
	if !acc.HasUV() {
		return nil, ErrNoUVLayer
	}
	if !validTolerance(tol) {
		return nil, ErrInvalidTolerance
	}
	faces = uniqueFaces(faces)
	if len(faces) == 0 {
		return nil, nil
	}

	g := buildAdjacency(acc, faces, tol)

	component := make(map[int]int, len(faces))
	count := 0
	dfs := traverse.DepthFirst{
		Visit: func(n graph.Node) {
			component[int(n.ID())] = count
		},
	}
	for _, f := range faces {
		n := g.Node(int64(f))
		if dfs.Visited(n) {
			continue
		}
		dfs.Walk(g, n, nil)
		count++
	}

	islands := make([]Island, count)
	for _, f := range faces {
		c := component[f]
		islands[c].Faces = append(islands[c].Faces, f)
	}
	return islands, nil
}

// buildAdjacency links faces that share an edge key. Faces listed under one key
// are chained rather than fully connected; the components are the same.
func buildAdjacency(acc Accessor, faces []int, tol float64) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	edgeFaces := make(map[EdgeKey][]int)
	for _, f := range faces {
		g.AddNode(simple.Node(f))
		forEachEdge(acc, f, func(a, b mgl64.Vec2) {
			k := NewEdgeKey(a, b, tol)
			edgeFaces[k] = append(edgeFaces[k], f)
		})
	}
	for _, list := range edgeFaces {
		for i := 1; i < len(list); i++ {
			if list[i-1] == list[i] {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(list[i-1]), T: simple.Node(list[i])})
		}
	}
	return g
}
