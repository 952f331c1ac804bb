// Package viewer is an interactive ebiten window showing the UV layout of a
// scene. A aligns the selection, R restores the loaded UVs and Tab cycles
// through the meshes.
package viewer

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/smasonuk/uvalign"
	"github.com/smasonuk/uvalign/internal/preview"
)

var (
	backgroundColor = color.RGBA{R: 32, G: 32, B: 36, A: 255}
	outlineColor    = color.RGBA{R: 20, G: 20, B: 20, A: 255}
)

type Game struct {
	scene    *uvalign.Scene
	aligner  *uvalign.Aligner
	log      *slog.Logger
	original map[uvalign.MeshID][]mgl64.Vec2

	meshes  []*uvalign.Mesh
	current int
	islands []uvalign.Island
	status  string

	width, height, padding int
}

func NewGame(scene *uvalign.Scene, aligner *uvalign.Aligner, width, height, padding int) *Game {
	logger := aligner.Logger
	if logger == nil {
		logger = slog.Default()
	}
	g := &Game{
		scene:    scene,
		aligner:  aligner,
		log:      logger.With(slog.String("component", "viewer")),
		original: make(map[uvalign.MeshID][]mgl64.Vec2),
		meshes:   scene.Pool.Meshes(),
		width:    width,
		height:   height,
		padding:  padding,
	}
	for _, m := range g.meshes {
		g.original[m.ID] = snapshotUVs(m)
	}
	g.refresh("A: align  R: reset  Tab: next mesh")
	return g
}

func snapshotUVs(m *uvalign.Mesh) []mgl64.Vec2 {
	uvs := make([]mgl64.Vec2, len(m.Loops))
	for i, l := range m.Loops {
		uvs[i] = l.UV
	}
	return uvs
}

func (g *Game) mesh() *uvalign.Mesh {
	if len(g.meshes) == 0 {
		return nil
	}
	return g.meshes[g.current]
}

func (g *Game) refresh(status string) {
	g.status = status
	g.islands = nil
	m := g.mesh()
	if m == nil {
		g.status = "scene has no meshes"
		return
	}
	islands, err := uvalign.BuildIslands(m, uvalign.AllFaces(m), g.aligner.Options.Tolerance)
	if err != nil {
		g.status = fmt.Sprintf("%s: %v", m.Name, err)
		return
	}
	g.islands = islands
}

func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		rep, err := g.aligner.Align(g.scene)
		if errors.Is(err, uvalign.ErrNoSelection) {
			g.refresh("Select at least one mesh object")
			return nil
		}
		if err != nil {
			return err
		}
		status := rep.Summary()
		if s := rep.SkipSummary(); s != "" {
			status += "\n" + s
		}
		g.refresh(status)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		for _, m := range g.meshes {
			for i, uv := range g.original[m.ID] {
				m.Loops[i].UV = uv
			}
			m.Commit()
		}
		g.log.Debug("uvs restored", slog.Int("meshes", len(g.meshes)))
		g.refresh("restored")
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		if len(g.meshes) > 0 {
			g.current = (g.current + 1) % len(g.meshes)
		}
		g.refresh(g.status)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	m := g.mesh()
	if m != nil && len(g.islands) > 0 {
		layout := preview.NewLayout(m, uvalign.AllFaces(m), g.width, g.height, g.padding)
		palette := preview.Palette(len(g.islands))
		for i, isl := range g.islands {
			for _, f := range isl.Faces {
				xp, yp := layout.FacePolygon(m, f)
				fillPolygon(screen, xp, yp, palette[i])
				drawPolygonOutline(screen, xp, yp, 1, outlineColor)
			}
		}
	}
	name := ""
	if m != nil {
		name = m.Name
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  islands=%d\n%s", name, len(g.islands), g.status))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run opens the viewer window and blocks until it is closed.
func Run(g *Game, title string) error {
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(title)
	return ebiten.RunGame(g)
}
