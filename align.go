package uvalign

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// Options tunes the alignment pipeline.
//
// Tolerance > 0 snaps UVs to a grid of that size before comparing edges. This
// joins islands split only by floating round-off but may also merge islands
// that are visually close yet distinct. Tolerance 0 compares coordinates
// exactly.
type Options struct {
	Tolerance         float64
	RespectSelection  bool
	DegenerateEpsilon float64
}

func DefaultOptions() Options {
	return Options{
		Tolerance:         0,
		RespectSelection:  true,
		DegenerateEpsilon: DegenerateEpsilon,
	}
}

func (o Options) Validate() error {
	if !validTolerance(o.Tolerance) {
		return fmt.Errorf("tolerance %v: %w", o.Tolerance, ErrInvalidTolerance)
	}
	if o.DegenerateEpsilon < 0 || math.IsNaN(o.DegenerateEpsilon) || math.IsInf(o.DegenerateEpsilon, 0) {
		return fmt.Errorf("degenerate epsilon %v must be finite and >= 0", o.DegenerateEpsilon)
	}
	return nil
}

// MeshResult counts the islands handled in one mesh.
type MeshResult struct {
	Islands    int
	Rotated    int
	Degenerate int
}

// AlignMesh rotates every island formed by faces so its longest UV edge is
// horizontal. Degenerate islands are counted but left untouched. A mesh
// without UVs fails with ErrNoUVLayer before anything is modified.
func AlignMesh(acc Accessor, faces []int, opts Options) (MeshResult, error) {
	var res MeshResult
	if err := opts.Validate(); err != nil {
		return res, err
	}
	islands, err := BuildIslands(acc, faces, opts.Tolerance)
	if err != nil {
		return res, err
	}
	for _, isl := range islands {
		if isl.Len() == 0 {
			continue
		}
		res.Islands++
		angle, ok := AlignmentAngle(acc, isl, opts.DegenerateEpsilon)
		if !ok {
			res.Degenerate++
			continue
		}
		pivot := Centroid(acc, isl)
		RotateIsland(acc, isl, angle, pivot)
		res.Rotated++
	}
	return res, nil
}

// Skip records a mesh that could not be processed.
type Skip struct {
	Mesh   MeshID
	Object string
	Err    error
}

// Report aggregates one invocation.
type Report struct {
	Meshes  int
	Islands int
	Skipped []Skip
}

func (r Report) Summary() string {
	return fmt.Sprintf("Processed %d mesh(es). Islands aligned: %d", r.Meshes, r.Islands)
}

// SkipSummary describes the skipped meshes, or returns "" when none were.
func (r Report) SkipSummary() string {
	if len(r.Skipped) == 0 {
		return ""
	}
	return fmt.Sprintf("Skipped %d mesh(es) without usable UVs", len(r.Skipped))
}

// Aligner drives the pipeline over the selected objects of a scene.
type Aligner struct {
	Options Options
	Logger  *slog.Logger
}

func NewAligner(opts Options, logger *slog.Logger) *Aligner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aligner{Options: opts, Logger: logger}
}

// Align processes every distinct mesh referenced by the selected mesh objects
// exactly once. It fails with ErrNoSelection, without touching anything, when
// no mesh object is selected. Per-mesh failures are recorded in the report and
// do not stop the batch.
func (a *Aligner) Align(scene *Scene) (Report, error) {
	var rep Report
	if err := a.Options.Validate(); err != nil {
		return rep, err
	}
	log := a.logger()
	groups := GroupByMesh(scene.SelectedObjects())
	if len(groups) == 0 {
		log.Warn("nothing to align", slog.Int("selected", len(scene.SelectedObjects())))
		return rep, ErrNoSelection
	}

	for _, g := range groups {
		obj := g.Representative
		res, err := a.processGroup(scene.Pool, g)
		if err != nil {
			if errors.Is(err, ErrNoUVLayer) || errors.Is(err, ErrUnknownMesh) {
				log.Warn("skipping mesh", slog.String("object", obj.Name), slog.String("mesh", string(g.Mesh)), slog.Any("err", err))
				rep.Skipped = append(rep.Skipped, Skip{Mesh: g.Mesh, Object: obj.Name, Err: err})
				continue
			}
			return rep, fmt.Errorf("align %q: %w", obj.Name, err)
		}
		log.Debug("mesh aligned",
			slog.String("object", obj.Name),
			slog.String("mode", string(obj.Mode)),
			slog.Int("users", len(g.Members)),
			slog.Int("islands", res.Islands),
			slog.Int("rotated", res.Rotated),
			slog.Int("degenerate", res.Degenerate))
		rep.Meshes++
		rep.Islands += res.Islands
	}
	if len(rep.Skipped) > 0 {
		log.Warn(rep.SkipSummary(), slog.Int("skipped", len(rep.Skipped)))
	}
	log.Info(rep.Summary())
	return rep, nil
}

func (a *Aligner) processGroup(pool *Pool, g Group) (MeshResult, error) {
	me, ok := pool.Get(g.Mesh)
	if !ok {
		return MeshResult{}, fmt.Errorf("%s: %w", g.Mesh, ErrUnknownMesh)
	}
	if g.Representative.Mode == ModeEdit {
		return a.alignEdit(me)
	}
	return a.alignObject(me)
}

// alignEdit works on the live mesh shared by every user of the datablock and
// honours the current selection.
func (a *Aligner) alignEdit(me *Mesh) (MeshResult, error) {
	faces := AllFaces(me)
	if a.Options.RespectSelection {
		faces = SelectedFaces(me)
	}
	res, err := AlignMesh(me, faces, a.Options)
	if err != nil {
		return res, err
	}
	me.Commit()
	return res, nil
}

// alignObject works on a detached copy of the whole mesh and writes the UVs
// back once done.
func (a *Aligner) alignObject(me *Mesh) (MeshResult, error) {
	work := me.Copy()
	res, err := AlignMesh(work, AllFaces(work), a.Options)
	if err != nil {
		return res, err
	}
	if err := me.WriteBackUVs(work); err != nil {
		return res, err
	}
	me.Commit()
	return res, nil
}

func (a *Aligner) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}
