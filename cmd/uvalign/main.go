package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/smasonuk/uvalign"
	"github.com/smasonuk/uvalign/internal/config"
	applog "github.com/smasonuk/uvalign/internal/log"
	"github.com/smasonuk/uvalign/internal/preview"
)

func usage() {
	fmt.Println("uvalign - rotate UV islands so their longest edge is horizontal")
	fmt.Printf("Version: %s\n", uvalign.Version)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  uvalign align [flags] <in.json|in.ply>              Align islands of the selected meshes")
	fmt.Println("  uvalign islands [flags] <in.json|in.ply>            Print the islands of every mesh")
	fmt.Println("  uvalign snapshot [flags] <in> <out.png|out.pdf>     Render the UV layout")
	fmt.Println("  uvalign version                                     Show version")
	fmt.Println()
	fmt.Println("Run 'uvalign <command> -h' for the flags of a command.")
}

type commonFlags struct {
	configPath string
	tolerance  float64
	all        bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "config file (default: user config dir)")
	fs.Float64Var(&c.tolerance, "tolerance", -1, "UV snapping grid for edge matching, 0 for exact (default: from config)")
	fs.BoolVar(&c.all, "all", false, "ignore the face selection in edit mode")
}

// load reads the config and applies the command line overrides.
func (c *commonFlags) load() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.tolerance >= 0 {
		cfg.Align.Tolerance = c.tolerance
	}
	if c.all {
		cfg.Align.RespectSelection = false
	}
	return cfg, cfg.AlignOptions().Validate()
}

func initLogging(cfg config.Config) *slog.Logger {
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	return applog.WithComponent("cli")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "version", "--version", "-v":
		fmt.Println(uvalign.Version)
		return
	case "help", "--help", "-h":
		usage()
		return
	case "align":
		err = runAlign(os.Args[2:])
	case "islands":
		err = runIslands(os.Args[2:])
	case "snapshot":
		err = runSnapshot(os.Args[2:])
	default:
		fmt.Printf("unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		if errors.Is(err, uvalign.ErrNoSelection) {
			fmt.Fprintln(os.Stderr, "Select at least one mesh object")
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func runAlign(args []string) error {
	fs := flag.NewFlagSet("align", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	out := fs.String("o", "", "output file (default: overwrite the input)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("align requires exactly one input file")
	}
	in := fs.Arg(0)

	cfg, err := common.load()
	if err != nil {
		return err
	}
	l := applog.WithOperation(initLogging(cfg), "align")

	scene, err := uvalign.OpenScene(in)
	if err != nil {
		return err
	}
	l.Debug("scene loaded", slog.String("file", in), slog.Int("meshes", scene.Pool.Len()), slog.Int("objects", len(scene.Objects)))

	rep, err := uvalign.NewAligner(cfg.AlignOptions(), l).Align(scene)
	if err != nil {
		return err
	}
	for _, s := range rep.Skipped {
		fmt.Printf("skipped %s: %v\n", s.Object, s.Err)
	}

	dst := *out
	if dst == "" {
		dst = in
	}
	if err := saveScene(scene, dst); err != nil {
		return err
	}
	fmt.Println(rep.Summary())
	if s := rep.SkipSummary(); s != "" {
		fmt.Println(s)
	}
	return nil
}

// saveScene writes a PLY when the target is a .ply file, which holds a single
// mesh, and a JSON scene otherwise.
func saveScene(scene *uvalign.Scene, fileName string) error {
	if !strings.EqualFold(filepath.Ext(fileName), ".ply") {
		return scene.Save(fileName)
	}
	meshes := scene.Pool.Meshes()
	if len(meshes) != 1 {
		return fmt.Errorf("cannot write %d meshes to PLY file %s", len(meshes), fileName)
	}
	return meshes[0].SavePLY(fileName)
}

func runIslands(args []string) error {
	fs := flag.NewFlagSet("islands", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("islands requires exactly one input file")
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	l := applog.WithOperation(initLogging(cfg), "islands")

	scene, err := uvalign.OpenScene(fs.Arg(0))
	if err != nil {
		return err
	}
	opts := cfg.AlignOptions()
	for _, m := range scene.Pool.Meshes() {
		islands, err := uvalign.BuildIslands(m, uvalign.AllFaces(m), opts.Tolerance)
		if errors.Is(err, uvalign.ErrNoUVLayer) {
			fmt.Printf("%s: no UV layer\n", m.Name)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", m.Name, err)
		}
		fmt.Printf("%s: %d island(s)\n", m.Name, len(islands))
		for i, isl := range islands {
			angle, ok := uvalign.AlignmentAngle(m, isl, opts.DegenerateEpsilon)
			c := uvalign.Centroid(m, isl)
			if !ok {
				fmt.Printf("  #%d faces=%d centroid=(%.4f, %.4f) degenerate\n", i, isl.Len(), c[0], c[1])
				continue
			}
			fmt.Printf("  #%d faces=%d centroid=(%.4f, %.4f) rotation=%.4f rad\n", i, isl.Len(), c[0], c[1], angle)
		}
		l.Debug("islands listed", slog.String("mesh", m.Name), slog.Int("islands", len(islands)))
	}
	return nil
}

func runSnapshot(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	meshName := fs.String("mesh", "", "mesh to render (default: first mesh)")
	fs.Parse(args)
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("snapshot requires an input and an output file")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	cfg, err := common.load()
	if err != nil {
		return err
	}
	l := applog.WithOperation(initLogging(cfg), "snapshot")

	scene, err := uvalign.OpenScene(in)
	if err != nil {
		return err
	}
	m, err := pickMesh(scene, *meshName)
	if err != nil {
		return err
	}
	islands, err := uvalign.BuildIslands(m, uvalign.AllFaces(m), cfg.Align.Tolerance)
	if err != nil {
		return fmt.Errorf("%s: %w", m.Name, err)
	}

	switch strings.ToLower(filepath.Ext(out)) {
	case ".pdf":
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("could not create PDF file %s: %w", out, err)
		}
		defer f.Close()
		if err := preview.WritePDF(m, islands, f); err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	case ".png":
		img := preview.Rasterize(m, islands, cfg.Preview.Width, cfg.Preview.Height, cfg.Preview.Padding)
		if err := preview.WritePNG(img, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported snapshot format %q", filepath.Ext(out))
	}
	l.Info("snapshot written", slog.String("mesh", m.Name), slog.String("file", out), slog.Int("islands", len(islands)))
	fmt.Println("Wrote", out)
	return nil
}

func pickMesh(scene *uvalign.Scene, name string) (*uvalign.Mesh, error) {
	meshes := scene.Pool.Meshes()
	if len(meshes) == 0 {
		return nil, errors.New("scene has no meshes")
	}
	if name == "" {
		return meshes[0], nil
	}
	for _, m := range meshes {
		if m.Name == name || string(m.ID) == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("mesh %q: %w", name, uvalign.ErrUnknownMesh)
}
