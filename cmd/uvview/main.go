package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/smasonuk/uvalign"
	"github.com/smasonuk/uvalign/internal/config"
	applog "github.com/smasonuk/uvalign/internal/log"
	"github.com/smasonuk/uvalign/internal/viewer"
)

func main() {
	configPath := flag.String("config", "", "config file (default: user config dir)")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: uvview [-config file] <scene.json|mesh.ply>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("uvview")

	scene, err := uvalign.OpenScene(flag.Arg(0))
	if err != nil {
		l.Error("load failed", slog.Any("err", err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	g := viewer.NewGame(scene, uvalign.NewAligner(cfg.AlignOptions(), l), cfg.Preview.Width, cfg.Preview.Height, cfg.Preview.Padding)
	if err := viewer.Run(g, "uvview - "+flag.Arg(0)); err != nil {
		l.Error("viewer failed", slog.Any("err", err))
		os.Exit(1)
	}
}
