package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/b0tShaman/medimg/dataset"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func main() {
	cfg := dataset.DefaultBuildConfig()

	shape := fmt.Sprintf("%d,%d", cfg.Height, cfg.Width)
	exts := "jpg,jpeg,png"
	verbose := false
	flag.StringVar(&cfg.Root, "root", cfg.Root, "directory of per-class image folders")
	flag.StringVar(&cfg.OutDir, "out-dir", cfg.OutDir, "output directory for the binary dataset")
	flag.StringVar(&shape, "shape", shape, "expected image shape H,W")
	flag.StringVar(&exts, "ext", exts, "comma separated accepted image extensions")
	flag.BoolVar(&verbose, "v", verbose, "debug logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var err error
	if cfg.Height, cfg.Width, err = dataset.ParseShape(shape); err != nil {
		fatal(err)
	}
	cfg.Extensions = dataset.ParseExtensions(exts)
	cfg.Log = log.Logger

	res, err := dataset.Build(cfg)
	if err != nil {
		fatal(err)
	}

	if err := res.WriteSummary(os.Stdout); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	log.Error().Err(err).Msg("build failed")
	os.Exit(1)
}
