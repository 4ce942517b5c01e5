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
	cfg := dataset.DefaultInspectConfig()

	shape := fmt.Sprintf("%d,%d", cfg.Height, cfg.Width)
	verbose := false
	flag.StringVar(&cfg.Dir, "dir", cfg.Dir, "dataset directory containing "+dataset.MetaFileName)
	flag.IntVar(&cfg.Index, "index", cfg.Index, "sample index i")
	flag.StringVar(&cfg.Out, "out", cfg.Out, "output image (.png, .bmp, .tif, .jpg)")
	flag.StringVar(&shape, "shape", shape, "H,W")
	flag.IntVar(&cfg.Scale, "scale", cfg.Scale, "integer upscale factor for the preview")
	flag.BoolVar(&cfg.Verify, "verify", cfg.Verify, "check artifact sizes and labels first")
	flag.BoolVar(&verbose, "v", verbose, "debug logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var err error
	if cfg.Height, cfg.Width, err = dataset.ParseShape(shape); err != nil {
		fatal(err)
	}
	cfg.Log = log.Logger

	s, err := dataset.Inspect(cfg)
	if err != nil {
		fatal(err)
	}

	if err := s.WriteSummary(os.Stdout); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	log.Error().Err(err).Msg("inspect failed")
	os.Exit(1)
}
