package dataset

import (
	"errors"
	"fmt"
	"io"

	"github.com/b0tShaman/medimg/data"
	"github.com/b0tShaman/medimg/ml"
)

// BuildResult summarizes a finished build.
type BuildResult struct {
	Meta        *Meta
	Artifacts   []Artifact // feature matrix, labels, descriptor
	ClassCounts []int      // samples per class, indexed by label
	Stats       ml.Summary // over every feature cell
}

// Build converts the class tree under cfg.Root into the three artifacts in
// cfg.OutDir. Every image is decoded before anything is written, so a decode
// or shape error leaves the output directory untouched.
func Build(cfg BuildConfig) (*BuildResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log := cfg.Log

	items, err := data.CollectImages(cfg.Root, cfg.Extensions)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrEmptyDataset, cfg.Root)
	}

	classes := data.Classes(items)
	if len(classes) > MaxClasses {
		return nil, fmt.Errorf("%d classes found, labels are u8 and allow at most %d", len(classes), MaxClasses)
	}
	meta := NewMeta(len(items), cfg.Height*cfg.Width, classes)
	log.Debug().Int("files", len(items)).Strs("classes", classes).Msg("collected images")

	rows := make([][]float32, 0, len(items))
	labels := make([]uint8, 0, len(items))
	counts := make([]int, len(classes))
	for _, it := range items {
		vec, err := data.LoadGray1D(it.Path, cfg.Width, cfg.Height)
		if err != nil {
			var se *data.SizeError
			if errors.As(err, &se) {
				return nil, &ShapeMismatchError{
					Path:   se.Path,
					Height: se.WantH,
					Width:  se.WantW,
					Got:    se.GotH * se.GotW,
					GotH:   se.GotH,
					GotW:   se.GotW,
					cause:  err,
				}
			}
			return nil, err
		}
		label := meta.ClassToIdx[it.Class]
		rows = append(rows, vec)
		labels = append(labels, uint8(label))
		counts[label]++
	}

	artifacts, err := WriteDataset(cfg.OutDir, meta, rows, labels)
	if err != nil {
		return nil, err
	}
	for _, a := range artifacts {
		log.Debug().Str("path", a.Path).Int64("bytes", a.Size).Msg("wrote artifact")
	}

	return &BuildResult{
		Meta:        meta,
		Artifacts:   artifacts,
		ClassCounts: counts,
		Stats:       summarize(rows),
	}, nil
}

func summarize(rows [][]float32) ml.Summary {
	var s ml.Summarizer
	for _, row := range rows {
		s.AddF32(row)
	}
	return s.Summary()
}

// WriteSummary prints the written paths with their sizes, the array shapes,
// per-class counts and pixel statistics.
func (r *BuildResult) WriteSummary(w io.Writer) error {
	for _, a := range r.Artifacts {
		if _, err := fmt.Fprintf(w, "Wrote: %s (%d bytes)\n", a.Path, a.Size); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "X shape: (%d, %d)  y shape: (%d,)\n", r.Meta.N, r.Meta.D, r.Meta.N); err != nil {
		return err
	}
	for i, c := range r.Meta.Classes {
		if _, err := fmt.Fprintf(w, "  %3d %-20s %d samples\n", i, c, r.ClassCounts[i]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "pixel mean/std: %.4f / %.4f\n", r.Stats.Mean, r.Stats.Std)
	return err
}
