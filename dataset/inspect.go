package dataset

import (
	"fmt"
	"io"

	"github.com/b0tShaman/medimg/data"
	"github.com/b0tShaman/medimg/ml"
)

// Sample is one decoded row with its label.
type Sample struct {
	Index     int
	Label     uint8
	LabelName string
	Features  []float32
	Min, Max  float64
	Out       string // path of the rendered image
}

// Inspect reads row cfg.Index and its label from the dataset in cfg.Dir and
// renders the row as a grayscale image at cfg.Out.
func Inspect(cfg InspectConfig) (*Sample, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	meta, err := LoadMeta(cfg.Dir)
	if err != nil {
		return nil, err
	}
	if cfg.Height*cfg.Width != meta.D {
		return nil, &ShapeMismatchError{Height: cfg.Height, Width: cfg.Width, Got: meta.D}
	}

	r, err := OpenWithMeta(cfg.Dir, meta)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if cfg.Verify {
		if err := r.Verify(); err != nil {
			return nil, err
		}
	}

	row, err := r.Row(cfg.Index)
	if err != nil {
		return nil, err
	}
	label, err := r.Label(cfg.Index)
	if err != nil {
		return nil, err
	}
	cfg.Log.Debug().Int("index", cfg.Index).Uint8("label", label).Msg("read sample")

	m, err := ml.NewMatrixFromF32(1, meta.D, row)
	if err != nil {
		return nil, err
	}

	img, err := data.VectorToGray(row, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	if err := data.SaveGray(cfg.Out, data.Upscale(img, cfg.Scale)); err != nil {
		return nil, err
	}

	return &Sample{
		Index:     cfg.Index,
		Label:     label,
		LabelName: meta.LabelName(label),
		Features:  row,
		Min:       m.Min(),
		Max:       m.Max(),
		Out:       cfg.Out,
	}, nil
}

// WriteSummary prints the index, the label with its name, the value range
// and the written image path.
func (s *Sample) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintf(w, "index: %d\nlabel: %d (%s)\nmin/max: %.4f / %.4f\nwrote: %s\n",
		s.Index, s.Label, s.LabelName, s.Min, s.Max, s.Out)
	return err
}
