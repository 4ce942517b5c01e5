package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	MetaFileName    = "meta.json"
	FeatureFileName = "X_f32.bin"
	LabelFileName   = "y_u8.bin"

	DTypeF32     = "f32"
	DTypeU8      = "u8"
	EndianLittle = "little"
	LayoutRowMaj = "row-major"

	// MaxClasses is bounded by the one-byte label encoding.
	MaxClasses = 256
)

// Meta is the sidecar descriptor that parameterizes the two raw artifacts.
type Meta struct {
	N          int            `json:"n"`
	D          int            `json:"d"`
	Classes    []string       `json:"classes"`
	ClassToIdx map[string]int `json:"class_to_idx"`
	X          FeatureInfo    `json:"X"`
	Y          LabelInfo      `json:"y"`
}

// FeatureInfo describes the feature matrix file.
type FeatureInfo struct {
	File   string `json:"file"`
	DType  string `json:"dtype"`
	Endian string `json:"endian"`
	Layout string `json:"layout"`
}

// LabelInfo describes the label vector file.
type LabelInfo struct {
	File  string `json:"file"`
	DType string `json:"dtype"`
}

// NewMeta returns a descriptor for n samples of dimension d with the
// default file names and encoding tags.
func NewMeta(n, d int, classes []string) *Meta {
	if classes == nil {
		classes = []string{}
	}
	idx := make(map[string]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}
	return &Meta{
		N:          n,
		D:          d,
		Classes:    classes,
		ClassToIdx: idx,
		X:          FeatureInfo{File: FeatureFileName, DType: DTypeF32, Endian: EndianLittle, Layout: LayoutRowMaj},
		Y:          LabelInfo{File: LabelFileName, DType: DTypeU8},
	}
}

// RowBytes is the size in bytes of one feature row.
func (m *Meta) RowBytes() int64 { return int64(m.D) * 4 }

// LabelName resolves a label to its class name, falling back to the
// decimal label when no name is recorded.
func (m *Meta) LabelName(label uint8) string {
	if int(label) < len(m.Classes) {
		return m.Classes[label]
	}
	return fmt.Sprintf("%d", label)
}

// Validate checks the descriptor's internal consistency.
func (m *Meta) Validate() error {
	if m.N < 0 {
		return invalidMeta("n must be >= 0, got %d", m.N)
	}
	if m.D <= 0 {
		return invalidMeta("d must be > 0, got %d", m.D)
	}
	if len(m.Classes) > MaxClasses {
		return invalidMeta("%d classes exceed the u8 label range", len(m.Classes))
	}
	if err := checkFileName("X.file", m.X.File); err != nil {
		return err
	}
	if err := checkFileName("y.file", m.Y.File); err != nil {
		return err
	}
	if m.X.File == m.Y.File {
		return invalidMeta("X.file and y.file are both %q", m.X.File)
	}
	if m.X.DType != DTypeF32 {
		return invalidMeta("X.dtype %q unsupported (want %q)", m.X.DType, DTypeF32)
	}
	if m.X.Endian != EndianLittle {
		return invalidMeta("X.endian %q unsupported (want %q)", m.X.Endian, EndianLittle)
	}
	if m.X.Layout != LayoutRowMaj {
		return invalidMeta("X.layout %q unsupported (want %q)", m.X.Layout, LayoutRowMaj)
	}
	if m.Y.DType != DTypeU8 {
		return invalidMeta("y.dtype %q unsupported (want %q)", m.Y.DType, DTypeU8)
	}

	seen := make(map[string]bool, len(m.Classes))
	for _, c := range m.Classes {
		if seen[c] {
			return invalidMeta("duplicate class %q", c)
		}
		seen[c] = true
	}
	if m.ClassToIdx != nil {
		if len(m.ClassToIdx) != len(m.Classes) {
			return invalidMeta("class_to_idx has %d entries, classes has %d", len(m.ClassToIdx), len(m.Classes))
		}
		for i, c := range m.Classes {
			if got, ok := m.ClassToIdx[c]; !ok || got != i {
				return invalidMeta("class_to_idx[%q] does not match its position %d in classes", c, i)
			}
		}
	}
	return nil
}

func checkFileName(field, name string) error {
	if name == "" {
		return invalidMeta("missing required field %s", field)
	}
	if filepath.IsAbs(name) || name != filepath.Base(name) || name == "." || name == ".." {
		return invalidMeta("%s %q must be a plain file name", field, name)
	}
	return nil
}

// wire mirrors Meta with pointers so that absent required fields can be
// told apart from zero values.
type wire struct {
	N          *int           `json:"n"`
	D          *int           `json:"d"`
	Classes    []string       `json:"classes"`
	ClassToIdx map[string]int `json:"class_to_idx"`
	X          *FeatureInfo   `json:"X"`
	Y          *LabelInfo     `json:"y"`
}

// DecodeMeta parses a descriptor, rejecting unknown fields and missing
// required ones, then validates it.
func DecodeMeta(r io.Reader) (*Meta, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var w wire
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMeta, err)
	}
	if dec.More() {
		return nil, invalidMeta("trailing data after descriptor")
	}

	var missing []string
	if w.N == nil {
		missing = append(missing, "n")
	}
	if w.D == nil {
		missing = append(missing, "d")
	}
	if w.X == nil {
		missing = append(missing, "X")
	}
	if w.Y == nil {
		missing = append(missing, "y")
	}
	if len(missing) > 0 {
		return nil, invalidMeta("missing required field(s) %s", strings.Join(missing, ", "))
	}

	m := &Meta{
		N:          *w.N,
		D:          *w.D,
		Classes:    w.Classes,
		ClassToIdx: w.ClassToIdx,
		X:          *w.X,
		Y:          *w.Y,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadMeta reads and validates <dir>/meta.json.
func LoadMeta(dir string) (*Meta, error) {
	path := filepath.Join(dir, MetaFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := DecodeMeta(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Encode writes the descriptor as two-space indented JSON.
func (m *Meta) Encode(w io.Writer) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
