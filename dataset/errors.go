package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned by Build when no sample was collected.
	ErrEmptyDataset = errors.New("no images found")

	// ErrShapeMismatch matches every *ShapeMismatchError.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrOutOfRange matches every *OutOfRangeError.
	ErrOutOfRange = errors.New("index out of range")

	// ErrInvalidMeta is wrapped by every metadata validation failure.
	ErrInvalidMeta = errors.New("invalid metadata")
)

// ShapeMismatchError reports an image or a requested shape whose size does
// not match the dataset's dimensionality.
//
// Path is empty when the mismatch is between a caller supplied shape and
// the recorded d.
type ShapeMismatchError struct {
	Path          string
	Height, Width int
	Got           int
	GotH, GotW    int
	cause         error
}

func (e *ShapeMismatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("shape mismatch: expected %dx%d, got %dx%d for %s", e.Height, e.Width, e.GotH, e.GotW, e.Path)
	}
	return fmt.Sprintf("shape mismatch: shape %dx%d != d=%d", e.Height, e.Width, e.Got)
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

func (e *ShapeMismatchError) Unwrap() error { return e.cause }

// OutOfRangeError reports a row or label read that ran past the end of an
// artifact, either because Index >= n or because the file is truncated.
type OutOfRangeError struct {
	What  string // "row" or "label"
	Index int
	File  string
	cause error
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %d out of range (file too small?): %s", e.What, e.Index, e.File)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

func (e *OutOfRangeError) Unwrap() error { return e.cause }

func invalidMeta(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidMeta, fmt.Sprintf(format, args...))
}
