package data

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // Registers WebP format
)

// MaxIntensity is the largest 8-bit gray value; intensities are divided by it.
const MaxIntensity = 255.0

// SizeError reports an image whose decoded bounds differ from the expected size.
type SizeError struct {
	Path         string
	WantW, WantH int
	GotW, GotH   int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("expected %dx%d, got %dx%d for %s", e.WantW, e.WantH, e.GotW, e.GotH, e.Path)
}

// LoadGray1D decodes the image at path to grayscale and returns its
// row-major intensities normalized to [0,1]. The image must be exactly
// targetW x targetH; no resizing happens.
func LoadGray1D(path string, targetW, targetH int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	b := src.Bounds()
	if b.Dx() != targetW || b.Dy() != targetH {
		return nil, &SizeError{Path: path, WantW: targetW, WantH: targetH, GotW: b.Dx(), GotH: b.Dy()}
	}

	return GrayVector(ToGray(src)), nil
}

// ToGray converts any image to an 8-bit gray image anchored at (0,0).
// Alpha is ignored: non-premultiplied pixels keep their colour values, so a
// fully transparent white pixel is white.
func ToGray(src image.Image) *image.Gray {
	b := src.Bounds()
	switch s := src.(type) {
	case *image.Gray:
		if s.Rect.Min == (image.Point{}) {
			return s
		}
	case *image.NRGBA:
		return opaqueGray(b, func(x, y int) color.Color {
			c := s.NRGBAAt(x, y)
			c.A = 0xff
			return c
		})
	case *image.NRGBA64:
		return opaqueGray(b, func(x, y int) color.Color {
			c := s.NRGBA64At(x, y)
			c.A = 0xffff
			return c
		})
	}
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}

func opaqueGray(b image.Rectangle, at func(x, y int) color.Color) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetGray(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(at(x, y)).(color.Gray))
		}
	}
	return dst
}

// GrayVector flattens g row-major and scales each pixel by 1/255.
func GrayVector(g *image.Gray) []float32 {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := make([]float32, 0, w*h)
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		for _, p := range row {
			out = append(out, float32(p)/MaxIntensity)
		}
	}
	return out
}

// VectorToGray is the inverse of GrayVector: each value is multiplied by 255,
// clamped to [0,255] and rounded.
func VectorToGray(vec []float32, w, h int) (*image.Gray, error) {
	if len(vec) != w*h {
		return nil, fmt.Errorf("vector length %d does not match %dx%d", len(vec), w, h)
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range vec {
		img.Pix[(i/w)*img.Stride+i%w] = toU8(v)
	}
	return img, nil
}

func toU8(v float32) uint8 {
	x := float64(v) * MaxIntensity
	switch {
	case math.IsNaN(x), x <= 0:
		return 0
	case x >= MaxIntensity:
		return 255
	}
	return uint8(x + 0.5)
}

// Upscale enlarges g by an integer factor with nearest-neighbour sampling.
func Upscale(g *image.Gray, factor int) *image.Gray {
	if factor <= 1 {
		return g
	}
	b := g.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Rect, g, b, draw.Src, nil)
	return dst
}

// EncodeGray writes img to w in the format implied by the extension of name.
// Unknown extensions fall back to PNG.
func EncodeGray(w io.Writer, name string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	default:
		return png.Encode(w, img)
	}
}

// SaveGray encodes img into a new file at path.
func SaveGray(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeGray(f, path, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
