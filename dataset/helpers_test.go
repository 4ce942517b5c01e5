package dataset

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeGray writes a w x h grayscale PNG whose pixel i is (seed+i) mod 256.
func writeGray(t *testing.T, path string, w, h, seed int) {
	t.Helper()
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = uint8((seed + i) % 256)
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, g))
	require.NoError(t, f.Close())
}

func expectedRow(d, seed int) []float32 {
	row := make([]float32, d)
	for i := range row {
		row[i] = float32((seed+i)%256) / 255
	}
	return row
}

// catsAndDogs lays out cat/ with three 64x64 images and dog/ with two.
func catsAndDogs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeGray(t, filepath.Join(root, "cat", "c0.png"), 64, 64, 0)
	writeGray(t, filepath.Join(root, "cat", "c1.png"), 64, 64, 10)
	writeGray(t, filepath.Join(root, "cat", "sub", "c2.png"), 64, 64, 20)
	writeGray(t, filepath.Join(root, "dog", "d0.png"), 64, 64, 30)
	writeGray(t, filepath.Join(root, "dog", "d1.png"), 64, 64, 40)
	return root
}

func buildCatsAndDogs(t *testing.T) (string, *BuildResult) {
	t.Helper()
	cfg := DefaultBuildConfig()
	cfg.Root = catsAndDogs(t)
	cfg.OutDir = filepath.Join(t.TempDir(), "out")
	res, err := Build(cfg)
	require.NoError(t, err)
	return cfg.OutDir, res
}
