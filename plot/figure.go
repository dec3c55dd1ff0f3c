// Package plot renders processed arrays into figures: a georeferenced map
// with border outlines and a color scale, and a boxplot comparing several
// arrays. Figures are rasterized at the configured DPI and can be saved as
// PNG under the configured scratch directory.
package plot

import (
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cxiao13/ecoclim-tools/config"
)

// Figure is a rendered raster figure.
type Figure struct {
	canvas *vgimg.Canvas
}

// WriteTo writes the figure as PNG.
func (f *Figure) WriteTo(w io.Writer) (int64, error) {
	png := vgimg.PngCanvas{Canvas: f.canvas}
	return png.WriteTo(w)
}

// Save writes the figure as <ScratchDir>/<name>.png and returns the path.
// Errors from an unwritable scratch directory surface here.
func (f *Figure) Save(cfg config.Config, name string) (string, error) {
	path := filepath.Join(cfg.ScratchDir, name+".png")
	fp, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteTo(fp); err != nil {
		fp.Close()
		return "", err
	}
	return path, fp.Close()
}
