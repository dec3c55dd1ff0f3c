package plot

import (
	"fmt"
	"math"
	"strconv"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cxiao13/ecoclim-tools/config"
	"github.com/cxiao13/ecoclim-tools/grid"
)

const (
	boxWidth  = 10 * vg.Inch
	boxHeight = 8 * vg.Inch
)

// BoxplotOptions are the recognized options of Boxplot.
type BoxplotOptions struct {
	// Labels name the boxes along the x axis; defaults to 0, 1, 2, ...
	Labels []string
	// YLabel labels the y axis.
	YLabel string
	// SaveName, when non-empty, saves the figure as
	// <ScratchDir>/<SaveName>.png.
	SaveName string
}

// Boxplot draws side-by-side boxplots of the finite values of each array,
// with a dashed zero reference line.
func Boxplot(cfg config.Config, arrays []*grid.Array, o BoxplotOptions) (*Figure, error) {
	if len(arrays) == 0 {
		return nil, fmt.Errorf("plot: boxplot needs at least one array")
	}
	if o.Labels != nil && len(o.Labels) != len(arrays) {
		return nil, fmt.Errorf("plot: %d labels for %d arrays", len(o.Labels), len(arrays))
	}

	p := gplot.New()
	p.Y.Label.Text = o.YLabel
	for i, a := range arrays {
		var vals plotter.Values
		for _, v := range a.Data.Elements {
			if !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			return nil, fmt.Errorf("plot: array %d has no finite values", i)
		}
		b, err := plotter.NewBoxPlot(vg.Points(40), float64(i), vals)
		if err != nil {
			return nil, err
		}
		p.Add(b)
	}

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(zero)

	labels := o.Labels
	if labels == nil {
		labels = make([]string, len(arrays))
		for i := range labels {
			labels[i] = strconv.Itoa(i)
		}
	}
	p.NominalX(labels...)

	img := vgimg.NewWith(vgimg.UseWH(boxWidth, boxHeight), vgimg.UseDPI(cfg.DPI))
	p.Draw(draw.New(img))

	fig := &Figure{canvas: img}
	if o.SaveName != "" {
		if _, err := fig.Save(cfg, o.SaveName); err != nil {
			return nil, err
		}
	}
	return fig, nil
}
