package plot

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cxiao13/ecoclim-tools/config"
	"github.com/cxiao13/ecoclim-tools/grid"
)

const (
	mapWidth  = 12 * vg.Inch
	mapHeight = 8 * vg.Inch
)

// MapOptions are the recognized options of GlobalMap.
type MapOptions struct {
	// Label is shown under the color scale.
	Label string
	// SaveName, when non-empty, saves the figure as
	// <ScratchDir>/<SaveName>.png.
	SaveName string
	// Min and Max fix the color range. When equal (e.g. both zero) the
	// range is taken from the data.
	Min, Max float64
	// Levels is the number of color steps; 0 means a smooth 255.
	Levels int
	// Borders are outlines drawn over the map, e.g. mask.Polygons().
	Borders []geom.Polygonal
}

// GlobalMap renders a 2-D lat/lon array as a color map with a horizontal
// color scale and optional border outlines. A 3-D array with a time
// dimension is reduced to its last time step first. Coordinates are
// expected sorted ascending, as FormatCoords leaves them.
func GlobalMap(cfg config.Config, a *grid.Array, o MapOptions) (*Figure, error) {
	if len(a.Dims) == 3 {
		if n, err := a.Len("time"); err == nil {
			var sErr error
			a, sErr = a.Slice("time", n-1)
			if sErr != nil {
				return nil, sErr
			}
		}
	}
	if len(a.Dims) != 2 {
		return nil, fmt.Errorf("plot: map needs a 2-D lat/lon array, have dims %v", a.Dims)
	}
	latAx, err := a.Axis("lat")
	if err != nil {
		return nil, err
	}
	if _, err := a.Axis("lon"); err != nil {
		return nil, err
	}
	lats, err := a.Coord("lat")
	if err != nil {
		return nil, err
	}
	lons, err := a.Coord("lon")
	if err != nil {
		return nil, err
	}

	min, max := o.Min, o.Max
	if min == max {
		min, max = finiteRange(a.Data.Elements)
		if min >= max {
			return nil, fmt.Errorf("plot: no color range in data")
		}
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMin(min)
	cm.SetMax(max)
	// Diverge at zero for anomaly-style data; zero is out of range for
	// all-positive or all-negative fields, where the midpoint has to do.
	if min < 0 && max > 0 {
		cm.SetConvergePoint(0)
	} else {
		cm.SetConvergePoint((min + max) / 2)
	}
	levels := o.Levels
	if levels <= 0 {
		levels = 255
	}
	hm := plotter.NewHeatMap(gridXYZ{lats: lats, lons: lons, data: a.Data, latFirst: latAx == 0}, cm.Palette(levels))
	hm.Min, hm.Max = min, max

	p := gplot.New()
	p.Add(hm)
	addBorders(p, o.Borders)
	p.X.Min, p.X.Max = lons[0], lons[len(lons)-1]
	p.Y.Min, p.Y.Max = lats[0], lats[len(lats)-1]

	bar := gplot.New()
	bar.Add(&plotter.ColorBar{ColorMap: cm})
	bar.HideY()
	bar.X.Label.Text = o.Label

	img := vgimg.NewWith(vgimg.UseWH(mapWidth, mapHeight), vgimg.UseDPI(cfg.DPI))
	dc := draw.New(img)
	barHeight := mapHeight * 0.18
	p.Draw(draw.Crop(dc, 0, 0, barHeight, 0))
	bar.Draw(draw.Crop(dc, mapWidth*0.1, -mapWidth*0.1, 0, barHeight-mapHeight))

	fig := &Figure{canvas: img}
	if o.SaveName != "" {
		if _, err := fig.Save(cfg, o.SaveName); err != nil {
			return nil, err
		}
	}
	return fig, nil
}

// addBorders draws each polygon ring as a thin gray closed line.
func addBorders(p *gplot.Plot, borders []geom.Polygonal) {
	for _, pg := range borders {
		for _, poly := range pg.Polygons() {
			for _, ring := range poly {
				if len(ring) == 0 {
					continue
				}
				xys := make(plotter.XYs, 0, len(ring)+1)
				for _, pt := range ring {
					xys = append(xys, plotter.XY{X: pt.X, Y: pt.Y})
				}
				xys = append(xys, plotter.XY{X: ring[0].X, Y: ring[0].Y})
				ln, err := plotter.NewLine(xys)
				if err != nil {
					continue
				}
				ln.LineStyle.Color = color.Gray{Y: 80}
				ln.LineStyle.Width = vg.Points(0.5)
				p.Add(ln)
			}
		}
	}
}

func finiteRange(vals []float64) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return min, max
}

// gridXYZ adapts a 2-D lat/lon array to the heatmap's grid interface.
type gridXYZ struct {
	lats, lons []float64
	data       *sparse.DenseArray
	latFirst   bool
}

func (g gridXYZ) Dims() (c, r int) { return len(g.lons), len(g.lats) }
func (g gridXYZ) X(c int) float64  { return g.lons[c] }
func (g gridXYZ) Y(r int) float64  { return g.lats[r] }

func (g gridXYZ) Z(c, r int) float64 {
	if g.latFirst {
		return g.data.Get(r, c)
	}
	return g.data.Get(c, r)
}
