package preprocess

import (
	"math"
	"sort"

	"github.com/cxiao13/ecoclim-tools/grid"
)

// FormatCoords standardizes the geographic coordinates of an array:
// "longitude" and "latitude" dimensions are renamed to "lon" and "lat", a
// longitude axis in the [0, 360) convention is remapped to [-180, 180), and
// lon and lat are sorted ascending with the data permuted to match. The
// values themselves are unchanged. Applying FormatCoords to its own output
// is a no-op.
func FormatCoords(a *grid.Array) (*grid.Array, error) {
	out := a.Copy()
	renameDim(out, "longitude", "lon")
	renameDim(out, "latitude", "lat")

	if c, ok := out.Coords["lon"]; ok {
		// Max > 180 means the axis is in the 0-360 convention.
		max := c[0]
		for _, v := range c[1:] {
			if v > max {
				max = v
			}
		}
		if max > 180 {
			wrapped := make([]float64, len(c))
			for i, v := range c {
				w := math.Mod(v+180, 360)
				if w < 0 {
					w += 360
				}
				wrapped[i] = w - 180
			}
			out.Coords["lon"] = wrapped
		}
	}

	var err error
	for _, dim := range []string{"lon", "lat"} {
		out, err = sortDim(out, dim)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// renameDim renames a dimension and its coordinate entry in place; absent
// dimensions are left alone.
func renameDim(a *grid.Array, from, to string) {
	for i, d := range a.Dims {
		if d == from {
			a.Dims[i] = to
		}
	}
	if c, ok := a.Coords[from]; ok {
		delete(a.Coords, from)
		a.Coords[to] = c
	}
}

// sortDim sorts the named dimension's coordinate ascending, permuting the
// data consistently. Arrays without the dimension pass through unchanged.
func sortDim(a *grid.Array, dim string) (*grid.Array, error) {
	c, ok := a.Coords[dim]
	if !ok {
		return a, nil
	}
	order := make([]int, len(c))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return c[order[i]] < c[order[j]] })
	if sort.IntsAreSorted(order) {
		return a, nil
	}
	return a.Reorder(dim, order)
}
