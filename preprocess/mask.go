package preprocess

import (
	"math"

	"github.com/cxiao13/ecoclim-tools/grid"
	"github.com/cxiao13/ecoclim-tools/landmask"
)

// MaskOcean marks every grid cell whose center is classified as ocean by
// the mask as missing (NaN) across all non-spatial dimensions, leaving land
// cells unchanged. The array needs "lat" and "lon" dimensions, so run
// FormatCoords first for data that still uses the long names.
func MaskOcean(a *grid.Array, m *landmask.Mask) (*grid.Array, error) {
	latAx, err := a.Axis("lat")
	if err != nil {
		return nil, err
	}
	lonAx, err := a.Axis("lon")
	if err != nil {
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

	ocean := make([][]bool, len(lats))
	for i, la := range lats {
		ocean[i] = make([]bool, len(lons))
		for j, lo := range lons {
			ocean[i][j] = !m.IsLand(lo, la)
		}
	}

	out := a.Copy()
	idx := make([]int, len(a.Dims))
	for {
		if ocean[idx[latAx]][idx[lonAx]] {
			out.Data.Set(math.NaN(), idx...)
		}
		if !next(idx, a.Data.Shape, -1) {
			break
		}
	}
	return out, nil
}
