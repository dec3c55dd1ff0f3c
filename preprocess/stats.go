package preprocess

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"

	"github.com/cxiao13/ecoclim-tools/grid"
)

// AreaWeightedMean reduces the "lat" and "lon" dimensions to a mean
// weighted by the cosine of latitude, which corrects for the shrinking
// area of grid cells toward the poles. NaN cells are excluded along with
// their weight. The result keeps the remaining dimensions; a purely
// spatial array reduces to a rank-0 array whose value is
// Data.Elements[0].
func AreaWeightedMean(a *grid.Array) (*grid.Array, error) {
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
	w := make([]float64, len(lats))
	for i, la := range lats {
		w[i] = math.Cos(la * math.Pi / 180)
	}

	var outDims []string
	var outShape []int
	for i, d := range a.Dims {
		if i == latAx || i == lonAx {
			continue
		}
		outDims = append(outDims, d)
		outShape = append(outShape, a.Data.Shape[i])
	}
	strides := make([]int, len(outShape))
	s := 1
	for i := len(outShape) - 1; i >= 0; i-- {
		strides[i] = s
		s *= outShape[i]
	}
	sums := make([]float64, s)
	wts := make([]float64, s)

	idx := make([]int, len(a.Dims))
	for {
		v := a.Data.Get(idx...)
		if !math.IsNaN(v) {
			flat, k := 0, 0
			for i := range idx {
				if i == latAx || i == lonAx {
					continue
				}
				flat += idx[i] * strides[k]
				k++
			}
			sums[flat] += w[idx[latAx]] * v
			wts[flat] += w[idx[latAx]]
		}
		if !next(idx, a.Data.Shape, -1) {
			break
		}
	}

	out := sparse.ZerosDense(outShape...)
	for i := range sums {
		if wts[i] == 0 {
			out.Elements[i] = math.NaN()
			continue
		}
		out.Elements[i] = sums[i] / wts[i]
	}
	coords := make(map[string][]float64)
	for _, d := range outDims {
		if c, ok := a.Coords[d]; ok {
			coords[d] = c
		}
	}
	return grid.New(out, outDims, coords)
}

// Standardize rescales the array to zero mean and unit standard deviation
// over all finite values. NaNs are preserved.
func Standardize(a *grid.Array) (*grid.Array, error) {
	mean, std, n := moments(a.Data.Elements)
	if n < 2 {
		return nil, fmt.Errorf("preprocess: %w: standardizing needs at least 2 finite values, have %d",
			ErrInsufficientData, n)
	}
	if std == 0 {
		return nil, fmt.Errorf("preprocess: %w: standardizing a constant array", ErrInsufficientData)
	}
	out := a.Copy()
	for i, v := range out.Data.Elements {
		if !math.IsNaN(v) {
			out.Data.Elements[i] = (v - mean) / std
		}
	}
	return out, nil
}

// Normalize rescales the array's finite values linearly onto [0, 1]. NaNs
// are preserved.
func Normalize(a *grid.Array) (*grid.Array, error) {
	min, max := math.Inf(1), math.Inf(-1)
	n := 0
	for _, v := range a.Data.Elements {
		if math.IsNaN(v) {
			continue
		}
		n++
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if n < 2 || min == max {
		return nil, fmt.Errorf("preprocess: %w: normalizing needs at least 2 distinct finite values",
			ErrInsufficientData)
	}
	out := a.Copy()
	for i, v := range out.Data.Elements {
		if !math.IsNaN(v) {
			out.Data.Elements[i] = (v - min) / (max - min)
		}
	}
	return out, nil
}

// moments returns the mean and population standard deviation of the finite
// values.
func moments(vals []float64) (mean, std float64, n int) {
	var sum float64
	for _, v := range vals {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN(), math.NaN(), 0
	}
	mean = sum / float64(n)
	var ss float64
	for _, v := range vals {
		if !math.IsNaN(v) {
			d := v - mean
			ss += d * d
		}
	}
	std = math.Sqrt(ss / float64(n))
	return mean, std, n
}
