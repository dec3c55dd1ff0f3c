package preprocess

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cxiao13/ecoclim-tools/grid"
)

// Detrend fits and removes a polynomial trend of the given degree along dim
// independently at each other grid location, returning the residuals. The
// fit is against the dimension's coordinate values. NaNs are excluded from
// the fit and stay NaN in the output; a location with fewer than deg+1
// finite samples comes back all-NaN along dim.
func Detrend(a *grid.Array, dim string, deg int) (*grid.Array, error) {
	if deg < 1 {
		return nil, fmt.Errorf("preprocess: detrend degree must be at least 1, got %d", deg)
	}
	ax, err := a.Axis(dim)
	if err != nil {
		return nil, err
	}
	n := a.Data.Shape[ax]
	if n < deg+1 {
		return nil, fmt.Errorf("preprocess: %w: detrending degree %d along %q needs %d points, have %d",
			ErrInsufficientData, deg, dim, deg+1, n)
	}
	x, err := a.Coord(dim)
	if err != nil {
		return nil, err
	}
	// Center the abscissa so large coordinates (unix seconds) do not wreck
	// the conditioning of the Vandermonde system.
	xc := make([]float64, n)
	mean := floats.Sum(x) / float64(n)
	for i, v := range x {
		xc[i] = v - mean
	}

	out := a.Copy()
	idx := make([]int, len(a.Dims))
	y := make([]float64, n)
	for {
		for i := 0; i < n; i++ {
			idx[ax] = i
			y[i] = a.Data.Get(idx...)
		}
		resid := detrendLine(xc, y, deg)
		for i := 0; i < n; i++ {
			idx[ax] = i
			out.Set(resid[i], idx...)
		}
		idx[ax] = 0
		if !next(idx, a.Data.Shape, ax) {
			break
		}
	}
	return out, nil
}

func detrendLine(x, y []float64, deg int) []float64 {
	out := make([]float64, len(y))
	var xs, ys []float64
	for i, v := range y {
		if !math.IsNaN(v) {
			xs = append(xs, x[i])
			ys = append(ys, v)
		}
	}
	coeffs, err := polyfit(xs, ys, deg)
	if err != nil {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	for i, v := range y {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = v - polyval(coeffs, x[i])
	}
	return out
}

// polyfit solves the least-squares polynomial fit of degree deg via QR.
func polyfit(x, y []float64, deg int) ([]float64, error) {
	if len(x) < deg+1 {
		return nil, fmt.Errorf("%w: %d finite points for a degree-%d fit", ErrInsufficientData, len(x), deg)
	}
	v := mat.NewDense(len(x), deg+1, nil)
	for i, xv := range x {
		p := 1.0
		for j := 0; j <= deg; j++ {
			v.Set(i, j, p)
			p *= xv
		}
	}
	var qr mat.QR
	qr.Factorize(v)
	var c mat.VecDense
	if err := qr.SolveVecTo(&c, false, mat.NewVecDense(len(y), y)); err != nil {
		return nil, err
	}
	coeffs := make([]float64, deg+1)
	for j := range coeffs {
		coeffs[j] = c.AtVec(j)
	}
	return coeffs, nil
}

func polyval(coeffs []float64, x float64) float64 {
	v := 0.0
	for j := len(coeffs) - 1; j >= 0; j-- {
		v = v*x + coeffs[j]
	}
	return v
}
