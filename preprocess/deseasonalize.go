package preprocess

import (
	"fmt"
	"math"
	"time"

	"github.com/cxiao13/ecoclim-tools/grid"
)

// Period selects how time points are grouped when computing a climatology.
type Period int

const (
	// PeriodMonthly groups by calendar month, the usual choice for
	// monthly-sampled data.
	PeriodMonthly Period = iota
	// PeriodDayOfYear groups by day of year, for daily-sampled data.
	PeriodDayOfYear
)

func (p Period) key(unixSec float64) int {
	t := time.Unix(int64(unixSec), 0).UTC()
	if p == PeriodDayOfYear {
		return t.YearDay()
	}
	return int(t.Month())
}

// Deseasonalize removes the repeating seasonal cycle along dim: for each
// grid location, the mean over all time points sharing a period (calendar
// month by default) is subtracted, leaving anomalies. The time coordinate
// is unix seconds, as produced by grid.Load. NaNs are excluded from the
// period means and stay NaN in the output.
func Deseasonalize(a *grid.Array, dim string, period Period) (*grid.Array, error) {
	ax, err := a.Axis(dim)
	if err != nil {
		return nil, err
	}
	n := a.Data.Shape[ax]
	if n < 2 {
		return nil, fmt.Errorf("preprocess: %w: deseasonalizing along %q needs at least 2 points, have %d",
			ErrInsufficientData, dim, n)
	}
	tc, err := a.Coord(dim)
	if err != nil {
		return nil, err
	}
	keys := make([]int, n)
	for i, c := range tc {
		keys[i] = period.key(c)
	}

	out := a.Copy()
	idx := make([]int, len(a.Dims))
	sums := map[int]float64{}
	counts := map[int]int{}
	for {
		clear(sums)
		clear(counts)
		for i := 0; i < n; i++ {
			idx[ax] = i
			if v := a.Data.Get(idx...); !math.IsNaN(v) {
				sums[keys[i]] += v
				counts[keys[i]]++
			}
		}
		for i := 0; i < n; i++ {
			idx[ax] = i
			v := a.Data.Get(idx...)
			if math.IsNaN(v) {
				continue
			}
			k := keys[i]
			out.Set(v-sums[k]/float64(counts[k]), idx...)
		}
		idx[ax] = 0
		if !next(idx, a.Data.Shape, ax) {
			break
		}
	}
	return out, nil
}
