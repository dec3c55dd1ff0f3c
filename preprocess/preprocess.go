// Package preprocess contains pure transformations of labeled arrays for
// climate analysis: coordinate standardization, ocean masking, detrending
// and deseasonalizing, plus a few reductions. Every function returns a new
// array and leaves its input untouched.
package preprocess

import "errors"

// ErrInsufficientData is wrapped by errors returned when a dimension has
// fewer points than an operation needs.
var ErrInsufficientData = errors.New("insufficient data")

// next advances a multi-dimensional index odometer-style, holding the axis
// skip fixed (skip < 0 advances every axis). It reports false after the
// last index.
func next(idx, shape []int, skip int) bool {
	for ax := len(idx) - 1; ax >= 0; ax-- {
		if ax == skip {
			continue
		}
		idx[ax]++
		if idx[ax] < shape[ax] {
			return true
		}
		idx[ax] = 0
	}
	return false
}
