// Package grid provides the labeled multi-dimensional array that all
// ecoclim transformations operate on: a dense numeric payload whose axes
// have names ("time", "lat", "lon", ...) and, optionally, coordinate values.
package grid

import (
	"errors"
	"fmt"

	"github.com/ctessum/sparse"
)

// ErrDimNotFound is wrapped by errors returned when a named dimension is
// absent from an array.
var ErrDimNotFound = errors.New("dimension not found")

// Array is a dense numeric grid with named dimensions. Coords maps a
// dimension name to its coordinate values; a dimension without an entry has
// implicit coordinates 0..n-1. Missing values are NaN.
//
// Transformations never mutate an Array in place; each returns a new one.
type Array struct {
	Dims   []string
	Coords map[string][]float64
	Data   *sparse.DenseArray
}

// New wraps data in a labeled array, checking that the dimension names and
// coordinate lengths are consistent with the data shape.
func New(data *sparse.DenseArray, dims []string, coords map[string][]float64) (*Array, error) {
	if len(dims) != len(data.Shape) {
		return nil, fmt.Errorf("grid: %d dimension names for data of rank %d", len(dims), len(data.Shape))
	}
	seen := make(map[string]bool, len(dims))
	for i, d := range dims {
		if seen[d] {
			return nil, fmt.Errorf("grid: duplicate dimension %q", d)
		}
		seen[d] = true
		if c, ok := coords[d]; ok && len(c) != data.Shape[i] {
			return nil, fmt.Errorf("grid: dimension %q has %d points but %d coordinate values", d, data.Shape[i], len(c))
		}
	}
	for d := range coords {
		if !seen[d] {
			return nil, fmt.Errorf("grid: coordinates given for unknown dimension %q", d)
		}
	}
	if coords == nil {
		coords = map[string][]float64{}
	}
	return &Array{Dims: dims, Coords: coords, Data: data}, nil
}

// Axis returns the position of the named dimension.
func (a *Array) Axis(dim string) (int, error) {
	for i, d := range a.Dims {
		if d == dim {
			return i, nil
		}
	}
	return 0, fmt.Errorf("grid: %w: %q not among %v", ErrDimNotFound, dim, a.Dims)
}

// Len returns the number of points along the named dimension.
func (a *Array) Len(dim string) (int, error) {
	ax, err := a.Axis(dim)
	if err != nil {
		return 0, err
	}
	return a.Data.Shape[ax], nil
}

// Coord returns the coordinate values of the named dimension, or implicit
// 0..n-1 coordinates if none were set.
func (a *Array) Coord(dim string) ([]float64, error) {
	ax, err := a.Axis(dim)
	if err != nil {
		return nil, err
	}
	if c, ok := a.Coords[dim]; ok {
		return c, nil
	}
	c := make([]float64, a.Data.Shape[ax])
	for i := range c {
		c[i] = float64(i)
	}
	return c, nil
}

// Set stores v at the given multi-dimensional index. The payload's own Set
// treats an exact zero as absent and skips the write, so computed values
// are stored through Elements, where a zero result overwrites whatever the
// cell held before.
func (a *Array) Set(v float64, index ...int) {
	a.Data.Elements[a.Data.Index1d(index...)] = v
}

// Copy returns a deep copy.
func (a *Array) Copy() *Array {
	dims := make([]string, len(a.Dims))
	copy(dims, a.Dims)
	coords := make(map[string][]float64, len(a.Coords))
	for d, c := range a.Coords {
		cc := make([]float64, len(c))
		copy(cc, c)
		coords[d] = cc
	}
	return &Array{Dims: dims, Coords: coords, Data: a.Data.Copy()}
}

// Slice fixes the named dimension at index i and drops it, reducing the
// rank by one.
func (a *Array) Slice(dim string, i int) (*Array, error) {
	ax, err := a.Axis(dim)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= a.Data.Shape[ax] {
		return nil, fmt.Errorf("grid: index %d out of range for dimension %q of length %d", i, dim, a.Data.Shape[ax])
	}
	outShape := make([]int, 0, len(a.Dims)-1)
	outDims := make([]string, 0, len(a.Dims)-1)
	for j, d := range a.Dims {
		if j == ax {
			continue
		}
		outShape = append(outShape, a.Data.Shape[j])
		outDims = append(outDims, d)
	}
	out := sparse.ZerosDense(outShape...)
	idx := make([]int, len(a.Dims))
	oIdx := make([]int, len(outShape))
	for {
		idx[ax] = i
		k := 0
		for j := range idx {
			if j == ax {
				continue
			}
			oIdx[k] = idx[j]
			k++
		}
		out.Set(a.Data.Get(idx...), oIdx...)
		if !nextIndex(idx, a.Data.Shape, ax) {
			break
		}
	}
	coords := make(map[string][]float64, len(a.Coords))
	for d, c := range a.Coords {
		if d == dim {
			continue
		}
		coords[d] = c
	}
	return New(out, outDims, coords)
}

// Reorder permutes the array along the named dimension: output position j
// takes the values (and coordinate) from input position order[j].
func (a *Array) Reorder(dim string, order []int) (*Array, error) {
	ax, err := a.Axis(dim)
	if err != nil {
		return nil, err
	}
	n := a.Data.Shape[ax]
	if len(order) != n {
		return nil, fmt.Errorf("grid: permutation of length %d for dimension %q of length %d", len(order), dim, n)
	}
	seen := make([]bool, n)
	for _, o := range order {
		if o < 0 || o >= n {
			return nil, fmt.Errorf("grid: permutation entry %d out of range for dimension %q of length %d", o, dim, n)
		}
		if seen[o] {
			return nil, fmt.Errorf("grid: duplicate permutation entry %d for dimension %q", o, dim)
		}
		seen[o] = true
	}
	out := a.Copy()
	idx := make([]int, len(a.Dims))
	src := make([]int, len(a.Dims))
	for {
		copy(src, idx)
		src[ax] = order[idx[ax]]
		out.Set(a.Data.Get(src...), idx...)
		if !nextIndex(idx, a.Data.Shape, -1) {
			break
		}
	}
	if c, ok := a.Coords[dim]; ok {
		oc := make([]float64, n)
		for j, o := range order {
			oc[j] = c[o]
		}
		out.Coords[dim] = oc
	}
	return out, nil
}

// nextIndex advances a multi-dimensional index odometer-style, holding the
// axis skip fixed (skip < 0 advances every axis). It reports false after
// the last index.
func nextIndex(idx, shape []int, skip int) bool {
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
