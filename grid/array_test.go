package grid

import (
	"errors"
	"testing"

	"github.com/ctessum/sparse"
)

func newArray(t *testing.T, shape []int, dims []string, coords map[string][]float64, vals []float64) *Array {
	t.Helper()
	d := sparse.ZerosDense(shape...)
	copy(d.Elements, vals)
	a, err := New(d, dims, coords)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestNewValidation(t *testing.T) {
	data := sparse.ZerosDense(2, 3)
	cases := []struct {
		name   string
		dims   []string
		coords map[string][]float64
	}{
		{"rank mismatch", []string{"a"}, nil},
		{"duplicate dim", []string{"a", "a"}, nil},
		{"coord length", []string{"a", "b"}, map[string][]float64{"b": {1, 2}}},
		{"stray coord", []string{"a", "b"}, map[string][]float64{"c": {1, 2}}},
	}
	for _, c := range cases {
		if _, err := New(data, c.dims, c.coords); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
	if _, err := New(data, []string{"a", "b"}, map[string][]float64{"b": {1, 2, 3}}); err != nil {
		t.Errorf("valid array rejected: %v", err)
	}
}

func TestAxisMissing(t *testing.T) {
	a := newArray(t, []int{2}, []string{"time"}, nil, []float64{1, 2})
	if _, err := a.Axis("lat"); !errors.Is(err, ErrDimNotFound) {
		t.Errorf("expected ErrDimNotFound, got %v", err)
	}
	if _, err := a.Len("lat"); !errors.Is(err, ErrDimNotFound) {
		t.Errorf("Len: expected ErrDimNotFound, got %v", err)
	}
}

func TestCoordImplicit(t *testing.T) {
	a := newArray(t, []int{3}, []string{"time"}, nil, []float64{1, 2, 3})
	c, err := a.Coord("time")
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range c {
		if v != float64(i) {
			t.Errorf("implicit coord[%d] = %v, want %d", i, v, i)
		}
	}
}

func TestSetStoresZero(t *testing.T) {
	a := newArray(t, []int{2, 2}, []string{"lat", "lon"}, nil,
		[]float64{1, 2, 3, 4})
	a.Set(0, 1, 0)
	if got := a.Data.Get(1, 0); got != 0 {
		t.Errorf("cell after Set(0) = %v, want 0", got)
	}
}

func TestSlice(t *testing.T) {
	a := newArray(t, []int{2, 3}, []string{"time", "lon"},
		map[string][]float64{"time": {10, 20}, "lon": {0, 1, 2}},
		[]float64{1, 2, 3, 4, 5, 6})
	s, err := a.Slice("time", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Dims) != 1 || s.Dims[0] != "lon" {
		t.Fatalf("dims after slice = %v", s.Dims)
	}
	want := []float64{4, 5, 6}
	for i, w := range want {
		if got := s.Data.Get(i); got != w {
			t.Errorf("slice[%d] = %v, want %v", i, got, w)
		}
	}
	if _, ok := s.Coords["time"]; ok {
		t.Error("sliced dimension kept its coordinate")
	}
	if _, err := a.Slice("time", 5); err == nil {
		t.Error("out-of-range slice index accepted")
	}
}

func TestReorder(t *testing.T) {
	a := newArray(t, []int{2, 2}, []string{"lat", "lon"},
		map[string][]float64{"lat": {0, 10}, "lon": {190, 10}},
		[]float64{1, 2, 3, 4})
	r, err := a.Reorder("lon", []int{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	wantCoord := []float64{10, 190}
	for i, w := range wantCoord {
		if r.Coords["lon"][i] != w {
			t.Errorf("lon[%d] = %v, want %v", i, r.Coords["lon"][i], w)
		}
	}
	want := []float64{2, 1, 4, 3}
	for i, w := range want {
		if r.Data.Elements[i] != w {
			t.Errorf("element %d = %v, want %v", i, r.Data.Elements[i], w)
		}
	}
	// The input must be untouched.
	if a.Data.Elements[0] != 1 || a.Coords["lon"][0] != 190 {
		t.Error("Reorder mutated its input")
	}
}

func TestReorderKeepsZeroValues(t *testing.T) {
	// The payload's Set skips exact zeros, so a zero cell that moves must
	// still land in the output rather than leaving the stale value behind.
	a := newArray(t, []int{2}, []string{"lon"},
		map[string][]float64{"lon": {190, 10}},
		[]float64{0, 7})
	r, err := a.Reorder("lon", []int{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{7, 0}
	for i, w := range want {
		if r.Data.Elements[i] != w {
			t.Errorf("element %d = %v, want %v", i, r.Data.Elements[i], w)
		}
	}
}

func TestReorderInvalidPermutation(t *testing.T) {
	a := newArray(t, []int{2}, []string{"lon"},
		map[string][]float64{"lon": {0, 90}}, []float64{1, 2})
	for name, order := range map[string][]int{
		"short":        {0},
		"out of range": {0, 2},
		"negative":     {-1, 0},
		"duplicate":    {1, 1},
	} {
		if _, err := a.Reorder("lon", order); err == nil {
			t.Errorf("%s permutation accepted", name)
		}
	}
}
