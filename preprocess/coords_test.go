package preprocess

import (
	"math"
	"testing"

	"github.com/ctessum/sparse"

	"github.com/cxiao13/ecoclim-tools/grid"
)

func newArray(t *testing.T, shape []int, dims []string, coords map[string][]float64, vals []float64) *grid.Array {
	t.Helper()
	d := sparse.ZerosDense(shape...)
	copy(d.Elements, vals)
	a, err := grid.New(d, dims, coords)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// Values encode their own position so permutations are easy to check.
func positionCoded(t *testing.T, nTime int) *grid.Array {
	t.Helper()
	d := sparse.ZerosDense(nTime, 2, 2)
	for ti := 0; ti < nTime; ti++ {
		for la := 0; la < 2; la++ {
			for lo := 0; lo < 2; lo++ {
				d.Set(float64(ti*100+la*10+lo), ti, la, lo)
			}
		}
	}
	a, err := grid.New(d, []string{"time", "lat", "lon"}, map[string][]float64{
		"lat": {0, 30},
		"lon": {10, 190},
	})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestFormatCoordsWrapsAndSorts(t *testing.T) {
	a := positionCoded(t, 24)
	f, err := FormatCoords(a)
	if err != nil {
		t.Fatal(err)
	}
	lon := f.Coords["lon"]
	if lon[0] != -170 || lon[1] != 10 {
		t.Fatalf("lon = %v, want [-170 10]", lon)
	}
	// Former lon index 1 (190°E → -170°) must now be first.
	for ti := 0; ti < 24; ti++ {
		for la := 0; la < 2; la++ {
			want0 := float64(ti*100 + la*10 + 1)
			want1 := float64(ti*100 + la*10)
			if got := f.Data.Get(ti, la, 0); got != want0 {
				t.Fatalf("value at (%d,%d,0) = %v, want %v", ti, la, got, want0)
			}
			if got := f.Data.Get(ti, la, 1); got != want1 {
				t.Fatalf("value at (%d,%d,1) = %v, want %v", ti, la, got, want1)
			}
		}
	}
	// The input keeps its original convention.
	if a.Coords["lon"][1] != 190 {
		t.Error("FormatCoords mutated its input")
	}
}

func TestFormatCoordsMovesZeroValues(t *testing.T) {
	// A zero-valued cell that changes position must carry its zero along
	// instead of keeping the value the target cell held before.
	a := newArray(t, []int{2}, []string{"lon"},
		map[string][]float64{"lon": {10, 190}}, []float64{5, 0})
	f, err := FormatCoords(a)
	if err != nil {
		t.Fatal(err)
	}
	if f.Coords["lon"][0] != -170 || f.Coords["lon"][1] != 10 {
		t.Fatalf("lon = %v, want [-170 10]", f.Coords["lon"])
	}
	if f.Data.Get(0) != 0 || f.Data.Get(1) != 5 {
		t.Errorf("values = %v, want [0 5]", f.Data.Elements)
	}
}

func TestFormatCoordsRenames(t *testing.T) {
	a := newArray(t, []int{2, 2}, []string{"latitude", "longitude"},
		map[string][]float64{"latitude": {-45, 45}, "longitude": {0, 90}},
		[]float64{1, 2, 3, 4})
	f, err := FormatCoords(a)
	if err != nil {
		t.Fatal(err)
	}
	if f.Dims[0] != "lat" || f.Dims[1] != "lon" {
		t.Errorf("dims = %v, want [lat lon]", f.Dims)
	}
	if _, ok := f.Coords["longitude"]; ok {
		t.Error("old coordinate name kept")
	}
	if f.Coords["lon"][1] != 90 {
		t.Errorf("lon = %v", f.Coords["lon"])
	}
}

func TestFormatCoordsSortsLatAscending(t *testing.T) {
	a := newArray(t, []int{2}, []string{"lat"},
		map[string][]float64{"lat": {60, -60}}, []float64{1, 2})
	f, err := FormatCoords(a)
	if err != nil {
		t.Fatal(err)
	}
	if f.Coords["lat"][0] != -60 || f.Coords["lat"][1] != 60 {
		t.Fatalf("lat = %v, want [-60 60]", f.Coords["lat"])
	}
	if f.Data.Get(0) != 2 || f.Data.Get(1) != 1 {
		t.Errorf("data not permuted with lat: %v", f.Data.Elements)
	}
}

func TestFormatCoordsIdempotent(t *testing.T) {
	a := positionCoded(t, 4)
	once, err := FormatCoords(a)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := FormatCoords(once)
	if err != nil {
		t.Fatal(err)
	}
	for _, dim := range []string{"lat", "lon"} {
		for i := range once.Coords[dim] {
			if once.Coords[dim][i] != twice.Coords[dim][i] {
				t.Fatalf("%s coordinate changed on second application", dim)
			}
		}
	}
	for i := range once.Data.Elements {
		if math.Abs(once.Data.Elements[i]-twice.Data.Elements[i]) != 0 {
			t.Fatalf("element %d changed on second application", i)
		}
	}
}

func TestFormatCoordsNoGeography(t *testing.T) {
	// An array without lat/lon passes through unchanged.
	a := newArray(t, []int{3}, []string{"time"}, nil, []float64{1, 2, 3})
	f, err := FormatCoords(a)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range f.Data.Elements {
		if v != a.Data.Elements[i] {
			t.Fatal("values changed")
		}
	}
}
