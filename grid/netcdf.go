package grid

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/ctessum/sparse"
)

// Load reads one variable from a NetCDF file into a labeled array. The
// variable's dimension variables, where present, become coordinates.
//
// Packed variables (scale_factor/add_offset) are unpacked to float64 and
// cells equal to _FillValue or missing_value become NaN. A coordinate whose
// units attribute has the CF form "<unit> since <epoch>" is converted to
// unix seconds.
func Load(filePath, varName string) (*Array, error) {
	nc, err := netcdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer nc.Close()
	return readVar(nc, varName)
}

func readVar(nc api.Group, varName string) (*Array, error) {
	vg, err := nc.GetVarGetter(varName)
	if err != nil {
		return nil, err
	}
	vals, err := vg.Values()
	if err != nil {
		return nil, err
	}
	shape, elems, err := flatten(vals)
	if err != nil {
		return nil, fmt.Errorf("grid: variable %q: %w", varName, err)
	}
	unpack(elems, vg.Attributes())

	dims := vg.Dimensions()
	coords := make(map[string][]float64, len(dims))
	for _, d := range dims {
		dg, err := nc.GetVarGetter(d)
		if err != nil {
			// Dimension without a coordinate variable.
			continue
		}
		dv, err := dg.Values()
		if err != nil {
			return nil, err
		}
		_, c, err := flatten(dv)
		if err != nil {
			return nil, fmt.Errorf("grid: coordinate %q: %w", d, err)
		}
		if mult, epoch, ok := timeUnits(dg.Attributes()); ok {
			for i, v := range c {
				c[i] = float64(epoch.Unix()) + mult*v
			}
		}
		coords[d] = c
	}

	data := sparse.ZerosDense(shape...)
	copy(data.Elements, elems)
	return New(data, dims, coords)
}

// unpack applies CF packing attributes in place.
func unpack(elems []float64, attrs api.AttributeMap) {
	fill, hasFill := attrFloat(attrs, "_FillValue")
	miss, hasMiss := attrFloat(attrs, "missing_value")
	scale, hasScale := attrFloat(attrs, "scale_factor")
	offset, hasOffset := attrFloat(attrs, "add_offset")
	if !hasScale {
		scale = 1
	}
	if !hasOffset {
		offset = 0
	}
	for i, v := range elems {
		if (hasFill && v == fill) || (hasMiss && v == miss) {
			elems[i] = math.NaN()
			continue
		}
		elems[i] = v*scale + offset
	}
}

var epochLayouts = []string{
	"2006-01-02 15:04:05.0",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

var unitSeconds = map[string]float64{
	"second": 1, "seconds": 1,
	"minute": 60, "minutes": 60,
	"hour": 3600, "hours": 3600,
	"day": 86400, "days": 86400,
}

// timeUnits parses a CF time units attribute such as
// "hours since 1900-01-01 00:00:00.0".
func timeUnits(attrs api.AttributeMap) (mult float64, epoch time.Time, ok bool) {
	units, has := attrString(attrs, "units")
	if !has {
		return 0, time.Time{}, false
	}
	unit, rest, found := strings.Cut(units, " since ")
	if !found {
		return 0, time.Time{}, false
	}
	mult, ok = unitSeconds[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return 0, time.Time{}, false
	}
	rest = strings.TrimSpace(rest)
	for _, layout := range epochLayouts {
		if t, err := time.ParseInLocation(layout, rest, time.UTC); err == nil {
			return mult, t, true
		}
	}
	return 0, time.Time{}, false
}

func attrFloat(attrs api.AttributeMap, key string) (float64, bool) {
	v, has := attrs.Get(key)
	if !has {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		if rv.Len() == 0 {
			return 0, false
		}
		rv = rv.Index(0)
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}

func attrString(attrs api.AttributeMap, key string) (string, bool) {
	v, has := attrs.Get(key)
	if !has {
		return "", false
	}
	s, isStr := v.(string)
	return s, isStr
}

// flatten walks an arbitrarily nested numeric slice as returned by the
// NetCDF reader, yielding its shape and row-major float64 elements.
func flatten(v interface{}) ([]int, []float64, error) {
	rv := reflect.ValueOf(v)
	shape, err := sliceShape(rv)
	if err != nil {
		return nil, nil, err
	}
	n := 1
	for _, s := range shape {
		n *= s
	}
	elems := make([]float64, 0, n)
	elems, err = appendFlat(elems, rv)
	if err != nil {
		return nil, nil, err
	}
	return shape, elems, nil
}

func sliceShape(rv reflect.Value) ([]int, error) {
	var shape []int
	for rv.Kind() == reflect.Slice {
		shape = append(shape, rv.Len())
		if rv.Len() == 0 {
			return shape, nil
		}
		rv = rv.Index(0)
	}
	if !numericKind(rv.Kind()) {
		return nil, fmt.Errorf("unsupported element type %s", rv.Kind())
	}
	return shape, nil
}

func appendFlat(dst []float64, rv reflect.Value) ([]float64, error) {
	if rv.Kind() == reflect.Slice {
		var err error
		for i := 0; i < rv.Len(); i++ {
			dst, err = appendFlat(dst, rv.Index(i))
			if err != nil {
				return nil, err
			}
		}
		return dst, nil
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return append(dst, rv.Float()), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return append(dst, float64(rv.Int())), nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return append(dst, float64(rv.Uint())), nil
	}
	return nil, fmt.Errorf("unsupported element type %s", rv.Kind())
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Float32, reflect.Float64,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
