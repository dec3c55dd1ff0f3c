// Package landmask classifies geographic points as land or ocean using a
// set of land polygons, typically loaded from a coastline shapefile in
// WGS84 longitude/latitude.
package landmask

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/index/rtree"
)

// Mask holds land polygons with a spatial index over them. The zero-polygon
// mask classifies everything as ocean.
type Mask struct {
	polys []geom.Polygonal
	tree  *rtree.Rtree
}

// New builds a mask from land polygons.
func New(polys ...geom.Polygonal) *Mask {
	m := &Mask{polys: polys, tree: rtree.NewTree(25, 50)}
	for _, p := range polys {
		m.tree.Insert(p)
	}
	return m
}

// FromShapefile loads land polygons from a shapefile. The geometries are
// used as-is and are expected to be in longitude/latitude degrees.
func FromShapefile(path string) (*Mask, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	var polys []geom.Polygonal
	for {
		g, _, more := dec.DecodeRowFields()
		if !more {
			break
		}
		p, ok := g.(geom.Polygonal)
		if !ok {
			return nil, fmt.Errorf("landmask: %s: geometry is %T, not polygonal", path, g)
		}
		polys = append(polys, p)
	}
	if err := dec.Error(); err != nil {
		return nil, err
	}
	return New(polys...), nil
}

// IsLand reports whether the point at (lon, lat) falls within a land
// polygon. A point exactly on a polygon edge counts as land.
func (m *Mask) IsLand(lon, lat float64) bool {
	pt := geom.Point{X: lon, Y: lat}
	b := &geom.Bounds{Min: pt, Max: pt}
	for _, s := range m.tree.SearchIntersect(b) {
		if w := pt.Within(s.(geom.Polygonal)); w == geom.Inside || w == geom.OnEdge {
			return true
		}
	}
	return false
}

// Polygons returns the land polygons, for drawing borders on maps.
func (m *Mask) Polygons() []geom.Polygonal {
	return m.polys
}
