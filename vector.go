/*
Copyright © 2026 the GeoView authors.
This file is part of GeoView.

GeoView is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GeoView is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GeoView.  If not, see <http://www.gnu.org/licenses/>.
*/

package geoview

import (
	"os"
	"sort"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/index/rtree"
)

// Feature is one record of a vector dataset: a geometry and its attribute
// row. The geometry is embedded, so a Feature can be stored directly in a
// spatial index.
type Feature struct {
	geom.Geom
	Fields map[string]string
}

// VectorDataset is a fully loaded shapefile: its features, total bounds,
// attribute schema and, when a .prj sidecar exists, its declared CRS.
type VectorDataset struct {
	path       string
	features   []*Feature
	bounds     *geom.Bounds
	crs        *CRSDescriptor
	index      *rtree.Rtree
	fieldNames []string
	geomTypes  []string
}

// OpenVector reads the shapefile at path into memory and indexes its
// features for spatial searching.
func OpenVector(path string) (*VectorDataset, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer dec.Close()

	d := &VectorDataset{
		path:   path,
		bounds: geom.NewBounds(),
		index:  rtree.NewTree(25, 50),
	}
	for _, f := range dec.Fields() {
		d.fieldNames = append(d.fieldNames, strings.TrimRight(f.String(), "\x00"))
	}

	types := make(map[string]bool)
	for {
		g, fields, more := dec.DecodeRowFields(d.fieldNames...)
		if !more {
			break
		}
		f := &Feature{Geom: g, Fields: fields}
		d.features = append(d.features, f)
		d.bounds.Extend(g.Bounds())
		d.index.Insert(f)
		types[geomTypeName(g)] = true
	}
	if err := dec.Error(); err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	for t := range types {
		d.geomTypes = append(d.geomTypes, t)
	}
	sort.Strings(d.geomTypes)

	if err := d.readCRS(); err != nil {
		return nil, err
	}
	return d, nil
}

// readCRS reads the .prj sidecar if one exists. A missing sidecar leaves
// the descriptor nil (the dataset simply has no CRS); a malformed one is an
// open failure.
func (d *VectorDataset) readCRS() error {
	prj := strings.TrimSuffix(d.path, ".shp") + ".prj"
	b, err := os.ReadFile(prj)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &OpenError{Path: prj, Err: err}
	}
	crs, err := ParseCRS(strings.TrimSpace(string(b)))
	if err != nil {
		return &OpenError{Path: prj, Err: err}
	}
	d.crs = crs
	return nil
}

// Path returns the path the dataset was opened from.
func (d *VectorDataset) Path() string { return d.path }

// Close releases the dataset. The underlying file is already closed after
// loading; Close exists to satisfy the Dataset contract.
func (d *VectorDataset) Close() error { return nil }

// Len returns the number of features.
func (d *VectorDataset) Len() int { return len(d.features) }

// Features returns all features in file order.
func (d *VectorDataset) Features() []*Feature { return d.features }

// Geometries returns the geometries of all features in file order.
func (d *VectorDataset) Geometries() []geom.Geom {
	g := make([]geom.Geom, len(d.features))
	for i, f := range d.features {
		g[i] = f.Geom
	}
	return g
}

// Bounds returns the total spatial bounds of the dataset.
func (d *VectorDataset) Bounds() *geom.Bounds { return d.bounds }

// CRS returns the dataset's declared coordinate reference system, or nil
// if the shapefile has no .prj sidecar.
func (d *VectorDataset) CRS() *CRSDescriptor { return d.crs }

// FieldNames returns the attribute table's column names.
func (d *VectorDataset) FieldNames() []string { return d.fieldNames }

// GeometryTypes returns the sorted set of geometry type names present.
func (d *VectorDataset) GeometryTypes() []string { return d.geomTypes }

// SearchIntersect returns the features whose bounds overlap b.
func (d *VectorDataset) SearchIntersect(b *geom.Bounds) []*Feature {
	var out []*Feature
	for _, s := range d.index.SearchIntersect(b) {
		out = append(out, s.(*Feature))
	}
	return out
}

func geomTypeName(g geom.Geom) string {
	switch g.(type) {
	case geom.Point:
		return "Point"
	case geom.MultiPoint:
		return "MultiPoint"
	case geom.LineString:
		return "LineString"
	case geom.MultiLineString:
		return "MultiLineString"
	case geom.Polygon:
		return "Polygon"
	case geom.MultiPolygon:
		return "MultiPolygon"
	case geom.GeometryCollection:
		return "GeometryCollection"
	}
	return "Unknown"
}
