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

// Package render draws resolved 2-D fields and feature collections onto
// raster maps written out as PNG images.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"github.com/ctessum/sparse"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/geoviewer/geoview"
)

// maxMercatorLat is the latitude limit of the global Mercator display
// projection; latitudes beyond it project to infinity.
const maxMercatorLat = 85.05112877980659

// Map renders to a PNG raster map. It implements geoview.Renderer.
type Map struct {
	// Out receives the rendered PNG image.
	Out io.Writer

	// LegendOut, if non-nil, receives a separate PNG with the color
	// legend for gridded renders.
	LegendOut io.Writer

	// Label is the legend label, typically the variable name and units.
	Label string

	// Width is the output image width in pixels. Zero means 800.
	Width int

	// FillColor and StrokeColor style vector geometry.
	FillColor, StrokeColor color.NRGBA
}

// NewMap returns a Map with the default styling.
func NewMap(out io.Writer) *Map {
	return &Map{
		Out:         out,
		Width:       800,
		FillColor:   color.NRGBA{0, 120, 215, 153},
		StrokeColor: color.NRGBA{51, 51, 51, 255},
	}
}

func (m *Map) width() int {
	if m.Width <= 0 {
		return 800
	}
	return m.Width
}

// RenderGrid draws the field as pseudocolored cells at the locations given
// by the coordinate mesh.
func (m *Map) RenderGrid(field *sparse.DenseArray, mesh *geoview.CoordinateMesh, p *geoview.ResolvedProjection, extent geoview.Extent) error {
	cmap := carto.NewColorMap(carto.LinCutoff)
	cmap.AddArray(field.Elements)
	cmap.Set()

	rm := carto.NewRasterMap(extent.YMax, extent.YMin, extent.XMax, extent.XMin, m.width())
	lineStyle := draw.LineStyle{Width: 0.1 * vg.Millimeter}
	glyph := draw.GlyphStyle{}
	ny, nx := field.Shape[0], field.Shape[1]
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			fill := cmap.GetColor(field.Get(i, j))
			lineStyle.Color = fill
			if err := rm.DrawVector(cellPolygon(mesh, i, j), fill, lineStyle, glyph); err != nil {
				return fmt.Errorf("render: drawing grid cell (%d,%d): %v", i, j, err)
			}
		}
	}
	if err := rm.WriteTo(m.Out); err != nil {
		return fmt.Errorf("render: encoding grid map: %v", err)
	}
	if m.LegendOut != nil {
		const legendWidth = 3.70 * vg.Inch
		img := vgimg.New(legendWidth, legendWidth*0.1067)
		lc := draw.New(img)
		if err := cmap.Legend(&lc, m.Label); err != nil {
			return fmt.Errorf("render: drawing legend: %v", err)
		}
		if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(m.LegendOut); err != nil {
			return fmt.Errorf("render: encoding legend: %v", err)
		}
	}
	return nil
}

// RenderVector draws the geometries. Data in angular coordinates is
// reprojected to the global Mercator display projection first, using the
// reconciled projection for both the geometry transform and the extent, so
// the two cannot disagree.
func (m *Map) RenderVector(geoms []geom.Geom, p *geoview.ResolvedProjection, extent geoview.Extent) error {
	if p.SR != nil && p.SR.Name == "longlat" {
		target := geoview.GlobalMercator()
		t, err := p.TransformTo(target)
		if err != nil {
			return fmt.Errorf("render: %v", err)
		}
		projected := make([]geom.Geom, len(geoms))
		for i, g := range geoms {
			if projected[i], err = g.Transform(t); err != nil {
				return fmt.Errorf("render: reprojecting geometry %d: %v", i, err)
			}
		}
		geoms = projected
		if extent, err = transformExtent(extent, t); err != nil {
			return fmt.Errorf("render: reprojecting extent: %v", err)
		}
	}

	rm := carto.NewRasterMap(extent.YMax, extent.YMin, extent.XMax, extent.XMin, m.width())
	lineStyle := draw.LineStyle{Color: m.StrokeColor, Width: vg.Points(0.5)}
	glyph := draw.GlyphStyle{Color: m.StrokeColor, Radius: vg.Points(2), Shape: draw.RingGlyph{}}
	for i, g := range geoms {
		if err := rm.DrawVector(g, m.FillColor, lineStyle, glyph); err != nil {
			return fmt.Errorf("render: drawing feature %d: %v", i, err)
		}
	}
	if err := rm.WriteTo(m.Out); err != nil {
		return fmt.Errorf("render: encoding vector map: %v", err)
	}
	return nil
}

// transformExtent maps an extent's corners through a coordinate transform,
// clamping latitudes that Mercator cannot represent.
func transformExtent(e geoview.Extent, t func(x, y float64) (float64, float64, error)) (geoview.Extent, error) {
	ymin := math.Max(e.YMin, -maxMercatorLat)
	ymax := math.Min(e.YMax, maxMercatorLat)
	xmin, ymin, err := t(e.XMin, ymin)
	if err != nil {
		return e, err
	}
	xmax, ymax, err := t(e.XMax, ymax)
	if err != nil {
		return e, err
	}
	return geoview.Extent{XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax}, nil
}

// cellPolygon approximates the quadrilateral covered by mesh cell (i,j)
// from the midpoints between the cell's center and its neighbors'
// centers, extrapolating at the grid edges.
func cellPolygon(mesh *geoview.CoordinateMesh, i, j int) geom.Polygon {
	c := func(di, dj int) geom.Point {
		return geom.Point{
			X: nodeValue(mesh.X, i, j, di, dj),
			Y: nodeValue(mesh.Y, i, j, di, dj),
		}
	}
	ll, lr, ur, ul := c(0, 0), c(0, 1), c(1, 1), c(1, 0)
	return geom.Polygon{{ll, lr, ur, ul, ll}}
}

// nodeValue estimates the coordinate of the cell corner offset by
// (di,dj) ∈ {0,1}² from cell (i,j) by interpolating between neighboring
// cell centers; at the grid edge the spacing of the nearest interior pair
// is mirrored outward.
func nodeValue(a *sparse.DenseArray, i, j, di, dj int) float64 {
	n0, n1 := a.Shape[0], a.Shape[1]
	axis := func(center, d, n int) (lo, hi int, frac float64) {
		p := center + d - 1 // neighbor toward the corner
		if p < 0 {
			return 0, min(1, n-1), -0.5
		}
		if p >= n-1 {
			return max(0, n-2), n - 1, 1.5
		}
		return p, p + 1, 0.5
	}
	i0, i1, fi := axis(i, di, n0)
	j0, j1, fj := axis(j, dj, n1)
	v00 := a.Get(i0, j0)
	v01 := a.Get(i0, j1)
	v10 := a.Get(i1, j0)
	v11 := a.Get(i1, j1)
	v0 := v00 + (v01-v00)*fj
	v1 := v10 + (v11-v10)*fj
	return v0 + (v1-v0)*fi
}
