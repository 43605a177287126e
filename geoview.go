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

// Package geoview resolves slices of gridded NetCDF datasets and shapefile
// feature collections into renderable 2-D fields with coordinate meshes and
// concrete map projections.
package geoview

import (
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"github.com/gonum/floats"
)

// Version gives the version number.
const Version = "0.1.0"

// Dataset is an open data source: either a *GridDataset or a
// *VectorDataset. The caller owns it and is responsible for closing it.
type Dataset interface {
	Path() string
	Close() error
}

// Open opens the file at path, dispatching on its extension.
func Open(path string) (Dataset, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".nc":
		return OpenGrid(path)
	case ".shp":
		return OpenVector(path)
	default:
		return nil, &UnsupportedFormatError{Path: path, Ext: ext}
	}
}

// Extent is a display extent in projection coordinates, ordered
// (xmin, xmax, ymin, ymax).
type Extent struct {
	XMin, XMax, YMin, YMax float64
}

// Renderer draws resolved data onto a map. Implementations are external
// collaborators; the core hands over a fully resolved slice or feature set
// and never inspects anything beyond the returned error.
type Renderer interface {
	// RenderGrid draws a 2-D scalar field whose cell coordinates are
	// given by mesh, in the coordinate system described by p.
	RenderGrid(field *sparse.DenseArray, mesh *CoordinateMesh, p *ResolvedProjection, extent Extent) error

	// RenderVector draws a set of geometries in the coordinate system
	// described by p.
	RenderVector(geoms []geom.Geom, p *ResolvedProjection, extent Extent) error
}

// AxisSelector supplies the axis and index selection for variables with
// more than two dimensions. It is the single interactive round-trip the
// core depends on; a UI would show the variable's dimensions and sizes and
// return the user's choice synchronously.
type AxisSelector interface {
	SelectAxes(v *Variable) (*SpatialAxisBinding, error)
}

// Viewer owns the single currently open dataset and drives the
// resolve-reduce-reconcile-render pipeline. All methods are synchronous
// and must be called from one goroutine.
type Viewer struct {
	// Renderer receives resolved plots. Required for the Plot methods.
	Renderer Renderer

	// Selector, if non-nil, is consulted for variables with more than
	// two dimensions.
	Selector AxisSelector

	// OnOpen, if non-nil, is called with the path of every successfully
	// opened dataset. History keeping is the callback's business.
	OnOpen func(path string)

	// OnNote, if non-nil, receives non-fatal advisory notes such as the
	// use of an automatic CRS fallback.
	OnNote func(note string)

	current Dataset
}

// Load opens the file at path and makes it the current dataset. The new
// source is opened first and only on success is the previous handle closed
// and replaced, so a failed load leaves the current dataset untouched and
// a successful one never leaks the old descriptor.
func (vw *Viewer) Load(path string) (Dataset, error) {
	d, err := Open(path)
	if err != nil {
		return nil, err
	}
	if vw.current != nil {
		vw.current.Close()
	}
	vw.current = d
	if vw.OnOpen != nil {
		vw.OnOpen(path)
	}
	return d, nil
}

// Current returns the currently open dataset, or nil.
func (vw *Viewer) Current() Dataset { return vw.current }

// Close closes the current dataset, if any.
func (vw *Viewer) Close() error {
	if vw.current == nil {
		return nil
	}
	err := vw.current.Close()
	vw.current = nil
	return err
}

func (vw *Viewer) note(s string) {
	if s != "" && vw.OnNote != nil {
		vw.OnNote(s)
	}
}

// Plot renders the variable. Variables with at most two meaningful
// dimensions and recognizable axis names take the automatic path;
// higher-dimensional variables and variables whose spatial axes cannot be
// inferred are routed through the axis selector.
func (vw *Viewer) Plot(v *Variable) error {
	b, err := v.AutoBinding()
	if err != nil {
		switch err.(type) {
		case *ShapeError, *CoordinatesNotFoundError:
			if vw.Selector == nil {
				return err
			}
		default:
			return err
		}
		if b, err = vw.Selector.SelectAxes(v); err != nil {
			return err
		}
	}
	return vw.PlotReduced(v, b)
}

// PlotReduced renders the 2-D slice of v selected by the binding. Both the
// automatic and the explicit selection path end up here, so the renderer
// never needs to know which produced the binding. Gridded data is assumed
// to carry geographic coordinates and is drawn in the fixed global
// equirectangular projection.
func (vw *Viewer) PlotReduced(v *Variable, b *SpatialAxisBinding) error {
	slice, err := Reduce(v, b)
	if err != nil {
		return err
	}
	mesh, err := AlignMesh(v, b, slice)
	if err != nil {
		return err
	}
	extent := Extent{
		XMin: floats.Min(mesh.X.Elements),
		XMax: floats.Max(mesh.X.Elements),
		YMin: floats.Min(mesh.Y.Elements),
		YMax: floats.Max(mesh.Y.Elements),
	}
	return vw.Renderer.RenderGrid(slice, mesh, Geographic(), extent)
}

// PlotVector reconciles the dataset's CRS and renders its geometries. The
// one resolved projection is used both for the display extent and as the
// renderer's transform argument; resolving separately for the two would
// silently mis-place geometry.
func (vw *Viewer) PlotVector(d *VectorDataset) error {
	p, err := Reconcile(d.CRS())
	if err != nil {
		return err
	}
	vw.note(p.Note)
	b := d.Bounds()
	extent := Extent{XMin: b.Min.X, XMax: b.Max.X, YMin: b.Min.Y, YMax: b.Max.Y}
	return vw.Renderer.RenderVector(d.Geometries(), p, extent)
}
