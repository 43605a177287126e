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
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
)

// recordingRenderer records what it was asked to draw.
type recordingRenderer struct {
	gridCalls, vectorCalls int
	field                  *sparse.DenseArray
	mesh                   *CoordinateMesh
	geoms                  []geom.Geom
	proj                   *ResolvedProjection
	extent                 Extent
}

func (r *recordingRenderer) RenderGrid(field *sparse.DenseArray, mesh *CoordinateMesh, p *ResolvedProjection, extent Extent) error {
	r.gridCalls++
	r.field, r.mesh, r.proj, r.extent = field, mesh, p, extent
	return nil
}

func (r *recordingRenderer) RenderVector(geoms []geom.Geom, p *ResolvedProjection, extent Extent) error {
	r.vectorCalls++
	r.geoms, r.proj, r.extent = geoms, p, extent
	return nil
}

func TestOpenDispatch(t *testing.T) {
	ncPath := writeTestGrid(t)
	d, err := Open(ncPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.(*GridDataset); !ok {
		t.Errorf("got %T, want *GridDataset", d)
	}
	d.Close()

	shpPath := writeTestShapefile(t, t.TempDir(), wgs84WKT)
	d, err = Open(shpPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.(*VectorDataset); !ok {
		t.Errorf("got %T, want *VectorDataset", d)
	}
	d.Close()

	if _, err := Open(filepath.Join(t.TempDir(), "data.txt")); err == nil {
		t.Error("expected an error for an unsupported extension")
	} else if ufe, ok := err.(*UnsupportedFormatError); !ok {
		t.Errorf("got %T, want *UnsupportedFormatError", err)
	} else if ufe.Ext != ".txt" {
		t.Errorf("ext: got %q, want .txt", ufe.Ext)
	}
}

func TestViewerLoad(t *testing.T) {
	var opened []string
	vw := &Viewer{OnOpen: func(path string) { opened = append(opened, path) }}
	defer vw.Close()

	first := writeTestGrid(t)
	if _, err := vw.Load(first); err != nil {
		t.Fatal(err)
	}
	if vw.Current() == nil || vw.Current().Path() != first {
		t.Fatalf("current dataset not set after load")
	}

	// A failed load must leave the current dataset untouched and fire no
	// open callback.
	if _, err := vw.Load(filepath.Join(t.TempDir(), "missing.nc")); err == nil {
		t.Fatal("expected an error")
	}
	if vw.Current() == nil || vw.Current().Path() != first {
		t.Error("failed load replaced the current dataset")
	}

	// A successful load replaces it.
	second := writeTestShapefile(t, t.TempDir(), wgs84WKT)
	if _, err := vw.Load(second); err != nil {
		t.Fatal(err)
	}
	if vw.Current().Path() != second {
		t.Error("successful load did not replace the current dataset")
	}

	if len(opened) != 2 || opened[0] != first || opened[1] != second {
		t.Errorf("open callbacks: got %v", opened)
	}
}

func TestViewerPlot(t *testing.T) {
	path := writeTestGrid(t)
	r := &recordingRenderer{}
	vw := &Viewer{Renderer: r}
	defer vw.Close()

	if _, err := vw.Load(path); err != nil {
		t.Fatal(err)
	}
	d := vw.Current().(*GridDataset)
	v, _ := d.Variable("tmp")

	// Without a selector the time dimension (length 2) cannot be pinned.
	if err := vw.Plot(v); err == nil {
		t.Fatal("expected an error without a selector")
	}

	b := &SpatialAxisBinding{XDim: "lon", YDim: "lat", Indices: map[string]int{"time": 0}}
	if err := vw.PlotReduced(v, b); err != nil {
		t.Fatal(err)
	}
	if r.gridCalls != 1 {
		t.Fatalf("grid renders: got %d, want 1", r.gridCalls)
	}
	want := Extent{XMin: -120, XMax: -90, YMin: 10, YMax: 30}
	if r.extent != want {
		t.Errorf("extent: got %+v, want %+v", r.extent, want)
	}
	if r.proj.Source != ProjectionGeographic {
		t.Errorf("projection source: got %v, want geographic", r.proj.Source)
	}
}

// A selector is consulted when the automatic binding cannot pin a
// dimension.
type pinFirstSelector struct{ consulted bool }

func (s *pinFirstSelector) SelectAxes(v *Variable) (*SpatialAxisBinding, error) {
	s.consulted = true
	return &SpatialAxisBinding{XDim: "lon", YDim: "lat",
		Indices: map[string]int{"time": 0}}, nil
}

func TestViewerPlotSelector(t *testing.T) {
	path := writeTestGrid(t)
	r := &recordingRenderer{}
	s := &pinFirstSelector{}
	vw := &Viewer{Renderer: r, Selector: s}
	defer vw.Close()

	if _, err := vw.Load(path); err != nil {
		t.Fatal(err)
	}
	v, _ := vw.Current().(*GridDataset).Variable("tmp")
	if err := vw.Plot(v); err != nil {
		t.Fatal(err)
	}
	if !s.consulted {
		t.Error("selector not consulted")
	}
	if r.gridCalls != 1 {
		t.Errorf("grid renders: got %d, want 1", r.gridCalls)
	}
}

// An explicit axis choice satisfies dimensions whose names carry no
// spatial meaning.
type namedAxisSelector struct {
	x, y      string
	consulted bool
}

func (s *namedAxisSelector) SelectAxes(v *Variable) (*SpatialAxisBinding, error) {
	s.consulted = true
	return &SpatialAxisBinding{XDim: s.x, YDim: s.y,
		Indices: map[string]int{}}, nil
}

func TestViewerPlotUnrecognizedAxisNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.nc")
	writeGrid(t, path,
		[]string{"nj", "ni"}, []int{3, 4},
		nil,
		[]gridVar{
			{name: "ni", dims: []string{"ni"}, data: []float64{-120, -110, -100, -90}},
			{name: "nj", dims: []string{"nj"}, data: []float64{10, 20, 30}},
			{name: "tmp", dims: []string{"nj", "ni"},
				data: make([]float64, 12)},
		})

	r := &recordingRenderer{}
	vw := &Viewer{Renderer: r}
	defer vw.Close()
	if _, err := vw.Load(path); err != nil {
		t.Fatal(err)
	}
	v, _ := vw.Current().(*GridDataset).Variable("tmp")

	// Without a selector, failed name inference is the caller's problem.
	if err := vw.Plot(v); err == nil {
		t.Fatal("expected an error without a selector")
	} else if _, ok := err.(*CoordinatesNotFoundError); !ok {
		t.Fatalf("got %T, want *CoordinatesNotFoundError", err)
	}

	s := &namedAxisSelector{x: "ni", y: "nj"}
	vw.Selector = s
	if err := vw.Plot(v); err != nil {
		t.Fatal(err)
	}
	if !s.consulted {
		t.Error("selector not consulted")
	}
	if r.gridCalls != 1 {
		t.Errorf("grid renders: got %d, want 1", r.gridCalls)
	}
	want := Extent{XMin: -120, XMax: -90, YMin: 10, YMax: 30}
	if r.extent != want {
		t.Errorf("extent: got %+v, want %+v", r.extent, want)
	}
}

func TestViewerPlotVector(t *testing.T) {
	var notes []string
	r := &recordingRenderer{}
	vw := &Viewer{Renderer: r, OnNote: func(s string) { notes = append(notes, s) }}
	defer vw.Close()

	path := writeTestShapefile(t, t.TempDir(), wgs84WKT)
	if _, err := vw.Load(path); err != nil {
		t.Fatal(err)
	}
	d := vw.Current().(*VectorDataset)
	if err := vw.PlotVector(d); err != nil {
		t.Fatal(err)
	}
	if r.vectorCalls != 1 || len(r.geoms) != 2 {
		t.Fatalf("vector renders: calls=%d geoms=%d", r.vectorCalls, len(r.geoms))
	}
	want := Extent{XMin: -10, XMax: 10, YMin: -5, YMax: 5}
	if r.extent != want {
		t.Errorf("extent: got %+v, want %+v", r.extent, want)
	}
	// EPSG resolution needs no advisory note.
	if len(notes) != 0 {
		t.Errorf("unexpected notes %v", notes)
	}
}

func TestViewerPlotVectorNoCRS(t *testing.T) {
	r := &recordingRenderer{}
	vw := &Viewer{Renderer: r}
	defer vw.Close()

	path := writeTestShapefile(t, t.TempDir(), "")
	if _, err := vw.Load(path); err != nil {
		t.Fatal(err)
	}
	d := vw.Current().(*VectorDataset)
	if err := vw.PlotVector(d); err == nil {
		t.Fatal("expected an error for a dataset with no CRS")
	} else if crsErr, ok := err.(*CRSError); !ok || crsErr.Kind != CRSMissing {
		t.Errorf("got %v, want CRSMissing", err)
	}
	if r.vectorCalls != 0 {
		t.Error("renderer called despite the CRS error")
	}
}

func TestViewerPlotVectorFallbackNote(t *testing.T) {
	var notes []string
	r := &recordingRenderer{}
	vw := &Viewer{Renderer: r, OnNote: func(s string) { notes = append(notes, s) }}
	defer vw.Close()

	path := writeTestShapefile(t, t.TempDir(), nad83NoAuthorityWKT)
	if _, err := vw.Load(path); err != nil {
		t.Fatal(err)
	}
	if err := vw.PlotVector(vw.Current().(*VectorDataset)); err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 {
		t.Errorf("advisory notes: got %v, want one fallback note", notes)
	}
}
