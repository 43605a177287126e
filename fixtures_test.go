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
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
)

type gridVar struct {
	name  string
	dims  []string
	data  []float64
	attrs map[string]string
}

// writeGrid writes a NetCDF file for use as a test fixture.
func writeGrid(t *testing.T, path string, dims []string, lengths []int, globals map[string]string, vars []gridVar) {
	t.Helper()
	h := cdf.NewHeader(dims, lengths)
	for _, v := range vars {
		h.AddVariable(v.name, v.dims, []float64{0})
		for name, val := range v.attrs {
			h.AddAttribute(v.name, name, val)
		}
	}
	for name, val := range globals {
		h.AddAttribute("", name, val)
	}
	h.Define()
	for _, err := range h.Check() {
		t.Fatalf("defining test netcdf file: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cf, err := cdf.Create(f, h)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vars {
		// A writer bounded exactly at the variable's last element
		// reports io.EOF on a complete write, so the end index points
		// one row past the data. Record variables extend the file and
		// take an open-ended writer instead.
		var w cdf.Writer
		if h.IsRecordVariable(v.name) {
			w = cf.Writer(v.name, nil, nil)
		} else {
			ll := h.Lengths(v.name)
			begin := make([]int, len(ll))
			end := make([]int, len(ll))
			if len(ll) > 0 {
				end[0] = ll[0]
			}
			w = cf.Writer(v.name, begin, end)
		}
		if _, err := w.Write(v.data); err != nil {
			t.Fatalf("writing test variable %s: %v", v.name, err)
		}
	}
}

// writeTestGrid writes the standard fixture: a (time=2, lat=3, lon=4)
// temperature variable with 1-D coordinate variables.
func writeTestGrid(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.nc")
	tmp := make([]float64, 2*3*4)
	for i := range tmp {
		tmp[i] = float64(i)
	}
	writeGrid(t, path,
		[]string{"time", "lat", "lon"}, []int{2, 3, 4},
		map[string]string{"title": "fixture data"},
		[]gridVar{
			{name: "time", dims: []string{"time"}, data: []float64{0, 1}},
			{name: "lat", dims: []string{"lat"}, data: []float64{10, 20, 30},
				attrs: map[string]string{"units": "degrees_north"}},
			{name: "lon", dims: []string{"lon"}, data: []float64{-120, -110, -100, -90},
				attrs: map[string]string{"units": "degrees_east"}},
			{name: "tmp", dims: []string{"time", "lat", "lon"}, data: tmp,
				attrs: map[string]string{"units": "K"}},
		})
	return path
}
