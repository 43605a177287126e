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

package geoviewutil

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	path := writeTestGrid(t)
	hist := filepath.Join(t.TempDir(), "history.txt")

	var buf bytes.Buffer
	if err := Info(&buf, path, hist); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"lat: 3", "lon: 4", "tmp", "units: K"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	entries, err := History(hist)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0] != path {
		t.Errorf("history: got %v, want [%s]", entries, path)
	}
}

func TestVars(t *testing.T) {
	var buf bytes.Buffer
	if err := Vars(&buf, writeTestGrid(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "tmp") {
		t.Errorf("output missing tmp:\n%s", out)
	}
	// Coordinate variables are 1-D and not plottable.
	if strings.Count(out, "\n") != 1 {
		t.Errorf("want exactly one plottable variable listed:\n%s", out)
	}
}

func TestInfoUnsupported(t *testing.T) {
	if err := Info(&bytes.Buffer{}, filepath.Join(t.TempDir(), "x.csv"), ""); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}
