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
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
)

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")

	// Missing file: empty history, no error.
	entries, err := History(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %v, want empty history", entries)
	}

	for _, p := range []string{"a.nc", "b.shp", "c.nc"} {
		if err := recordHistory(path, p); err != nil {
			t.Fatal(err)
		}
	}
	entries, err = History(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"c.nc", "b.shp", "a.nc"}; !reflect.DeepEqual(entries, want) {
		t.Errorf("got %v, want %v", entries, want)
	}

	// Reopening moves an entry to the front without duplicating it.
	if err := recordHistory(path, "a.nc"); err != nil {
		t.Fatal(err)
	}
	entries, _ = History(path)
	if want := []string{"a.nc", "c.nc", "b.shp"}; !reflect.DeepEqual(entries, want) {
		t.Errorf("after reopen: got %v, want %v", entries, want)
	}
}

func TestHistoryTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	for i := 0; i < maxHistory+5; i++ {
		if err := recordHistory(path, fmt.Sprintf("file%d.nc", i)); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := History(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != maxHistory {
		t.Fatalf("got %d entries, want %d", len(entries), maxHistory)
	}
	if entries[0] != fmt.Sprintf("file%d.nc", maxHistory+4) {
		t.Errorf("most recent entry: got %s", entries[0])
	}
}
