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
	"os"
	"strings"
)

// maxHistory is the number of entries kept in the history file.
const maxHistory = 10

// History returns the recently opened dataset paths, most recent first.
// A missing history file is not an error; it returns no entries.
func History(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("geoview: reading history file: %v", err)
	}
	var entries []string
	for _, line := range strings.Split(string(b), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	return entries, nil
}

// recordHistory prepends dataset to the history file, removing any earlier
// occurrence and truncating to the most recent entries.
func recordHistory(path, dataset string) error {
	entries, err := History(path)
	if err != nil {
		return err
	}
	updated := make([]string, 0, len(entries)+1)
	updated = append(updated, dataset)
	for _, e := range entries {
		if e != dataset {
			updated = append(updated, e)
		}
	}
	if len(updated) > maxHistory {
		updated = updated[:maxHistory]
	}
	if err := os.WriteFile(path, []byte(strings.Join(updated, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("geoview: writing history file: %v", err)
	}
	return nil
}
