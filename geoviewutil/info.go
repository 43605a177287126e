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
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/geoviewer/geoview"
)

// Info opens the dataset at path, writes its metadata to w, and records
// the open in the history file if one is configured.
func Info(w io.Writer, path, historyFile string) error {
	d, err := geoview.Open(path)
	if err != nil {
		return err
	}
	defer d.Close()
	Log.WithFields(logrus.Fields{"file": path}).Info("opened dataset")
	if historyFile != "" {
		if err := recordHistory(historyFile, path); err != nil {
			Log.WithFields(logrus.Fields{"err": err}).Warn("recording history")
		}
	}
	switch d := d.(type) {
	case *geoview.GridDataset:
		writeGridMetadata(w, d)
	case *geoview.VectorDataset:
		writeVectorMetadata(w, d)
	default:
		return fmt.Errorf("geoview: %s: unknown dataset type %T", path, d)
	}
	return nil
}

// Vars lists the plottable variables of the grid dataset at path.
func Vars(w io.Writer, path string) error {
	d, err := geoview.OpenGrid(path)
	if err != nil {
		return err
	}
	defer d.Close()
	for _, v := range d.PlottableVariables() {
		fmt.Fprintf(w, "%s %s (%s)\n", v.Name, dimString(v), v.Type)
	}
	return nil
}

func writeGridMetadata(w io.Writer, d *geoview.GridDataset) {
	fmt.Fprintf(w, "Dataset: %s\n", d.Path())
	fmt.Fprintf(w, "\nGlobal attributes:\n")
	for _, name := range d.AttributeNames() {
		fmt.Fprintf(w, "  %s: %v\n", name, d.Attribute(name))
	}
	fmt.Fprintf(w, "\nDimensions:\n")
	for _, dim := range d.Dimensions() {
		fmt.Fprintf(w, "  %s: %d\n", dim.Name, dim.Length)
	}
	fmt.Fprintf(w, "\nVariables:\n")
	for _, v := range d.Variables() {
		fmt.Fprintf(w, "  %s %s (%s)\n", v.Name, dimString(v), v.Type)
		for _, name := range v.AttributeNames() {
			fmt.Fprintf(w, "    %s: %v\n", name, v.Attribute(name))
		}
	}
}

func writeVectorMetadata(w io.Writer, d *geoview.VectorDataset) {
	fmt.Fprintf(w, "Dataset: %s\n", d.Path())
	fmt.Fprintf(w, "Features: %d\n", d.Len())
	fmt.Fprintf(w, "Geometry types: %s\n", strings.Join(d.GeometryTypes(), ", "))
	fmt.Fprintf(w, "Fields: %s\n", strings.Join(d.FieldNames(), ", "))
	if b := d.Bounds(); b != nil {
		fmt.Fprintf(w, "Bounds: (%g, %g) to (%g, %g)\n", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
	}
	if crs := d.CRS(); crs != nil {
		fmt.Fprintf(w, "CRS: %s\n", crs)
	} else {
		fmt.Fprintf(w, "CRS: (none)\n")
	}
}

// dimString formats a variable's dimensions as name=length pairs.
func dimString(v *geoview.Variable) string {
	parts := make([]string, len(v.Dims))
	for i, dim := range v.Dims {
		parts[i] = fmt.Sprintf("%s=%d", dim, v.Shape[i])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
