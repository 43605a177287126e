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
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// GridDataset is a read-only handle to an open NetCDF file. It is owned by
// the caller and must be closed when no longer needed.
type GridDataset struct {
	path    string
	file    *os.File
	cf      *cdf.File
	numRecs int // length of the record dimension, if any
}

// OpenGrid opens the NetCDF file at path.
func OpenGrid(path string) (*GridDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	cf, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	return &GridDataset{
		path:    path,
		file:    f,
		cf:      cf,
		numRecs: int(cf.Header.NumRecs(fi.Size())),
	}, nil
}

// Path returns the path the dataset was opened from.
func (d *GridDataset) Path() string { return d.path }

// Close releases the underlying file handle.
func (d *GridDataset) Close() error { return d.file.Close() }

// Dimension is a named axis of a gridded dataset.
type Dimension struct {
	Name   string
	Length int
}

// Dimensions returns the dataset's dimensions in declaration order.
func (d *GridDataset) Dimensions() []Dimension {
	names := d.cf.Header.Dimensions("")
	lengths := d.cf.Header.Lengths("")
	dims := make([]Dimension, len(names))
	for i, n := range names {
		l := lengths[i]
		if l == 0 {
			l = d.numRecs
		}
		dims[i] = Dimension{Name: n, Length: l}
	}
	return dims
}

// AttributeNames returns the names of the dataset's global attributes.
func (d *GridDataset) AttributeNames() []string {
	return d.cf.Header.Attributes("")
}

// Attribute returns the value of the named global attribute, or nil if it
// does not exist.
func (d *GridDataset) Attribute(name string) interface{} {
	return d.cf.Header.GetAttribute("", name)
}

// Variables returns the dataset's variables in declaration order.
func (d *GridDataset) Variables() []*Variable {
	names := d.cf.Header.Variables()
	vars := make([]*Variable, len(names))
	for i, n := range names {
		vars[i], _ = d.Variable(n)
	}
	return vars
}

// Variable returns the named variable, reporting whether it exists.
func (d *GridDataset) Variable(name string) (*Variable, bool) {
	shape := d.cf.Header.Lengths(name)
	if shape == nil {
		return nil, false
	}
	// The record dimension is stored with length zero; substitute the
	// actual record count.
	if len(shape) > 0 && shape[0] == 0 && d.cf.Header.IsRecordVariable(name) {
		shape = append([]int{d.numRecs}, shape[1:]...)
	}
	return &Variable{
		ds:    d,
		Name:  name,
		Dims:  d.cf.Header.Dimensions(name),
		Shape: shape,
		Type:  dtypeName(d.cf.Header.ZeroValue(name, 0)),
	}, true
}

// PlottableVariables returns the variables with at least two dimensions.
func (d *GridDataset) PlottableVariables() []*Variable {
	var vars []*Variable
	for _, v := range d.Variables() {
		if v.Plottable() {
			vars = append(vars, v)
		}
	}
	return vars
}

// Variable describes one variable of a GridDataset. Dims and Shape always
// have the same length.
type Variable struct {
	ds *GridDataset

	Name  string
	Dims  []string
	Shape []int
	Type  string
}

// Rank returns the number of dimensions of the variable.
func (v *Variable) Rank() int { return len(v.Dims) }

// Plottable reports whether the variable has enough dimensions to be
// rendered as a 2-D field.
func (v *Variable) Plottable() bool { return v.Rank() >= 2 }

// AttributeNames returns the names of the variable's attributes.
func (v *Variable) AttributeNames() []string {
	return v.ds.cf.Header.Attributes(v.Name)
}

// Attribute returns the value of the named variable attribute, or nil if it
// does not exist.
func (v *Variable) Attribute(name string) interface{} {
	return v.ds.cf.Header.GetAttribute(v.Name, name)
}

// Read reads the variable's full contents into a dense array, converting
// the elements to float64. Record variables are read one record at a time;
// a whole-extent reader only spans the first record.
func (v *Variable) Read() (*sparse.DenseArray, error) {
	data := sparse.ZerosDense(v.Shape...)
	if v.ds.cf.Header.IsRecordVariable(v.Name) && len(v.Shape) > 0 {
		recLen := 1
		for _, n := range v.Shape[1:] {
			recLen *= n
		}
		for rec := 0; rec < v.Shape[0]; rec++ {
			begin := make([]int, len(v.Shape))
			end := make([]int, len(v.Shape))
			begin[0], end[0] = rec, rec+1
			r := v.ds.cf.Reader(v.Name, begin, end)
			buf := r.Zero(recLen)
			if _, err := r.Read(buf); err != nil {
				return nil, fmt.Errorf("geoview: reading netcdf variable %s record %d: %v", v.Name, rec, err)
			}
			vals, err := toFloats(buf)
			if err != nil {
				return nil, fmt.Errorf("geoview: reading netcdf variable %s: %v", v.Name, err)
			}
			copy(data.Elements[rec*recLen:], vals)
		}
		return data, nil
	}
	r := v.ds.cf.Reader(v.Name, nil, nil)
	if r == nil {
		return nil, fmt.Errorf("geoview: reading netcdf variable %s: not in file", v.Name)
	}
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("geoview: reading netcdf variable %s: %v", v.Name, err)
	}
	vals, err := toFloats(buf)
	if err != nil {
		return nil, fmt.Errorf("geoview: reading netcdf variable %s: %v", v.Name, err)
	}
	copy(data.Elements, vals)
	return data, nil
}

// toFloats converts a buffer returned by a cdf reader to float64 values.
func toFloats(buf interface{}) ([]float64, error) {
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		o := make([]float64, len(b))
		for i, val := range b {
			o[i] = float64(val)
		}
		return o, nil
	case []int32:
		o := make([]float64, len(b))
		for i, val := range b {
			o[i] = float64(val)
		}
		return o, nil
	case []int16:
		o := make([]float64, len(b))
		for i, val := range b {
			o[i] = float64(val)
		}
		return o, nil
	case []uint8:
		o := make([]float64, len(b))
		for i, val := range b {
			o[i] = float64(val)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("non-numeric data of type %T", buf)
	}
}

// dtypeName names the element type of a zero-value buffer.
func dtypeName(zero interface{}) string {
	switch zero.(type) {
	case []float64:
		return "float64"
	case []float32:
		return "float32"
	case []int32:
		return "int32"
	case []int16:
		return "int16"
	case []uint8:
		return "byte"
	case string:
		return "char"
	}
	return fmt.Sprintf("%T", zero)
}
