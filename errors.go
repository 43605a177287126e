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

import "fmt"

// UnsupportedFormatError is returned when a file's extension does not
// correspond to any supported dataset format.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("geoview: unsupported file type '%s' (%s)", e.Ext, e.Path)
}

// OpenError is returned when a file with a recognized extension cannot be
// parsed as the format its extension declares.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("geoview: opening %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// CoordinatesNotFoundError is returned when the spatial dimensions of a
// variable cannot be inferred, or when a spatial dimension has no backing
// coordinate variable in the dataset.
type CoordinatesNotFoundError struct {
	Variable string
}

func (e *CoordinatesNotFoundError) Error() string {
	return fmt.Sprintf("geoview: cannot find longitude and latitude coordinates for variable %s", e.Variable)
}

// ShapeError is returned when dimension reduction cannot produce a 2-D
// result: an invalid axis selection, an incomplete or out-of-range index
// map, or a reduced array whose rank is not 2. Shape holds the shape that
// was (or would have been) produced, for diagnostics.
type ShapeError struct {
	Variable string
	Shape    []int
	Reason   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("geoview: reducing variable %s to 2-D (shape %v): %s", e.Variable, e.Shape, e.Reason)
}

// CoordinateMismatchError is returned when the coordinate variables for the
// chosen spatial axes are neither 1-D vectors nor 2-D arrays matching the
// shape of the reduced data slice.
type CoordinateMismatchError struct {
	Variable       string
	DataShape      []int
	XShape, YShape []int
	XDim, YDim     string
}

func (e *CoordinateMismatchError) Error() string {
	return fmt.Sprintf("geoview: coordinates %s %v and %s %v do not match data slice of variable %s %v",
		e.XDim, e.XShape, e.YDim, e.YShape, e.Variable, e.DataShape)
}

// CRSErrorKind distinguishes the ways coordinate reference system
// reconciliation can fail.
type CRSErrorKind int

const (
	// CRSMissing means the dataset carries no CRS declaration at all.
	CRSMissing CRSErrorKind = iota

	// CRSUnsupportedProjected means the CRS uses linear (projected) units
	// but cannot be resolved to a known EPSG definition. Guessing the
	// parameters of an unknown projected system would silently mis-place
	// geometry, so reconciliation refuses instead.
	CRSUnsupportedProjected
)

// CRSError is returned when a vector dataset's coordinate reference system
// cannot be reconciled to a usable map projection.
type CRSError struct {
	Kind   CRSErrorKind
	Detail string
}

func (e *CRSError) Error() string {
	switch e.Kind {
	case CRSMissing:
		return "geoview: dataset has no usable coordinate reference system"
	case CRSUnsupportedProjected:
		return fmt.Sprintf("geoview: projected coordinate system without an EPSG mapping cannot be resolved automatically: %s", e.Detail)
	}
	return fmt.Sprintf("geoview: CRS error: %s", e.Detail)
}
