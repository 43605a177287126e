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

import "github.com/ctessum/sparse"

// SpatialAxisBinding maps a variable's dimensions to geographic roles:
// XDim and YDim are taken in full and every other dimension is pinned to a
// fixed index. A binding may come from automatic inference (AutoBinding)
// or from an explicit interactive selection; the reducer does not care
// which.
type SpatialAxisBinding struct {
	XDim, YDim string

	// Indices pins each non-spatial dimension to a single index.
	Indices map[string]int
}

// validate checks the binding against the variable it is to be applied to:
// distinct spatial axes that exist on the variable, and exactly one
// in-range index for every other dimension.
func (b *SpatialAxisBinding) validate(v *Variable) error {
	if b.XDim == b.YDim {
		return &ShapeError{Variable: v.Name, Shape: v.Shape,
			Reason: "x and y axes must be different dimensions"}
	}
	foundX, foundY := false, false
	for i, dim := range v.Dims {
		switch dim {
		case b.XDim:
			foundX = true
		case b.YDim:
			foundY = true
		default:
			idx, ok := b.Indices[dim]
			if !ok {
				return &ShapeError{Variable: v.Name, Shape: v.Shape,
					Reason: "no index selected for dimension " + dim}
			}
			if idx < 0 || idx >= v.Shape[i] {
				return &ShapeError{Variable: v.Name, Shape: v.Shape,
					Reason: "index for dimension " + dim + " is out of range"}
			}
		}
	}
	if !foundX || !foundY {
		return &ShapeError{Variable: v.Name, Shape: v.Shape,
			Reason: "selected axes are not dimensions of the variable"}
	}
	return nil
}

// Reduce extracts the 2-D slice of v selected by the binding: the two
// spatial axes are taken in full and every other axis is collapsed to its
// pinned index. The result's axis order follows the variable's dimension
// order restricted to the two spatial axes, so a variable laid out
// (time, lat, lon) reduces to a (lat, lon) slice.
func Reduce(v *Variable, b *SpatialAxisBinding) (*sparse.DenseArray, error) {
	if err := b.validate(v); err != nil {
		return nil, err
	}
	data, err := v.Read()
	if err != nil {
		return nil, err
	}

	// Positions of the spatial axes in the variable's dimension order.
	ax0, ax1 := -1, -1
	for i, dim := range v.Dims {
		if dim == b.XDim || dim == b.YDim {
			if ax0 < 0 {
				ax0 = i
			} else {
				ax1 = i
			}
		}
	}

	idx := make([]int, v.Rank())
	for i, dim := range v.Dims {
		if i != ax0 && i != ax1 {
			idx[i] = b.Indices[dim]
		}
	}
	out := sparse.ZerosDense(v.Shape[ax0], v.Shape[ax1])
	for i := 0; i < v.Shape[ax0]; i++ {
		for j := 0; j < v.Shape[ax1]; j++ {
			idx[ax0], idx[ax1] = i, j
			out.Set(data.Get(idx...), i, j)
		}
	}
	if len(out.Shape) != 2 {
		return nil, &ShapeError{Variable: v.Name, Shape: out.Shape,
			Reason: "reduction did not produce a 2-D array"}
	}
	return out, nil
}

// AlignMesh fetches the coordinate variables named by the binding's spatial
// axes and aligns them with the reduced 2-D slice. Three cases are tried in
// order: two 1-D coordinate vectors are combined into a mesh oriented to
// the slice's axis order; two 2-D coordinate arrays whose shape exactly
// matches the slice are used directly; anything else is a coordinate
// mismatch and no mesh is produced.
func AlignMesh(v *Variable, b *SpatialAxisBinding, slice *sparse.DenseArray) (*CoordinateMesh, error) {
	xc, err := v.coordinate(b.XDim)
	if err != nil {
		return nil, err
	}
	yc, err := v.coordinate(b.YDim)
	if err != nil {
		return nil, err
	}

	mismatch := func() error {
		return &CoordinateMismatchError{
			Variable:  v.Name,
			DataShape: slice.Shape,
			XShape:    xc.Shape,
			YShape:    yc.Shape,
			XDim:      b.XDim,
			YDim:      b.YDim,
		}
	}

	if len(xc.Shape) == 1 && len(yc.Shape) == 1 {
		var mesh *CoordinateMesh
		if axisPosition(v, b.XDim) < axisPosition(v, b.YDim) {
			mesh = newMeshXFirst(xc.Elements, yc.Elements)
		} else {
			mesh = NewMesh(xc.Elements, yc.Elements)
		}
		if !shapeEqual(mesh.Shape(), slice.Shape) {
			return nil, mismatch()
		}
		return mesh, nil
	}
	if shapeEqual(xc.Shape, slice.Shape) && shapeEqual(yc.Shape, slice.Shape) {
		return &CoordinateMesh{X: xc, Y: yc}, nil
	}
	return nil, mismatch()
}

func axisPosition(v *Variable, dim string) int {
	for i, d := range v.Dims {
		if d == dim {
			return i
		}
	}
	return -1
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
