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
	"strings"

	"github.com/ctessum/sparse"
)

type axisRole int

const (
	axisX axisRole = iota
	axisY
)

// axisRules is the ordered table of name patterns used to assign spatial
// roles to dimension names. Matching is by case-insensitive substring, and
// a dimension takes the role of the first rule it matches: the latitude
// rule comes first so that names like XLAT, which also contain the bare
// "x" pattern, land on the correct role.
var axisRules = []struct {
	role     axisRole
	patterns []string
}{
	{axisY, []string{"lat", "latitude", "y"}},
	{axisX, []string{"lon", "longitude", "x"}},
}

// classify returns the spatial role of a dimension name, if any.
func classify(dim string) (axisRole, bool) {
	d := strings.ToLower(dim)
	for _, rule := range axisRules {
		for _, p := range rule.patterns {
			if strings.Contains(d, p) {
				return rule.role, true
			}
		}
	}
	return 0, false
}

// ResolveSpatialAxes infers which of the variable's dimensions play the
// longitude/X and latitude/Y roles. A dimension is only eligible for a role
// if a coordinate variable with the same name exists in the dataset; a bare
// dimension with no coordinate values cannot place data on a map. Dimensions
// are scanned in declaration order and for each role the last eligible match
// wins, so a dataset with several dimensions matching the same pattern
// resolves deterministically to the one declared last.
func (v *Variable) ResolveSpatialAxes() (xDim, yDim string, err error) {
	for _, dim := range v.Dims {
		if _, ok := v.ds.Variable(dim); !ok {
			continue
		}
		switch role, ok := classify(dim); {
		case ok && role == axisX:
			xDim = dim
		case ok && role == axisY:
			yDim = dim
		}
	}
	if xDim == "" || yDim == "" || xDim == yDim {
		return "", "", &CoordinatesNotFoundError{Variable: v.Name}
	}
	return xDim, yDim, nil
}

// AutoBinding resolves the variable's spatial axes and pins every remaining
// dimension of length 1 to index 0. Variables with a non-spatial dimension
// longer than 1 need an explicit index selection instead; for those a
// ShapeError is returned naming the first such dimension.
func (v *Variable) AutoBinding() (*SpatialAxisBinding, error) {
	xDim, yDim, err := v.ResolveSpatialAxes()
	if err != nil {
		return nil, err
	}
	b := &SpatialAxisBinding{XDim: xDim, YDim: yDim, Indices: make(map[string]int)}
	for i, dim := range v.Dims {
		if dim == xDim || dim == yDim {
			continue
		}
		if v.Shape[i] != 1 {
			return nil, &ShapeError{
				Variable: v.Name,
				Shape:    v.Shape,
				Reason:   "dimension " + dim + " needs an explicit index selection",
			}
		}
		b.Indices[dim] = 0
	}
	return b, nil
}

// coordinate reads the coordinate variable named dim from the variable's
// dataset.
func (v *Variable) coordinate(dim string) (*sparse.DenseArray, error) {
	cv, ok := v.ds.Variable(dim)
	if !ok {
		return nil, &CoordinatesNotFoundError{Variable: v.Name}
	}
	return cv.Read()
}

// CoordinateMesh holds the X and Y coordinates of every cell of a 2-D data
// slice. Both arrays always have the same shape as the slice they align
// with.
type CoordinateMesh struct {
	X, Y *sparse.DenseArray
}

// Shape returns the shape shared by the mesh's two coordinate arrays.
func (m *CoordinateMesh) Shape() []int { return m.X.Shape }

// NewMesh builds a mesh from 1-D coordinate vectors by outer product.
// The result has shape (len(y), len(x)) and element (i,j) holds the
// coordinate pair (x[j], y[i]).
func NewMesh(x, y []float64) *CoordinateMesh {
	X := sparse.ZerosDense(len(y), len(x))
	Y := sparse.ZerosDense(len(y), len(x))
	for i := range y {
		for j := range x {
			X.Set(x[j], i, j)
			Y.Set(y[i], i, j)
		}
	}
	return &CoordinateMesh{X: X, Y: Y}
}

// newMeshXFirst builds a mesh for a slice whose first axis is the X
// dimension: shape (len(x), len(y)), element (i,j) = (x[i], y[j]).
func newMeshXFirst(x, y []float64) *CoordinateMesh {
	X := sparse.ZerosDense(len(x), len(y))
	Y := sparse.ZerosDense(len(x), len(y))
	for i := range x {
		for j := range y {
			X.Set(x[i], i, j)
			Y.Set(y[j], i, j)
		}
	}
	return &CoordinateMesh{X: X, Y: Y}
}
