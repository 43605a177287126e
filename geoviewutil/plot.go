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
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/geoviewer/geoview"
	"github.com/geoviewer/geoview/render"
)

// Log is the logger plots and dataset opens are reported to.
var Log logrus.FieldLogger = logrus.StandardLogger()

// PlotConfig holds the settings for a single plot.
type PlotConfig struct {
	// Dataset is the path to the dataset to render.
	Dataset string

	// Variable is the grid variable to render. It is ignored for
	// vector datasets.
	Variable string

	// Output is the path the PNG map is written to.
	Output string

	// Legend is the path a PNG legend is written to; empty disables it.
	Legend string

	// Width is the output image width in pixels.
	Width int

	// XDim and YDim override the automatic spatial axis choice.
	XDim, YDim string

	// At pins non-spatial dimensions to indices as name=index pairs.
	At []string

	// HistoryFile records opened datasets; empty disables recording.
	HistoryFile string
}

// Plot renders a dataset to a PNG map according to the configuration.
func Plot(c PlotConfig) error {
	out, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("geoview: creating output file: %v", err)
	}
	defer out.Close()

	m := render.NewMap(out)
	m.Width = c.Width
	var legendOut *os.File
	if c.Legend != "" {
		if legendOut, err = os.Create(c.Legend); err != nil {
			return fmt.Errorf("geoview: creating legend file: %v", err)
		}
		defer legendOut.Close()
		m.LegendOut = legendOut
	}

	at, err := parseIndexPairs(c.At)
	if err != nil {
		return err
	}
	sel := &FlagSelector{XDim: c.XDim, YDim: c.YDim, At: at}
	vw := &geoview.Viewer{
		Renderer: m,
		Selector: sel,
		OnOpen: func(path string) {
			Log.WithFields(logrus.Fields{"file": path}).Info("opened dataset")
			if c.HistoryFile != "" {
				if err := recordHistory(c.HistoryFile, path); err != nil {
					Log.WithFields(logrus.Fields{"err": err}).Warn("recording history")
				}
			}
		},
		OnNote: func(s string) { Log.Info(s) },
	}
	defer vw.Close()

	d, err := vw.Load(c.Dataset)
	if err != nil {
		return err
	}
	switch d := d.(type) {
	case *geoview.GridDataset:
		if c.Variable == "" {
			return fmt.Errorf("geoview: %s: a variable name is required to plot a grid dataset", c.Dataset)
		}
		v, ok := d.Variable(c.Variable)
		if !ok {
			return fmt.Errorf("geoview: %s: no variable %q", c.Dataset, c.Variable)
		}
		m.Label = v.Name
		if units, ok := v.Attribute("units").(string); ok {
			m.Label = fmt.Sprintf("%s (%s)", v.Name, units)
		}
		if c.XDim != "" || c.YDim != "" || len(at) > 0 {
			b, err := sel.SelectAxes(v)
			if err != nil {
				return err
			}
			if err := vw.PlotReduced(v, b); err != nil {
				return err
			}
		} else if err := vw.Plot(v); err != nil {
			return err
		}
	case *geoview.VectorDataset:
		if err := vw.PlotVector(d); err != nil {
			return err
		}
	default:
		return fmt.Errorf("geoview: %s: cannot plot dataset of type %T", c.Dataset, d)
	}
	Log.WithFields(logrus.Fields{"file": c.Output}).Info("wrote map")
	return nil
}

// FlagSelector chooses spatial axes and pinned indices from command-line
// flags. It implements geoview.AxisSelector. Axis fields left empty fall
// back to the name-based automatic choice.
type FlagSelector struct {
	XDim, YDim string
	At         map[string]int
}

// SelectAxes builds an axis binding for v from the configured flags,
// pinning any remaining length-one dimensions automatically.
func (s *FlagSelector) SelectAxes(v *geoview.Variable) (*geoview.SpatialAxisBinding, error) {
	x, y := s.XDim, s.YDim
	if x == "" || y == "" {
		rx, ry, err := v.ResolveSpatialAxes()
		if err != nil {
			return nil, err
		}
		if x == "" {
			x = rx
		}
		if y == "" {
			y = ry
		}
	}
	b := &geoview.SpatialAxisBinding{XDim: x, YDim: y, Indices: make(map[string]int)}
	for i, dim := range v.Dims {
		if dim == x || dim == y {
			continue
		}
		if idx, ok := s.At[dim]; ok {
			b.Indices[dim] = idx
		} else if v.Shape[i] == 1 {
			b.Indices[dim] = 0
		} else {
			return nil, &geoview.ShapeError{
				Variable: v.Name,
				Shape:    v.Shape,
				Reason:   fmt.Sprintf("dimension %s has length %d; pin it with --at %s=index", dim, v.Shape[i], dim),
			}
		}
	}
	return b, nil
}

// parseIndexPairs parses name=index pairs such as ["time=3", "level=0"].
func parseIndexPairs(pairs []string) (map[string]int, error) {
	at := make(map[string]int, len(pairs))
	for _, p := range pairs {
		name, val, found := strings.Cut(p, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("geoview: invalid index assignment %q; expected name=index", p)
		}
		idx, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("geoview: invalid index in %q: %v", p, err)
		}
		at[name] = idx
	}
	return at, nil
}
