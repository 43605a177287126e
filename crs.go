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
	"regexp"
	"strconv"

	"github.com/ctessum/geom/proj"
)

// geographicProj is the spatial reference used for data in angular
// coordinates and as the generic equirectangular fallback projection.
const geographicProj = "+proj=longlat +datum=WGS84 +no_defs"

// mercatorProj is the spatial reference definition for web mapping.
const mercatorProj = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs"

// epsgDefs maps the EPSG codes this package can resolve directly to PROJ4
// definitions. UTM codes (326xx/327xx) are derived rather than listed.
var epsgDefs = map[int]string{
	4326: geographicProj,
	4269: "+proj=longlat +datum=NAD83 +no_defs",
	3857: mercatorProj,
	3395: "+proj=merc +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs",
}

// CRSDescriptor is a parsed coordinate reference system declaration,
// usually read from a shapefile's .prj sidecar.
type CRSDescriptor struct {
	sr  *proj.SR
	def string
}

// ParseCRS parses a WKT- or PROJ4-formatted CRS definition. A malformed
// definition is an error; it is not the same thing as an exotic but valid
// CRS, which parses here and may still fail reconciliation later.
func ParseCRS(def string) (*CRSDescriptor, error) {
	sr, err := proj.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("geoview: parsing CRS definition: %v", err)
	}
	return &CRSDescriptor{sr: sr, def: def}, nil
}

// SR returns the parsed spatial reference.
func (d *CRSDescriptor) SR() *proj.SR { return d.sr }

// String returns the raw CRS definition text.
func (d *CRSDescriptor) String() string { return d.def }

// IsGeographic reports whether the CRS uses angular (degree) coordinates.
func (d *CRSDescriptor) IsGeographic() bool {
	return d.sr != nil && d.sr.Name == "longlat"
}

var (
	wktAuthorityRe = regexp.MustCompile(`(?i)AUTHORITY\s*\[\s*"EPSG"\s*,\s*"?(\d+)"?\s*\]`)
	projInitRe     = regexp.MustCompile(`(?i)\+init=epsg:(\d+)`)
	epsgCodeRe     = regexp.MustCompile(`(?i)^epsg:(\d+)$`)
)

// EPSG extracts the numeric EPSG code from the CRS definition, reporting
// whether one was declared. In WKT the whole-CRS authority clause comes
// last, so the last AUTHORITY occurrence wins over the per-datum and
// per-unit ones.
func (d *CRSDescriptor) EPSG() (int, bool) {
	if m := epsgCodeRe.FindStringSubmatch(d.def); m != nil {
		code, _ := strconv.Atoi(m[1])
		return code, true
	}
	if m := projInitRe.FindStringSubmatch(d.def); m != nil {
		code, _ := strconv.Atoi(m[1])
		return code, true
	}
	if ms := wktAuthorityRe.FindAllStringSubmatch(d.def, -1); ms != nil {
		code, _ := strconv.Atoi(ms[len(ms)-1][1])
		return code, true
	}
	return 0, false
}

// ProjectionSource records how a ResolvedProjection was obtained.
type ProjectionSource int

const (
	// ProjectionEPSG means the projection was constructed from a known
	// EPSG code.
	ProjectionEPSG ProjectionSource = iota

	// ProjectionGeographic means the generic equirectangular fallback was
	// used for a geographic CRS with no usable EPSG code.
	ProjectionGeographic

	// ProjectionMercator is the generic global Mercator display
	// projection.
	ProjectionMercator
)

// ResolvedProjection is a concrete cartographic projection usable both for
// map display and for coordinate transforms. The same resolved projection
// must serve extent computation and the render transform; resolving twice
// and mixing the results is how maps end up visually wrong.
type ResolvedProjection struct {
	SR     *proj.SR
	Source ProjectionSource

	// EPSG holds the source EPSG code when Source is ProjectionEPSG.
	EPSG int

	// Note carries a non-fatal advisory emitted during reconciliation,
	// such as the use of the automatic geographic fallback.
	Note string
}

// TransformTo returns a coordinate transform from this projection to dst.
func (p *ResolvedProjection) TransformTo(dst *ResolvedProjection) (proj.Transformer, error) {
	t, err := p.SR.NewTransform(dst.SR)
	if err != nil {
		return nil, fmt.Errorf("geoview: creating coordinate transform: %v", err)
	}
	return t, nil
}

// Geographic returns the generic equirectangular (plate carrée) projection
// used for gridded data in longitude/latitude coordinates.
func Geographic() *ResolvedProjection {
	sr, err := proj.Parse(geographicProj)
	if err != nil {
		panic(err) // parsing a constant cannot fail
	}
	return &ResolvedProjection{SR: sr, Source: ProjectionGeographic}
}

// GlobalMercator returns the generic global Mercator projection used as the
// display target for vector maps.
func GlobalMercator() *ResolvedProjection {
	sr, err := proj.Parse(mercatorProj)
	if err != nil {
		panic(err)
	}
	return &ResolvedProjection{SR: sr, Source: ProjectionMercator}
}

// epsgSR constructs a spatial reference for an EPSG code, reporting whether
// the code has a known mapping.
func epsgSR(code int) (*proj.SR, bool, error) {
	def, ok := epsgDefs[code]
	switch {
	case ok:
	case code >= 32601 && code <= 32660: // WGS84 UTM north
		def = fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", code-32600)
	case code >= 32701 && code <= 32760: // WGS84 UTM south
		def = fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", code-32700)
	default:
		return nil, false, nil
	}
	sr, err := proj.Parse(def)
	if err != nil {
		return nil, true, fmt.Errorf("geoview: constructing projection for EPSG %d: %v", code, err)
	}
	return sr, true, nil
}

// Reconcile resolves a CRS descriptor to a concrete map projection using a
// deterministic fallback chain:
//
//  1. a nil descriptor fails with CRSMissing;
//  2. if the descriptor declares an EPSG code with a known mapping, the
//     projection is built from that code;
//  3. an unknown or absent EPSG code is not fatal for a geographic CRS,
//     which falls back to the generic equirectangular projection with an
//     advisory note;
//  4. a projected CRS that step 2 could not resolve fails with
//     CRSUnsupportedProjected rather than guessing parameters.
//
// Reconciliation is idempotent: the same descriptor always yields an
// equivalent projection.
func Reconcile(d *CRSDescriptor) (*ResolvedProjection, error) {
	if d == nil || d.sr == nil {
		return nil, &CRSError{Kind: CRSMissing}
	}
	if code, ok := d.EPSG(); ok {
		sr, known, err := epsgSR(code)
		if err != nil {
			return nil, err
		}
		if known {
			return &ResolvedProjection{SR: sr, Source: ProjectionEPSG, EPSG: code}, nil
		}
		// No mapping for this code; fall through to classification.
	}
	if d.IsGeographic() {
		return &ResolvedProjection{
			SR:     d.sr,
			Source: ProjectionGeographic,
			Note:   "no usable EPSG code; treating geographic coordinates as equirectangular",
		}, nil
	}
	return nil, &CRSError{Kind: CRSUnsupportedProjected, Detail: d.def}
}
