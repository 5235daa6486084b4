/*
Copyright © 2024 the RangeGrid authors.
This file is part of RangeGrid.

RangeGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

RangeGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with RangeGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package homerange estimates home-range polygons from animal
// relocation data, by minimum convex polygon or by kernel density.
// The resulting polygons are the study-area inputs to the gridded
// aggregation in the parent package.
package homerange

import (
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/stat"
)

// MCP computes the minimum convex polygon home range: the convex hull
// of the given fraction of fixes lying closest to the mean coordinate.
// percent must be in (0, 100]; 100 hulls every fix. The returned ring
// is counter-clockwise. MCP fails if fewer than three distinct
// non-collinear fixes remain after the percentile filter.
func MCP(fixes []geom.Point, percent float64) (geom.Polygon, error) {
	if percent <= 0 || percent > 100 {
		return nil, fmt.Errorf("homerange: MCP percent %g outside (0, 100]", percent)
	}
	if len(fixes) < 3 {
		return nil, fmt.Errorf("homerange: MCP needs at least 3 fixes, got %d", len(fixes))
	}

	kept := fixes
	if percent < 100 {
		var mx, my float64
		for _, f := range fixes {
			mx += f.X
			my += f.Y
		}
		mx /= float64(len(fixes))
		my /= float64(len(fixes))

		dists := make([]float64, len(fixes))
		for i, f := range fixes {
			dists[i] = math.Hypot(f.X-mx, f.Y-my)
		}
		sorted := append([]float64(nil), dists...)
		sort.Float64s(sorted)
		cutoff := stat.Quantile(percent/100, stat.Empirical, sorted, nil)

		kept = make([]geom.Point, 0, len(fixes))
		for i, f := range fixes {
			if dists[i] <= cutoff {
				kept = append(kept, f)
			}
		}
	}

	hull := convexHull(kept)
	if len(hull) < 3 {
		return nil, fmt.Errorf("homerange: MCP fixes are collinear")
	}
	ring := append(hull, hull[0])
	return geom.Polygon{ring}, nil
}

// convexHull computes the convex hull of the given points with the
// monotone chain algorithm, returning the hull vertices in
// counter-clockwise order without the closing point.
func convexHull(points []geom.Point) []geom.Point {
	pts := append([]geom.Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	// Drop duplicate coordinates.
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}

	var lower, upper []geom.Point
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// cross is the z-component of (b-a) × (c-a); positive for a left turn.
func cross(a, b, c geom.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
