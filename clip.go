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

package rangegrid

import (
	"log"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// areaTol is the relative tolerance below which a clipped area
// difference is treated as floating-point noise.
const areaTol = 1.e-9

// Clip intersects every grid cell with the study-area polygon p and
// returns a new Grid containing only the cells whose intersection has
// nonzero area. Cells entirely inside p keep their full rectangle;
// boundary cells keep the intersected geometry. Cell ordering and
// (row, col) identities are preserved. Clip returns an
// *InvalidGeometryError if p has no area.
func (g *Grid) Clip(p geom.Polygonal) (*Grid, error) {
	if p == nil || p.Area() <= 0 {
		return nil, invalidGeometryf("study-area polygon has no area")
	}

	// A home range from a kernel isopleth can be a multipolygon with
	// many disjoint parts; index the parts so each cell is only
	// intersected with the parts whose bounds it overlaps.
	parts := rtree.NewTree(25, 50)
	for _, part := range p.Polygons() {
		parts.Insert(part)
	}

	log.Printf("Clipping %d grid cells", len(g.Cells))

	o := &Grid{
		X0: g.X0, Y0: g.Y0,
		Dx: g.Dx, Dy: g.Dy,
		Nx: g.Nx, Ny: g.Ny,
		lookup: make(map[[2]int]*Cell),
	}
	for _, c := range g.Cells {
		var isect geom.Polygonal
		for _, partI := range parts.SearchIntersect(c.Bounds()) {
			part := partI.(geom.Polygon)
			pIsect := c.Polygonal.Intersection(part)
			if pIsect == nil || pIsect.Area() <= 0 {
				continue
			}
			if isect == nil {
				isect = pIsect
			} else {
				isect = isect.Union(pIsect)
			}
		}
		if isect == nil || isect.Area() <= 0 {
			continue
		}
		cc := &Cell{Row: c.Row, Col: c.Col}
		if isect.Area() >= c.Polygonal.Area()*(1-areaTol) {
			// Entirely inside: keep the exact rectangle rather than
			// the reconstructed intersection.
			cc.Polygonal = c.Polygonal
			cc.interior = true
		} else {
			cc.Polygonal = isect
		}
		o.Cells = append(o.Cells, cc)
		o.lookup[[2]int{cc.Row, cc.Col}] = cc
	}
	return o, nil
}
