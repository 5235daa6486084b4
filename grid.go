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
	"math"

	"github.com/ctessum/geom"
)

// GridConfig holds the parameters for creating a regular analysis grid.
type GridConfig struct {
	Dx float64 // cell width, in the linear unit of the working projection
	Dy float64 // cell height
}

// Cell is a single grid cell. Before clipping it is an axis-aligned
// rectangle; after clipping it holds the intersection of that
// rectangle with the study-area polygon. Cells are identified by their
// (Row, Col) position in the grid, which is stable across clipping.
type Cell struct {
	geom.Polygonal

	Row, Col int

	// interior reports whether the cell lies entirely inside the
	// study-area polygon, so that clipping left its rectangle unchanged.
	interior bool
}

// Interior reports whether the cell was left unclipped because it lies
// entirely inside the study-area polygon.
func (c *Cell) Interior() bool { return c.interior }

// Grid is a regular rectangular grid covering the bounding box of a
// study-area polygon, extended by exactly one cell on each side so
// that observations at the extreme coordinates fall strictly inside
// the gridded extent. Cell (0, 0) covers
// [X0, X0+Dx) × [Y0, Y0+Dy); cell membership is half-open, so a point
// on a shared cell edge belongs to the cell to the north or east of
// that edge. The exception is a point on the study area's maximum
// extent whose half-open cell was dropped at clipping; it falls back
// to the south/west neighbor that still contains it.
type Grid struct {
	Cells []*Cell // ordered by (Row, Col)

	X0, Y0 float64 // lower-left corner of the extended grid
	Dx, Dy float64
	Nx, Ny int

	// lookup maps (row, col) to surviving cells. Only populated after
	// clipping; nil for a raw grid, where every index is present.
	lookup map[[2]int]*Cell
}

// NewGrid builds the regular grid covering p's bounding box, padded by
// one cell on every side. It returns an *InvalidGeometryError if p has
// no area or either cell dimension is not positive.
func NewGrid(p geom.Polygonal, c GridConfig) (*Grid, error) {
	if c.Dx <= 0 || c.Dy <= 0 {
		return nil, invalidGeometryf("non-positive cell size (%g × %g)", c.Dx, c.Dy)
	}
	if p == nil || p.Area() <= 0 {
		return nil, invalidGeometryf("study-area polygon has no area")
	}
	b := p.Bounds()
	g := &Grid{
		X0: b.Min.X - c.Dx,
		Y0: b.Min.Y - c.Dy,
		Dx: c.Dx,
		Dy: c.Dy,
		Nx: int(math.Ceil((b.Max.X-b.Min.X)/c.Dx)) + 2,
		Ny: int(math.Ceil((b.Max.Y-b.Min.Y)/c.Dy)) + 2,
	}
	g.Cells = make([]*Cell, 0, g.Nx*g.Ny)
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			g.Cells = append(g.Cells, &Cell{
				Polygonal: g.cellRect(j, i),
				Row:       j,
				Col:       i,
			})
		}
	}
	return g, nil
}

// cellRect returns the unclipped rectangle for cell (j, i).
// The ring goes counter-clockwise.
func (g *Grid) cellRect(j, i int) geom.Polygon {
	l := g.X0 + float64(i)*g.Dx
	b := g.Y0 + float64(j)*g.Dy
	r := l + g.Dx
	u := b + g.Dy
	return geom.Polygon{{{X: l, Y: b}, {X: r, Y: b}, {X: r, Y: u}, {X: l, Y: u}, {X: l, Y: b}}}
}

// cellAt returns the clipped cell containing point p under the
// half-open membership convention, or nil if p falls outside every
// surviving cell.
func (g *Grid) cellAt(p geom.Point) *Cell {
	i := int(math.Floor((p.X - g.X0) / g.Dx))
	j := int(math.Floor((p.Y - g.Y0) / g.Dy))
	if c := g.cellContaining(j, i, p); c != nil {
		return c
	}
	// A point exactly on the study area's maximum-x or maximum-y edge
	// can index into a padding cell that clipping dropped for zero-area
	// overlap. Probe the south/west neighbors so such boundary points
	// are still assigned to the cell whose edge they sit on.
	onX := p.X == g.X0+float64(i)*g.Dx
	onY := p.Y == g.Y0+float64(j)*g.Dy
	if onX {
		if c := g.cellContaining(j, i-1, p); c != nil {
			return c
		}
	}
	if onY {
		if c := g.cellContaining(j-1, i, p); c != nil {
			return c
		}
	}
	if onX && onY {
		if c := g.cellContaining(j-1, i-1, p); c != nil {
			return c
		}
	}
	return nil
}

// cellContaining returns the surviving cell (j, i) if p lies in its
// clipped geometry, or nil.
func (g *Grid) cellContaining(j, i int, p geom.Point) *Cell {
	if i < 0 || i >= g.Nx || j < 0 || j >= g.Ny {
		return nil
	}
	c, ok := g.lookup[[2]int{j, i}]
	if !ok {
		return nil
	}
	if !c.interior && p.Within(c.Polygonal) == geom.Outside {
		// A boundary cell only owns the part of its rectangle that
		// overlaps the study-area polygon.
		return nil
	}
	return c
}
