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
	"testing"

	"github.com/ctessum/geom"
)

func TestClip(t *testing.T) {
	square := testSquare()
	g, err := NewGrid(square, testGridConfig())
	if err != nil {
		t.Fatal(err)
	}
	clipped, err := g.Clip(square)
	if err != nil {
		t.Fatal(err)
	}

	// A 250×250 square on a 100×100 grid leaves a 3×3 block of cells
	// with nonzero overlap.
	if len(clipped.Cells) != 9 {
		t.Fatalf("number of clipped cells: want 9, got %d", len(clipped.Cells))
	}

	var areaSum float64
	prev := [2]int{-1, -1}
	for _, c := range clipped.Cells {
		if c.Row < 1 || c.Row > 3 || c.Col < 1 || c.Col > 3 {
			t.Errorf("unexpected surviving cell (%d,%d)", c.Row, c.Col)
		}
		// Ordering by (row, col) must be preserved.
		cur := [2]int{c.Row, c.Col}
		if cur[0] < prev[0] || (cur[0] == prev[0] && cur[1] <= prev[1]) {
			t.Errorf("cells out of order: (%d,%d) after (%d,%d)", cur[0], cur[1], prev[0], prev[1])
		}
		prev = cur

		// Every clipped geometry must be a subset of the study area:
		// intersecting it with the study area changes nothing.
		isect := c.Polygonal.Intersection(square)
		if math.Abs(isect.Area()-c.Area()) > testTolerance {
			t.Errorf("cell (%d,%d) extends outside the study area", c.Row, c.Col)
		}
		areaSum += c.Area()
	}
	if math.Abs(areaSum-square.Area()) > testTolerance {
		t.Errorf("clipped areas sum to %g; study area is %g", areaSum, square.Area())
	}

	// Fully-inside cells keep their complete rectangle; the cells
	// overlapping the 200–250 m fringe are clipped to half or quarter
	// rectangles.
	cases := []struct {
		row, col int
		area     float64
		interior bool
	}{
		{1, 1, 10000, true},
		{2, 2, 10000, true},
		{1, 3, 5000, false},
		{3, 1, 5000, false},
		{3, 3, 2500, false},
	}
	for _, c := range cases {
		cell, ok := clipped.lookup[[2]int{c.row, c.col}]
		if !ok {
			t.Fatalf("cell (%d,%d) missing after clipping", c.row, c.col)
		}
		if math.Abs(cell.Area()-c.area) > testTolerance {
			t.Errorf("cell (%d,%d) area: want %g, got %g", c.row, c.col, c.area, cell.Area())
		}
		if cell.Interior() != c.interior {
			t.Errorf("cell (%d,%d) interior: want %v, got %v", c.row, c.col, c.interior, cell.Interior())
		}
	}
}

func TestClipMultiPolygon(t *testing.T) {
	// Two disjoint 50×50 squares, as produced by a fragmented kernel
	// isopleth.
	two := geom.MultiPolygon{
		geom.Polygon{{
			{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}, {X: 0, Y: 50}, {X: 0, Y: 0},
		}},
		geom.Polygon{{
			{X: 200, Y: 200}, {X: 250, Y: 200}, {X: 250, Y: 250}, {X: 200, Y: 250}, {X: 200, Y: 200},
		}},
	}
	g, err := NewGrid(two, testGridConfig())
	if err != nil {
		t.Fatal(err)
	}
	clipped, err := g.Clip(two)
	if err != nil {
		t.Fatal(err)
	}
	if len(clipped.Cells) != 2 {
		t.Fatalf("number of clipped cells: want 2, got %d", len(clipped.Cells))
	}
	var areaSum float64
	for _, c := range clipped.Cells {
		areaSum += c.Area()
	}
	if math.Abs(areaSum-5000) > testTolerance {
		t.Errorf("clipped areas sum to %g; want 5000", areaSum)
	}
}

func TestClipErrors(t *testing.T) {
	g, err := NewGrid(testSquare(), testGridConfig())
	if err != nil {
		t.Fatal(err)
	}
	degenerate := geom.Polygon{{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 0}}}
	if _, err := g.Clip(degenerate); err == nil {
		t.Error("expected error clipping against a degenerate polygon")
	} else if _, ok := err.(*InvalidGeometryError); !ok {
		t.Errorf("want *InvalidGeometryError, got %#v", err)
	}
}
