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

const testTolerance = 1.e-8

// testSquare is a 250 m × 250 m study area anchored at the origin.
func testSquare() geom.Polygon {
	return geom.Polygon{{
		{X: 0, Y: 0}, {X: 250, Y: 0}, {X: 250, Y: 250}, {X: 0, Y: 250}, {X: 0, Y: 0},
	}}
}

func testGridConfig() GridConfig { return GridConfig{Dx: 100, Dy: 100} }

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(testSquare(), testGridConfig())
	if err != nil {
		t.Fatal(err)
	}
	if g.Nx != 5 || g.Ny != 5 {
		t.Errorf("grid dimensions: want 5×5, got %d×%d", g.Nx, g.Ny)
	}
	if len(g.Cells) != 25 {
		t.Errorf("number of cells: want 25, got %d", len(g.Cells))
	}
	if g.X0 != -100 || g.Y0 != -100 {
		t.Errorf("grid origin: want (-100,-100), got (%g,%g)", g.X0, g.Y0)
	}

	// The first cell is the padding cell below and left of the
	// study-area bounding box.
	b := g.Cells[0].Bounds()
	if b.Min.X != -100 || b.Min.Y != -100 || b.Max.X != 0 || b.Max.Y != 0 {
		t.Errorf("cell (0,0) bounds: got %+v", b)
	}
	// The last cell pads beyond the bounding box maximum.
	b = g.Cells[24].Bounds()
	if b.Min.X != 300 || b.Min.Y != 300 || b.Max.X != 400 || b.Max.Y != 400 {
		t.Errorf("cell (4,4) bounds: got %+v", b)
	}
	for i, c := range g.Cells {
		if c.Row != i/5 || c.Col != i%5 {
			t.Fatalf("cell %d has identity (%d,%d)", i, c.Row, c.Col)
		}
		if math.Abs(c.Area()-10000) > testTolerance {
			t.Errorf("cell (%d,%d) area: want 10000, got %g", c.Row, c.Col, c.Area())
		}
	}
}

func TestNewGridErrors(t *testing.T) {
	if _, err := NewGrid(testSquare(), GridConfig{Dx: 0, Dy: 100}); err == nil {
		t.Error("expected error for zero cell width")
	} else if _, ok := err.(*InvalidGeometryError); !ok {
		t.Errorf("want *InvalidGeometryError for zero cell width, got %#v", err)
	}
	if _, err := NewGrid(testSquare(), GridConfig{Dx: 100, Dy: -1}); err == nil {
		t.Error("expected error for negative cell height")
	}

	degenerate := geom.Polygon{{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 0}}}
	if _, err := NewGrid(degenerate, testGridConfig()); err == nil {
		t.Error("expected error for degenerate polygon")
	} else if _, ok := err.(*InvalidGeometryError); !ok {
		t.Errorf("want *InvalidGeometryError for degenerate polygon, got %#v", err)
	}
}
