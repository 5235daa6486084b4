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

func unitCell(row, col int, fields map[string]Value) *CellSummary {
	l := float64(col * 100)
	b := float64(row * 100)
	return &CellSummary{
		Polygonal: geom.Polygon{{
			{X: l, Y: b}, {X: l + 100, Y: b}, {X: l + 100, Y: b + 100}, {X: l, Y: b + 100}, {X: l, Y: b},
		}},
		Row:    row,
		Col:    col,
		Fields: fields,
	}
}

func TestDeriveDistance(t *testing.T) {
	sums := []*CellSummary{unitCell(0, 0, map[string]Value{})}
	out, err := Derive(sums, DeriveConfig{
		DistanceField: "DistRef",
		RefPoint:      geom.Point{X: 50, Y: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	// The cell centroid is (50, 50); distance to (50, 0) is 50.
	if v := out[0].Fields["DistRef"]; !v.Valid || math.Abs(v.Float64-50) > testTolerance {
		t.Errorf("DistRef: want 50, got %+v", v)
	}
	// Distance is measured from the clipped geometry's centroid, so a
	// half cell has a shifted centroid.
	half := &CellSummary{
		Polygonal: geom.Polygon{{
			{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 100}, {X: 0, Y: 100}, {X: 0, Y: 0},
		}},
		Row: 0, Col: 0,
		Fields: map[string]Value{},
	}
	out, err = Derive([]*CellSummary{half}, DeriveConfig{
		DistanceField: "DistRef",
		RefPoint:      geom.Point{X: 25, Y: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if v := out[0].Fields["DistRef"]; !v.Valid || math.Abs(v.Float64-50) > testTolerance {
		t.Errorf("clipped-cell DistRef: want 50, got %+v", v)
	}
}

func TestDeriveLog(t *testing.T) {
	sums := []*CellSummary{
		unitCell(0, 0, map[string]Value{"NTrees": {3, true}}),
		unitCell(0, 1, map[string]Value{"NTrees": {0, true}}),
		unitCell(0, 2, map[string]Value{"NTrees": {}}),
	}
	cfg := DeriveConfig{LogFields: map[string]string{"NTrees": "LogTrees"}}
	out, err := Derive(sums, cfg)
	if err != nil {
		t.Fatal(err)
	}
	v := out[0].Fields["LogTrees"]
	if !v.Valid || math.Abs(v.Float64-math.Log1p(3)) > testTolerance {
		t.Errorf("LogTrees: want log1p(3), got %+v", v)
	}
	// Round trip: exp(log1p(v)) - 1 ≈ v.
	if got := math.Exp(v.Float64) - 1; math.Abs(got-3) > testTolerance {
		t.Errorf("log1p round trip: want 3, got %g", got)
	}
	// A measured zero transforms to a valid zero; absent stays absent.
	if v := out[1].Fields["LogTrees"]; !v.Valid || v.Float64 != 0 {
		t.Errorf("LogTrees of zero: want valid 0, got %+v", v)
	}
	if v := out[2].Fields["LogTrees"]; v.Valid {
		t.Errorf("LogTrees of absent: want absent, got %+v", v)
	}
	// The input summaries must not gain fields.
	if _, ok := sums[0].Fields["LogTrees"]; ok {
		t.Error("Derive modified its input summaries")
	}

	neg := []*CellSummary{unitCell(0, 0, map[string]Value{"NTrees": {-1, true}})}
	if _, err := Derive(neg, cfg); err == nil {
		t.Error("expected error log-transforming a negative value")
	} else if _, ok := err.(*DomainError); !ok {
		t.Errorf("want *DomainError, got %#v", err)
	}
}

// TestDeriveFilter checks that the primary-field filter drops a cell
// whose primary attribute is absent even when another field holds a
// real zero.
func TestDeriveFilter(t *testing.T) {
	sums := []*CellSummary{
		unitCell(0, 0, map[string]Value{"MeanSize": {6, true}, "N": {3, true}}),
		unitCell(0, 1, map[string]Value{"MeanSize": {}, "N": {0, true}}),
	}
	out, err := Derive(sums, DeriveConfig{PrimaryField: "MeanSize"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("filtered summaries: want 1, got %d", len(out))
	}
	if out[0].Col != 0 {
		t.Errorf("kept the wrong cell: (%d,%d)", out[0].Row, out[0].Col)
	}
}

func TestDeriveErrors(t *testing.T) {
	sums := []*CellSummary{unitCell(0, 0, map[string]Value{"N": {1, true}})}
	if _, err := Derive(sums, DeriveConfig{LogFields: map[string]string{"N": ""}}); err == nil {
		t.Error("expected error for log transform with no output name")
	}
}
