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
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// A Fix is a single attributed relocation record: a location in the
// working projection plus named numeric attributes (group size,
// activity codes, tree counts and the like). Fixes are immutable once
// loaded.
type Fix struct {
	geom.Point
	Attrs map[string]float64
}

// Value is a per-cell aggregated scalar that distinguishes "no
// observation" from a measured zero. A cell with no recorded trees
// reads 0 trees, but a cell with no group-size observations reads no
// data; conflating the two corrupts downstream statistics.
type Value struct {
	Float64 float64
	Valid   bool
}

// Reducer kinds accepted by Aggregate.
const (
	ReduceMean  = "mean"
	ReduceCount = "count"
	ReduceSum   = "sum"
)

// An AggSpec requests one aggregated output field.
type AggSpec struct {
	Attr    string // fix attribute to aggregate; ignored by "count"
	Reducer string // "mean", "count" or "sum"
	Name    string // output field name
}

// CellSummary holds the aggregated fields for one clipped cell.
// Summaries are created by Aggregate and only ever extended (never
// rewritten) by Derive.
type CellSummary struct {
	geom.Polygonal

	Row, Col int
	Fields   map[string]Value
}

// Aggregate assigns every fix to at most one cell of the clipped grid
// g and computes the requested reducers over the fixes in each cell.
// Fixes outside the study-area polygon are silently excluded. Fixes
// with a non-finite coordinate are skipped; the number skipped is
// returned alongside the summaries. For cells with no assigned fixes,
// "count" fields hold a valid 0 and "mean"/"sum" fields hold the
// absent marker. The returned summaries are ordered by (row, col).
func Aggregate(g *Grid, fixes []Fix, specs []AggSpec) ([]*CellSummary, int, error) {
	if g.lookup == nil {
		return nil, 0, fmt.Errorf("rangegrid: aggregating over an unclipped grid")
	}
	for _, s := range specs {
		switch s.Reducer {
		case ReduceMean, ReduceCount, ReduceSum:
		default:
			return nil, 0, fmt.Errorf("rangegrid: unknown reducer %q for field %q", s.Reducer, s.Name)
		}
		if s.Name == "" {
			return nil, 0, fmt.Errorf("rangegrid: aggregation of attribute %q has no output field name", s.Attr)
		}
	}

	counts := make(map[[2]int]int)
	vals := make(map[[2]int]map[string][]float64) // cell -> attribute -> values

	var skipped int
	for _, f := range fixes {
		if !isFinite(f.X) || !isFinite(f.Y) {
			skipped++
			continue
		}
		c := g.cellAt(f.Point)
		if c == nil {
			continue
		}
		key := [2]int{c.Row, c.Col}
		counts[key]++
		for _, s := range specs {
			if s.Reducer == ReduceCount {
				continue
			}
			v, ok := f.Attrs[s.Attr]
			if !ok || !isFinite(v) {
				continue
			}
			if vals[key] == nil {
				vals[key] = make(map[string][]float64)
			}
			vals[key][s.Attr] = append(vals[key][s.Attr], v)
		}
	}

	out := make([]*CellSummary, 0, len(g.Cells))
	for _, c := range g.Cells {
		key := [2]int{c.Row, c.Col}
		s := &CellSummary{
			Polygonal: c.Polygonal,
			Row:       c.Row,
			Col:       c.Col,
			Fields:    make(map[string]Value, len(specs)),
		}
		for _, spec := range specs {
			switch spec.Reducer {
			case ReduceCount:
				s.Fields[spec.Name] = Value{Float64: float64(counts[key]), Valid: true}
			case ReduceSum:
				if v := vals[key][spec.Attr]; len(v) > 0 {
					s.Fields[spec.Name] = Value{Float64: floats.Sum(v), Valid: true}
				} else {
					s.Fields[spec.Name] = Value{}
				}
			case ReduceMean:
				if v := vals[key][spec.Attr]; len(v) > 0 {
					s.Fields[spec.Name] = Value{Float64: stat.Mean(v, nil), Valid: true}
				} else {
					s.Fields[spec.Name] = Value{}
				}
			}
		}
		out = append(out, s)
	}
	return out, skipped, nil
}

// MergePolicy controls how MergeSummaries treats a cell that is
// present in one summary set but not the other. The two sets may have
// been aggregated over independently clipped grids, so their cell
// sequences can differ in length; cells are always matched by
// (row, col) identity, never by position.
type MergePolicy int

const (
	// MergeUnion keeps every cell from either set; fields from a
	// missing side are filled with the absent marker.
	MergeUnion MergePolicy = iota

	// MergeStrict returns an error if the two sets do not cover
	// exactly the same cells.
	MergeStrict
)

// MergeSummaries combines two summary sets by cell identity. The field
// names of the two sets must be disjoint. The result is ordered by
// (row, col).
func MergeSummaries(a, b []*CellSummary, policy MergePolicy) ([]*CellSummary, error) {
	aFields := fieldNames(a)
	bFields := fieldNames(b)
	for _, n := range bFields {
		for _, m := range aFields {
			if n == m {
				return nil, fmt.Errorf("rangegrid: merging summaries with duplicate field %q", n)
			}
		}
	}

	merged := make(map[[2]int]*CellSummary)
	inB := make(map[[2]int]bool, len(b))
	for _, s := range a {
		merged[[2]int{s.Row, s.Col}] = &CellSummary{
			Polygonal: s.Polygonal,
			Row:       s.Row,
			Col:       s.Col,
			Fields:    copyFields(s.Fields),
		}
	}
	for _, s := range b {
		key := [2]int{s.Row, s.Col}
		inB[key] = true
		m, ok := merged[key]
		if !ok {
			if policy == MergeStrict {
				return nil, fmt.Errorf("rangegrid: cell (%d,%d) present in only one summary set", s.Row, s.Col)
			}
			m = &CellSummary{
				Polygonal: s.Polygonal,
				Row:       s.Row,
				Col:       s.Col,
				Fields:    make(map[string]Value, len(aFields)+len(bFields)),
			}
			for _, n := range aFields {
				m.Fields[n] = Value{}
			}
			merged[key] = m
		}
		for n, v := range s.Fields {
			m.Fields[n] = v
		}
	}
	// Fill the b-side fields of cells that only appeared in a.
	for key, m := range merged {
		if !inB[key] {
			if policy == MergeStrict {
				return nil, fmt.Errorf("rangegrid: cell (%d,%d) present in only one summary set", m.Row, m.Col)
			}
			for _, n := range bFields {
				m.Fields[n] = Value{}
			}
		}
	}

	out := make([]*CellSummary, 0, len(merged))
	for _, m := range merged {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out, nil
}

func fieldNames(sums []*CellSummary) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range sums {
		for n := range s.Fields {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}

func copyFields(f map[string]Value) map[string]Value {
	o := make(map[string]Value, len(f))
	for k, v := range f {
		o[k] = v
	}
	return o
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
