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

	"github.com/ctessum/geom"
)

// DeriveConfig specifies the derived per-cell attributes computed by
// Derive.
type DeriveConfig struct {
	// DistanceField, if nonempty, names an output field holding the
	// Euclidean distance from each cell's centroid to RefPoint, in the
	// linear unit of the working projection. The centroid of the
	// clipped geometry is used, not the centroid of the unclipped
	// rectangle.
	DistanceField string
	RefPoint      geom.Point

	// LogFields maps input field names to output field names; each
	// output field holds log(1+v) of the input. Intended for
	// right-skewed count-like fields.
	LogFields map[string]string

	// PrimaryField, if nonempty, names the field whose absence drops a
	// cell from the output entirely. A cell whose primary field holds
	// the absent marker contributes no valid observation even when
	// other fields (such as counts) hold real zeros.
	PrimaryField string
}

// Derive computes derived attributes over a merged summary set and
// applies the primary-field row filter. The input summaries are not
// modified; the returned summaries carry the input fields plus the
// derived ones, ordered as the input. Derive returns a *DomainError
// if a log-transformed field holds a negative value.
func Derive(sums []*CellSummary, c DeriveConfig) ([]*CellSummary, error) {
	for in, out := range c.LogFields {
		if out == "" {
			return nil, fmt.Errorf("rangegrid: log transform of %q has no output field name", in)
		}
	}

	out := make([]*CellSummary, 0, len(sums))
	for _, s := range sums {
		if c.PrimaryField != "" {
			if v, ok := s.Fields[c.PrimaryField]; !ok || !v.Valid {
				continue
			}
		}
		d := &CellSummary{
			Polygonal: s.Polygonal,
			Row:       s.Row,
			Col:       s.Col,
			Fields:    copyFields(s.Fields),
		}
		if c.DistanceField != "" {
			cent := s.Polygonal.Centroid()
			d.Fields[c.DistanceField] = Value{
				Float64: math.Hypot(cent.X-c.RefPoint.X, cent.Y-c.RefPoint.Y),
				Valid:   true,
			}
		}
		for in, name := range c.LogFields {
			v, ok := s.Fields[in]
			if !ok || !v.Valid {
				d.Fields[name] = Value{}
				continue
			}
			if v.Float64 < 0 {
				return nil, domainErrorf("log transform of negative value %g in field %q at cell (%d,%d)",
					v.Float64, in, s.Row, s.Col)
			}
			d.Fields[name] = Value{Float64: math.Log1p(v.Float64), Valid: true}
		}
		out = append(out, d)
	}
	return out, nil
}
