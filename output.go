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
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

// NoData is the value written to shapefile fields holding the absent
// marker. Shapefile float attributes cannot represent null, so the
// conventional sentinel is used; GeoJSON output uses a real null.
const NoData = -9999.

// Outputter writes cell summaries to a shapefile, optionally
// calculating user-defined output variables first.
//
// outputVariables maps output field names to govaluate expressions
// over the summary field names, e.g. {"LogTrees": "log1p(TreeCount)"}.
// If it is empty, every summary field is written directly. A cell
// where any field referenced by an expression holds the absent marker
// gets the absent marker for that output variable.
type Outputter struct {
	fileName        string
	outputVariables map[string]string
	outputFunctions map[string]govaluate.ExpressionFunction
}

// NewOutputter initializes an Outputter and adds a set of default
// expression functions:
//
// 'log1p(x)' computes log(1+x) and fails for x < 0.
//
// 'exp(x)' applies the exponential function e^x.
//
// 'sqrt(x)' computes the square root of x.
//
// 'sum(x, y, ...)' computes the sum of its arguments.
func NewOutputter(fileName string, outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"log1p": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("rangegrid: got %d arguments for function 'log1p', but needs 1", len(arg))
			}
			v := arg[0].(float64)
			if v < 0 {
				return nil, domainErrorf("log transform of negative value %g", v)
			}
			return math.Log1p(v), nil
		},
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("rangegrid: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return math.Exp(arg[0].(float64)), nil
		},
		"sqrt": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("rangegrid: got %d arguments for function 'sqrt', but needs 1", len(arg))
			}
			return math.Sqrt(arg[0].(float64)), nil
		},
		"sum": func(arg ...interface{}) (interface{}, error) {
			var s float64
			for _, a := range arg {
				s += a.(float64)
			}
			return s, nil
		},
	}
	for key, val := range outputFunctions {
		defaultOutputFuncs[key] = val
	}
	if err := checkOutputNames(outputVariables); err != nil {
		return nil, err
	}
	return &Outputter{
		fileName:        fileName,
		outputVariables: outputVariables,
		outputFunctions: defaultOutputFuncs,
	}, nil
}

// checkOutputNames checks (1) if any output variable names exceed the
// 10-character shapefile field limit and (2) if any include characters
// that are unsupported in shapefile field names.
func checkOutputNames(o map[string]string) error {
	for key := range o {
		if err := checkFieldName(key); err != nil {
			return err
		}
	}
	return nil
}

func checkFieldName(name string) error {
	okChars, err := regexp.MatchString(`^[A-Za-z]\w*$`, name)
	if err != nil {
		panic(err)
	}
	if len(name) > 10 {
		return fmt.Errorf("rangegrid: output field name '%s' exceeds 10 characters", name)
	} else if !okChars {
		return fmt.Errorf("rangegrid: output field name '%s' includes unsupported characters", name)
	}
	return nil
}

// Results evaluates the output variables over the given summaries,
// returning one value per summary per output variable, in summary
// order. With no configured output variables, the summary fields are
// returned as-is.
func (o *Outputter) Results(sums []*CellSummary) (map[string][]Value, error) {
	if len(o.outputVariables) == 0 {
		out := make(map[string][]Value)
		for _, n := range fieldNames(sums) {
			vals := make([]Value, len(sums))
			for i, s := range sums {
				vals[i] = s.Fields[n]
			}
			out[n] = vals
		}
		return out, nil
	}

	out := make(map[string][]Value, len(o.outputVariables))
	for name, exprStr := range o.outputVariables {
		expr, err := govaluate.NewEvaluableExpressionWithFunctions(exprStr, o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("rangegrid: in output variable %s: %v", name, err)
		}
		vars := removeDuplicates(expr.Vars())
		vals := make([]Value, len(sums))
		for i, s := range sums {
			params := make(map[string]interface{}, len(vars))
			valid := true
			for _, v := range vars {
				f, ok := s.Fields[v]
				if !ok {
					return nil, fmt.Errorf("rangegrid: output variable %s: undefined field name '%s'", name, v)
				}
				if !f.Valid {
					valid = false
					break
				}
				params[v] = f.Float64
			}
			if !valid {
				vals[i] = Value{}
				continue
			}
			result, err := expr.Evaluate(params)
			if err != nil {
				return nil, fmt.Errorf("rangegrid: evaluating output variable %s at cell (%d,%d): %v",
					name, s.Row, s.Col, err)
			}
			f, ok := result.(float64)
			if !ok {
				return nil, fmt.Errorf("rangegrid: output variable %s evaluates to non-numeric value %v",
					name, result)
			}
			vals[i] = Value{Float64: f, Valid: true}
		}
		out[name] = vals
	}
	return out, nil
}

// removeDuplicates removes all duplicated strings from a slice,
// returning a slice that contains only unique strings.
func removeDuplicates(s []string) []string {
	result := make([]string, 0, len(s))
	seen := make(map[string]struct{})
	for _, val := range s {
		if _, ok := seen[val]; !ok {
			result = append(result, val)
			seen[val] = struct{}{}
		}
	}
	return result
}

// WriteShapefile writes the summaries to the Outputter's file as
// polygons with one float attribute per output variable, absent
// values encoded as NoData. If prj is nonempty it is written verbatim
// to a sidecar .prj file.
func (o *Outputter) WriteShapefile(sums []*CellSummary, prj string) error {
	results, err := o.Results(sums)
	if err != nil {
		return err
	}

	vars := make([]string, 0, len(results))
	for v := range results {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	// When there are no output variable expressions, the summary field
	// names come straight from the configuration; check them against
	// the shapefile field-name limits rather than letting the encoder
	// silently truncate them.
	fields := make([]goshp.Field, len(vars))
	for i, v := range vars {
		if err := checkFieldName(v); err != nil {
			return err
		}
		fields[i] = goshp.FloatField(v, 14, 8)
	}

	// Remove the extension and replace it with .shp.
	fileBase := strings.TrimSuffix(o.fileName, filepath.Ext(o.fileName))
	shape, err := shp.NewEncoderFromFields(fileBase+".shp", goshp.POLYGON, fields...)
	if err != nil {
		return fmt.Errorf("rangegrid: error creating output shapefile: %v", err)
	}
	for i, s := range sums {
		outFields := make([]interface{}, len(vars))
		for j, v := range vars {
			if val := results[v][i]; val.Valid {
				outFields[j] = val.Float64
			} else {
				outFields[j] = NoData
			}
		}
		if err = shape.EncodeFields(s.Polygonal, outFields...); err != nil {
			return fmt.Errorf("rangegrid: error writing output shapefile: %v", err)
		}
	}
	shape.Close()

	if prj != "" {
		f, err := os.Create(fileBase + ".prj")
		if err != nil {
			return fmt.Errorf("rangegrid: error creating output prj file: %v", err)
		}
		fmt.Fprint(f, prj)
		f.Close()
	}
	return nil
}

// WriteGeoJSON writes the summaries to w as a GeoJSON
// FeatureCollection, with absent values encoded as null and the cell
// identity included as "row" and "col" properties.
func (o *Outputter) WriteGeoJSON(w io.Writer, sums []*CellSummary) error {
	results, err := o.Results(sums)
	if err != nil {
		return err
	}

	type feature struct {
		Type       string                 `json:"type"`
		Geometry   *geojson.Geometry      `json:"geometry"`
		Properties map[string]interface{} `json:"properties"`
	}
	type featureCollection struct {
		Type     string    `json:"type"`
		Features []feature `json:"features"`
	}

	fc := featureCollection{Type: "FeatureCollection"}
	for i, s := range sums {
		g, err := geojson.ToGeoJSON(s.Polygonal)
		if err != nil {
			return fmt.Errorf("rangegrid: encoding cell (%d,%d) geometry: %v", s.Row, s.Col, err)
		}
		props := map[string]interface{}{"row": s.Row, "col": s.Col}
		for v, vals := range results {
			if vals[i].Valid {
				props[v] = vals[i].Float64
			} else {
				props[v] = nil
			}
		}
		fc.Features = append(fc.Features, feature{Type: "Feature", Geometry: g, Properties: props})
	}
	e := json.NewEncoder(w)
	return e.Encode(fc)
}
