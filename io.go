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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
)

// FixFileConfig describes a CSV table of GPS relocations.
type FixFileConfig struct {
	// Path is the location of the CSV file. It can contain environment
	// variables.
	Path string

	// XCol and YCol name the coordinate columns (eastings/northings,
	// or longitude/latitude when SrcProj is geographic).
	XCol, YCol string

	// AttrCols names the numeric attribute columns to carry through to
	// aggregation. Columns not listed are ignored.
	AttrCols []string

	// SrcProj is the Proj4 specification of the coordinate system the
	// file is stored in. If it is empty, coordinates are assumed to
	// already be in the working projection.
	SrcProj string
}

// ReadFixCSV loads GPS fixes from a CSV file, reprojecting them to
// workingProj when the file's coordinate system differs. Rows with
// unparseable or non-finite coordinates are skipped; the number of
// skipped rows is returned. Unparseable attribute values are dropped
// from the fix's attribute map rather than invalidating the whole row.
func ReadFixCSV(cfg FixFileConfig, workingProj string) ([]Fix, int, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, 0, fmt.Errorf("rangegrid: opening fix file: %v", err)
	}
	defer f.Close()

	var trans proj.Transformer
	if cfg.SrcProj != "" && cfg.SrcProj != workingProj {
		srcSR, err := proj.Parse(cfg.SrcProj)
		if err != nil {
			return nil, 0, fmt.Errorf("rangegrid: while parsing fix file projection: %v", err)
		}
		dstSR, err := proj.Parse(workingProj)
		if err != nil {
			return nil, 0, fmt.Errorf("rangegrid: while parsing working projection: %v", err)
		}
		trans, err = srcSR.NewTransform(dstSR)
		if err != nil {
			return nil, 0, fmt.Errorf("rangegrid: while creating fix reprojection: %v", err)
		}
	}

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("rangegrid: reading fix file header: %v", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	xi, ok := col[cfg.XCol]
	if !ok {
		return nil, 0, fmt.Errorf("rangegrid: fix file %s has no column %q", cfg.Path, cfg.XCol)
	}
	yi, ok := col[cfg.YCol]
	if !ok {
		return nil, 0, fmt.Errorf("rangegrid: fix file %s has no column %q", cfg.Path, cfg.YCol)
	}
	for _, a := range cfg.AttrCols {
		if _, ok := col[a]; !ok {
			return nil, 0, fmt.Errorf("rangegrid: fix file %s has no column %q", cfg.Path, a)
		}
	}

	var fixes []Fix
	var skipped int
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("rangegrid: reading fix file: %v", err)
		}
		x, xerr := strconv.ParseFloat(rec[xi], 64)
		y, yerr := strconv.ParseFloat(rec[yi], 64)
		if xerr != nil || yerr != nil || !isFinite(x) || !isFinite(y) {
			skipped++
			continue
		}
		pt := geom.Point{X: x, Y: y}
		if trans != nil {
			g, err := pt.Transform(trans)
			if err != nil {
				skipped++
				continue
			}
			pt = g.(geom.Point)
		}
		fix := Fix{Point: pt, Attrs: make(map[string]float64, len(cfg.AttrCols))}
		for _, a := range cfg.AttrCols {
			v, err := strconv.ParseFloat(rec[col[a]], 64)
			if err != nil || !isFinite(v) {
				continue
			}
			fix.Attrs[a] = v
		}
		fixes = append(fixes, fix)
	}
	return fixes, skipped, nil
}

// ReadRangeShapefile reads a study-area polygon from a shapefile,
// reprojecting it to workingProj. If the file holds more than one
// polygonal feature the union of all of them is returned.
func ReadRangeShapefile(path, workingProj string) (geom.Polygonal, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("rangegrid: opening range shapefile: %v", err)
	}
	defer d.Close()

	var trans proj.Transformer
	if workingProj != "" {
		fileSR, err := d.SR()
		if err != nil {
			return nil, fmt.Errorf("rangegrid: reading range shapefile projection: %v", err)
		}
		dstSR, err := proj.Parse(workingProj)
		if err != nil {
			return nil, fmt.Errorf("rangegrid: while parsing working projection: %v", err)
		}
		trans, err = fileSR.NewTransform(dstSR)
		if err != nil {
			return nil, fmt.Errorf("rangegrid: while creating range reprojection: %v", err)
		}
	}

	var rng geom.Polygonal
	for {
		g, _, more := d.DecodeRowFields()
		if !more {
			break
		}
		if trans != nil {
			g, err = g.Transform(trans)
			if err != nil {
				return nil, fmt.Errorf("rangegrid: reprojecting range shapefile: %v", err)
			}
		}
		p, ok := g.(geom.Polygonal)
		if !ok {
			return nil, fmt.Errorf("rangegrid: range shapefile contains non-polygonal geometry %#v", g)
		}
		if rng == nil {
			rng = p
		} else {
			rng = rng.Union(p)
		}
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("rangegrid: reading range shapefile: %v", err)
	}
	if rng == nil {
		return nil, invalidGeometryf("range shapefile %s contains no polygons", path)
	}
	return rng, nil
}
