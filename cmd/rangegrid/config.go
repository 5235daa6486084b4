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

package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/geom"
	"github.com/spatialecology/rangegrid"
	"github.com/spatialecology/rangegrid/homerange"
)

// ConfigData holds the rangegrid configuration, read from a TOML file.
type ConfigData struct {
	// WorkingProj is the Proj4 specification of the projected
	// coordinate system all analysis happens in. Inputs in other
	// coordinate systems are reprojected at load time.
	WorkingProj string

	// OutputPrj, if set, is written verbatim as the .prj sidecar of
	// output shapefiles (well-known-text projection description).
	OutputPrj string

	// Fixes describes the primary GPS relocation table (e.g. group
	// scans with group size and activity attributes).
	Fixes rangegrid.FixFileConfig

	// Features optionally describes a second, independent point
	// dataset aggregated over the same grid (e.g. feeding trees).
	// Leave the path empty to skip.
	Features rangegrid.FixFileConfig

	// RangeShapefile is the path of a home-range polygon shapefile.
	// If empty, the home range is computed as the minimum convex
	// polygon of the fixes using MCPPercent.
	RangeShapefile string

	// MCPPercent is the percentage of fixes retained by the minimum
	// convex polygon estimator when no RangeShapefile is supplied.
	MCPPercent float64

	// Grid gives the aggregation cell size, in the linear unit of
	// WorkingProj.
	Grid rangegrid.GridConfig

	// Aggregations and FeatureAggregations request the per-cell
	// summary statistics for the two datasets. Output field names
	// across the two lists must not collide.
	Aggregations        []rangegrid.AggSpec
	FeatureAggregations []rangegrid.AggSpec

	// RefPoint, if set as [x, y] in the working projection, adds a
	// field named DistanceField holding the distance from each cell
	// centroid to that point (e.g. a sleeping site or water hole).
	RefPoint      []float64
	DistanceField string

	// LogFields maps count-like field names to output names holding
	// their log(1+v) transform.
	LogFields map[string]string

	// PrimaryField names the field whose absence drops a cell from
	// the output.
	PrimaryField string

	// OutputVariables optionally maps output field names to
	// expressions over the summary fields, e.g.
	// LogTrees = "log1p(NTrees)". If empty, all summary fields are
	// written directly.
	OutputVariables map[string]string

	// OutputFile is the path of the output shapefile.
	OutputFile string

	// GeoJSONFile, if set, is the path of an additional GeoJSON copy
	// of the output.
	GeoJSONFile string

	// Kernel configures the kernel home-range estimator.
	Kernel KernelConfig
}

// KernelConfig configures the kernel utilization distribution
// home-range estimator.
type KernelConfig struct {
	// Dx and Dy give the density grid resolution. If zero, the
	// aggregation grid resolution is used.
	Dx, Dy float64

	// Bandwidth is the kernel smoothing parameter; zero selects the
	// reference bandwidth.
	Bandwidth float64

	// Isopleth is the utilization level of the home-range contour.
	Isopleth float64
}

// ReadConfigFile reads and validates the configuration file.
func ReadConfigFile(filename string) (*ConfigData, error) {
	bytes, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("the configuration file you have specified, %v, does not "+
			"appear to exist. Please check the file name and location and "+
			"try again", filename)
	}

	cfg := new(ConfigData)
	if _, err = toml.Decode(string(bytes), cfg); err != nil {
		return nil, fmt.Errorf("there has been an error parsing the configuration file: %v", err)
	}

	cfg.Fixes.Path = os.ExpandEnv(cfg.Fixes.Path)
	cfg.Features.Path = os.ExpandEnv(cfg.Features.Path)
	cfg.RangeShapefile = os.ExpandEnv(cfg.RangeShapefile)
	cfg.OutputFile = os.ExpandEnv(cfg.OutputFile)
	cfg.GeoJSONFile = os.ExpandEnv(cfg.GeoJSONFile)

	if cfg.MCPPercent == 0 {
		cfg.MCPPercent = 95
	}
	if cfg.Kernel.Isopleth == 0 {
		cfg.Kernel.Isopleth = 0.95
	}
	if cfg.Kernel.Dx == 0 {
		cfg.Kernel.Dx = cfg.Grid.Dx
	}
	if cfg.Kernel.Dy == 0 {
		cfg.Kernel.Dy = cfg.Grid.Dy
	}
	if cfg.Fixes.Path == "" {
		return nil, fmt.Errorf("rangegrid: configuration has no fix file path")
	}
	if len(cfg.RefPoint) != 0 && len(cfg.RefPoint) != 2 {
		return nil, fmt.Errorf("rangegrid: RefPoint must be [x, y], got %v", cfg.RefPoint)
	}
	if len(cfg.RefPoint) == 2 && cfg.DistanceField == "" {
		cfg.DistanceField = "DistRef"
	}
	return cfg, nil
}

// refPoint returns the configured reference point, and whether one was
// configured.
func (c *ConfigData) refPoint() (geom.Point, bool) {
	if len(c.RefPoint) != 2 {
		return geom.Point{}, false
	}
	return geom.Point{X: c.RefPoint[0], Y: c.RefPoint[1]}, true
}

// loadFixes reads the primary fix table, logging the number of
// malformed rows skipped.
func (c *ConfigData) loadFixes() ([]rangegrid.Fix, error) {
	fixes, skipped, err := rangegrid.ReadFixCSV(c.Fixes, c.WorkingProj)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		logger.Warnf("skipped %d malformed rows in %s", skipped, c.Fixes.Path)
	}
	logger.Infof("loaded %d fixes from %s", len(fixes), c.Fixes.Path)
	return fixes, nil
}

// rangePolygon loads the configured home-range shapefile, or estimates
// a minimum convex polygon from the fixes when none is configured.
func (c *ConfigData) rangePolygon(fixes []rangegrid.Fix) (geom.Polygonal, error) {
	if c.RangeShapefile != "" {
		logger.Infof("reading home range from %s", c.RangeShapefile)
		return rangegrid.ReadRangeShapefile(c.RangeShapefile, c.WorkingProj)
	}
	logger.Infof("estimating %g%% minimum convex polygon from %d fixes", c.MCPPercent, len(fixes))
	pts := make([]geom.Point, len(fixes))
	for i, f := range fixes {
		pts[i] = f.Point
	}
	return homerange.MCP(pts, c.MCPPercent)
}
