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
	"io/ioutil"
	"os"
	"testing"
)

const testConfigFilename = "testConfig.toml"

func TestReadConfigFile(t *testing.T) {
	contents := `
WorkingProj = "+proj=utm +zone=37 +south +datum=WGS84 +units=m +no_defs"
OutputFile = "out/summary.shp"
PrimaryField = "MeanSize"
RefPoint = [368000.0, 9885000.0]

[Fixes]
Path = "fixes.csv"
XCol = "x"
YCol = "y"
AttrCols = ["size"]

[Grid]
Dx = 100.0
Dy = 100.0

[[Aggregations]]
Attr = "size"
Reducer = "mean"
Name = "MeanSize"

[[Aggregations]]
Reducer = "count"
Name = "N"

[LogFields]
NTrees = "LogTrees"
`
	if err := ioutil.WriteFile(testConfigFilename, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(testConfigFilename)

	cfg, err := ReadConfigFile(testConfigFilename)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Fixes.Path != "fixes.csv" || cfg.Fixes.XCol != "x" {
		t.Errorf("fix file config: got %+v", cfg.Fixes)
	}
	if cfg.Grid.Dx != 100 || cfg.Grid.Dy != 100 {
		t.Errorf("grid config: got %+v", cfg.Grid)
	}
	if len(cfg.Aggregations) != 2 || cfg.Aggregations[0].Name != "MeanSize" {
		t.Errorf("aggregations: got %+v", cfg.Aggregations)
	}
	if cfg.LogFields["NTrees"] != "LogTrees" {
		t.Errorf("log fields: got %+v", cfg.LogFields)
	}

	// Defaults.
	if cfg.MCPPercent != 95 {
		t.Errorf("default MCPPercent: want 95, got %g", cfg.MCPPercent)
	}
	if cfg.Kernel.Isopleth != 0.95 {
		t.Errorf("default Kernel.Isopleth: want 0.95, got %g", cfg.Kernel.Isopleth)
	}
	if cfg.Kernel.Dx != 100 || cfg.Kernel.Dy != 100 {
		t.Errorf("kernel resolution should fall back to the grid resolution, got %+v", cfg.Kernel)
	}
	if cfg.DistanceField != "DistRef" {
		t.Errorf("default DistanceField: want DistRef, got %q", cfg.DistanceField)
	}
	if ref, ok := cfg.refPoint(); !ok || ref.X != 368000 || ref.Y != 9885000 {
		t.Errorf("reference point: got %v, %v", ref, ok)
	}
}

func TestReadConfigFileErrors(t *testing.T) {
	if _, err := ReadConfigFile("noSuchConfig.toml"); err == nil {
		t.Error("expected error for missing config file")
	}

	if err := ioutil.WriteFile(testConfigFilename, []byte("OutputFile = \"x.shp\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(testConfigFilename)
	if _, err := ReadConfigFile(testConfigFilename); err == nil {
		t.Error("expected error for config without a fix file")
	}

	if err := ioutil.WriteFile(testConfigFilename, []byte(`
RefPoint = [1.0]

[Fixes]
Path = "fixes.csv"
`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadConfigFile(testConfigFilename); err == nil {
		t.Error("expected error for malformed reference point")
	}
}
