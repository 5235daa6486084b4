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
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
	"github.com/spatialecology/rangegrid/homerange"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Estimate a minimum convex polygon home range",
	RunE: func(cmd *cobra.Command, args []string) error {
		fixes, err := config.loadFixes()
		if err != nil {
			return err
		}
		pts := make([]geom.Point, len(fixes))
		for i, f := range fixes {
			pts[i] = f.Point
		}
		hr, err := homerange.MCP(pts, config.MCPPercent)
		if err != nil {
			return err
		}
		logger.Infof("%g%% MCP area: %g", config.MCPPercent, hr.Area())
		return writeRangeShapefile(config.OutputFile, hr, config.OutputPrj)
	},
}

var kernelCmd = &cobra.Command{
	Use:   "kernel",
	Short: "Estimate a kernel utilization distribution home range",
	RunE: func(cmd *cobra.Command, args []string) error {
		fixes, err := config.loadFixes()
		if err != nil {
			return err
		}
		pts := make([]geom.Point, len(fixes))
		for i, f := range fixes {
			pts[i] = f.Point
		}
		ud, err := homerange.KernelUD(pts, homerange.KernelConfig{
			Dx:        config.Kernel.Dx,
			Dy:        config.Kernel.Dy,
			Bandwidth: config.Kernel.Bandwidth,
		})
		if err != nil {
			return err
		}
		hr, err := ud.Isopleth(config.Kernel.Isopleth)
		if err != nil {
			return err
		}
		logger.Infof("%g kernel isopleth area: %g", config.Kernel.Isopleth, hr.Area())
		return writeRangeShapefile(config.OutputFile, hr, config.OutputPrj)
	},
}

// writeRangeShapefile writes a single home-range polygon with its area
// as the only attribute.
func writeRangeShapefile(fileName string, hr geom.Polygonal, prj string) error {
	if fileName == "" {
		return fmt.Errorf("rangegrid: configuration has no output file path")
	}
	fileBase := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	e, err := shp.NewEncoderFromFields(fileBase+".shp", goshp.POLYGON, goshp.FloatField("AREA", 14, 8))
	if err != nil {
		return fmt.Errorf("rangegrid: error creating range shapefile: %v", err)
	}
	if err := e.EncodeFields(hr, hr.Area()); err != nil {
		return fmt.Errorf("rangegrid: error writing range shapefile: %v", err)
	}
	e.Close()
	if prj != "" {
		f, err := os.Create(fileBase + ".prj")
		if err != nil {
			return fmt.Errorf("rangegrid: error creating range prj file: %v", err)
		}
		fmt.Fprint(f, prj)
		f.Close()
	}
	logger.Infof("wrote %s", fileBase+".shp")
	return nil
}
