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

	"github.com/spatialecology/rangegrid"
	"github.com/spf13/cobra"
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Aggregate point observations onto a grid clipped to the home range",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGrid(config)
	},
}

func runGrid(cfg *ConfigData) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("rangegrid: configuration has no output file path")
	}

	fixes, err := cfg.loadFixes()
	if err != nil {
		return err
	}
	rng, err := cfg.rangePolygon(fixes)
	if err != nil {
		return err
	}

	grid, err := rangegrid.NewGrid(rng, cfg.Grid)
	if err != nil {
		return err
	}
	clipped, err := grid.Clip(rng)
	if err != nil {
		return err
	}
	logger.Infof("grid: %d × %d cells, %d inside the home range",
		grid.Nx, grid.Ny, len(clipped.Cells))

	sums, skipped, err := rangegrid.Aggregate(clipped, fixes, cfg.Aggregations)
	if err != nil {
		return err
	}
	if skipped > 0 {
		logger.Warnf("skipped %d malformed fixes during aggregation", skipped)
	}

	if cfg.Features.Path != "" {
		features, fSkipped, err := rangegrid.ReadFixCSV(cfg.Features, cfg.WorkingProj)
		if err != nil {
			return err
		}
		if fSkipped > 0 {
			logger.Warnf("skipped %d malformed rows in %s", fSkipped, cfg.Features.Path)
		}
		logger.Infof("loaded %d feature points from %s", len(features), cfg.Features.Path)
		fSums, fSkipped, err := rangegrid.Aggregate(clipped, features, cfg.FeatureAggregations)
		if err != nil {
			return err
		}
		if fSkipped > 0 {
			logger.Warnf("skipped %d malformed feature points during aggregation", fSkipped)
		}
		sums, err = rangegrid.MergeSummaries(sums, fSums, rangegrid.MergeUnion)
		if err != nil {
			return err
		}
	}

	dc := rangegrid.DeriveConfig{
		LogFields:    cfg.LogFields,
		PrimaryField: cfg.PrimaryField,
	}
	if ref, ok := cfg.refPoint(); ok {
		dc.RefPoint = ref
		dc.DistanceField = cfg.DistanceField
	}
	sums, err = rangegrid.Derive(sums, dc)
	if err != nil {
		return err
	}
	logger.Infof("%d cells with valid observations", len(sums))

	o, err := rangegrid.NewOutputter(cfg.OutputFile, cfg.OutputVariables, nil)
	if err != nil {
		return err
	}
	if err := o.WriteShapefile(sums, cfg.OutputPrj); err != nil {
		return err
	}
	logger.Infof("wrote %s", cfg.OutputFile)

	if cfg.GeoJSONFile != "" {
		f, err := os.Create(cfg.GeoJSONFile)
		if err != nil {
			return fmt.Errorf("rangegrid: creating GeoJSON output: %v", err)
		}
		defer f.Close()
		if err := o.WriteGeoJSON(f, sums); err != nil {
			return err
		}
		logger.Infof("wrote %s", cfg.GeoJSONFile)
	}
	return nil
}
