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

// Package rangegrid aggregates attributed animal relocation data onto a
// regular grid clipped to a home-range polygon.
//
// The pipeline has four stages, each a pure function of its inputs:
// build a grid covering the range polygon's bounding box (NewGrid),
// clip the grid cells to the polygon (Grid.Clip), aggregate point
// observations into per-cell summary statistics (Aggregate), and
// compute derived per-cell attributes (Derive). The resulting cell
// summaries can be written to a shapefile or GeoJSON for thematic
// mapping.
//
// All coordinates are assumed to be in a single projected coordinate
// system; reprojection of inputs happens at load time (ReadFixCSV,
// ReadRangeShapefile) and nowhere else.
package rangegrid
