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

package homerange

import (
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// KernelConfig holds the parameters for kernel utilization
// distribution estimation.
type KernelConfig struct {
	Dx, Dy float64 // grid resolution of the density surface

	// Bandwidth is the smoothing parameter h. If zero, the reference
	// bandwidth Href is used.
	Bandwidth float64

	// Extend is how far the density grid extends beyond the bounding
	// box of the fixes, in multiples of the bandwidth. If zero, 3 is
	// used, which captures all but a negligible kernel tail.
	Extend float64
}

// UD is a kernel utilization distribution: a probability density
// surface on a regular grid. The density integrates to 1 over the
// gridded extent.
type UD struct {
	Density *sparse.DenseArray // shape [Ny][Nx]

	X0, Y0 float64 // lower-left corner of the density grid
	Dx, Dy float64
	Nx, Ny int
}

// Href returns the ad-hoc reference bandwidth
// 0.5*(sd(x)+sd(y)) * n^(-1/6) for a bivariate normal kernel.
func Href(fixes []geom.Point) float64 {
	xs := make([]float64, len(fixes))
	ys := make([]float64, len(fixes))
	for i, f := range fixes {
		xs[i] = f.X
		ys[i] = f.Y
	}
	return 0.5 * (stat.StdDev(xs, nil) + stat.StdDev(ys, nil)) * math.Pow(float64(len(fixes)), -1./6.)
}

// KernelUD estimates the utilization distribution of the fixes with a
// bivariate normal kernel on a regular grid.
func KernelUD(fixes []geom.Point, c KernelConfig) (*UD, error) {
	if c.Dx <= 0 || c.Dy <= 0 {
		return nil, fmt.Errorf("homerange: non-positive kernel grid resolution (%g × %g)", c.Dx, c.Dy)
	}
	if len(fixes) < 5 {
		return nil, fmt.Errorf("homerange: kernel estimation needs at least 5 fixes, got %d", len(fixes))
	}
	h := c.Bandwidth
	if h == 0 {
		h = Href(fixes)
	}
	if h <= 0 {
		return nil, fmt.Errorf("homerange: non-positive kernel bandwidth %g", h)
	}
	extend := c.Extend
	if extend == 0 {
		extend = 3
	}

	b := geom.NewBounds()
	for _, f := range fixes {
		b.Extend(f.Bounds())
	}
	pad := extend * h
	u := &UD{
		X0: b.Min.X - pad,
		Y0: b.Min.Y - pad,
		Dx: c.Dx,
		Dy: c.Dy,
		Nx: int(math.Ceil((b.Max.X-b.Min.X+2*pad)/c.Dx)) + 1,
		Ny: int(math.Ceil((b.Max.Y-b.Min.Y+2*pad)/c.Dy)) + 1,
	}
	u.Density = sparse.ZerosDense(u.Ny, u.Nx)

	norm := 1. / (2 * math.Pi * h * h * float64(len(fixes)))
	for j := 0; j < u.Ny; j++ {
		cy := u.Y0 + (float64(j)+0.5)*u.Dy
		for i := 0; i < u.Nx; i++ {
			cx := u.X0 + (float64(i)+0.5)*u.Dx
			var d float64
			for _, f := range fixes {
				dx := cx - f.X
				dy := cy - f.Y
				d += math.Exp(-(dx*dx + dy*dy) / (2 * h * h))
			}
			u.Density.Set(d*norm, j, i)
		}
	}

	// Normalize so that the density integrates to exactly 1 over the
	// gridded extent, compensating for the truncated kernel tails.
	total := floats.Sum(u.Density.Elements) * u.Dx * u.Dy
	if total <= 0 {
		return nil, fmt.Errorf("homerange: kernel density vanished; bandwidth %g too small for resolution %g × %g", h, c.Dx, c.Dy)
	}
	for i, v := range u.Density.Elements {
		u.Density.Elements[i] = v / total
	}
	return u, nil
}

// Isopleth returns the home-range polygon for utilization level p in
// (0, 1]: the union of the smallest set of grid cells containing
// fraction p of the total density. The result converges to the true
// density contour as the grid resolution increases.
func (u *UD) Isopleth(p float64) (geom.Polygonal, error) {
	if p <= 0 || p > 1 {
		return nil, fmt.Errorf("homerange: isopleth level %g outside (0, 1]", p)
	}

	order := make([]int, len(u.Density.Elements))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return u.Density.Elements[order[a]] > u.Density.Elements[order[b]]
	})

	cellFrac := u.Dx * u.Dy
	var hr geom.Polygonal
	var cum float64
	for _, idx := range order {
		d := u.Density.Elements[idx]
		if d <= 0 {
			break
		}
		j := idx / u.Nx
		i := idx % u.Nx
		rect := u.cellRect(j, i)
		if hr == nil {
			hr = rect
		} else {
			hr = hr.Union(rect)
		}
		cum += d * cellFrac
		if cum >= p {
			break
		}
	}
	if hr == nil {
		return nil, fmt.Errorf("homerange: empty isopleth at level %g", p)
	}
	return hr, nil
}

func (u *UD) cellRect(j, i int) geom.Polygon {
	l := u.X0 + float64(i)*u.Dx
	b := u.Y0 + float64(j)*u.Dy
	r := l + u.Dx
	t := b + u.Dy
	return geom.Polygon{{{X: l, Y: b}, {X: r, Y: b}, {X: r, Y: t}, {X: l, Y: t}, {X: l, Y: b}}}
}
