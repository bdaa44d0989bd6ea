// Package inflow interpolates precomputed turbulent-inflow time series onto
// boundary degrees of freedom.
package inflow

import (
	"errors"
	"fmt"
)

// ErrSlicesExhausted is returned when a requested time-slice index exceeds
// the precomputed data. The simulation cannot continue without inflow data,
// so callers treat it as fatal.
var ErrSlicesExhausted = errors.New("inflow: precomputed turbulence slices exhausted")

// Interpolator samples a 2D turbulence grid, indexed by spanwise (y) and
// vertical (z) coordinates and sliced by time index.
type Interpolator struct {
	Y, Z []float64 // ascending grid coordinates

	// velocity components per time slice; value at (iy,iz) of slice t is
	// comp[t][iy*len(Z)+iz]
	U, V, W [][]float64
}

func New(y, z []float64, u, v, w [][]float64) (in *Interpolator, err error) {
	if len(y) == 0 || len(z) == 0 {
		return nil, fmt.Errorf("inflow: empty coordinate vectors (ny=%d nz=%d)", len(y), len(z))
	}
	for k := 1; k < len(y); k++ {
		if y[k] <= y[k-1] {
			return nil, fmt.Errorf("inflow: y coordinates must ascend, y[%d]=%g y[%d]=%g", k-1, y[k-1], k, y[k])
		}
	}
	for k := 1; k < len(z); k++ {
		if z[k] <= z[k-1] {
			return nil, fmt.Errorf("inflow: z coordinates must ascend, z[%d]=%g z[%d]=%g", k-1, z[k-1], k, z[k])
		}
	}
	if len(u) != len(v) || len(u) != len(w) {
		return nil, fmt.Errorf("inflow: component slice counts differ: u=%d v=%d w=%d", len(u), len(v), len(w))
	}
	want := len(y) * len(z)
	for t := range u {
		if len(u[t]) != want || len(v[t]) != want || len(w[t]) != want {
			return nil, fmt.Errorf("inflow: slice %d has wrong size, want %d", t, want)
		}
	}
	return &Interpolator{Y: y, Z: z, U: u, V: v, W: w}, nil
}

func (in *Interpolator) NumSlices() int { return len(in.U) }

// bracket scans the ascending coordinate array for the cell containing q and
// returns the lower index plus the interpolation fraction. Queries outside
// the grid clamp to the edge. The grids are small and regular, so a linear
// scan is fine.
func bracket(coords []float64, q float64) (lo int, frac float64) {
	n := len(coords)
	if n == 1 || q <= coords[0] {
		return 0, 0
	}
	if q >= coords[n-1] {
		return n - 2, 1
	}
	for lo = 0; lo < n-2; lo++ {
		if q < coords[lo+1] {
			break
		}
	}
	frac = (q - coords[lo]) / (coords[lo+1] - coords[lo])
	return
}

// Sample bilinearly interpolates all three components of time slice t at the
// point (y,z). The four corner weights are the opposing cell areas
// normalized by the cell area, so grid-node queries reproduce the stored
// values exactly and variation along edges is linear.
func (in *Interpolator) Sample(t int, y, z float64) (u, v, w float64, err error) {
	if t < 0 || t >= in.NumSlices() {
		return 0, 0, 0, fmt.Errorf("%w: requested slice %d of %d", ErrSlicesExhausted, t, in.NumSlices())
	}
	var (
		nz       = len(in.Z)
		iy, fy   = bracket(in.Y, y)
		iz, fz   = bracket(in.Z, z)
		iy1, iz1 = iy, iz
	)
	if len(in.Y) > 1 {
		iy1 = iy + 1
	}
	if nz > 1 {
		iz1 = iz + 1
	}
	w00 := (1 - fy) * (1 - fz)
	w01 := (1 - fy) * fz
	w10 := fy * (1 - fz)
	w11 := fy * fz
	interp := func(s []float64) float64 {
		return w00*s[iy*nz+iz] + w01*s[iy*nz+iz1] +
			w10*s[iy1*nz+iz] + w11*s[iy1*nz+iz1]
	}
	u = interp(in.U[t])
	v = interp(in.V[t])
	w = interp(in.W[t])
	return
}
