// Package boundary owns the Dirichlet constraint bookkeeping consumed by the
// flow problems: inflow velocity profiles, wall conditions, the outflow
// pressure pin, and the rebuild hooks invoked when the wind angle or the
// simulation time changes.
package boundary

import (
	"fmt"
	"math"

	"github.com/agushin101/WindSE/domain"
	"github.com/agushin101/WindSE/inflow"
)

// Constraint is one Dirichlet condition: fix component comp of the velocity
// at a node. comp == -1 pins the pressure instead.
type Constraint struct {
	Node  int
	Comp  int
	Value float64
	Side  domain.Side
}

// Data is the boundary-condition set for one domain and wind angle.
type Data struct {
	Dom       *domain.Domain
	Vmax      float64
	HubHeight float64
	Roughness float64
	Theta     float64

	// ordered constraint list, rebuilt whenever the angle or inflow data
	// changes
	Constraints []Constraint

	velFixed []bool
	velValue []float64
	presOut  []bool

	// Depth is the distance-to-ground field the mixing-length closure reads.
	Depth []float64
}

func NewData(dom *domain.Domain, vmax, hubHeight, roughness float64) (bd *Data, err error) {
	if vmax <= 0 {
		return nil, fmt.Errorf("inflow velocity must be positive, have %g", vmax)
	}
	if roughness <= 0 {
		roughness = 0.01
	}
	bd = &Data{
		Dom:       dom,
		Vmax:      vmax,
		HubHeight: hubHeight,
		Roughness: roughness,
		Depth:     make([]float64, dom.Np()),
	}
	for i := range bd.Depth {
		bd.Depth[i] = dom.Depth(i)
	}
	bd.RecomputeVelocity(dom.WindAngle)
	return
}

// MaxVelocity is the peak inflow speed, used to seed the unsteady timestep.
func (bd *Data) MaxVelocity() float64 { return bd.Vmax }

// Profile evaluates the inflow velocity at a point: a log-law profile in z
// for 3D domains, a uniform angle-directed stream in plan view.
func (bd *Data) Profile(i int) (vel [3]float64) {
	var (
		dom     = bd.Dom
		c, s    = math.Cos(bd.Theta), math.Sin(bd.Theta)
		_, _, z = dom.Coord(i)
	)
	speed := bd.Vmax
	if dom.Dim == 3 {
		h := z - dom.ZRange[0]
		if h <= bd.Roughness {
			speed = 0
		} else {
			speed = bd.Vmax * math.Log(h/bd.Roughness) / math.Log(bd.HubHeight/bd.Roughness)
		}
	}
	vel[0] = speed * c
	vel[1] = speed * s
	return
}

// RecomputeVelocity rebuilds the whole constraint set for a new wind angle.
// The caller is expected to have recomputed the domain markers first.
func (bd *Data) RecomputeVelocity(theta float64) {
	var (
		dom = bd.Dom
		np  = dom.Np()
		dim = dom.Dim
	)
	bd.Theta = theta
	bd.Constraints = bd.Constraints[:0]
	bd.velFixed = make([]bool, dim*np)
	bd.velValue = make([]float64, dim*np)
	bd.presOut = make([]bool, np)
	wind := [2]float64{math.Cos(theta), math.Sin(theta)}
	for i := 0; i < np; i++ {
		side := dom.Side(i)
		switch {
		case side == domain.Interior:
		case dom.Inflow(i):
			vel := bd.Profile(i)
			for c := 0; c < dim; c++ {
				bd.addVel(i, c, vel[c], side)
			}
		case side == domain.Bottom:
			// no-slip ground
			for c := 0; c < dim; c++ {
				bd.addVel(i, c, 0, side)
			}
		case side == domain.Top:
			// free-slip lid: only the normal component is pinned
			bd.addVel(i, 2, 0, side)
		default:
			n := side.Normal()
			dot := n[0]*wind[0] + n[1]*wind[1]
			if dot > 1e-10 {
				// downwind wall: outflow, pressure pinned to zero
				bd.presOut[i] = true
				bd.Constraints = append(bd.Constraints, Constraint{Node: i, Comp: -1, Side: side})
			} else {
				// tangential wall: free slip, pin the normal component
				for c := 0; c < 2; c++ {
					if n[c] != 0 {
						bd.addVel(i, c, 0, side)
					}
				}
			}
		}
	}
}

func (bd *Data) addVel(node, comp int, value float64, side domain.Side) {
	np := bd.Dom.Np()
	bd.velFixed[comp*np+node] = true
	bd.velValue[comp*np+node] = value
	bd.Constraints = append(bd.Constraints, Constraint{Node: node, Comp: comp, Value: value, Side: side})
}

// VelFixed reports whether component comp at the node carries a Dirichlet
// row, and its value.
func (bd *Data) VelFixed(comp, node int) (fixed bool, value float64) {
	idx := comp*bd.Dom.Np() + node
	return bd.velFixed[idx], bd.velValue[idx]
}

// PressureOutflow reports whether the node carries the outflow pressure pin.
func (bd *Data) PressureOutflow(node int) bool { return bd.presOut[node] }

// InitialGuess seeds velocity and pressure with the inflow profile imposed
// everywhere, the usual starting point for the steady nonlinear solve.
func (bd *Data) InitialGuess() (u, p []float64) {
	var (
		np  = bd.Dom.Np()
		dim = bd.Dom.Dim
	)
	u = make([]float64, dim*np)
	p = make([]float64, np)
	for i := 0; i < np; i++ {
		vel := bd.Profile(i)
		for c := 0; c < dim; c++ {
			u[c*np+i] = vel[c]
		}
	}
	// honor the Dirichlet rows exactly
	bd.ApplyVelocity(u)
	return
}

// ApplyVelocity overwrites the constrained entries of a velocity field with
// their Dirichlet values.
func (bd *Data) ApplyVelocity(u []float64) {
	for i, fixed := range bd.velFixed {
		if fixed {
			u[i] = bd.velValue[i]
		}
	}
}

// SetInflowSlice replaces the inflow-side velocity values with the
// precomputed turbulence slice for the given time index. Exhausting the
// available slices is fatal upstream; the error is surfaced untouched.
func (bd *Data) SetInflowSlice(in *inflow.Interpolator, tIdx int) error {
	var (
		dom = bd.Dom
		np  = dom.Np()
	)
	for i := 0; i < np; i++ {
		if !dom.Inflow(i) {
			continue
		}
		_, y, z := dom.Coord(i)
		u, v, w, err := in.Sample(tIdx, y, z)
		if err != nil {
			return err
		}
		vals := [3]float64{u, v, w}
		for c := 0; c < dom.Dim; c++ {
			idx := c*np + i
			if bd.velFixed[idx] {
				bd.velValue[idx] = vals[c]
			}
		}
	}
	// keep the ordered list consistent with the mutated values
	for k, con := range bd.Constraints {
		if con.Comp >= 0 {
			bd.Constraints[k].Value = bd.velValue[con.Comp*np+con.Node]
		}
	}
	return nil
}
