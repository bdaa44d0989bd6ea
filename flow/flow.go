// Package flow assembles the residuals and matrices of the wind-farm flow
// problems: the steady RANS formulations with a mixing-length closure and
// the unsteady fractional-step formulation with a Smagorinsky closure.
//
// Velocity fields are stored component-major: component c at node i lives at
// u[c*np+i]. Pressure fields have one entry per node.
package flow

import (
	"fmt"
	"math"

	"github.com/agushin101/WindSE/domain"
)

// Kind selects the formulation.
type Kind int

const (
	Stabilized Kind = iota
	TaylorHood
	Unsteady
)

func NewKind(name string) (k Kind, err error) {
	switch name {
	case "stabilized":
		k = Stabilized
	case "taylor_hood":
		k = TaylorHood
	case "unsteady":
		k = Unsteady
	default:
		err = fmt.Errorf("unknown problem type %q", name)
	}
	return
}

func (k Kind) String() string {
	return [...]string{"stabilized", "taylor_hood", "unsteady"}[k]
}

// Config carries the physical and numerical constants of the formulations.
type Config struct {
	Nu  float64 // molecular viscosity, steady problems
	Eps float64 // pressure stabilization coefficient

	VonKarman float64 // mixing-length kappa
	LMax      float64 // mixing-length ceiling
	MLDenom   float64 // 2D mixing length = hub height / MLDenom

	Mu  float64 // dynamic viscosity, unsteady problem
	Rho float64 // density, unsteady problem
	Cs  float64 // Smagorinsky constant
}

func DefaultConfig() Config {
	return Config{
		Nu:        0.1,
		Eps:       0.01,
		VonKarman: 0.41,
		LMax:      15,
		MLDenom:   8,
		Mu:        1.0 / 10000.0,
		Rho:       1,
		Cs:        0.17,
	}
}

// gradAt computes d(f)/d(axis) of a scalar field at node i, central in the
// interior and one-sided at walls.
func gradAt(dom *domain.Domain, f []float64, i, axis int) float64 {
	var (
		h       = dom.H(axis)
		jp, okp = dom.Neighbor(i, axis, +1)
		jm, okm = dom.Neighbor(i, axis, -1)
	)
	switch {
	case okp && okm:
		return (f[jp] - f[jm]) / (2 * h)
	case okp:
		return (f[jp] - f[i]) / h
	case okm:
		return (f[i] - f[jm]) / h
	}
	return 0
}

// StrainMagnitude returns |S| = sqrt(2*S_ij*S_ij) per node, with S the
// symmetric strain-rate tensor of the velocity field.
func StrainMagnitude(dom *domain.Domain, u []float64) (s []float64) {
	var (
		np  = dom.Np()
		dim = dom.Dim
	)
	s = make([]float64, np)
	for i := 0; i < np; i++ {
		var sum float64
		for ci := 0; ci < dim; ci++ {
			for cj := 0; cj < dim; cj++ {
				sij := 0.5 * (gradAt(dom, u[ci*np:(ci+1)*np], i, cj) +
					gradAt(dom, u[cj*np:(cj+1)*np], i, ci))
				sum += sij * sij
			}
		}
		s[i] = math.Sqrt(2 * sum)
	}
	return
}

// MixingLengthNuT evaluates the RANS eddy viscosity nu_T = l_mix^2 * |S|.
// In 3D the mixing length grows with distance to the ground and saturates at
// LMax; in plan view it is a fixed fraction of the hub height.
func MixingLengthNuT(dom *domain.Domain, depth, u []float64, hubHeight float64, cfg Config) (nuT []float64) {
	var (
		np = dom.Np()
		s  = StrainMagnitude(dom, u)
	)
	nuT = make([]float64, np)
	for i := 0; i < np; i++ {
		var lmix float64
		if dom.Dim == 3 {
			kd := cfg.VonKarman * depth[i]
			lmix = kd / (1 + kd/cfg.LMax)
		} else {
			lmix = hubHeight / cfg.MLDenom
		}
		nuT[i] = lmix * lmix * s[i]
	}
	return
}

// SmagorinskyNuT evaluates the LES eddy viscosity nu_T = (Cs*Delta)^2 * |S|
// from the Adams-Bashforth extrapolated velocity.
func SmagorinskyNuT(dom *domain.Domain, uAB []float64, cfg Config) (nuT []float64) {
	var (
		np    = dom.Np()
		s     = StrainMagnitude(dom, uAB)
		delta = dom.FilterWidth()
		coeff = cfg.Cs * cfg.Cs * delta * delta
	)
	nuT = make([]float64, np)
	for i := 0; i < np; i++ {
		nuT[i] = coeff * s[i]
	}
	return
}

// convection evaluates (a . grad) f at node i for advecting velocity a.
func convection(dom *domain.Domain, a, f []float64, i int) (v float64) {
	np := dom.Np()
	for axis := 0; axis < dom.Dim; axis++ {
		v += a[axis*np+i] * gradAt(dom, f, i, axis)
	}
	return
}

// interiorNeighbor returns the node one step inward from a wall node.
func interiorNeighbor(dom *domain.Domain, i int) (j int, err error) {
	side := dom.Side(i)
	n := side.Normal()
	for axis := 0; axis < dom.Dim; axis++ {
		if n[axis] > 0 {
			if j, ok := dom.Neighbor(i, axis, -1); ok {
				return j, nil
			}
		}
		if n[axis] < 0 {
			if j, ok := dom.Neighbor(i, axis, +1); ok {
				return j, nil
			}
		}
	}
	return -1, fmt.Errorf("node %d has no interior neighbor on side %s", i, side)
}
