package flow

import (
	"fmt"

	"github.com/agushin101/WindSE/boundary"
	"github.com/agushin101/WindSE/domain"
	"github.com/agushin101/WindSE/farm"
	"github.com/agushin101/WindSE/utils"
)

// taylorHoodReg is a vanishing pressure regularization keeping the
// unstabilized saddle-point matrix invertible on the collocated grid. The
// inf-sup-stable element pair itself belongs to the external discretization.
const taylorHoodReg = 1e-8

// SteadyProblem assembles the coupled velocity-pressure system of the
// Stabilized or Taylor-Hood formulation. The nonlinear terms are linearized
// about the current iterate (Oseen form), so one assembly serves both the
// Picard step and the residual evaluation.
type SteadyProblem struct {
	Kind Kind
	Dom  *domain.Domain
	Farm *farm.Farm
	BD   *boundary.Data
	Cfg  Config

	// current iterate, owned by the solve orchestrator
	U []float64
	P []float64

	// eddy viscosity at the current iterate, refreshed on assembly
	NuT []float64

	// DeltaYaw is the offset between the current wind angle and the angle
	// the farm was described for.
	DeltaYaw float64

	// velocity-independent force coefficient and axial direction, valid for
	// the current wind angle. Serves the small-yaw fused force term.
	forceS, forceEx, forceEy []float64

	hubHeight float64
}

func NewSteadyProblem(kind Kind, dom *domain.Domain, f *farm.Farm, bd *boundary.Data, cfg Config) (p *SteadyProblem, err error) {
	if kind != Stabilized && kind != TaylorHood {
		return nil, fmt.Errorf("problem type %s is not a steady formulation", kind)
	}
	p = &SteadyProblem{
		Kind: kind,
		Dom:  dom,
		Farm: f,
		BD:   bd,
		Cfg:  cfg,
	}
	if f.NumTurbines() > 0 {
		p.hubHeight = f.Turbines[0].HubHeight
	} else {
		p.hubHeight = cfg.MLDenom // arbitrary nonzero length scale for the closure
	}
	p.U, p.P = bd.InitialGuess()
	p.forceS, p.forceEx, p.forceEy = f.ForceCoefficient(dom, p.DeltaYaw)
	return
}

func (p *SteadyProblem) ProblemKind() Kind        { return p.Kind }
func (p *SteadyProblem) Domain() *domain.Domain   { return p.Dom }
func (p *SteadyProblem) Boundary() *boundary.Data { return p.BD }
func (p *SteadyProblem) Windfarm() *farm.Farm     { return p.Farm }

// NumUnknowns is the size of the coupled system: dim velocity blocks plus
// one pressure block.
func (p *SteadyProblem) NumUnknowns() int {
	return (p.Dom.Dim + 1) * p.Dom.Np()
}

// ChangeWindAngle recomputes markers, boundary velocities and the yaw offset
// for a new global inflow direction, then resets the iterate to the fresh
// inflow profile. Callable repeatedly; each call rebuilds from theta alone.
func (p *SteadyProblem) ChangeWindAngle(theta float64) (err error) {
	if err = p.Dom.RecomputeBoundaryMarkers(theta); err != nil {
		return err
	}
	p.BD.RecomputeVelocity(theta)
	p.DeltaYaw = theta - p.Dom.InitWind
	p.U, p.P = p.BD.InitialGuess()
	p.forceS, p.forceEx, p.forceEy = p.Farm.ForceCoefficient(p.Dom, p.DeltaYaw)
	return nil
}

// Assemble builds the Oseen system A*[u;p] = b linearized about the current
// iterate. The turbine force enters velocity-lagged: quadratic in the
// iterate, held on the right-hand side.
func (p *SteadyProblem) Assemble() (A utils.DOK, b []float64) {
	var (
		dom  = p.Dom
		np   = dom.Np()
		dim  = dom.Dim
		n    = p.NumUnknowns()
		pOff = dim * np
		eps  = p.Cfg.Eps
	)
	p.NuT = MixingLengthNuT(dom, p.BD.Depth, p.U, p.hubHeight, p.Cfg)
	tf := p.turbineForce()
	A = utils.NewDOK(n, n)
	b = make([]float64, n)

	// momentum rows
	for c := 0; c < dim; c++ {
		for i := 0; i < np; i++ {
			row := c*np + i
			if fixed, val := p.BD.VelFixed(c, i); fixed {
				A.Set(row, row, 1)
				b[row] = val
				continue
			}
			if dom.IsBoundary(i) {
				// unconstrained wall component: zero normal gradient
				j, err := interiorNeighbor(dom, i)
				if err != nil {
					panic(err)
				}
				A.Set(row, row, 1)
				A.Set(row, c*np+j, -1)
				continue
			}
			nuEff := p.Cfg.Nu + p.NuT[i]
			for axis := 0; axis < dim; axis++ {
				var (
					h     = dom.H(axis)
					jp, _ = dom.Neighbor(i, axis, +1)
					jm, _ = dom.Neighbor(i, axis, -1)
					adv   = p.U[axis*np+i] / (2 * h)
					diff  = nuEff / (h * h)
				)
				A.Add(row, c*np+jp, adv-diff)
				A.Add(row, c*np+jm, -adv-diff)
				A.Add(row, row, 2*diff)
			}
			// pressure gradient along the component axis
			{
				h := dom.H(c)
				jp, _ := dom.Neighbor(i, c, +1)
				jm, _ := dom.Neighbor(i, c, -1)
				A.Add(row, pOff+jp, 1/(2*h))
				A.Add(row, pOff+jm, -1/(2*h))
			}
			b[row] = tf[c*np+i]
		}
	}

	// continuity rows
	stabG := p.stabilizationSource()
	for i := 0; i < np; i++ {
		row := pOff + i
		switch {
		case p.BD.PressureOutflow(i):
			A.Set(row, row, 1)
		case dom.IsBoundary(i):
			j, err := interiorNeighbor(dom, i)
			if err != nil {
				panic(err)
			}
			A.Set(row, row, 1)
			A.Set(row, pOff+j, -1)
		default:
			for axis := 0; axis < dim; axis++ {
				var (
					h     = dom.H(axis)
					jp, _ = dom.Neighbor(i, axis, +1)
					jm, _ = dom.Neighbor(i, axis, -1)
				)
				A.Add(row, axis*np+jp, 1/(2*h))
				A.Add(row, axis*np+jm, -1/(2*h))
				reg := eps
				if p.Kind == TaylorHood {
					reg = taylorHoodReg
				}
				A.Add(row, pOff+jp, -reg/(h*h))
				A.Add(row, pOff+jm, -reg/(h*h))
				A.Add(row, row, 2*reg/(h*h))
			}
			if p.Kind == Stabilized {
				b[row] = eps * stabG[i]
			}
		}
	}
	return
}

// turbineForce evaluates the velocity-lagged momentum sink at the current
// iterate. Below the yaw threshold the per-angle coefficient field is fused
// with the planform speed squared; the full per-turbine sampling only runs
// when some rotor carries a real yaw.
func (p *SteadyProblem) turbineForce() (tf []float64) {
	var (
		dom = p.Dom
		np  = dom.Np()
	)
	if p.Farm.Yawed(p.DeltaYaw) {
		return p.Farm.Force(dom, p.U, p.DeltaYaw)
	}
	tf = make([]float64, dom.Dim*np)
	for i := 0; i < np; i++ {
		usq := p.U[i]*p.U[i] + p.U[np+i]*p.U[np+i]
		tf[i] = -p.forceS[i] * usq * p.forceEx[i]
		tf[np+i] = -p.forceS[i] * usq * p.forceEy[i]
	}
	return
}

// stabilizationSource evaluates div((grad u) u) at the current iterate, the
// source of the second pressure-stabilization term.
func (p *SteadyProblem) stabilizationSource() (src []float64) {
	var (
		dom = p.Dom
		np  = dom.Np()
		dim = dom.Dim
		g   = make([]float64, dim*np)
	)
	for c := 0; c < dim; c++ {
		fc := p.U[c*np : (c+1)*np]
		for i := 0; i < np; i++ {
			g[c*np+i] = convection(dom, p.U, fc, i)
		}
	}
	src = make([]float64, np)
	for i := 0; i < np; i++ {
		for axis := 0; axis < dim; axis++ {
			src[i] += gradAt(dom, g[axis*np:(axis+1)*np], i, axis)
		}
	}
	return
}

// Residual evaluates the nonlinear residual at the current iterate. The
// Oseen matrix linearized at U, applied to U itself, reproduces the full
// nonlinear advection term, so the residual is A*x - b.
func (p *SteadyProblem) Residual() (r []float64) {
	var (
		A, b = p.Assemble()
		n    = p.NumUnknowns()
		x    = make([]float64, n)
	)
	copy(x, p.U)
	copy(x[len(p.U):], p.P)
	r = make([]float64, n)
	A.ToCSR().MulVec(x, r)
	for i := range r {
		r[i] -= b[i]
	}
	return
}

// SetState replaces the iterate. Only the solve orchestrator calls this.
func (p *SteadyProblem) SetState(u, pr []float64) {
	copy(p.U, u)
	copy(p.P, pr)
}
