package flow

import (
	"fmt"

	"github.com/agushin101/WindSE/boundary"
	"github.com/agushin101/WindSE/domain"
	"github.com/agushin101/WindSE/farm"
	"github.com/agushin101/WindSE/utils"
)

// UnsteadyProblem holds the state and matrix assembly of the fractional-step
// (Chorin) scheme: tentative velocity with Crank-Nicolson diffusion and
// Adams-Bashforth advection, a pressure-correction Poisson solve, and an
// explicit velocity projection. The turbine force is a numeric field
// recomputed each step from the previous velocity, keeping the turbine term
// out of the implicit operator.
type UnsteadyProblem struct {
	Dom  *domain.Domain
	Farm *farm.Farm
	BD   *boundary.Data
	Cfg  Config

	// flow state: _k current, _k1 previous, _k2 double previous. Only the
	// solve orchestrator mutates these.
	Uk, Uk1, Uk2 []float64
	Pk, Pk1      []float64

	Dt float64

	TF  []float64 // turbine force field, overwritten every refresh
	NuT []float64 // Smagorinsky eddy viscosity at U_AB

	DeltaYaw float64

	pressA utils.CSR // constant pressure Poisson operator
}

func NewUnsteadyProblem(dom *domain.Domain, f *farm.Farm, bd *boundary.Data, cfg Config) (p *UnsteadyProblem, err error) {
	var (
		np  = dom.Np()
		dim = dom.Dim
	)
	p = &UnsteadyProblem{
		Dom:  dom,
		Farm: f,
		BD:   bd,
		Cfg:  cfg,
	}
	u0, _ := bd.InitialGuess()
	p.Uk = make([]float64, dim*np)
	p.Uk1 = make([]float64, dim*np)
	p.Uk2 = make([]float64, dim*np)
	copy(p.Uk1, u0)
	copy(p.Uk2, u0)
	p.Pk = make([]float64, np)
	p.Pk1 = make([]float64, np)
	p.TF = make([]float64, dim*np)

	// seed dt from the mesh and peak inflow speed; the adaptive policy
	// takes over after the first step
	p.Dt = 0.1 * dom.Hmin() / bd.MaxVelocity()

	p.pressA = p.assemblePressureOperator()
	return
}

func (p *UnsteadyProblem) ProblemKind() Kind        { return Unsteady }
func (p *UnsteadyProblem) Domain() *domain.Domain   { return p.Dom }
func (p *UnsteadyProblem) Boundary() *boundary.Data { return p.BD }
func (p *UnsteadyProblem) Windfarm() *farm.Farm     { return p.Farm }

// ChangeWindAngle rebuilds markers, boundary velocities, the yaw offset and
// the pressure operator, whose outflow pins follow the wind direction.
func (p *UnsteadyProblem) ChangeWindAngle(theta float64) (err error) {
	if err = p.Dom.RecomputeBoundaryMarkers(theta); err != nil {
		return err
	}
	p.BD.RecomputeVelocity(theta)
	p.DeltaYaw = theta - p.Dom.InitWind
	p.pressA = p.assemblePressureOperator()
	return nil
}

// UAB is the Adams-Bashforth extrapolated velocity 1.5*u_k1 - 0.5*u_k2.
func (p *UnsteadyProblem) UAB() (u []float64) {
	u = make([]float64, len(p.Uk1))
	for i := range u {
		u[i] = 1.5*p.Uk1[i] - 0.5*p.Uk2[i]
	}
	return
}

// RefreshTurbineForce recomputes the force field from the previous
// timestep's velocity (lagged coupling).
func (p *UnsteadyProblem) RefreshTurbineForce() {
	p.TF = p.Farm.Force(p.Dom, p.Uk1, p.DeltaYaw)
}

// SolveTentative performs step 1: the provisional velocity solve. One
// nonsymmetric system per component, solved iteratively; results land in
// Uk. The operator depends on dt and on U_AB, so it is rebuilt every call.
func (p *UnsteadyProblem) SolveTentative(tol float64, maxIter int) (iters int, converged bool, err error) {
	var (
		dom = p.Dom
		np  = dom.Np()
		dim = dom.Dim
		uAB = p.UAB()
		nu  = p.Cfg.Mu / p.Cfg.Rho
	)
	p.NuT = SmagorinskyNuT(dom, uAB, p.Cfg)
	converged = true
	for c := 0; c < dim; c++ {
		A := utils.NewDOK(np, np)
		b := make([]float64, np)
		uc1 := p.Uk1[c*np : (c+1)*np]
		for i := 0; i < np; i++ {
			if fixed, val := p.BD.VelFixed(c, i); fixed {
				A.Set(i, i, 1)
				b[i] = val
				continue
			}
			if dom.IsBoundary(i) {
				j, nerr := interiorNeighbor(dom, i)
				if nerr != nil {
					return 0, false, nerr
				}
				A.Set(i, i, 1)
				A.Set(i, j, -1)
				continue
			}
			nuEff := nu + p.NuT[i]
			A.Add(i, i, 1/p.Dt)
			b[i] = uc1[i] / p.Dt
			for axis := 0; axis < dim; axis++ {
				var (
					h     = dom.H(axis)
					jp, _ = dom.Neighbor(i, axis, +1)
					jm, _ = dom.Neighbor(i, axis, -1)
					adv   = uAB[axis*np+i] / (2 * h)
					diff  = nuEff / (h * h)
				)
				// Crank-Nicolson: half implicit, half explicit
				A.Add(i, jp, 0.5*(adv-diff))
				A.Add(i, jm, 0.5*(-adv-diff))
				A.Add(i, i, diff)
				b[i] += 0.5 * (-adv*(uc1[jp]-uc1[jm]) + diff*(uc1[jp]-2*uc1[i]+uc1[jm]))
			}
			// previous pressure gradient and explicit turbine force
			b[i] -= gradAt(dom, p.Pk1, i, c)
			b[i] += p.TF[c*np+i]
		}
		x := make([]float64, np)
		copy(x, uc1)
		its, ok := utils.SolveBiCGSTAB(A.ToCSR(), b, x, tol, maxIter)
		iters += its
		if !ok {
			converged = false
		}
		copy(p.Uk[c*np:(c+1)*np], x)
	}
	if !converged {
		err = fmt.Errorf("tentative velocity solve did not converge in %d iterations", maxIter)
	}
	return
}

// assemblePressureOperator builds the SPD Poisson operator once: -laplace(p)
// with homogeneous Neumann walls (ghost elimination keeps symmetry) and a
// Dirichlet pin at the outflow.
func (p *UnsteadyProblem) assemblePressureOperator() utils.CSR {
	var (
		dom = p.Dom
		np  = dom.Np()
		A   = utils.NewDOK(np, np)
	)
	for i := 0; i < np; i++ {
		if p.BD.PressureOutflow(i) {
			A.Set(i, i, 1)
			continue
		}
		for axis := 0; axis < dom.Dim; axis++ {
			h2 := dom.H(axis) * dom.H(axis)
			for _, dir := range [2]int{+1, -1} {
				j, ok := dom.Neighbor(i, axis, dir)
				if !ok {
					continue // Neumann: mirror ghost drops out
				}
				A.Add(i, i, 1/h2)
				if !p.BD.PressureOutflow(j) {
					A.Add(i, j, -1/h2)
				}
				// outflow neighbors hold p=0, so their column vanishes
			}
		}
	}
	return A.ToCSR()
}

// SolvePressure performs step 2: the pressure-correction Poisson solve
// enforcing the divergence-free constraint on the provisional velocity.
func (p *UnsteadyProblem) SolvePressure(tol float64, maxIter int) (iters int, converged bool) {
	var (
		dom = p.Dom
		np  = dom.Np()
		b   = make([]float64, np)
	)
	// rhs = -laplace(p_k1) + (1/dt) div(u*)
	p.pressA.MulVec(p.Pk1, b)
	for i := 0; i < np; i++ {
		if p.BD.PressureOutflow(i) {
			b[i] = 0
			continue
		}
		var div float64
		for axis := 0; axis < dom.Dim; axis++ {
			div += gradAt(dom, p.Uk[axis*np:(axis+1)*np], i, axis)
		}
		b[i] -= div / p.Dt
	}
	copy(p.Pk, p.Pk1)
	return utils.SolveCG(p.pressA, b, p.Pk, tol, maxIter)
}

// CorrectVelocity performs step 3: project the provisional velocity with
// the updated pressure gradient, then restore the Dirichlet values.
func (p *UnsteadyProblem) CorrectVelocity() {
	var (
		dom = p.Dom
		np  = dom.Np()
		dim = dom.Dim
		dp  = make([]float64, np)
	)
	for i := 0; i < np; i++ {
		dp[i] = p.Pk[i] - p.Pk1[i]
	}
	for c := 0; c < dim; c++ {
		for i := 0; i < np; i++ {
			if fixed, _ := p.BD.VelFixed(c, i); fixed {
				continue
			}
			p.Uk[c*np+i] -= p.Dt * gradAt(dom, dp, i, c)
		}
	}
	p.BD.ApplyVelocity(p.Uk)
}

// ShiftHistory advances the state: u_k2 <- u_k1 <- u_k, p_k1 <- p_k.
func (p *UnsteadyProblem) ShiftHistory() {
	copy(p.Uk2, p.Uk1)
	copy(p.Uk1, p.Uk)
	copy(p.Pk1, p.Pk)
}
