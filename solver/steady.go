package solver

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/agushin101/WindSE/flow"
	"github.com/agushin101/WindSE/output"
	"github.com/agushin101/WindSE/utils"
)

// SteadySolver runs the nonlinear steady solve: Picard (Oseen) iteration
// with under-relaxation around a direct linear solve. Non-convergence is
// reported through the flag and iteration count, not treated as fatal;
// exploratory steady usage proceeds with the unconverged field.
type SteadySolver struct {
	Problem *flow.SteadyProblem
	Out     *output.Writer

	MaxIter int
	Tol     float64
	Relax   float64

	Converged  bool
	Iterations int
}

func NewSteadySolver(prb *flow.SteadyProblem, out *output.Writer, opts Options) (s *SteadySolver, err error) {
	s = &SteadySolver{
		Problem: prb,
		Out:     out,
		MaxIter: opts.MaxNonlinearIter,
		Tol:     opts.NonlinearTol,
		Relax:   opts.Relaxation,
	}
	if s.Relax <= 0 || s.Relax > 1 {
		return nil, fmt.Errorf("relaxation factor must lie in (0,1], have %g", s.Relax)
	}
	return
}

func (s *SteadySolver) ChangeWindAngle(theta float64) error {
	return s.Problem.ChangeWindAngle(theta)
}

func (s *SteadySolver) Solve() error {
	return s.SolveAt(0)
}

// SolveAt runs the solve, labeling any saved output with iterVal (the sweep
// angle during a multi-angle run).
func (s *SteadySolver) SolveAt(iterVal float64) (err error) {
	var (
		prb = s.Problem
		n   = prb.NumUnknowns()
		np  = prb.Dom.Np()
		dim = prb.Dom.Dim
		x   = make([]float64, n)
	)
	log.WithFields(log.Fields{
		"formulation": prb.Kind.String(),
		"unknowns":    n,
	}).Info("starting steady solve")
	fmt.Printf("    iter     update   residual\n")

	copy(x, prb.U)
	copy(x[dim*np:], prb.P)
	s.Converged = false
	for s.Iterations = 1; s.Iterations <= s.MaxIter; s.Iterations++ {
		A, b := prb.Assemble()
		xNew, serr := utils.SolveDirect(A, b)
		if serr != nil {
			return fmt.Errorf("linear solve failed at iteration %d: %w", s.Iterations, serr)
		}
		var update float64
		for i := range x {
			xi := s.Relax*xNew[i] + (1-s.Relax)*x[i]
			d := xi - x[i]
			update += d * d
			x[i] = xi
		}
		update = math.Sqrt(update)
		prb.SetState(x[:dim*np], x[dim*np:])
		res := utils.Norm2(prb.Residual())
		fmt.Printf("%8d%11.4e%11.4e\n", s.Iterations, update, res)
		if update < s.Tol {
			s.Converged = true
			break
		}
	}
	if s.Iterations > s.MaxIter {
		s.Iterations = s.MaxIter
	}
	if !s.Converged {
		log.WithField("iterations", s.Iterations).Warn("steady solve did not converge; continuing with the last iterate")
	} else {
		log.WithField("iterations", s.Iterations).Info("steady solve converged")
	}
	if s.Out != nil {
		if err = s.Save(iterVal); err != nil {
			return err
		}
	}
	return nil
}

// Save writes velocity, pressure, the projected eddy viscosity and the
// turbine force field for the current state.
func (s *SteadySolver) Save(iterVal float64) (err error) {
	var (
		prb = s.Problem
	)
	if s.Out == nil {
		return nil
	}
	if err = s.Out.WriteSnapshot("velocity", iterVal, prb.U); err != nil {
		return
	}
	if err = s.Out.WriteSnapshot("pressure", iterVal, prb.P); err != nil {
		return
	}
	if prb.NuT != nil {
		if err = s.Out.WriteSnapshot("eddy_viscosity", iterVal, prb.NuT); err != nil {
			return
		}
	}
	tf := prb.Farm.Force(prb.Dom, prb.U, prb.DeltaYaw)
	return s.Out.WriteSnapshot("turbine_force", iterVal, tf)
}
