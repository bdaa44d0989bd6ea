// Package solver drives the flow problems: a Picard-iterated steady solve,
// the unsteady fractional-step loop with adaptive timestep control, and the
// wind-angle sweep that re-parametrizes the steady problem per direction.
package solver

import (
	"fmt"

	"github.com/agushin101/WindSE/boundary"
	"github.com/agushin101/WindSE/domain"
	"github.com/agushin101/WindSE/farm"
	"github.com/agushin101/WindSE/flow"
	"github.com/agushin101/WindSE/output"
)

// Problem is the surface the orchestrators consume from the flow package.
type Problem interface {
	ProblemKind() flow.Kind
	ChangeWindAngle(theta float64) error
	Domain() *domain.Domain
	Boundary() *boundary.Data
	Windfarm() *farm.Farm
}

// Solver is the surface exposed upward to the command layer.
type Solver interface {
	Solve() error
	Save(iterVal float64) error
}

// Options collects orchestration parameters shared by the solver kinds.
type Options struct {
	// steady
	MaxNonlinearIter int
	NonlinearTol     float64
	Relaxation       float64

	// unsteady
	FinalTime    float64
	SaveInterval float64
	CFLTarget    float64
	DtMin        float64
	LinearTol    float64
	LinearMaxIt  int
	InflowDir    string

	// angle sweep
	WindRange     [2]float64
	NumWindAngles int
	Endpoint      bool
	Angles        []float64 // explicit list; overrides the range
	Optimizing    bool
}

func DefaultOptions() Options {
	return Options{
		MaxNonlinearIter: 40,
		NonlinearTol:     1e-6,
		Relaxation:       1.0,
		CFLTarget:        DefaultCFLTarget,
		DtMin:            1e-4,
		LinearTol:        1e-8,
		LinearMaxIt:      2000,
	}
}

// New builds the solver named by kind. Pairing a solver with the wrong
// problem formulation is a configuration error caught here, before any
// solve is attempted.
func New(kind string, prb Problem, out *output.Writer, opts Options) (s Solver, err error) {
	switch kind {
	case "steady":
		sp, ok := prb.(*flow.SteadyProblem)
		if !ok {
			return nil, fmt.Errorf("steady solver invoked against a %s problem", prb.ProblemKind())
		}
		return NewSteadySolver(sp, out, opts)
	case "multiangle":
		sp, ok := prb.(*flow.SteadyProblem)
		if !ok {
			return nil, fmt.Errorf("multi-angle solver invoked against a %s problem", prb.ProblemKind())
		}
		var steady *SteadySolver
		if steady, err = NewSteadySolver(sp, out, opts); err != nil {
			return nil, err
		}
		return NewMultiAngleSolver(steady, opts)
	case "unsteady":
		up, ok := prb.(*flow.UnsteadyProblem)
		if !ok {
			return nil, fmt.Errorf("unsteady solver invoked against a %s problem", prb.ProblemKind())
		}
		return NewUnsteadySolver(up, out, opts)
	}
	return nil, fmt.Errorf("unknown solver type %q", kind)
}
