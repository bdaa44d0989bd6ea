package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agushin101/WindSE/boundary"
	"github.com/agushin101/WindSE/domain"
	"github.com/agushin101/WindSE/farm"
	"github.com/agushin101/WindSE/flow"
)

func testProblems(t *testing.T, shape domain.Shape) (*flow.SteadyProblem, *flow.UnsteadyProblem) {
	d, err := domain.NewDomain(shape,
		[2]float64{0, 6}, [2]float64{0, 4}, [2]float64{}, 7, 5, 0, 0)
	assert.NoError(t, err)
	bd, err := boundary.NewData(d, 8, 90, 0.01)
	assert.NoError(t, err)
	f, err := farm.NewFarm(nil)
	assert.NoError(t, err)
	sp, err := flow.NewSteadyProblem(flow.Stabilized, d, f, bd, flow.DefaultConfig())
	assert.NoError(t, err)
	up, err := flow.NewUnsteadyProblem(d, f, bd, flow.DefaultConfig())
	assert.NoError(t, err)
	return sp, up
}

func TestSolverFactory(t *testing.T) {
	sp, up := testProblems(t, domain.Rectangle)
	opts := DefaultOptions()
	{
		s, err := New("steady", sp, nil, opts)
		assert.NoError(t, err)
		assert.IsType(t, &SteadySolver{}, s)
	}
	{
		opts := opts
		opts.FinalTime = 1
		s, err := New("unsteady", up, nil, opts)
		assert.NoError(t, err)
		assert.IsType(t, &UnsteadySolver{}, s)
	}
	{ // mismatched pairings are configuration errors
		_, err := New("steady", up, nil, opts)
		assert.Error(t, err)
		_, err = New("unsteady", sp, nil, opts)
		assert.Error(t, err)
		_, err = New("multiangle", up, nil, opts)
		assert.Error(t, err)
	}
	{
		_, err := New("quasistatic", sp, nil, opts)
		assert.Error(t, err)
	}
}

func TestSolverValidation(t *testing.T) {
	sp, up := testProblems(t, domain.Rectangle)
	{ // relaxation outside (0,1]
		opts := DefaultOptions()
		opts.Relaxation = 1.5
		_, err := NewSteadySolver(sp, nil, opts)
		assert.Error(t, err)
	}
	{ // unsteady runs need a final time
		_, err := NewUnsteadySolver(up, nil, DefaultOptions())
		assert.Error(t, err)
	}
}

func TestMultiAngleConstruction(t *testing.T) {
	{ // a rectangle domain cannot sweep wind angles
		sp, _ := testProblems(t, domain.Rectangle)
		steady, err := NewSteadySolver(sp, nil, DefaultOptions())
		assert.NoError(t, err)
		_, err = NewMultiAngleSolver(steady, DefaultOptions())
		assert.Error(t, err)
	}
	{ // circle domain, default full-circle sweep without the endpoint
		sp, _ := testProblems(t, domain.Circle)
		steady, err := NewSteadySolver(sp, nil, DefaultOptions())
		assert.NoError(t, err)
		opts := DefaultOptions()
		opts.NumWindAngles = 4
		ms, err := NewMultiAngleSolver(steady, opts)
		assert.NoError(t, err)
		assert.Equal(t, 4, len(ms.Angles))
		assert.Equal(t, 0., ms.Angles[0])
		assert.InDelta(t, 3.14159265358979, ms.Angles[2], 1e-12)
	}
	{ // explicit angle list overrides the range
		sp, _ := testProblems(t, domain.Circle)
		steady, err := NewSteadySolver(sp, nil, DefaultOptions())
		assert.NoError(t, err)
		opts := DefaultOptions()
		opts.Angles = []float64{0.1, 0.2}
		ms, err := NewMultiAngleSolver(steady, opts)
		assert.NoError(t, err)
		assert.Equal(t, []float64{0.1, 0.2}, ms.Angles)
	}
	{ // a sweep with no angles at all is rejected
		sp, _ := testProblems(t, domain.Circle)
		steady, err := NewSteadySolver(sp, nil, DefaultOptions())
		assert.NoError(t, err)
		_, err = NewMultiAngleSolver(steady, DefaultOptions())
		assert.Error(t, err)
	}
}
