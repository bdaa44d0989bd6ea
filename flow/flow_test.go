package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agushin101/WindSE/boundary"
	"github.com/agushin101/WindSE/domain"
	"github.com/agushin101/WindSE/farm"
)

func TestNewKind(t *testing.T) {
	{
		k, err := NewKind("stabilized")
		assert.NoError(t, err)
		assert.Equal(t, Stabilized, k)
		k, err = NewKind("taylor_hood")
		assert.NoError(t, err)
		assert.Equal(t, TaylorHood, k)
		k, err = NewKind("unsteady")
		assert.NoError(t, err)
		assert.Equal(t, Unsteady, k)
	}
	{
		_, err := NewKind("spectral")
		assert.Error(t, err)
	}
}

func channel2D(t *testing.T) (*domain.Domain, *boundary.Data) {
	d, err := domain.NewDomain(domain.Rectangle,
		[2]float64{0, 6}, [2]float64{0, 4}, [2]float64{}, 7, 5, 0, 0)
	assert.NoError(t, err)
	bd, err := boundary.NewData(d, 8, 90, 0.01)
	assert.NoError(t, err)
	return d, bd
}

func TestStrainMagnitude(t *testing.T) {
	d, _ := channel2D(t)
	np := d.Np()
	{ // a uniform field has no strain
		u := make([]float64, 2*np)
		for i := 0; i < np; i++ {
			u[i] = 8
		}
		for _, s := range StrainMagnitude(d, u) {
			assert.InDelta(t, 0, s, 1e-14)
		}
	}
	{ // simple shear u = (gy, 0) has |S| = g everywhere
		g := 0.5
		u := make([]float64, 2*np)
		for i := 0; i < np; i++ {
			_, y, _ := d.Coord(i)
			u[i] = g * y
		}
		for _, s := range StrainMagnitude(d, u) {
			assert.InDelta(t, g, s, 1e-12)
		}
	}
}

func TestEddyViscosity(t *testing.T) {
	d, bd := channel2D(t)
	np := d.Np()
	g := 0.5
	u := make([]float64, 2*np)
	for i := 0; i < np; i++ {
		_, y, _ := d.Coord(i)
		u[i] = g * y
	}
	cfg := DefaultConfig()
	{ // 2D mixing length is hubHeight/MLDenom
		nuT := MixingLengthNuT(d, bd.Depth, u, 80, cfg)
		lmix := 80. / cfg.MLDenom
		for _, v := range nuT {
			assert.InDelta(t, lmix*lmix*g, v, 1e-10)
		}
	}
	{ // Smagorinsky scales with the filter width squared
		nuT := SmagorinskyNuT(d, u, cfg)
		delta := d.FilterWidth()
		for _, v := range nuT {
			assert.InDelta(t, cfg.Cs*cfg.Cs*delta*delta*g, v, 1e-10)
		}
	}
}

func TestProblemKindPairing(t *testing.T) {
	d, bd := channel2D(t)
	f, err := farm.NewFarm(nil)
	assert.NoError(t, err)
	{ // a steady problem cannot carry the unsteady formulation
		_, err := NewSteadyProblem(Unsteady, d, f, bd, DefaultConfig())
		assert.Error(t, err)
	}
	{
		p, err := NewSteadyProblem(Stabilized, d, f, bd, DefaultConfig())
		assert.NoError(t, err)
		assert.Equal(t, Stabilized, p.ProblemKind())
		assert.Equal(t, 3*d.Np(), p.NumUnknowns())
	}
}

func TestSteadyResidualAtUniformFlow(t *testing.T) {
	d, bd := channel2D(t)
	f, err := farm.NewFarm(nil)
	assert.NoError(t, err)
	p, err := NewSteadyProblem(Stabilized, d, f, bd, DefaultConfig())
	assert.NoError(t, err)
	{ // without turbines the uniform inflow is an exact solution
		r := p.Residual()
		var norm float64
		for _, v := range r {
			norm += v * v
		}
		assert.InDelta(t, 0, norm, 1e-20)
	}
}

// TestAssembleFusedForce checks the small-yaw assembly path: the momentum
// right-hand side built from the per-angle coefficient field must match the
// per-turbine force sampling at every free node.
func TestAssembleFusedForce(t *testing.T) {
	d, err := domain.NewDomain(domain.Rectangle,
		[2]float64{-500, 500}, [2]float64{-500, 500}, [2]float64{}, 21, 21, 0, 0)
	assert.NoError(t, err)
	bd, err := boundary.NewData(d, 8, 90, 0.01)
	assert.NoError(t, err)
	f, err := farm.NewFarm([]farm.Turbine{{
		HubHeight: 90,
		Diameter:  252,
		Thickness: 60,
		Axial:     0.25,
	}})
	assert.NoError(t, err)
	prb, err := NewSteadyProblem(Stabilized, d, f, bd, DefaultConfig())
	assert.NoError(t, err)
	assert.False(t, f.Yawed(prb.DeltaYaw))

	var (
		np    = d.Np()
		_, b  = prb.Assemble()
		tf    = f.Force(d, prb.U, prb.DeltaYaw)
		found = false
	)
	for i := 0; i < np; i++ {
		if d.IsBoundary(i) {
			continue
		}
		assert.InDelta(t, tf[i], b[i], 1e-9)
		assert.InDelta(t, tf[np+i], b[np+i], 1e-9)
		if tf[i] != 0 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestChangeWindAngle(t *testing.T) {
	{ // rectangle: only the construction angle is legal
		d, bd := channel2D(t)
		f, _ := farm.NewFarm(nil)
		p, err := NewSteadyProblem(Stabilized, d, f, bd, DefaultConfig())
		assert.NoError(t, err)
		assert.Error(t, p.ChangeWindAngle(1))
		assert.NoError(t, p.ChangeWindAngle(0))
		assert.Equal(t, 0., p.DeltaYaw)
	}
	{ // circle: the yaw offset tracks the sweep
		d, derr := domain.NewDomain(domain.Circle,
			[2]float64{-2, 2}, [2]float64{-2, 2}, [2]float64{}, 5, 5, 0, 0)
		assert.NoError(t, derr)
		bd, berr := boundary.NewData(d, 8, 90, 0.01)
		assert.NoError(t, berr)
		f, _ := farm.NewFarm(nil)
		p, err := NewSteadyProblem(Stabilized, d, f, bd, DefaultConfig())
		assert.NoError(t, err)
		assert.NoError(t, p.ChangeWindAngle(0.5))
		assert.InDelta(t, 0.5, p.DeltaYaw, 1e-14)
	}
}
