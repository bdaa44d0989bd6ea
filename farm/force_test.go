package farm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agushin101/WindSE/domain"
)

func TestProfileNormalization(t *testing.T) {
	{ // the documented axial constant
		assert.InDelta(t, 1.902701539733748, AxialNorm(AxialSharpness), 1e-14)
	}
	{ // axial profile integrates to one along the axis
		var (
			W   = 10.
			dx  = W / 2000
			sum float64
		)
		for x := -4 * W; x <= 4*W; x += dx {
			sum += AxialProfile(x, W, AxialSharpness) * dx
		}
		assert.InDelta(t, 1, sum, 1e-3)
	}
	{ // radial profile integrates to one over the disk plane
		var (
			R   = 63.
			dr  = R / 4000
			sum float64
		)
		for r := 0.5 * dr; r < 3*R; r += dr {
			sum += RadialProfile(r, R) * 2 * math.Pi * r * dr
		}
		assert.InDelta(t, 1, sum, 1e-3)
	}
}

func TestThrust(t *testing.T) {
	var (
		R = 63.
		a = 0.33
	)
	{ // centerline value: the taper shape reduces to 0.5/0.81831
		want := 4 * 0.5 * math.Pi * R * R * a / (1 - a) * 0.5 / 0.81831
		assert.InDelta(t, want, Thrust(0, R, a), 1e-9)
	}
	{ // non-negative over the rotor for any admissible induction
		for _, a := range []float64{0, 0.1, 0.33, 0.6, 0.9} {
			for r := 0.; r <= R; r += R / 50 {
				assert.True(t, Thrust(r, R, a) >= 0)
			}
		}
	}
}

func testDomain(t *testing.T) *domain.Domain {
	d, err := domain.NewDomain(domain.Rectangle,
		[2]float64{-500, 500}, [2]float64{-500, 500}, [2]float64{}, 21, 21, 0, 0)
	assert.NoError(t, err)
	return d
}

func TestForce(t *testing.T) {
	var (
		dom = testDomain(t)
		np  = dom.Np()
		u   = make([]float64, 2*np)
	)
	for i := 0; i < np; i++ {
		u[i] = 8 // uniform +x wind
	}
	{ // no turbines, no force
		f, err := NewFarm(nil)
		assert.NoError(t, err)
		tf := f.Force(dom, u, 0)
		for _, v := range tf {
			assert.Equal(t, 0., v)
		}
	}
	{ // an unyawed turbine pushes straight downwind
		f, err := NewFarm([]Turbine{testTurbine()})
		assert.NoError(t, err)
		tf := f.Force(dom, u, 0)
		var sumX, sumY float64
		for i := 0; i < np; i++ {
			assert.True(t, tf[i] <= 0)
			sumX += tf[i]
			sumY += tf[np+i]
		}
		assert.True(t, sumX < 0)
		assert.InDelta(t, 0, sumY, 1e-20)
	}
	{ // far from every rotor the profiles are truncated to exactly zero
		f, err := NewFarm([]Turbine{testTurbine()})
		assert.NoError(t, err)
		tf := f.Force(dom, u, 0)
		corner := dom.Index(0, 0, 0)
		assert.Equal(t, 0., tf[corner])
		assert.Equal(t, 0., tf[np+corner])
	}
}

func TestForceCoefficient(t *testing.T) {
	var (
		dom = testDomain(t)
		np  = dom.Np()
	)
	f, err := NewFarm([]Turbine{testTurbine()})
	assert.NoError(t, err)
	{ // the fused form reproduces the sampled force
		u := make([]float64, 2*np)
		for i := 0; i < np; i++ {
			u[i] = 8
		}
		s, ex, ey := f.ForceCoefficient(dom, 0)
		tf := f.Force(dom, u, 0)
		for i := 0; i < np; i++ {
			assert.InDelta(t, tf[i], -s[i]*64*ex[i], 1e-9)
			assert.InDelta(t, tf[np+i], -s[i]*64*ey[i], 1e-9)
		}
	}
}

func TestPower(t *testing.T) {
	var (
		dom = testDomain(t)
		np  = dom.Np()
		u   = make([]float64, 2*np)
	)
	for i := 0; i < np; i++ {
		u[i] = 8
	}
	{
		f, err := NewFarm(nil)
		assert.NoError(t, err)
		assert.Equal(t, 0., f.Power(dom, u, 0))
	}
	{ // the functional is negative for a turbine facing the wind
		f, err := NewFarm([]Turbine{testTurbine()})
		assert.NoError(t, err)
		assert.True(t, f.Power(dom, u, 0) < 0)
	}
}
