package farm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func testTurbine() Turbine {
	return Turbine{
		HubHeight: 90,
		Diameter:  126,
		Thickness: 10,
		Axial:     0.33,
	}
}

func TestRotationMatrix(t *testing.T) {
	{ // zero yaw is the identity
		R := RotationMatrix(0, 2)
		assert.InDelta(t, 0, mat.Norm(identityDiff(R), 2), 1e-14)
	}
	{ // orthogonality: R * Rt = I for both dimensions
		for _, dim := range []int{2, 3} {
			R := RotationMatrix(0.7, dim)
			var P mat.Dense
			P.Mul(R, R.T())
			assert.InDelta(t, 0, mat.Norm(identityDiff(&P), 2), 1e-14)
		}
	}
	{ // rotating the x axis by yaw lands on (cos, sin)
		R := RotationMatrix(0.5, 3)
		var v mat.VecDense
		v.MulVec(R, mat.NewVecDense(3, []float64{1, 0, 0}))
		assert.InDelta(t, 0.877582561890373, v.AtVec(0), 1e-14)
		assert.InDelta(t, 0.479425538604203, v.AtVec(1), 1e-14)
		assert.InDelta(t, 0, v.AtVec(2), 1e-14)
	}
}

func identityDiff(A mat.Matrix) *mat.Dense {
	n, _ := A.Dims()
	D := mat.DenseCopyOf(A)
	for i := 0; i < n; i++ {
		D.Set(i, i, D.At(i, i)-1)
	}
	return D
}

func TestGridFarm(t *testing.T) {
	f, err := NewGridFarm(2, 3, [2]float64{-600, 600}, [2]float64{-300, 300}, testTurbine())
	assert.NoError(t, err)
	{
		assert.Equal(t, 6, f.NumTurbines())
		assert.Equal(t, -600., f.Turbines[0].X)
		assert.Equal(t, -300., f.Turbines[0].Y)
		assert.Equal(t, 0., f.Turbines[1].X)
		assert.Equal(t, 600., f.Turbines[5].X)
		assert.Equal(t, 300., f.Turbines[5].Y)
		assert.Equal(t, 90., f.Turbines[0].Z)
	}
	{ // single row or column centers on the extent
		f, err := NewGridFarm(1, 1, [2]float64{-600, 600}, [2]float64{-300, 100}, testTurbine())
		assert.NoError(t, err)
		assert.Equal(t, 0., f.Turbines[0].X)
		assert.Equal(t, -100., f.Turbines[0].Y)
	}
	{
		_, err := NewGridFarm(0, 3, [2]float64{-1, 1}, [2]float64{-1, 1}, testTurbine())
		assert.Error(t, err)
	}
}

func TestFarmValidation(t *testing.T) {
	{
		tb := testTurbine()
		tb.Diameter = 0
		_, err := NewFarm([]Turbine{tb})
		assert.Error(t, err)
	}
	{
		tb := testTurbine()
		tb.Axial = 1
		_, err := NewFarm([]Turbine{tb})
		assert.Error(t, err)
	}
	{
		f, err := NewFarm(nil)
		assert.NoError(t, err)
		assert.Equal(t, 0, f.NumTurbines())
	}
}

func TestYawed(t *testing.T) {
	tb := testTurbine()
	tb.Yaw = 0.005
	f, err := NewFarm([]Turbine{tb})
	assert.NoError(t, err)
	{ // below the small-yaw threshold
		assert.False(t, f.Yawed(0))
	}
	{ // the sweep offset pushes it over
		assert.True(t, f.Yawed(0.1))
	}
	{
		assert.Equal(t, []float64{0.005}, f.Yaws())
	}
}

func TestRotorCenters(t *testing.T) {
	{ // two rotors hinge symmetrically about the platform center
		tb := testTurbine()
		tb.NumRotors = 2
		tb.HingeOffset = 80
		centers := rotorCenters(tb, 0)
		assert.Equal(t, 2, len(centers))
		assert.InDelta(t, -40, centers[0][1], 1e-12)
		assert.InDelta(t, 40, centers[1][1], 1e-12)
		assert.InDelta(t, 0, centers[0][0], 1e-12)
	}
	{ // a single rotor sits at the hub
		centers := rotorCenters(testTurbine(), 0.3)
		assert.Equal(t, 1, len(centers))
		assert.Equal(t, 0., centers[0][0])
		assert.Equal(t, 0., centers[0][1])
	}
}
