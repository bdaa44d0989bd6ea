package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestSolveDirect(t *testing.T) {
	{
		A := mat.NewDense(2, 2, []float64{2, 1, 1, 3})
		x, err := SolveDirect(A, []float64{3, 5})
		assert.NoError(t, err)
		assert.InDelta(t, 0.8, x[0], 1e-12)
		assert.InDelta(t, 1.4, x[1], 1e-12)
	}
	{ // dimension mismatch is a caller error
		A := mat.NewDense(2, 2, []float64{2, 1, 1, 3})
		_, err := SolveDirect(A, []float64{1, 2, 3})
		assert.Error(t, err)
	}
}

// laplacian1D assembles the SPD tridiagonal -u'' operator with Dirichlet
// ends folded in.
func laplacian1D(n int) DOK {
	A := NewDOK(n, n)
	for i := 0; i < n; i++ {
		A.Add(i, i, 2)
		if i > 0 {
			A.Add(i, i-1, -1)
		}
		if i < n-1 {
			A.Add(i, i+1, -1)
		}
	}
	return A
}

func TestIterativeSolvers(t *testing.T) {
	var (
		n = 20
		b = ConstArray(n, 1)
	)
	{ // CG on the SPD Poisson system
		A := laplacian1D(n).ToCSR()
		x := make([]float64, n)
		iters, ok := SolveCG(A, b, x, 1e-10, 200)
		assert.True(t, ok)
		assert.True(t, iters <= n+1)
		r := make([]float64, n)
		A.MulVec(x, r)
		for i := range r {
			r[i] -= b[i]
		}
		assert.InDelta(t, 0, Norm2(r), 1e-8)
	}
	{ // BiCGSTAB on the same system plus a nonsymmetric advection part
		D := laplacian1D(n)
		for i := 1; i < n-1; i++ {
			D.Add(i, i+1, 0.3)
			D.Add(i, i-1, -0.3)
		}
		A := D.ToCSR()
		x := make([]float64, n)
		_, ok := SolveBiCGSTAB(A, b, x, 1e-10, 400)
		assert.True(t, ok)
		r := make([]float64, n)
		A.MulVec(x, r)
		for i := range r {
			r[i] -= b[i]
		}
		assert.InDelta(t, 0, Norm2(r), 1e-8)
	}
}

func TestDOK(t *testing.T) {
	{ // Add accumulates, Set overwrites
		A := NewDOK(3, 3)
		A.Add(0, 1, 2)
		A.Add(0, 1, 3)
		assert.Equal(t, 5., A.At(0, 1))
		A.Set(0, 1, 1)
		assert.Equal(t, 1., A.At(0, 1))
	}
	{ // frozen CSR reproduces the assembled product
		A := NewDOK(2, 3)
		A.Add(0, 0, 1)
		A.Add(0, 2, 2)
		A.Add(1, 1, 3)
		out := make([]float64, 2)
		A.ToCSR().MulVec([]float64{1, 2, 3}, out)
		assert.Equal(t, []float64{7, 6}, out)
	}
}
