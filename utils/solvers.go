package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SolveDirect solves A*x = b with a dense LU factorization. The steady
// problems produce moderate saddle-point systems where a direct solve is the
// robust choice (the reference configuration uses a direct method as well).
func SolveDirect(A mat.Matrix, b []float64) (x []float64, err error) {
	var (
		lu mat.LU
		n  = len(b)
	)
	nr, nc := A.Dims()
	if nr != nc || nr != n {
		return nil, fmt.Errorf("direct solve needs a square %dx%d system, have %dx%d", n, n, nr, nc)
	}
	lu.Factorize(A)
	xV := mat.NewVecDense(n, nil)
	if err = lu.SolveVecTo(xV, false, mat.NewVecDense(n, b)); err != nil {
		return nil, fmt.Errorf("dense LU solve failed: %w", err)
	}
	x = xV.RawVector().Data
	return
}

// SolveCG runs unpreconditioned conjugate gradients on a symmetric positive
// definite system, iterating CSR matrix-vector products. Used for the
// pressure Poisson step.
func SolveCG(A CSR, b, x []float64, tol float64, maxIter int) (iters int, converged bool) {
	var (
		n  = len(b)
		r  = make([]float64, n)
		p  = make([]float64, n)
		ap = make([]float64, n)
	)
	A.MulVec(x, r)
	for i := range r {
		r[i] = b[i] - r[i]
	}
	copy(p, r)
	rsold := floats.Dot(r, r)
	bnorm := math.Sqrt(floats.Dot(b, b))
	if bnorm == 0 {
		bnorm = 1
	}
	for iters = 0; iters < maxIter; iters++ {
		if math.Sqrt(rsold)/bnorm < tol {
			converged = true
			return
		}
		A.MulVec(p, ap)
		pap := floats.Dot(p, ap)
		if pap == 0 {
			return
		}
		alpha := rsold / pap
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)
		rsnew := floats.Dot(r, r)
		beta := rsnew / rsold
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rsold = rsnew
	}
	converged = math.Sqrt(rsold)/bnorm < tol
	return
}

// SolveBiCGSTAB runs unpreconditioned BiCGSTAB for the nonsymmetric
// advection-diffusion systems of the fractional-step scheme.
func SolveBiCGSTAB(A CSR, b, x []float64, tol float64, maxIter int) (iters int, converged bool) {
	var (
		n    = len(b)
		r    = make([]float64, n)
		rhat = make([]float64, n)
		v    = make([]float64, n)
		p    = make([]float64, n)
		s    = make([]float64, n)
		t    = make([]float64, n)
	)
	A.MulVec(x, r)
	for i := range r {
		r[i] = b[i] - r[i]
	}
	copy(rhat, r)
	bnorm := math.Sqrt(floats.Dot(b, b))
	if bnorm == 0 {
		bnorm = 1
	}
	var (
		rho, rhoPrev = 1., 1.
		alpha, omega = 1., 1.
	)
	for iters = 0; iters < maxIter; iters++ {
		if math.Sqrt(floats.Dot(r, r))/bnorm < tol {
			converged = true
			return
		}
		rho = floats.Dot(rhat, r)
		if rho == 0 {
			return
		}
		if iters == 0 {
			copy(p, r)
		} else {
			beta := (rho / rhoPrev) * (alpha / omega)
			for i := range p {
				p[i] = r[i] + beta*(p[i]-omega*v[i])
			}
		}
		A.MulVec(p, v)
		rhatv := floats.Dot(rhat, v)
		if rhatv == 0 {
			return
		}
		alpha = rho / rhatv
		for i := range s {
			s[i] = r[i] - alpha*v[i]
		}
		if math.Sqrt(floats.Dot(s, s))/bnorm < tol {
			floats.AddScaled(x, alpha, p)
			converged = true
			iters++
			return
		}
		A.MulVec(s, t)
		tt := floats.Dot(t, t)
		if tt == 0 {
			return
		}
		omega = floats.Dot(t, s) / tt
		for i := range x {
			x[i] += alpha*p[i] + omega*s[i]
		}
		for i := range r {
			r[i] = s[i] - omega*t[i]
		}
		rhoPrev = rho
	}
	converged = math.Sqrt(floats.Dot(r, r))/bnorm < tol
	return
}
