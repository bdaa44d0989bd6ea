package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK wraps a dictionary-of-keys sparse matrix used during system assembly.
// Operators accumulate into it with Add, then the finished system is frozen
// into CSR form for the solve.
type DOK struct {
	M *sparse.DOK
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		M: sparse.NewDOK(nr, nc),
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

// Add accumulates val into entry (i,j) rather than setting it, so multiple
// operators can contribute to the same stencil location.
func (m DOK) Add(i, j int, val float64) {
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m DOK) Set(i, j int, val float64) {
	m.M.Set(i, j, val)
}

func (m DOK) ToCSR() CSR {
	return CSR{M: m.M.ToCSR()}
}

// CSR is the frozen, solve-ready form of an assembled system matrix.
type CSR struct {
	M *sparse.CSR
}

func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }

// MulVec computes out = A*x on raw slices.
func (m CSR) MulVec(x, out []float64) {
	nr, nc := m.M.Dims()
	if len(x) != nc || len(out) != nr {
		panic(fmt.Errorf("dimension mismatch: matrix is %dx%d, x is %d, out is %d",
			nr, nc, len(x), len(out)))
	}
	sparse.MulMatRawVec(m.M, x, out)
}
