package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// diagonalApply builds a matrix-free Apply for a diagonal matrix, the
// simplest case where CG should converge in a single iteration per
// distinct eigenvalue.
func diagonalApply(diag []float64) Apply {
	return func(dst, x []float64) {
		for i := range x {
			dst[i] = diag[i] * x[i]
		}
	}
}

func TestConjugateGradientSolvesDiagonalSystem(t *testing.T) {
	diag := []float64{4, 9, 16}
	b := []float64{8, 18, 32} // x should be {2, 2, 2}
	x := make([]float64, 3)

	cg := NewConjugateGradient()
	res := cg.Solve(diagonalApply(diag), diag, b, x)

	assert.True(t, res.Converged, "expected convergence on an easy diagonal system")
	for i, want := range []float64{2, 2, 2} {
		assert.InDelta(t, want, x[i], 1e-3)
	}
}

func TestConjugateGradientReportsNonConvergence(t *testing.T) {
	diag := []float64{4, 9, 16}
	b := []float64{8, 18, 32}
	x := make([]float64, 3)

	// Unpreconditioned: a Jacobi preconditioner turns a diagonal system into
	// the identity and solves it exactly in one iteration, whereas plain CG
	// needs one iteration per distinct eigenvalue (three here).
	cg := &ConjugateGradient{Tolerance: 1e-12, MaxIterations: 1}
	res := cg.Solve(diagonalApply(diag), nil, b, x)

	assert.False(t, res.Converged, "one iteration should not be enough for this tolerance")
	assert.Equal(t, 1, res.Iterations)
}

func TestConjugateGradientEmptySystem(t *testing.T) {
	cg := NewConjugateGradient()
	res := cg.Solve(func(dst, x []float64) {}, nil, nil, nil)
	assert.True(t, res.Converged)
}
