// Package solver implements the pressure solver's external contract
// (spec.md §4.4: "specified only by its contract") with one concrete
// implementation — a matrix-free, Jacobi-preconditioned conjugate
// gradient — since the original's solver.inl was not part of the
// retrieved source (only flip.cpp, datastructures.hpp, viewer.cpp were
// pulled into original_source/).
package solver

import "gonum.org/v1/gonum/floats"

// Apply computes A*x for the matrix-free linear operator A, writing into a
// caller-supplied destination slice.
type Apply func(dst, x []float64)

// ConjugateGradient is a Jacobi-preconditioned CG solver with a tolerance/
// iteration-count contract matching spec.md §4.4 step 4 and §6's
// enumerated defaults (1e-4 tolerance, 200 max iterations).
type ConjugateGradient struct {
	Tolerance     float64
	MaxIterations int
}

// NewConjugateGradient builds a solver with the spec's default contract.
func NewConjugateGradient() *ConjugateGradient {
	return &ConjugateGradient{Tolerance: 1e-4, MaxIterations: 200}
}

// Result reports what the solve actually achieved, so the caller (sim's
// pressure projection) can log a warning on non-convergence without
// treating it as fatal — spec.md §4.4 "Failure mode".
type Result struct {
	Iterations int
	Converged  bool
	Residual   float64
}

// Solve finds x such that apply(x) ~= b, using diag as the Jacobi
// preconditioner's diagonal (pass nil to disable preconditioning). x is
// used as the initial guess and overwritten with the solution in place.
func (cg *ConjugateGradient) Solve(apply Apply, diag, b, x []float64) Result {
	n := len(b)
	if n == 0 {
		return Result{Converged: true}
	}

	r := make([]float64, n)
	ax := make([]float64, n)
	apply(ax, x)
	for i := range r {
		r[i] = b[i] - ax[i]
	}

	bNorm := floats.Norm(b, 2)
	if bNorm == 0 {
		bNorm = 1
	}
	if floats.Norm(r, 2)/bNorm < cg.Tolerance {
		return Result{Converged: true, Residual: floats.Norm(r, 2) / bNorm}
	}

	z := make([]float64, n)
	precondition(z, r, diag)
	p := make([]float64, n)
	copy(p, z)

	rz := floats.Dot(r, z)
	ap := make([]float64, n)

	iterations := 0
	for ; iterations < cg.MaxIterations; iterations++ {
		apply(ap, p)
		denom := floats.Dot(p, ap)
		if denom == 0 {
			break
		}
		alpha := rz / denom

		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)

		resNorm := floats.Norm(r, 2) / bNorm
		if resNorm < cg.Tolerance {
			return Result{Iterations: iterations + 1, Converged: true, Residual: resNorm}
		}

		precondition(z, r, diag)
		rzNew := floats.Dot(r, z)
		beta := rzNew / rz
		rz = rzNew

		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
	}

	return Result{
		Iterations: iterations,
		Converged:  false,
		Residual:   floats.Norm(r, 2) / bNorm,
	}
}

// precondition applies the Jacobi (diagonal) preconditioner: z = r / diag,
// element-wise, or z = r (identity) when diag is nil.
func precondition(z, r, diag []float64) {
	if diag == nil {
		copy(z, r)
		return
	}
	for i := range r {
		d := diag[i]
		if d == 0 {
			z[i] = r[i]
		} else {
			z[i] = r[i] / d
		}
	}
}
