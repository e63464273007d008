package sim

import (
	"github.com/andewx/flipsim/grid"
	"github.com/andewx/flipsim/solver"
	"github.com/andewx/flipsim/utils"
)

// Sub-cell ghost-pressure clamps from original_source/src/sim/flip.cpp's
// subtractPressureGradient: glm::min(1.0e-3f, L) / glm::min(1.0e-6f, L).
// Kept literal per the resolution recorded in SPEC_FULL.md §4.4/DESIGN.md.
// The L passed to min is the fluid-side level set, which is negative
// whenever the ghost substitution runs, so min always returns that L: these
// constants never bound the ghost-pressure ratio L_air/L_fluid.
const (
	subcellNearClampX = 1.0e-3
	subcellNearClampY = 1.0e-6
)

// cellNeighbor is one of the six axis-aligned directions from a fluid cell.
type cellNeighbor struct{ di, dj, dk int }

var cellNeighbors6 = [6]cellNeighbor{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// ComputeDivergence computes per-cell divergence D(c) — spec.md §4.4 step 1.
func ComputeDivergence(mg *MACGrid) {
	x, y, z := mg.A.Dims.X, mg.A.Dims.Y, mg.A.Dims.Z
	maxd := float64(x)
	if y > x {
		maxd = float64(y)
	}
	if z > x && z > y {
		maxd = float64(z)
	}
	h := 1.0 / maxd

	parallelRange(x, func(i int) {
		for j := 0; j < y; j++ {
			for k := 0; k < z; k++ {
				div := (mg.Ux.At(i+1, j, k) - mg.Ux.At(i, j, k) +
					mg.Uy.At(i, j+1, k) - mg.Uy.At(i, j, k) +
					mg.Uz.At(i, j, k+1) - mg.Uz.At(i, j, k)) / h
				mg.D.Set(i, j, k, div)
			}
		}
	})
}

// Project solves the pressure Poisson system and subtracts its gradient
// from the MAC velocity faces — spec.md §4.4 steps 1-5, ported from
// flip.cpp's project()/subtractPressureGradient().
func Project(pg *ParticleGrid, particles []*Particle, mg *MACGrid, params Params, log *utils.Logger) {
	ComputeDivergence(mg)
	pg.BuildSDF(particles, mg.L, params.Density)

	x, y, z := mg.A.Dims.X, mg.A.Dims.Y, mg.A.Dims.Z

	index := grid.NewInt(grid.Dims{X: x, Y: y, Z: z})
	index.Fill(-1)
	var fluidCells [][3]int
	for i := 0; i < x; i++ {
		for j := 0; j < y; j++ {
			for k := 0; k < z; k++ {
				if CellType(mg.A.At(i, j, k)) == CellFluid {
					index.Set(i, j, k, len(fluidCells))
					fluidCells = append(fluidCells, [3]int{i, j, k})
				}
			}
		}
	}

	n := len(fluidCells)
	if n == 0 {
		return
	}

	// subtractPressureGradient adds (A·P)/h² to each fluid cell's
	// divergence, so A·P = -D·h² leaves the corrected field divergence-free.
	h := 1.0 / velocityMaxDim(mg)
	b := make([]float64, n)
	diag := make([]float64, n)
	for m, c := range fluidCells {
		b[m] = -mg.D.At(c[0], c[1], c[2]) * h * h
	}

	type offDiag struct {
		to    int
		coeff float64
	}
	offDiags := make([][]offDiag, n)

	for m, c := range fluidCells {
		i, j, k := c[0], c[1], c[2]
		d := 0.0
		for _, nb := range cellNeighbors6 {
			ni, nj, nk := i+nb.di, j+nb.dj, k+nb.dk
			if ni < 0 || ni >= x || nj < 0 || nj >= y || nk < 0 || nk >= z {
				continue
			}
			switch CellType(mg.A.At(ni, nj, nk)) {
			case CellSolid:
				// Neumann: term removed entirely, no diagonal contribution.
			case CellFluid:
				d += 1
				offDiags[m] = append(offDiags[m], offDiag{to: index.At(ni, nj, nk), coeff: -1})
			default: // CellAir
				if params.SubCell && mg.L.At(i, j, k)*mg.L.At(ni, nj, nk) < 0 {
					theta := subCellTheta(mg.L.At(i, j, k), mg.L.At(ni, nj, nk))
					d += 1 / theta
				} else {
					d += 1
				}
			}
		}
		diag[m] = d
	}

	apply := func(dst, xv []float64) {
		for m := range dst {
			dst[m] = diag[m] * xv[m]
			for _, od := range offDiags[m] {
				dst[m] += od.coeff * xv[od.to]
			}
		}
	}

	x0 := make([]float64, n)
	for m, c := range fluidCells {
		x0[m] = mg.P.At(c[0], c[1], c[2])
	}

	cg := solver.ConjugateGradient{Tolerance: params.CGTolerance, MaxIterations: params.CGMaxIterations}
	result := cg.Solve(apply, diag, b, x0)
	if !result.Converged && log != nil {
		log.Warn("pressure CG did not converge after %d iterations (residual %g)", result.Iterations, result.Residual)
	}

	mg.P.Fill(0)
	for m, c := range fluidCells {
		mg.P.Set(c[0], c[1], c[2], x0[m])
	}

	subtractPressureGradient(mg, params.SubCell)
}

// subCellTheta computes the level-set interpolation fraction θ =
// L_fluid / (L_fluid - L_air), clamped into [θ_min, 1].
func subCellTheta(lFluid, lAir float64) float64 {
	const thetaMin = 0.01
	denom := lFluid - lAir
	if denom == 0 {
		return thetaMin
	}
	theta := lFluid / denom
	if theta < thetaMin {
		return thetaMin
	}
	if theta > 1 {
		return 1
	}
	return theta
}

// subtractPressureGradient applies `u_face -= (P_B - P_A)/h` on every
// interior face between two non-SOLID cells, with the sub-cell
// ghost-pressure rule when L changes sign across the face — ported from
// flip.cpp::subtractPressureGradient, including the literal
// subcellNearClampX/Y min() operands. Faces touching a SOLID cell are left
// unchanged, matching the Neumann treatment in Project's matrix.
func subtractPressureGradient(mg *MACGrid, subcell bool) {
	x, y, z := mg.A.Dims.X, mg.A.Dims.Y, mg.A.Dims.Z
	maxd := float64(x)
	if y > x {
		maxd = float64(y)
	}
	if z > x && z > y {
		maxd = float64(z)
	}
	h := 1.0 / maxd

	parallelRange(x+1, func(i int) {
		for j := 0; j < y; j++ {
			for k := 0; k < z; k++ {
				if i > 0 && i < x && !touchesSolid(mg, i-1, j, k, i, j, k) {
					pf, pb := subcellPressurePair(mg, i, j, k, i-1, j, k, subcell)
					v := mg.Ux.At(i, j, k) - (pf-pb)/h
					mg.Ux.Set(i, j, k, v)
				}
			}
		}
	})

	parallelRange(x, func(i int) {
		for j := 0; j < y+1; j++ {
			for k := 0; k < z; k++ {
				if j > 0 && j < y && !touchesSolid(mg, i, j-1, k, i, j, k) {
					pf, pb := subcellPressurePair(mg, i, j, k, i, j-1, k, subcell)
					v := mg.Uy.At(i, j, k) - (pf-pb)/h
					mg.Uy.Set(i, j, k, v)
				}
			}
		}
	})

	parallelRange(x, func(i int) {
		for j := 0; j < y; j++ {
			for k := 0; k < z+1; k++ {
				if k > 0 && k < z && !touchesSolid(mg, i, j, k-1, i, j, k) {
					pf, pb := subcellPressurePair(mg, i, j, k, i, j, k-1, subcell)
					v := mg.Uz.At(i, j, k) - (pf-pb)/h
					mg.Uz.Set(i, j, k, v)
				}
			}
		}
	})
}

// subcellPressurePair returns the (front, back) pressure values used in
// the gradient subtraction across the face between cell f and cell b,
// substituting the sub-cell ghost pressure when L changes sign across
// the face.
func subcellPressurePair(mg *MACGrid, fi, fj, fk, bi, bj, bk int, subcell bool) (float64, float64) {
	pf := mg.P.At(fi, fj, fk)
	pb := mg.P.At(bi, bj, bk)

	lf := mg.L.At(fi, fj, fk)
	lb := mg.L.At(bi, bj, bk)

	if subcell && lf*lb < 0 {
		if lf < 0 {
			pf = mg.P.At(fi, fj, fk)
		} else {
			pf = lf / min(subcellNearClampX, lb) * mg.P.At(bi, bj, bk)
		}
		if lb < 0 {
			pb = mg.P.At(bi, bj, bk)
		} else {
			pb = lb / min(subcellNearClampY, lf) * mg.P.At(fi, fj, fk)
		}
	}
	return pf, pb
}
