package sim

import "github.com/andewx/flipsim/grid"

// ExtrapolateVelocity extends face velocities one cell into the AIR band
// so staggered interpolation near the free surface is well-defined —
// spec.md §4.5, ported from flip.cpp::extrapolateVelocity. A single sweep
// is sufficient for the one-cell band the spec calls for (P-Idempotent
// extrapolate: running it twice is a no-op after the first pass).
func ExtrapolateVelocity(mg *MACGrid) {
	x, y, z := mg.A.Dims.X, mg.A.Dims.Y, mg.A.Dims.Z

	valid := [3]*grid.Int{
		grid.NewInt(grid.Dims{X: x + 1, Y: y, Z: z}),
		grid.NewInt(grid.Dims{X: x, Y: y + 1, Z: z}),
		grid.NewInt(grid.Dims{X: x, Y: y, Z: z + 1}),
	}
	wall := [3]*grid.Int{
		grid.NewInt(grid.Dims{X: x + 1, Y: y, Z: z}),
		grid.NewInt(grid.Dims{X: x, Y: y + 1, Z: z}),
		grid.NewInt(grid.Dims{X: x, Y: y, Z: z + 1}),
	}

	parallelRange(x+1, func(i int) {
		for j := 0; j < y; j++ {
			for k := 0; k < z; k++ {
				v := 0
				if (i > 0 && CellType(mg.A.At(i-1, j, k)) == CellFluid) ||
					(i < x && CellType(mg.A.At(i, j, k)) == CellFluid) {
					v = 1
				}
				valid[0].Set(i, j, k, v)

				w := 0
				if (i <= 0 || CellType(mg.A.At(i-1, j, k)) == CellSolid) &&
					(i >= x || CellType(mg.A.At(i, j, k)) == CellSolid) {
					w = 1
				}
				wall[0].Set(i, j, k, w)
			}
		}
	})
	parallelRange(x, func(i int) {
		for j := 0; j < y+1; j++ {
			for k := 0; k < z; k++ {
				v := 0
				if (j > 0 && CellType(mg.A.At(i, j-1, k)) == CellFluid) ||
					(j < y && CellType(mg.A.At(i, j, k)) == CellFluid) {
					v = 1
				}
				valid[1].Set(i, j, k, v)

				w := 0
				if (j <= 0 || CellType(mg.A.At(i, j-1, k)) == CellSolid) &&
					(j >= y || CellType(mg.A.At(i, j, k)) == CellSolid) {
					w = 1
				}
				wall[1].Set(i, j, k, w)
			}
		}
	})
	parallelRange(x, func(i int) {
		for j := 0; j < y; j++ {
			for k := 0; k < z+1; k++ {
				v := 0
				if (k > 0 && CellType(mg.A.At(i, j, k-1)) == CellFluid) ||
					(k < z && CellType(mg.A.At(i, j, k)) == CellFluid) {
					v = 1
				}
				valid[2].Set(i, j, k, v)

				w := 0
				if (k <= 0 || CellType(mg.A.At(i, j, k-1)) == CellSolid) &&
					(k >= z || CellType(mg.A.At(i, j, k)) == CellSolid) {
					w = 1
				}
				wall[2].Set(i, j, k, w)
			}
		}
	})

	faces := [3]*grid.Scalar{mg.Ux, mg.Uy, mg.Uz}

	parallelRange(x+1, func(i int) {
		for j := 0; j <= y; j++ {
			for k := 0; k <= z; k++ {
				for axis := 0; axis < 3; axis++ {
					if axis != 0 && i > x-1 {
						continue
					}
					if axis != 1 && j > y-1 {
						continue
					}
					if axis != 2 && k > z-1 {
						continue
					}
					if valid[axis].At(i, j, k) != 0 || wall[axis].At(i, j, k) != 0 {
						continue
					}

					type nbr struct{ i, j, k int }
					candidates := [6]nbr{
						{i - 1, j, k}, {i + 1, j, k},
						{i, j - 1, k}, {i, j + 1, k},
						{i, j, k - 1}, {i, j, k + 1},
					}

					limX, limY, limZ := x, y, z
					if axis == 0 {
						limX++
					}
					if axis == 1 {
						limY++
					}
					if axis == 2 {
						limZ++
					}

					wsum := 0
					sum := 0.0
					for _, c := range candidates {
						if c.i < 0 || c.i >= limX || c.j < 0 || c.j >= limY || c.k < 0 || c.k >= limZ {
							continue
						}
						if valid[axis].At(c.i, c.j, c.k) != 0 {
							wsum++
							sum += faces[axis].At(c.i, c.j, c.k)
						}
					}
					if wsum > 0 {
						faces[axis].Set(i, j, k, sum/float64(wsum))
					}
				}
			}
		}
	})
}
