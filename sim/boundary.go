package sim

import "github.com/andewx/flipsim/grid"

// EnforceBoundaryVelocity zeroes the normal velocity component at faces
// adjacent to a SOLID cell, and tangential faces on the domain shell —
// spec.md §4.6 step 10/12.
func EnforceBoundaryVelocity(mg *MACGrid) {
	x, y, z := mg.A.Dims.X, mg.A.Dims.Y, mg.A.Dims.Z

	parallelRange(x+1, func(i int) {
		for j := 0; j < y; j++ {
			for k := 0; k < z; k++ {
				if touchesSolid(mg, i-1, j, k, i, j, k) {
					mg.Ux.Set(i, j, k, 0)
				}
			}
		}
	})
	parallelRange(x, func(i int) {
		for j := 0; j < y+1; j++ {
			for k := 0; k < z; k++ {
				if touchesSolid(mg, i, j-1, k, i, j, k) {
					mg.Uy.Set(i, j, k, 0)
				}
			}
		}
	})
	parallelRange(x, func(i int) {
		for j := 0; j < y; j++ {
			for k := 0; k < z+1; k++ {
				if touchesSolid(mg, i, j, k-1, i, j, k) {
					mg.Uz.Set(i, j, k, 0)
				}
			}
		}
	})
}

func touchesSolid(mg *MACGrid, ai, aj, ak, bi, bj, bk int) bool {
	x, y, z := mg.A.Dims.X, mg.A.Dims.Y, mg.A.Dims.Z
	aSolid := ai < 0 || ai >= x || aj < 0 || aj >= y || ak < 0 || ak >= z || CellType(mg.A.At(ai, aj, ak)) == CellSolid
	bSolid := bi < 0 || bi >= x || bj < 0 || bj >= y || bk < 0 || bk >= z || CellType(mg.A.At(bi, bj, bk)) == CellSolid
	return aSolid || bSolid
}

// StorePreviousGrid deep-copies mg's velocity faces into prev — spec.md
// §4.6 step 9.
func StorePreviousGrid(mg, prev *MACGrid) {
	prev.Ux.CopyFrom(mg.Ux)
	prev.Uy.CopyFrom(mg.Uy)
	prev.Uz.CopyFrom(mg.Uz)
}

// SubtractPreviousGrid sets prev.U* = mg.U* - prev.U*, the PIC-to-FLIP
// velocity delta — spec.md §4.6 step 14.
func SubtractPreviousGrid(mg, prev *MACGrid) {
	subtractFace(prev.Ux, mg.Ux)
	subtractFace(prev.Uy, mg.Uy)
	subtractFace(prev.Uz, mg.Uz)
}

func subtractFace(prev, cur *grid.Scalar) {
	for i := range prev.Data {
		prev.Data[i] = cur.Data[i] - prev.Data[i]
	}
}
