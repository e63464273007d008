package sim

import (
	"github.com/andewx/flipsim/grid"
	"github.com/andewx/flipsim/vector"
)

// MACGrid is the staggered grid bundle of spec.md §2 item 2: face-centered
// velocity components plus cell-centered scalars. mgridPrev mirrors only
// the velocity faces (storePreviousGrid/subtractPreviousGrid operate on a
// second instance of this same type, using only its Ux/Uy/Uz fields).
type MACGrid struct {
	Ux *grid.Scalar // (X+1, Y, Z)
	Uy *grid.Scalar // (X, Y+1, Z)
	Uz *grid.Scalar // (X, Y, Z+1)

	A *grid.Int    // cell type
	P *grid.Scalar // pressure
	D *grid.Scalar // divergence
	L *grid.Scalar // liquid level set
}

// NewMACGrid allocates a zero-filled bundle sized for an (x,y,z) cell
// domain, following the teacher's voxel.go dense-array allocation idiom.
func NewMACGrid(x, y, z int) *MACGrid {
	return &MACGrid{
		Ux: grid.NewScalar(grid.Dims{X: x + 1, Y: y, Z: z}),
		Uy: grid.NewScalar(grid.Dims{X: x, Y: y + 1, Z: z}),
		Uz: grid.NewScalar(grid.Dims{X: x, Y: y, Z: z + 1}),
		A:  grid.NewInt(grid.Dims{X: x, Y: y, Z: z}),
		P:  grid.NewScalar(grid.Dims{X: x, Y: y, Z: z}),
		D:  grid.NewScalar(grid.Dims{X: x, Y: y, Z: z}),
		L:  grid.NewScalar(grid.Dims{X: x, Y: y, Z: z}),
	}
}

// velocityOffset returns the staggered sampling offset for axis n
// (0=x,1=y,2=z), matching spec.md §4.1: (0,½,½), (½,0,½), (½,½,0).
func velocityOffset(axis int) vector.Vec3 {
	switch axis {
	case 0:
		return vector.Vec3{0, 0.5, 0.5}
	case 1:
		return vector.Vec3{0.5, 0, 0.5}
	default:
		return vector.Vec3{0.5, 0.5, 0}
	}
}
