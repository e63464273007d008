// Package grid implements the dense, cell-centered and face-centered 3D
// grids the FLIP/PIC core is built on: scalar fields (pressure, divergence,
// liquid level set), integer fields (cell type), and vector fields (the
// solid-normal field). Storage is a flat contiguous slice indexed
// i + dx*(j + dy*k), matching the teacher's VoxelArray bucket-array idiom
// generalized from particle buckets to typed grid cells.
package grid

import "github.com/andewx/flipsim/vector"

// Dims describes the integer extent of a grid axis triple.
type Dims struct {
	X, Y, Z int
}

func (d Dims) index(i, j, k int) int {
	return i + d.X*(j+d.Y*k)
}

func (d Dims) clamp(i, j, k int) (int, int, int) {
	if i < 0 {
		i = 0
	} else if i >= d.X {
		i = d.X - 1
	}
	if j < 0 {
		j = 0
	} else if j >= d.Y {
		j = d.Y - 1
	}
	if k < 0 {
		k = 0
	} else if k >= d.Z {
		k = d.Z - 1
	}
	return i, j, k
}

func (d Dims) inBounds(i, j, k int) bool {
	return i >= 0 && i < d.X && j >= 0 && j < d.Y && k >= 0 && k < d.Z
}

// Scalar is a dense scalar field over Dims.
type Scalar struct {
	Dims Dims
	Data []float64
}

// NewScalar allocates a zero-filled scalar field of the given dims.
func NewScalar(d Dims) *Scalar {
	return &Scalar{Dims: d, Data: make([]float64, d.X*d.Y*d.Z)}
}

// At returns the value at (i,j,k), clamping out-of-range indices to the
// nearest valid cell rather than panicking — hot-path reads never throw.
func (g *Scalar) At(i, j, k int) float64 {
	ci, cj, ck := g.Dims.clamp(i, j, k)
	return g.Data[g.Dims.index(ci, cj, ck)]
}

// Set writes the value at (i,j,k); out-of-range writes are silently
// ignored, matching the teacher's clamped-write convention for boundary
// faces.
func (g *Scalar) Set(i, j, k int, v float64) {
	if !g.Dims.inBounds(i, j, k) {
		return
	}
	g.Data[g.Dims.index(i, j, k)] = v
}

// Fill sets every cell to v.
func (g *Scalar) Fill(v float64) {
	for i := range g.Data {
		g.Data[i] = v
	}
}

// CopyFrom overwrites g's data with src's (same dims assumed).
func (g *Scalar) CopyFrom(src *Scalar) {
	copy(g.Data, src.Data)
}

// Sub sets g = g - src element-wise, in place.
func (g *Scalar) Sub(src *Scalar) {
	for i := range g.Data {
		g.Data[i] -= src.Data[i]
	}
}

// Sample trilinearly interpolates the scalar field at a continuous position
// p given in normalized [0,1]^3 simulation coordinates, a resolution
// (1/h, the max grid extent) and a staggered-component offset (0,0,0) for
// cell-centered scalars or (0,½,½)/(½,0,½)/(½,½,0) for the x/y/z MAC faces.
func (g *Scalar) Sample(p vector.Vec3, res float64, offset vector.Vec3) float64 {
	gx := p[0]*res - offset[0]
	gy := p[1]*res - offset[1]
	gz := p[2]*res - offset[2]
	return trilinear(g, gx, gy, gz)
}

func trilinear(g *Scalar, gx, gy, gz float64) float64 {
	i0, fx := floorFrac(gx, g.Dims.X-1)
	j0, fy := floorFrac(gy, g.Dims.Y-1)
	k0, fz := floorFrac(gz, g.Dims.Z-1)

	c000 := g.At(i0, j0, k0)
	c100 := g.At(i0+1, j0, k0)
	c010 := g.At(i0, j0+1, k0)
	c110 := g.At(i0+1, j0+1, k0)
	c001 := g.At(i0, j0, k0+1)
	c101 := g.At(i0+1, j0, k0+1)
	c011 := g.At(i0, j0+1, k0+1)
	c111 := g.At(i0+1, j0+1, k0+1)

	c00 := lerp(c000, c100, fx)
	c10 := lerp(c010, c110, fx)
	c01 := lerp(c001, c101, fx)
	c11 := lerp(c011, c111, fx)

	c0 := lerp(c00, c10, fy)
	c1 := lerp(c01, c11, fy)

	return lerp(c0, c1, fz)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// floorFrac splits x into an integer cell index (clamped to [0,maxIdx]) and
// the fractional offset within that cell.
func floorFrac(x float64, maxIdx int) (int, float64) {
	if maxIdx < 0 {
		maxIdx = 0
	}
	fi := int(x)
	if x < 0 && float64(fi) != x {
		fi--
	}
	f := x - float64(fi)
	if fi < 0 {
		fi = 0
		f = 0
	} else if fi > maxIdx {
		fi = maxIdx
		f = 0
	}
	return fi, f
}

// Int is a dense integer field, used for cell-type classification.
type Int struct {
	Dims Dims
	Data []int
}

func NewInt(d Dims) *Int {
	return &Int{Dims: d, Data: make([]int, d.X*d.Y*d.Z)}
}

func (g *Int) At(i, j, k int) int {
	ci, cj, ck := g.Dims.clamp(i, j, k)
	return g.Data[g.Dims.index(ci, cj, ck)]
}

func (g *Int) Set(i, j, k, v int) {
	if !g.Dims.inBounds(i, j, k) {
		return
	}
	g.Data[g.Dims.index(i, j, k)] = v
}

func (g *Int) Fill(v int) {
	for i := range g.Data {
		g.Data[i] = v
	}
}

// Vector is a dense vector field over Dims, used for scene.BoxScene's
// per-cell solid-normal field (the gradient of the solid level set,
// consumed by wall-particle seeding).
type Vector struct {
	Dims Dims
	Data []vector.Vec3
}

func NewVector(d Dims) *Vector {
	return &Vector{Dims: d, Data: make([]vector.Vec3, d.X*d.Y*d.Z)}
}

func (g *Vector) At(i, j, k int) vector.Vec3 {
	ci, cj, ck := g.Dims.clamp(i, j, k)
	return g.Data[g.Dims.index(ci, cj, ck)]
}

func (g *Vector) Set(i, j, k int, v vector.Vec3) {
	if !g.Dims.inBounds(i, j, k) {
		return
	}
	g.Data[g.Dims.index(i, j, k)] = v
}

func (g *Vector) Fill(v vector.Vec3) {
	for i := range g.Data {
		g.Data[i] = v
	}
}
