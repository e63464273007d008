package sim

import (
	"github.com/andewx/flipsim/grid"
	"github.com/andewx/flipsim/vector"
)

// ParticleGrid is a dense spatial index mapping each cell to the indices of
// the particles currently inside it (spec.md §3 "Particle grid"). Dense
// rather than hashed: MAC-grid faces must align exactly with particle-grid
// cells for splat/gather, which a hashed bucket grid with wraparound (the
// teacher's spatial.go SpatialHashGrid) would break — see DESIGN.md.
type ParticleGrid struct {
	Dims    grid.Dims
	buckets [][]int
}

// NewParticleGrid allocates an empty bucket array sized X*Y*Z.
func NewParticleGrid(x, y, z int) *ParticleGrid {
	return &ParticleGrid{
		Dims:    grid.Dims{X: x, Y: y, Z: z},
		buckets: make([][]int, x*y*z),
	}
}

func (pg *ParticleGrid) bucketIndex(i, j, k int) int {
	return i + pg.Dims.X*(j+pg.Dims.Y*k)
}

// maxDim returns max(X,Y,Z), the normalization factor §3 calls `maxd`.
func (pg *ParticleGrid) maxDim() float64 {
	m := pg.Dims.X
	if pg.Dims.Y > m {
		m = pg.Dims.Y
	}
	if pg.Dims.Z > m {
		m = pg.Dims.Z
	}
	return float64(m)
}

// CellOf returns the clamped integer cell a normalized position falls in.
func (pg *ParticleGrid) CellOf(p vector.Vec3) (int, int, int) {
	maxd := pg.maxDim()
	i := clampInt(int(p[0]*maxd), 0, pg.Dims.X-1)
	j := clampInt(int(p[1]*maxd), 0, pg.Dims.Y-1)
	k := clampInt(int(p[2]*maxd), 0, pg.Dims.Z-1)
	return i, j, k
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sort rebuilds the per-cell bucket arrays from current particle positions
// — O(N), per spec.md §4.2.
func (pg *ParticleGrid) Sort(particles []*Particle) {
	for i := range pg.buckets {
		pg.buckets[i] = pg.buckets[i][:0]
	}
	for idx, p := range particles {
		i, j, k := pg.CellOf(p.Position)
		b := pg.bucketIndex(i, j, k)
		pg.buckets[b] = append(pg.buckets[b], idx)
	}
}

// CellNeighbors returns every particle within the axis-aligned cubic
// neighborhood [center-radius, center+radius], clamped to the domain.
func (pg *ParticleGrid) CellNeighbors(particles []*Particle, center [3]int, radius int) []*Particle {
	var out []*Particle
	for i := center[0] - radius; i <= center[0]+radius; i++ {
		if i < 0 || i >= pg.Dims.X {
			continue
		}
		for j := center[1] - radius; j <= center[1]+radius; j++ {
			if j < 0 || j >= pg.Dims.Y {
				continue
			}
			for k := center[2] - radius; k <= center[2]+radius; k++ {
				if k < 0 || k >= pg.Dims.Z {
					continue
				}
				for _, idx := range pg.buckets[pg.bucketIndex(i, j, k)] {
					out = append(out, particles[idx])
				}
			}
		}
	}
	return out
}

// MarkCellTypes sets A[c] = CellFluid for cells containing >=1 Fluid
// particle, CellSolid where solidLS indicates (or on the domain shell),
// CellAir otherwise — spec.md §4.2/§3 "Cell type".
func (pg *ParticleGrid) MarkCellTypes(particles []*Particle, a *grid.Int, solidLS *grid.Scalar, density float64) {
	x, y, z := pg.Dims.X, pg.Dims.Y, pg.Dims.Z

	parallelRange(x, func(i int) {
		for j := 0; j < y; j++ {
			for k := 0; k < z; k++ {
				ct := int(CellAir)
				if solidLS != nil && solidLS.At(i, j, k) < 0 {
					ct = int(CellSolid)
				}
				if i == 0 || i == x-1 || j == 0 || j == y-1 || k == 0 || k == z-1 {
					ct = int(CellSolid)
				}
				if ct != int(CellSolid) {
					for _, idx := range pg.buckets[pg.bucketIndex(i, j, k)] {
						if particles[idx].Kind == Fluid {
							ct = int(CellFluid)
							break
						}
					}
				}
				a.Set(i, j, k, ct)
			}
		}
	})
}

// BuildSDF constructs the liquid level set L: for each cell, the minimum
// over nearby Fluid particles of distance(cell-center, particle) - r,
// where r is the target particle radius (density*h/2). Cells with no
// nearby fluid get a large positive sentinel — spec.md §4.2.
func (pg *ParticleGrid) BuildSDF(particles []*Particle, l *grid.Scalar, density float64) {
	maxd := pg.maxDim()
	h := 1.0 / maxd
	r := density * h * 0.5
	const farAway = 3.0

	x, y, z := pg.Dims.X, pg.Dims.Y, pg.Dims.Z
	parallelRange(x, func(i int) {
		for j := 0; j < y; j++ {
			for k := 0; k < z; k++ {
				center := vector.Vec3{
					(float64(i) + 0.5) * h,
					(float64(j) + 0.5) * h,
					(float64(k) + 0.5) * h,
				}
				best := farAway
				neighbors := pg.CellNeighbors(particles, [3]int{i, j, k}, 1)
				for _, p := range neighbors {
					if p.Kind != Fluid {
						continue
					}
					d := vector.Distance(center, p.Position) - r
					if d < best {
						best = d
					}
				}
				l.Set(i, j, k, best)
			}
		}
	})
}
