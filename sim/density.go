package sim

import "github.com/andewx/flipsim/vector"

// ComputeDensity assigns each particle a density normalized against
// maxDensity — spec.md §4.8, ported from flip.cpp::computeDensity. Solid
// particles are pinned at density 1. maxd is max(X,Y,Z) of the simulation
// domain (not necessarily pg's own dims — CalibrateMaxDensity runs this
// over a synthetic particle grid sized for a packed calibration cube).
func ComputeDensity(pg *ParticleGrid, particles []*Particle, maxDensity, density, maxd float64) {
	sigma := 4.0 * density / maxd

	parallelRange(len(particles), func(i int) {
		p := particles[i]
		if p.Kind == Solid {
			p.Density = 1.0
			return
		}

		ci, cj, ck := pg.CellOf(p.Position)
		neighbors := pg.CellNeighbors(particles, [3]int{ci, cj, ck}, 1)

		weightSum := 0.0
		for _, n := range neighbors {
			if n.Kind == Solid {
				continue
			}
			sqd := vector.SqrLength(vector.Sub(n.Position, p.Position))
			weightSum += n.Mass * smooth(sqd, sigma)
		}
		if maxDensity > 0 {
			p.Density = weightSum / maxDensity
		}
	})
}

// CalibrateMaxDensity computes the max_density normalization constant from
// a packed 10x10x10 synthetic cube of particles, exactly as
// flip.cpp::init does before the real scene particles are generated.
func CalibrateMaxDensity(dimsMax float64, density float64) float64 {
	h := density / dimsMax

	tmp := &ParticleGrid{}
	const side = 10
	particles := make([]*Particle, 0, side*side*side)
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			for k := 0; k < side; k++ {
				particles = append(particles, &Particle{
					Position: vector.Vec3{
						(float64(i) + 0.5) * h,
						(float64(j) + 0.5) * h,
						(float64(k) + 0.5) * h,
					},
					Kind: Fluid,
					Mass: 1.0,
				})
			}
		}
	}

	// The synthetic grid's own resolution doubles as CellOf's normalization
	// factor (maxDim()), so it must equal dimsMax to bin particles at the
	// same resolution flip.cpp::computeDensity does — not dimsMax+2's
	// margin, which would silently soften the binning and skew max_density.
	// Only pad above dimsMax when the real domain is smaller than the
	// packed cube itself, so every particle still has a home bucket.
	extent := int(dimsMax)
	if extent < side {
		extent = side
	}
	tmp.Dims.X, tmp.Dims.Y, tmp.Dims.Z = extent, extent, extent
	tmp.buckets = make([][]int, extent*extent*extent)
	tmp.Sort(particles)

	ComputeDensity(tmp, particles, 1.0, density, dimsMax)

	maxDensity := 0.0
	for _, p := range particles {
		if p.Density > maxDensity {
			maxDensity = p.Density
		}
	}
	if maxDensity == 0 {
		maxDensity = 1.0
	}
	return maxDensity
}
