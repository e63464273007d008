package sim

import (
	"math"
	"math/rand"

	"github.com/andewx/flipsim/vector"
)

// ResampleParticles maintains a roughly constant particle count per FLUID
// cell — spec.md §2 item 7 / §4.6 step 17: particles in over-dense cells
// are marked Temp (culled by the step driver at end of frame, per §9's
// "build a new compact list rather than erasing in place"), and new
// particles are inserted into under-dense FLUID cells, inheriting the
// local MAC velocity via GatherFromMAC-style sampling.
func ResampleParticles(pg *ParticleGrid, particles []*Particle, mg *MACGrid, density float64, rng *rand.Rand) []*Particle {
	target := targetParticlesPerCell(density)
	maxd := velocityMaxDim(mg)
	h := 1.0 / maxd

	counts := make(map[[3]int]int, len(pg.buckets))
	for _, p := range particles {
		if p.Kind != Fluid {
			continue
		}
		i, j, k := pg.CellOf(p.Position)
		counts[[3]int{i, j, k}]++
	}

	for idx, p := range particles {
		if p.Kind != Fluid {
			continue
		}
		i, j, k := pg.CellOf(p.Position)
		key := [3]int{i, j, k}
		if counts[key] > target*2 {
			particles[idx].Temp = true
			counts[key]--
		}
	}

	x, y, z := pg.Dims.X, pg.Dims.Y, pg.Dims.Z
	var inserted []*Particle
	for i := 0; i < x; i++ {
		for j := 0; j < y; j++ {
			for k := 0; k < z; k++ {
				if CellType(mg.A.At(i, j, k)) != CellFluid {
					continue
				}
				have := counts[[3]int{i, j, k}]
				for have < target {
					pos := vector.Vec3{
						(float64(i) + rng.Float64()) * h,
						(float64(j) + rng.Float64()) * h,
						(float64(k) + rng.Float64()) * h,
					}
					inserted = append(inserted, &Particle{
						Position: pos,
						Velocity: sampleVelocity(mg, pos, maxd),
						Mass:     1.0,
						Kind:     Fluid,
					})
					have++
				}
			}
		}
	}

	return inserted
}

func targetParticlesPerCell(density float64) int {
	n := int(math.Round(density))
	if n < 1 {
		n = 1
	}
	return n * n * n
}
