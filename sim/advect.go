package sim

import "github.com/andewx/flipsim/vector"

// AdvectParticles moves every Fluid particle along its sampled velocity,
// re-sorts the particle grid, clamps positions into the domain interior,
// and resolves solid-wall collisions by pushing particles out along the
// offending solid particle's normal — spec.md §4.7, ported from
// flip.cpp::advectParticles. The original reuses the symbol `r` for both
// the domain margin and the inner wall-response radius (spec.md §9 note
// (a)); here they are distinct: wallMargin and re.
func AdvectParticles(pg *ParticleGrid, particles []*Particle, mg *MACGrid, stepSize, density float64) {
	maxd := velocityMaxDim(mg)

	parallelRange(len(particles), func(i int) {
		p := particles[i]
		if p.Kind != Fluid {
			return
		}
		v := sampleVelocity(mg, p.Position, maxd)
		p.Position[0] += stepSize * v[0]
		p.Position[1] += stepSize * v[1]
		p.Position[2] += stepSize * v[2]
	})

	pg.Sort(particles)

	wallMargin := 1.0 / maxd
	re := 1.5 * density / maxd

	parallelRange(len(particles), func(idx int) {
		p := particles[idx]
		if p.Kind != Fluid {
			return
		}

		p.Position = vector.Clamp(p.Position, vector.Splat(wallMargin), vector.Splat(1-wallMargin))

		i, j, k := pg.CellOf(p.Position)
		neighbors := pg.CellNeighbors(particles, [3]int{i, j, k}, 1)
		for _, np := range neighbors {
			if np.Kind != Solid {
				continue
			}
			dist := vector.Distance(p.Position, np.Position)
			if dist >= re {
				continue
			}
			normal := np.Normal
			if vector.Length(normal) < 1e-7 && dist > 0 {
				normal = vector.Normalize(vector.Sub(p.Position, np.Position))
			}
			p.Position = vector.Add(p.Position, vector.Scale(normal, re-dist))
			inward := vector.Dot(p.Velocity, normal)
			p.Velocity = vector.Sub(p.Velocity, vector.Scale(normal, inward))
		}
	})
}
