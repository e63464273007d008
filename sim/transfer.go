package sim

import (
	"github.com/andewx/flipsim/grid"
	"github.com/andewx/flipsim/vector"
)

// SplatToMAC accumulates mass-weighted particle velocity onto each of the
// three staggered MAC faces with a smooth kernel support of one cell, then
// normalizes by the accumulated weight — spec.md §4.3 "Splat P→G". Faces
// that receive no particle weight are left at 0, to be filled in later by
// ExtrapolateVelocity. Implemented as a per-face gather (iterate faces,
// pull from the cell-bucketed particle grid) rather than a particle
// scatter, per spec.md §5's "prefer per-face gather to avoid scatter
// locking" guidance.
func SplatToMAC(pg *ParticleGrid, particles []*Particle, mg *MACGrid) {
	maxd := pg.maxDim()
	h := 1.0 / maxd
	kernel := InitGaussian(h)

	splatFace(pg, particles, mg.Ux, 0, &kernel)
	splatFace(pg, particles, mg.Uy, 1, &kernel)
	splatFace(pg, particles, mg.Uz, 2, &kernel)
}

func splatFace(pg *ParticleGrid, particles []*Particle, face *grid.Scalar, axis int, kernel *GaussianKernel) {
	maxd := pg.maxDim()
	h := 1.0 / maxd
	offset := velocityOffset(axis)

	x, y, z := face.Dims.X, face.Dims.Y, face.Dims.Z
	parallelRange(x, func(i int) {
		for j := 0; j < y; j++ {
			for k := 0; k < z; k++ {
				facePos := vector.Vec3{
					(float64(i) + offset[0]) * h,
					(float64(j) + offset[1]) * h,
					(float64(k) + offset[2]) * h,
				}
				cellI, cellJ, cellK := pg.CellOf(facePos)
				neighbors := pg.CellNeighbors(particles, [3]int{cellI, cellJ, cellK}, 1)

				weightSum := 0.0
				velSum := 0.0
				for _, p := range neighbors {
					if p.Kind == Solid {
						continue
					}
					dist := vector.Distance(facePos, p.Position)
					w := p.Mass * kernel.F(dist)
					if w <= 0 {
						continue
					}
					weightSum += w
					velSum += w * p.Velocity[axis]
				}
				if weightSum > 0 {
					face.Set(i, j, k, velSum/weightSum)
				}
			}
		}
	})
}

// GatherFromMAC sets every Fluid particle's velocity to the staggered
// trilinear interpolation of mg at its position — spec.md §4.3 "Gather
// G→P". Used both directly (PIC) and against a delta grid (FLIP).
func GatherFromMAC(particles []*Particle, mg *MACGrid) {
	maxd := velocityMaxDim(mg)
	parallelRange(len(particles), func(i int) {
		p := particles[i]
		if p.Kind != Fluid {
			return
		}
		p.Velocity = sampleVelocity(mg, p.Position, maxd)
	})
}

func velocityMaxDim(mg *MACGrid) float64 {
	m := mg.A.Dims.X
	if mg.A.Dims.Y > m {
		m = mg.A.Dims.Y
	}
	if mg.A.Dims.Z > m {
		m = mg.A.Dims.Z
	}
	return float64(m)
}

func sampleVelocity(mg *MACGrid, p vector.Vec3, maxd float64) vector.Vec3 {
	return vector.Vec3{
		mg.Ux.Sample(p, maxd, velocityOffset(0)),
		mg.Uy.Sample(p, maxd, velocityOffset(1)),
		mg.Uz.Sample(p, maxd, velocityOffset(2)),
	}
}
