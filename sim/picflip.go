package sim

// SolvePICFLIP blends the PIC and FLIP candidate velocities for every
// particle — spec.md §4.6 step 15, ported from flip.cpp::solvePicFlip.
// mgDelta must already hold the PIC-to-FLIP delta (mg.U* - mgPrevSnapshot)
// as left by SubtractPreviousGrid.
func SolvePICFLIP(particles []*Particle, mg, mgDelta *MACGrid, picflipRatio float64) {
	parallelRange(len(particles), func(i int) {
		p := particles[i]
		p.FLIPDelta = p.Velocity
	})

	maxd := velocityMaxDim(mg)
	parallelRange(len(particles), func(i int) {
		p := particles[i]
		if p.Kind != Fluid {
			return
		}
		delta := sampleVelocity(mgDelta, p.Position, maxd)
		p.FLIPDelta[0] += delta[0]
		p.FLIPDelta[1] += delta[1]
		p.FLIPDelta[2] += delta[2]
	})

	GatherFromMAC(particles, mg)

	parallelRange(len(particles), func(i int) {
		p := particles[i]
		if p.Kind != Fluid {
			return
		}
		for a := 0; a < 3; a++ {
			p.Velocity[a] = (1-picflipRatio)*p.Velocity[a] + picflipRatio*p.FLIPDelta[a]
		}
	})
}
