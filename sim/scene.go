package sim

import (
	"github.com/andewx/flipsim/grid"
	"github.com/andewx/flipsim/vector"
)

// Scene is the collaborator interface spec.md §6 defines: it supplies the
// solid/liquid level sets, emits particles per frame, projects stuck
// particles back onto the solid surface, and persists particle state.
// Scene loading and level-set construction are explicitly out of scope for
// the core (§1); Simulator only ever holds this interface, never a
// concrete scene type — no back-pointer from Scene to Simulator is
// required (spec.md §9 "Cyclic references").
type Scene interface {
	BuildLevelSets(frame int)
	LiquidLevelSet() *grid.Scalar
	SolidLevelSet() *grid.Scalar
	GenerateParticles(particles []*Particle, dims [3]int, density float64, pg *ParticleGrid, frame int) []*Particle
	ProjectPointsToSolidSurface(points []vector.Vec3)
	ExportParticles(particles []*Particle, maxd float64, frame int, saveVDB, saveOBJ, savePARTIO bool)
}
