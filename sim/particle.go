package sim

import "github.com/andewx/flipsim/vector"

// ParticleKind classifies a particle the same way a cell is classified.
type ParticleKind int

const (
	Fluid ParticleKind = iota
	Solid
	Air
)

func (k ParticleKind) String() string {
	switch k {
	case Fluid:
		return "Fluid"
	case Solid:
		return "Solid"
	case Air:
		return "Air"
	default:
		return "Unknown"
	}
}

// Particle is a single marker particle. Position is normalized to [0,1]^3
// simulation-unit coordinates; Velocity is in the same normalized units per
// step. FLIPDelta is scratch storage used by solvePicFlip. Normal is only
// meaningful for Solid particles (used by the wall-response push-out in
// AdvectParticles). Invalid/Temp are transient, reset/consumed once per
// step — matches spec.md §3's particle lifecycle.
type Particle struct {
	Position  vector.Vec3
	Velocity  vector.Vec3
	FLIPDelta vector.Vec3
	Normal    vector.Vec3

	Mass    float64
	Density float64

	Kind ParticleKind

	Invalid bool
	Temp    bool
}

// CellType classifies a grid cell the same three ways as ParticleKind;
// kept distinct so grid.Int storage (cell types) and particle fields
// (particle kinds) aren't silently interchangeable.
type CellType int

const (
	CellFluid CellType = iota
	CellSolid
	CellAir
)
