package sim

import (
	"math/rand"

	"github.com/andewx/flipsim/utils"
	"github.com/andewx/flipsim/vector"
)

// Simulator is the FLIP/PIC core: owns the particle set, the dense
// particle grid, the MAC grid bundle (current + previous), and a
// non-owning handle to its Scene collaborator — spec.md §6 "Simulator
// API". Mirrors flip.cpp's flipsim class.
type Simulator struct {
	Dims   [3]int
	Params Params

	scene Scene
	log   *utils.Logger

	particles []*Particle
	pgrid     *ParticleGrid
	mgrid     *MACGrid
	mgridPrev *MACGrid

	maxDensity float64
	frame      int

	rng *rand.Rand
}

// New constructs a Simulator over the given cell dimensions. Fails fast on
// invalid configuration (§7).
func New(dims [3]int, scene Scene, params Params, log *utils.Logger) (*Simulator, error) {
	if dims[0] <= 0 || dims[1] <= 0 || dims[2] <= 0 {
		return nil, utils.Errorf("sim: dimensions must be positive, got %v", dims)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = utils.NewLogger(params.Verbose)
	}

	return &Simulator{
		Dims:      dims,
		Params:    params,
		scene:     scene,
		log:       log,
		pgrid:     NewParticleGrid(dims[0], dims[1], dims[2]),
		mgrid:     NewMACGrid(dims[0], dims[1], dims[2]),
		mgridPrev: NewMACGrid(dims[0], dims[1], dims[2]),
		rng:       rand.New(rand.NewSource(1)),
	}, nil
}

func (s *Simulator) maxDim() float64 {
	m := s.Dims[0]
	if s.Dims[1] > m {
		m = s.Dims[1]
	}
	if s.Dims[2] > m {
		m = s.Dims[2]
	}
	return float64(m)
}

// Init calibrates max_density from a synthetic packed cube, emits frame-0
// particles, and purges any that landed inside a solid cell — spec.md §6
// "init()", ported from flip.cpp::init.
func (s *Simulator) Init() {
	maxd := s.maxDim()
	s.maxDensity = CalibrateMaxDensity(maxd, s.Params.Density)

	s.scene.BuildLevelSets(s.frame)
	s.particles = s.scene.GenerateParticles(s.particles, s.Dims, s.Params.Density, s.pgrid, 0)
	s.pgrid.Sort(s.particles)
	s.pgrid.MarkCellTypes(s.particles, s.mgrid.A, s.scene.SolidLevelSet(), s.Params.Density)

	kept := s.particles[:0]
	for _, p := range s.particles {
		if p.Kind == Solid {
			kept = append(kept, p)
			continue
		}
		i, j, k := s.pgrid.CellOf(p.Position)
		if CellType(s.mgrid.A.At(i, j, k)) == CellSolid {
			continue
		}
		kept = append(kept, p)
	}
	s.particles = kept
}

// Step advances the simulation by one frame, sequencing the 21 numbered
// sub-steps of spec.md §4.6 in order — ported from flip.cpp::step. Export
// flags select whether scene.ExportParticles is invoked at the end.
func (s *Simulator) Step(saveVDB, saveOBJ, savePARTIO bool) {
	s.frame++
	s.log.Step("simulating step %d", s.frame)

	s.scene.BuildLevelSets(s.frame)
	s.particles = s.scene.GenerateParticles(s.particles, s.Dims, s.Params.Density, s.pgrid, s.frame)

	s.pgrid.Sort(s.particles)
	maxd := s.maxDim()
	ComputeDensity(s.pgrid, s.particles, s.maxDensity, s.Params.Density, maxd)
	s.applyExternalForces()
	SplatToMAC(s.pgrid, s.particles, s.mgrid)
	s.pgrid.MarkCellTypes(s.particles, s.mgrid.A, s.scene.SolidLevelSet(), s.Params.Density)
	StorePreviousGrid(s.mgrid, s.mgridPrev)
	EnforceBoundaryVelocity(s.mgrid)
	Project(s.pgrid, s.particles, s.mgrid, s.Params, s.log)
	EnforceBoundaryVelocity(s.mgrid)
	ExtrapolateVelocity(s.mgrid)
	SubtractPreviousGrid(s.mgrid, s.mgridPrev)
	SolvePICFLIP(s.particles, s.mgrid, s.mgridPrev, s.Params.PICFLIPRatio)
	AdvectParticles(s.pgrid, s.particles, s.mgrid, s.Params.StepSize, s.Params.Density)

	inserted := ResampleParticles(s.pgrid, s.particles, s.mgrid, s.Params.Density, s.rng)
	s.particles = append(s.particles, inserted...)

	s.markInvalidParticles(maxd)
	s.particles = removeTemp(s.particles)
	s.recoverStuckParticles(maxd)

	if saveVDB || saveOBJ || savePARTIO {
		s.scene.ExportParticles(s.particles, maxd, s.frame, saveVDB, saveOBJ, savePARTIO)
	}
}

func (s *Simulator) applyExternalForces() {
	g := s.Params.Gravity
	dt := s.Params.StepSize
	parallelRange(len(s.particles), func(i int) {
		p := s.particles[i]
		if p.Kind != Fluid {
			return
		}
		p.Velocity[0] += g[0] * dt
		p.Velocity[1] += g[1] * dt
		p.Velocity[2] += g[2] * dt
	})
}

// markInvalidParticles marks particles that left the domain or ended up
// inside a SOLID cell — spec.md §4.6 step 18.
func (s *Simulator) markInvalidParticles(maxd float64) {
	x, y, z := s.Dims[0], s.Dims[1], s.Dims[2]
	parallelRange(len(s.particles), func(i int) {
		p := s.particles[i]
		p.Invalid = false
		t := vector.Scale(p.Position, maxd)
		if t[0] > float64(x) || t[1] > float64(y) || t[2] > float64(z) {
			p.Invalid = true
		}
		if t[0] < 0 || t[1] < 0 || t[2] < 0 {
			p.Invalid = true
		}
		ci, cj, ck := s.pgrid.CellOf(p.Position)
		if CellType(s.mgrid.A.At(ci, cj, ck)) == CellSolid {
			p.Invalid = true
		}
	})
}

func removeTemp(particles []*Particle) []*Particle {
	kept := make([]*Particle, 0, len(particles))
	for _, p := range particles {
		if !p.Temp {
			kept = append(kept, p)
		}
	}
	return kept
}

// recoverStuckParticles asks the scene to project invalid FLUID particles
// back onto the solid surface and applies a penalty impulse — spec.md
// §4.6 step 20.
func (s *Simulator) recoverStuckParticles(maxd float64) {
	var stuck []*Particle
	var positions []vector.Vec3
	for _, p := range s.particles {
		if p.Invalid && p.Kind == Fluid {
			stuck = append(stuck, p)
			positions = append(positions, vector.Scale(p.Position, maxd))
		}
	}
	if len(stuck) == 0 {
		return
	}

	s.scene.ProjectPointsToSolidSurface(positions)

	for i, p := range stuck {
		cur := vector.Scale(p.Position, maxd)
		dir := vector.Sub(positions[i], cur)
		if vector.Length(dir) > 0.0001 {
			p.Position = vector.Scale(positions[i], 1/maxd)
			p.Velocity = vector.Scale(dir, s.Params.WallPenaltyForce)
		}
	}
}

// IsCellFluid reports whether a cell is inside the liquid region and
// outside the solid region — spec.md §6 "isCellFluid".
func (s *Simulator) IsCellFluid(i, j, k int) bool {
	return s.scene.LiquidLevelSet().At(i, j, k) < 0 && s.scene.SolidLevelSet().At(i, j, k) >= 0
}

func (s *Simulator) Particles() []*Particle { return s.particles }
func (s *Simulator) Dimensions() [3]int     { return s.Dims }
func (s *Simulator) SceneHandle() Scene     { return s.scene }
func (s *Simulator) MACGridHandle() *MACGrid           { return s.mgrid }
func (s *Simulator) ParticleGridHandle() *ParticleGrid { return s.pgrid }
