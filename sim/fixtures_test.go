package sim

import (
	"github.com/andewx/flipsim/grid"
	"github.com/andewx/flipsim/vector"
)

// fakeScene is a minimal closed-box Scene used across sim's tests: no
// interior obstacles, solid only on the domain shell, and an optional
// static source of FLUID particles emitted once at frame 0.
type fakeScene struct {
	dims      [3]int
	liquidLS  *grid.Scalar
	solidLS   *grid.Scalar
	source    []*Particle
	generated bool
}

func newFakeScene(x, y, z int, source []*Particle) *fakeScene {
	fs := &fakeScene{dims: [3]int{x, y, z}, source: source}
	fs.liquidLS = grid.NewScalar(grid.Dims{X: x, Y: y, Z: z})
	fs.liquidLS.Fill(1)
	fs.solidLS = grid.NewScalar(grid.Dims{X: x, Y: y, Z: z})
	fs.solidLS.Fill(1)
	return fs
}

func (fs *fakeScene) BuildLevelSets(frame int)             {}
func (fs *fakeScene) LiquidLevelSet() *grid.Scalar          { return fs.liquidLS }
func (fs *fakeScene) SolidLevelSet() *grid.Scalar           { return fs.solidLS }
func (fs *fakeScene) ProjectPointsToSolidSurface(pts []vector.Vec3) {
	x, y, z := float64(fs.dims[0]), float64(fs.dims[1]), float64(fs.dims[2])
	for i := range pts {
		pts[i] = vector.Clamp(pts[i], vector.Vec3{1, 1, 1}, vector.Vec3{x - 1, y - 1, z - 1})
	}
}
func (fs *fakeScene) ExportParticles(particles []*Particle, maxd float64, frame int, a, b, c bool) {}

func (fs *fakeScene) GenerateParticles(particles []*Particle, dims [3]int, density float64, pg *ParticleGrid, frame int) []*Particle {
	if fs.generated {
		return particles
	}
	fs.generated = true
	return append(particles, fs.source...)
}
