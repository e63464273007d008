package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andewx/flipsim/sim"
	"github.com/andewx/flipsim/vector"
	"github.com/stretchr/testify/assert"
)

func newTestScene() *BoxScene {
	return NewBoxScene([3]int{8, 8, 8}, 2.0, FluidSource{
		Min: vector.Vec3{0.1, 0.1, 0.1},
		Max: vector.Vec3{0.4, 0.4, 0.4},
	})
}

func TestBuildLevelSetsMarksSourceInterior(t *testing.T) {
	bs := newTestScene()
	bs.BuildLevelSets(0)

	inside := bs.LiquidLevelSet().At(1, 1, 1)
	assert.Less(t, inside, 0.0, "cell inside the fluid source should have negative liquid level set")

	outside := bs.LiquidLevelSet().At(6, 6, 6)
	assert.Greater(t, outside, 0.0, "cell far from the source should have positive liquid level set")
}

func TestBuildLevelSetsDerivesSolidNormalGradient(t *testing.T) {
	bs := newTestScene()
	bs.BuildLevelSets(0)

	n := bs.solidNorm.At(1, 4, 4)
	assert.Greater(t, n[0], 0.0, "the solid normal near the low-x wall should point into the domain interior")
}

func TestGenerateParticlesOnlyEmitsOnce(t *testing.T) {
	bs := newTestScene()
	pg := sim.NewParticleGrid(8, 8, 8)

	first := bs.GenerateParticles(nil, [3]int{8, 8, 8}, 2.0, pg, 0)
	assert.NotEmpty(t, first, "frame 0 should emit fluid + wall particles")

	second := bs.GenerateParticles(first, [3]int{8, 8, 8}, 2.0, pg, 1)
	assert.Equal(t, len(first), len(second), "no further emission after frame 0")
}

func TestProjectPointsToSolidSurfaceClampsIntoDomain(t *testing.T) {
	bs := newTestScene()
	points := []vector.Vec3{{-5, 3, 3}, {20, 3, 3}}
	bs.ProjectPointsToSolidSurface(points)

	for _, p := range points {
		assert.GreaterOrEqual(t, p[0], 1.0)
		assert.LessOrEqual(t, p[0], 7.0)
	}
}

func TestExportParticlesWritesCSV(t *testing.T) {
	bs := newTestScene()
	dir := t.TempDir()
	bs.ExportDir = dir

	particles := []*sim.Particle{
		{Position: vector.Vec3{0.1, 0.1, 0.1}, Velocity: vector.Vec3{1, 0, 0}, Kind: sim.Fluid},
	}
	bs.ExportParticles(particles, 8, 3, true, false, false)

	path := filepath.Join(dir, "particles_0003.csv")
	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
