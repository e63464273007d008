// Package scene implements the Scene collaborator interface (spec.md §6)
// with a concrete reference scene: a closed box with solid walls and a
// rectangular fluid source. Grounded in the teacher's
// app/scene.go DslFlConfig/box-fluid-system description, with the
// OpenGL/GLFW render loop stripped — windowing is out of scope.
package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andewx/flipsim/geometry"
	"github.com/andewx/flipsim/grid"
	"github.com/andewx/flipsim/sim"
	"github.com/andewx/flipsim/vector"
	"github.com/gocarina/gocsv"
)

// FluidSource describes a rectangular region (in normalized [0,1]^3
// coordinates) packed with FLUID particles at frame 0.
type FluidSource struct {
	Min, Max vector.Vec3
}

// BoxScene is a closed box: the domain shell is always solid on all six
// sides (enforced independently by sim.ParticleGrid.MarkCellTypes), with
// no option to leave a wall open, and this scene additionally seeds
// wall-particle normals
// used by sim.AdvectParticles' collision push-out, plus the rectangular
// FluidSource emitted once at frame 0.
type BoxScene struct {
	Dims    [3]int
	Density float64
	Source  FluidSource

	// ExportDir, when non-empty, receives a per-frame particles_NNNN.csv
	// snapshot (positions and velocities) from ExportParticles.
	ExportDir string

	liquidLS  *grid.Scalar
	solidLS   *grid.Scalar
	solidNorm *grid.Vector
	wallMesh  *geometry.Mesh

	emitted bool
}

// NewBoxScene builds a BoxScene over the given cell dimensions with a
// single rectangular fluid source.
func NewBoxScene(dims [3]int, density float64, source FluidSource) *BoxScene {
	bs := &BoxScene{Dims: dims, Density: density, Source: source}
	d := grid.Dims{X: dims[0], Y: dims[1], Z: dims[2]}
	bs.liquidLS = grid.NewScalar(d)
	bs.solidLS = grid.NewScalar(d)
	bs.solidNorm = grid.NewVector(d)
	bs.wallMesh = geometry.Box(1, 1, 1, vector.Vec3{0.5, 0.5, 0.5})
	return bs
}

func (bs *BoxScene) maxDim() float64 {
	m := bs.Dims[0]
	if bs.Dims[1] > m {
		m = bs.Dims[1]
	}
	if bs.Dims[2] > m {
		m = bs.Dims[2]
	}
	return float64(m)
}

// BuildLevelSets recomputes the liquid level set from the static fluid
// source box (a reasonable approximation for a scene with no additional
// sources after frame 0) and the solid level set from the
// enclosing box mesh, then derives the per-cell solid-normal field from the
// solid level set's gradient; interior obstacles are not modeled by this
// reference scene.
func (bs *BoxScene) BuildLevelSets(frame int) {
	maxd := bs.maxDim()
	h := 1.0 / maxd

	x, y, z := bs.Dims[0], bs.Dims[1], bs.Dims[2]
	for i := 0; i < x; i++ {
		for j := 0; j < y; j++ {
			for k := 0; k < z; k++ {
				center := vector.Vec3{
					(float64(i) + 0.5) * h,
					(float64(j) + 0.5) * h,
					(float64(k) + 0.5) * h,
				}
				bs.liquidLS.Set(i, j, k, boxSignedDistance(center, bs.Source.Min, bs.Source.Max))
				bs.solidLS.Set(i, j, k, bs.wallMesh.SignedDistance(center))
			}
		}
	}

	for i := 0; i < x; i++ {
		for j := 0; j < y; j++ {
			for k := 0; k < z; k++ {
				grad := vector.Vec3{
					bs.solidLS.At(i+1, j, k) - bs.solidLS.At(i-1, j, k),
					bs.solidLS.At(i, j+1, k) - bs.solidLS.At(i, j-1, k),
					bs.solidLS.At(i, j, k+1) - bs.solidLS.At(i, j, k-1),
				}
				if vector.Length(grad) > 1e-9 {
					grad = vector.Normalize(grad)
				}
				bs.solidNorm.Set(i, j, k, grad)
			}
		}
	}
}

// boxSignedDistance returns a signed distance (negative inside) to an
// axis-aligned box, used as a cheap approximation of the fluid source's
// level set — exact at the source box's faces, conservative elsewhere.
func boxSignedDistance(p, lo, hi vector.Vec3) float64 {
	best := -1e9
	for axis := 0; axis < 3; axis++ {
		d := lo[axis] - p[axis]
		if d > best {
			best = d
		}
		d = p[axis] - hi[axis]
		if d > best {
			best = d
		}
	}
	return best
}

func (bs *BoxScene) LiquidLevelSet() *grid.Scalar { return bs.liquidLS }
func (bs *BoxScene) SolidLevelSet() *grid.Scalar  { return bs.solidLS }

// GenerateParticles packs the fluid source with FLUID particles at frame 0
// and seeds SOLID particles with inward-pointing normals along the domain
// shell (consumed by sim.AdvectParticles' wall-collision push-out). No
// further sources fire on later frames in this reference scene.
func (bs *BoxScene) GenerateParticles(particles []*sim.Particle, dims [3]int, density float64, pg *sim.ParticleGrid, frame int) []*sim.Particle {
	if bs.emitted {
		return particles
	}
	bs.emitted = true

	maxd := bs.maxDim()
	h := density / maxd

	lo, hi := bs.Source.Min, bs.Source.Max
	for x := lo[0]; x < hi[0]; x += h {
		for y := lo[1]; y < hi[1]; y += h {
			for z := lo[2]; z < hi[2]; z += h {
				particles = append(particles, &sim.Particle{
					Position: vector.Vec3{x + h*0.5, y + h*0.5, z + h*0.5},
					Mass:     1.0,
					Kind:     sim.Fluid,
				})
			}
		}
	}

	particles = append(particles, bs.wallParticles(maxd)...)
	return particles
}

// wallParticles seeds one SOLID particle per boundary-shell cell and wall
// (edge and corner cells, which lie on two or three walls, get one per
// wall), placed at the cell center, normal sourced from the solid level
// set's gradient field
// (bs.solidNorm, built by BuildLevelSets) — falling back to the given
// axis-aligned normal where the gradient is degenerate (e.g. a corner
// cell, or before BuildLevelSets has run).
func (bs *BoxScene) wallParticles(maxd float64) []*sim.Particle {
	x, y, z := bs.Dims[0], bs.Dims[1], bs.Dims[2]
	h := 1.0 / maxd
	var out []*sim.Particle

	addShell := func(i, j, k int, fallback vector.Vec3) {
		normal := bs.solidNorm.At(i, j, k)
		if vector.Length(normal) < 1e-9 {
			normal = fallback
		}
		out = append(out, &sim.Particle{
			Position: vector.Vec3{(float64(i) + 0.5) * h, (float64(j) + 0.5) * h, (float64(k) + 0.5) * h},
			Normal:   normal,
			Mass:     1.0,
			Kind:     sim.Solid,
		})
	}

	for j := 0; j < y; j++ {
		for k := 0; k < z; k++ {
			addShell(0, j, k, vector.Vec3{1, 0, 0})
			addShell(x-1, j, k, vector.Vec3{-1, 0, 0})
		}
	}
	for i := 0; i < x; i++ {
		for k := 0; k < z; k++ {
			addShell(i, 0, k, vector.Vec3{0, 1, 0})
			addShell(i, y-1, k, vector.Vec3{0, -1, 0})
		}
	}
	for i := 0; i < x; i++ {
		for j := 0; j < y; j++ {
			addShell(i, j, 0, vector.Vec3{0, 0, 1})
			addShell(i, j, z-1, vector.Vec3{0, 0, -1})
		}
	}
	return out
}

// ProjectPointsToSolidSurface clamps each point onto (or just inside) the
// box walls — the nearest solid surface for a reference scene whose only
// solid is its own enclosing shell.
func (bs *BoxScene) ProjectPointsToSolidSurface(points []vector.Vec3) {
	x, y, z := float64(bs.Dims[0]), float64(bs.Dims[1]), float64(bs.Dims[2])
	margin := 1.0
	for i := range points {
		points[i] = vector.Clamp(points[i], vector.Vec3{margin, margin, margin}, vector.Vec3{x - margin, y - margin, z - margin})
	}
}

// particleRecord is the flat CSV row gocsv marshals particle snapshots
// into, grounded in pthm-soup/telemetry/output.go's gocsv.Marshal sink
// pattern.
type particleRecord struct {
	Frame int     `csv:"frame"`
	Index int     `csv:"index"`
	Kind  string  `csv:"kind"`
	PX    float64 `csv:"px"`
	PY    float64 `csv:"py"`
	PZ    float64 `csv:"pz"`
	VX    float64 `csv:"vx"`
	VY    float64 `csv:"vy"`
	VZ    float64 `csv:"vz"`
}

// ExportParticles writes a per-frame CSV snapshot of particle position and
// velocity when ExportDir is set — the concrete, testable stand-in for the
// VDB/OBJ/Partio export spec.md marks out of scope.
func (bs *BoxScene) ExportParticles(particles []*sim.Particle, maxd float64, frame int, saveVDB, saveOBJ, savePARTIO bool) {
	if bs.ExportDir == "" {
		return
	}
	if err := os.MkdirAll(bs.ExportDir, 0o755); err != nil {
		return
	}

	records := make([]*particleRecord, len(particles))
	for i, p := range particles {
		records[i] = &particleRecord{
			Frame: frame,
			Index: i,
			Kind:  p.Kind.String(),
			PX:    p.Position[0], PY: p.Position[1], PZ: p.Position[2],
			VX: p.Velocity[0], VY: p.Velocity[1], VZ: p.Velocity[2],
		}
	}

	path := filepath.Join(bs.ExportDir, fmt.Sprintf("particles_%04d.csv", frame))
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()

	_ = gocsv.MarshalFile(&records, f)
}
