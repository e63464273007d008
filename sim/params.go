// Package sim implements the FLIP/PIC fluid core: the particle/MAC-grid
// hybrid representation, transfer operators, pressure projection,
// extrapolation, PIC/FLIP blending, advection, resampling, and the
// per-frame step pipeline. Ported from the teacher's PCISPH fluid package
// (kernel.go, particle.go, sphfluid.go, voxel.go), generalized from a
// neighbor-sum SPH pressure iteration to a grid-projection FLIP pressure
// solve following original_source/src/sim/flip.cpp.
package sim

import (
	"fmt"

	"github.com/andewx/flipsim/vector"
)

// Params bundles the per-simulator tunables §6 of the core spec enumerates.
// Generalizes the teacher's MassFluidParticle/DslFlConfig plain-struct
// configuration pattern; there is no file parser attached (config loading
// is out of scope), only a Default constructor.
type Params struct {
	StepSize         float64
	PICFLIPRatio     float64
	Density          float64 // target particles-per-cell linear density
	DensityThreshold float64
	SubCell          bool
	CGTolerance      float64
	CGMaxIterations  int
	Gravity          vector.Vec3
	WallPenaltyForce float64
	Verbose          bool
}

// DefaultParams returns the reference tuning used throughout flip.cpp.
func DefaultParams() Params {
	return Params{
		StepSize:         0.005,
		PICFLIPRatio:     0.95,
		Density:          2.0,
		DensityThreshold: 0.04,
		SubCell:          true,
		CGTolerance:      1e-4,
		CGMaxIterations:  200,
		Gravity:          vector.Vec3{0, -9.8, 0},
		WallPenaltyForce: 10.0,
		Verbose:          false,
	}
}

// Validate fails fast on configuration errors (§7: "Configuration error
// ... fail fast at construction").
func (p Params) Validate() error {
	if p.Density <= 0 {
		return fmt.Errorf("sim: density target must be positive, got %f", p.Density)
	}
	if p.PICFLIPRatio < 0 || p.PICFLIPRatio > 1 {
		return fmt.Errorf("sim: picflipratio must be in [0,1], got %f", p.PICFLIPRatio)
	}
	if p.CGMaxIterations <= 0 {
		return fmt.Errorf("sim: CG max iterations must be positive, got %d", p.CGMaxIterations)
	}
	return nil
}
