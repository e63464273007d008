package sim

import "math"

const kernelSQRPI = 5.5860525258

// GaussianKernel is the splat weight SplatToMAC uses: smooth, always
// positive, falls off to zero at 3*H0. Trimmed down from the teacher's
// GaussianKernel (_examples/andewx-dieselsph/fluid/kernel.go), which also
// carried O1D/O2D/Grad smoothing-kernel derivatives behind a Kernel
// interface alongside a CubicKernel alternative — a MAC splat only ever
// needs the weight F, never a gradient or a second kernel choice, so that
// unreached machinery was dropped instead of carried as dead code (see
// DESIGN.md).
type GaussianKernel struct {
	H  float64
	H0 float64
	A  float64
}

// F is the splat weight at the given distance, normalized against H0.
func (K *GaussianKernel) F(distance float64) float64 {
	r := distance / K.H0
	if r > 3.0 {
		return 0.0
	}
	return math.Exp(-r * r)
}

// InitGaussian constructs a GaussianKernel whose length scale H0 is radius
// (SplatToMAC passes one grid cell width); the weight reaches zero at
// 3*radius.
func InitGaussian(radius float64) GaussianKernel {
	return GaussianKernel{H: radius, H0: radius, A: 1 / (kernelSQRPI * radius * radius * radius)}
}

// smooth is the density weighting function of spec.md §4.8:
// smooth(r2, sigma) = max(0, 1 - r2/sigma^2)^3.
func smooth(r2, sigma float64) float64 {
	s := 1.0 - r2/(sigma*sigma)
	if s < 0 {
		return 0
	}
	return s * s * s
}
