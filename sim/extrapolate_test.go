package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExtrapolateVelocityIdempotent is the P-Idempotent-extrapolate
// property: running ExtrapolateVelocity twice equals running it once.
func TestExtrapolateVelocityIdempotent(t *testing.T) {
	const n = 5
	mg := NewMACGrid(n, n, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				switch {
				case i == 0:
					mg.A.Set(i, j, k, int(CellSolid))
				case i >= n-2:
					mg.A.Set(i, j, k, int(CellAir))
				default:
					mg.A.Set(i, j, k, int(CellFluid))
				}
			}
		}
	}

	for i := 0; i <= n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				mg.Ux.Set(i, j, k, float64(i)*0.1)
			}
		}
	}

	ExtrapolateVelocity(mg)

	once := make([]float64, len(mg.Ux.Data))
	copy(once, mg.Ux.Data)

	ExtrapolateVelocity(mg)

	assert.Equal(t, once, mg.Ux.Data, "a second extrapolation pass should not change already-extrapolated faces")
}
