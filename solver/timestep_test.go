package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdaptTimestep(t *testing.T) {
	{ // decreasing: the CFL candidate applies immediately
		// 0.2 * 1 / (10 + (10 - 8)) = 0.2/12
		dt, save := AdaptTimestep(0.05, 10, 8, 1, 3, 0, 1e-3, 0.2)
		assert.InDelta(t, 0.2/12, dt, 1e-12)
		assert.False(t, save)
	}
	{ // increasing: the raise is under-relaxed by half
		dt, save := AdaptTimestep(0.01, 10, 8, 1, 3, 0, 1e-3, 0.2)
		assert.InDelta(t, 0.5*(0.2/12)+0.5*0.01, dt, 1e-12)
		assert.False(t, save)
	}
	{ // a slowing flow lets dt grow, still under-relaxed
		dt, _ := AdaptTimestep(0.01, 2, 4, 1, 3, 0, 1e-3, 0.2)
		// denominator 2*2-4 collapses; dt follows the floor of the denom
		assert.True(t, dt > 0.01)
	}
	{ // floor
		dt, save := AdaptTimestep(0.05, 1000, 1000, 1, 3, 0, 1e-2, 0.2)
		assert.Equal(t, 1e-2, dt)
		assert.False(t, save)
	}
}

func TestAdaptTimestepSaveClamp(t *testing.T) {
	{ // candidate overshoots the next save boundary: clamp and flag
		// CFL candidate = 0.2*40/(2*0.5-0) = 8; next boundary 100, remaining 5
		dt, save := AdaptTimestep(10, 0.5, 0, 40, 95, 10, 0.01, 0.2)
		assert.Equal(t, 5., dt)
		assert.True(t, save)
	}
	{ // candidate lands short of the boundary: no clamp
		dt, save := AdaptTimestep(10, 2, 0, 40, 95, 10, 0.01, 0.2)
		assert.InDelta(t, 2, dt, 1e-12)
		assert.False(t, save)
	}
	{ // the boundary wins even when the remaining gap is below the floor
		dt, save := AdaptTimestep(0.05, 1000, 1000, 1, 99.995, 10, 0.01, 0.2)
		assert.InDelta(t, 0.005, dt, 1e-9)
		assert.True(t, save)
	}
	{ // no save interval configured: no clamping at all
		dt, save := AdaptTimestep(10, 0.5, 0, 40, 95, 0, 0.01, 0.2)
		assert.Equal(t, 8., dt)
		assert.False(t, save)
	}
}
