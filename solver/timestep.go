package solver

import "math"

// DefaultCFLTarget is the stability target of the adaptive timestep policy.
const DefaultCFLTarget = 0.2

// AdaptTimestep computes the next timestep from the peak velocity magnitude
// and its first-order backward-difference extrapolation:
//
//	dt_new = CFL * hmin / (u_max + (u_max - u_max_k1))
//
// Increases are under-relaxed by half to favor stability; decreases apply
// immediately. The result never drops below dtMin, except that a candidate
// overshooting the next scheduled save time is clamped to land exactly on
// the save boundary and the save flag is raised. The save boundary wins
// over the floor when the two conflict.
func AdaptTimestep(dt, uMax, uMaxK1, hmin, simTime, saveInterval, dtMin, cflTarget float64) (dtNew float64, save bool) {
	denom := 2*uMax - uMaxK1
	if denom < 1e-12 {
		denom = 1e-12
	}
	dtNew = cflTarget * hmin / denom
	if dtNew > dt {
		dtNew = 0.5*dtNew + 0.5*dt
	}
	if dtNew < dtMin {
		dtNew = dtMin
	}
	if saveInterval > 0 {
		next := (math.Floor(simTime/saveInterval) + 1) * saveInterval
		remaining := next - simTime
		if remaining <= 1e-9*saveInterval {
			// roundoff from landing exactly on a boundary; aim for the next one
			remaining += saveInterval
		}
		if dtNew+dtMin >= remaining {
			dtNew = remaining
			save = true
		}
	}
	return
}
