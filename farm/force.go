package farm

import (
	"math"

	"github.com/agushin101/WindSE/domain"
)

const (
	// AxialSharpness is the default exponent of the axial thickness profile.
	// Its normalization constant is 2*Gamma(1+1/10) = 1.902701539733748, so
	// the profile integrates to one along the rotor axis.
	AxialSharpness = 10.0

	// RadialSharpness is the exponent of the disk profile.
	RadialSharpness = 6.0

	// thrustShapeNorm normalizes the radial-weighted average of the
	// root/tip taper r/R*sin(pi*r/R)+0.5 to one.
	thrustShapeNorm = 0.81831

	// forceFloor truncates vanishing force magnitudes to exactly zero so
	// denormals never reach the linear solve.
	forceFloor = 1e-50
)

// AxialNorm is the normalization constant of the axial profile for a given
// sharpness p: integral of exp(-(x/W)^p) over the axis equals AxialNorm(p)*W.
func AxialNorm(p float64) float64 {
	return 2 * math.Gamma(1+1/p)
}

// RadialNorm is the normalization constant of the disk profile: the integral
// of exp(-(r/R)^q) over the disk plane equals RadialNorm(q)*R^2.
func RadialNorm(q float64) float64 {
	return math.Pi * math.Gamma(1+2/q)
}

// AxialProfile is the smeared thickness profile T(x_local), normalized to
// integrate to one along the rotor axis.
func AxialProfile(xl, W, p float64) float64 {
	return math.Exp(-math.Pow(math.Abs(xl)/W, p)) / (AxialNorm(p) * W)
}

// RadialProfile is the disk profile D(r_local), normalized so its integral
// over the disk plane is one.
func RadialProfile(r, R float64) float64 {
	return math.Exp(-math.Pow(r/R, RadialSharpness)) / (RadialNorm(RadialSharpness) * R * R)
}

// Thrust is the actuator-disk thrust scaling at radius r, tapered toward
// blade root and tip by the sinusoidal shape term.
func Thrust(r, R, a float64) float64 {
	shape := (r/R*math.Sin(math.Pi*r/R) + 0.5) / thrustShapeNorm
	return 4 * 0.5 * math.Pi * R * R * a / (1 - a) * shape
}

// Force computes the volumetric momentum-sink field for the whole farm at
// every DOF, quadratic in the sampled velocity. u holds the velocity in
// component-major blocks of length dom.Np(); the result uses the same
// layout. deltaYaw is the offset between the current wind angle and the
// angle the farm was described for.
//
// Contributions from all turbines are summed at every point; the profiles
// decay to nothing within a few radii so no spatial culling is done. When
// every yaw is negligible the axial velocity sample collapses to the
// planform speed, matching the small-yaw residual branch.
func (f *Farm) Force(dom *domain.Domain, u []float64, deltaYaw float64) (tf []float64) {
	var (
		np    = dom.Np()
		dim   = dom.Dim
		yawed = f.Yawed(deltaYaw)
	)
	tf = make([]float64, dim*np)
	for i := 0; i < np; i++ {
		x, y, z := dom.Coord(i)
		ux := u[i]
		uy := u[np+i]
		for _, t := range f.Turbines {
			yaw := t.Yaw + deltaYaw
			cy, sy := math.Cos(yaw), math.Sin(yaw)
			var usq float64
			if yawed {
				ud := ux*cy + uy*sy
				usq = ud * ud
			} else {
				usq = ux*ux + uy*uy
			}
			for _, c := range rotorCenters(t, yaw) {
				xl, yl, zl := yawLocal(x, y, z, c[0], c[1], c[2], yaw)
				r := math.Abs(yl)
				if dim == 3 {
					r = math.Hypot(yl, zl)
				}
				R := 0.5 * t.Diameter
				mag := Thrust(r, R, t.Axial) *
					AxialProfile(xl, t.Thickness, t.sharpness()) *
					RadialProfile(r, R) * usq
				if math.Abs(mag) < forceFloor {
					continue
				}
				tf[i] -= mag * cy
				tf[np+i] -= mag * sy
			}
		}
	}
	return
}

// ForceCoefficient returns the velocity-independent part of the force as a
// per-node scalar s(x) and the shared axial unit vector, for the steady
// residuals that fuse the force symbolically. The full force at a node is
// -s(x) * usq * e_hat with usq supplied by the residual.
func (f *Farm) ForceCoefficient(dom *domain.Domain, deltaYaw float64) (s []float64, ex, ey []float64) {
	var (
		np  = dom.Np()
		dim = dom.Dim
	)
	s = make([]float64, np)
	ex = make([]float64, np)
	ey = make([]float64, np)
	for i := 0; i < np; i++ {
		x, y, z := dom.Coord(i)
		var fx, fy float64
		for _, t := range f.Turbines {
			yaw := t.Yaw + deltaYaw
			cy, sy := math.Cos(yaw), math.Sin(yaw)
			for _, c := range rotorCenters(t, yaw) {
				xl, yl, zl := yawLocal(x, y, z, c[0], c[1], c[2], yaw)
				r := math.Abs(yl)
				if dim == 3 {
					r = math.Hypot(yl, zl)
				}
				R := 0.5 * t.Diameter
				mag := Thrust(r, R, t.Axial) *
					AxialProfile(xl, t.Thickness, t.sharpness()) *
					RadialProfile(r, R)
				if math.Abs(mag) < forceFloor {
					continue
				}
				fx += mag * cy
				fy += mag * sy
			}
		}
		s[i] = math.Hypot(fx, fy)
		if s[i] > 0 {
			ex[i] = fx / s[i]
			ey[i] = fy / s[i]
		}
	}
	return
}

// Power evaluates the power functional -sum_i integral(T*D*(u.e)^2*(u.e)),
// the objective an external optimization loop consumes.
func (f *Farm) Power(dom *domain.Domain, u []float64, deltaYaw float64) (J float64) {
	var (
		np  = dom.Np()
		dim = dom.Dim
		vol = dom.CellVolume()
	)
	for i := 0; i < np; i++ {
		x, y, z := dom.Coord(i)
		ux := u[i]
		uy := u[np+i]
		for _, t := range f.Turbines {
			yaw := t.Yaw + deltaYaw
			cy, sy := math.Cos(yaw), math.Sin(yaw)
			ud := ux*cy + uy*sy
			for _, c := range rotorCenters(t, yaw) {
				xl, yl, zl := yawLocal(x, y, z, c[0], c[1], c[2], yaw)
				r := math.Abs(yl)
				if dim == 3 {
					r = math.Hypot(yl, zl)
				}
				R := 0.5 * t.Diameter
				TD := AxialProfile(xl, t.Thickness, t.sharpness()) * RadialProfile(r, R)
				J -= TD * ud * ud * ud * vol
			}
		}
	}
	return
}
