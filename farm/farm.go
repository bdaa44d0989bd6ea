// Package farm holds the wind farm description and the actuator-disk force
// parametrization that couples the turbines into the flow problems.
package farm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Turbine parameters. Positions and geometry are fixed after load; Yaw is
// the one field mutated when the inflow direction changes.
type Turbine struct {
	X, Y, Z   float64 // hub position (Z used in 3D)
	HubHeight float64
	Yaw       float64 // radians, about the vertical axis
	Diameter  float64 // rotor diameter
	Thickness float64 // axial half-width W of the smeared disk
	Axial     float64 // induction factor a, 0 <= a < 1

	// Sharpness of the axial profile exponent. Zero means the default.
	Sharpness float64

	// Platforms can carry several rotors sharing one yaw, hinged at a fixed
	// lateral offset from the platform center.
	NumRotors   int
	HingeOffset float64
}

func (t Turbine) sharpness() float64 {
	if t.Sharpness == 0 {
		return AxialSharpness
	}
	return t.Sharpness
}

func (t Turbine) rotors() int {
	if t.NumRotors < 2 {
		return 1
	}
	return t.NumRotors
}

// Farm is the turbine collection consumed by the flow problems.
type Farm struct {
	Turbines []Turbine
}

// NewGridFarm lays turbines out on a rows x cols grid spanning the given
// extents, all sharing the same geometry.
func NewGridFarm(rows, cols int, exX, exY [2]float64, template Turbine) (f *Farm, err error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("grid farm needs at least 1x1 turbines, have %dx%d", rows, cols)
	}
	if err = validate(template); err != nil {
		return nil, err
	}
	f = &Farm{}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t := template
			t.X = gridCoord(exX, c, cols)
			t.Y = gridCoord(exY, r, rows)
			t.Z = t.HubHeight
			f.Turbines = append(f.Turbines, t)
		}
	}
	return
}

func gridCoord(ex [2]float64, i, n int) float64 {
	if n == 1 {
		return 0.5 * (ex[0] + ex[1])
	}
	return ex[0] + (ex[1]-ex[0])*float64(i)/float64(n-1)
}

// NewFarm builds a farm from an explicit turbine list.
func NewFarm(turbines []Turbine) (f *Farm, err error) {
	for _, t := range turbines {
		if err = validate(t); err != nil {
			return nil, err
		}
	}
	return &Farm{Turbines: turbines}, nil
}

func validate(t Turbine) error {
	if t.Diameter <= 0 || t.Thickness <= 0 {
		return fmt.Errorf("turbine geometry must be positive: diameter=%g thickness=%g", t.Diameter, t.Thickness)
	}
	if t.Axial < 0 || t.Axial >= 1 {
		return fmt.Errorf("induction factor must satisfy 0 <= a < 1, have %g", t.Axial)
	}
	return nil
}

func (f *Farm) NumTurbines() int { return len(f.Turbines) }

func (f *Farm) Yaws() (y []float64) {
	y = make([]float64, len(f.Turbines))
	for i, t := range f.Turbines {
		y[i] = t.Yaw
	}
	return
}

// Yawed reports whether any turbine carries a non-negligible yaw once the
// sweep offset is applied. Selects between the vector force term and the
// small-yaw scalar simplification in the steady residuals.
func (f *Farm) Yawed(deltaYaw float64) bool {
	for _, t := range f.Turbines {
		yaw := t.Yaw + deltaYaw
		if yaw*yaw > 1e-4 {
			return true
		}
	}
	return false
}

// RotationMatrix returns the yaw rotation about the vertical axis: 2x2 in
// plan view, 3x3 in 3D.
func RotationMatrix(yaw float64, dim int) *mat.Dense {
	c, s := math.Cos(yaw), math.Sin(yaw)
	if dim == 2 {
		return mat.NewDense(2, 2, []float64{c, -s, s, c})
	}
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// yawLocal maps a point into the turbine frame: axial along the rotor axis,
// the remaining components in the disk plane.
func yawLocal(x, y, z, x0, y0, z0, yaw float64) (xl, yl, zl float64) {
	c, s := math.Cos(yaw), math.Sin(yaw)
	dx, dy := x-x0, y-y0
	xl = c*dx + s*dy
	yl = -s*dx + c*dy
	zl = z - z0
	return
}

// rotorCenters returns the rotor hub positions of a platform, offset
// laterally from the platform center in the disk plane.
func rotorCenters(t Turbine, yaw float64) (centers [][3]float64) {
	n := t.rotors()
	c, s := math.Cos(yaw), math.Sin(yaw)
	for j := 0; j < n; j++ {
		off := (float64(j) - 0.5*float64(n-1)) * t.HingeOffset
		centers = append(centers, [3]float64{
			t.X - off*s,
			t.Y + off*c,
			t.Z,
		})
	}
	return
}
