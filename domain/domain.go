package domain

import (
	"fmt"
	"math"
)

// Shape selects the domain geometry. Rectangle/Box carry wall markers fixed
// to the coordinate axes; Circle/Cylinder markers stay well defined under an
// arbitrary inflow rotation, which the multi-angle solver requires.
type Shape int

const (
	Rectangle Shape = iota
	Box
	Circle
	Cylinder
)

func NewShape(name string) (s Shape, err error) {
	switch name {
	case "rectangle":
		s = Rectangle
	case "box":
		s = Box
	case "circle":
		s = Circle
	case "cylinder":
		s = Cylinder
	default:
		err = fmt.Errorf("unknown domain shape %q", name)
	}
	return
}

func (s Shape) String() string {
	return [...]string{"rectangle", "box", "circle", "cylinder"}[s]
}

func (s Shape) Dim() int {
	if s == Box || s == Cylinder {
		return 3
	}
	return 2
}

// Rotatable reports whether boundary markers remain well defined for an
// arbitrary wind angle.
func (s Shape) Rotatable() bool {
	return s == Circle || s == Cylinder
}

// Side identifies which wall a boundary node sits on. X walls are
// Left/Right, Y walls Front/Back, Z walls Bottom/Top.
type Side int

const (
	Interior Side = iota
	Left
	Right
	Front
	Back
	Bottom
	Top
)

func (s Side) String() string {
	return [...]string{"interior", "left", "right", "front", "back", "bottom", "top"}[s]
}

// Normal returns the outward unit normal of the wall.
func (s Side) Normal() (n [3]float64) {
	switch s {
	case Left:
		n[0] = -1
	case Right:
		n[0] = 1
	case Front:
		n[1] = -1
	case Back:
		n[1] = 1
	case Bottom:
		n[2] = -1
	case Top:
		n[2] = 1
	}
	return
}

// Domain is a uniform structured grid over a rectangular extent. Mesh
// generation proper is out of scope; this supplies the collaborator contract
// the flow problems consume: DOF coordinates, spacing queries, the
// distance-to-ground field and boundary markers.
type Domain struct {
	Shape                  Shape
	Dim                    int
	XRange, YRange, ZRange [2]float64
	Nx, Ny, Nz             int
	InitWind               float64 // wind angle the markers were built for
	WindAngle              float64 // current wind angle

	h      [3]float64
	sides  []Side
	inflow []bool
}

func NewDomain(shape Shape, xr, yr, zr [2]float64, nx, ny, nz int, initWind float64) (d *Domain, err error) {
	dim := shape.Dim()
	if nx < 3 || ny < 3 {
		return nil, fmt.Errorf("domain needs at least 3 nodes per axis, have nx=%d ny=%d", nx, ny)
	}
	if dim == 2 {
		nz = 1
	} else if nz < 3 {
		return nil, fmt.Errorf("3D domain needs at least 3 nodes in z, have nz=%d", nz)
	}
	if xr[1] <= xr[0] || yr[1] <= yr[0] || (dim == 3 && zr[1] <= zr[0]) {
		return nil, fmt.Errorf("degenerate domain extent x=%v y=%v z=%v", xr, yr, zr)
	}
	d = &Domain{
		Shape:  shape,
		Dim:    dim,
		XRange: xr, YRange: yr, ZRange: zr,
		Nx: nx, Ny: ny, Nz: nz,
		InitWind:  initWind,
		WindAngle: initWind,
	}
	d.h[0] = (xr[1] - xr[0]) / float64(nx-1)
	d.h[1] = (yr[1] - yr[0]) / float64(ny-1)
	if dim == 3 {
		d.h[2] = (zr[1] - zr[0]) / float64(nz-1)
	}
	d.buildSides()
	d.markInflow(initWind)
	return
}

func (d *Domain) buildSides() {
	d.sides = make([]Side, d.Np())
	for i := range d.sides {
		ix, iy, iz := d.Indices(i)
		// walls ordered so the vertical walls win at edges and corners,
		// keeping the ground/no-penetration rows intact
		switch {
		case d.Dim == 3 && iz == 0:
			d.sides[i] = Bottom
		case d.Dim == 3 && iz == d.Nz-1:
			d.sides[i] = Top
		case ix == 0:
			d.sides[i] = Left
		case ix == d.Nx-1:
			d.sides[i] = Right
		case iy == 0:
			d.sides[i] = Front
		case iy == d.Ny-1:
			d.sides[i] = Back
		default:
			d.sides[i] = Interior
		}
	}
}

// markInflow classifies each lateral boundary node as upwind or downwind of
// the flow direction. Nodes whose wall normal opposes the wind vector carry
// the inflow Dirichlet rows.
func (d *Domain) markInflow(theta float64) {
	wind := [3]float64{math.Cos(theta), math.Sin(theta), 0}
	d.inflow = make([]bool, d.Np())
	for i, s := range d.sides {
		if s == Interior || s == Bottom || s == Top {
			continue
		}
		n := s.Normal()
		d.inflow[i] = n[0]*wind[0]+n[1]*wind[1] < -1e-10
	}
}

// RecomputeBoundaryMarkers reassigns inflow/outflow markers for a new wind
// angle. Only rotatable shapes support angles other than the one the domain
// was constructed with.
func (d *Domain) RecomputeBoundaryMarkers(theta float64) error {
	if !d.Shape.Rotatable() && math.Abs(theta-d.InitWind) > 1e-12 {
		return fmt.Errorf("domain shape %s does not support boundary marker rotation", d.Shape)
	}
	d.WindAngle = theta
	d.markInflow(theta)
	return nil
}

func (d *Domain) Np() int { return d.Nx * d.Ny * d.Nz }

func (d *Domain) Index(ix, iy, iz int) int {
	return ix + d.Nx*(iy+d.Ny*iz)
}

func (d *Domain) Indices(i int) (ix, iy, iz int) {
	ix = i % d.Nx
	iy = (i / d.Nx) % d.Ny
	iz = i / (d.Nx * d.Ny)
	return
}

func (d *Domain) Coord(i int) (x, y, z float64) {
	ix, iy, iz := d.Indices(i)
	x = d.XRange[0] + float64(ix)*d.h[0]
	y = d.YRange[0] + float64(iy)*d.h[1]
	if d.Dim == 3 {
		z = d.ZRange[0] + float64(iz)*d.h[2]
	}
	return
}

// Neighbor returns the node one step along the given axis (0=x,1=y,2=z) in
// direction dir (±1), and whether such a node exists.
func (d *Domain) Neighbor(i, axis, dir int) (j int, ok bool) {
	ix, iy, iz := d.Indices(i)
	idx := [3]int{ix, iy, iz}
	lim := [3]int{d.Nx, d.Ny, d.Nz}
	idx[axis] += dir
	if idx[axis] < 0 || idx[axis] >= lim[axis] {
		return -1, false
	}
	return d.Index(idx[0], idx[1], idx[2]), true
}

func (d *Domain) H(axis int) float64 { return d.h[axis] }

func (d *Domain) Hmin() (h float64) {
	h = d.h[0]
	for axis := 1; axis < d.Dim; axis++ {
		if d.h[axis] < h {
			h = d.h[axis]
		}
	}
	return
}

func (d *Domain) CellVolume() (v float64) {
	v = 1
	for axis := 0; axis < d.Dim; axis++ {
		v *= d.h[axis]
	}
	return
}

// FilterWidth is the Smagorinsky filter scale, cell volume^(1/dim).
func (d *Domain) FilterWidth() float64 {
	return math.Pow(d.CellVolume(), 1.0/float64(d.Dim))
}

// Ground returns the terrain height below (x,y). The domains here are
// flat-bottomed; terrain import belongs to the external mesh pipeline.
func (d *Domain) Ground(x, y float64) float64 {
	return d.ZRange[0]
}

// Depth is the distance-to-ground scalar used by the mixing-length closure.
// Zero in 2D, where the closure falls back to a hub-height fraction.
func (d *Domain) Depth(i int) float64 {
	if d.Dim == 2 {
		return 0
	}
	x, y, z := d.Coord(i)
	return z - d.Ground(x, y)
}

func (d *Domain) Side(i int) Side { return d.sides[i] }

func (d *Domain) IsBoundary(i int) bool {
	return d.sides[i] != Interior
}

// Inflow reports whether boundary node i currently faces the wind.
func (d *Domain) Inflow(i int) bool { return d.inflow[i] }
