package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type SimulationParameters struct {
	Title       string         `yaml:"Title"`
	ProblemType string         `yaml:"ProblemType"` // stabilized, taylor_hood, unsteady
	SolverType  string         `yaml:"SolverType"`  // steady, multiangle, unsteady
	OutputDir   string         `yaml:"OutputDir"`
	Domain      DomainParams   `yaml:"Domain"`
	Farm        FarmParams     `yaml:"Farm"`
	Boundary    BoundaryParams `yaml:"Boundary"`
	Physics     PhysicsParams  `yaml:"Physics"`
	Solver      SolverParams   `yaml:"Solver"`
}

type DomainParams struct {
	Shape         string     `yaml:"Shape"` // rectangle, box, circle, cylinder
	XRange        [2]float64 `yaml:"XRange"`
	YRange        [2]float64 `yaml:"YRange"`
	ZRange        [2]float64 `yaml:"ZRange"`
	Nx            int        `yaml:"Nx"`
	Ny            int        `yaml:"Ny"`
	Nz            int        `yaml:"Nz"`
	InitWindAngle float64    `yaml:"InitWindAngle"` // radians
}

type TurbineParams struct {
	X           float64 `yaml:"X"`
	Y           float64 `yaml:"Y"`
	HubHeight   float64 `yaml:"HubHeight"`
	Yaw         float64 `yaml:"Yaw"`
	Diameter    float64 `yaml:"Diameter"`
	Thickness   float64 `yaml:"Thickness"`
	Axial       float64 `yaml:"Axial"`
	NumRotors   int     `yaml:"NumRotors"`
	HingeOffset float64 `yaml:"HingeOffset"`
}

type FarmParams struct {
	Layout   string          `yaml:"Layout"` // grid or list
	Rows     int             `yaml:"Rows"`
	Cols     int             `yaml:"Cols"`
	ExRangeX [2]float64      `yaml:"ExRangeX"`
	ExRangeY [2]float64      `yaml:"ExRangeY"`
	Turbine  TurbineParams   `yaml:"Turbine"`  // template for grid layout
	Turbines []TurbineParams `yaml:"Turbines"` // explicit list layout
}

type BoundaryParams struct {
	Vmax      float64 `yaml:"Vmax"`
	Roughness float64 `yaml:"Roughness"`
}

type PhysicsParams struct {
	Nu        float64 `yaml:"Nu"`
	Eps       float64 `yaml:"Eps"`
	VonKarman float64 `yaml:"VonKarman"`
	LMax      float64 `yaml:"LMax"`
	MLDenom   float64 `yaml:"MLDenom"`
	Mu        float64 `yaml:"Mu"`
	Rho       float64 `yaml:"Rho"`
	Cs        float64 `yaml:"Cs"`
}

type SolverParams struct {
	FinalTime              float64   `yaml:"FinalTime"`
	SaveInterval           float64   `yaml:"SaveInterval"`
	CFLTarget              float64   `yaml:"CFLTarget"`
	DtMin                  float64   `yaml:"DtMin"`
	LinearTol              float64   `yaml:"LinearTol"`
	LinearMaxIterations    int       `yaml:"LinearMaxIterations"`
	MaxNonlinearIterations int       `yaml:"MaxNonlinearIterations"`
	NonlinearTol           float64   `yaml:"NonlinearTol"`
	Relaxation             float64   `yaml:"Relaxation"`
	WindRange              []float64 `yaml:"WindRange"`
	NumWindAngles          int       `yaml:"NumWindAngles"`
	Endpoint               bool      `yaml:"Endpoint"`
	Optimize               bool      `yaml:"Optimize"`
	InflowDir              string    `yaml:"InflowDir"`
}

func (ip *SimulationParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	ip.applyDefaults()
	return ip.validate()
}

func (ip *SimulationParameters) applyDefaults() {
	if ip.ProblemType == "" {
		ip.ProblemType = "stabilized"
	}
	if ip.SolverType == "" {
		ip.SolverType = "steady"
	}
	if ip.OutputDir == "" {
		ip.OutputDir = "output"
	}
	if ip.Farm.Layout == "" {
		ip.Farm.Layout = "grid"
	}
	if ip.Boundary.Vmax == 0 {
		ip.Boundary.Vmax = 8
	}
	if ip.Solver.MaxNonlinearIterations == 0 {
		ip.Solver.MaxNonlinearIterations = 40
	}
	if ip.Solver.NonlinearTol == 0 {
		ip.Solver.NonlinearTol = 1e-6
	}
	if ip.Solver.Relaxation == 0 {
		ip.Solver.Relaxation = 1
	}
	if ip.Solver.CFLTarget == 0 {
		ip.Solver.CFLTarget = 0.2
	}
	if ip.Solver.DtMin == 0 {
		ip.Solver.DtMin = 1e-4
	}
	if ip.Solver.LinearTol == 0 {
		ip.Solver.LinearTol = 1e-8
	}
	if ip.Solver.LinearMaxIterations == 0 {
		ip.Solver.LinearMaxIterations = 2000
	}
}

func (ip *SimulationParameters) validate() error {
	switch ip.ProblemType {
	case "stabilized", "taylor_hood", "unsteady":
	default:
		return fmt.Errorf("unknown ProblemType %q", ip.ProblemType)
	}
	switch ip.SolverType {
	case "steady", "multiangle", "unsteady":
	default:
		return fmt.Errorf("unknown SolverType %q", ip.SolverType)
	}
	switch ip.Farm.Layout {
	case "grid", "list":
	default:
		return fmt.Errorf("unknown Farm.Layout %q", ip.Farm.Layout)
	}
	if len(ip.Solver.WindRange) != 0 && len(ip.Solver.WindRange) != 2 {
		return fmt.Errorf("Solver.WindRange needs exactly two angles, have %d", len(ip.Solver.WindRange))
	}
	return nil
}

func (ip *SimulationParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= ProblemType\n", ip.ProblemType)
	fmt.Printf("[%s]\t\t= SolverType\n", ip.SolverType)
	fmt.Printf("[%s]\t\t= Domain Shape\n", ip.Domain.Shape)
	fmt.Printf("%d x %d x %d\t\t= Grid\n", ip.Domain.Nx, ip.Domain.Ny, ip.Domain.Nz)
	fmt.Printf("%8.5f\t\t= Initial Wind Angle\n", ip.Domain.InitWindAngle)
	fmt.Printf("%8.5f\t\t= Vmax\n", ip.Boundary.Vmax)
	if ip.SolverType == "unsteady" {
		fmt.Printf("%8.5f\t\t= FinalTime\n", ip.Solver.FinalTime)
		fmt.Printf("%8.5f\t\t= SaveInterval\n", ip.Solver.SaveInterval)
	}
	if ip.SolverType == "multiangle" {
		fmt.Printf("%d\t\t\t= NumWindAngles\n", ip.Solver.NumWindAngles)
	}
}
