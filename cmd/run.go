package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agushin101/WindSE/InputParameters"
	"github.com/agushin101/WindSE/boundary"
	"github.com/agushin101/WindSE/domain"
	"github.com/agushin101/WindSE/farm"
	"github.com/agushin101/WindSE/flow"
	"github.com/agushin101/WindSE/output"
	"github.com/agushin101/WindSE/solver"
)

func processInput(cmd *cobra.Command) (ip *InputParameters.SimulationParameters) {
	pf, err := cmd.Flags().GetString("paramsFile")
	if err != nil {
		panic(err)
	}
	if len(pf) == 0 {
		fmt.Printf("error: must supply a parameters file (-I, --paramsFile) in YAML format\n")
		exampleFile := `
########################################
Title: "3x2 grid farm"
ProblemType: stabilized  # or taylor_hood, unsteady
SolverType: steady       # or multiangle, unsteady
Domain:
  Shape: rectangle
  XRange: [-1200, 1200]
  YRange: [-1200, 1200]
  Nx: 48
  Ny: 48
Farm:
  Layout: grid
  Rows: 2
  Cols: 3
  ExRangeX: [-600, 600]
  ExRangeY: [-300, 300]
  Turbine:
    HubHeight: 90
    Diameter: 126
    Thickness: 10
    Axial: 0.33
Boundary:
  Vmax: 8
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	data, err := os.ReadFile(pf)
	if err != nil {
		panic(err)
	}
	ip = &InputParameters.SimulationParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

// buildFarm constructs the turbine collection from the parameters.
func buildFarm(ip *InputParameters.SimulationParameters) (*farm.Farm, error) {
	toTurbine := func(tp InputParameters.TurbineParams) farm.Turbine {
		return farm.Turbine{
			X: tp.X, Y: tp.Y, Z: tp.HubHeight,
			HubHeight:   tp.HubHeight,
			Yaw:         tp.Yaw,
			Diameter:    tp.Diameter,
			Thickness:   tp.Thickness,
			Axial:       tp.Axial,
			NumRotors:   tp.NumRotors,
			HingeOffset: tp.HingeOffset,
		}
	}
	if ip.Farm.Layout == "list" {
		turbines := make([]farm.Turbine, len(ip.Farm.Turbines))
		for i, tp := range ip.Farm.Turbines {
			turbines[i] = toTurbine(tp)
		}
		return farm.NewFarm(turbines)
	}
	return farm.NewGridFarm(ip.Farm.Rows, ip.Farm.Cols, ip.Farm.ExRangeX, ip.Farm.ExRangeY,
		toTurbine(ip.Farm.Turbine))
}

// buildSolver assembles the full pipeline: domain, farm, boundary data,
// flow problem and solver, in that order.
func buildSolver(ip *InputParameters.SimulationParameters) (s solver.Solver, err error) {
	shape, err := domain.NewShape(ip.Domain.Shape)
	if err != nil {
		return nil, err
	}
	dom, err := domain.NewDomain(shape, ip.Domain.XRange, ip.Domain.YRange, ip.Domain.ZRange,
		ip.Domain.Nx, ip.Domain.Ny, ip.Domain.Nz, ip.Domain.InitWindAngle)
	if err != nil {
		return nil, err
	}
	frm, err := buildFarm(ip)
	if err != nil {
		return nil, err
	}
	hubHeight := 0.0
	if frm.NumTurbines() > 0 {
		hubHeight = frm.Turbines[0].HubHeight
	}
	bd, err := boundary.NewData(dom, ip.Boundary.Vmax, hubHeight, ip.Boundary.Roughness)
	if err != nil {
		return nil, err
	}

	cfg := flow.DefaultConfig()
	applyPhysics(&cfg, ip.Physics)

	kind, err := flow.NewKind(ip.ProblemType)
	if err != nil {
		return nil, err
	}
	var prb solver.Problem
	if kind == flow.Unsteady {
		if prb, err = flow.NewUnsteadyProblem(dom, frm, bd, cfg); err != nil {
			return nil, err
		}
	} else {
		if prb, err = flow.NewSteadyProblem(kind, dom, frm, bd, cfg); err != nil {
			return nil, err
		}
	}

	out, err := output.NewWriter(ip.OutputDir)
	if err != nil {
		return nil, err
	}

	opts := solver.DefaultOptions()
	opts.MaxNonlinearIter = ip.Solver.MaxNonlinearIterations
	opts.NonlinearTol = ip.Solver.NonlinearTol
	opts.Relaxation = ip.Solver.Relaxation
	opts.FinalTime = ip.Solver.FinalTime
	opts.SaveInterval = ip.Solver.SaveInterval
	opts.CFLTarget = ip.Solver.CFLTarget
	opts.DtMin = ip.Solver.DtMin
	opts.LinearTol = ip.Solver.LinearTol
	opts.LinearMaxIt = ip.Solver.LinearMaxIterations
	opts.NumWindAngles = ip.Solver.NumWindAngles
	opts.Endpoint = ip.Solver.Endpoint
	opts.Optimizing = ip.Solver.Optimize
	opts.InflowDir = ip.Solver.InflowDir
	if len(ip.Solver.WindRange) == 2 {
		opts.WindRange = [2]float64{ip.Solver.WindRange[0], ip.Solver.WindRange[1]}
		// an explicit range includes its endpoint unless told otherwise
		opts.Endpoint = true
		if ip.Solver.NumWindAngles > 0 {
			opts.Endpoint = ip.Solver.Endpoint
		}
	}
	return solver.New(ip.SolverType, prb, out, opts)
}

func applyPhysics(cfg *flow.Config, ph InputParameters.PhysicsParams) {
	if ph.Nu != 0 {
		cfg.Nu = ph.Nu
	}
	if ph.Eps != 0 {
		cfg.Eps = ph.Eps
	}
	if ph.VonKarman != 0 {
		cfg.VonKarman = ph.VonKarman
	}
	if ph.LMax != 0 {
		cfg.LMax = ph.LMax
	}
	if ph.MLDenom != 0 {
		cfg.MLDenom = ph.MLDenom
	}
	if ph.Mu != 0 {
		cfg.Mu = ph.Mu
	}
	if ph.Rho != 0 {
		cfg.Rho = ph.Rho
	}
	if ph.Cs != 0 {
		cfg.Cs = ph.Cs
	}
}
