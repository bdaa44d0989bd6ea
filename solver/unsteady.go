package solver

import (
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/agushin101/WindSE/flow"
	"github.com/agushin101/WindSE/inflow"
	"github.com/agushin101/WindSE/output"
)

// UnsteadySolver drives the fractional-step scheme. Each timestep walks the
// fixed sequence: turbine-force refresh, tentative velocity, pressure
// correction, velocity correction, history shift, time advance, save
// handling, timestep adaptation. Terminal condition: simTime >= FinalTime.
type UnsteadySolver struct {
	Problem *flow.UnsteadyProblem
	Out     *output.Writer
	Inflow  *inflow.Interpolator

	FinalTime    float64
	SaveInterval float64
	CFLTarget    float64
	DtMin        float64
	LinTol       float64
	LinMaxIt     int

	SimTime   float64
	Steps     int
	saveCount int

	uMaxK1      float64
	pendingSave bool
}

func NewUnsteadySolver(prb *flow.UnsteadyProblem, out *output.Writer, opts Options) (s *UnsteadySolver, err error) {
	if opts.FinalTime <= 0 {
		return nil, fmt.Errorf("unsteady solve needs a positive final time, have %g", opts.FinalTime)
	}
	s = &UnsteadySolver{
		Problem:      prb,
		Out:          out,
		FinalTime:    opts.FinalTime,
		SaveInterval: opts.SaveInterval,
		CFLTarget:    opts.CFLTarget,
		DtMin:        opts.DtMin,
		LinTol:       opts.LinearTol,
		LinMaxIt:     opts.LinearMaxIt,
	}
	if s.CFLTarget <= 0 {
		s.CFLTarget = DefaultCFLTarget
	}
	if opts.InflowDir != "" {
		if s.Inflow, err = inflow.ReadDirectory(opts.InflowDir); err != nil {
			return nil, err
		}
	}
	s.uMaxK1 = peakSpeed(prb)
	return
}

// peakSpeed is the maximum velocity magnitude over the previous-step field.
func peakSpeed(prb *flow.UnsteadyProblem) (m float64) {
	var (
		np  = prb.Dom.Np()
		dim = prb.Dom.Dim
	)
	for i := 0; i < np; i++ {
		var v float64
		for c := 0; c < dim; c++ {
			v += prb.Uk1[c*np+i] * prb.Uk1[c*np+i]
		}
		if v > m {
			m = v
		}
	}
	return math.Sqrt(m)
}

func (s *UnsteadySolver) Solve() (err error) {
	var (
		prb = s.Problem
	)
	log.WithFields(log.Fields{
		"finalTime": s.FinalTime,
		"dt0":       prb.Dt,
		"unknowns":  prb.Dom.Np() * (prb.Dom.Dim + 1),
	}).Info("starting unsteady solve")
	fmt.Printf("    step    time      dt      u_max  lin_iters\n")

	if prb.Dt > s.FinalTime {
		prb.Dt = s.FinalTime
	}
	start := time.Now()
	for s.SimTime < s.FinalTime {
		// 1. turbine force from the previous velocity
		prb.RefreshTurbineForce()

		// 2. tentative velocity
		itT, _, terr := prb.SolveTentative(s.LinTol, s.LinMaxIt)
		if terr != nil {
			return terr
		}

		// 3. pressure correction, velocity correction
		itP, okP := prb.SolvePressure(s.LinTol, s.LinMaxIt)
		if !okP {
			return fmt.Errorf("pressure correction failed to converge at t=%g", s.SimTime)
		}
		prb.CorrectVelocity()

		// 4. shift history, 5. advance time
		prb.ShiftHistory()
		s.SimTime += prb.Dt
		s.Steps++

		uMax := peakSpeed(prb)
		fmt.Printf("%8d%8.4f%8.5f%11.4e%11d\n", s.Steps, s.SimTime, prb.Dt, uMax, itT+itP)

		// 6. handle a save boundary flagged by the previous adaptation
		if s.pendingSave {
			if err = s.saveStep(); err != nil {
				return err
			}
			s.pendingSave = false
		}

		// 7. adapt dt; the dt-dependent operator is rebuilt on the next
		// tentative assembly
		prb.Dt, s.pendingSave = AdaptTimestep(prb.Dt, uMax, s.uMaxK1,
			prb.Dom.Hmin(), s.SimTime, s.SaveInterval, s.DtMin, s.CFLTarget)
		s.uMaxK1 = uMax

		if remaining := s.FinalTime - s.SimTime; remaining > 0 && prb.Dt > remaining {
			// the next save boundary, if one was flagged, lies beyond the
			// end of the run
			prb.Dt = remaining
			s.pendingSave = false
		}
	}
	log.WithFields(log.Fields{
		"steps":   s.Steps,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("unsteady solve complete")
	return nil
}

// saveStep reloads the next precomputed turbulence slice into the inflow
// constraints and appends the time-series records. Running out of slices is
// fatal: the simulation cannot continue without inflow data.
func (s *UnsteadySolver) saveStep() (err error) {
	prb := s.Problem
	if s.Inflow != nil {
		if err = prb.BD.SetInflowSlice(s.Inflow, s.saveCount); err != nil {
			return err
		}
	}
	s.saveCount++
	return s.Save(s.SimTime)
}

// Save appends one record per field at the given simulation time.
func (s *UnsteadySolver) Save(t float64) (err error) {
	if s.Out == nil {
		return nil
	}
	prb := s.Problem
	for _, rec := range []struct {
		name   string
		values []float64
	}{
		{"velocity", prb.Uk1},
		{"pressure", prb.Pk1},
		{"eddy_viscosity", prb.NuT},
		{"turbine_force", prb.TF},
	} {
		if rec.values == nil {
			continue
		}
		if err = s.Out.AppendRecord(rec.name, t, rec.values); err != nil {
			return err
		}
	}
	return nil
}
