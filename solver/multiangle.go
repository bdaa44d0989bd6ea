package solver

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/agushin101/WindSE/utils"
)

// MultiAngleSolver repeats the steady solve over a sequence of inflow
// directions, optionally accumulating the power functional consumed by an
// external optimization loop.
type MultiAngleSolver struct {
	Steady *SteadySolver
	Angles []float64

	Optimizing bool
	J          float64 // accumulated power functional
}

// NewMultiAngleSolver builds the sweep. The domain must keep well-defined
// boundary markers under arbitrary rotation; anything else is a fatal
// configuration error raised here, at construction.
func NewMultiAngleSolver(steady *SteadySolver, opts Options) (s *MultiAngleSolver, err error) {
	dom := steady.Problem.Dom
	if !dom.Shape.Rotatable() {
		return nil, fmt.Errorf("a %s domain cannot solve multiple wind angles; use a circle or cylinder domain", dom.Shape)
	}
	angles := opts.Angles
	if len(angles) == 0 {
		if opts.NumWindAngles < 1 {
			return nil, fmt.Errorf("angle sweep needs at least one wind angle")
		}
		wr := opts.WindRange
		if wr == [2]float64{} {
			wr = [2]float64{0, 2 * math.Pi}
		}
		angles = utils.Linspace(wr[0], wr[1], opts.NumWindAngles, opts.Endpoint)
	}
	s = &MultiAngleSolver{
		Steady:     steady,
		Angles:     angles,
		Optimizing: opts.Optimizing,
	}
	return
}

func (s *MultiAngleSolver) Solve() (err error) {
	var (
		steady = s.Steady
		prb    = steady.Problem
	)
	for i, theta := range s.Angles {
		log.WithFields(log.Fields{
			"solve": fmt.Sprintf("%d of %d", i+1, len(s.Angles)),
			"angle": theta,
		}).Info("wind angle sweep")
		// the first angle can reuse the state the domain was built for
		if i > 0 || !utils.Near(theta, prb.Dom.InitWind) {
			if err = steady.ChangeWindAngle(theta); err != nil {
				return err
			}
		}
		if err = steady.SolveAt(theta); err != nil {
			return err
		}
		if s.Optimizing {
			s.J += prb.Farm.Power(prb.Dom, prb.U, prb.DeltaYaw)
		}
	}
	if s.Optimizing {
		log.WithField("J", s.J).Info("accumulated power functional")
	}
	return nil
}

// Save writes the current steady state labeled by iterVal.
func (s *MultiAngleSolver) Save(iterVal float64) error {
	return s.Steady.Save(iterVal)
}
