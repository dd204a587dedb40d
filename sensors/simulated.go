package sensors

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"
)

// SimulatedPeriod is how long the simulated weather takes to swing from one
// end of every scale to the other and back.
const SimulatedPeriod = 10 * time.Minute

// Simulated produces readings that slowly sweep each quantity across the
// station's dial ranges. Used in test mode when no sensors are attached.
type Simulated struct {
	clock clockwork.Clock
	start time.Time
}

func NewSimulated(clock clockwork.Clock) *Simulated {
	return &Simulated{clock: clock, start: clock.Now()}
}

func (s *Simulated) Read() (Reading, error) {
	now := s.clock.Now()
	phase := 2 * math.Pi * float64(now.Sub(s.start)) / float64(SimulatedPeriod)
	// 0 at the start, 1 half way through the period
	x := (1 - math.Cos(phase)) / 2
	return Reading{
		Time:     now,
		TempIn:   round1(10 + 30*x),
		TempOut:  round1(-30 + 90*x),
		Humidity: round1(100 * x),
		Pressure: round1(960 + 90*x),
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
