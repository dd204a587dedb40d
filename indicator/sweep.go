package indicator

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

/*
Diagnostic sweep

Ramps every needle from 0 to full scale in ~4s, then parks them at full,
2/3, 1/2 and 1/3 of their own ceiling and finally at 0, pausing 2s at each
so the operator can check the printed scales line up. A channel whose ceiling
is below the ramp level stops advancing and holds at its ceiling until the
ramp finishes.

Every step writes absolute levels, so the sequence can be abandoned between
any two steps without leaving a needle in an inconsistent state.
*/

const (
	RampStepDelay = (4000 / MaxLevel) * time.Millisecond
	RestDelay     = 2 * time.Second

	rampSteps  = MaxLevel + 1
	holdPhases = 5

	// SweepSteps is the number of steps (and pauses) in a complete sweep.
	SweepSteps = rampSteps + holdPhases
)

// Output sets the drive level of the indicator on pin.
type Output interface {
	Set(pin string, level DriveLevel) error
}

// Channel is one indicator output and its calibration ceiling.
type Channel struct {
	Name    string
	Pin     string
	Ceiling Ceiling
}

type Phase int

const (
	PhaseRamp Phase = iota
	PhaseHoldFull
	PhaseHoldTwoThirds
	PhaseHoldHalf
	PhaseHoldThird
	PhaseHoldZero
)

func (p Phase) String() string {
	switch p {
	case PhaseRamp:
		return "ramp"
	case PhaseHoldFull:
		return "hold-full"
	case PhaseHoldTwoThirds:
		return "hold-2/3"
	case PhaseHoldHalf:
		return "hold-1/2"
	case PhaseHoldThird:
		return "hold-1/3"
	case PhaseHoldZero:
		return "hold-0"
	}
	return "unknown"
}

type Write struct {
	Pin   string
	Level DriveLevel
}

// Step is one point of the sweep: the writes to make, then how long to wait.
type Step struct {
	Phase  Phase
	Index  int
	Writes []Write
	Pause  time.Duration
}

// Sweep produces the diagnostic sequence one step at a time. It does no I/O
// and never sleeps; RunDiagnosticSweep is the usual driver.
type Sweep struct {
	channels []Channel
	next     int
}

func NewSweep(channels []Channel) *Sweep {
	s := &Sweep{channels: make([]Channel, len(channels))}
	for i, c := range channels {
		c.Ceiling = c.Ceiling.Clamp()
		s.channels[i] = c
	}
	return s
}

// Remaining is the number of steps Next will still return.
func (s *Sweep) Remaining() int {
	return SweepSteps - s.next
}

func (s *Sweep) Next() (Step, bool) {
	if s.next >= SweepSteps {
		return Step{}, false
	}
	index := s.next
	s.next++

	if index < rampSteps {
		step := Step{Phase: PhaseRamp, Index: index, Pause: RampStepDelay}
		for _, c := range s.channels {
			if int(c.Ceiling) >= index {
				step.Writes = append(step.Writes, Write{Pin: c.Pin, Level: DriveLevel(index)})
			}
		}
		return step, true
	}

	phase := Phase(index - rampSteps + 1)
	step := Step{Phase: phase, Index: index, Pause: RestDelay}
	if phase == PhaseHoldFull {
		// the needles are already at the top of the ramp
		return step, true
	}
	for _, c := range s.channels {
		step.Writes = append(step.Writes, Write{Pin: c.Pin, Level: holdLevel(phase, c.Ceiling)})
	}
	return step, true
}

// holdLevel uses integer division: a 255 ceiling gives 170, 127 and 85.
func holdLevel(phase Phase, ceiling Ceiling) DriveLevel {
	c := int(ceiling)
	switch phase {
	case PhaseHoldTwoThirds:
		return DriveLevel(c * 2 / 3)
	case PhaseHoldHalf:
		return DriveLevel(c * 1 / 2)
	case PhaseHoldThird:
		return DriveLevel(c * 1 / 3)
	}
	return 0
}

type sweepRunner struct {
	out   Output
	clock clockwork.Clock
	park  bool
}

type SweepOption func(*sweepRunner)

// ParkOnCancel drives every channel to 0 if the sweep is cancelled part way.
func ParkOnCancel() SweepOption {
	return func(r *sweepRunner) {
		r.park = true
	}
}

// RunDiagnosticSweep runs the full sweep on channels, waiting on clock
// between steps. It returns ctx.Err() if the context ends before the sweep
// completes; cancellation is noticed at every step boundary.
func RunDiagnosticSweep(ctx context.Context, out Output, clock clockwork.Clock, channels []Channel, opts ...SweepOption) error {
	r := &sweepRunner{out: out, clock: clock}
	for _, opt := range opts {
		opt(r)
	}

	logger.Infof("Starting diagnostic sweep on [%v] channels", len(channels))
	sw := NewSweep(channels)
	for {
		if err := ctx.Err(); err != nil {
			return r.abort(channels, err)
		}
		step, ok := sw.Next()
		if !ok {
			break
		}
		for _, w := range step.Writes {
			r.write(w.Pin, w.Level)
		}
		if step.Phase != PhaseRamp || step.Index == rampSteps-1 {
			logger.Debugf("Sweep phase [%v] reached", step.Phase)
		}
		select {
		case <-ctx.Done():
			return r.abort(channels, ctx.Err())
		case <-r.clock.After(step.Pause):
		}
	}
	logger.Info("Diagnostic sweep complete")
	return nil
}

func (r *sweepRunner) write(pin string, level DriveLevel) {
	if err := r.out.Set(pin, level); err != nil {
		logger.Warnf("Failed to set pin [%v] to [%v]: %v", pin, level, err)
	}
}

func (r *sweepRunner) abort(channels []Channel, err error) error {
	logger.Warnf("Diagnostic sweep cancelled [%v]", err)
	if r.park {
		for _, c := range channels {
			r.write(c.Pin, 0)
		}
	}
	return err
}
