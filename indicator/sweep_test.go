package indicator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	lock   sync.Mutex
	levels map[string]DriveLevel
	writes int
	broken string
}

func newRecorder() *recorder {
	return &recorder{levels: make(map[string]DriveLevel)}
}

func (r *recorder) Set(pin string, level DriveLevel) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if pin == r.broken {
		return errors.New("pin not responding")
	}
	r.levels[pin] = level
	r.writes++
	return nil
}

func (r *recorder) level(pin string) DriveLevel {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.levels[pin]
}

func testChannels() []Channel {
	return []Channel{
		{Name: "a", Pin: "A", Ceiling: 255},
		{Name: "b", Pin: "B", Ceiling: 128},
	}
}

func apply(state map[string]DriveLevel, step Step) {
	for _, w := range step.Writes {
		state[w.Pin] = w.Level
	}
}

func TestSweepStepCountAndPhases(t *testing.T) {
	sw := NewSweep(testChannels())
	require.Equal(t, SweepSteps, sw.Remaining())
	require.Equal(t, 261, SweepSteps)

	var phases []Phase
	count := 0
	for {
		step, ok := sw.Next()
		if !ok {
			break
		}
		assert.Equal(t, count, step.Index)
		if step.Phase == PhaseRamp {
			assert.Equal(t, RampStepDelay, step.Pause)
		} else {
			assert.Equal(t, RestDelay, step.Pause)
		}
		if len(phases) == 0 || phases[len(phases)-1] != step.Phase {
			phases = append(phases, step.Phase)
		}
		count++
	}

	assert.Equal(t, SweepSteps, count)
	assert.Equal(t, 0, sw.Remaining())
	assert.Equal(t, []Phase{PhaseRamp, PhaseHoldFull, PhaseHoldTwoThirds, PhaseHoldHalf, PhaseHoldThird, PhaseHoldZero}, phases)

	_, ok := sw.Next()
	assert.False(t, ok)
}

func TestSweepLowCeilingHoldsDuringRamp(t *testing.T) {
	sw := NewSweep(testChannels())
	state := map[string]DriveLevel{}

	for i := 0; i <= 200; i++ {
		step, ok := sw.Next()
		require.True(t, ok)
		apply(state, step)
		if i == 200 {
			require.Len(t, step.Writes, 1)
			assert.Equal(t, Write{Pin: "A", Level: 200}, step.Writes[0])
		}
	}
	assert.Equal(t, DriveLevel(200), state["A"])
	assert.Equal(t, DriveLevel(128), state["B"])
}

func TestSweepPhaseEndValues(t *testing.T) {
	sw := NewSweep(testChannels())
	state := map[string]DriveLevel{}
	ends := map[string][]DriveLevel{}

	for {
		step, ok := sw.Next()
		if !ok {
			break
		}
		apply(state, step)
		if step.Phase != PhaseRamp || step.Index == MaxLevel {
			for _, pin := range []string{"A", "B"} {
				ends[pin] = append(ends[pin], state[pin])
			}
		}
	}

	assert.Equal(t, []DriveLevel{255, 255, 170, 127, 85, 0}, ends["A"])
	assert.Equal(t, []DriveLevel{128, 128, 85, 64, 42, 0}, ends["B"])
}

func TestSweepClampsCeiling(t *testing.T) {
	channels := []Channel{{Name: "big", Pin: "X", Ceiling: 300}}
	sw := NewSweep(channels)
	state := map[string]DriveLevel{}
	for i := 0; i < rampSteps+2; i++ {
		step, _ := sw.Next()
		apply(state, step)
	}
	assert.Equal(t, DriveLevel(170), state["X"])
	// the caller's slice is left alone
	assert.Equal(t, Ceiling(300), channels[0].Ceiling)
}

func TestSweepNoChannels(t *testing.T) {
	sw := NewSweep(nil)
	for {
		step, ok := sw.Next()
		if !ok {
			break
		}
		assert.Empty(t, step.Writes)
	}
}

type fakeClock interface {
	BlockUntil(n int)
	Advance(d time.Duration)
}

// drive advances the fake clock once per step until the sweep stops waiting.
func drive(fc fakeClock, steps int) {
	for i := 0; i < steps; i++ {
		fc.BlockUntil(1)
		fc.Advance(RestDelay)
	}
}

func TestRunDiagnosticSweep(t *testing.T) {
	rec := newRecorder()
	fc := clockwork.NewFakeClock()
	done := make(chan error, 1)

	go func() {
		done <- RunDiagnosticSweep(context.Background(), rec, fc, testChannels())
	}()
	drive(fc, SweepSteps)

	require.NoError(t, <-done)
	assert.Equal(t, DriveLevel(0), rec.level("A"))
	assert.Equal(t, DriveLevel(0), rec.level("B"))
	// 256 + 129 ramp writes, then two per hold phase except hold-full
	assert.Equal(t, 256+129+2*4, rec.writes)
}

func TestRunDiagnosticSweepCancel(t *testing.T) {
	rec := newRecorder()
	fc := clockwork.NewFakeClock()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- RunDiagnosticSweep(ctx, rec, fc, testChannels())
	}()
	drive(fc, 10)
	fc.BlockUntil(1)
	cancel()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, DriveLevel(10), rec.level("A"))
	assert.Equal(t, DriveLevel(10), rec.level("B"))
}

func TestRunDiagnosticSweepParkOnCancel(t *testing.T) {
	rec := newRecorder()
	fc := clockwork.NewFakeClock()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- RunDiagnosticSweep(ctx, rec, fc, testChannels(), ParkOnCancel())
	}()
	drive(fc, 100)
	fc.BlockUntil(1)
	cancel()

	require.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, DriveLevel(0), rec.level("A"))
	assert.Equal(t, DriveLevel(0), rec.level("B"))
}

func TestRunDiagnosticSweepAlreadyCancelled(t *testing.T) {
	rec := newRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunDiagnosticSweep(ctx, rec, clockwork.NewFakeClock(), testChannels())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, rec.writes)
}

func TestRunDiagnosticSweepKeepsGoingOnWriteError(t *testing.T) {
	rec := newRecorder()
	rec.broken = "B"
	fc := clockwork.NewFakeClock()
	done := make(chan error, 1)

	go func() {
		done <- RunDiagnosticSweep(context.Background(), rec, fc, testChannels())
	}()
	drive(fc, SweepSteps)

	require.NoError(t, <-done)
	assert.Equal(t, DriveLevel(0), rec.level("A"))
	assert.Equal(t, 256+4, rec.writes)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "ramp", PhaseRamp.String())
	assert.Equal(t, "hold-2/3", PhaseHoldTwoThirds.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
