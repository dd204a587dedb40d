package pwm

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gr-butler/meteo/indicator"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// DefaultFrequency is fast enough that a moving coil needle sees a steady
// average current.
const DefaultFrequency = 1 * physic.KiloHertz

// Output drives indicator needles with hardware PWM on GPIO pins.
type Output struct {
	lock   sync.Mutex
	pins   map[string]gpio.PinOut
	levels map[string]indicator.DriveLevel
	freq   physic.Frequency
}

// New wraps pins that have already been looked up.
func New(pins map[string]gpio.PinOut, freq physic.Frequency) *Output {
	if freq == 0 {
		freq = DefaultFrequency
	}
	o := &Output{
		pins:   make(map[string]gpio.PinOut, len(pins)),
		levels: make(map[string]indicator.DriveLevel, len(pins)),
		freq:   freq,
	}
	for name, p := range pins {
		o.pins[name] = p
	}
	return o
}

// Open finds each named pin in the periph.io registry. host.Init must have
// been called first.
func Open(names []string, freq physic.Frequency) (*Output, error) {
	pins := make(map[string]gpio.PinOut, len(names))
	for _, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("failed to find PWM pin %v", name)
		}
		logger.Infof("Indicator output on [%v] (%v)", name, p.Function())
		pins[name] = p
	}
	return New(pins, freq), nil
}

// Duty converts a drive level into a periph.io duty cycle.
func Duty(level indicator.DriveLevel) gpio.Duty {
	return gpio.Duty(int64(level) * int64(gpio.DutyMax) / indicator.MaxLevel)
}

func (o *Output) Set(pin string, level indicator.DriveLevel) error {
	o.lock.Lock()
	defer o.lock.Unlock()
	p, ok := o.pins[pin]
	if !ok {
		return fmt.Errorf("unknown PWM pin %v", pin)
	}
	if err := p.PWM(Duty(level), o.freq); err != nil {
		return fmt.Errorf("pwm %v: %w", pin, err)
	}
	o.levels[pin] = level
	return nil
}

// Level returns the last level successfully written to pin.
func (o *Output) Level(pin string) (indicator.DriveLevel, bool) {
	o.lock.Lock()
	defer o.lock.Unlock()
	l, ok := o.levels[pin]
	return l, ok
}

// Pins lists the managed pins in name order.
func (o *Output) Pins() []string {
	o.lock.Lock()
	defer o.lock.Unlock()
	names := make([]string, 0, len(o.pins))
	for name := range o.pins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Park drops every needle to zero.
func (o *Output) Park() error {
	var errs []error
	for _, name := range o.Pins() {
		if err := o.Set(name, 0); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
