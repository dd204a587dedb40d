package led

import (
	"fmt"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// PulseDuration is the on (and off) time of one blink.
const PulseDuration = time.Millisecond * 100

type LED struct {
	Name    string
	lock    sync.Mutex
	on      bool
	pulse   time.Duration
	gpioPin gpio.PinOut
}

func New(name string, pin gpio.PinOut) *LED {
	l := &LED{
		Name:    name,
		pulse:   PulseDuration,
		gpioPin: pin,
	}
	if pin != nil {
		_ = pin.Out(gpio.Low)
	}
	return l
}

// Open looks the pin up by name. A missing LED is not fatal, the returned
// LED simply does nothing.
func Open(name string, pinName string) *LED {
	logger.Infof("Creating new LED on pin [%v] called [%v]", pinName, name)
	p := gpioreg.ByName(pinName)
	if p == nil {
		logger.Errorf("Failed to find %v pin", pinName)
		return New(name, nil)
	}
	return New(name, p)
}

// SetPulse changes the blink timing, mainly so tests do not sleep.
func (l *LED) SetPulse(d time.Duration) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.pulse = d
}

func (l *LED) On() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.on = true
	if l.gpioPin != nil {
		_ = l.gpioPin.Out(gpio.High)
	}
}

func (l *LED) Off() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.on = false
	if l.gpioPin != nil {
		_ = l.gpioPin.Out(gpio.Low)
	}
}

// Flash briefly inverts the LED. Requests that arrive while a flash is
// already running are dropped.
func (l *LED) Flash() {
	if l.gpioPin == nil {
		return
	}
	if !l.lock.TryLock() {
		logger.Debugf("LED [%v] busy", l.Name)
		return
	}
	defer l.lock.Unlock()
	if !l.on {
		_ = l.gpioPin.Out(gpio.High)
		time.Sleep(l.pulse)
		_ = l.gpioPin.Out(gpio.Low)
	} else {
		_ = l.gpioPin.Out(gpio.Low)
		time.Sleep(l.pulse)
		_ = l.gpioPin.Out(gpio.High)
	}
}

// Blink signals an error code: count on/off pulses, then the LED is left off.
func (l *LED) Blink(count int) error {
	if count < 1 || count > 100 {
		return fmt.Errorf("blink count %v out of range", count)
	}
	if l.gpioPin == nil {
		return nil
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	for i := 0; i < count; i++ {
		if err := l.gpioPin.Out(gpio.High); err != nil {
			return err
		}
		time.Sleep(l.pulse)
		if err := l.gpioPin.Out(gpio.Low); err != nil {
			return err
		}
		time.Sleep(l.pulse)
	}
	l.on = false
	return nil
}

func (l *LED) IsOn() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.on
}
