package led

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestOnOff(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO20", L: gpio.High}
	l := New("heartbeat", p)
	assert.Equal(t, gpio.Low, p.L)

	l.On()
	assert.True(t, l.IsOn())
	assert.Equal(t, gpio.High, p.L)

	l.Off()
	assert.False(t, l.IsOn())
	assert.Equal(t, gpio.Low, p.L)
}

func TestFlashRestoresState(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO20"}
	l := New("heartbeat", p)
	l.SetPulse(time.Millisecond)

	l.Flash()
	assert.Equal(t, gpio.Low, p.L)

	l.On()
	l.Flash()
	assert.Equal(t, gpio.High, p.L)
}

func TestBlink(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO21"}
	l := New("status", p)
	l.SetPulse(time.Millisecond)
	l.On()

	require.NoError(t, l.Blink(3))
	assert.False(t, l.IsOn())
	assert.Equal(t, gpio.Low, p.L)

	assert.Error(t, l.Blink(0))
	assert.Error(t, l.Blink(101))
}

func TestMissingPin(t *testing.T) {
	l := New("ghost", nil)
	l.On()
	l.Flash()
	assert.NoError(t, l.Blink(3))
	assert.True(t, l.IsOn())
}

func TestGroupSelect(t *testing.T) {
	pins := []*gpiotest.Pin{{N: "GPIO5"}, {N: "GPIO6"}, {N: "GPIO7"}}
	var leds []*LED
	for _, p := range pins {
		leds = append(leds, New(p.N, p))
	}
	g := NewGroup(leds...)
	assert.Equal(t, -1, g.Selected())
	assert.Equal(t, 3, g.Len())

	g.Select(1)
	assert.Equal(t, 1, g.Selected())
	assert.Equal(t, []gpio.Level{gpio.Low, gpio.High, gpio.Low}, []gpio.Level{pins[0].L, pins[1].L, pins[2].L})

	g.Select(2)
	assert.Equal(t, []gpio.Level{gpio.Low, gpio.Low, gpio.High}, []gpio.Level{pins[0].L, pins[1].L, pins[2].L})

	g.Select(7)
	assert.Equal(t, -1, g.Selected())
	assert.Equal(t, []gpio.Level{gpio.Low, gpio.Low, gpio.Low}, []gpio.Level{pins[0].L, pins[1].L, pins[2].L})
}
