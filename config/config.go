package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gr-butler/meteo/env"
	"github.com/gr-butler/meteo/indicator"
	"github.com/gr-butler/meteo/sensors"
	"gopkg.in/yaml.v3"
)

// Indicator is one needle: where it is wired, what it shows and how far it
// may swing.
type Indicator struct {
	Name     string           `yaml:"name"`
	Pin      string           `yaml:"pin"`
	Quantity sensors.Quantity `yaml:"quantity"`
	Scale    string           `yaml:"scale"`
	// Ceiling defaults to full scale. Values above 255 are treated as 255.
	Ceiling *int `yaml:"ceiling,omitempty"`
	// Precise keeps tenths of a unit through the mapping.
	Precise  bool     `yaml:"precise"`
	BandLeds []string `yaml:"band_leds,omitempty"`
}

type Config struct {
	Interval          time.Duration `yaml:"interval"`
	PWMFrequencyHz    int64         `yaml:"pwm_frequency_hz"`
	HeartbeatLed      string        `yaml:"heartbeat_led"`
	StatusLed         string        `yaml:"status_led"`
	Smoothing         int           `yaml:"smoothing"`
	DiagnosticOnStart bool          `yaml:"diagnostic_on_start"`
	MetricsAddr       string        `yaml:"metrics_addr"`
	Indicators        []Indicator   `yaml:"indicators"`
}

func intPtr(i int) *int {
	return &i
}

// Default is the station as built: four needles on the hardware PWM pins,
// band LEDs for the two multi-scale dials.
func Default() *Config {
	return &Config{
		Interval:       env.UpdateInterval,
		PWMFrequencyHz: env.PWMFrequencyHz,
		HeartbeatLed:   env.HeartbeatLed,
		StatusLed:      env.StatusLed,
		Smoothing:      1,
		MetricsAddr:    env.MetricsAddr,
		Indicators: []Indicator{
			{Name: "temp_in", Pin: env.TempInNeedle, Quantity: sensors.TempIn, Scale: indicator.ScaleTempIn, Ceiling: intPtr(255), Precise: true},
			{Name: "temp_out", Pin: env.TempOutNeedle, Quantity: sensors.TempOut, Scale: indicator.ScaleTempOut, Ceiling: intPtr(255), Precise: true,
				BandLeds: []string{env.TempOutBandLow, env.TempOutBandMid, env.TempOutBandHigh}},
			{Name: "humidity", Pin: env.HumidityNeedle, Quantity: sensors.Humidity, Scale: indicator.ScaleHumidity, Ceiling: intPtr(255)},
			{Name: "pressure", Pin: env.PressureNeedle, Quantity: sensors.Pressure, Scale: indicator.ScalePressure, Ceiling: intPtr(255),
				BandLeds: []string{env.PressureBandLow, env.PressureBandMid, env.PressureBandHigh}},
		},
	}
}

// Load reads a YAML config from path. Settings missing from the file keep
// their Default values; a file that lists indicators replaces the default
// list entirely.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (*Config, error) {
	c := Default()
	defaults := c.Indicators
	c.Indicators = nil

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if c.Indicators == nil {
		c.Indicators = defaults
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if c.Smoothing < 1 {
		return fmt.Errorf("smoothing must be at least 1, got %v", c.Smoothing)
	}
	if c.PWMFrequencyHz <= 0 {
		return fmt.Errorf("pwm_frequency_hz must be positive, got %v", c.PWMFrequencyHz)
	}

	names := map[string]bool{}
	pins := map[string]string{}
	claim := func(pin, owner string) error {
		if pin == "" {
			return fmt.Errorf("%v: empty pin", owner)
		}
		if other, ok := pins[pin]; ok {
			return fmt.Errorf("pin %v used by both %v and %v", pin, other, owner)
		}
		pins[pin] = owner
		return nil
	}
	for _, l := range []struct{ pin, owner string }{{c.HeartbeatLed, "heartbeat_led"}, {c.StatusLed, "status_led"}} {
		if l.pin == "" {
			continue
		}
		if err := claim(l.pin, l.owner); err != nil {
			return err
		}
	}

	for _, ind := range c.Indicators {
		if ind.Name == "" {
			return errors.New("indicator without a name")
		}
		if names[ind.Name] {
			return fmt.Errorf("duplicate indicator %v", ind.Name)
		}
		names[ind.Name] = true
		if err := claim(ind.Pin, ind.Name); err != nil {
			return err
		}
		if _, ok := (sensors.Reading{}).Value(ind.Quantity); !ok {
			return fmt.Errorf("%v: unknown quantity %q", ind.Name, ind.Quantity)
		}
		scale, ok := indicator.NamedScale(ind.Scale)
		if !ok {
			return fmt.Errorf("%v: unknown scale %q", ind.Name, ind.Scale)
		}
		if len(ind.BandLeds) > 0 && len(ind.BandLeds) != len(scale.Bands) {
			return fmt.Errorf("%v: %v band LEDs for %v bands", ind.Name, len(ind.BandLeds), len(scale.Bands))
		}
		for _, p := range ind.BandLeds {
			if err := claim(p, ind.Name+" band LED"); err != nil {
				return err
			}
		}
	}
	return nil
}

// CeilingValue returns the indicator's calibration ceiling.
func (i Indicator) CeilingValue() indicator.Ceiling {
	if i.Ceiling == nil {
		return indicator.MaxLevel
	}
	return indicator.Ceiling(*i.Ceiling)
}

// Channels lists the needles for the diagnostic sweep.
func (c *Config) Channels() []indicator.Channel {
	channels := make([]indicator.Channel, 0, len(c.Indicators))
	for _, i := range c.Indicators {
		channels = append(channels, indicator.Channel{Name: i.Name, Pin: i.Pin, Ceiling: i.CeilingValue()})
	}
	return channels
}

// NeedlePins lists the PWM pins in indicator order.
func (c *Config) NeedlePins() []string {
	pins := make([]string, 0, len(c.Indicators))
	for _, i := range c.Indicators {
		pins = append(pins, i.Pin)
	}
	return pins
}
