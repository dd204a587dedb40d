package main

import (
	"context"
	"fmt"

	"github.com/gr-butler/meteo/buffer"
	"github.com/gr-butler/meteo/config"
	"github.com/gr-butler/meteo/indicator"
	"github.com/gr-butler/meteo/led"
	"github.com/gr-butler/meteo/sensors"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

// needle is one configured indicator and its running state.
type needle struct {
	cfg     config.Indicator
	scale   indicator.Scale
	ceiling indicator.Ceiling
	samples *buffer.SampleBuffer
	bands   *led.Group
}

type weatherstation struct {
	cfg       *config.Config
	reader    sensors.Reader
	out       indicator.Output
	clock     clockwork.Clock
	heartbeat *led.LED
	needles   []*needle
}

// openLED returns the LED wired to pin.
type openLED func(name, pin string) *led.LED

func newWeatherstation(cfg *config.Config, reader sensors.Reader, out indicator.Output, clock clockwork.Clock, heartbeat *led.LED, open openLED) (*weatherstation, error) {
	w := &weatherstation{
		cfg:       cfg,
		reader:    reader,
		out:       out,
		clock:     clock,
		heartbeat: heartbeat,
	}
	for _, ind := range cfg.Indicators {
		scale, ok := indicator.NamedScale(ind.Scale)
		if !ok {
			return nil, fmt.Errorf("%v: unknown scale %q", ind.Name, ind.Scale)
		}
		n := &needle{
			cfg:     ind,
			scale:   scale,
			ceiling: ind.CeilingValue(),
			samples: buffer.NewBuffer(cfg.Smoothing),
		}
		if len(ind.BandLeds) > 0 {
			var leds []*led.LED
			for i, pin := range ind.BandLeds {
				leds = append(leds, open(fmt.Sprintf("%v band %v", ind.Name, scale.Bands[i]), pin))
			}
			n.bands = led.NewGroup(leds...)
		}
		w.needles = append(w.needles, n)
	}
	return w, nil
}

// update reads the sensors once and moves every needle.
func (w *weatherstation) update() error {
	r, err := w.reader.Read()
	if err != nil {
		return fmt.Errorf("sensor read: %w", err)
	}

	for _, n := range w.needles {
		v, ok := r.Value(n.cfg.Quantity)
		if !ok {
			continue
		}
		n.samples.AddItem(v)
		avg, _, _, _ := n.samples.GetAverageMinMaxSum()
		smoothed := float64(avg)
		Prom_sensorReading.WithLabelValues(string(n.cfg.Quantity)).Set(smoothed)

		band, rng := n.scale.Band(smoothed)
		level := indicator.Clamp(rng.Map(smoothed, n.cfg.Precise, n.ceiling), n.ceiling)
		if n.bands != nil {
			n.bands.Select(band)
		}
		Prom_band.WithLabelValues(n.cfg.Name).Set(float64(band))

		if err := w.out.Set(n.cfg.Pin, level); err != nil {
			logger.Errorf("Failed to set [%v] [%v]", n.cfg.Name, err)
			continue
		}
		Prom_driveLevel.WithLabelValues(n.cfg.Name).Set(float64(level))
		logger.Debugf("[%v] %v in %v -> [%v]", n.cfg.Name, smoothed, rng, level)
	}

	if w.heartbeat != nil {
		go w.heartbeat.Flash()
	}
	return nil
}

func (w *weatherstation) tick() {
	if err := w.update(); err != nil {
		logger.Warnf("Indicator update failed [%v]", err)
	}
}

// run updates the needles every interval until ctx ends.
func (w *weatherstation) run(ctx context.Context) error {
	logger.Infof("Updating [%v] indicators every [%v]", len(w.needles), w.cfg.Interval)
	ticker := w.clock.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.tick()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			w.tick()
		}
	}
}

// diagnostic runs the indicator sweep. Cancelling ctx parks the needles.
func (w *weatherstation) diagnostic(ctx context.Context) error {
	Prom_diagnosticSweeps.Inc()
	for _, n := range w.needles {
		if n.bands != nil {
			n.bands.Select(-1)
		}
	}
	return indicator.RunDiagnosticSweep(ctx, w.out, w.clock, w.cfg.Channels(), indicator.ParkOnCancel())
}
