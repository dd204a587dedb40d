package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gr-butler/meteo/config"
	"github.com/gr-butler/meteo/env"
	"github.com/gr-butler/meteo/indicator"
	"github.com/gr-butler/meteo/led"
	"github.com/gr-butler/meteo/pwm"
	"github.com/gr-butler/meteo/sensors"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const version = "GRB-Meteo-1.0.0"

// logOutput stands in for the PWM hardware in test mode.
type logOutput struct{}

func (logOutput) Set(pin string, level indicator.DriveLevel) error {
	logger.Infof("Needle [%v] -> [%v]", pin, level)
	return nil
}

func main() {
	args, _ := env.ParseArgs(flag.CommandLine, os.Args[1:])
	if *args.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	logger.Infof("Starting weather station [%v]", version)

	cfg := config.Default()
	if *args.Config != "" {
		c, err := config.Load(*args.Config)
		if err != nil {
			logger.Errorf("Bad config [%v]", err)
			logger.Exit(1)
		}
		cfg = c
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	var (
		reader   sensors.Reader
		out      indicator.Output
		open     openLED
		shutdown = func() {}
	)

	if *args.Test {
		logger.Info("TEST MODE")
		reader = sensors.NewSimulated(clock)
		out = logOutput{}
		open = func(name, _ string) *led.LED { return led.New(name, nil) }
	} else {
		if _, err := host.Init(); err != nil {
			logger.Errorf("Failed to init host [%v]", err)
			logger.Exit(1)
		}
		open = led.Open
		status := open("status", cfg.StatusLed)

		hw, err := openHardware(cfg)
		if err != nil {
			fail(status, err)
		}
		reader, out, shutdown = hw.atm, hw.out, hw.close
	}
	defer shutdown()

	w, err := newWeatherstation(cfg, reader, out, clock, open("heartbeat", cfg.HeartbeatLed), open)
	if err != nil {
		fail(open("status", cfg.StatusLed), err)
	}

	if *args.Diagnostic || cfg.DiagnosticOnStart {
		if err := w.diagnostic(ctx); err != nil {
			logger.Warnf("Diagnostic sweep stopped [%v]", err)
			return
		}
	}

	sendData, ok := os.LookupEnv("SENDPROMDATA")
	if *args.Metrics || (ok && sendData == "true") {
		srv := serveMetrics(cfg.MetricsAddr)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	if err := w.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("Station stopped [%v]", err)
	}
	logger.Info("Exiting...")
}

type hardware struct {
	atm   *sensors.Atmosphere
	out   *pwm.Output
	close func()
}

func openHardware(cfg *config.Config) (*hardware, error) {
	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("failed to open I²C: %w", err)
	}
	atm, err := sensors.NewAtmosphere(bus)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	out, err := pwm.Open(cfg.NeedlePins(), physic.Frequency(cfg.PWMFrequencyHz)*physic.Hertz)
	if err != nil {
		_ = atm.Halt()
		_ = bus.Close()
		return nil, err
	}
	return &hardware{
		atm: atm,
		out: out,
		close: func() {
			if err := out.Park(); err != nil {
				logger.Errorf("Failed to park needles [%v]", err)
			}
			_ = atm.Halt()
			_ = bus.Close()
		},
	}, nil
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("Starting metrics on [%v]", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Metrics server failed [%v]", err)
		}
	}()
	return srv
}

// fail signals a fatal start up error on the status LED and exits.
func fail(status *led.LED, err error) {
	logger.Errorf("Failed to start [%v]", err)
	_ = status.Blink(env.ErrorBlinks)
	logger.Exit(1)
}
