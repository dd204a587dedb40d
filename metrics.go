package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

var Prom_driveLevel = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "indicator_drive_level",
		Help: "PWM level (0-255) written to the indicator needle",
	},
	[]string{"indicator"},
)

var Prom_band = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "indicator_band",
		Help: "Printed scale band selected for the indicator",
	},
	[]string{"indicator"},
)

var Prom_sensorReading = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "sensor_reading",
		Help: "Smoothed sensor value shown on the indicators",
	},
	[]string{"quantity"},
)

var Prom_diagnosticSweeps = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "diagnostic_sweeps_total",
		Help: "Diagnostic sweeps started",
	},
)

func init() {
	prometheus.MustRegister(
		Prom_driveLevel,
		Prom_band,
		Prom_sensorReading,
		Prom_diagnosticSweeps)
}
