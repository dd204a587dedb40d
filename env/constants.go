package env

import "time"

const (
	GPIO04 = "GPIO4"
	GPIO05 = "GPIO5"
	GPIO06 = "GPIO6"
	GPIO12 = "GPIO12" // PWM0
	GPIO13 = "GPIO13" // PWM1
	GPIO16 = "GPIO16"
	GPIO18 = "GPIO18" // PWM0 alt
	GPIO19 = "GPIO19" // PWM1 alt
	GPIO20 = "GPIO20"
	GPIO21 = "GPIO21"
	GPIO22 = "GPIO22"
	GPIO23 = "GPIO23"
	GPIO24 = "GPIO24"

	TempInNeedle   = GPIO12
	TempOutNeedle  = GPIO13
	HumidityNeedle = GPIO18
	PressureNeedle = GPIO19

	HeartbeatLed = GPIO20
	StatusLed    = GPIO21

	// band LEDs for the three printed outdoor temperature scales
	TempOutBandLow  = GPIO05
	TempOutBandMid  = GPIO06
	TempOutBandHigh = GPIO16

	// band LEDs for the three printed pressure scales
	PressureBandLow  = GPIO22
	PressureBandMid  = GPIO23
	PressureBandHigh = GPIO24

	// read values every 5s
	UpdateInterval = time.Second * 5

	PWMFrequencyHz = 1000

	MetricsAddr = ":80"

	// fatal start up errors
	ErrorBlinks = 3
)
