package sensors

import (
	"errors"
	"fmt"
	"math"
	"time"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/devices/v3/mcp9808"
)

const (
	MCP9808_I2C = 0x18
	BME280_I2C  = 0x76
)

// Atmosphere reads the indoor BME280 (temperature, humidity, pressure) and
// the outdoor MCP9808 (temperature).
type Atmosphere struct {
	PH   *bmxx80.Dev
	Temp *mcp9808.Dev
	now  func() time.Time
}

func NewAtmosphere(bus i2c.Bus) (*Atmosphere, error) {
	a := &Atmosphere{now: time.Now}

	logger.Infof("Starting MCP9808 Temperature Sensor [%x]", MCP9808_I2C)
	tempSensor, err := mcp9808.New(bus, &mcp9808.Opts{Addr: MCP9808_I2C, Res: mcp9808.High})
	if err != nil {
		return nil, fmt.Errorf("failed to open MCP9808 sensor: %w", err)
	}
	a.Temp = tempSensor

	logger.Infof("Starting BME280 reader [%x]", BME280_I2C)
	bme, err := bmxx80.NewI2C(bus, BME280_I2C, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bme280: %w", err)
	}
	a.PH = bme

	return a, nil
}

func (a *Atmosphere) Read() (Reading, error) {
	r := Reading{Time: a.now()}

	em := physic.Env{}
	if err := a.PH.Sense(&em); err != nil {
		return r, fmt.Errorf("BME280 read failed: %w", err)
	}
	r.TempIn = em.Temperature.Celsius()
	r.Humidity = toRelHumidity(em.Humidity)
	r.Pressure = toHPa(em.Pressure)

	hiT := physic.Env{}
	if err := a.Temp.Sense(&hiT); err != nil {
		return r, fmt.Errorf("MCP9808 read failed: %w", err)
	}
	r.TempOut = hiT.Temperature.Celsius()

	logger.Debugf("Temp in [%v], Temp out [%v], Hum [%v], Pressure [%v]hPa", r.TempIn, r.TempOut, r.Humidity, r.Pressure)
	return r, nil
}

func (a *Atmosphere) Halt() error {
	return errors.Join(a.PH.Halt(), a.Temp.Halt())
}

func toHPa(p physic.Pressure) float64 {
	return math.Round((float64(p)/float64(100*physic.Pascal))*100) / 100
}

func toRelHumidity(h physic.RelativeHumidity) float64 {
	return math.Round(float64(h)/float64(physic.PercentRH)*10) / 10
}
