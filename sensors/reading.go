package sensors

import "time"

// Quantity names one value in a Reading.
type Quantity string

const (
	TempIn   Quantity = "temp_in"  // °C
	TempOut  Quantity = "temp_out" // °C
	Humidity Quantity = "humidity" // %RH
	Pressure Quantity = "pressure" // hPa
)

func Quantities() []Quantity {
	return []Quantity{TempIn, TempOut, Humidity, Pressure}
}

type Reading struct {
	Time     time.Time
	TempIn   float64
	TempOut  float64
	Humidity float64
	Pressure float64
}

func (r Reading) Value(q Quantity) (float64, bool) {
	switch q {
	case TempIn:
		return r.TempIn, true
	case TempOut:
		return r.TempOut, true
	case Humidity:
		return r.Humidity, true
	case Pressure:
		return r.Pressure, true
	}
	return 0, false
}

// Reader supplies readings to the indicator loop.
type Reader interface {
	Read() (Reading, error)
}
