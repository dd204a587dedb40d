package indicator

import "fmt"

// Range is the domain of a physical quantity, e.g. 10..40 °C.
type Range struct {
	Min float64
	Max float64
}

// Map converts value to a drive level against this range. The integer path
// truncates value and bounds, which is what the whole-unit quantities
// (humidity, pressure) have always used.
func (r Range) Map(value float64, precise bool, ceiling Ceiling) int64 {
	if precise {
		return MapLinearPreciseCalibrated(value, r.Min, r.Max, ceiling)
	}
	return MapLinearCalibrated(int64(value), int64(r.Min), int64(r.Max), ceiling)
}

func (r Range) String() string {
	return fmt.Sprintf("%g:%g", r.Min, r.Max)
}

// Scale is a named range printed on an indicator dial. Some dials carry more
// than one printed scale; each is a band and only one applies at a time.
type Scale struct {
	Name  string
	Bands []Range
}

// Span returns the full range covered by the scale.
func (s Scale) Span() Range {
	if len(s.Bands) == 0 {
		return Range{}
	}
	return Range{Min: s.Bands[0].Min, Max: s.Bands[len(s.Bands)-1].Max}
}

// Band returns the band that holds value. Bands are [Min, Max); values off
// either end of the scale pick the nearest end band.
func (s Scale) Band(value float64) (int, Range) {
	if len(s.Bands) == 0 {
		return 0, Range{}
	}
	for i, b := range s.Bands {
		if value < b.Max {
			return i, b
		}
	}
	last := len(s.Bands) - 1
	return last, s.Bands[last]
}

const (
	ScaleTempIn   = "temp_in"
	ScaleTempOut  = "temp_out"
	ScaleHumidity = "humidity"
	ScalePressure = "pressure"
)

// banded splits min..max at the given interior points.
func banded(name string, points ...float64) Scale {
	s := Scale{Name: name}
	for i := 0; i+1 < len(points); i++ {
		s.Bands = append(s.Bands, Range{Min: points[i], Max: points[i+1]})
	}
	return s
}

// NamedScale returns one of the station's dial scales. A new value is built on
// every call so callers cannot change the table.
func NamedScale(name string) (Scale, bool) {
	switch name {
	case ScaleTempIn:
		return banded(name, 10, 40), true // °C
	case ScaleTempOut:
		return banded(name, -30, 0, 30, 60), true // °C
	case ScaleHumidity:
		return banded(name, 0, 100), true // %RH
	case ScalePressure:
		return banded(name, 960, 990, 1020, 1050), true // hPa
	}
	return Scale{}, false
}

// ScaleNames lists every name NamedScale knows.
func ScaleNames() []string {
	return []string{ScaleTempIn, ScaleTempOut, ScaleHumidity, ScalePressure}
}
