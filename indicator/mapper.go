package indicator

/*
 * Range mapping converts a sensor reading into a needle drive level.
 *
 * The maths deliberately follows the microcontroller map() primitive the
 * existing calibration tables were measured against:
 *
 *   (x - inMin) * (outMax - outMin) / (inMax - inMin) + outMin
 *
 * evaluated in integers with truncating division. Inputs outside the domain
 * extrapolate; use Clamp before writing to hardware.
 */

// MaxLevel is full scale for an 8 bit PWM output.
const MaxLevel = 255

// precisionScale keeps one decimal digit through the integer map.
const precisionScale = 10.0

// DriveLevel is the value written to an indicator output.
type DriveLevel uint8

// Ceiling is the highest meaningful drive level for a particular needle.
type Ceiling int

// Clamp limits the ceiling to [0, MaxLevel].
func (c Ceiling) Clamp() Ceiling {
	switch {
	case c > MaxLevel:
		return MaxLevel
	case c < 0:
		return 0
	}
	return c
}

// mapRange is the integer linear map. A zero width domain returns outMin
// rather than dividing by zero.
func mapRange(x, inMin, inMax, outMin, outMax int64) int64 {
	if inMax == inMin {
		return outMin
	}
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// limit applies the map ceiling rule: anything above full scale is full
// scale, everything else is used as given.
func limit(ceiling Ceiling) int64 {
	if ceiling > MaxLevel {
		return MaxLevel
	}
	return int64(ceiling)
}

func scaled(v float64) int64 {
	return int64(v * precisionScale)
}

// MapLinear maps value from [domainMin, domainMax] onto [0, 255].
func MapLinear(value, domainMin, domainMax int64) int64 {
	return mapRange(value, domainMin, domainMax, 0, MaxLevel)
}

// MapLinearPrecise is MapLinear for fractional readings. Value and bounds are
// multiplied by ten first so tenths survive the integer map.
func MapLinearPrecise(value, domainMin, domainMax float64) int64 {
	return mapRange(scaled(value), scaled(domainMin), scaled(domainMax), 0, MaxLevel)
}

// MapLinearCalibrated maps value onto [0, ceiling]. Ceilings above 255 are
// treated as 255.
func MapLinearCalibrated(value, domainMin, domainMax int64, ceiling Ceiling) int64 {
	return mapRange(value, domainMin, domainMax, 0, limit(ceiling))
}

// MapLinearPreciseCalibrated combines MapLinearPrecise and MapLinearCalibrated.
func MapLinearPreciseCalibrated(value, domainMin, domainMax float64, ceiling Ceiling) int64 {
	return mapRange(scaled(value), scaled(domainMin), scaled(domainMax), 0, limit(ceiling))
}

// Clamp turns a mapped value into a drive level no higher than the ceiling.
// Readings outside the domain put the needle on its end stop.
func Clamp(level int64, ceiling Ceiling) DriveLevel {
	top := int64(ceiling.Clamp())
	switch {
	case level < 0:
		return 0
	case level > top:
		return DriveLevel(top)
	}
	return DriveLevel(level)
}
