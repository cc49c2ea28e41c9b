package mcp342x

import (
	"math"

	"periph.io/x/conn/v3/physic"
)

// ReferenceVoltage is the internal reference of the MCP342x in volts.
const ReferenceVoltage = 2.048

// LSB returns the voltage of one output code at the given resolution and gain x1.
func LSB(resolution Resolution) float64 {
	return 2 * ReferenceVoltage / float64(int64(1)<<resolution.Bits())
}

// Scale converts an output code into the input voltage in volts. The arithmetic
// is done in float64, which keeps the 18 bit x8 case exact.
func Scale(raw int32, resolution Resolution, gain Gain) float64 {
	return float64(raw) * LSB(resolution) / float64(gain.Multiplier())
}

// Reading is the representation a Device returns its measurements in: bare
// volts, or a periph unit-tagged potential.
type Reading interface {
	float64 | physic.ElectricPotential
}

// represent converts volts into the reading type. Potentials are rounded to
// the nearest nanovolt.
func represent[V Reading](volts float64) V {
	var v V
	switch p := any(&v).(type) {
	case *float64:
		*p = volts
	case *physic.ElectricPotential:
		*p = physic.ElectricPotential(math.Round(volts * float64(physic.Volt)))
	}
	return v
}
