package mcp342x

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/physic"
)

func TestScale(t *testing.T) {
	tests := []struct {
		raw        int32
		resolution Resolution
		gain       Gain
		expected   float64 // millivolts
	}{
		{0, Resolution12Bits, GainX1, 0},
		{1, Resolution12Bits, GainX1, 1},
		{-1, Resolution12Bits, GainX1, -1},
		{1, Resolution14Bits, GainX1, 0.25},
		{-1, Resolution14Bits, GainX1, -0.25},
		{1, Resolution16Bits, GainX1, 0.0625},
		{1, Resolution18Bits, GainX1, 0.015625},
		{-1, Resolution18Bits, GainX1, -0.015625},
		{1, Resolution12Bits, GainX2, 0.5},
		{1, Resolution12Bits, GainX4, 0.25},
		{1, Resolution12Bits, GainX8, 0.125},
		{100, Resolution12Bits, GainX1, 100},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%d/%s/%s", test.raw, test.resolution, test.gain), func(t *testing.T) {
			assert.InDelta(t, test.expected, Scale(test.raw, test.resolution, test.gain)*1000, 1e-9)
		})
	}
}

func TestScale_Boundaries(t *testing.T) {
	for _, res := range []Resolution{Resolution12Bits, Resolution14Bits, Resolution16Bits, Resolution18Bits} {
		for _, gain := range []Gain{GainX1, GainX2, GainX4, GainX8} {
			limit := 2 * ReferenceVoltage / float64(gain.Multiplier())
			top := Scale(res.MaxCode(), res, gain)
			bottom := Scale(res.MinCode(), res, gain)
			assert.Positive(t, top)
			assert.LessOrEqual(t, top, limit)
			assert.GreaterOrEqual(t, bottom, -limit)
		}
	}
	// full scale at 18 bits and x8 is one LSB below Vref/8
	assert.InDelta(t, ReferenceVoltage/8-LSB(Resolution18Bits)/8, Scale(131071, Resolution18Bits, GainX8), 1e-15)
}

func TestScale_Reading(t *testing.T) {
	volts := Scale(100, Resolution12Bits, GainX1)
	assert.InDelta(t, 0.1, represent[float64](volts), 1e-12)
	assert.Equal(t, 100*physic.MilliVolt, represent[physic.ElectricPotential](volts))
	// 18 bit x8 LSB is 1.953125 uV and rounds to the nearest nanovolt
	lsb := Scale(1, Resolution18Bits, GainX8)
	assert.Equal(t, 1953*physic.NanoVolt, represent[physic.ElectricPotential](lsb))
	assert.Equal(t, -1953*physic.NanoVolt, represent[physic.ElectricPotential](-lsb))
}
