package mcp342x

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfiguration_Defaults(t *testing.T) {
	cfg := DefaultConfiguration()
	assert.Equal(t, Channel1, cfg.Channel())
	assert.Equal(t, Resolution12Bits, cfg.Resolution())
	assert.Equal(t, GainX1, cfg.Gain())
	assert.Equal(t, ModeOneShot, cfg.Mode())
	assert.Equal(t, Configuration{}, cfg)
}

func TestConfiguration_WithReturnsCopy(t *testing.T) {
	base := DefaultConfiguration()
	changed := base.WithChannel(Channel3).WithResolution(Resolution16Bits).WithGain(GainX4).WithMode(ModeContinuous)
	assert.Equal(t, DefaultConfiguration(), base)
	assert.Equal(t, NewConfiguration(Channel3, Resolution16Bits, GainX4, ModeContinuous), changed)
	assert.Equal(t, "ch3 16bit x4 continuous", changed.String())
}

func TestResolution_Properties(t *testing.T) {
	tests := []struct {
		resolution Resolution
		bits       int
		payload    int
		sps        float64
		conversion time.Duration
		min, max   int32
	}{
		{Resolution12Bits, 12, 3, 240, 4167 * time.Microsecond, -2048, 2047},
		{Resolution14Bits, 14, 3, 60, 16667 * time.Microsecond, -8192, 8191},
		{Resolution16Bits, 16, 3, 15, 66667 * time.Microsecond, -32768, 32767},
		{Resolution18Bits, 18, 4, 3.75, 266667 * time.Microsecond, -131072, 131071},
	}
	for _, test := range tests {
		t.Run(test.resolution.String(), func(t *testing.T) {
			assert.Equal(t, test.bits, test.resolution.Bits())
			assert.Equal(t, test.payload, test.resolution.PayloadSize())
			assert.Equal(t, test.sps, test.resolution.SamplesPerSecond())
			assert.Equal(t, test.conversion, test.resolution.ConversionTime())
			assert.Equal(t, test.min, test.resolution.MinCode())
			assert.Equal(t, test.max, test.resolution.MaxCode())
		})
	}
}

func TestParse(t *testing.T) {
	gain, err := ParseGain("x8")
	require.NoError(t, err)
	assert.Equal(t, GainX8, gain)
	gain, err = ParseGain("2")
	require.NoError(t, err)
	assert.Equal(t, GainX2, gain)
	_, err = ParseGain("3")
	assert.ErrorIs(t, err, ErrUnknownValue)

	res, err := ParseResolution("18bit")
	require.NoError(t, err)
	assert.Equal(t, Resolution18Bits, res)
	res, err = ParseResolution("14")
	require.NoError(t, err)
	assert.Equal(t, Resolution14Bits, res)
	_, err = ParseResolution("24")
	assert.ErrorIs(t, err, ErrUnknownValue)

	ch, err := ParseChannel("ch4")
	require.NoError(t, err)
	assert.Equal(t, Channel4, ch)
	_, err = ParseChannel("0")
	assert.ErrorIs(t, err, ErrUnknownValue)

	mode, err := ParseMode("one-shot")
	require.NoError(t, err)
	assert.Equal(t, ModeOneShot, mode)
	mode, err = ParseMode("Continuous")
	require.NoError(t, err)
	assert.Equal(t, ModeContinuous, mode)
	_, err = ParseMode("burst")
	assert.ErrorIs(t, err, ErrUnknownValue)
}

func TestConfiguration_YAMLFields(t *testing.T) {
	type channelConfig struct {
		Channel    Channel    `yaml:"channel"`
		Resolution Resolution `yaml:"resolution"`
		Gain       Gain       `yaml:"gain"`
		Mode       Mode       `yaml:"mode"`
	}
	var decoded channelConfig
	err := yaml.Unmarshal([]byte("channel: ch2\nresolution: 16bit\ngain: x4\nmode: continuous\n"), &decoded)
	require.NoError(t, err)
	assert.Equal(t, channelConfig{Channel2, Resolution16Bits, GainX4, ModeContinuous}, decoded)

	out, err := yaml.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, "channel: ch2\nresolution: 16bit\ngain: x4\nmode: continuous\n", string(out))

	err = yaml.Unmarshal([]byte("gain: x3\n"), &decoded)
	assert.Error(t, err)
}

func TestConversionTime(t *testing.T) {
	assert.Equal(t, 4167*time.Microsecond, ConversionTime{}.For(Resolution12Bits))
	assert.Equal(t, 5504*time.Microsecond, ConversionTimeOffset(1337*time.Microsecond).For(Resolution12Bits))
	assert.Equal(t, 2000*time.Microsecond, ConversionTimeOffset(-2167*time.Microsecond).For(Resolution12Bits))
	assert.Equal(t, time.Duration(0), ConversionTimeOffset(-5*time.Millisecond).For(Resolution12Bits))
	assert.Equal(t, 42*time.Microsecond, ConversionTimeAbsolute(42*time.Microsecond).For(Resolution18Bits))
	assert.Equal(t, time.Duration(math.MaxInt64), ConversionTimeOffset(math.MaxInt64).For(Resolution18Bits))
	assert.Equal(t, time.Duration(0), ConversionTimeOffset(math.MinInt64).For(Resolution12Bits))
}
