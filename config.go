package mcp342x

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Gain selects the programmable gain amplifier (PGA) setting.
// The zero value is x1.
type Gain struct{ code uint8 }

var (
	GainX1 = Gain{0b00}
	GainX2 = Gain{0b01}
	GainX4 = Gain{0b10}
	GainX8 = Gain{0b11}
)

// Multiplier returns the amplification factor.
func (g Gain) Multiplier() int {
	return 1 << g.code
}

func (g Gain) String() string {
	return fmt.Sprintf("x%d", g.Multiplier())
}

func (g Gain) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Gain) UnmarshalText(text []byte) error {
	parsed, err := ParseGain(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseGain accepts "1", "x1", "X1" and so on.
func ParseGain(s string) (Gain, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "x") {
	case "1":
		return GainX1, nil
	case "2":
		return GainX2, nil
	case "4":
		return GainX4, nil
	case "8":
		return GainX8, nil
	}
	return Gain{}, fmt.Errorf("%w: gain %q", ErrUnknownValue, s)
}

// Resolution selects the sample width and with it the sample rate.
// The zero value is 12 bits.
type Resolution struct{ code uint8 }

var (
	Resolution12Bits = Resolution{0b00} // 240 SPS
	Resolution14Bits = Resolution{0b01} // 60 SPS
	Resolution16Bits = Resolution{0b10} // 15 SPS
	Resolution18Bits = Resolution{0b11} // 3.75 SPS
)

// Bits returns the width of a sample including the sign bit.
func (r Resolution) Bits() int {
	return 12 + 2*int(r.code)
}

// DataBytes returns the number of data bytes carrying a sample.
func (r Resolution) DataBytes() int {
	if r == Resolution18Bits {
		return 3
	}
	return 2
}

// PayloadSize returns the number of bytes read per sample: the data bytes
// followed by the echoed control byte.
func (r Resolution) PayloadSize() int {
	return r.DataBytes() + 1
}

func (r Resolution) SamplesPerSecond() float64 {
	return 240 / float64(int(1)<<(2*r.code))
}

// ConversionTime returns the datasheet conversion time for the resolution.
func (r Resolution) ConversionTime() time.Duration {
	switch r {
	case Resolution14Bits:
		return 16667 * time.Microsecond
	case Resolution16Bits:
		return 66667 * time.Microsecond
	case Resolution18Bits:
		return 266667 * time.Microsecond
	default:
		return 4167 * time.Microsecond
	}
}

// MinCode returns the most negative output code.
func (r Resolution) MinCode() int32 {
	return -(1 << (r.Bits() - 1))
}

// MaxCode returns the most positive output code.
func (r Resolution) MaxCode() int32 {
	return 1<<(r.Bits()-1) - 1
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dbit", r.Bits())
}

func (r Resolution) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Resolution) UnmarshalText(text []byte) error {
	parsed, err := ParseResolution(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseResolution accepts "12", "12bit", "12bits" and so on.
func ParseResolution(s string) (Resolution, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSuffix(strings.TrimSuffix(v, "s"), "bit")
	switch strings.TrimSpace(v) {
	case "12":
		return Resolution12Bits, nil
	case "14":
		return Resolution14Bits, nil
	case "16":
		return Resolution16Bits, nil
	case "18":
		return Resolution18Bits, nil
	}
	return Resolution{}, fmt.Errorf("%w: resolution %q", ErrUnknownValue, s)
}

// Channel selects the differential input pair. The zero value is channel 1.
//
// MCP3422 and MCP3423 have two channels only: they treat channel 3 as channel 1
// and channel 4 as channel 2.
type Channel struct{ code uint8 }

var (
	Channel1 = Channel{0b00}
	Channel2 = Channel{0b01}
	Channel3 = Channel{0b10}
	Channel4 = Channel{0b11}
)

// Number returns the 1-based channel number.
func (c Channel) Number() int {
	return int(c.code) + 1
}

func (c Channel) String() string {
	return fmt.Sprintf("ch%d", c.Number())
}

func (c Channel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Channel) UnmarshalText(text []byte) error {
	parsed, err := ParseChannel(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseChannel accepts "1", "ch1" and so on.
func ParseChannel(s string) (Channel, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "ch") {
	case "1":
		return Channel1, nil
	case "2":
		return Channel2, nil
	case "3":
		return Channel3, nil
	case "4":
		return Channel4, nil
	}
	return Channel{}, fmt.Errorf("%w: channel %q", ErrUnknownValue, s)
}

// Mode selects the conversion mode. The zero value is one-shot.
type Mode struct{ code uint8 }

var (
	ModeOneShot    = Mode{0}
	ModeContinuous = Mode{1}
)

func (m Mode) String() string {
	if m == ModeContinuous {
		return "continuous"
	}
	return "one-shot"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func ParseMode(s string) (Mode, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "") {
	case "oneshot", "single":
		return ModeOneShot, nil
	case "continuous", "cont":
		return ModeContinuous, nil
	}
	return Mode{}, fmt.Errorf("%w: mode %q", ErrUnknownValue, s)
}

// Configuration describes one measurement setup. It is a value: the With
// methods return modified copies and never touch the receiver.
type Configuration struct {
	channel    Channel
	resolution Resolution
	gain       Gain
	mode       Mode
}

func NewConfiguration(channel Channel, resolution Resolution, gain Gain, mode Mode) Configuration {
	return Configuration{
		channel:    channel,
		resolution: resolution,
		gain:       gain,
		mode:       mode,
	}
}

// DefaultConfiguration returns channel 1, 12 bits, gain x1 in one-shot mode.
func DefaultConfiguration() Configuration {
	return Configuration{}
}

func (c Configuration) Channel() Channel       { return c.channel }
func (c Configuration) Resolution() Resolution { return c.resolution }
func (c Configuration) Gain() Gain             { return c.gain }
func (c Configuration) Mode() Mode             { return c.mode }

func (c Configuration) WithChannel(channel Channel) Configuration {
	c.channel = channel
	return c
}

func (c Configuration) WithResolution(resolution Resolution) Configuration {
	c.resolution = resolution
	return c
}

func (c Configuration) WithGain(gain Gain) Configuration {
	c.gain = gain
	return c
}

func (c Configuration) WithMode(mode Mode) Configuration {
	c.mode = mode
	return c
}

func (c Configuration) String() string {
	return fmt.Sprintf("%s %s %s %s", c.channel, c.resolution, c.gain, c.mode)
}

// ConversionTime adjusts the time the driver waits for a conversion to finish.
// The zero value keeps the datasheet timing.
type ConversionTime struct {
	absolute bool
	value    time.Duration
}

// ConversionTimeOffset adds offset to the datasheet conversion time. The result
// saturates at zero and at the largest Duration.
func ConversionTimeOffset(offset time.Duration) ConversionTime {
	return ConversionTime{value: offset}
}

// ConversionTimeAbsolute replaces the datasheet conversion time for every
// resolution.
func ConversionTimeAbsolute(d time.Duration) ConversionTime {
	return ConversionTime{absolute: true, value: max(d, 0)}
}

// For returns the effective wait for the given resolution.
func (t ConversionTime) For(r Resolution) time.Duration {
	if t.absolute {
		return t.value
	}
	base := r.ConversionTime()
	if t.value > math.MaxInt64-base {
		return math.MaxInt64
	}
	return max(base+t.value, 0)
}
