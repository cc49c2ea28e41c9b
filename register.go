package mcp342x

import "fmt"

// Control register layout (datasheet section 5.2):
//
//	bit 7    RDY   write: 1 starts a one-shot conversion; read: 0 means a new result
//	bit 6-5  C1-C0 channel
//	bit 4    O/C   1 = continuous, 0 = one-shot
//	bit 3-2  S1-S0 resolution
//	bit 1-0  G1-G0 gain
const (
	bitReady       = 7
	bitChannel     = 5
	bitMode        = 4
	bitResolution  = 2
	bitGain        = 0
	maskReady      = 1 << bitReady
	maskTwoBitCode = 0b11
)

// Control is the decoded content of the control register as echoed by the device.
type Control struct {
	// Ready is true when the output register holds a result that has not been
	// read yet.
	Ready bool
	Configuration
}

// Encode builds the control byte written to the device. In one-shot mode the
// RDY bit is set to start a conversion; continuous mode writes it cleared.
func Encode(cfg Configuration) byte {
	var b byte
	if cfg.mode == ModeOneShot {
		b |= maskReady
	}
	b |= cfg.channel.code << bitChannel
	b |= cfg.mode.code << bitMode
	b |= cfg.resolution.code << bitResolution
	b |= cfg.gain.code << bitGain
	return b
}

// DecodeControl maps a control byte back to its fields. Every byte value is a
// valid register state.
func DecodeControl(b byte) Control {
	return Control{
		Ready: b&maskReady == 0,
		Configuration: Configuration{
			channel:    Channel{(b >> bitChannel) & maskTwoBitCode},
			mode:       Mode{(b >> bitMode) & 1},
			resolution: Resolution{(b >> bitResolution) & maskTwoBitCode},
			gain:       Gain{(b >> bitGain) & maskTwoBitCode},
		},
	}
}

// DecodeSample extracts the signed output code and the echoed control byte from
// a payload read at the given resolution. The code is sign extended from the
// resolution width, so bits above it are ignored.
func DecodeSample(payload []byte, resolution Resolution) (int32, byte, error) {
	size := resolution.PayloadSize()
	if len(payload) < size {
		return 0, 0, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrBufferTooShort, resolution, size, len(payload))
	}
	var value uint32
	for _, b := range payload[:resolution.DataBytes()] {
		value = value<<8 | uint32(b)
	}
	shift := 32 - resolution.Bits()
	raw := int32(value<<shift) >> shift
	return raw, payload[size-1], nil
}
