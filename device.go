package mcp342x

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the 7-bit address with both address pins tied low.
const DefaultAddress = 0x68

// DefaultPollAttempts bounds the number of payload reads of one one-shot cycle.
// Reads after the first are spaced by a tenth of the conversion time, so the
// worst case adds about 0.9x the conversion time to the initial wait.
const DefaultPollAttempts = 10

const minPollInterval = time.Millisecond

type DeviceOpts struct {
	ConversionTime ConversionTime
	PollAttempts   int
	Logger         *slog.Logger
}

type DeviceOpt func(*DeviceOpts)

// WithConversionTime adjusts the wait between starting a conversion and the
// first read.
func WithConversionTime(t ConversionTime) DeviceOpt {
	return func(o *DeviceOpts) {
		o.ConversionTime = t
	}
}

// WithPollAttempts sets the maximum number of reads per one-shot conversion.
// Values below 1 are ignored.
func WithPollAttempts(n int) DeviceOpt {
	return func(o *DeviceOpts) {
		if n > 0 {
			o.PollAttempts = n
		}
	}
}

func WithLogger(logger *slog.Logger) DeviceOpt {
	return func(o *DeviceOpts) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// Device represents a Microchip MCP3422/3423/3424 delta-sigma ADC.
// See: https://ww1.microchip.com/downloads/en/DeviceDoc/22088c.pdf
//
// Typical usage:
//
//	adc := mcp342x.New(bus, mcp342x.DefaultAddress, mcp342x.TimerDelay{}, mcp342x.DefaultConfiguration())
//	volts, err := adc.Measure(ctx)
//
// A Device owns its bus handle and mode state and is meant to be used from a
// single goroutine. Callers sharing one device must serialize access.
type Device[V Reading] struct {
	transport I2CBus
	address   byte
	delay     Delayer
	config    Configuration
	// armed is set once the continuous configuration has been written
	armed bool

	opts DeviceOpts
	log  *slog.Logger
	buf  []byte
}

// New creates a driver returning measurements in volts. It performs no I/O.
func New(bus I2CBus, address byte, delay Delayer, cfg Configuration, opts ...DeviceOpt) *Device[float64] {
	return newDevice[float64](bus, address, delay, cfg, opts...)
}

// NewPotential creates a driver returning unit-tagged potentials.
func NewPotential(bus I2CBus, address byte, delay Delayer, cfg Configuration, opts ...DeviceOpt) *Device[physic.ElectricPotential] {
	return newDevice[physic.ElectricPotential](bus, address, delay, cfg, opts...)
}

func newDevice[V Reading](bus I2CBus, address byte, delay Delayer, cfg Configuration, opts ...DeviceOpt) *Device[V] {
	config := DeviceOpts{
		PollAttempts: DefaultPollAttempts,
		Logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if delay == nil {
		delay = TimerDelay{}
	}
	return &Device[V]{
		transport: bus,
		address:   address,
		delay:     delay,
		config:    cfg,
		opts:      config,
		log:       config.Logger.With("device", "mcp342x", "address", fmt.Sprintf("%#x", address)),
		buf:       make([]byte, Resolution18Bits.PayloadSize()),
	}
}

func (d *Device[V]) Address() byte {
	return d.address
}

// Configuration returns the active configuration.
func (d *Device[V]) Configuration() Configuration {
	return d.config
}

// Reconfigure replaces the active configuration. Nothing is written until the
// next measurement.
func (d *Device[V]) Reconfigure(cfg Configuration) {
	d.config = cfg
	d.armed = false
}

// Measure performs one measurement according to the active mode. In one-shot
// mode every call is a complete conversion cycle; in continuous mode the first
// call starts the device and later calls read its latest result.
func (d *Device[V]) Measure(ctx context.Context) (V, error) {
	volts, err := d.measure(ctx, d.config)
	if err != nil {
		var zero V
		return zero, err
	}
	return represent[V](volts), nil
}

// MeasureSequence runs one one-shot conversion per configuration, in order, and
// returns all results at once. The results are not simultaneous samples. The
// active configuration is left as is; a continuous device is restarted by its
// next measurement.
func (d *Device[V]) MeasureSequence(ctx context.Context, cfgs ...Configuration) ([]V, error) {
	d.armed = false
	values := make([]V, 0, len(cfgs))
	for i, cfg := range cfgs {
		volts, err := d.measureOneShot(ctx, cfg.WithMode(ModeOneShot))
		if err != nil {
			return nil, fmt.Errorf("sequence step %d (%s): %w", i, cfg, err)
		}
		values = append(values, represent[V](volts))
	}
	return values, nil
}

func (d *Device[V]) write(ctx context.Context, cfg Configuration) error {
	b := Encode(cfg)
	d.log.DebugContext(ctx, "writing control register", "config", cfg.String(), "control", fmt.Sprintf("0b%08b", b))
	err := d.transport.WriteToAddr(ctx, d.address, []byte{b})
	if err != nil {
		return transportError("write control register", err)
	}
	return nil
}

func (d *Device[V]) read(ctx context.Context, resolution Resolution) (int32, Control, error) {
	payload := d.buf[:resolution.PayloadSize()]
	err := d.transport.ReadFromAddr(ctx, d.address, payload)
	if err != nil {
		return 0, Control{}, transportError("read output register", err)
	}
	raw, ctl, err := DecodeSample(payload, resolution)
	if err != nil {
		return 0, Control{}, err
	}
	d.log.DebugContext(ctx, "read output register", "payload", hex.EncodeToString(payload), "code", raw)
	return raw, DecodeControl(ctl), nil
}

// convert validates the echoed register against the written configuration and
// scales the code.
func (d *Device[V]) convert(cfg Configuration, raw int32, ctl Control) (float64, error) {
	if ctl.Configuration != cfg {
		return 0, fmt.Errorf("%w: wrote %s, device reports %s", ErrMalformedRegister, cfg, ctl.Configuration)
	}
	res := cfg.Resolution()
	if raw <= res.MinCode() || raw >= res.MaxCode() {
		return 0, &OutOfRangeError{Code: raw, Min: res.MinCode(), Max: res.MaxCode()}
	}
	return Scale(raw, res, cfg.Gain()), nil
}

func (d *Device[V]) conversionTime(res Resolution) time.Duration {
	return d.opts.ConversionTime.For(res)
}
