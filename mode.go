package mcp342x

import (
	"context"
	"fmt"
)

func (d *Device[V]) measure(ctx context.Context, cfg Configuration) (float64, error) {
	switch cfg.Mode() {
	case ModeContinuous:
		return d.measureContinuous(ctx, cfg)
	case ModeOneShot:
		return d.measureOneShot(ctx, cfg)
	default:
		return 0, fmt.Errorf("%w: mode %s", ErrUnknownValue, cfg.Mode())
	}
}

// measureOneShot starts a conversion, waits for it and polls the RDY bit until
// the result shows up or the poll budget is spent.
func (d *Device[V]) measureOneShot(ctx context.Context, cfg Configuration) (float64, error) {
	err := d.write(ctx, cfg)
	if err != nil {
		return 0, err
	}
	wait := d.conversionTime(cfg.Resolution())
	err = d.delay.Delay(ctx, wait)
	if err != nil {
		return 0, err
	}
	interval := max(wait/10, minPollInterval)
	for attempt := 1; ; attempt++ {
		raw, ctl, err := d.read(ctx, cfg.Resolution())
		if err != nil {
			return 0, err
		}
		if ctl.Ready {
			return d.convert(cfg, raw, ctl)
		}
		if attempt >= d.opts.PollAttempts {
			return 0, fmt.Errorf("%w: %s not ready after %d reads", ErrConversionTimeout, cfg, attempt)
		}
		d.log.DebugContext(ctx, "conversion not ready", "attempt", attempt, "retry_in", interval)
		err = d.delay.Delay(ctx, interval)
		if err != nil {
			return 0, err
		}
	}
}

// measureContinuous writes the configuration once and afterwards only reads the
// output register, which the device refreshes at its own sample rate.
func (d *Device[V]) measureContinuous(ctx context.Context, cfg Configuration) (float64, error) {
	if !d.armed {
		err := d.write(ctx, cfg)
		if err != nil {
			return 0, err
		}
		err = d.delay.Delay(ctx, d.conversionTime(cfg.Resolution()))
		if err != nil {
			return 0, err
		}
		d.armed = true
	}
	raw, ctl, err := d.read(ctx, cfg.Resolution())
	if err != nil {
		return 0, err
	}
	if !ctl.Ready {
		// the latest result was already read; it is still the newest conversion
		d.log.DebugContext(ctx, "stale continuous sample", "code", raw)
	}
	return d.convert(cfg, raw, ctl)
}
