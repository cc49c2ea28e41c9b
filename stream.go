package mcp342x

import (
	"context"
	"iter"
)

// Stream returns a lazy, endless sequence of measurements. Every pulled element
// performs one Measure call, so in continuous mode it costs a single read.
// Errors are delivered as elements and do not end the sequence; the consumer
// stops by leaving the range loop. Once ctx is done the sequence yields the
// context error and ends.
//
//	for v, err := range adc.Stream(ctx) {
//		...
//	}
func (d *Device[V]) Stream(ctx context.Context) iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		for {
			if err := ctx.Err(); err != nil {
				var zero V
				yield(zero, err)
				return
			}
			if !yield(d.Measure(ctx)) {
				return
			}
		}
	}
}

// StreamSequence is the sequence counterpart of Stream built on MeasureSequence.
func (d *Device[V]) StreamSequence(ctx context.Context, cfgs ...Configuration) iter.Seq2[[]V, error] {
	return func(yield func([]V, error) bool) {
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(d.MeasureSequence(ctx, cfgs...)) {
				return
			}
		}
	}
}
