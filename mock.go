package mcp342x

import (
	"context"
)

// VoltageBehaviorFunc produces a reading in volts or an error.
type VoltageBehaviorFunc func(ctx context.Context, cfg Configuration) (float64, error)

// MockVoltmeter stands in for a Device without any hardware. It keeps the
// active configuration so behaviours can react to channel or gain changes.
//
// Example usage:
//
//	adc := NewMockVoltmeter(DefaultConfiguration(), func(ctx context.Context, cfg Configuration) (float64, error) {
//		return 0.1 * float64(cfg.Channel().Number()), nil
//	})
type MockVoltmeter struct {
	config   Configuration
	behavior VoltageBehaviorFunc
}

func NewMockVoltmeter(cfg Configuration, behavior VoltageBehaviorFunc) *MockVoltmeter {
	return &MockVoltmeter{config: cfg, behavior: behavior}
}

func (m *MockVoltmeter) Configuration() Configuration {
	return m.config
}

func (m *MockVoltmeter) Reconfigure(cfg Configuration) {
	m.config = cfg
}

// Measure returns the behaviour result for the active configuration.
func (m *MockVoltmeter) Measure(ctx context.Context) (float64, error) {
	return m.behavior(ctx, m.config)
}

// MeasureSequence calls the behaviour once per configuration.
func (m *MockVoltmeter) MeasureSequence(ctx context.Context, cfgs ...Configuration) ([]float64, error) {
	values := make([]float64, 0, len(cfgs))
	for _, cfg := range cfgs {
		v, err := m.behavior(ctx, cfg)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Voltmeter is implemented by Device[float64] and MockVoltmeter.
type Voltmeter interface {
	Configuration() Configuration
	Reconfigure(cfg Configuration)
	Measure(ctx context.Context) (float64, error)
	MeasureSequence(ctx context.Context, cfgs ...Configuration) ([]float64, error)
}

var (
	_ Voltmeter = &Device[float64]{}
	_ Voltmeter = &MockVoltmeter{}
)
