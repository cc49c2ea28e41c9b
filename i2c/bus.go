package i2c

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/mklimuk/mcp342x"
	"github.com/mklimuk/mcp342x/adcctx"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var _ mcp342x.I2CBus = &GenericBus{}

// GenericBus talks to the kernel I2C driver through periph.
type GenericBus struct {
	bus i2c.BusCloser
}

// NewGenericBus initialises the host drivers and opens the named bus, e.g.
// "/dev/i2c-1" or "1". An empty name opens the first available bus.
func NewGenericBus(dev string) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("host driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return NewBus(bus), nil
}

// NewBus wraps an already opened periph bus.
func NewBus(bus i2c.BusCloser) *GenericBus {
	return &GenericBus{
		bus: bus,
	}
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %#x: %w", address, err)
	}
	if adcctx.IsVerbose(ctx) {
		slog.DebugContext(ctx, "i2c read", "bus", b.bus.String(), "address", fmt.Sprintf("%#x", address), "data", hex.EncodeToString(buffer))
	}
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if adcctx.IsVerbose(ctx) {
		slog.DebugContext(ctx, "i2c write", "bus", b.bus.String(), "address", fmt.Sprintf("%#x", address), "data", hex.EncodeToString(buffer))
	}
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %#x: %w", address, err)
	}
	return nil
}

// SetSpeed changes the bus clock. The MCP342x supports up to 400kHz in fast mode.
func (b *GenericBus) SetSpeed(f physic.Frequency) error {
	err := b.bus.SetSpeed(f)
	if err != nil {
		return fmt.Errorf("could not set i2c bus speed to %s: %w", f, err)
	}
	return nil
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}
