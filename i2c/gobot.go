package i2c

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mklimuk/mcp342x"
	"github.com/mklimuk/mcp342x/adcctx"
	gobot "gobot.io/x/gobot/v2/drivers/i2c"
)

var _ mcp342x.I2CBus = &GobotBus{}

// GobotBus adapts a gobot I2C connector (e.g. the NanoPi adaptor) to the
// address oriented bus used by the driver. Connections are opened lazily, one
// per address, and kept until Close.
type GobotBus struct {
	connector gobot.Connector
	bus       int
	conns     map[byte]gobot.Connection
}

// NewGobotBus uses the given bus number, or the connector default if negative.
func NewGobotBus(connector gobot.Connector, bus int) *GobotBus {
	if bus < 0 {
		bus = connector.DefaultI2cBus()
	}
	return &GobotBus{
		connector: connector,
		bus:       bus,
		conns:     make(map[byte]gobot.Connection),
	}
}

func (b *GobotBus) connection(address byte) (gobot.Connection, error) {
	if conn, ok := b.conns[address]; ok {
		return conn, nil
	}
	conn, err := b.connector.GetI2cConnection(int(address), b.bus)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c connection %d/%#x: %w", b.bus, address, err)
	}
	b.conns[address] = conn
	return conn, nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	n, err := conn.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %#x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("could not read from i2c bus %#x: got %d of %d bytes", address, n, len(buffer))
	}
	if adcctx.IsVerbose(ctx) {
		slog.DebugContext(ctx, "i2c read", "address", fmt.Sprintf("%#x", address), "data", hex.EncodeToString(buffer))
	}
	return nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	if adcctx.IsVerbose(ctx) {
		slog.DebugContext(ctx, "i2c write", "address", fmt.Sprintf("%#x", address), "data", hex.EncodeToString(buffer))
	}
	_, err = conn.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %#x: %w", address, err)
	}
	return nil
}

// Release closes all open connections. They are reopened on demand.
func (b *GobotBus) Release(ctx context.Context) error {
	var errs []error
	for key, conn := range b.conns {
		errs = append(errs, conn.Close())
		delete(b.conns, key)
	}
	return errors.Join(errs...)
}

func (b *GobotBus) Close() error {
	return b.Release(context.Background())
}
