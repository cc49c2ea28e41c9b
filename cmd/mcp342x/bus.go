package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mklimuk/mcp342x"
	"github.com/mklimuk/mcp342x/adapter"
	"github.com/mklimuk/mcp342x/i2c"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
)

type bus interface {
	mcp342x.I2CBus
	Release(ctx context.Context) error
	Close() error
}

// nanopiBus finalizes the board adaptor together with the bus.
type nanopiBus struct {
	*i2c.GobotBus
	npi *nanopi.Adaptor
}

func (b *nanopiBus) Close() error {
	return errors.Join(b.GobotBus.Close(), b.npi.I2cBusAdaptor.Finalize())
}

func openBus(ctx context.Context, s settings) (bus, error) {
	speed, err := s.speed()
	if err != nil {
		return nil, err
	}
	switch s.Adapter {
	case "mcp2221":
		a := adapter.NewMCP2221()
		if speed > 0 {
			err = a.SetSpeed(ctx, speed)
			if err != nil {
				return nil, fmt.Errorf("adapter initialization error: %w", err)
			}
		}
		return a, nil
	case "generic":
		b, err := i2c.NewGenericBus(s.Bus)
		if err != nil {
			return nil, err
		}
		if speed > 0 {
			err = b.SetSpeed(speed)
			if err != nil {
				_ = b.Close()
				return nil, err
			}
		}
		return b, nil
	case "nanopi":
		busNr := -1
		if s.Bus != "" {
			busNr, err = strconv.Atoi(s.Bus)
			if err != nil {
				return nil, fmt.Errorf("invalid nanopi bus number %q: %w", s.Bus, err)
			}
		}
		npi := nanopi.NewNeoAdaptor()
		err = npi.I2cBusAdaptor.Connect()
		if err != nil {
			return nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		return &nanopiBus{GobotBus: i2c.NewGobotBus(npi, busNr), npi: npi}, nil
	}
	return nil, fmt.Errorf("unknown adapter %q", s.Adapter)
}
