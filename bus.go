package mcp342x

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
}

// I2CBus is the transport a Device talks through. Implementations live in the
// i2c and adapter packages.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}
