package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/karalabe/hid"
	"github.com/mklimuk/mcp342x"
	"github.com/mklimuk/mcp342x/adcctx"
	"periph.io/x/conn/v3/physic"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

const reportSize = 64

// MCP2221 commands
const (
	cmdStatusSetParameters byte = 0x10
	cmdReadData            byte = 0x40
	cmdWriteData           byte = 0x90
	cmdReadDataRequest     byte = 0x91
)

const (
	paramCancelTransfer byte = 0x10
	paramSetSpeed       byte = 0x20
	speedAccepted       byte = 0x20
	readDataFailed      byte = 0x41
	engineBusy          byte = 0x01
	invalidDataSize     byte = 127
)

// clockFrequency is the base of the I2C speed divider.
const clockFrequency = 12 * physic.MegaHertz

var ErrCommandFailed = errors.New("command failed")
var ErrDeviceNotFound = errors.New("MCP2221 device not found")

var _ mcp342x.I2CBus = &MCP2221{}

// MCP2221 is the Microchip USB to I2C bridge. Every command opens the HID
// device, exchanges one 64 byte report pair and closes it again.
type MCP2221 struct {
	mx           sync.Mutex
	request      []byte
	response     []byte
	responseWait time.Duration
	index        int
	open         func(index int) (io.ReadWriteCloser, error)
}

type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CSpeed               string `yaml:"i2c_speed"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

type MCP2221Opt func(*MCP2221)

// WithDeviceIndex picks one of several attached bridges, in enumeration order.
func WithDeviceIndex(index int) MCP2221Opt {
	return func(d *MCP2221) {
		d.index = index
	}
}

// WithResponseWait sets the pause between sending a report and reading the answer.
func WithResponseWait(wait time.Duration) MCP2221Opt {
	return func(d *MCP2221) {
		d.responseWait = wait
	}
}

func NewMCP2221(opts ...MCP2221Opt) *MCP2221 {
	d := &MCP2221{
		request:      make([]byte, reportSize),
		response:     make([]byte, reportSize),
		responseWait: 50 * time.Millisecond,
		index:        -1,
		open:         openHID,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func openHID(index int) (io.ReadWriteCloser, error) {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) == 0 {
		return nil, ErrDeviceNotFound
	}
	if index < 0 {
		if len(devs) > 1 {
			return nil, fmt.Errorf("ambiguous device identification: %d bridges attached", len(devs))
		}
		index = 0
	}
	if index >= len(devs) {
		return nil, fmt.Errorf("no device with id %d", index)
	}
	dev, err := devs[index].Open()
	if err != nil {
		return nil, fmt.Errorf("error opening device: %w", err)
	}
	return dev, nil
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdWriteData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	copy(d.request[4:], buffer)
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("write to %#x failed: %w", address, err)
	}
	if d.response[1] == engineBusy {
		slog.DebugContext(ctx, "adapter busy", "address", fmt.Sprintf("%#x", address))
		return mcp342x.ErrBusBusy
	}
	return nil
}

func (d *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdReadDataRequest
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("bus read from %#x failed: %w", address, err)
	}
	if d.response[1] == engineBusy {
		return mcp342x.ErrBusBusy
	}
	d.resetBuffers()
	d.request[0] = cmdReadData
	err = d.send(ctx)
	if err != nil {
		return fmt.Errorf("error getting read data from adapter: %w", err)
	}
	if d.response[1] == readDataFailed {
		return fmt.Errorf("%w: error reading the I2C slave data from the I2C engine", ErrCommandFailed)
	}
	if d.response[3] == invalidDataSize || int(d.response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d", len(buffer), d.response[3])
	}
	copy(buffer, d.response[4:])
	return nil
}

func (d *MCP2221) Status(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParameters
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

// SetSpeed programs the I2C clock divider. The bridge refuses the change while
// a transfer is in progress.
func (d *MCP2221) SetSpeed(ctx context.Context, speed physic.Frequency) error {
	divider, err := speedDivider(speed)
	if err != nil {
		return err
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParameters
	d.request[3] = paramSetSpeed
	d.request[4] = divider
	err = d.send(ctx)
	if err != nil {
		return fmt.Errorf("set speed request failed: %w", err)
	}
	if d.response[3] != speedAccepted {
		return fmt.Errorf("%w: speed %s not set (transfer in progress)", ErrCommandFailed, speed)
	}
	return nil
}

func speedDivider(speed physic.Frequency) (byte, error) {
	if speed <= 0 {
		return 0, fmt.Errorf("invalid i2c speed %s", speed)
	}
	divider := int64(clockFrequency/speed) - 3
	if divider < 0 || divider > 0xFF {
		return 0, fmt.Errorf("i2c speed %s out of range", speed)
	}
	return byte(divider), nil
}

func bufferToStatus(buffer []byte) *MCP2221Status {
	/*
		9: Lower byte (16-bit value) of the requested I2C transfer length
		10: Higher byte (16-bit value) of the requested I2C transfer length
		11:	Lower byte (16-bit value) of the already transferred (through I2C) number of bytes
		12:	Higher byte (16-bit value) of the already transferred (through I2C) number of bytes
		13:	Internal I2C data buffer counter
		14: Current I2C communication speed divider value
		15: Current I2C timeout value
		16:	Lower byte (16-bit value) of the I2C address being used
		17:	Higher byte (16-bit value) of the I2C address being used
	*/
	status := &MCP2221Status{
		I2CDataBufferCounter: int(buffer[13]),
		I2CSpeedDivider:      int(buffer[14]),
		I2CTimeout:           int(buffer[15]),
		ReadPending:          int(buffer[25]),
		CurrentAddress:       hex.EncodeToString(buffer[16:18]),
	}
	status.I2CSpeed = (clockFrequency / physic.Frequency(status.I2CSpeedDivider+3)).String()
	status.LastWriteRequestedSize = binary.LittleEndian.Uint16(buffer[9:11])
	status.LastWriteSentSize = binary.LittleEndian.Uint16(buffer[11:13])
	return status
}

// Release cancels a pending transfer and frees the bus.
func (d *MCP2221) Release(ctx context.Context) error {
	_, err := d.ReleaseBus(ctx)
	return err
}

func (d *MCP2221) ReleaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParameters
	d.request[2] = paramCancelTransfer
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("release request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func (d *MCP2221) Close() error {
	return nil
}

func (d *MCP2221) send(ctx context.Context) error {
	dev, err := d.open(d.index)
	if err != nil {
		return err
	}
	defer func() {
		err := dev.Close()
		if err != nil {
			slog.Warn("could not close adapter", "error", err)
		}
	}()
	verbose := adcctx.IsVerbose(ctx)
	if verbose {
		slog.DebugContext(ctx, "sending message to adapter", "report", "\n"+hex.Dump(d.request))
	}
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short write: %d", n)
	}
	err = mcp342x.TimerDelay{}.Delay(ctx, d.responseWait)
	if err != nil {
		return err
	}
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short read: %d", n)
	}
	if verbose {
		slog.DebugContext(ctx, "read message from adapter", "report", "\n"+hex.Dump(d.response))
	}
	if d.response[0] != d.request[0] {
		return fmt.Errorf("%w: response to command %#x echoes %#x", ErrCommandFailed, d.request[0], d.response[0])
	}
	return nil
}

func (d *MCP2221) resetBuffers() {
	clear(d.request)
	clear(d.response)
}
