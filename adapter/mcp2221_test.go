package adapter

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/mklimuk/mcp342x"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

// fakeBridge answers each report with the next scripted response.
type fakeBridge struct {
	requests  [][]byte
	responses [][]byte
	closed    int
}

func (f *fakeBridge) Write(p []byte) (int, error) {
	f.requests = append(f.requests, append([]byte(nil), p...))
	return len(p), nil
}

func (f *fakeBridge) Read(p []byte) (int, error) {
	if len(f.responses) == 0 {
		return 0, io.EOF
	}
	report := make([]byte, reportSize)
	copy(report, f.responses[0])
	f.responses = f.responses[1:]
	return copy(p, report), nil
}

func (f *fakeBridge) Close() error {
	f.closed++
	return nil
}

func newTestBridge(responses ...[]byte) (*MCP2221, *fakeBridge) {
	fake := &fakeBridge{responses: responses}
	d := NewMCP2221(WithResponseWait(0))
	d.open = func(int) (io.ReadWriteCloser, error) {
		return fake, nil
	}
	return d, fake
}

func TestMCP2221_WriteToAddr(t *testing.T) {
	d, fake := newTestBridge([]byte{0x90, 0x00})

	err := d.WriteToAddr(context.Background(), 0x68, []byte{0x98})
	require.NoError(t, err)
	require.Len(t, fake.requests, 1)
	assert.Equal(t, []byte{0x90, 0x01, 0x00, 0xD0, 0x98, 0x00}, fake.requests[0][:6])
	assert.Len(t, fake.requests[0], reportSize)
	assert.Equal(t, 1, fake.closed)
}

func TestMCP2221_WriteBusy(t *testing.T) {
	d, _ := newTestBridge([]byte{0x90, 0x01})

	err := d.WriteToAddr(context.Background(), 0x68, []byte{0x98})
	assert.ErrorIs(t, err, mcp342x.ErrBusBusy)
}

func TestMCP2221_ReadFromAddr(t *testing.T) {
	d, fake := newTestBridge(
		[]byte{0x91, 0x00},
		[]byte{0x40, 0x00, 0x00, 0x03, 0x00, 0x64, 0x18},
	)

	buf := make([]byte, 3)
	err := d.ReadFromAddr(context.Background(), 0x68, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x64, 0x18}, buf)
	require.Len(t, fake.requests, 2)
	assert.Equal(t, []byte{0x91, 0x03, 0x00, 0xD1}, fake.requests[0][:4])
	assert.Equal(t, byte(0x40), fake.requests[1][0])
	assert.Equal(t, 2, fake.closed)
}

func TestMCP2221_ReadErrors(t *testing.T) {
	tests := []struct {
		name      string
		responses [][]byte
		expected  string
	}{
		{"engine failure", [][]byte{{0x91, 0x00}, {0x40, 0x41}}, "I2C engine"},
		{"invalid size", [][]byte{{0x91, 0x00}, {0x40, 0x00, 0x00, 127}}, "invalid data size"},
		{"short data", [][]byte{{0x91, 0x00}, {0x40, 0x00, 0x00, 0x02}}, "expected 3, got 2"},
		{"wrong echo", [][]byte{{0x10, 0x00}}, "echoes 0x10"},
		{"no response", nil, "could not read response"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, _ := newTestBridge(test.responses...)
			err := d.ReadFromAddr(context.Background(), 0x68, make([]byte, 3))
			assert.ErrorContains(t, err, test.expected)
		})
	}
}

func TestMCP2221_DeviceNotFound(t *testing.T) {
	d := NewMCP2221()
	d.open = func(int) (io.ReadWriteCloser, error) {
		return nil, ErrDeviceNotFound
	}
	_, err := d.Status(context.Background())
	assert.True(t, errors.Is(err, ErrDeviceNotFound))
}

func TestMCP2221_SetSpeed(t *testing.T) {
	d, fake := newTestBridge([]byte{0x10, 0x00, 0x00, 0x20})

	err := d.SetSpeed(context.Background(), 400*physic.KiloHertz)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x00, 0x00, 0x20, 27}, fake.requests[0][:5])

	d, _ = newTestBridge([]byte{0x10, 0x00, 0x00, 0x21})
	err = d.SetSpeed(context.Background(), 100*physic.KiloHertz)
	assert.ErrorIs(t, err, ErrCommandFailed)
}

func TestSpeedDivider(t *testing.T) {
	tests := []struct {
		speed    physic.Frequency
		expected byte
	}{
		{400 * physic.KiloHertz, 27},
		{100 * physic.KiloHertz, 117},
		{50 * physic.KiloHertz, 237},
	}
	for _, test := range tests {
		t.Run(test.speed.String(), func(t *testing.T) {
			divider, err := speedDivider(test.speed)
			require.NoError(t, err)
			assert.Equal(t, test.expected, divider)
		})
	}
	_, err := speedDivider(10 * physic.KiloHertz)
	assert.Error(t, err)
	_, err = speedDivider(0)
	assert.Error(t, err)
}

func TestBufferToStatus(t *testing.T) {
	buf := make([]byte, reportSize)
	buf[0] = 0x10
	buf[9], buf[10] = 0x04, 0x01
	buf[11], buf[12] = 0x02, 0x00
	buf[13] = 3
	buf[14] = 27
	buf[15] = 5
	buf[16], buf[17] = 0xD0, 0x00
	buf[25] = 1

	status := bufferToStatus(buf)
	assert.Equal(t, &MCP2221Status{
		I2CDataBufferCounter:   3,
		I2CSpeedDivider:        27,
		I2CSpeed:               (400 * physic.KiloHertz).String(),
		I2CTimeout:             5,
		CurrentAddress:         "d000",
		LastWriteRequestedSize: 0x0104,
		LastWriteSentSize:      2,
		ReadPending:            1,
	}, status)
}

func TestMCP2221_ReleaseBus(t *testing.T) {
	response := make([]byte, reportSize)
	response[0] = 0x10
	response[14] = 117
	d, fake := newTestBridge(response)

	status, err := d.ReleaseBus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 117, status.I2CSpeedDivider)
	assert.Equal(t, []byte{0x10, 0x00, 0x10}, fake.requests[0][:3])
}

func TestMCP2221_Device(t *testing.T) {
	d, _ := newTestBridge(
		[]byte{0x90, 0x00},
		[]byte{0x91, 0x00},
		[]byte{0x40, 0x00, 0x00, 0x03, 0x00, 0x64, 0x00},
	)
	adc := mcp342x.New(d, mcp342x.DefaultAddress, mcp342x.TimerDelay{}, mcp342x.DefaultConfiguration())
	v, err := adc.Measure(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.1, v, 1e-12)
}
