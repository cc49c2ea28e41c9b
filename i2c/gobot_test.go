package i2c

import (
	"bytes"
	"context"
	"testing"

	"github.com/mklimuk/mcp342x/adcctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	gobot "gobot.io/x/gobot/v2/drivers/i2c"
)

type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) GetI2cConnection(address int, busNr int) (gobot.Connection, error) {
	args := m.Called(address, busNr)
	conn, _ := args.Get(0).(gobot.Connection)
	return conn, args.Error(1)
}

func (m *MockConnector) DefaultI2cBus() int {
	return m.Called().Int(0)
}

// fakeConnection serves reads from a buffer and records writes. Only the
// io.ReadWriteCloser part of the connection is implemented.
type fakeConnection struct {
	gobot.Connection
	rx     bytes.Buffer
	tx     bytes.Buffer
	closed bool
}

func (c *fakeConnection) Read(p []byte) (int, error) {
	return c.rx.Read(p)
}

func (c *fakeConnection) Write(p []byte) (int, error) {
	return c.tx.Write(p)
}

func (c *fakeConnection) Close() error {
	c.closed = true
	return nil
}

func TestGobotBus(t *testing.T) {
	connector := new(MockConnector)
	conn := new(fakeConnection)
	conn.rx.Write([]byte{0x00, 0x64, 0x10})
	connector.On("DefaultI2cBus").Return(2)
	connector.On("GetI2cConnection", 0x68, 2).Return(conn, nil).Once()

	bus := NewGobotBus(connector, -1)
	ctx := context.Background()
	require.NoError(t, bus.WriteToAddr(ctx, 0x68, []byte{0x10}))
	buf := make([]byte, 3)
	require.NoError(t, bus.ReadFromAddr(ctx, 0x68, buf))
	assert.Equal(t, []byte{0x00, 0x64, 0x10}, buf)
	assert.Equal(t, []byte{0x10}, conn.tx.Bytes())

	// short read
	err := bus.ReadFromAddr(ctx, 0x68, buf)
	assert.Error(t, err)

	require.NoError(t, bus.Close())
	assert.True(t, conn.closed)
	connector.AssertExpectations(t)
}

func TestGobotBus_ConnectionPerAddress(t *testing.T) {
	connector := new(MockConnector)
	first, second := new(fakeConnection), new(fakeConnection)
	connector.On("GetI2cConnection", 0x68, 1).Return(first, nil).Once()
	connector.On("GetI2cConnection", 0x69, 1).Return(second, nil).Once()

	bus := NewGobotBus(connector, 1)
	ctx := adcctx.SetVerbose(context.Background(), true)
	require.NoError(t, bus.WriteToAddr(ctx, 0x68, []byte{0x80}))
	require.NoError(t, bus.WriteToAddr(ctx, 0x69, []byte{0xA0}))
	require.NoError(t, bus.WriteToAddr(ctx, 0x68, []byte{0x88}))

	assert.Equal(t, []byte{0x80, 0x88}, first.tx.Bytes())
	assert.Equal(t, []byte{0xA0}, second.tx.Bytes())
	connector.AssertNumberOfCalls(t, "GetI2cConnection", 2)

	require.NoError(t, bus.Close())
	assert.True(t, first.closed)
	assert.True(t, second.closed)
	connector.AssertExpectations(t)
}

func TestGobotBus_ConnectionError(t *testing.T) {
	connector := new(MockConnector)
	connector.On("GetI2cConnection", 0x6B, 2).Return(nil, assert.AnError)

	bus := NewGobotBus(connector, 2)
	err := bus.WriteToAddr(context.Background(), 0x6B, []byte{0x80})
	assert.ErrorIs(t, err, assert.AnError)
}
