package i2c

import (
	"context"
	"testing"
	"time"

	"github.com/mklimuk/mcp342x"
	"github.com/mklimuk/mcp342x/adcctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

func TestGenericBus_ReadWrite(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x68, W: []byte{0x10}},
			{Addr: 0x68, R: []byte{0x00, 0x64, 0x10}},
		},
	}
	bus := NewBus(playback)
	ctx := adcctx.SetVerbose(context.Background(), true)

	require.NoError(t, bus.WriteToAddr(ctx, 0x68, []byte{0x10}))
	buf := make([]byte, 3)
	require.NoError(t, bus.ReadFromAddr(ctx, 0x68, buf))
	assert.Equal(t, []byte{0x00, 0x64, 0x10}, buf)
	require.NoError(t, bus.SetSpeed(400*physic.KiloHertz))
	assert.NoError(t, bus.Close())
}

func TestGenericBus_Errors(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: 0x69, W: []byte{0x80}}},
		DontPanic: true,
	}
	bus := NewBus(playback)

	err := bus.WriteToAddr(context.Background(), 0x68, []byte{0x80})
	assert.ErrorContains(t, err, "could not write to i2c bus 0x68")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = bus.ReadFromAddr(ctx, 0x69, make([]byte, 3))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, playback.Count)
}

func TestGenericBus_Device(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x6A, W: []byte{0x88}},
			{Addr: 0x6A, R: []byte{0x00, 0x64, 0x08}},
		},
	}
	delay := mcp342x.DelayFunc(func(ctx context.Context, _ time.Duration) error { return nil })
	adc := mcp342x.New(NewBus(playback), 0x6A, delay, mcp342x.DefaultConfiguration().WithResolution(mcp342x.Resolution16Bits))

	v, err := adc.Measure(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 100*0.0625e-3, v, 1e-12)
	assert.NoError(t, playback.Close())
}
