package eeprom

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type busOp struct {
	addr byte
	data []byte
	read bool
}

// fakeBus records transactions and optionally fails the nth one.
type fakeBus struct {
	ops     []busOp
	failAt  int // 1-based op index to fail; 0 never fails
	failErr error
}

func (b *fakeBus) do(op busOp) error {
	b.ops = append(b.ops, op)
	if b.failAt != 0 && len(b.ops) == b.failAt {
		return b.failErr
	}
	return nil
}

func (b *fakeBus) Write(busAddr byte, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	return b.do(busOp{addr: busAddr, data: cp})
}

func (b *fakeBus) Read(busAddr byte, buf []byte) error {
	return b.do(busOp{addr: busAddr, data: buf, read: true})
}

func newTestDevice(bus Bus) (*Device, *int) {
	d := New(bus, false)
	slept := new(int)
	d.Sleep = func(time.Duration) { *slept++ }
	return d, slept
}

func TestWriteRejectsBadArgs(t *testing.T) {
	bus := &fakeBus{}
	d, _ := newTestDevice(bus)

	require.Equal(t, ErrNoData, d.Write(0, nil))
	require.Equal(t, ErrNoData, d.Write(0, []byte{}))
	require.Equal(t, ErrAddress, d.Write(Capacity, []byte{1}))
	require.Equal(t, ErrAddress, d.Write(1<<18, []byte{1}))
	require.Equal(t, ErrBounds, d.Write(Capacity-1, []byte{1, 2}))
	require.Empty(t, bus.ops)

	require.Equal(t, ErrNoData, d.Read(0, nil))
	require.Equal(t, ErrAddress, d.Read(Capacity+5, make([]byte, 1)))
	require.Equal(t, ErrBounds, d.Read(Capacity-2, make([]byte, 3)))
	require.Empty(t, bus.ops)
}

func TestWriteSinglePage(t *testing.T) {
	bus := &fakeBus{}
	d, slept := newTestDevice(bus)

	require.NoError(t, d.Write(0x0102, []byte{0xAA, 0xBB}))
	require.Len(t, bus.ops, 1)
	require.Equal(t, byte(0x50), bus.ops[0].addr)
	require.Equal(t, []byte{0x01, 0x02, 0xAA, 0xBB}, bus.ops[0].data)
	require.Equal(t, 1, *slept)
}

func TestWriteSplitsAtPageBoundary(t *testing.T) {
	bus := &fakeBus{}
	d, slept := newTestDevice(bus)

	// 4 bytes starting 2 below a page boundary: two programs.
	data := []byte{1, 2, 3, 4}
	require.NoError(t, d.Write(PageSize-2, data))
	require.Len(t, bus.ops, 2)
	require.Equal(t, []byte{0x00, 0xFE, 1, 2}, bus.ops[0].data)
	require.Equal(t, []byte{0x01, 0x00, 3, 4}, bus.ops[1].data)
	require.Equal(t, 2, *slept)
}

func TestWriteSpanningManyPages(t *testing.T) {
	bus := &fakeBus{}
	d, _ := newTestDevice(bus)

	data := make([]byte, PageSize*2+10)
	require.NoError(t, d.Write(100, data))
	require.Len(t, bus.ops, 3)
	require.Len(t, bus.ops[0].data, 2+PageSize-100)
	require.Len(t, bus.ops[1].data, 2+PageSize)
	require.Len(t, bus.ops[2].data, 2+110)
}

func TestBusAddrCarriesHighBits(t *testing.T) {
	bus := &fakeBus{}
	d, _ := newTestDevice(bus)

	require.NoError(t, d.Write(0x30000, []byte{9}))
	require.Equal(t, byte(0x53), bus.ops[0].addr)

	d = New(bus, true)
	d.Sleep = func(time.Duration) {}
	require.NoError(t, d.Write(0x10000, []byte{9}))
	require.Equal(t, byte(0x55), bus.ops[1].addr)
}

func TestWriteAbortsOnTransportFailure(t *testing.T) {
	nak := errors.New("nak")
	bus := &fakeBus{failAt: 2, failErr: nak}
	d, _ := newTestDevice(bus)

	data := make([]byte, PageSize*3)
	err := d.Write(0, data)
	require.Equal(t, nak, err)
	// first page went through, nothing after the failing one
	require.Len(t, bus.ops, 2)
}

func TestReadIsSingleTransfer(t *testing.T) {
	bus := &fakeBus{}
	d, slept := newTestDevice(bus)

	buf := make([]byte, PageSize*3)
	require.NoError(t, d.Read(0x20010, buf))
	require.Len(t, bus.ops, 2)
	require.Equal(t, byte(0x52), bus.ops[0].addr)
	require.Equal(t, []byte{0x00, 0x10}, bus.ops[0].data)
	require.True(t, bus.ops[1].read)
	require.Equal(t, 0, *slept)
}

func TestReadFailurePropagates(t *testing.T) {
	nak := errors.New("nak")
	bus := &fakeBus{failAt: 1, failErr: nak}
	d, _ := newTestDevice(bus)
	require.Equal(t, nak, d.Read(0, make([]byte, 4)))
}
