package eeprom

import "time"

// Device geometry of the AT24CM02 (2 Mbit).
const (
	Pages    = 1024
	PageSize = 256
	Capacity = Pages * PageSize

	// ErasedByte is what a cell reads back as before it is ever
	// written. Specific to this medium; do not assume it holds for
	// other chips.
	ErasedByte byte = 0xFF
)

// addrMask masks the valid 18-bit address space.
const addrMask uint32 = Capacity - 1

// DefaultSettle is the worst-case page program time. The chip exposes
// no completion signaling, so the driver waits this long after every
// page program.
const DefaultSettle = 10 * time.Millisecond

// Device drives one AT24CM02 chip over a Bus.
type Device struct {
	// Settle is the delay after each page program.
	Settle time.Duration
	// Sleep is the blocking delay function, replaceable in tests.
	Sleep func(time.Duration)

	bus Bus
	pin byte
}

// New creates a Device. addrPin reflects the chip-select pin strap.
func New(bus Bus, addrPin bool) *Device {
	d := &Device{
		Settle: DefaultSettle,
		Sleep:  time.Sleep,
		bus:    bus,
	}
	if addrPin {
		d.pin = 1
	}
	return d
}

// busAddr folds the two topmost storage address bits and the select
// pin into the 7-bit bus device address.
func (d *Device) busAddr(addr uint32) byte {
	return 0x50 | d.pin<<2 | byte(addr>>16)
}

func checkRange(addr uint32, length int) error {
	if length == 0 {
		return ErrNoData
	}
	if addr&^addrMask != 0 {
		return ErrAddress
	}
	if addr+uint32(length) > Capacity {
		return ErrBounds
	}
	return nil
}

// Write programs data starting at addr. Writes spanning page
// boundaries are split since the chip programs at most one page per
// transaction. On failure, pages programmed before the failing one
// stay programmed; the whole operation is safe to retry.
func (d *Device) Write(addr uint32, data []byte) error {
	if data == nil {
		return ErrNoData
	}
	if err := checkRange(addr, len(data)); err != nil {
		return err
	}

	for len(data) > 0 {
		remain := PageSize - int(addr%PageSize)
		if len(data) < remain {
			remain = len(data)
		}

		frame := make([]byte, 2+remain)
		frame[0] = byte(addr >> 8)
		frame[1] = byte(addr)
		copy(frame[2:], data[:remain])
		if err := d.bus.Write(d.busAddr(addr), frame); err != nil {
			return err
		}
		d.Sleep(d.Settle)

		addr += uint32(remain)
		data = data[remain:]
	}
	return nil
}

// Read fills buf starting at addr as a single sequential transfer.
func (d *Device) Read(addr uint32, buf []byte) error {
	if buf == nil {
		return ErrNoData
	}
	if err := checkRange(addr, len(buf)); err != nil {
		return err
	}

	busAddr := d.busAddr(addr)
	if err := d.bus.Write(busAddr, []byte{byte(addr >> 8), byte(addr)}); err != nil {
		return err
	}
	return d.bus.Read(busAddr, buf)
}
