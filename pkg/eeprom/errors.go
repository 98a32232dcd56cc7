package eeprom

import "errors"

var (
	// ErrAddress indicates the address falls outside the device's
	// advertised address space.
	ErrAddress = errors.New("address out of range")
	// ErrBounds indicates address + length exceeds the device capacity.
	ErrBounds = errors.New("transfer exceeds capacity")
	// ErrNoData indicates a nil or empty buffer.
	ErrNoData = errors.New("no data")
)
