// Package eeprom provides the block store driver for the AT24CM02-class
// serial EEPROM backing the appliance's persistent state.
package eeprom

// The device is addressed over a synchronous byte-oriented bus with
// I2C semantics: a write carries a 2-byte big-endian in-page word
// address followed by payload, and the two topmost bits of the 18-bit
// storage address travel in the bus device address byte. The medium
// can only atomically program one page per operation and exposes no
// completion signaling, so multi-page writes are split at page
// boundaries with a worst-case settle delay between programs.
//
// A failed write is not rolled back. Callers must treat it as
// "unknown state, safe to retry the whole operation".
