// Package ident defines the fixed-layout identity record persisted in
// the appliance's EEPROM: ten 64-byte text fields plus one additive
// checksum byte.
package ident
