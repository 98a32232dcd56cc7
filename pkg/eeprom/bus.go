package eeprom

// Bus is the synchronous byte-oriented transport to the storage chip.
// Both operations block until the transfer completes or the chip
// rejects it. Implementations must never be invoked from latency
// sensitive contexts; they belong to the control loop.
type Bus interface {
	// Write sends data to the device at busAddr in one transaction.
	Write(busAddr byte, data []byte) error
	// Read fills buf from the device at busAddr in one transaction,
	// starting at the device's current address pointer.
	Read(busAddr byte, buf []byte) error
}
