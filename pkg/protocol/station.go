package protocol

// Station is the complete surface the command dispatcher needs. It
// need not know about storage addressing, wear leveling, or debounce
// timing.
//
// Mutating operations consult the write-protect gate themselves and
// no-op silently while it is asserted. A returned error means the
// durable store failed; by then the station has already escalated,
// the dispatcher only stops serving.
type Station interface {
	// Field returns the value of an identity field, false if the key
	// is unknown.
	Field(key string) (string, bool)
	// SetField assigns an identity field durably. Unknown keys no-op.
	SetField(key, value string) error
	// Clear zeroes the whole identity record durably.
	Clear() error
	// Check verifies the stored checksum against a fresh computation.
	Check() bool
	// BoardSerial returns the unit's unique ID.
	BoardSerial() string
	// PulseCount returns the in-memory qualified pulse count.
	PulseCount() uint32
	// ResetCount zeroes the pulse counter durably.
	ResetCount() error
}
