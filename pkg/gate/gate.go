// Package gate exposes the write-protect capability check consulted
// by all mutating operations.
package gate

// Gate reflects the physical write-protection signal. When asserted,
// mutating operations no-op without error.
type Gate interface {
	IsWriteLocked() bool
}

// Static is a fixed gate setting.
type Static bool

// IsWriteLocked implements Gate.
func (s Static) IsWriteLocked() bool { return bool(s) }
