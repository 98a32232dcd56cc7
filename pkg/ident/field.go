package ident

import (
	"bytes"

	"github.com/robotalks/ident.go/pkg/eeprom"
)

// FieldSize is the storage size of one field: 63 usable bytes plus a
// terminator. No unused trailing byte may hold the medium's erased
// sentinel; unused bytes are zero-filled.
const FieldSize = 64

// Field is one fixed-capacity identity attribute.
type Field [FieldSize]byte

// Set copies at most FieldSize-1 bytes of s, truncating silently, and
// zero-fills the remainder. A field is never partially written.
func (f *Field) Set(s string) {
	n := copy(f[:FieldSize-1], s)
	for i := n; i < FieldSize; i++ {
		f[i] = 0
	}
}

// Get returns the logical string, stopping at the first terminator or
// erased byte.
func (f *Field) Get() string {
	for i, b := range f {
		if b == 0 || b == eeprom.ErasedByte {
			return string(f[:i])
		}
	}
	return string(f[:])
}

// Validate repairs a never-written field. A freshly erased cell reads
// back as all erased sentinel bytes, which a plain terminated-string
// read would return as garbage; any field containing the sentinel is
// zero-filled. Reports whether the field was already valid.
func (f *Field) Validate() bool {
	if bytes.IndexByte(f[:], eeprom.ErasedByte) >= 0 {
		f.Clear()
		return false
	}
	return true
}

// Clear zero-fills the field.
func (f *Field) Clear() {
	for i := range f {
		f[i] = 0
	}
}

func (f *Field) sum() byte {
	var s byte
	for _, b := range f {
		s += b
	}
	return s
}
