package ident

import "errors"

// Record layout constants. The serialized form is a fixed-size,
// self-contained blob: field k occupies bytes [k*FieldSize,
// (k+1)*FieldSize), the checksum byte sits at the very end.
const (
	NumFields  = 10
	RecordSize = NumFields*FieldSize + 1
)

// ErrRecordSize indicates a serialized record of the wrong length.
var ErrRecordSize = errors.New("bad record size")

// fieldKeys lists the protocol names of the fields in storage order.
var fieldKeys = [NumFields]string{
	"MFG", "NAME", "VER", "DATE", "PART",
	"MFGSERIAL", "USER1", "USER2", "USER3", "USER4",
}

// FieldKeys returns the field names in storage order.
func FieldKeys() []string {
	return fieldKeys[:]
}

// FieldIndex resolves a field name to its index, -1 if unknown.
func FieldIndex(key string) int {
	for i, k := range fieldKeys {
		if k == key {
			return i
		}
	}
	return -1
}

// Record is the identity record: ten fields and a trailing checksum.
// The record is trusted only while Checksum equals ComputeChecksum.
type Record struct {
	Fields   [NumFields]Field
	Checksum byte
}

// Lookup resolves a field by protocol name, nil if unknown.
func (r *Record) Lookup(key string) *Field {
	if i := FieldIndex(key); i >= 0 {
		return &r.Fields[i]
	}
	return nil
}

// ComputeChecksum sums every byte across all fields modulo 256. The
// checksum byte itself is excluded.
func (r *Record) ComputeChecksum() byte {
	var sum byte
	for i := range r.Fields {
		sum += r.Fields[i].sum()
	}
	return sum
}

// Validate repairs never-written fields. Reports whether no field
// required repair; on false the caller must recompute the checksum
// and persist the repaired record, once, at boot.
func (r *Record) Validate() bool {
	ok := true
	for i := range r.Fields {
		ok = r.Fields[i].Validate() && ok
	}
	return ok
}

// Clear zero-fills every field and the checksum.
func (r *Record) Clear() {
	for i := range r.Fields {
		r.Fields[i].Clear()
	}
	r.Checksum = 0
}

// MarshalBinary serializes to the fixed storage layout.
func (r *Record) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RecordSize)
	for i := range r.Fields {
		copy(buf[i*FieldSize:], r.Fields[i][:])
	}
	buf[RecordSize-1] = r.Checksum
	return buf, nil
}

// UnmarshalBinary loads from the fixed storage layout.
func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return ErrRecordSize
	}
	for i := range r.Fields {
		copy(r.Fields[i][:], data[i*FieldSize:(i+1)*FieldSize])
	}
	r.Checksum = data[RecordSize-1]
	return nil
}
