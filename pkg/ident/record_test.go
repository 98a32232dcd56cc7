package ident

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/ident.go/pkg/eeprom"
)

func TestFieldIndex(t *testing.T) {
	for i, key := range FieldKeys() {
		require.Equal(t, i, FieldIndex(key))
	}
	require.Equal(t, -1, FieldIndex("SERIAL"))
	require.Equal(t, -1, FieldIndex("mfg"))
	require.Equal(t, -1, FieldIndex(""))
}

func TestLookup(t *testing.T) {
	var r Record
	r.Fields[0].Set("Acme Corp")
	f := r.Lookup("MFG")
	require.NotNil(t, f)
	require.Equal(t, "Acme Corp", f.Get())
	require.Nil(t, r.Lookup("BOGUS"))
}

func TestComputeChecksum(t *testing.T) {
	var r Record
	require.Equal(t, byte(0), r.ComputeChecksum())

	r.Fields[0].Set("a") // 0x61
	require.Equal(t, byte(0x61), r.ComputeChecksum())

	// changing any field byte changes the sum
	before := r.ComputeChecksum()
	r.Fields[9].Set("b")
	require.NotEqual(t, before, r.ComputeChecksum())

	// the checksum byte itself is excluded
	withSum := r.ComputeChecksum()
	r.Checksum = 0xAA
	require.Equal(t, withSum, r.ComputeChecksum())
}

func TestChecksumWrapsModulo256(t *testing.T) {
	var r Record
	for i := range r.Fields {
		r.Fields[i][0] = 0xFE // raw bytes, no Set: keep them non-sentinel
	}
	require.Equal(t, byte(10*0xFE%256), r.ComputeChecksum())
}

func TestValidateAllErased(t *testing.T) {
	var r Record
	for i := range r.Fields {
		for j := range r.Fields[i] {
			r.Fields[i][j] = eeprom.ErasedByte
		}
	}
	require.False(t, r.Validate())
	for i := range r.Fields {
		require.Equal(t, Field{}, r.Fields[i])
	}
}

func TestValidateZeroRecordUnchanged(t *testing.T) {
	var r Record
	require.True(t, r.Validate())
	require.Equal(t, Record{}, r)
}

func TestValidateRepairsOnlyErasedFields(t *testing.T) {
	var r Record
	r.Fields[1].Set("keep me")
	for j := range r.Fields[4] {
		r.Fields[4][j] = eeprom.ErasedByte
	}
	require.False(t, r.Validate())
	require.Equal(t, "keep me", r.Fields[1].Get())
	require.Equal(t, Field{}, r.Fields[4])
}

func TestMarshalLayout(t *testing.T) {
	var r Record
	r.Fields[0].Set("A")
	r.Fields[9].Set("Z")
	r.Checksum = r.ComputeChecksum()

	buf, err := r.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, buf, RecordSize)
	require.Equal(t, byte('A'), buf[0])
	require.Equal(t, byte('Z'), buf[9*FieldSize])
	require.Equal(t, r.Checksum, buf[RecordSize-1])

	var back Record
	require.NoError(t, back.UnmarshalBinary(buf))
	require.Equal(t, r, back)

	require.Equal(t, ErrRecordSize, back.UnmarshalBinary(buf[:RecordSize-1]))
}

func TestClear(t *testing.T) {
	var r Record
	r.Fields[2].Set("stuff")
	r.Checksum = r.ComputeChecksum()
	r.Clear()
	require.Equal(t, Record{}, r)
	require.Equal(t, r.ComputeChecksum(), r.Checksum)
}
