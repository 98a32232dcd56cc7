package appliance

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/ident.go/pkg/eeprom"
	"github.com/robotalks/ident.go/pkg/eeprom/emul"
	"github.com/robotalks/ident.go/pkg/gate"
	"github.com/robotalks/ident.go/pkg/ident"
	"github.com/robotalks/ident.go/pkg/protocol"
)

type testGate struct{ locked bool }

func (g *testGate) IsWriteLocked() bool { return g.locked }

func newTestAppliance(t *testing.T, chip *emul.Chip, g gate.Gate) *Appliance {
	dev := eeprom.New(chip, false)
	dev.Sleep = func(time.Duration) {}
	a := New(dev, g, 4)
	a.Halt = func(err error) { t.Logf("halt: %v", err) }
	return a
}

func TestBootRepairsErasedRecord(t *testing.T) {
	chip := emul.New()
	a := newTestAppliance(t, chip, &testGate{})
	require.NoError(t, a.Boot())

	// the erased record was zero-filled and re-stored with a valid
	// checksum
	require.True(t, a.Check())
	buf := make([]byte, ident.RecordSize)
	require.NoError(t, a.dev.Read(RecordAddr, buf))
	var rec ident.Record
	require.NoError(t, rec.UnmarshalBinary(buf))
	require.True(t, rec.Validate())
	require.Equal(t, rec.ComputeChecksum(), rec.Checksum)
}

func TestBootRepairStoresOnce(t *testing.T) {
	chip := emul.New()
	a := newTestAppliance(t, chip, &testGate{})
	require.NoError(t, a.Boot())

	// a second boot over the repaired image finds it valid and writes
	// nothing
	b := newTestAppliance(t, chip, &testGate{})
	chip.LimitWrites(0)
	require.NoError(t, b.Boot())
}

func TestSetFieldPersists(t *testing.T) {
	chip := emul.New()
	a := newTestAppliance(t, chip, &testGate{})
	require.NoError(t, a.Boot())
	require.NoError(t, a.SetField("MFG", "Acme Corp"))

	b := newTestAppliance(t, chip, &testGate{})
	require.NoError(t, b.Boot())
	v, ok := b.Field("MFG")
	require.True(t, ok)
	require.Equal(t, "Acme Corp", v)
	require.True(t, b.Check())
}

func TestWriteLockGatesMutations(t *testing.T) {
	chip := emul.New()
	g := &testGate{}
	a := newTestAppliance(t, chip, g)
	require.NoError(t, a.Boot())
	require.NoError(t, a.SetField("MFG", "Acme Corp"))
	a.Counter().Add(3)
	require.NoError(t, a.FlushCounter())

	g.locked = true
	require.NoError(t, a.SetField("MFG", "Mallory"))
	require.NoError(t, a.Clear())
	require.NoError(t, a.ResetCount())

	v, _ := a.Field("MFG")
	require.Equal(t, "Acme Corp", v)
	require.Equal(t, uint32(3), a.PulseCount())

	g.locked = false
	require.NoError(t, a.ResetCount())
	require.Equal(t, uint32(0), a.PulseCount())
}

func TestHaltOnStoreFailure(t *testing.T) {
	chip := emul.New()
	a := newTestAppliance(t, chip, &testGate{})
	require.NoError(t, a.Boot())

	var halted error
	a.Halt = func(err error) { halted = err }
	chip.LimitWrites(0)
	require.Error(t, a.SetField("MFG", "Acme Corp"))
	require.Error(t, halted)

	// Halt fires at most once
	halted = nil
	a.Counter().Add(1)
	require.Error(t, a.FlushCounter())
	require.NoError(t, halted)
}

func TestCounterFlushAndReload(t *testing.T) {
	chip := emul.New()
	a := newTestAppliance(t, chip, &testGate{})
	require.NoError(t, a.Boot())

	for i := 0; i < 9; i++ {
		a.Counter().Increment()
	}
	require.NoError(t, a.FlushCounter())

	b := newTestAppliance(t, chip, &testGate{})
	require.NoError(t, b.Boot())
	require.Equal(t, uint32(9), b.PulseCount())
}

// rwBuf pairs a command stream with a reply buffer.
type rwBuf struct {
	io.Reader
	out bytes.Buffer
}

func (b *rwBuf) Write(p []byte) (int, error) { return b.out.Write(p) }

func TestConsoleSession(t *testing.T) {
	chip := emul.New()
	g := &testGate{}
	a := newTestAppliance(t, chip, g)
	require.NoError(t, a.Boot())
	a.Counter().Add(2)

	rw := &rwBuf{Reader: strings.NewReader(
		"MFG=Acme Corp\rMFG?\rCHECK?\rEDGECOUNT?\rRESETCOUNT\rEDGECOUNT?\r")}
	require.NoError(t, protocol.Serve(context.Background(), rw, a))
	require.Equal(t, "Acme Corp\nOK\n2\n0\n", rw.out.String())

	// under write protection CLEAR is ignored
	g.locked = true
	rw = &rwBuf{Reader: strings.NewReader("CLEAR\rMFG?\r")}
	require.NoError(t, protocol.Serve(context.Background(), rw, a))
	require.Equal(t, "Acme Corp\n", rw.out.String())
}
