// Package appliance composes the persistent state subsystem: block
// store, identity record, wear-leveled counter and write-protect gate
// behind the console's station contract.
package appliance

import (
	"sync"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/ident.go/pkg/counter"
	"github.com/robotalks/ident.go/pkg/eeprom"
	"github.com/robotalks/ident.go/pkg/gate"
	"github.com/robotalks/ident.go/pkg/ident"
)

// Persisted layout: region A holds the identity record, region B the
// counter slot array.
const (
	RecordAddr  uint32 = 0x0
	CounterAddr uint32 = 0x800
)

// Appliance owns the persistent state and serializes every durable
// operation. It implements protocol.Station.
type Appliance struct {
	// Halt is invoked at most once, on a failed store protecting
	// safety-critical state. The default halts the process visibly;
	// the unit must never keep serving stale identity data.
	Halt func(error)

	dev  *eeprom.Device
	gate gate.Gate
	cnt  *counter.Counter

	serial   string
	haltOnce sync.Once

	mu     sync.Mutex
	record ident.Record
}

// New creates an Appliance over dev, protected by g.
func New(dev *eeprom.Device, g gate.Gate, slots int) *Appliance {
	return &Appliance{
		Halt: func(err error) {
			glog.Exitf("storage failure, halting: %v", err)
		},
		dev:  dev,
		gate: g,
		cnt:  counter.New(dev, CounterAddr, slots),
	}
}

// Counter exposes the pulse counter; it is the qualifier's sink.
func (a *Appliance) Counter() *counter.Counter { return a.cnt }

// Boot loads and validates persistent state. A record that required
// repair is re-stored exactly once, before any command is served.
func (a *Appliance) Boot() error {
	a.serial = boardID()

	buf := make([]byte, ident.RecordSize)
	if err := a.dev.Read(RecordAddr, buf); err != nil {
		return a.fail(err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.record.UnmarshalBinary(buf); err != nil {
		return a.fail(err)
	}
	if !a.record.Validate() {
		a.record.Checksum = a.record.ComputeChecksum()
		if err := a.storeRecordLocked(); err != nil {
			return err
		}
		glog.Info("identity record repaired")
	}

	if _, err := a.cnt.Load(); err != nil {
		return a.fail(err)
	}
	glog.Infof("boot complete: serial=%s pulses=%d", a.serial, a.cnt.Value())
	return nil
}

// fail escalates a storage failure through Halt and reports it.
func (a *Appliance) fail(err error) error {
	a.haltOnce.Do(func() {
		if h := a.Halt; h != nil {
			h(err)
		}
	})
	return err
}

func (a *Appliance) storeRecordLocked() error {
	buf, _ := a.record.MarshalBinary()
	if err := a.dev.Write(RecordAddr, buf); err != nil {
		return a.fail(err)
	}
	return nil
}

// Field implements protocol.Station.
func (a *Appliance) Field(key string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f := a.record.Lookup(key)
	if f == nil {
		return "", false
	}
	return f.Get(), true
}

// SetField implements protocol.Station. The mutation and the
// checksum recompute plus full-record store are not separable: the
// record is only exposed again once both are durable.
func (a *Appliance) SetField(key, value string) error {
	if a.gate.IsWriteLocked() {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	f := a.record.Lookup(key)
	if f == nil {
		return nil
	}
	f.Set(value)
	a.record.Checksum = a.record.ComputeChecksum()
	return a.storeRecordLocked()
}

// Clear implements protocol.Station.
func (a *Appliance) Clear() error {
	if a.gate.IsWriteLocked() {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record.Clear()
	return a.storeRecordLocked()
}

// Check implements protocol.Station. Read-only: a mismatch is
// reported, never repaired here.
func (a *Appliance) Check() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.record.ComputeChecksum() == a.record.Checksum
}

// BoardSerial implements protocol.Station.
func (a *Appliance) BoardSerial() string { return a.serial }

// PulseCount implements protocol.Station. The in-memory count is the
// source of truth and may run ahead of storage between flushes.
func (a *Appliance) PulseCount() uint32 { return a.cnt.Value() }

// ResetCount implements protocol.Station.
func (a *Appliance) ResetCount() error {
	if a.gate.IsWriteLocked() {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.cnt.Reset(); err != nil {
		return a.fail(err)
	}
	return nil
}

// FlushCounter stores the count if it moved since the last flush.
func (a *Appliance) FlushCounter() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	flushed, err := a.cnt.Flush()
	if err != nil {
		return a.fail(err)
	}
	if flushed {
		glog.V(3).Infof("flushed pulse count %d", a.cnt.Value())
	}
	return nil
}

func boardID() string {
	id, err := machineid.ID()
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return "UNKNOWN"
	}
	return id
}
