package counter

import (
	"encoding/binary"

	"github.com/golang/glog"
)

// Store is the narrow slice of the block store driver the counter
// needs.
type Store interface {
	Write(addr uint32, data []byte) error
	Read(addr uint32, buf []byte) error
}

const (
	// SlotSize is the storage size of one counter slot.
	SlotSize = 4
	// DefaultSlots multiplies the per-cell write budget by 16.
	DefaultSlots = 16
)

// erasedSlot is how a never-written slot reads back.
const erasedSlot uint32 = 0xFFFFFFFF

// Wear distributes counter writes cyclically across N fixed slots.
// Slot k lives at base + SlotSize*k, little-endian. At most one slot
// is "next to write" at any time; the others keep their older values,
// which the recovery scan exploits.
type Wear struct {
	store Store
	base  uint32
	slots int
	next  int
	value uint32
}

// NewWear creates a Wear over slots starting at base. A non-positive
// slot count selects DefaultSlots.
func NewWear(store Store, base uint32, slots int) *Wear {
	if slots <= 0 {
		slots = DefaultSlots
	}
	return &Wear{store: store, base: base, slots: slots}
}

// Value returns the authoritative count as of the last Load or Store.
func (w *Wear) Value() uint32 { return w.value }

// NextIndex returns the slot receiving the next write.
func (w *Wear) NextIndex() int { return w.next }

func (w *Wear) slotAddr(i int) uint32 {
	return w.base + uint32(i*SlotSize)
}

// Store writes value into the next slot and advances the write index.
func (w *Wear) Store(value uint32) error {
	var buf [SlotSize]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	if err := w.store.Write(w.slotAddr(w.next), buf[:]); err != nil {
		return err
	}
	w.value = value
	w.next = (w.next + 1) % w.slots
	return nil
}

// Load reads all slots and reconstructs the authoritative value and
// write index. Never-written slots are normalized to zero and the
// repaired value written back, once. The scan finds the first
// adjacent cyclic pair with a strict decrease: that slot holds the
// most recently written value and its successor is overwritten next.
// A torn middle value still >= its predecessor is taken as the most
// recent; see the package note on this heuristic.
func (w *Wear) Load() (uint32, error) {
	raw := make([]byte, w.slots*SlotSize)
	if err := w.store.Read(w.base, raw); err != nil {
		return 0, err
	}

	vals := make([]uint32, w.slots)
	for i := range vals {
		vals[i] = binary.LittleEndian.Uint32(raw[i*SlotSize:])
	}
	for i, v := range vals {
		if v != erasedSlot {
			continue
		}
		vals[i] = 0
		glog.Infof("counter slot %d erased, repairing to zero", i)
		if err := w.store.Write(w.slotAddr(i), make([]byte, SlotSize)); err != nil {
			return 0, err
		}
	}

	w.value, w.next = 0, 0
	for i := 0; i < w.slots; i++ {
		j := (i + 1) % w.slots
		if vals[j] < vals[i] {
			w.value, w.next = vals[i], j
			break
		}
	}
	// no strict decrease means all slots are equal (freshly reset)
	return w.value, nil
}

// Reset overwrites all slots with zero in one bulk write and rewinds
// the write index.
func (w *Wear) Reset() error {
	if err := w.store.Write(w.base, make([]byte, w.slots*SlotSize)); err != nil {
		return err
	}
	w.value, w.next = 0, 0
	return nil
}
