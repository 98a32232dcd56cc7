package counter

import "sync/atomic"

// Counter mirrors the durable count in memory for fast reads. The
// in-memory value is the source of truth for queries and may run
// ahead of storage between flushes; a crash loses at most the
// increments since the last flush.
//
// Add may be called concurrently with everything else (it is the only
// cross-context writer). Load, Flush and Reset belong to the single
// control-loop context, which keeps durable flushes strictly ordered.
type Counter struct {
	count uint32 // atomic

	wear    *Wear
	flushed uint32
}

// New creates a Counter persisted by a Wear over the given slot region.
func New(store Store, base uint32, slots int) *Counter {
	return &Counter{wear: NewWear(store, base, slots)}
}

// Add increments the in-memory count.
func (c *Counter) Add(n uint32) {
	atomic.AddUint32(&c.count, n)
}

// Increment adds one qualified pulse.
func (c *Counter) Increment() {
	c.Add(1)
}

// Value returns the in-memory count.
func (c *Counter) Value() uint32 {
	return atomic.LoadUint32(&c.count)
}

// Load recovers the count from storage, repairing never-written slots.
func (c *Counter) Load() (uint32, error) {
	v, err := c.wear.Load()
	if err != nil {
		return 0, err
	}
	atomic.StoreUint32(&c.count, v)
	c.flushed = v
	return v, nil
}

// Flush stores the current count if it moved since the last flush.
// Reports whether a durable write was issued.
func (c *Counter) Flush() (bool, error) {
	v := c.Value()
	if v == c.flushed {
		return false, nil
	}
	if err := c.wear.Store(v); err != nil {
		return false, err
	}
	c.flushed = v
	return true, nil
}

// Reset zeroes storage and memory.
func (c *Counter) Reset() error {
	if err := c.wear.Reset(); err != nil {
		return err
	}
	atomic.StoreUint32(&c.count, 0)
	c.flushed = 0
	return nil
}
