// Package emul emulates an AT24CM02 chip for hosting and tests.
package emul

import (
	"errors"
	"io/ioutil"
	"os"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/ident.go/pkg/eeprom"
)

// ErrNAK is the transport-level rejection. It stands in for the bus
// negative acknowledgment of the physical chip.
var ErrNAK = errors.New("bus nak")

// Chip is an in-memory AT24CM02 with the real chip's addressing
// behavior: a fresh chip reads back all erased bytes, a write sets
// the address pointer and programs within the addressed page, a read
// streams sequentially from the pointer.
type Chip struct {
	mu   sync.Mutex
	mem  [eeprom.Capacity]byte
	ptr  uint32
	path string

	writeBudget int // remaining page programs before injected failure; <0 unlimited
	failReads   bool
}

// New creates a fully erased chip.
func New() *Chip {
	c := &Chip{writeBudget: -1}
	c.eraseLocked()
	return c
}

// Open creates a chip backed by an image file. An existing image of
// the right size is loaded; anything else starts erased. Every page
// program rewrites the image, so content survives restarts.
func Open(path string) (*Chip, error) {
	c := New()
	c.path = path
	img, err := ioutil.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		glog.Infof("eeprom image %s not found, starting erased", path)
	case err != nil:
		return nil, err
	case len(img) != eeprom.Capacity:
		glog.Warningf("eeprom image %s has size %d, expected %d; starting erased",
			path, len(img), eeprom.Capacity)
	default:
		copy(c.mem[:], img)
	}
	return c, nil
}

// LimitWrites makes the next n page programs succeed and every one
// after that fail. Used to simulate power loss and wear-out.
func (c *Chip) LimitWrites(n int) {
	c.mu.Lock()
	c.writeBudget = n
	c.mu.Unlock()
}

// FailReads makes all reads fail until re-enabled.
func (c *Chip) FailReads(fail bool) {
	c.mu.Lock()
	c.failReads = fail
	c.mu.Unlock()
}

// Write implements eeprom.Bus. The first two payload bytes set the
// in-page word address; remaining bytes program the page, rolling
// over within it like the physical chip does.
func (c *Chip) Write(busAddr byte, data []byte) error {
	if len(data) < 2 {
		return ErrNAK
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ptr = uint32(busAddr&0x03)<<16 | uint32(data[0])<<8 | uint32(data[1])
	payload := data[2:]
	if len(payload) == 0 {
		return nil // dummy write, pointer set only
	}

	if c.writeBudget == 0 {
		return ErrNAK
	}
	if c.writeBudget > 0 {
		c.writeBudget--
	}

	page := c.ptr &^ uint32(eeprom.PageSize-1)
	off := c.ptr % eeprom.PageSize
	for _, b := range payload {
		c.mem[page+off] = b
		off = (off + 1) % eeprom.PageSize
	}
	return c.sync()
}

// Read implements eeprom.Bus.
func (c *Chip) Read(busAddr byte, buf []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failReads {
		return ErrNAK
	}
	for i := range buf {
		buf[i] = c.mem[c.ptr]
		c.ptr = (c.ptr + 1) % eeprom.Capacity
	}
	return nil
}

// Erase resets every cell to the erased state.
func (c *Chip) Erase() {
	c.mu.Lock()
	c.eraseLocked()
	c.mu.Unlock()
}

func (c *Chip) eraseLocked() {
	for i := range c.mem {
		c.mem[i] = eeprom.ErasedByte
	}
}

// Poke stores bytes directly, bypassing bus semantics. Test helper.
func (c *Chip) Poke(addr uint32, data []byte) {
	c.mu.Lock()
	copy(c.mem[addr:], data)
	c.mu.Unlock()
}

// Peek copies out bytes directly, bypassing bus semantics. Test helper.
func (c *Chip) Peek(addr uint32, n int) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, n)
	copy(out, c.mem[addr:])
	return out
}

func (c *Chip) sync() error {
	if c.path == "" {
		return nil
	}
	return ioutil.WriteFile(c.path, c.mem[:], 0644)
}
