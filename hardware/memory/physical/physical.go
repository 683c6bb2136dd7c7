// This file is part of Gopher65.
//
// Gopher65 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher65 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher65.  If not, see <https://www.gnu.org/licenses/>.

// Package physical implements the flat physical memory of the emulated
// machine. Addresses are always masked to the size of the variant's physical
// address space and so every address is valid.
package physical

import (
	"bytes"
	"fmt"

	"github.com/gopher65/gopher65/hardware/memory/memorymap"
	"github.com/gopher65/gopher65/random"
)

// Store is the physical memory of the machine.
type Store struct {
	variant   memorymap.Variant
	expansion memorymap.Expansion
	mask      uint32
	data      []uint8

	// ROM area is write protected. only meaningful for the MEGA65, the C65
	// ROM is always protected
	ROMProtect bool
}

// NewStore is the preferred method of initialisation for the Store type.
// Memory is initialised to 0xff.
func NewStore(variant memorymap.Variant, exp memorymap.Expansion) (*Store, error) {
	if variant != memorymap.C65 && exp != 0 {
		return nil, fmt.Errorf("physical: expansion RAM is only available on the C65")
	}
	if !exp.Valid() {
		return nil, fmt.Errorf("physical: invalid expansion RAM size (%dK)", exp)
	}

	s := &Store{
		variant:   variant,
		expansion: exp,
		mask:      variant.PhysicalMask(),
		data:      make([]uint8, variant.PhysicalSize()),
	}
	s.fill(0, uint32(len(s.data)-1), nil)

	return s, nil
}

// Snapshot creates a copy of the Store in its current state.
func (s *Store) Snapshot() *Store {
	n := *s
	n.data = make([]uint8, len(s.data))
	copy(n.data, s.data)
	return &n
}

// Variant returns the machine variant the Store was created for.
func (s *Store) Variant() memorymap.Variant {
	return s.variant
}

// Expansion returns the size of the expansion RAM.
func (s *Store) Expansion() memorymap.Expansion {
	return s.expansion
}

// Size of the store in bytes.
func (s *Store) Size() int {
	return len(s.data)
}

// fill the address range with 0xff or random values if rnd is not nil.
func (s *Store) fill(origin uint32, memtop uint32, rnd *random.Random) {
	if rnd != nil {
		rnd.Fill(s.data[origin : memtop+1])
		return
	}
	for i := origin; i <= memtop; i++ {
		s.data[i] = 0xff
	}
}

// Reset every writable area of memory. The ROM area is left untouched so that
// a loaded ROM image survives a reset. If rnd is not nil then memory is filled
// with random values rather than 0xff.
func (s *Store) Reset(rnd *random.Random) {
	s.fill(memorymap.OriginRAM, memorymap.OriginROM-1, rnd)
	if len(s.data) > int(memorymap.MemtopROM)+1 {
		s.fill(memorymap.MemtopROM+1, uint32(len(s.data)-1), rnd)
	}

	// unmapped memory always reads as 0xff
	for a := memorymap.MemtopROM + 1; a < uint32(len(s.data)); a += 0x800 {
		if s.variant.Area(a, s.expansion) == memorymap.Unmapped {
			s.fill(a, a+0x7ff, nil)
		}
	}
}

// Read returns the value at the physical address.
func (s *Store) Read(addr uint32) uint8 {
	return s.data[addr&s.mask]
}

// Write data to the physical address. Writes to protected ROM or to unmapped
// memory are ignored and the function returns false.
func (s *Store) Write(addr uint32, data uint8) bool {
	addr &= s.mask
	if !s.variant.Writable(s.variant.Area(addr, s.expansion), s.ROMProtect) {
		return false
	}
	s.data[addr] = data
	return true
}

// Poke writes data to the physical address ignoring any write protection.
func (s *Store) Poke(addr uint32, data uint8) {
	s.data[addr&s.mask] = data
}

// Load copies data into physical memory starting at origin, ignoring any
// write protection. Used to load ROM images.
func (s *Store) Load(origin uint32, data []uint8) error {
	origin &= s.mask
	if int(origin)+len(data) > len(s.data) {
		return fmt.Errorf("physical: data too large for memory at %05x (%d bytes)", origin, len(data))
	}
	copy(s.data[origin:], data)
	return nil
}

// Dump returns a copy of physical memory with the trailing run of 0xff bytes
// removed. Restore() puts the 0xff bytes back.
func (s *Store) Dump() []uint8 {
	n := len(s.data)
	for n > 0 && s.data[n-1] == 0xff {
		n--
	}
	d := make([]uint8, n)
	copy(d, s.data[:n])
	return d
}

// Restore memory from the result of a previous call to Dump(). Any memory not
// covered by the dump is set to 0xff.
func (s *Store) Restore(dump []uint8) error {
	if len(dump) > len(s.data) {
		return fmt.Errorf("physical: memory dump is too large (%d bytes)", len(dump))
	}
	copy(s.data, dump)
	if len(dump) < len(s.data) {
		s.fill(uint32(len(dump)), uint32(len(s.data)-1), nil)
	}
	return nil
}

// Equal returns true if the contents of both stores are identical.
func (s *Store) Equal(o *Store) bool {
	return bytes.Equal(s.data, o.data)
}
