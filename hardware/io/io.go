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

package io

import (
	"fmt"
	"sort"

	"github.com/gopher65/gopher65/environment"
	"github.com/gopher65/gopher65/hardware/memory/banking"
	"github.com/gopher65/gopher65/hardware/memory/bus"
	"github.com/gopher65/gopher65/hardware/memory/memorymap"
	"github.com/gopher65/gopher65/logger"
)

// Chip is implemented by anything that can be attached to the I/O window. The
// reg argument is the register number relative to the origin of the chip's
// range, after mirroring has been applied.
type Chip interface {
	Label() string
	Read(reg uint16) uint8
	Write(reg uint16, data uint8)
}

// Banking is the part of the memory system used by the I/O chips.
type Banking interface {
	bus.PhysicalBus
	Variant() memorymap.Variant
	ROMOverlay() uint8
	SetROMOverlay(bits uint8)
}

// Personality of the I/O window.
type Personality int

// List of valid Personality values.
const (
	C64 Personality = iota
	VICIII
	VICIV
	numPersonalities
)

func (p Personality) String() string {
	switch p {
	case C64:
		return "C64"
	case VICIII:
		return "VIC-III"
	case VICIV:
		return "VIC-IV"
	}
	return "undefined"
}

// an entry in the dispatch table. the register number passed to the chip is
// (address - origin) & mirror
type entry struct {
	origin uint16
	memtop uint16
	mirror uint16
	chip   Chip
}

// dispatch tables are sorted by origin
type table []entry

func (t table) find(addr uint16) (entry, bool) {
	i := sort.Search(len(t), func(i int) bool {
		return t[i].origin > addr
	}) - 1
	if i < 0 || addr > t[i].memtop {
		return entry{}, false
	}
	return t[i], true
}

// the offset from an I/O address to the colour RAM in physical memory
const colourRAM = uint32(0x1f000)

// the first address in the I/O window that is only colour RAM when CRAM2K
// is set
const colourRAMExtended = uint16(0xdc00)

// Dispatcher implements the bus.IOBus interface.
type Dispatcher struct {
	env *environment.Environment
	mem Banking

	personality Personality
	tables      [numPersonalities]table

	VIC  *VIC
	SID  *Registers
	CIA1 *Registers
	CIA2 *Registers

	// the palette is write-only
	Palette *Registers

	// the DMA chip is attached after creation
	dma Chip

	// unclaimed addresses that have been logged
	unclaimed map[uint16]bool
}

// NewDispatcher is the preferred method of initialisation for the Dispatcher
// type.
func NewDispatcher(env *environment.Environment, mem Banking) *Dispatcher {
	d := &Dispatcher{
		env:       env,
		mem:       mem,
		SID:       NewRegisters("SID", 0x40, false),
		CIA1:      NewRegisters("CIA1", 0x10, true),
		CIA2:      NewRegisters("CIA2", 0x10, true),
		Palette:   NewRegisters("Palette", 0x300, false),
		unclaimed: make(map[uint16]bool),
	}
	d.VIC = newVIC(d)
	d.build()
	return d
}

// build the dispatch tables for every personality. must be called whenever a
// chip is attached
func (d *Dispatcher) build() {
	var cias = []entry{
		{origin: 0xdc00, memtop: 0xdcff, mirror: 0x0f, chip: d.CIA1},
		{origin: 0xdd00, memtop: 0xddff, mirror: 0x0f, chip: d.CIA2},
	}

	c64 := table{
		{origin: 0xd000, memtop: 0xd3ff, mirror: 0x3f, chip: d.VIC},
		{origin: 0xd400, memtop: 0xd7ff, mirror: 0x3f, chip: d.SID},
	}
	c64 = append(c64, cias...)

	extended := table{
		{origin: 0xd000, memtop: 0xd07f, mirror: 0x7f, chip: d.VIC},
		{origin: 0xd100, memtop: 0xd3ff, mirror: 0x3ff, chip: d.Palette},
		{origin: 0xd400, memtop: 0xd5ff, mirror: 0x3f, chip: d.SID},
	}
	if d.dma != nil {
		extended = append(extended, entry{origin: 0xd700, memtop: 0xd7ff, mirror: 0x0f, chip: d.dma})
	}
	extended = append(extended, cias...)

	d.tables[C64] = c64
	d.tables[VICIII] = extended
	d.tables[VICIV] = extended
}

// AttachDMA adds the DMA engine's registers to the extended personalities.
func (d *Dispatcher) AttachDMA(dma Chip) {
	d.dma = dma
	d.build()
}

// Plumb a new environment and memory into the dispatcher. Used after a
// snapshot has been made current.
func (d *Dispatcher) Plumb(env *environment.Environment, mem Banking) {
	d.env = env
	d.mem = mem
}

// Snapshot creates a copy of the Dispatcher in its current state. Attached
// chips other than the built-in register files must be attached again.
func (d *Dispatcher) Snapshot() *Dispatcher {
	n := *d
	n.VIC = d.VIC.snapshot(&n)
	n.SID = d.SID.Snapshot()
	n.CIA1 = d.CIA1.Snapshot()
	n.CIA2 = d.CIA2.Snapshot()
	n.Palette = d.Palette.Snapshot()
	n.dma = nil
	n.unclaimed = make(map[uint16]bool)
	n.build()
	return &n
}

// Reset the I/O personality and all chip registers.
func (d *Dispatcher) Reset() {
	d.personality = C64
	d.VIC.reset()
	d.SID.Reset()
	d.CIA1.Reset()
	d.CIA2.Reset()
	d.Palette.Reset()
	clear(d.unclaimed)
}

// Personality returns the current personality of the I/O window.
func (d *Dispatcher) Personality() Personality {
	return d.personality
}

// SetPersonality changes the personality of the I/O window. The VIC-IV
// personality is only available to the extended variant.
func (d *Dispatcher) SetPersonality(p Personality) {
	if p == VICIV && !d.mem.Variant().Extended() {
		p = C64
	}
	if p != d.personality {
		logger.Logf(d.env, "io", "personality %s -> %s", d.personality, p)
		d.personality = p
	}
}

func (d *Dispatcher) isColourRAM(addr uint16) bool {
	if addr < colourRAMExtended {
		return addr >= 0xd800
	}
	return d.mem.ROMOverlay()&banking.OverlayCRAM2K != 0
}

func (d *Dispatcher) unclaimedAccess(addr uint16, write bool) {
	if d.unclaimed[addr] {
		return
	}
	d.unclaimed[addr] = true
	if write {
		logger.Logf(d.env, "io", "write to unclaimed address %04x (%s)", addr, d.personality)
	} else {
		logger.Logf(d.env, "io", "read from unclaimed address %04x (%s)", addr, d.personality)
	}
}

func checkAddress(addr uint16) {
	if addr < memorymap.OriginIO || addr > memorymap.MemtopIO {
		panic(fmt.Sprintf("io: address %04x is not in the I/O window", addr))
	}
}

// IORead implements the bus.IOBus interface.
func (d *Dispatcher) IORead(addr uint16) uint8 {
	checkAddress(addr)

	if d.isColourRAM(addr) {
		return d.mem.ReadPhysical(colourRAM + uint32(addr&0x0fff))
	}

	e, ok := d.tables[d.personality].find(addr)
	if !ok {
		d.unclaimedAccess(addr, false)
		return 0xff
	}
	return e.chip.Read((addr - e.origin) & e.mirror)
}

// IOWrite implements the bus.IOBus interface.
func (d *Dispatcher) IOWrite(addr uint16, data uint8) {
	checkAddress(addr)

	if d.isColourRAM(addr) {
		d.mem.WritePhysical(colourRAM+uint32(addr&0x0fff), data)
		return
	}

	e, ok := d.tables[d.personality].find(addr)
	if !ok {
		d.unclaimedAccess(addr, true)
		return
	}
	e.chip.Write((addr-e.origin)&e.mirror, data)
}
