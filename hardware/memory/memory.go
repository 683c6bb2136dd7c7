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

package memory

import (
	"fmt"
	"strings"

	"github.com/gopher65/gopher65/environment"
	"github.com/gopher65/gopher65/hardware/memory/banking"
	"github.com/gopher65/gopher65/hardware/memory/bus"
	"github.com/gopher65/gopher65/hardware/memory/memorymap"
	"github.com/gopher65/gopher65/hardware/memory/physical"
	"github.com/gopher65/gopher65/logger"
)

// Memory is the banked memory of the machine.
type Memory struct {
	env *environment.Environment

	store *physical.Store
	cfg   banking.Config
	table banking.Table

	// routes accesses to the I/O window. may be nil
	io bus.IOBus

	// a write discarded because of write protection is logged once after
	// every recompute
	discardLogged bool
}

// NewMemory is the preferred method of initialisation for the Memory type.
// The variant and expansion RAM are taken from the preferences in the
// environment.
//
// Memory is not reset by NewMemory().
func NewMemory(env *environment.Environment) (*Memory, error) {
	store, err := physical.NewStore(env.Prefs.MachineVariant(), env.Prefs.ExpansionRAM())
	if err != nil {
		return nil, fmt.Errorf("memory: %w", err)
	}

	mem := &Memory{
		env:   env,
		store: store,
	}
	mem.recompute()

	return mem, nil
}

// Snapshot creates a copy of Memory in its current state. The I/O bus is not
// part of the copy and must be reattached with Plumb().
func (mem *Memory) Snapshot() *Memory {
	n := *mem
	n.store = mem.store.Snapshot()
	n.io = nil
	return &n
}

// Plumb a new environment and I/O bus into memory. Used after a snapshot has
// been made current.
func (mem *Memory) Plumb(env *environment.Environment, io bus.IOBus) {
	mem.env = env
	mem.io = io
}

// AttachIO sets the bus used for accesses to the I/O window.
func (mem *Memory) AttachIO(io bus.IOBus) {
	mem.io = io
}

func (mem *Memory) String() string {
	return mem.Summary()
}

// Summary returns the banking configuration and the translation table as a
// multiline string.
func (mem *Memory) Summary() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s %s\n", mem.store.Variant(), mem.cfg))
	s.WriteString(mem.table.Summary())
	return s.String()
}

// Variant returns the machine variant the memory was created for.
func (mem *Memory) Variant() memorymap.Variant {
	return mem.store.Variant()
}

// Physical returns the underlying physical store.
func (mem *Memory) Physical() *physical.Store {
	return mem.store
}

// Config returns a copy of the current banking configuration.
func (mem *Memory) Config() banking.Config {
	return mem.cfg
}

// Table returns a copy of the current translation table.
func (mem *Memory) Table() banking.Table {
	return mem.table
}

// SetConfig replaces the banking configuration. The CPU port registers in
// physical memory are updated to match.
func (mem *Memory) SetConfig(cfg banking.Config) {
	mem.cfg = cfg
	mem.store.Poke(memorymap.CPUPortDDR, cfg.PortDDR)
	mem.store.Poke(memorymap.CPUPortData, cfg.PortData)
	mem.recompute()
}

func (mem *Memory) recompute() {
	mem.table = banking.Recompute(mem.cfg)
	mem.discardLogged = false
}

// Reset memory and the banking configuration. RAM is set to 0xff or to
// random values depending on the hardware.randstate preference. A loaded ROM
// is preserved.
//
// Both CPU port registers are set to 0xff which selects BASIC, KERNAL and I/O.
func (mem *Memory) Reset() {
	mem.store.ROMProtect = mem.env.Prefs.ROMProtect.Get().(bool)

	if mem.env.Prefs.RandomState.Get().(bool) {
		mem.store.Reset(mem.env.Random)
	} else {
		mem.store.Reset(nil)
	}

	mem.SetConfig(banking.Config{
		PortDDR:  0xff,
		PortData: 0xff,
	})
}

// LoadROM copies a ROM image into the ROM area of physical memory. ROM
// protection is ignored.
func (mem *Memory) LoadROM(data []uint8) error {
	if len(data) > int(memorymap.MemtopROM-memorymap.OriginROM)+1 {
		return fmt.Errorf("memory: ROM image too large (%d bytes)", len(data))
	}
	return mem.store.Load(memorymap.OriginROM, data)
}

// Map sets the banking registers as the MAP instruction does. The megabyte
// selection is only performed by the extended variant.
func (mem *Memory) Map(a, x, y, z uint8) {
	mem.cfg.Map(a, x, y, z, mem.store.Variant().Extended())
	mem.recompute()
}

// ROMOverlay returns the current value of the ROM overlay register.
func (mem *Memory) ROMOverlay() uint8 {
	return mem.cfg.ROMOverlay
}

// SetROMOverlay sets the ROM overlay register. The table is only recomputed
// if the value has changed.
func (mem *Memory) SetROMOverlay(bits uint8) {
	if mem.cfg.ROMOverlay == bits {
		return
	}
	mem.cfg.ROMOverlay = bits
	mem.recompute()
}

// SetCPUPort writes to the CPU port registers.
func (mem *Memory) SetCPUPort(ddr uint8, data uint8) {
	mem.WritePhysical(memorymap.CPUPortDDR, ddr)
	mem.WritePhysical(memorymap.CPUPortData, data)
}

// a write to physical addresses 0 or 1 is a write to the CPU port. the table
// is only recomputed if the effective value of the port changes
func (mem *Memory) cpuPort(addr uint32, data uint8) {
	if addr > memorymap.CPUPortData {
		return
	}

	prev := mem.cfg.CPUPort()
	if addr == memorymap.CPUPortDDR {
		mem.cfg.PortDDR = data
	} else {
		mem.cfg.PortData = data
	}
	if prev != mem.cfg.CPUPort() {
		mem.recompute()
	}
}

// Read implements the bus.CPUBus interface.
func (mem *Memory) Read(addr uint16) (uint8, error) {
	t := mem.table.Translate(addr, banking.Read)
	if t.IO {
		return mem.IORead(uint16(t.Addr)), nil
	}
	return mem.store.Read(t.Addr), nil
}

// Write implements the bus.CPUBus interface.
func (mem *Memory) Write(addr uint16, data uint8) error {
	t := mem.table.Translate(addr, banking.Write)
	if t.IO {
		mem.IOWrite(uint16(t.Addr), data)
		return nil
	}
	mem.WritePhysical(t.Addr, data)
	return nil
}

// Peek implements the bus.DebugBus interface.
func (mem *Memory) Peek(addr uint16) (uint8, error) {
	return mem.Read(addr)
}

// Poke implements the bus.DebugBus interface. Write protection is ignored.
func (mem *Memory) Poke(addr uint16, data uint8) error {
	t := mem.table.Translate(addr, banking.Write)
	if t.IO {
		mem.IOWrite(uint16(t.Addr), data)
		return nil
	}
	t.Addr &= mem.store.Variant().PhysicalMask()
	mem.store.Poke(t.Addr, data)
	mem.cpuPort(t.Addr, data)
	return nil
}

// ReadPhysical implements the bus.PhysicalBus interface.
func (mem *Memory) ReadPhysical(addr uint32) uint8 {
	return mem.store.Read(addr)
}

// WritePhysical implements the bus.PhysicalBus interface.
func (mem *Memory) WritePhysical(addr uint32, data uint8) {
	addr &= mem.store.Variant().PhysicalMask()
	if !mem.store.Write(addr, data) {
		if !mem.discardLogged {
			mem.discardLogged = true
			logger.Logf(mem.env, "memory", "write to protected memory at %07x discarded", addr)
		}
		return
	}
	mem.cpuPort(addr, data)
}

// IORead implements the bus.IOBus interface.
func (mem *Memory) IORead(addr uint16) uint8 {
	if mem.io == nil {
		return 0xff
	}
	return mem.io.IORead(addr)
}

// IOWrite implements the bus.IOBus interface.
func (mem *Memory) IOWrite(addr uint16, data uint8) {
	if mem.io == nil {
		return
	}
	mem.io.IOWrite(addr, data)
}
