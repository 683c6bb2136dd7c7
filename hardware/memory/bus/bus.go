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

package bus

// CPUBus defines the operations for the memory system when accessed from the
// CPU. Addresses are in the 16bit CPU address space and are translated by the
// current banking configuration before reaching physical memory or I/O.
//
// The error return exists so that a CPU implementation can be driven by
// memory systems that fail. The banked memory implementation never returns an
// error.
type CPUBus interface {
	Read(address uint16) (uint8, error)
	Write(address uint16, data uint8) error
}

// BankSwitchBus is implemented by memory that supports the MAP instruction.
type BankSwitchBus interface {
	Map(a, x, y, z uint8)
}

// DebugBus defines the meta-operations for memory. Think of these functions as
// "debugging" functions, that is operations outside of the normal operation of
// the machine. Poke() ignores write protection.
type DebugBus interface {
	Peek(address uint16) (uint8, error)
	Poke(address uint16, value uint8) error
}

// PhysicalBus is used by the DMA engine to access memory without address
// translation. Addresses are masked to the size of physical memory by the
// implementation.
type PhysicalBus interface {
	ReadPhysical(address uint32) uint8
	WritePhysical(address uint32, data uint8)
}

// IOBus routes accesses to the I/O window at $D000 to $DFFF. An address
// outside of that range is a programming error and the implementation may
// panic.
type IOBus interface {
	IORead(address uint16) uint8
	IOWrite(address uint16, data uint8)
}

// DMABus is the combination of buses required by the DMA engine.
type DMABus interface {
	PhysicalBus
	IOBus
}
