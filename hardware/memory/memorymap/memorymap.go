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

package memorymap

import (
	"fmt"
	"strings"
)

// Variant identifies the machine being emulated.
type Variant int

// List of valid Variant values.
const (
	C65 Variant = iota
	MEGA65
)

func (v Variant) String() string {
	switch v {
	case C65:
		return "C65"
	case MEGA65:
		return "MEGA65"
	}
	return "undefined"
}

// ParseVariant converts a string to a Variant. The string is case
// insensitive.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C65":
		return C65, nil
	case "MEGA65":
		return MEGA65, nil
	}
	return C65, fmt.Errorf("memorymap: unknown variant (%s)", s)
}

// Extended returns true if the variant supports the megabyte selectors and
// the enhanced DMA modes.
func (v Variant) Extended() bool {
	return v == MEGA65
}

// PhysicalSize returns the size of the physical address space.
func (v Variant) PhysicalSize() int {
	if v == MEGA65 {
		return 0x400000
	}
	return 0x100000
}

// PhysicalMask returns the mask to be applied to every physical address.
func (v Variant) PhysicalMask() uint32 {
	return uint32(v.PhysicalSize() - 1)
}

// Area of physical memory.
type Area int

func (a Area) String() string {
	switch a {
	case RAM:
		return "RAM"
	case ColourRAM:
		return "Colour RAM"
	case ROM:
		return "ROM"
	case ExpansionRAM:
		return "Expansion"
	case Attic:
		return "Attic"
	}
	return "Unmapped"
}

// List of valid Area values.
const (
	Unmapped Area = iota
	RAM
	ColourRAM
	ROM
	ExpansionRAM
	Attic
)

// Origin and memtop of each physical area. Colour RAM is part of chip RAM.
const (
	OriginRAM       = uint32(0x00000)
	MemtopRAM       = uint32(0x1ffff)
	OriginColourRAM = uint32(0x1f800)
	MemtopColourRAM = uint32(0x1ffff)
	OriginROM       = uint32(0x20000)
	MemtopROM       = uint32(0x3ffff)
)

// Expansion RAM on the C65. The 256K and 512K expansions can be fitted
// together.
const (
	OriginExpansion256 = uint32(0x40000)
	MemtopExpansion256 = uint32(0x7ffff)
	OriginExpansion512 = uint32(0x80000)
	MemtopExpansion512 = uint32(0xfffff)
)

// Additional chip RAM on the MEGA65 and the attic RAM above the first
// megabyte.
const (
	OriginMegaRAM = uint32(0x40000)
	MemtopMegaRAM = uint32(0x5ffff)
	OriginAttic   = uint32(0x100000)
)

// The CPU port registers are the first two bytes of physical memory.
const (
	CPUPortDDR  = uint32(0x00000)
	CPUPortData = uint32(0x00001)
)

// Fixed ROM images inside the ROM area. These are the images selected by the
// CPU port.
const (
	OriginBASIC   = uint32(0x2a000)
	OriginCHARGEN = uint32(0x2d000)
	OriginKERNAL  = uint32(0x2e000)
)

// The CPU address space is divided into 16 regions of 4KB for the purposes of
// translation and into 8 blocks of 8KB for the purposes of the MAP
// instruction.
const (
	RegionShift = 12
	NumRegions  = 16
	BlockShift  = 13
	NumBlocks   = 8
)

// The region number of the I/O window ($D000 to $DFFF).
const RegionIO = 0xd

// The I/O window in the CPU address space.
const (
	OriginIO = uint16(0xd000)
	MemtopIO = uint16(0xdfff)
)

// Expansion describes the expansion RAM fitted to a C65, in kilobytes. Valid
// values are 0, 256, 512 and 768.
type Expansion int

// Valid returns true if the expansion value is a valid combination of
// expansion units.
func (e Expansion) Valid() bool {
	return e == 0 || e == 256 || e == 512 || e == 768
}

// Area returns the area of the physical address for the variant. The address
// is masked before being examined.
func (v Variant) Area(addr uint32, exp Expansion) Area {
	addr &= v.PhysicalMask()

	switch {
	case addr >= OriginColourRAM && addr <= MemtopColourRAM:
		return ColourRAM
	case addr <= MemtopRAM:
		return RAM
	case addr >= OriginROM && addr <= MemtopROM:
		return ROM
	}

	if v == MEGA65 {
		if addr >= OriginMegaRAM && addr <= MemtopMegaRAM {
			return RAM
		}
		if addr >= OriginAttic {
			return Attic
		}
		return Unmapped
	}

	if addr >= OriginExpansion256 && addr <= MemtopExpansion256 && (exp == 256 || exp == 768) {
		return ExpansionRAM
	}
	if addr >= OriginExpansion512 && addr <= MemtopExpansion512 && (exp == 512 || exp == 768) {
		return ExpansionRAM
	}

	return Unmapped
}

// Writable returns true if the area can be written to by the CPU or by DMA.
// The romProtect argument is only meaningful for the MEGA65. The ROM area on
// the C65 is always write protected.
func (v Variant) Writable(a Area, romProtect bool) bool {
	switch a {
	case RAM, ColourRAM, ExpansionRAM, Attic:
		return true
	case ROM:
		return v == MEGA65 && !romProtect
	}
	return false
}
