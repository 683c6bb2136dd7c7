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

package banking

import (
	"github.com/gopher65/gopher65/hardware/memory/memorymap"
)

// ROM overlay offsets. the $C000 overlay comes from the first ROM bank, the
// others from the second.
const (
	overlayOffset  = uint32(0x30000)
	overlayOffsetC = uint32(0x20000)
)

// the CPU port ROM images are all at the same offset from the CPU address.
const portROMOffset = uint32(0x20000)

// returns true and the offset if the region is claimed by the ROM overlay
// register.
func overlay(region int, bits uint8) (bool, uint32) {
	switch region {
	case 0x8, 0x9:
		return bits&OverlayROM8 != 0, overlayOffset
	case 0xa, 0xb:
		return bits&OverlayROMA != 0, overlayOffset
	case 0xc:
		return bits&OverlayROMC != 0, overlayOffsetC
	case 0xe, 0xf:
		return bits&OverlayROME != 0, overlayOffset
	}
	return false, 0
}

// the CPU port decides the content of the regions from $8000 upwards when they
// are not claimed by the overlay or by the MAP instruction.
func cpuPort(region int, port uint8) Entry {
	e := Entry{Policy: CPUPort}

	switch region {
	case 0xa, 0xb:
		if port == 3 || port == 7 {
			e.ReadImage = BASIC
			e.ReadOffset = portROMOffset
		}

	case memorymap.RegionIO:
		switch port {
		case 1, 2, 3:
			e.ReadImage = CHARGEN
			e.ReadOffset = portROMOffset
		case 5, 6, 7:
			e.ReadImage = IO
			e.ReadIO = true
			e.WriteImage = IO
			e.WriteIO = true
		}

	case 0xe, 0xf:
		switch port {
		case 2, 3, 6, 7:
			e.ReadImage = KERNAL
			e.ReadOffset = portROMOffset
		}
	}

	return e
}

// Recompute builds a new Table from the Config. Every region is resolved by
// exactly one Policy, in order of priority.
func Recompute(cfg Config) Table {
	var t Table

	port := cfg.CPUPort()

	for r := range t {
		block := r >> (memorymap.BlockShift - memorymap.RegionShift)

		if ok, offset := overlay(r, cfg.ROMOverlay); ok {
			t[r] = Entry{
				Policy:      Overlay,
				ReadOffset:  offset,
				WriteOffset: offset,
				ReadImage:   ROM,
				WriteImage:  ROM,
			}
			continue
		}

		if cfg.MapMask&(1<<block) != 0 {
			offset, mb := cfg.OffsetLow, cfg.MegabyteLow
			if block >= memorymap.NumBlocks/2 {
				offset, mb = cfg.OffsetHigh, cfg.MegabyteHigh
			}
			t[r] = Entry{
				Policy:        Mapped,
				ReadOffset:    offset,
				ReadMegabyte:  mb,
				WriteOffset:   offset,
				WriteMegabyte: mb,
			}
			continue
		}

		if r < memorymap.NumRegions/2 {
			t[r] = Entry{Policy: Identity}
			continue
		}

		t[r] = cpuPort(r, port)
	}

	return t
}
