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

// Package memorymap describes the physical memory layout of the emulated
// machine variants. The layout is a flat address space divided into areas:
// chip RAM, the ROM image, colour RAM and (optionally) expansion RAM. The
// address space wraps, so every physical address is valid after masking with
// the variant's PhysicalMask().
//
// The package also defines the CPU-visible windows that the banking logic
// works with: the sixteen 4KB regions of the 64KB CPU address space and the
// eight 8KB blocks used by the MAP instruction.
//
// The Area() function identifies which area a physical address belongs to and
// the Summary() function returns a textual description of the entire physical
// map for a variant.
package memorymap
