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

// Package banking translates 16-bit CPU addresses into physical addresses or
// I/O register addresses.
//
// The banking registers are held in the Config type. These are changed by the
// MAP instruction, by writes to the CPU port and by writes to the ROM overlay
// register of the VIC-III. Every time a Config changes, the Recompute()
// function must be called to build a new Table. The Table has one entry for
// each 4KB region of the CPU address space and is consulted on every memory
// access by the CPU and by the DMA controller's CPU address mode.
//
// Each region is resolved by exactly one Policy. In priority order:
//
//	Overlay    the ROM overlay register maps ROM into the region
//	Mapped     the MAP instruction has redirected the 8KB block
//	Identity   regions below $8000 map directly to RAM
//	CPUPort    the CPU port selects RAM, ROM or I/O
//
// Writes to a region resolved by the Overlay policy go to the ROM image. Whether
// the write has any effect is decided by the physical memory, which write
// protects ROM on the C65 and on the MEGA65 when ROM protection is enabled.
//
// Only the $D000 region can ever resolve to I/O. Translating any other address
// to I/O indicates a bug in Recompute() and causes a panic.
package banking
