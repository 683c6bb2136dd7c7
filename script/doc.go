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

// Package script drives a machine from a Lua script. The script stands in for
// the CPU: the Script type implements the hardware.CPU interface by calling
// the Lua function named instruction() once per instruction. The function
// accesses memory with the read() and write() functions and returns the
// number of cycles used. If the script does not define instruction() then
// every instruction is a one cycle no-op.
//
// The following functions are available to the script:
//
//	peek(a)           debugger read of the CPU address space
//	poke(a, v)        debugger write of the CPU address space
//	read(a)           CPU read
//	write(a, v)       CPU write
//	map(a, x, y, z)   MAP instruction with the given register values
//	phys_read(a)      read of physical memory
//	phys_write(a, v)  write to physical memory
//	dma(list, [e])    start a DMA job. e selects the enhanced mode
//	dma_status()      DMA status register
//	step(n)           step the machine n times
//	overlay([bits])   set the ROM overlay. returns the previous value
//	summary()         description of the machine and the translation table
//
// The print() function writes to the output given to NewScript().
package script
