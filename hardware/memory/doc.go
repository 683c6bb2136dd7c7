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

// Package memory implements the memory system of the machine as seen by the
// CPU and by the DMA engine.
//
//	                          DMA
//	                           |
//	                      physical bus
//	                           |
//	                           \/
//
//	    CPU ---- cpu bus ---- MEMORY ---- io bus ---- I/O chips
//	                           |  \
//	                           |   \---- physical store
//	                           |
//	                       debug bus
//	                           |
//	                        SCRIPTS
//
// A CPU address is translated by the banking table (see the banking package)
// into either a physical address or an address in the I/O window. The DMA
// engine uses physical addresses directly.
//
// The banking configuration is changed by the MAP instruction (the Map()
// function), by writes to the CPU port at physical addresses 0 and 1, and by
// the ROM overlay register in the VIC. The translation table is recomputed
// after every change.
package memory
