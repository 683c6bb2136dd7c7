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

// Package io routes accesses to the I/O window at $D000 to $DFFF to the chip
// that claims the address. Which chips are visible depends on the I/O
// personality, selected by writing the key sequence to the VIC register $2F.
//
// In the C64 personality the VIC registers are mirrored every 64 bytes from
// $D000 to $D3FF and the SID registers are mirrored from $D400 to $D7FF. The
// VIC-III and VIC-IV personalities make the extended chips visible: the
// palette, the UART and the DMA engine.
//
// Colour RAM is visible from $D800 to $DBFF in all personalities and from
// $DC00 to $DFFF when bit 0 of the VIC register $30 is set. In that case the
// CIAs are hidden.
//
// Addresses that are not claimed by any chip read as 0xff and ignore writes.
// The first access to such an address is logged.
package io
