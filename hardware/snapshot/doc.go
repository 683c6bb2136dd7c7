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

// Package snapshot writes the state of a machine to a file and restores it
// again.
//
// The file starts with an uncompressed header: a twelve byte magic string,
// the format version, the machine variant and the CRC32 of the uncompressed
// body. The body follows, compressed with zstd. All values are big-endian.
//
// The body records, in order, are the bank configuration, the I/O
// personality and VIC registers, the DMA registers and physical memory. The
// memory record is a length followed by that many bytes. The trailing run of
// 0xff bytes is not stored and is restored as 0xff on load.
//
// A DMA job in progress is not part of the snapshot. Save() runs any such job
// to completion before writing.
package snapshot
