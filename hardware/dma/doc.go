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

// Package dma implements the F018 DMA engine of the C65 and the MEGA65.
//
// A DMA job is a list of descriptors in physical memory. The job is started by
// writing the address of the list to the DMA registers (or by calling
// Start()). Every call to Step() either fetches the next descriptor or
// performs one byte of the current operation. A descriptor with the chained
// bit set is followed by another descriptor.
//
// The two revisions of the descriptor format are supported. F018A is the
// original C65 format of 11 bytes. F018B adds a subcommand byte, giving 12
// bytes, and moves the hold and modulo flags into it. The MEGA65 also supports
// enhanced jobs, in which every descriptor is preceded by a list of options
// terminated by a zero byte.
//
// How the job is scheduled depends on the dma.policy preference. With the
// DRAIN policy the job runs to completion when it is started. With the
// INTERLEAVE policy the machine steps the engine in place of the CPU while the
// engine is busy. Both policies produce the same result in memory.
//
// A job that runs for more than IterationCeiling steps is stopped and
// ErrRunaway is returned. This happens when a chained list loops back on
// itself.
package dma
