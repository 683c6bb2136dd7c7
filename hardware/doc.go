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

// Package hardware is the base package for the emulated machine. The Machine
// type owns the banked memory, the I/O dispatcher and the DMA engine and
// connects them together.
//
// The CPU is not part of the machine. Anything that implements the CPU
// interface can drive the machine through the Step() and Run() functions. The
// CPU sees memory through the bus.CPUBus interface.
//
// The order of operation in Step() depends on the dma.policy preference. With
// the DRAIN policy a DMA job runs to completion inside the register write that
// starts it, so the CPU never sees a busy DMA engine. With the INTERLEAVE
// policy the CPU is held while the job is in progress and every call to Step()
// advances the DMA engine by dma.stepsPerInstruction steps instead. Both
// policies produce the same memory contents once the job has completed.
package hardware
