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

// Package clocks defines the speed of the CPU clock for each of the speed
// modes of the machine, and the Counter type which accumulates the number of
// cycles executed since the last reset.
//
// The counter is not used for timing. It differentiates one random number
// from another and is reported by the stats viewer.
package clocks

// Clock speeds in MHz.
const (
	C64    = 1.022727
	C65    = 3.546895
	MEGA65 = 40.5
)

// Counter is the number of cycles executed by the CPU and the DMA engine.
type Counter struct {
	cycles uint64
}

// Add n cycles to the counter. Negative values are ignored.
func (c *Counter) Add(n int) {
	if n > 0 {
		c.cycles += uint64(n)
	}
}

// Cycles returns the number of cycles since the last reset.
func (c *Counter) Cycles() uint64 {
	return c.cycles
}

// Reset the counter to zero.
func (c *Counter) Reset() {
	c.cycles = 0
}
