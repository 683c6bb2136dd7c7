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

package io

// Registers is a simple register file. It is used for chips whose behaviour
// is not emulated but whose registers must still be addressable.
type Registers struct {
	label    string
	regs     []uint8
	readable bool
}

// NewRegisters is the preferred method of initialisation for the Registers
// type. If readable is false then reads always return 0xff.
func NewRegisters(label string, size int, readable bool) *Registers {
	r := &Registers{
		label:    label,
		regs:     make([]uint8, size),
		readable: readable,
	}
	return r
}

// Snapshot creates a copy of the register file.
func (r *Registers) Snapshot() *Registers {
	n := *r
	n.regs = make([]uint8, len(r.regs))
	copy(n.regs, r.regs)
	return &n
}

// Reset all registers to zero.
func (r *Registers) Reset() {
	clear(r.regs)
}

// Label implements the Chip interface.
func (r *Registers) Label() string {
	return r.label
}

// Read implements the Chip interface.
func (r *Registers) Read(reg uint16) uint8 {
	if !r.readable || int(reg) >= len(r.regs) {
		return 0xff
	}
	return r.regs[reg]
}

// Write implements the Chip interface.
func (r *Registers) Write(reg uint16, data uint8) {
	if int(reg) < len(r.regs) {
		r.regs[reg] = data
	}
}

// Peek returns the last value written to the register, even if the register
// is not readable.
func (r *Registers) Peek(reg uint16) uint8 {
	if int(reg) >= len(r.regs) {
		return 0xff
	}
	return r.regs[reg]
}
