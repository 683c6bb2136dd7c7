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

// VIC register numbers with an effect on the I/O window or on banking.
const (
	VICKey     = 0x2f
	VICControl = 0x30
)

// key sequences written to the VIC key register
var (
	keyVICIII = [2]uint8{0xa5, 0x96}
	keyVICIV  = [2]uint8{0x47, 0x53}
)

// VIC is the register file of the video chip. Only the registers that affect
// the I/O personality and the ROM overlay have any behaviour.
type VIC struct {
	d    *Dispatcher
	regs [0x80]uint8
}

func newVIC(d *Dispatcher) *VIC {
	return &VIC{d: d}
}

func (vic *VIC) snapshot(d *Dispatcher) *VIC {
	n := *vic
	n.d = d
	return &n
}

func (vic *VIC) reset() {
	clear(vic.regs[:])
}

// Label implements the Chip interface.
func (vic *VIC) Label() string {
	return "VIC"
}

// Registers returns a copy of the VIC registers.
func (vic *VIC) Registers() [0x80]uint8 {
	return vic.regs
}

// SetRegisters replaces the VIC registers without side effects.
func (vic *VIC) SetRegisters(regs [0x80]uint8) {
	vic.regs = regs
}

// Read implements the Chip interface.
func (vic *VIC) Read(reg uint16) uint8 {
	if reg > VICKey && vic.d.personality == C64 {
		return 0xff
	}
	if reg == VICControl {
		return vic.d.mem.ROMOverlay()
	}
	return vic.regs[reg&0x7f]
}

// Write implements the Chip interface.
func (vic *VIC) Write(reg uint16, data uint8) {
	reg &= 0x7f

	if reg == VICKey {
		key := [2]uint8{vic.regs[VICKey], data}
		switch key {
		case keyVICIII:
			vic.d.SetPersonality(VICIII)
		case keyVICIV:
			vic.d.SetPersonality(VICIV)
		default:
			vic.d.SetPersonality(C64)
		}
		vic.regs[VICKey] = data
		return
	}

	// registers above the key register are hidden in the C64 personality
	if reg > VICKey && vic.d.personality == C64 {
		return
	}

	vic.regs[reg] = data

	if reg == VICControl {
		vic.d.mem.SetROMOverlay(data)
	}
}
