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

package banking

import "fmt"

// ROM overlay bits of the VIC-III register $30.
const (
	OverlayCRAM2K = 0x01
	OverlayROM8   = 0x08
	OverlayROMA   = 0x10
	OverlayROMC   = 0x20
	OverlayROME   = 0x80
)

// Config holds the banking registers. The zero value is a valid Config with
// all blocks unmapped and the CPU port selecting RAM everywhere.
type Config struct {
	// one bit per 8KB block. a set bit means the block is redirected by the
	// offset for that half of the address space
	MapMask uint8

	// offsets applied to blocks 0 to 3 and blocks 4 to 7 respectively. only
	// the lower 20 bits are meaningful
	OffsetLow  uint32
	OffsetHigh uint32

	// the physical base of the megabyte selected for each half of the address
	// space. always a multiple of 0x100000. MEGA65 only
	MegabyteLow  uint32
	MegabyteHigh uint32

	// the CPU port registers
	PortDDR  uint8
	PortData uint8

	// the VIC-III register $30
	ROMOverlay uint8
}

func (cfg Config) String() string {
	return fmt.Sprintf("mask=%02x lo=%05x hi=%05x mblo=%02x mbhi=%02x port=%d overlay=%02x",
		cfg.MapMask, cfg.OffsetLow, cfg.OffsetHigh,
		cfg.MegabyteLow>>20, cfg.MegabyteHigh>>20,
		cfg.CPUPort(), cfg.ROMOverlay)
}

// CPUPort returns the effective 3-bit value of the CPU port. Input bits
// (those with a zero in the DDR) read as one.
func (cfg Config) CPUPort() uint8 {
	return (cfg.PortData | ^cfg.PortDDR) & 0x07
}

// Map sets the banking registers as the MAP instruction does from the A, X, Y
// and Z registers.
//
// If extended is true then the MEGA65 megabyte selection is also performed:
// when X is 0x0f the A register selects the megabyte for the low half of the
// address space, and when Z is 0x0f the Y register selects the megabyte for
// the high half. The offsets and mask are set in all cases.
func (cfg *Config) Map(a, x, y, z uint8, extended bool) {
	cfg.OffsetLow = uint32(a)<<8 | uint32(x&0x0f)<<16
	cfg.OffsetHigh = uint32(y)<<8 | uint32(z&0x0f)<<16
	cfg.MapMask = (z & 0xf0) | (x >> 4)

	if extended {
		if x == 0x0f {
			cfg.MegabyteLow = uint32(a) << 20
		}
		if z == 0x0f {
			cfg.MegabyteHigh = uint32(y) << 20
		}
	}
}
