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

package io_test

import (
	"testing"

	"github.com/gopher65/gopher65/environment"
	"github.com/gopher65/gopher65/hardware/clocks"
	"github.com/gopher65/gopher65/hardware/io"
	"github.com/gopher65/gopher65/hardware/memory/memorymap"
	"github.com/gopher65/gopher65/test"
)

// a minimal implementation of the io.Banking interface
type banking struct {
	variant memorymap.Variant
	overlay uint8
	phys    map[uint32]uint8
}

func (b *banking) ReadPhysical(addr uint32) uint8 {
	if v, ok := b.phys[addr]; ok {
		return v
	}
	return 0xff
}

func (b *banking) WritePhysical(addr uint32, data uint8) {
	b.phys[addr] = data
}

func (b *banking) Variant() memorymap.Variant {
	return b.variant
}

func (b *banking) ROMOverlay() uint8 {
	return b.overlay
}

func (b *banking) SetROMOverlay(bits uint8) {
	b.overlay = bits
}

// records register accesses
type chip struct {
	writes map[uint16]uint8
}

func (c *chip) Label() string {
	return "test"
}

func (c *chip) Read(reg uint16) uint8 {
	return uint8(reg) | 0x80
}

func (c *chip) Write(reg uint16, data uint8) {
	c.writes[reg] = data
}

func newDispatcher(t *testing.T, variant memorymap.Variant) (*io.Dispatcher, *banking) {
	t.Helper()
	t.Chdir(t.TempDir())

	var clk clocks.Counter
	env, err := environment.NewEnvironment(environment.MainEmulation, &clk, nil)
	test.DemandSuccess(t, err)

	b := &banking{variant: variant, phys: make(map[uint32]uint8)}
	d := io.NewDispatcher(env, b)
	d.Reset()
	return d, b
}

func unlock(d *io.Dispatcher, key [2]uint8) {
	d.IOWrite(0xd02f, key[0])
	d.IOWrite(0xd02f, key[1])
}

func TestPersonality(t *testing.T) {
	d, _ := newDispatcher(t, memorymap.C65)
	test.ExpectEquality(t, d.Personality(), io.C64)

	unlock(d, [2]uint8{0xa5, 0x96})
	test.ExpectEquality(t, d.Personality(), io.VICIII)

	// the VIC-IV key is not recognised by the C65
	unlock(d, [2]uint8{0x47, 0x53})
	test.ExpectEquality(t, d.Personality(), io.C64)

	// any other write returns to the C64 personality
	unlock(d, [2]uint8{0xa5, 0x96})
	d.IOWrite(0xd02f, 0x00)
	test.ExpectEquality(t, d.Personality(), io.C64)

	d, _ = newDispatcher(t, memorymap.MEGA65)
	unlock(d, [2]uint8{0x47, 0x53})
	test.ExpectEquality(t, d.Personality(), io.VICIV)
}

func TestVICMirror(t *testing.T) {
	d, _ := newDispatcher(t, memorymap.C65)

	d.IOWrite(0xd020, 0x0e)
	test.ExpectEquality(t, d.IORead(0xd020), uint8(0x0e))
	test.ExpectEquality(t, d.IORead(0xd060), uint8(0x0e))
	test.ExpectEquality(t, d.IORead(0xd3e0), uint8(0x0e))

	// in the VIC-III personality the VIC is not mirrored
	unlock(d, [2]uint8{0xa5, 0x96})
	test.ExpectEquality(t, d.IORead(0xd020), uint8(0x0e))
	test.ExpectEquality(t, d.IORead(0xd0a0), uint8(0xff))
}

func TestROMOverlayRegister(t *testing.T) {
	d, b := newDispatcher(t, memorymap.C65)

	// the register is hidden in the C64 personality
	d.IOWrite(0xd030, 0x20)
	test.ExpectEquality(t, b.overlay, uint8(0x00))
	test.ExpectEquality(t, d.IORead(0xd030), uint8(0xff))

	unlock(d, [2]uint8{0xa5, 0x96})
	d.IOWrite(0xd030, 0x20)
	test.ExpectEquality(t, b.overlay, uint8(0x20))
	test.ExpectEquality(t, d.IORead(0xd030), uint8(0x20))
}

func TestColourRAM(t *testing.T) {
	d, b := newDispatcher(t, memorymap.C65)

	d.IOWrite(0xd800, 0x01)
	test.ExpectEquality(t, b.phys[0x1f800], uint8(0x01))
	d.IOWrite(0xdbff, 0x02)
	test.ExpectEquality(t, b.phys[0x1fbff], uint8(0x02))
	test.ExpectEquality(t, d.IORead(0xdbff), uint8(0x02))

	// CIA1 is visible at $DC00 until CRAM2K is set
	d.IOWrite(0xdc00, 0x03)
	test.ExpectEquality(t, d.IORead(0xdc10), uint8(0x03))
	_, ok := b.phys[0x1fc00]
	test.ExpectEquality(t, ok, false)

	b.overlay = 0x01
	d.IOWrite(0xdc00, 0x04)
	test.ExpectEquality(t, b.phys[0x1fc00], uint8(0x04))
	d.IOWrite(0xdf00, 0x05)
	test.ExpectEquality(t, b.phys[0x1ff00], uint8(0x05))
	test.ExpectEquality(t, d.IORead(0xdf00), uint8(0x05))

	// CIA1 still holds the earlier value
	b.overlay = 0x00
	test.ExpectEquality(t, d.IORead(0xdc00), uint8(0x03))
}

func TestDMAVisibility(t *testing.T) {
	d, _ := newDispatcher(t, memorymap.C65)
	c := &chip{writes: make(map[uint16]uint8)}
	d.AttachDMA(c)

	// the SID is visible at $D700 in the C64 personality
	d.IOWrite(0xd700, 0x10)
	test.ExpectEquality(t, len(c.writes), 0)

	unlock(d, [2]uint8{0xa5, 0x96})
	d.IOWrite(0xd712, 0x10)
	test.ExpectEquality(t, c.writes[0x02], uint8(0x10))
	test.ExpectEquality(t, d.IORead(0xd703), uint8(0x83))
}

func TestUnclaimed(t *testing.T) {
	d, _ := newDispatcher(t, memorymap.C65)
	unlock(d, [2]uint8{0xa5, 0x96})

	// the UART and the I/O expansion area are not emulated
	test.ExpectEquality(t, d.IORead(0xd600), uint8(0xff))
	d.IOWrite(0xd600, 0x00)
	test.ExpectEquality(t, d.IORead(0xd600), uint8(0xff))
	test.ExpectEquality(t, d.IORead(0xde00), uint8(0xff))

	// palette is write-only
	d.IOWrite(0xd100, 0x0f)
	test.ExpectEquality(t, d.IORead(0xd100), uint8(0xff))
	test.ExpectEquality(t, d.Palette.Peek(0), uint8(0x0f))

	// SIDs read as 0xff
	d.IOWrite(0xd400, 0x0f)
	test.ExpectEquality(t, d.IORead(0xd400), uint8(0xff))
}

func TestAddressPanic(t *testing.T) {
	d, _ := newDispatcher(t, memorymap.C65)
	defer func() {
		test.ExpectInequality(t, recover(), nil)
	}()
	d.IORead(0xc000)
	t.Errorf("expected panic")
}
