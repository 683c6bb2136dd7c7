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

package banking_test

import (
	"testing"

	"github.com/gopher65/gopher65/hardware/memory/banking"
	"github.com/gopher65/gopher65/test"
)

// a configuration with every CPU port bit an output
func portConfig(port uint8) banking.Config {
	return banking.Config{PortDDR: 0xff, PortData: port}
}

func TestZeroConfig(t *testing.T) {
	var cfg banking.Config
	test.ExpectEquality(t, cfg.CPUPort(), uint8(7))

	tbl := banking.Recompute(cfg)
	for addr := 0; addr < 0x8000; addr += 0x0100 {
		tg := tbl.Translate(uint16(addr), banking.Read)
		test.ExpectEquality(t, tg, banking.Target{Addr: uint32(addr)})
	}

	// input bits read as one so the port is 7. this is the normal C64
	// configuration
	test.ExpectEquality(t, tbl.Translate(0xa000, banking.Read), banking.Target{Addr: 0x2a000})
	test.ExpectEquality(t, tbl.Translate(0xa000, banking.Write), banking.Target{Addr: 0x0a000})
	test.ExpectEquality(t, tbl.Translate(0xd020, banking.Read), banking.Target{IO: true, Addr: 0xd020})
	test.ExpectEquality(t, tbl.Translate(0xd020, banking.Write), banking.Target{IO: true, Addr: 0xd020})
	test.ExpectEquality(t, tbl.Translate(0xfffc, banking.Read), banking.Target{Addr: 0x2fffc})
	test.ExpectEquality(t, tbl.Translate(0xfffc, banking.Write), banking.Target{Addr: 0x0fffc})
}

func TestCPUPortTruthTable(t *testing.T) {
	type expected struct {
		basic   banking.Image
		d000    banking.Image
		kernal  banking.Image
		d000Wio bool
	}

	truth := []expected{
		{banking.RAM, banking.RAM, banking.RAM, false},
		{banking.RAM, banking.CHARGEN, banking.RAM, false},
		{banking.RAM, banking.CHARGEN, banking.KERNAL, false},
		{banking.BASIC, banking.CHARGEN, banking.KERNAL, false},
		{banking.RAM, banking.RAM, banking.RAM, false},
		{banking.RAM, banking.IO, banking.RAM, true},
		{banking.RAM, banking.IO, banking.KERNAL, true},
		{banking.BASIC, banking.IO, banking.KERNAL, true},
	}

	for port, x := range truth {
		tbl := banking.Recompute(portConfig(uint8(port)))
		test.ExpectEquality(t, tbl[0xa].ReadImage, x.basic, port)
		test.ExpectEquality(t, tbl[0xb].ReadImage, x.basic, port)
		test.ExpectEquality(t, tbl[0xd].ReadImage, x.d000, port)
		test.ExpectEquality(t, tbl[0xe].ReadImage, x.kernal, port)
		test.ExpectEquality(t, tbl[0xf].ReadImage, x.kernal, port)
		test.ExpectEquality(t, tbl[0xd].WriteIO, x.d000Wio, port)

		// $C000 is always RAM when resolved by the CPU port
		test.ExpectEquality(t, tbl[0xc].ReadImage, banking.RAM, port)
		test.ExpectEquality(t, tbl[0xc].Policy, banking.CPUPort, port)

		// writes never go to a ROM image
		for r := range tbl {
			test.ExpectInequality(t, tbl[r].WriteImage, banking.BASIC, port, r)
			test.ExpectInequality(t, tbl[r].WriteImage, banking.CHARGEN, port, r)
			test.ExpectInequality(t, tbl[r].WriteImage, banking.KERNAL, port, r)
		}
	}
}

func TestCPUPortDDR(t *testing.T) {
	// bit 0 is an input and reads as one even though the data bit is clear
	cfg := banking.Config{PortDDR: 0x06, PortData: 0x06}
	test.ExpectEquality(t, cfg.CPUPort(), uint8(7))

	cfg = banking.Config{PortDDR: 0x07, PortData: 0x06}
	test.ExpectEquality(t, cfg.CPUPort(), uint8(6))
}

func TestOverlay(t *testing.T) {
	cfg := portConfig(0)
	cfg.ROMOverlay = banking.OverlayROM8 | banking.OverlayROMA | banking.OverlayROMC | banking.OverlayROME
	tbl := banking.Recompute(cfg)

	test.ExpectEquality(t, tbl.Translate(0x8000, banking.Read), banking.Target{Addr: 0x38000})
	test.ExpectEquality(t, tbl.Translate(0x9fff, banking.Read), banking.Target{Addr: 0x39fff})
	test.ExpectEquality(t, tbl.Translate(0xa123, banking.Read), banking.Target{Addr: 0x3a123})
	test.ExpectEquality(t, tbl.Translate(0xc000, banking.Read), banking.Target{Addr: 0x2c000})
	test.ExpectEquality(t, tbl.Translate(0xe000, banking.Read), banking.Target{Addr: 0x3e000})
	test.ExpectEquality(t, tbl.Translate(0xfffe, banking.Write), banking.Target{Addr: 0x3fffe})

	// region $D is never claimed by the overlay
	test.ExpectEquality(t, tbl[0xd].Policy, banking.CPUPort)

	for _, r := range []int{0x8, 0x9, 0xa, 0xb, 0xc, 0xe, 0xf} {
		test.ExpectEquality(t, tbl[r].Policy, banking.Overlay, r)
		test.ExpectEquality(t, tbl[r].ReadImage, banking.ROM, r)
	}

	// the colour RAM bit has no effect on translation
	cfg.ROMOverlay = banking.OverlayCRAM2K
	tbl = banking.Recompute(cfg)
	for r := range tbl {
		test.ExpectInequality(t, tbl[r].Policy, banking.Overlay, r)
	}
}

func TestMap(t *testing.T) {
	cfg := portConfig(7)

	// map blocks 1 and 7 with offsets 0x12300 and 0x04500
	cfg.Map(0x23, 0x21, 0x45, 0x80, false)
	test.ExpectEquality(t, cfg.MapMask, uint8(0x82))
	test.ExpectEquality(t, cfg.OffsetLow, uint32(0x12300))
	test.ExpectEquality(t, cfg.OffsetHigh, uint32(0x04500))

	tbl := banking.Recompute(cfg)
	test.ExpectEquality(t, tbl.Translate(0x0000, banking.Read), banking.Target{Addr: 0x00000})
	test.ExpectEquality(t, tbl.Translate(0x2000, banking.Read), banking.Target{Addr: 0x14300})
	test.ExpectEquality(t, tbl.Translate(0x3fff, banking.Write), banking.Target{Addr: 0x162ff})
	test.ExpectEquality(t, tbl.Translate(0xe000, banking.Read), banking.Target{Addr: 0x12500})
	test.ExpectEquality(t, tbl[0x2].Policy, banking.Mapped)
	test.ExpectEquality(t, tbl[0xe].Policy, banking.Mapped)
	test.ExpectEquality(t, tbl[0xf].Policy, banking.Mapped)
	test.ExpectEquality(t, tbl[0xa].Policy, banking.CPUPort)

	// the mapped address wraps within the megabyte
	cfg.Map(0x00, 0x0f, 0xff, 0x8f, false)
	tbl = banking.Recompute(cfg)
	test.ExpectEquality(t, tbl.Translate(0xe000, banking.Read), banking.Target{Addr: 0x0df00})
}

func TestMapIO(t *testing.T) {
	cfg := portConfig(7)

	// block 6 covers $C000 to $DFFF. a mapped $D000 is never I/O
	cfg.Map(0, 0, 0x00, 0x40, false)
	tbl := banking.Recompute(cfg)
	test.ExpectEquality(t, tbl.Translate(0xd020, banking.Read), banking.Target{Addr: 0x0d020})
	test.ExpectEquality(t, tbl.Translate(0xd020, banking.Write), banking.Target{Addr: 0x0d020})
}

func TestMapMegabyte(t *testing.T) {
	cfg := portConfig(7)

	// without the extended flag the megabyte is never set
	cfg.Map(0x80, 0x0f, 0x00, 0x00, false)
	test.ExpectEquality(t, cfg.MegabyteLow, uint32(0))

	cfg.Map(0x80, 0x0f, 0x00, 0x00, true)
	test.ExpectEquality(t, cfg.MegabyteLow, uint32(0x8000000))
	test.ExpectEquality(t, cfg.MegabyteHigh, uint32(0))

	// the megabyte is retained by a following MAP that doesn't select one
	cfg.Map(0x00, 0x10, 0x00, 0x00, true)
	test.ExpectEquality(t, cfg.MegabyteLow, uint32(0x8000000))

	tbl := banking.Recompute(cfg)
	test.ExpectEquality(t, tbl.Translate(0x0010, banking.Read), banking.Target{Addr: 0x8000010})
	test.ExpectEquality(t, tbl.Translate(0x2010, banking.Read), banking.Target{Addr: 0x0002010})
}

func TestPriority(t *testing.T) {
	cfg := portConfig(7)
	cfg.ROMOverlay = banking.OverlayROME
	cfg.Map(0, 0, 0x00, 0xf0, false)
	tbl := banking.Recompute(cfg)

	// overlay wins over the MAP instruction
	test.ExpectEquality(t, tbl[0xe].Policy, banking.Overlay)
	test.ExpectEquality(t, tbl[0xf].Policy, banking.Overlay)

	// MAP wins over the CPU port
	test.ExpectEquality(t, tbl[0xa].Policy, banking.Mapped)
	test.ExpectEquality(t, tbl[0xd].Policy, banking.Mapped)

	// identity for the lower half of the address space
	for r := range 8 {
		test.ExpectEquality(t, tbl[r].Policy, banking.Identity, r)
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	cfg := portConfig(5)
	cfg.ROMOverlay = banking.OverlayROMC
	cfg.Map(0x10, 0x32, 0x54, 0x76, true)

	a := banking.Recompute(cfg)
	b := banking.Recompute(cfg)
	test.ExpectEquality(t, a.Equal(&b), true)
	test.ExpectEquality(t, a.Summary(), b.Summary())

	cfg.PortData = 7
	c := banking.Recompute(cfg)
	test.ExpectEquality(t, a.Equal(&c), false)
}

func TestIOPanic(t *testing.T) {
	tbl := banking.Recompute(portConfig(7))

	// corrupt the table so that a region other than $D is I/O
	tbl[0x4].ReadIO = true

	defer func() {
		r := recover()
		test.ExpectInequality(t, r, nil)
	}()
	_ = tbl.Translate(0x4000, banking.Read)
	t.Errorf("expected panic")
}
