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

import (
	"fmt"
	"strings"

	"github.com/gopher65/gopher65/hardware/memory/memorymap"
)

// Policy is the rule that resolved a region of the CPU address space.
type Policy int

// List of valid Policy values in order of priority.
const (
	Overlay Policy = iota
	Mapped
	Identity
	CPUPort
)

func (p Policy) String() string {
	switch p {
	case Overlay:
		return "overlay"
	case Mapped:
		return "mapped"
	case Identity:
		return "identity"
	case CPUPort:
		return "cpu port"
	}
	return "undefined"
}

// Image is a description of what is visible in a region. It has no effect on
// translation and is used for summaries and testing.
type Image int

// List of valid Image values.
const (
	RAM Image = iota
	ROM
	BASIC
	CHARGEN
	KERNAL
	IO
)

func (i Image) String() string {
	switch i {
	case RAM:
		return "RAM"
	case ROM:
		return "ROM"
	case BASIC:
		return "BASIC"
	case CHARGEN:
		return "CHARGEN"
	case KERNAL:
		return "KERNAL"
	case IO:
		return "I/O"
	}
	return "undefined"
}

// Entry is the translation information for a single 4KB region.
//
// For a physical target the physical address is:
//
//	megabyte | ((offset + cpu address) & 0xfffff)
type Entry struct {
	Policy Policy

	ReadOffset    uint32
	ReadMegabyte  uint32
	ReadIO        bool
	WriteOffset   uint32
	WriteMegabyte uint32
	WriteIO       bool

	ReadImage  Image
	WriteImage Image
}

func (e Entry) String() string {
	s := func(img Image, io bool, mb uint32, offset uint32) string {
		if io {
			return img.String()
		}
		return fmt.Sprintf("%s %02x:%05x", img, mb>>20, offset&0xfffff)
	}
	return fmt.Sprintf("%-8s read %-16s write %s", e.Policy,
		s(e.ReadImage, e.ReadIO, e.ReadMegabyte, e.ReadOffset),
		s(e.WriteImage, e.WriteIO, e.WriteMegabyte, e.WriteOffset))
}

// Table is the translation table for the entire 64KB CPU address space. One
// entry for every 4KB region.
type Table [memorymap.NumRegions]Entry

// Equal returns true if both tables are identical.
func (t *Table) Equal(o *Table) bool {
	return *t == *o
}

// Summary returns a multiline string describing every region in the table.
func (t *Table) Summary() string {
	s := strings.Builder{}
	for r, e := range t {
		origin := r << memorymap.RegionShift
		s.WriteString(fmt.Sprintf("%04x -> %04x\t%s\n", origin, origin|0x0fff, e))
	}
	return s.String()
}

// Intent of a memory access.
type Intent int

// List of valid Intent values.
const (
	Read Intent = iota
	Write
)

// Target is the result of translating a CPU address. If IO is true then Addr
// is an address in the I/O window ($D000 to $DFFF), otherwise Addr is a
// physical address.
type Target struct {
	IO   bool
	Addr uint32
}

func (t Target) String() string {
	if t.IO {
		return fmt.Sprintf("I/O %04x", t.Addr)
	}
	return fmt.Sprintf("phys %07x", t.Addr)
}

// Translate the CPU address for the intended access.
//
// The Table must be the result of the most recent call to Recompute(). Panics
// if the table resolves a region other than $D000 to I/O.
func (t *Table) Translate(addr uint16, intent Intent) Target {
	r := addr >> memorymap.RegionShift
	e := &t[r]

	var io bool
	var offset, mb uint32
	if intent == Write {
		io, offset, mb = e.WriteIO, e.WriteOffset, e.WriteMegabyte
	} else {
		io, offset, mb = e.ReadIO, e.ReadOffset, e.ReadMegabyte
	}

	if io {
		if r != memorymap.RegionIO {
			panic(fmt.Sprintf("banking: address %04x in region %x translated to I/O", addr, r))
		}
		return Target{IO: true, Addr: uint32(addr)}
	}

	return Target{Addr: mb | ((offset + uint32(addr)) & 0xfffff)}
}
