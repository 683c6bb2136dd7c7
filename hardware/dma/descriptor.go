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

package dma

import (
	"fmt"

	"github.com/gopher65/gopher65/hardware/memory/memorymap"
)

// Revision of the descriptor format.
type Revision int

// List of valid Revision values.
const (
	F018A Revision = iota
	F018B
)

func (r Revision) String() string {
	switch r {
	case F018A:
		return "F018A"
	case F018B:
		return "F018B"
	}
	return "undefined"
}

// Command is the operation performed by a descriptor.
type Command int

// List of valid Command values. The value is the lower two bits of the
// command byte.
const (
	Copy Command = iota
	Mix
	Swap
	Fill
)

func (c Command) String() string {
	switch c {
	case Copy:
		return "copy"
	case Mix:
		return "mix"
	case Swap:
		return "swap"
	case Fill:
		return "fill"
	}
	return "undefined"
}

// address bits common to both revisions
const (
	addrIO = 0x800000
)

// address bits of the F018A revision
const (
	addrHold      = 0x100000
	addrModulo    = 0x200000
	addrDecrement = 0x400000
)

// command bits
const (
	cmdChained = 0x04

	// F018B only
	cmdSourceDecrement = 0x10
	cmdTargetDecrement = 0x20
)

// subcommand bits of the F018B revision
const (
	subSourceModulo = 0x01
	subSourceHold   = 0x02
	subTargetModulo = 0x04
	subTargetHold   = 0x08
)

// the unit step rate in 8.8 fixed point
const unitRate = 0x0100

// Channel is the source or target of a descriptor.
type Channel struct {
	// the cursor is the offset from the base in 8.8 fixed point. the integer
	// part wraps within 64KB, or 4KB for I/O
	Cursor uint32
	Base   uint32

	IO        bool
	Hold      bool
	Decrement bool
	Modulo    bool

	// step rate in 8.8 fixed point
	Rate uint16
}

func (ch Channel) String() string {
	var flags string
	if ch.IO {
		flags += " io"
	}
	if ch.Hold {
		flags += " hold"
	}
	if ch.Decrement {
		flags += " dec"
	}
	if ch.Modulo {
		flags += " mod"
	}
	io, addr := ch.Address()
	if io {
		return fmt.Sprintf("%04x%s", addr, flags)
	}
	return fmt.Sprintf("%07x%s", addr, flags)
}

// Address returns the current address of the channel. If io is true then the
// address is in the I/O window, otherwise it is a physical address.
func (ch Channel) Address() (io bool, addr uint32) {
	if ch.IO {
		return true, uint32(memorymap.OriginIO) | (ch.Cursor>>8)&0x0fff
	}
	return false, ch.Base + (ch.Cursor>>8)&0xffff
}

func (ch *Channel) advance() {
	if ch.Hold {
		return
	}
	if ch.Decrement {
		ch.Cursor -= uint32(ch.Rate)
	} else {
		ch.Cursor += uint32(ch.Rate)
	}
	ch.Cursor &= 0xffffff
}

// add the modulo stride to the channel
func (ch *Channel) stride(modulo uint16) {
	ch.Cursor = (ch.Cursor + uint32(modulo)<<8) & 0xffffff
}

// decode the three address bytes of a descriptor into a channel. the
// megabyte is only meaningful for the MEGA65
func decodeChannel(addr uint32, rev Revision, megabyte uint8, rate uint16) Channel {
	ch := Channel{
		IO:   addr&addrIO == addrIO,
		Rate: rate,
	}

	if ch.IO {
		ch.Cursor = (addr & 0x0fff) << 8
	} else {
		ch.Cursor = (addr & 0xffff) << 8
		if rev == F018B {
			// the three bits above the first megabyte are added to the megabyte
			// selected by the enhanced options
			ch.Base = addr&0x0f0000 | ((uint32(megabyte)<<20)+(addr&0x700000))&0xff00000
		} else {
			ch.Base = addr&0x0f0000 | uint32(megabyte)<<20
		}
	}

	if rev == F018A {
		ch.Hold = addr&addrHold == addrHold
		ch.Decrement = addr&addrDecrement == addrDecrement
		ch.Modulo = addr&addrModulo == addrModulo
	}

	return ch
}

// Descriptor is a single entry in a DMA list.
type Descriptor struct {
	Revision Revision
	Command  Command
	Chained  bool

	// a length of zero in the list is 65536
	Length uint32

	Source Channel
	Target Channel

	// the fill value is the low byte of the source address
	Fill uint8

	// one bit for each of the four combinations of source and target bits.
	// used by the Mix command only
	Minterms [4]uint8

	// F018B only
	SubCommand uint8

	Modulo uint16
}

func (d Descriptor) String() string {
	s := fmt.Sprintf("%s %s len=%d src=%s dst=%s", d.Revision, d.Command, d.Length, d.Source, d.Target)
	if d.Command == Fill {
		s = fmt.Sprintf("%s fill=%02x", s, d.Fill)
	}
	if d.Command == Mix {
		s = fmt.Sprintf("%s minterms=%02x%02x%02x%02x", s, d.Minterms[3], d.Minterms[2], d.Minterms[1], d.Minterms[0])
	}
	if d.Chained {
		s = fmt.Sprintf("%s chained", s)
	}
	return s
}

// minterms from the upper four bits of the command byte (F018A) or the
// subcommand byte (F018B)
func minterms(v uint8) [4]uint8 {
	var m [4]uint8
	for i := range m {
		if v&(0x10<<i) != 0 {
			m[i] = 0xff
		}
	}
	return m
}

// mix combines the source and target bytes according to the minterms
func mix(s, d uint8, m [4]uint8) uint8 {
	return (s & d & m[3]) | (s &^ d & m[2]) | (^s & d & m[1]) | (^s &^ d & m[0])
}
