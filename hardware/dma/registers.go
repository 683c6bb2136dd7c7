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
	"github.com/gopher65/gopher65/logger"
)

// register numbers relative to $D700
const (
	regListLo       = 0x00
	regListMid      = 0x01
	regListHi       = 0x02
	regRevision     = 0x03
	regListMegabyte = 0x04
	regEnhanced     = 0x05
	regListLoOnly   = 0x0e
)

// Label implements the io.Chip interface.
func (e *Engine) Label() string {
	return "DMA"
}

// Read implements the io.Chip interface.
func (e *Engine) Read(reg uint16) uint8 {
	reg &= 0x0f

	if !e.variant.Extended() {
		if reg == regListLo || reg == regRevision {
			return e.Status()
		}
		return e.regs[reg]
	}

	switch reg {
	case regRevision:
		return (e.Status() & 0xfe) | uint8(e.defaultRevision)
	case regEnhanced:
		return e.regs[regListLo]
	}
	return e.regs[reg]
}

// Write implements the io.Chip interface.
func (e *Engine) Write(reg uint16, data uint8) {
	reg &= 0x0f

	if e.inUpdate {
		logger.Logf(e.env, "dma", "job writing to its own register (%02x) ignored", reg)
		return
	}

	if !e.variant.Extended() {
		if reg > regRevision {
			logger.Logf(e.env, "dma", "write to extended register (%02x) ignored", reg)
			return
		}
		e.regs[reg] = data
		if reg == regListLo {
			e.trigger(false)
		}
		return
	}

	e.regs[reg] = data

	switch reg {
	case regListLo:
		e.trigger(false)
	case regEnhanced:
		e.regs[regListLo] = data
		e.trigger(true)
	case regListHi:
		// for compatibility with the C65 a write to the bank clears the
		// megabyte
		e.regs[regListMegabyte] = 0
	case regRevision:
		rev := Revision(data & 0x01)
		if rev != e.defaultRevision {
			logger.Logf(e.env, "dma", "default revision %s -> %s", e.defaultRevision, rev)
			e.defaultRevision = rev
		}
	case regListLoOnly:
		e.regs[regListLo] = data
	}
}

// the list address from the register values
func (e *Engine) registerList() uint32 {
	list := uint32(e.regs[regListLo]) | uint32(e.regs[regListMid])<<8 | uint32(e.regs[regListHi]&0x0f)<<16
	if e.variant.Extended() {
		list |= uint32(e.regs[regListMegabyte]) << 20
	}
	return list
}

func (e *Engine) trigger(enhanced bool) {
	if err := e.Start(e.registerList(), enhanced); err != nil {
		e.fault = err
	}
}

// Registers returns a copy of the register values.
func (e *Engine) Registers() [16]uint8 {
	return e.regs
}

// State is the part of the engine that is persisted by snapshots. A job in
// progress is not part of the state.
type State struct {
	Registers       [16]uint8
	DefaultRevision Revision
	ListBase        uint32
	ListPointer     uint32
}

// State returns the persistent state of the engine.
func (e *Engine) State() State {
	return State{
		Registers:       e.regs,
		DefaultRevision: e.defaultRevision,
		ListBase:        e.listBase,
		ListPointer:     e.listPointer,
	}
}

// SetState restores the persistent state of the engine. Any job in progress
// is abandoned.
func (e *Engine) SetState(s State) {
	if e.busy {
		logger.Log(e.env, "dma", "job abandoned by change of state")
	}
	e.regs = s.Registers
	e.defaultRevision = s.DefaultRevision & 0x01
	e.listBase = s.ListBase
	e.listPointer = s.ListPointer & 0xffff
	e.busy = false
	e.fetching = false
	e.status = StatusIdle
	e.inUpdate = false
	e.fault = nil
}
