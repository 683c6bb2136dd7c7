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
	"errors"
	"fmt"

	"github.com/gopher65/gopher65/environment"
	"github.com/gopher65/gopher65/hardware/memory/bus"
	"github.com/gopher65/gopher65/hardware/memory/memorymap"
	"github.com/gopher65/gopher65/logger"
)

// ErrRunaway is returned when a job runs for more than IterationCeiling steps.
var ErrRunaway = errors.New("runaway job")

// IterationCeiling is the maximum number of steps in a single job.
const IterationCeiling = 1 << 19

// Values returned by Status().
const (
	StatusIdle    = 0x00
	StatusBusy    = 0x80
	StatusChained = 0x81
)

// the values set by the enhanced options. they apply to every descriptor in
// the job unless changed by a later option list
type session struct {
	revision Revision

	transparent    bool
	transparentVal uint8

	sourceMegabyte uint8
	targetMegabyte uint8
	sourceRate     uint16
	targetRate     uint16

	// bits 16 to 23 of the length
	lengthHi uint8
}

// modulo counters for the current descriptor
type modulo struct {
	active   bool
	col      uint32
	row      uint32
	colLimit uint32
	rowLimit uint32
}

// Engine is the DMA engine.
type Engine struct {
	env     *environment.Environment
	mem     bus.DMABus
	variant memorymap.Variant

	// last values written to the registers
	regs [16]uint8

	// revision used for jobs that don't specify one
	defaultRevision Revision

	busy     bool
	fetching bool
	status   uint8
	enhanced bool

	// the list address is always listBase | (listPointer & 0xffff)
	listBase    uint32
	listPointer uint32

	session   session
	desc      Descriptor
	remaining uint32
	modulo    modulo

	// number of steps since the start of the job
	iterations int

	// a byte operation is in progress. used to prevent the engine writing to
	// its own registers
	inUpdate bool

	// error from a job started by a register write
	fault error
}

// NewEngine is the preferred method of initialisation for the Engine type.
func NewEngine(env *environment.Environment, variant memorymap.Variant, mem bus.DMABus) *Engine {
	e := &Engine{
		env:     env,
		mem:     mem,
		variant: variant,
	}
	e.Reset()
	return e
}

// Snapshot creates a copy of the Engine in its current state.
func (e *Engine) Snapshot() *Engine {
	n := *e
	return &n
}

// Plumb a new environment and bus into the engine. Used after a snapshot has
// been made current.
func (e *Engine) Plumb(env *environment.Environment, mem bus.DMABus) {
	e.env = env
	e.mem = mem
}

func (e *Engine) String() string {
	if !e.busy {
		return fmt.Sprintf("idle (default %s)", e.defaultRevision)
	}
	if e.fetching {
		return fmt.Sprintf("fetching from %07x", e.listAddress())
	}
	return fmt.Sprintf("%s remaining=%d", e.desc, e.remaining)
}

// Reset the engine. Any job in progress is abandoned. The default revision is
// taken from the dma.revision preference.
func (e *Engine) Reset() {
	e.regs = [16]uint8{}
	e.defaultRevision = F018A
	if e.env.Prefs.F018B() {
		e.defaultRevision = F018B
	}
	e.regs[3] = uint8(e.defaultRevision)
	e.busy = false
	e.fetching = false
	e.status = StatusIdle
	e.inUpdate = false
	e.fault = nil
	e.iterations = 0
}

// Status returns StatusBusy, StatusChained or StatusIdle. Reading the status
// has no side effects.
func (e *Engine) Status() uint8 {
	return e.status
}

// IsBusy returns true if a job is in progress.
func (e *Engine) IsBusy() bool {
	return e.busy
}

// Current returns the descriptor most recently fetched.
func (e *Engine) Current() Descriptor {
	return e.desc
}

// Err returns and clears the error from a job started by a register write.
func (e *Engine) Err() error {
	err := e.fault
	e.fault = nil
	return err
}

func (e *Engine) listAddress() uint32 {
	return e.listBase | (e.listPointer & 0xffff)
}

// Start a new job with the list at the physical address. If enhanced is true
// then every descriptor is preceded by a list of options. Enhanced jobs are
// only supported by the MEGA65.
//
// If a job is already in progress it is completed first.
//
// With the DRAIN policy the job runs to completion before the function
// returns. With the INTERLEAVE policy the job must be completed by calls to
// Step().
func (e *Engine) Start(list uint32, enhanced bool) error {
	if e.busy {
		if _, err := e.Drain(); err != nil {
			return err
		}
		logger.Log(e.env, "dma", "re-triggered while busy. previous job completed")
	}

	e.session = session{
		revision:   e.defaultRevision,
		sourceRate: unitRate,
		targetRate: unitRate,
	}
	e.enhanced = enhanced && e.variant.Extended()
	e.listBase = list &^ 0xffff
	e.listPointer = list & 0xffff
	e.busy = true
	e.fetching = true
	e.status = StatusBusy
	e.iterations = 0

	if e.env.Prefs.Interleave() {
		return nil
	}

	_, err := e.Drain()
	return err
}

// Drain steps the engine until the job is complete. Returns the number of
// cycles used.
func (e *Engine) Drain() (int, error) {
	var cycles int
	for e.busy {
		c, err := e.Step()
		cycles += c
		if err != nil {
			return cycles, err
		}
	}
	return cycles, nil
}

// Step either fetches the next descriptor or performs one byte of the current
// operation. Returns the number of cycles used. Does nothing if the engine is
// not busy.
func (e *Engine) Step() (int, error) {
	if !e.busy {
		return 0, nil
	}

	e.iterations++
	if e.iterations > IterationCeiling {
		e.busy = false
		e.fetching = false
		e.status = StatusIdle
		logger.Logf(e.env, "dma", "job stopped after %d steps. list at %07x", IterationCeiling, e.listAddress())
		return 0, fmt.Errorf("dma: %w", ErrRunaway)
	}

	if e.fetching {
		return e.fetch(), nil
	}
	return e.execute(), nil
}

func (e *Engine) next() uint8 {
	v := e.mem.ReadPhysical(e.listAddress())
	e.listPointer = (e.listPointer + 1) & 0xffff
	return v
}

// read the enhanced option list. returns the number of bytes read
func (e *Engine) options() int {
	var n int
	for {
		opt := e.next()
		n++

		var param uint8
		if opt&0x80 == 0x80 {
			param = e.next()
			n++
		}

		switch opt {
		case 0x00:
			return n
		case 0x06:
			e.session.transparent = false
		case 0x07:
			e.session.transparent = true
		case 0x0a:
			e.session.revision = F018A
		case 0x0b:
			e.session.revision = F018B
		case 0x80:
			e.session.sourceMegabyte = param
		case 0x81:
			e.session.targetMegabyte = param
		case 0x82:
			e.session.sourceRate = e.session.sourceRate&0xff00 | uint16(param)
		case 0x83:
			e.session.sourceRate = e.session.sourceRate&0x00ff | uint16(param)<<8
		case 0x84:
			e.session.targetRate = e.session.targetRate&0xff00 | uint16(param)
		case 0x85:
			e.session.targetRate = e.session.targetRate&0x00ff | uint16(param)<<8
		case 0x86:
			e.session.transparentVal = param
		case 0x90:
			e.session.lengthHi = param
		default:
			if opt&0x80 == 0x80 {
				logger.Logf(e.env, "dma", "unknown enhanced option %02x (parameter %02x)", opt, param)
			} else {
				logger.Logf(e.env, "dma", "unknown enhanced option %02x", opt)
			}
		}
	}
}

// fetch the next descriptor. returns the number of cycles used
func (e *Engine) fetch() int {
	var cycles int
	if e.enhanced {
		cycles += e.options()
	}

	rev := e.session.revision

	cmd := e.next()
	lenLo := e.next()
	lenHi := e.next()
	src := uint32(e.next()) | uint32(e.next())<<8 | uint32(e.next())<<16
	dst := uint32(e.next()) | uint32(e.next())<<8 | uint32(e.next())<<16

	var sub uint8
	if rev == F018B {
		sub = e.next()
		cycles += 12
	} else {
		cycles += 11
	}

	mod := uint16(e.next()) | uint16(e.next())<<8

	d := Descriptor{
		Revision:   rev,
		Command:    Command(cmd & 0x03),
		Chained:    cmd&cmdChained == cmdChained,
		Length:     uint32(lenLo) | uint32(lenHi)<<8 | uint32(e.session.lengthHi)<<16,
		Source:     decodeChannel(src, rev, e.session.sourceMegabyte, e.session.sourceRate),
		Target:     decodeChannel(dst, rev, e.session.targetMegabyte, e.session.targetRate),
		Fill:       uint8(src),
		SubCommand: sub,
		Modulo:     mod,
	}

	if rev == F018B {
		d.Source.Hold = sub&subSourceHold == subSourceHold
		d.Source.Decrement = cmd&cmdSourceDecrement == cmdSourceDecrement
		d.Source.Modulo = sub&subSourceModulo == subSourceModulo
		d.Target.Hold = sub&subTargetHold == subTargetHold
		d.Target.Decrement = cmd&cmdTargetDecrement == cmdTargetDecrement
		d.Target.Modulo = sub&subTargetModulo == subTargetModulo
		d.Minterms = minterms(sub)
	} else {
		d.Minterms = minterms(cmd)
	}

	if d.Length == 0 {
		d.Length = 0x10000
	}

	e.modulo = modulo{}
	if d.Source.Modulo || d.Target.Modulo {
		if e.env.Prefs.DMAModulo.Get().(bool) {
			e.modulo.active = true
			e.modulo.colLimit = uint32(lenLo)
			e.modulo.rowLimit = uint32(lenHi)
			if e.modulo.colLimit == 0 {
				e.modulo.colLimit = 0x100
			}
			if e.modulo.rowLimit == 0 {
				e.modulo.rowLimit = 0x100
			}
		} else {
			logger.Logf(e.env, "dma", "modulo requested but not enabled. list at %07x", e.listAddress())
		}
	}

	e.desc = d
	e.remaining = d.Length
	e.fetching = false

	return cycles
}

func (e *Engine) read(ch Channel) uint8 {
	io, addr := ch.Address()
	if io {
		return e.mem.IORead(uint16(addr))
	}
	return e.mem.ReadPhysical(addr)
}

func (e *Engine) write(ch Channel, v uint8) {
	if e.session.transparent && v == e.session.transparentVal {
		return
	}
	io, addr := ch.Address()
	if io {
		e.mem.IOWrite(uint16(addr), v)
		return
	}
	e.mem.WritePhysical(addr, v)
}

// perform one byte of the current operation. returns the number of cycles
// used
func (e *Engine) execute() int {
	var cycles int

	e.inUpdate = true

	d := &e.desc
	switch d.Command {
	case Copy:
		e.write(d.Target, e.read(d.Source))
		d.Source.advance()
		d.Target.advance()
		cycles = 2
	case Mix:
		s := e.read(d.Source)
		t := e.read(d.Target)
		e.write(d.Target, mix(s, t, d.Minterms))
		d.Source.advance()
		d.Target.advance()
		cycles = 3
	case Swap:
		s := e.read(d.Source)
		t := e.read(d.Target)
		e.write(d.Source, t)
		e.write(d.Target, s)
		d.Source.advance()
		d.Target.advance()
		cycles = 4
	case Fill:
		e.write(d.Target, d.Fill)
		d.Target.advance()
		cycles = 1
	}

	e.inUpdate = false

	if e.modulo.active {
		e.modulo.col++
		if e.modulo.col >= e.modulo.colLimit {
			e.modulo.col = 0
			e.modulo.row++
			if e.modulo.row >= e.modulo.rowLimit {
				e.remaining = 0
			} else {
				if d.Source.Modulo {
					d.Source.stride(d.Modulo)
				}
				if d.Target.Modulo {
					d.Target.stride(d.Modulo)
				}
			}
		}
	} else {
		e.remaining--
	}

	if e.remaining == 0 {
		if d.Chained {
			e.status = StatusChained
			e.fetching = true
		} else {
			e.status = StatusIdle
			e.busy = false
		}
	}

	return cycles
}
