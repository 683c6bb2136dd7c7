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

package script

import (
	"context"
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/gopher65/gopher65/hardware"
	"github.com/gopher65/gopher65/hardware/memory/bus"
	"github.com/gopher65/gopher65/logger"
)

// the name of the lua function called by ExecuteInstruction()
const instructionFunction = "instruction"

// Script is a Lua state connected to a machine.
type Script struct {
	L   *lua.LState
	m   *hardware.Machine
	out io.Writer

	// the bus for the instruction currently being executed. nil if no
	// instruction is in progress
	mem bus.CPUBus

	// the most recent error from the machine. lua errors lose the original
	// error so we keep it here
	fault error
}

// NewScript is the preferred method of initialisation for the Script type.
// The output of the print() function is written to out.
func NewScript(m *hardware.Machine, out io.Writer) *Script {
	s := &Script{
		L:   lua.NewState(),
		m:   m,
		out: out,
	}

	funcs := map[string]lua.LGFunction{
		"peek":       s.peek,
		"poke":       s.poke,
		"read":       s.read,
		"write":      s.write,
		"map":        s.mapInstruction,
		"phys_read":  s.physRead,
		"phys_write": s.physWrite,
		"dma":        s.dma,
		"dma_status": s.dmaStatus,
		"step":       s.step,
		"overlay":    s.overlay,
		"summary":    s.summary,
		"print":      s.print,
	}
	for n, f := range funcs {
		s.L.SetGlobal(n, s.L.NewFunction(f))
	}

	return s
}

// SetContext sets the context of the Lua state. The script is stopped with an
// error when the context is cancelled.
func (s *Script) SetContext(ctx context.Context) {
	s.L.SetContext(ctx)
}

// Close the Lua state.
func (s *Script) Close() {
	s.L.Close()
}

// result returns the error that stopped the script. errors from the machine
// take priority over the lua error that they caused. a script that completes
// can still leave a failed DMA job behind it
func (s *Script) result(err error) error {
	defer func() { s.fault = nil }()
	if err == nil {
		err = s.m.DMA.Err()
		if err == nil {
			return nil
		}
	}
	if s.fault != nil {
		err = s.fault
	}
	return fmt.Errorf("script: %w", err)
}

// RunFile runs the script in the named file.
func (s *Script) RunFile(filename string) error {
	logger.Logf(s.m.Env, "script", "running %s", filename)
	return s.result(s.L.DoFile(filename))
}

// RunString runs the script in the string.
func (s *Script) RunString(src string) error {
	return s.result(s.L.DoString(src))
}

// ExecuteInstruction implements the hardware.CPU interface.
func (s *Script) ExecuteInstruction(mem bus.CPUBus) (int, error) {
	fn := s.L.GetGlobal(instructionFunction)
	if fn.Type() != lua.LTFunction {
		return 1, nil
	}

	s.mem = mem
	defer func() { s.mem = nil }()

	err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true})
	if err != nil {
		return 0, fmt.Errorf("script: %s: %w", instructionFunction, err)
	}

	ret := s.L.Get(-1)
	s.L.Pop(1)
	if n, ok := ret.(lua.LNumber); ok {
		return int(n), nil
	}
	return 1, nil
}

// the bus used by read() and write(). outside of an instruction this is the
// machine's memory
func (s *Script) bus() bus.CPUBus {
	if s.mem != nil {
		return s.mem
	}
	return s.m.Mem
}

// the first fault is kept. a fault raised inside instruction() reaches the
// outer script wrapped by the lua error of each enclosing call
func (s *Script) raise(L *lua.LState, err error) int {
	if s.fault == nil {
		s.fault = err
	}
	L.RaiseError("%s", err.Error())
	return 0
}

// a register write can start a DMA job. the job's error is held by the engine
// until somebody asks for it
func (s *Script) checkDMA(L *lua.LState) int {
	if err := s.m.DMA.Err(); err != nil {
		return s.raise(L, err)
	}
	return 0
}

func address(L *lua.LState, n int) uint16 {
	return uint16(L.CheckInt(n))
}

func value(L *lua.LState, n int) uint8 {
	return uint8(L.CheckInt(n))
}

func (s *Script) peek(L *lua.LState) int {
	v, err := s.m.Mem.Peek(address(L, 1))
	if err != nil {
		return s.raise(L, err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (s *Script) poke(L *lua.LState) int {
	if err := s.m.Mem.Poke(address(L, 1), value(L, 2)); err != nil {
		return s.raise(L, err)
	}
	return s.checkDMA(L)
}

func (s *Script) read(L *lua.LState) int {
	v, err := s.bus().Read(address(L, 1))
	if err != nil {
		return s.raise(L, err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (s *Script) write(L *lua.LState) int {
	if err := s.bus().Write(address(L, 1), value(L, 2)); err != nil {
		return s.raise(L, err)
	}
	return s.checkDMA(L)
}

func (s *Script) mapInstruction(L *lua.LState) int {
	s.m.Mem.Map(value(L, 1), value(L, 2), value(L, 3), value(L, 4))
	return 0
}

func (s *Script) physRead(L *lua.LState) int {
	L.Push(lua.LNumber(s.m.Mem.ReadPhysical(uint32(L.CheckInt(1)))))
	return 1
}

func (s *Script) physWrite(L *lua.LState) int {
	s.m.Mem.WritePhysical(uint32(L.CheckInt(1)), value(L, 2))
	return 0
}

func (s *Script) dma(L *lua.LState) int {
	list := uint32(L.CheckInt(1))
	enhanced := L.OptBool(2, false)
	if err := s.m.DMA.Start(list, enhanced); err != nil {
		return s.raise(L, err)
	}
	return 0
}

func (s *Script) dmaStatus(L *lua.LState) int {
	L.Push(lua.LNumber(s.m.DMA.Status()))
	return 1
}

func (s *Script) step(L *lua.LState) int {
	n := L.OptInt(1, 1)
	if s.mem != nil {
		L.RaiseError("step() cannot be called from %s()", instructionFunction)
		return 0
	}
	if err := s.m.RunForInstructionCount(s, n); err != nil {
		return s.raise(L, err)
	}
	return 0
}

func (s *Script) overlay(L *lua.LState) int {
	prev := s.m.Mem.ROMOverlay()
	if L.GetTop() > 0 {
		s.m.Mem.SetROMOverlay(value(L, 1))
	}
	L.Push(lua.LNumber(prev))
	return 1
}

func (s *Script) summary(L *lua.LState) int {
	L.Push(lua.LString(s.m.Summary()))
	return 1
}

func (s *Script) print(L *lua.LState) int {
	var p []string
	for i := 1; i <= L.GetTop(); i++ {
		p = append(p, L.ToStringMeta(L.Get(i)).String())
	}
	if _, err := io.WriteString(s.out, strings.Join(p, "\t")+"\n"); err != nil {
		return s.raise(L, fmt.Errorf("print: %w", err))
	}
	return 0
}
