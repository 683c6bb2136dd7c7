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

package performance

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gopher65/gopher65/govern"
	"github.com/gopher65/gopher65/hardware"
	"github.com/gopher65/gopher65/hardware/clocks"
	"github.com/gopher65/gopher65/hardware/memory/memorymap"
)

// sentinal error returned by Run() loop.
var timedOut = errors.New("performance timed out")

// CalcSpeed takes the number of cycles and the duration (in seconds) and
// returns the effective clock speed in MHz and the accuracy of that value as a
// percentage of the speed of the real machine.
func CalcSpeed(variant memorymap.Variant, cycles uint64, duration float64) (mhz float64, accuracy float64) {
	mhz = float64(cycles) / duration / 1000000
	speed := clocks.C65
	if variant == memorymap.MEGA65 {
		speed = clocks.MEGA65
	}
	accuracy = 100 * mhz / speed
	return mhz, accuracy
}

// Check the performance of the emulator by running the machine with the CPU
// for the specified duration.
//
// Emulation will create a cpu, memory profile, a trace (or a combination of
// those) as defined by the Profile argument.
func Check(output io.Writer, profile Profile, m *hardware.Machine, cpu hardware.CPU, duration string) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	startCycles := m.Clock.Cycles()

	runner := func() error {
		timesUp := make(chan bool, 1)
		time.AfterFunc(dur, func() {
			timesUp <- true
		})

		// only check for end of measurement period every PerformanceBrake
		// steps. checking the channel is relatively expensive
		performanceBrake := 0

		return m.Run(cpu, func() (govern.State, error) {
			performanceBrake++
			if performanceBrake >= hardware.PerformanceBrake {
				performanceBrake = 0
				select {
				case <-timesUp:
					return govern.Ending, timedOut
				default:
				}
			}
			return govern.Running, nil
		})
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil && !errors.Is(err, timedOut) {
		return fmt.Errorf("performance: %w", err)
	}

	cycles := m.Clock.Cycles() - startCycles
	mhz, accuracy := CalcSpeed(m.Variant, cycles, dur.Seconds())
	fmt.Fprintf(output, "%.2f MHz (%d cycles in %.2f seconds) %.1f%%\n", mhz, cycles, dur.Seconds(), accuracy)

	return nil
}
