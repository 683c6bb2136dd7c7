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

package random

import (
	"math/rand/v2"
	"time"
)

// the base seed is chosen once per program execution
var baseSeed uint64

func init() {
	baseSeed = uint64(time.Now().UnixNano())
}

// Clock is the source of the number that differentiates one call to Random
// from another.
type Clock interface {
	Cycles() uint64
}

// Random is the random number source for the emulation.
type Random struct {
	clock Clock

	// use zero seed rather than the random base seed. this is only really
	// useful for normalised instances where random numbers must be predictable
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(clock Clock) *Random {
	return &Random{
		clock: clock,
	}
}

func (rnd *Random) rand() *rand.Rand {
	var c uint64
	if rnd.clock != nil {
		c = rnd.clock.Cycles()
	}
	if rnd.ZeroSeed {
		return rand.New(rand.NewPCG(0, c))
	}
	return rand.New(rand.NewPCG(baseSeed, c))
}

// IntN returns a random number in the range [0, n).
func (rnd *Random) IntN(n int) int {
	return rnd.rand().IntN(n)
}

// Fill the byte slice with random values.
func (rnd *Random) Fill(b []byte) {
	r := rnd.rand()
	for i := range b {
		b[i] = uint8(r.Uint32())
	}
}

// Plumb a new clock into the random number source.
func (rnd *Random) Plumb(clock Clock) {
	rnd.clock = clock
}
