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

package memorymap

import (
	"fmt"
	"strings"
)

// Summary returns a single multiline string detailing all the areas in the
// physical memory of the variant.
func (v Variant) Summary(exp Expansion) string {
	s := strings.Builder{}

	mask := v.PhysicalMask()

	var start uint32
	current := v.Area(0, exp)

	// step through memory in pages. no area boundary is finer than that
	const page = 0x800

	for a := uint32(page); a <= mask && a != 0; a += page {
		area := v.Area(a, exp)
		if area != current {
			s.WriteString(fmt.Sprintf("%05x -> %05x\t%s\n", start, a-1, current))
			current = area
			start = a
		}
	}

	s.WriteString(fmt.Sprintf("%05x -> %05x\t%s\n", start, mask, current))

	return s.String()
}
