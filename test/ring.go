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
package test

import (
	"fmt"
	"strings"
)

// RingWriter is an io.Writer that keeps only the most recent output. Useful
// for capturing the print() output of scripts and the echo of the log, where
// only the tail is of interest.
type RingWriter struct {
	buffer  []byte
	size    int
	cursor  int
	wrapped bool
}

// NewRingWriter returns a RingWriter that holds size bytes.
func NewRingWriter(size int) (*RingWriter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid size for RingWriter (%d)", size)
	}
	return &RingWriter{
		size:   size,
		buffer: make([]byte, size),
	}, nil
}

// String returns the content of the ring, oldest byte first.
func (r *RingWriter) String() string {
	if !r.wrapped {
		return string(r.buffer[:r.cursor])
	}

	var s strings.Builder
	s.Write(r.buffer[r.cursor:])
	s.Write(r.buffer[:r.cursor])
	return s.String()
}

// Reset empties the ring.
func (r *RingWriter) Reset() {
	r.cursor = 0
	r.wrapped = false
}

// Write implements the io.Writer interface. It never fails.
func (r *RingWriter) Write(p []byte) (int, error) {
	n := len(p)

	// only the tail of a long write survives
	if n >= r.size {
		copy(r.buffer, p[n-r.size:])
		r.cursor = 0
		r.wrapped = true
		return n, nil
	}

	c := copy(r.buffer[r.cursor:], p)
	copy(r.buffer, p[c:])
	r.cursor = (r.cursor + n) % r.size
	if c < n || (n > 0 && r.cursor == 0) {
		r.wrapped = true
	}

	return n, nil
}
