/*
Copyright 2026 The variant-search Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package search

import (
	"fmt"
	"iter"
	"strings"
)

// Coordinate is an immutable point in the discrete search space, one integer
// slot per dimension. All transitions produce a new Coordinate; the slots of
// an existing one are never mutated.
type Coordinate struct {
	slots []int
}

// NewCoordinate creates a coordinate from an explicit slot sequence. The
// slice is copied.
func NewCoordinate(slots []int) Coordinate {
	out := make([]int, len(slots))
	copy(out, slots)
	return Coordinate{slots: out}
}

// Len returns the number of slots.
func (c Coordinate) Len() int { return len(c.slots) }

// Slot returns the value of slot i.
func (c Coordinate) Slot(i int) int { return c.slots[i] }

// Slots returns a copy of the slot values.
func (c Coordinate) Slots() []int {
	out := make([]int, len(c.slots))
	copy(out, c.slots)
	return out
}

// Equal reports whether two coordinates have identical slots.
func (c Coordinate) Equal(other Coordinate) bool {
	if len(c.slots) != len(other.slots) {
		return false
	}
	for i, v := range c.slots {
		if other.slots[i] != v {
			return false
		}
	}
	return true
}

// Key returns a canonical string form usable as a map key.
func (c Coordinate) Key() string {
	var b strings.Builder
	for i, v := range c.slots {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	return b.String()
}

func (c Coordinate) String() string {
	return "[" + c.Key() + "]"
}

// WithSlot returns a new coordinate with slot i set to v.
func (c Coordinate) WithSlot(i, v int) Coordinate {
	out := c.Slots()
	out[i] = v
	return Coordinate{slots: out}
}

// WithSlotFloored returns a new coordinate with slot i floored at lower.
// Flooring an already-in-bounds slot returns an equal coordinate.
func (c Coordinate) WithSlotFloored(i, lower int) Coordinate {
	if c.slots[i] >= lower {
		return c
	}
	return c.WithSlot(i, lower)
}

// Neighborhood returns the finite, restartable, lazily generated sequence of
// all coordinates within Chebyshev distance radius of c, excluding c itself
// and any coordinate with a negative slot. Enumeration is deterministic:
// slot deltas are walked in ascending order with slot 0 most significant, so
// search behavior is reproducible.
func (c Coordinate) Neighborhood(radius int) iter.Seq[Coordinate] {
	return func(yield func(Coordinate) bool) {
		if radius <= 0 || len(c.slots) == 0 {
			return
		}
		n := len(c.slots)
		deltas := make([]int, n)
		for i := range deltas {
			deltas[i] = -radius
		}
		for {
			if out, ok := c.offset(deltas); ok {
				if !yield(out) {
					return
				}
			}
			// Odometer increment, last slot fastest.
			i := n - 1
			for i >= 0 {
				deltas[i]++
				if deltas[i] <= radius {
					break
				}
				deltas[i] = -radius
				i--
			}
			if i < 0 {
				return
			}
		}
	}
}

// offset applies a delta vector, rejecting the zero vector and any result
// with a negative slot.
func (c Coordinate) offset(deltas []int) (Coordinate, bool) {
	zero := true
	out := make([]int, len(c.slots))
	for i, d := range deltas {
		if d != 0 {
			zero = false
		}
		out[i] = c.slots[i] + d
		if out[i] < 0 {
			return Coordinate{}, false
		}
	}
	if zero {
		return Coordinate{}, false
	}
	return Coordinate{slots: out}, true
}
