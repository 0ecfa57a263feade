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

import "fmt"

// DimensionError reports a coordinate whose arity does not match the
// dimension set it is resolved against. It is a programmer error and is
// never retried.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("coordinate has %d slots, dimension set has %d", e.Got, e.Want)
}

type dimensionSlot struct {
	entity int
	dim    Dimension
}

// DimensionSet is an ordered grouping of dimensions scoped per entity index.
// Insertion order defines the flat coordinate slot order: the i-th slot of
// every coordinate resolved against this set belongs to the i-th dimension
// added.
type DimensionSet struct {
	slots []dimensionSlot
}

// NewDimensionSet creates an empty dimension set.
func NewDimensionSet() *DimensionSet {
	return &DimensionSet{}
}

// AddDimensions appends the ordered dimensions for an entity, extending the
// global slot order. Entity indices are expected to be contiguous starting
// at 0.
func (s *DimensionSet) AddDimensions(entity int, dims []Dimension) {
	for _, d := range dims {
		s.slots = append(s.slots, dimensionSlot{entity: entity, dim: d})
	}
}

// Count returns the number of coordinate slots in the set.
func (s *DimensionSet) Count() int { return len(s.slots) }

// Dimension returns the dimension occupying slot i.
func (s *DimensionSet) Dimension(i int) Dimension { return s.slots[i].dim }

// EntityOf returns the entity index that owns slot i.
func (s *DimensionSet) EntityOf(i int) int { return s.slots[i].entity }

// StartingCoordinate returns the coordinate with every slot at its
// dimension's min bound. This is where a search begins.
func (s *DimensionSet) StartingCoordinate() Coordinate {
	slots := make([]int, len(s.slots))
	for i, sl := range s.slots {
		slots[i] = sl.dim.Min()
	}
	return NewCoordinate(slots)
}

// ClampToBounds returns coord with every slot floored at its dimension's min
// bound.
func (s *DimensionSet) ClampToBounds(coord Coordinate) (Coordinate, error) {
	if coord.Len() != len(s.slots) {
		return Coordinate{}, &DimensionError{Want: len(s.slots), Got: coord.Len()}
	}
	out := coord
	for i, sl := range s.slots {
		out = out.WithSlotFloored(i, sl.dim.Min())
	}
	return out, nil
}

// ValuesFor resolves a coordinate into concrete values, grouped by entity
// index and keyed by dimension name. Returns a DimensionError if the
// coordinate arity does not match the slot count.
func (s *DimensionSet) ValuesFor(coord Coordinate) (map[int]map[string]int, error) {
	if coord.Len() != len(s.slots) {
		return nil, &DimensionError{Want: len(s.slots), Got: coord.Len()}
	}
	values := map[int]map[string]int{}
	for i, sl := range s.slots {
		entity := values[sl.entity]
		if entity == nil {
			entity = map[string]int{}
			values[sl.entity] = entity
		}
		entity[sl.dim.Name()] = sl.dim.Value(coord.Slot(i))
	}
	return values, nil
}
