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

// DimensionLaw describes how a coordinate slot grows into a concrete value.
type DimensionLaw int

const (
	// DimensionLinear resolves slot s to value s+1. Slots are zero-based, so
	// the first linear value is 1 (an instance count of 0 is never useful).
	DimensionLinear DimensionLaw = iota
	// DimensionExponential resolves slot s to value 2^s.
	DimensionExponential
)

func (l DimensionLaw) String() string {
	switch l {
	case DimensionLinear:
		return "linear"
	case DimensionExponential:
		return "exponential"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// Dimension is one tunable axis of the search space: a name, a growth law and
// a minimum slot bound. The min bound is the smallest slot value the search
// will ever produce for this axis.
type Dimension struct {
	name string
	law  DimensionLaw
	min  int
}

// NewDimension creates a dimension with a zero min bound.
func NewDimension(name string, law DimensionLaw) Dimension {
	return Dimension{name: name, law: law}
}

// NewDimensionWithMin creates a dimension whose slots are floored at min.
func NewDimensionWithMin(name string, law DimensionLaw, min int) Dimension {
	if min < 0 {
		min = 0
	}
	return Dimension{name: name, law: law, min: min}
}

// Name returns the axis name (e.g. "max_batch_size").
func (d Dimension) Name() string { return d.name }

// Law returns the growth law of the axis.
func (d Dimension) Law() DimensionLaw { return d.law }

// Min returns the smallest slot value allowed for this axis.
func (d Dimension) Min() int { return d.min }

// Value resolves a coordinate slot to a concrete value, flooring the slot at
// the dimension's min bound first.
func (d Dimension) Value(slot int) int {
	if slot < d.min {
		slot = d.min
	}
	switch d.law {
	case DimensionExponential:
		return 1 << slot
	default:
		return slot + 1
	}
}
