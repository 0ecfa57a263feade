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

// Package constraints decides whether a measured run config satisfies the
// declared per-model metric bounds, and scores how far an unsatisfying one
// misses them. Violations are ordinary results used to steer the search,
// never errors.
package constraints

import (
	"fmt"

	"github.com/modelperf/variant-search/internal/record"
)

// DefaultKey is the constraint-source key whose bounds apply to every model
// without an explicit declaration.
const DefaultKey = "default"

// Bound is an optional closed interval for one metric.
type Bound struct {
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`
}

// Constraints maps metric tags to their bounds for one model.
type Constraints map[string]Bound

// Validate rejects bounds on unknown metric tags and empty intervals.
func (c Constraints) Validate() error {
	for tag, b := range c {
		if !record.KnownTag(tag) {
			return fmt.Errorf("constraint on unknown metric tag %q", tag)
		}
		if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
			return fmt.Errorf("constraint on %q has min %v above max %v", tag, *b.Min, *b.Max)
		}
	}
	return nil
}

// Set holds the resolved constraints for every entity position of a run
// config, in entity order.
type Set struct {
	perEntity []Constraints
}

// Resolve builds the per-entity constraint set for the given model order
// from a constraint source: explicit per-model declarations win, the
// DefaultKey entry covers the rest.
func Resolve(modelNames []string, source map[string]Constraints) Set {
	def := source[DefaultKey]
	perEntity := make([]Constraints, len(modelNames))
	for i, name := range modelNames {
		if c, ok := source[name]; ok {
			perEntity[i] = c
		} else {
			perEntity[i] = def
		}
	}
	return Set{perEntity: perEntity}
}

// ForEntities builds a set directly from ordered per-entity constraints.
func ForEntities(perEntity []Constraints) Set {
	return Set{perEntity: perEntity}
}

// Satisfies reports whether every constrained metric of every entity in the
// measurement lies within its declared bounds. Metrics without a declared
// constraint never fail.
func (s Set) Satisfies(m *record.RunMeasurement) bool {
	for i, records := range m.Entities() {
		if i >= len(s.perEntity) || s.perEntity[i] == nil {
			continue
		}
		for _, r := range records {
			b, ok := s.perEntity[i][r.Tag()]
			if !ok {
				continue
			}
			if b.Min != nil && r.Value() < *b.Min {
				return false
			}
			if b.Max != nil && r.Value() > *b.Max {
				return false
			}
		}
	}
	return true
}

// InfeasibilityScore sums the relative overage of every violated bound,
// expressed as a percentage. It is zero exactly when Satisfies is true, and
// ranks otherwise-infeasible candidates: smaller means closer to feasible.
func (s Set) InfeasibilityScore(m *record.RunMeasurement) float64 {
	score := 0.0
	for i, records := range m.Entities() {
		if i >= len(s.perEntity) || s.perEntity[i] == nil {
			continue
		}
		for _, r := range records {
			b, ok := s.perEntity[i][r.Tag()]
			if !ok {
				continue
			}
			if b.Min != nil && r.Value() < *b.Min {
				score += (*b.Min - r.Value()) / *b.Min
			}
			if b.Max != nil && r.Value() > *b.Max {
				score += (r.Value() - *b.Max) / *b.Max
			}
		}
	}
	return score * 100
}
