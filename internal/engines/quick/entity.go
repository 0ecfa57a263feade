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

package quick

import (
	"github.com/modelperf/variant-search/internal/runconfig"
	"github.com/modelperf/variant-search/internal/search"
)

// Entity is one logical model participating in a search. A composite entity
// (ensemble) owns ordered sub-entities, one per scheduling stage, each
// walking its own dimension slots.
type Entity struct {
	name        string
	baseline    *runconfig.ModelConfig
	perfFlags   map[string]any
	subEntities []*Entity
}

// NewEntity validates a baseline field map and wraps it as a search entity.
// Returns a ConfigurationError when required baseline fields are missing.
func NewEntity(name string, baseline map[string]any, perfFlags map[string]any) (*Entity, error) {
	mc, err := runconfig.FromFields(baseline)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = mc.Name()
	}
	return &Entity{name: name, baseline: mc, perfFlags: perfFlags}, nil
}

// Name returns the entity's model name.
func (e *Entity) Name() string { return e.name }

// Baseline returns the entity's baseline config.
func (e *Entity) Baseline() *runconfig.ModelConfig { return e.baseline }

// AddSubEntities appends composite stages in scheduling order.
func (e *Entity) AddSubEntities(subs ...*Entity) {
	e.subEntities = append(e.subEntities, subs...)
}

// SubEntities returns the ordered composite stages, nil for plain models.
func (e *Entity) SubEntities() []*Entity { return e.subEntities }

// IsComposite reports whether the entity fans out into sub-entities.
func (e *Entity) IsComposite() bool { return len(e.subEntities) > 0 }

// flatten returns the entities that occupy dimension-set slots: sub-entities
// for composites, the entity itself otherwise, in declaration order.
func flatten(entities []*Entity) []*Entity {
	var flat []*Entity
	for _, e := range entities {
		if e.IsComposite() {
			flat = append(flat, e.subEntities...)
		} else {
			flat = append(flat, e)
		}
	}
	return flat
}

// DefaultDimensions returns the standard per-entity search axes: batch size
// growing exponentially and instance count growing linearly. With
// coordinateConcurrency set, a third exponential concurrency axis overrides
// the batch×instances×multiplier formula.
func DefaultDimensions(coordinateConcurrency bool) []search.Dimension {
	dims := []search.Dimension{
		search.NewDimension(DimensionMaxBatchSize, search.DimensionExponential),
		search.NewDimension(DimensionInstanceCount, search.DimensionLinear),
	}
	if coordinateConcurrency {
		dims = append(dims, search.NewDimension(DimensionConcurrency, search.DimensionExponential))
	}
	return dims
}

// BuildDimensionSet assigns the default dimensions to every slot-occupying
// entity, composite stages included.
func BuildDimensionSet(entities []*Entity, coordinateConcurrency bool) *search.DimensionSet {
	dims := search.NewDimensionSet()
	for i := range flatten(entities) {
		dims.AddDimensions(i, DefaultDimensions(coordinateConcurrency))
	}
	return dims
}
