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

// Package quick implements the heuristic run-config generator: instead of
// enumerating the full configuration space, it resolves one coordinate at a
// time into a concrete multi-model run config, leaving the choice of the
// next coordinate to its caller.
package quick

import (
	"fmt"

	"github.com/modelperf/variant-search/internal/config"
	"github.com/modelperf/variant-search/internal/logging"
	"github.com/modelperf/variant-search/internal/metrics"
	"github.com/modelperf/variant-search/internal/runconfig"
	"github.com/modelperf/variant-search/internal/search"
	"github.com/modelperf/variant-search/internal/variant"
)

// Dimension names the generator understands.
const (
	DimensionMaxBatchSize  = "max_batch_size"
	DimensionInstanceCount = "instance_count"
	DimensionConcurrency   = "concurrency"
)

// Generator emits one concrete multi-entity run config per request.
//
// It is a two-phase state machine:
//  1. Default phase: the first request returns each entity's baseline
//     config unchanged, named `<entity>_config_default`, so the caller
//     always has a safe baseline measurement.
//  2. Stepping phase: every further request resolves the cursor coordinate
//     through the dimension set, applies the global bound clamps and
//     assembles named variant configs.
//
// The generator never advances the cursor itself; the caller sets it
// between requests. A single generator's cursor is not safe for concurrent
// use; callers keep at most one request in flight per entity group.
type Generator struct {
	sc       *search.Config
	bounds   config.SearchBounds
	entities []*Entity
	flat     []*Entity
	registry *variant.Registry

	cursor         search.Coordinate
	emittedDefault bool
}

// NewGenerator creates a generator with the cursor at the starting
// coordinate. Contradictory bounds are a BoundsError: fatal, reported
// before any config is generated.
func NewGenerator(sc *search.Config, bounds config.SearchBounds, entities []*Entity, registry *variant.Registry) (*Generator, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("no entities to search")
	}
	return &Generator{
		sc:       sc,
		bounds:   bounds,
		entities: entities,
		flat:     flatten(entities),
		registry: registry,
		cursor:   sc.Dimensions().StartingCoordinate(),
	}, nil
}

// StartingCoordinate returns the coordinate with every slot at its min
// bound.
func (g *Generator) StartingCoordinate() search.Coordinate {
	return g.sc.Dimensions().StartingCoordinate()
}

// Cursor returns the coordinate the next request will resolve.
func (g *Generator) Cursor() search.Coordinate { return g.cursor }

// SetCursor moves the cursor to the coordinate the next request should
// resolve.
func (g *Generator) SetCursor(c search.Coordinate) { g.cursor = c }

// Next returns the next run config: the default config on the first call,
// then the config at the current cursor.
func (g *Generator) Next() (*runconfig.RunConfig, error) {
	if !g.emittedDefault {
		g.emittedDefault = true
		return g.defaultRunConfig()
	}
	return g.RunConfigAt(g.cursor)
}

// RunConfigAt resolves an arbitrary coordinate into a run config without
// touching the cursor or the default phase.
func (g *Generator) RunConfigAt(coord search.Coordinate) (*runconfig.RunConfig, error) {
	values, err := g.sc.Dimensions().ValuesFor(coord)
	if err != nil {
		return nil, err
	}

	rc := runconfig.NewRunConfig()
	flatIdx := 0
	for _, e := range g.entities {
		var run *runconfig.ModelRunConfig
		var err error
		if e.IsComposite() {
			run, err = g.compositeRunConfig(e, values, &flatIdx)
		} else {
			run, err = g.plainRunConfig(e, values[flatIdx])
			flatIdx++
		}
		if err != nil {
			return nil, err
		}
		rc.Add(run)
	}

	metrics.RunConfigsGenerated.Inc()
	logging.Logger().Debugw("generated run config", "coordinate", coord.String(), "representation", rc.Representation())
	return rc, nil
}

// plainRunConfig builds the run config of a non-composite entity: variant
// config plus benchmarking parameters with the clamped concurrency.
func (g *Generator) plainRunConfig(e *Entity, values map[string]int) (*runconfig.ModelRunConfig, error) {
	mc, concurrency, err := g.variantConfig(e, values)
	if err != nil {
		return nil, err
	}
	pc := runconfig.NewPerfConfig()
	pc.SetConcurrency(clamp(concurrency, g.bounds.MinConcurrency, g.bounds.MaxConcurrency))
	pc.ApplyFlags(e.perfFlags)
	return runconfig.NewModelRunConfig(e.name, mc, pc), nil
}

// compositeRunConfig builds one run config for a composite entity: one
// independently named variant config per stage, a top config referencing
// the stage variants, and a single benchmarking-parameter set whose
// concurrency is the minimum of the stages' computed concurrencies, unless
// a global concurrency override is configured, which is then used verbatim.
func (g *Generator) compositeRunConfig(e *Entity, values map[int]map[string]int, flatIdx *int) (*runconfig.ModelRunConfig, error) {
	subConfigs := make([]*runconfig.ModelConfig, 0, len(e.subEntities))
	subNames := make([]string, 0, len(e.subEntities))
	minConcurrency := 0
	for _, sub := range e.subEntities {
		mc, concurrency, err := g.variantConfig(sub, values[*flatIdx])
		*flatIdx++
		if err != nil {
			return nil, err
		}
		subConfigs = append(subConfigs, mc)
		subNames = append(subNames, mc.Name())
		if minConcurrency == 0 || concurrency < minConcurrency {
			minConcurrency = concurrency
		}
	}

	concurrency := minConcurrency
	switch {
	case g.bounds.MaxConcurrency > 0:
		concurrency = g.bounds.MaxConcurrency
	case g.bounds.MinConcurrency > 0:
		concurrency = g.bounds.MinConcurrency
	}

	top := e.baseline.DeepCopy()
	top.SetEnsembleStepVariants(subNames)
	name, err := g.registry.NameFor(e.name, top.Fields(), false)
	if err != nil {
		return nil, err
	}
	top.SetName(name)

	pc := runconfig.NewPerfConfig()
	pc.SetConcurrency(concurrency)
	pc.ApplyFlags(e.perfFlags)

	run := runconfig.NewModelRunConfig(e.name, top, pc)
	run.AddSubConfigs(subConfigs...)
	return run, nil
}

// variantConfig resolves one slot-occupying entity's dimension values into
// a named variant config, returning the concurrency computed from the
// clamped values.
func (g *Generator) variantConfig(e *Entity, values map[string]int) (*runconfig.ModelConfig, int, error) {
	batchSize := clamp(values[DimensionMaxBatchSize], g.bounds.MinModelBatchSize, g.bounds.MaxModelBatchSize)
	instances := clamp(values[DimensionInstanceCount], g.bounds.MinInstanceCount, g.bounds.MaxInstanceCount)

	concurrency, ok := values[DimensionConcurrency]
	if !ok {
		concurrency = batchSize * instances * g.bounds.Multiplier()
	}

	mc := e.baseline.DeepCopy()
	mc.SetMaxBatchSize(batchSize)
	mc.SetInstanceGroup(instances, runconfig.KindGPU)
	mc.SetField(runconfig.FieldCPUOnly, false)
	if !mc.HasSequenceBatching() {
		mc.EnableDynamicBatching()
	}

	name, err := g.registry.NameFor(e.name, mc.Fields(), false)
	if err != nil {
		return nil, 0, err
	}
	mc.SetName(name)
	return mc, concurrency, nil
}

// defaultRunConfig builds the mandatory first run config from the baseline
// configs, named with the reserved default suffix.
func (g *Generator) defaultRunConfig() (*runconfig.RunConfig, error) {
	rc := runconfig.NewRunConfig()
	for _, e := range g.entities {
		mc := e.baseline.DeepCopy()
		name, err := g.registry.NameFor(e.name, mc.Fields(), true)
		if err != nil {
			return nil, err
		}
		mc.SetName(name)

		pc := runconfig.NewPerfConfig()
		pc.ApplyFlags(e.perfFlags)

		run := runconfig.NewModelRunConfig(e.name, mc, pc)
		for _, sub := range e.subEntities {
			subConfig := sub.baseline.DeepCopy()
			subName, err := g.registry.NameFor(sub.name, subConfig.Fields(), true)
			if err != nil {
				return nil, err
			}
			subConfig.SetName(subName)
			run.AddSubConfigs(subConfig)
		}
		rc.Add(run)
	}

	metrics.RunConfigsGenerated.Inc()
	return rc, nil
}

// clamp applies optional bounds to a computed value, zero meaning unset.
// The min is applied last: a user-specified floor is a hard requirement.
func clamp(v, min, max int) int {
	if max > 0 && v > max {
		v = max
	}
	if min > 0 && v < min {
		v = min
	}
	return v
}
