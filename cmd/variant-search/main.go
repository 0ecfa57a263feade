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

// variant-search plans serving config variants for the models of a local
// model repository. Measurement execution is external; the plan subcommand
// emits the candidate variants the search would measure first, as YAML on
// stdout.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/modelperf/variant-search/internal/config"
	"github.com/modelperf/variant-search/internal/engines/quick"
	"github.com/modelperf/variant-search/internal/interfaces"
	"github.com/modelperf/variant-search/internal/logging"
	"github.com/modelperf/variant-search/internal/provider"
	"github.com/modelperf/variant-search/internal/runconfig"
	"github.com/modelperf/variant-search/internal/search"
	"github.com/modelperf/variant-search/internal/variant"
)

func main() {
	fs := flag.NewFlagSet("variant-search", flag.ExitOnError)
	configFile := fs.StringP("config-file", "f", "", "Path of a YAML configuration file")
	config.RegisterFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load(fs, *configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.Initialize(cfg.LogDatetime, cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), cfg); err != nil {
		log.Errorw("variant search failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	p := provider.NewFileProvider(cfg.ModelRepository)
	registry := variant.NewRegistry()

	pl := plan{}
	for _, spec := range cfg.ProfileModels {
		entity, err := buildEntity(ctx, p, spec)
		if err != nil {
			return err
		}

		entities := []*quick.Entity{entity}
		sc := search.NewConfig(quick.BuildDimensionSet(entities, false), cfg.Radius, cfg.MinInitialized)
		gen, err := quick.NewGenerator(sc, cfg.Bounds, entities, registry)
		if err != nil {
			return err
		}

		if err := pl.addGroup(gen, spec.Name, sc.Radius()); err != nil {
			return err
		}
	}

	return pl.write(os.Stdout)
}

// buildEntity resolves one profile model into a search entity, pulling in
// the stage models of an ensemble as sub-entities.
func buildEntity(ctx context.Context, p interfaces.ModelConfigProvider, spec config.ModelSpec) (*quick.Entity, error) {
	baseline, err := p.BaselineConfig(ctx, spec.Name)
	if err != nil {
		return nil, err
	}
	entity, err := quick.NewEntity(spec.Name, baseline, spec.PerfFlags)
	if err != nil {
		return nil, err
	}
	if !entity.Baseline().IsEnsemble() {
		return entity, nil
	}

	subs := make([]*quick.Entity, 0)
	for _, stage := range entity.Baseline().EnsembleStepModels() {
		subBaseline, err := p.BaselineConfig(ctx, stage)
		if err != nil {
			return nil, err
		}
		sub, err := quick.NewEntity(stage, subBaseline, nil)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	entity.AddSubEntities(subs...)
	return entity, nil
}

// plan accumulates the candidate run configs each group's search would
// measure first: the mandatory default, the starting coordinate, and its
// neighborhood within the configured radius.
type plan struct {
	Groups []planGroup `yaml:"groups"`
}

type planGroup struct {
	Model      string          `yaml:"model"`
	Candidates []planCandidate `yaml:"candidates"`
}

type planCandidate struct {
	Coordinate string       `yaml:"coordinate,omitempty"`
	Configs    []planConfig `yaml:"configs"`
}

type planConfig struct {
	Variant     string           `yaml:"variant"`
	ModelConfig map[string]any   `yaml:"model_config"`
	SubConfigs  []map[string]any `yaml:"sub_configs,omitempty"`
	PerfParams  map[string]any   `yaml:"perf_params"`
}

func (pl *plan) addGroup(gen *quick.Generator, model string, radius int) error {
	group := planGroup{Model: model}
	seen := map[string]bool{}

	appendCandidate := func(rc *runconfig.RunConfig, coordinate string) {
		if seen[rc.Representation()] {
			return
		}
		seen[rc.Representation()] = true
		group.Candidates = append(group.Candidates, newPlanCandidate(rc, coordinate))
	}

	defaultRC, err := gen.Next()
	if err != nil {
		return err
	}
	appendCandidate(defaultRC, "")

	start := gen.StartingCoordinate()
	startRC, err := gen.RunConfigAt(start)
	if err != nil {
		return err
	}
	appendCandidate(startRC, start.String())

	for neighbor := range start.Neighborhood(radius) {
		rc, err := gen.RunConfigAt(neighbor)
		if err != nil {
			return err
		}
		appendCandidate(rc, neighbor.String())
	}

	pl.Groups = append(pl.Groups, group)
	return nil
}

func newPlanCandidate(rc *runconfig.RunConfig, coordinate string) planCandidate {
	c := planCandidate{Coordinate: coordinate}
	for _, run := range rc.ModelRunConfigs() {
		pc := planConfig{
			Variant:     run.VariantName(),
			ModelConfig: run.ModelConfig().Fields(),
			PerfParams:  run.PerfConfig().Params(),
		}
		for _, sub := range run.SubConfigs() {
			pc.SubConfigs = append(pc.SubConfigs, sub.Fields())
		}
		c.Configs = append(c.Configs, pc)
	}
	return c
}

func (pl *plan) write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(pl)
}
