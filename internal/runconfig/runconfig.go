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

package runconfig

import "strings"

// ModelRunConfig pairs one model's generated serving config with the
// benchmarking parameters used to measure it. For composite models it also
// owns the ordered, independently named sub-entity configs.
type ModelRunConfig struct {
	modelName   string
	modelConfig *ModelConfig
	perfConfig  *PerfConfig
	subConfigs  []*ModelConfig
}

// NewModelRunConfig creates a run config for one model. An empty modelName
// falls back to the config's own name field.
func NewModelRunConfig(modelName string, mc *ModelConfig, pc *PerfConfig) *ModelRunConfig {
	if modelName == "" {
		modelName = mc.Name()
	}
	return &ModelRunConfig{modelName: modelName, modelConfig: mc, perfConfig: pc}
}

// ModelName returns the original (pre-variant) model name.
func (c *ModelRunConfig) ModelName() string { return c.modelName }

// VariantName returns the generated variant name of the serving config.
func (c *ModelRunConfig) VariantName() string { return c.modelConfig.Name() }

// ModelConfig returns the serving config of this run.
func (c *ModelRunConfig) ModelConfig() *ModelConfig { return c.modelConfig }

// PerfConfig returns the benchmarking parameters of this run.
func (c *ModelRunConfig) PerfConfig() *PerfConfig { return c.perfConfig }

// AddSubConfigs appends ensemble sub-entity configs in stage order.
func (c *ModelRunConfig) AddSubConfigs(configs ...*ModelConfig) {
	c.subConfigs = append(c.subConfigs, configs...)
}

// SubConfigs returns the ordered ensemble sub-entity configs, nil for plain
// models.
func (c *ModelRunConfig) SubConfigs() []*ModelConfig { return c.subConfigs }

// IsEnsemble reports whether this run config is for a composite model.
func (c *ModelRunConfig) IsEnsemble() bool { return c.modelConfig.IsEnsemble() }

// Representation returns a string uniquely identifying this run: the variant
// names involved plus the benchmarking parameters.
func (c *ModelRunConfig) Representation() string {
	parts := []string{c.VariantName()}
	for _, sub := range c.subConfigs {
		parts = append(parts, sub.Name())
	}
	parts = append(parts, c.perfConfig.Representation())
	return strings.Join(parts, " ")
}

// RunConfig is one multi-entity search step: one ModelRunConfig per entity,
// in entity order.
type RunConfig struct {
	runs []*ModelRunConfig
}

// NewRunConfig creates an empty run config.
func NewRunConfig() *RunConfig {
	return &RunConfig{}
}

// Add appends a model run config.
func (rc *RunConfig) Add(run *ModelRunConfig) {
	rc.runs = append(rc.runs, run)
}

// ModelRunConfigs returns the per-entity run configs in entity order.
func (rc *RunConfig) ModelRunConfigs() []*ModelRunConfig {
	return rc.runs
}

// ModelNames returns the original model names in entity order.
func (rc *RunConfig) ModelNames() []string {
	names := make([]string, len(rc.runs))
	for i, r := range rc.runs {
		names[i] = r.ModelName()
	}
	return names
}

// Representation returns a string uniquely identifying the whole step. Two
// steps with value-equal configs share a representation even when reached
// via different coordinates.
func (rc *RunConfig) Representation() string {
	parts := make([]string, len(rc.runs))
	for i, r := range rc.runs {
		parts[i] = r.Representation()
	}
	return strings.Join(parts, " | ")
}
