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

// Package runconfig holds the concrete, per-step output of the search: for
// every model a named serving config plus the benchmarking parameters used
// to measure it. The structures mirror the field layout of the serving
// platform's model configuration so baseline fields not touched by the
// search pass through unchanged.
package runconfig

import "fmt"

// Field names of the serving config the search understands. Everything else
// in a baseline config is treated as opaque pass-through.
const (
	FieldName               = "name"
	FieldInput              = "input"
	FieldMaxBatchSize       = "max_batch_size"
	FieldInstanceGroup      = "instance_group"
	FieldDynamicBatching    = "dynamic_batching"
	FieldSequenceBatching   = "sequence_batching"
	FieldPlatform           = "platform"
	FieldEnsembleScheduling = "ensemble_scheduling"
	FieldCPUOnly            = "cpu_only"

	// PlatformEnsemble marks a composite model whose config fans out into
	// one sub-config per scheduling step.
	PlatformEnsemble = "ensemble"

	// KindGPU is the default instance kind for generated instance groups.
	KindGPU = "KIND_GPU"
)

// ConfigurationError reports a baseline config missing a field the search
// requires. The affected model's search aborts; other models continue.
type ConfigurationError struct {
	Model string
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("model %q baseline config is missing required field %q", e.Model, e.Field)
}

// ModelConfig wraps one model's serving configuration as a field map. It
// owns its fields: mutation helpers operate on the wrapped map, and DeepCopy
// produces an independent clone.
type ModelConfig struct {
	fields map[string]any
}

// FromFields validates and wraps a baseline field map. The map must carry a
// name, an input shape description and a max batch size; arbitrary other
// fields are preserved verbatim.
func FromFields(fields map[string]any) (*ModelConfig, error) {
	name, _ := fields[FieldName].(string)
	if name == "" {
		return nil, &ConfigurationError{Model: "?", Field: FieldName}
	}
	for _, required := range []string{FieldInput, FieldMaxBatchSize} {
		if _, ok := fields[required]; !ok {
			return nil, &ConfigurationError{Model: name, Field: required}
		}
	}
	return &ModelConfig{fields: deepCopyMap(fields)}, nil
}

// Name returns the config's name field.
func (c *ModelConfig) Name() string {
	name, _ := c.fields[FieldName].(string)
	return name
}

// SetName overwrites the config's name field.
func (c *ModelConfig) SetName(name string) {
	c.fields[FieldName] = name
}

// Field returns an arbitrary field value, or nil when absent.
func (c *ModelConfig) Field(key string) any {
	return c.fields[key]
}

// SetField sets an arbitrary field value.
func (c *ModelConfig) SetField(key string, v any) {
	c.fields[key] = v
}

// MaxBatchSize returns the max_batch_size field.
func (c *ModelConfig) MaxBatchSize() int {
	return asInt(c.fields[FieldMaxBatchSize])
}

// SetMaxBatchSize overwrites the max_batch_size field.
func (c *ModelConfig) SetMaxBatchSize(v int) {
	c.fields[FieldMaxBatchSize] = v
}

// SetInstanceGroup sets a single instance group with the given count and
// kind.
func (c *ModelConfig) SetInstanceGroup(count int, kind string) {
	c.fields[FieldInstanceGroup] = []any{
		map[string]any{"count": count, "kind": kind},
	}
}

// InstanceCount returns the count of the first instance group, or 0 when no
// group is set.
func (c *ModelConfig) InstanceCount() int {
	groups, _ := c.fields[FieldInstanceGroup].([]any)
	if len(groups) == 0 {
		return 0
	}
	group, _ := groups[0].(map[string]any)
	return asInt(group["count"])
}

// HasSequenceBatching reports whether the baseline declares sequence
// batching support.
func (c *ModelConfig) HasSequenceBatching() bool {
	_, ok := c.fields[FieldSequenceBatching]
	return ok
}

// EnableDynamicBatching turns dynamic batching on with default (empty)
// parameters.
func (c *ModelConfig) EnableDynamicBatching() {
	c.fields[FieldDynamicBatching] = map[string]any{}
}

// IsEnsemble reports whether this is a composite model.
func (c *ModelConfig) IsEnsemble() bool {
	platform, _ := c.fields[FieldPlatform].(string)
	return platform == PlatformEnsemble
}

// EnsembleStepModels returns the ordered sub-model names of a composite
// config, or nil for a plain model.
func (c *ModelConfig) EnsembleStepModels() []string {
	scheduling, _ := c.fields[FieldEnsembleScheduling].(map[string]any)
	steps, _ := scheduling["step"].([]any)
	var names []string
	for _, s := range steps {
		step, _ := s.(map[string]any)
		if name, _ := step["model_name"].(string); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// SetEnsembleStepVariants rewrites the scheduling steps to reference the
// given variant names, in step order.
func (c *ModelConfig) SetEnsembleStepVariants(variants []string) {
	scheduling, _ := c.fields[FieldEnsembleScheduling].(map[string]any)
	steps, _ := scheduling["step"].([]any)
	for i, s := range steps {
		if i >= len(variants) {
			break
		}
		if step, ok := s.(map[string]any); ok {
			step["model_name"] = variants[i]
		}
	}
}

// Fields returns a deep copy of the wrapped field map, suitable as a
// registry payload or for serialization.
func (c *ModelConfig) Fields() map[string]any {
	return deepCopyMap(c.fields)
}

// DeepCopy clones the config.
func (c *ModelConfig) DeepCopy() *ModelConfig {
	return &ModelConfig{fields: deepCopyMap(c.fields)}
}

func deepCopyMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
