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

import (
	"fmt"
	"sort"
	"strings"
)

// Benchmarking parameter names the search sets itself.
const (
	ParamConcurrencyRange = "concurrency-range"
	ParamBatchSize        = "batch-size"

	// DefaultPerfBatchSize is the fixed client batch size of every
	// generated run: concurrency, not client batching, is the load knob.
	DefaultPerfBatchSize = 1
	// DefaultConcurrency is the concurrency of the default (baseline) run.
	DefaultConcurrency = 1
)

// PerfConfig is the benchmarking-parameter set of one model run: the
// concurrency to drive, the fixed client batch size, and arbitrary
// pass-through flags copied from the model's profile spec.
type PerfConfig struct {
	params map[string]any
}

// NewPerfConfig creates a perf config with the mandatory defaults.
func NewPerfConfig() *PerfConfig {
	return &PerfConfig{params: map[string]any{
		ParamBatchSize:        DefaultPerfBatchSize,
		ParamConcurrencyRange: DefaultConcurrency,
	}}
}

// SetConcurrency sets the concurrency range parameter.
func (p *PerfConfig) SetConcurrency(v int) {
	p.params[ParamConcurrencyRange] = v
}

// Concurrency returns the concurrency range parameter.
func (p *PerfConfig) Concurrency() int {
	return asInt(p.params[ParamConcurrencyRange])
}

// BatchSize returns the client batch size parameter.
func (p *PerfConfig) BatchSize() int {
	return asInt(p.params[ParamBatchSize])
}

// Param returns an arbitrary parameter value, or nil when absent.
func (p *PerfConfig) Param(key string) any {
	return p.params[key]
}

// ApplyFlags copies pass-through benchmarking flags into the config,
// overwriting any same-named parameter.
func (p *PerfConfig) ApplyFlags(flags map[string]any) {
	for k, v := range flags {
		p.params[k] = v
	}
}

// Params returns a copy of all parameters.
func (p *PerfConfig) Params() map[string]any {
	out := make(map[string]any, len(p.params))
	for k, v := range p.params {
		out[k] = v
	}
	return out
}

// Representation returns the canonical command-line form of the parameters,
// sorted by flag name, usable as a dedup key.
func (p *PerfConfig) Representation() string {
	keys := make([]string, 0, len(p.params))
	for k := range p.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("--%s=%v", k, p.params[k])
	}
	return strings.Join(parts, " ")
}
