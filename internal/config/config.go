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

// Package config loads and validates the process configuration with the
// precedence flags > environment > config file > defaults.
package config

import (
	"fmt"

	"github.com/modelperf/variant-search/internal/constraints"
)

const (
	// DefaultConcurrencyMultiplier scales batch size × instance count into
	// the concurrency of a generated run.
	DefaultConcurrencyMultiplier = 2
)

// BoundsError reports a contradictory pair of search bounds. It is fatal at
// startup: the run aborts before any measurement.
type BoundsError struct {
	Axis string
	Min  int
	Max  int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("search bound for %s has min %d above max %d", e.Axis, e.Min, e.Max)
}

// SearchBounds are the optional global overrides clamping the values the
// search computes from coordinates. Zero means unset. A min override is a
// hard floor and wins over any computed value.
type SearchBounds struct {
	MaxModelBatchSize int `mapstructure:"run_config_search_max_model_batch_size"`
	MinModelBatchSize int `mapstructure:"run_config_search_min_model_batch_size"`
	MaxInstanceCount  int `mapstructure:"run_config_search_max_instance_count"`
	MinInstanceCount  int `mapstructure:"run_config_search_min_instance_count"`
	MaxConcurrency    int `mapstructure:"run_config_search_max_concurrency"`
	MinConcurrency    int `mapstructure:"run_config_search_min_concurrency"`

	ConcurrencyMultiplier int `mapstructure:"concurrency_multiplier"`
}

// Validate rejects any min/max pair where the min exceeds the max.
func (b SearchBounds) Validate() error {
	pairs := []struct {
		axis     string
		min, max int
	}{
		{"model batch size", b.MinModelBatchSize, b.MaxModelBatchSize},
		{"instance count", b.MinInstanceCount, b.MaxInstanceCount},
		{"concurrency", b.MinConcurrency, b.MaxConcurrency},
	}
	for _, p := range pairs {
		if p.min > 0 && p.max > 0 && p.min > p.max {
			return &BoundsError{Axis: p.axis, Min: p.min, Max: p.max}
		}
	}
	return nil
}

// Multiplier returns the configured concurrency multiplier, defaulting when
// unset.
func (b SearchBounds) Multiplier() int {
	if b.ConcurrencyMultiplier > 0 {
		return b.ConcurrencyMultiplier
	}
	return DefaultConcurrencyMultiplier
}

// ModelSpec describes one model to profile.
type ModelSpec struct {
	Name string `mapstructure:"name"`
	// Objectives are the metric tags the search optimizes, in declaration
	// order.
	Objectives []string `mapstructure:"objectives"`
	// PerfFlags are pass-through benchmarking flags for this model.
	PerfFlags map[string]any `mapstructure:"perf_analyzer_flags"`
}

// Config is the resolved process configuration.
type Config struct {
	ModelRepository string `mapstructure:"model_repository"`

	Radius         int `mapstructure:"radius"`
	MinInitialized int `mapstructure:"min_initialized"`

	Bounds SearchBounds `mapstructure:",squash"`

	ProfileModels []ModelSpec `mapstructure:"profile_models"`

	// Constraints maps model names (or the "default" key) to metric bounds.
	Constraints map[string]constraints.Constraints `mapstructure:"constraints"`

	Debug       bool `mapstructure:"debug"`
	LogDatetime bool `mapstructure:"log_datetime"`
}

// Validate fails fast on contradictory bounds, unknown constraint metrics
// or an empty model list.
func (c *Config) Validate() error {
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	if len(c.ProfileModels) == 0 {
		return fmt.Errorf("no profile models configured")
	}
	for _, m := range c.ProfileModels {
		if m.Name == "" {
			return fmt.Errorf("profile model with empty name")
		}
	}
	for model, cs := range c.Constraints {
		if err := cs.Validate(); err != nil {
			return fmt.Errorf("constraints for %q: %w", model, err)
		}
	}
	return nil
}
