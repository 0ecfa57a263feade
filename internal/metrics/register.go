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

// Package metrics exposes Prometheus counters for the search pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunConfigsGenerated counts run configs emitted by the generator,
	// default phase included.
	RunConfigsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variant_search_run_configs_generated_total",
		Help: "Run configs emitted by the quick generator",
	})

	// MeasurementsEvaluated counts measurements scored against constraints.
	MeasurementsEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variant_search_measurements_evaluated_total",
		Help: "Measurements evaluated against declared constraints",
	})

	// MeasurementsSkipped counts run configs skipped because a value-equal
	// config was already measured.
	MeasurementsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variant_search_measurements_skipped_total",
		Help: "Run configs skipped as duplicates of an earlier measurement",
	})
)
