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

// Package interfaces declares the seams between the search core and its
// external collaborators: the serving platform that provides baseline model
// configurations, and the executor that measures a generated run config.
package interfaces

import (
	"context"

	"github.com/modelperf/variant-search/internal/record"
	"github.com/modelperf/variant-search/internal/runconfig"
)

// ModelConfigProvider retrieves the baseline configuration field map of a
// model from its serving platform.
type ModelConfigProvider interface {
	// BaselineConfig returns the baseline field map for modelName. It must
	// include at least the input shape description and max batch size.
	BaselineConfig(ctx context.Context, modelName string) (map[string]any, error)
}

// MeasurementExecutor runs the external benchmarking tool against a
// generated run config and parses its output into a measurement. The
// executor owns retries of failed measurements; the search core never
// retries.
type MeasurementExecutor interface {
	Execute(ctx context.Context, rc *runconfig.RunConfig) (*record.RunMeasurement, error)
}
