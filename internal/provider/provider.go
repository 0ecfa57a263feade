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

// Package provider loads baseline model configs from a model repository on
// disk, one directory per model with a config.yaml inside.
package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/modelperf/variant-search/internal/interfaces"
)

const configFileName = "config.yaml"

// FileProvider resolves baseline configs from a local model repository.
type FileProvider struct {
	repository string
}

var _ interfaces.ModelConfigProvider = (*FileProvider)(nil)

func NewFileProvider(repository string) *FileProvider {
	return &FileProvider{repository: repository}
}

// BaselineConfig reads and parses the model's config file. The name field
// is filled in from the directory name when the file omits it.
func (p *FileProvider) BaselineConfig(ctx context.Context, modelName string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(p.repository, modelName, configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading baseline config for model %q: %w", modelName, err)
	}

	fields := map[string]any{}
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parsing baseline config for model %q: %w", modelName, err)
	}
	if _, ok := fields["name"]; !ok {
		fields["name"] = modelName
	}
	return fields, nil
}
