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

package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelperf/variant-search/internal/runconfig"
)

func writeModelConfig(t *testing.T, repo, model, content string) {
	t.Helper()
	dir := filepath.Join(repo, model)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
}

func TestBaselineConfig(t *testing.T) {
	repo := t.TempDir()
	writeModelConfig(t, repo, "resnet50", `
name: resnet50
max_batch_size: 8
input:
  - name: INPUT__0
    data_type: TYPE_FP32
    dims: [3, 224, 224]
`)

	p := NewFileProvider(repo)
	fields, err := p.BaselineConfig(context.Background(), "resnet50")
	require.NoError(t, err)

	assert.Equal(t, "resnet50", fields["name"])
	assert.Equal(t, 8, fields["max_batch_size"])

	// The parsed fields satisfy the model config contract as-is.
	mc, err := runconfig.FromFields(fields)
	require.NoError(t, err)
	assert.Equal(t, 8, mc.MaxBatchSize())
}

func TestBaselineConfigFillsName(t *testing.T) {
	repo := t.TempDir()
	writeModelConfig(t, repo, "bert", `
max_batch_size: 4
input:
  - name: INPUT__0
`)

	p := NewFileProvider(repo)
	fields, err := p.BaselineConfig(context.Background(), "bert")
	require.NoError(t, err)
	assert.Equal(t, "bert", fields["name"])
}

func TestBaselineConfigMissingModel(t *testing.T) {
	p := NewFileProvider(t.TempDir())
	_, err := p.BaselineConfig(context.Background(), "absent")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBaselineConfigMalformed(t *testing.T) {
	repo := t.TempDir()
	writeModelConfig(t, repo, "broken", "max_batch_size: [unclosed")

	p := NewFileProvider(repo)
	_, err := p.BaselineConfig(context.Background(), "broken")
	assert.Error(t, err)
}

func TestBaselineConfigCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewFileProvider(t.TempDir())
	_, err := p.BaselineConfig(ctx, "any")
	assert.ErrorIs(t, err, context.Canceled)
}
