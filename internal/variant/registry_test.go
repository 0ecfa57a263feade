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

package variant

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(name string, batchSize int) map[string]any {
	return map[string]any{
		"name":           name,
		"max_batch_size": batchSize,
		"input": []any{
			map[string]any{"name": "INPUT__0", "dims": []any{16}},
		},
	}
}

func TestNameForAssignsSequentialIndices(t *testing.T) {
	r := NewRegistry()

	first, err := r.NameFor("model_a", payload("", 4), false)
	require.NoError(t, err)
	assert.Equal(t, "model_a_config_0", first)

	second, err := r.NameFor("model_a", payload("", 8), false)
	require.NoError(t, err)
	assert.Equal(t, "model_a_config_1", second)

	third, err := r.NameFor("model_a", payload("", 16), false)
	require.NoError(t, err)
	assert.Equal(t, "model_a_config_2", third)

	assert.Equal(t, 3, r.Count("model_a"))
}

func TestNameForDeduplicatesEqualPayloads(t *testing.T) {
	r := NewRegistry()

	first, err := r.NameFor("model_a", payload("variant_x", 4), false)
	require.NoError(t, err)

	// Same payload apart from the name field resolves to the same variant
	// and consumes no new index.
	again, err := r.NameFor("model_a", payload("variant_y", 4), false)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, r.Count("model_a"))
}

func TestNameForDefault(t *testing.T) {
	r := NewRegistry()

	name, err := r.NameFor("model_a", payload("", 4), true)
	require.NoError(t, err)
	assert.Equal(t, "model_a_config_default", name)

	// Idempotent whatever the payload, and no index consumed.
	name, err = r.NameFor("model_a", payload("", 999), true)
	require.NoError(t, err)
	assert.Equal(t, "model_a_config_default", name)
	assert.Equal(t, 0, r.Count("model_a"))
}

func TestNamesDoNotLeakAcrossEntities(t *testing.T) {
	r := NewRegistry()

	a, err := r.NameFor("model_a", payload("", 4), false)
	require.NoError(t, err)
	b, err := r.NameFor("model_b", payload("", 4), false)
	require.NoError(t, err)

	assert.Equal(t, "model_a_config_0", a)
	assert.Equal(t, "model_b_config_0", b)
}

func TestConcurrentNameFor(t *testing.T) {
	r := NewRegistry()

	const writers = 16
	const variants = 8

	var wg sync.WaitGroup
	results := make([][]string, writers)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			names := make([]string, variants)
			for i := 0; i < variants; i++ {
				name, err := r.NameFor("model_a", payload("", 1<<i), false)
				if err != nil {
					t.Error(err)
					return
				}
				names[i] = name
			}
			results[w] = names
		}(w)
	}
	wg.Wait()

	// Every writer saw the same payload→name mapping, and each distinct
	// payload got exactly one name.
	for w := 1; w < writers; w++ {
		assert.Equal(t, results[0], results[w], "writer %d diverged", w)
	}
	seen := map[string]bool{}
	for _, name := range results[0] {
		assert.False(t, seen[name], "name %s assigned twice", name)
		seen[name] = true
	}
	assert.Equal(t, variants, r.Count("model_a"))
}

func TestManyDistinctPayloads(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 100; i++ {
		name, err := r.NameFor("m", payload("", i), false)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("m_config_%d", i), name)
	}
}
