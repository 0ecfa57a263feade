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

// Package variant assigns stable, human-readable names to concrete model
// configurations and deduplicates payloads that are value-equal even though
// the search reached them via different coordinates.
package variant

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/go-cmp/cmp"
)

// DefaultSuffix is appended to a model name for its baseline configuration.
const DefaultSuffix = "_config_default"

// NamingCollisionError reports two distinct canonical payloads resolving to
// the same name. It is an internal invariant violation, never silently
// resolved.
type NamingCollisionError struct {
	Entity string
	Name   string
}

func (e *NamingCollisionError) Error() string {
	return fmt.Sprintf("variant name %q for model %q already maps to a different configuration", e.Name, e.Entity)
}

type namedPayload struct {
	name    string
	payload map[string]any
}

type entityNames struct {
	byKey map[string]namedPayload
	next  int
}

// Registry assigns `<model>_config_<n>` names to configuration payloads,
// reusing the existing name whenever an identical payload (ignoring the name
// field itself) was already registered for the same model. It is safe for
// concurrent use by searches of independent entity groups; check-then-insert
// is atomic, so a payload never receives two names and an index is never
// used twice. The registry only grows.
type Registry struct {
	mu       sync.Mutex
	entities map[string]*entityNames
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entities: map[string]*entityNames{}}
}

// NameFor resolves the variant name for a model's configuration payload.
// When isDefault is set the reserved `<entity>_config_default` name is
// returned regardless of payload. Otherwise an identical canonical payload
// resolves to its previously assigned name, and a new payload is assigned
// the next sequential index for the entity, starting at 0.
func (r *Registry) NameFor(entity string, payload map[string]any, isDefault bool) (string, error) {
	if isDefault {
		return entity + DefaultSuffix, nil
	}

	canonical := canonicalize(payload)
	key, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("cannot canonicalize config payload for %q: %w", entity, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names := r.entities[entity]
	if names == nil {
		names = &entityNames{byKey: map[string]namedPayload{}}
		r.entities[entity] = names
	}

	if existing, ok := names.byKey[string(key)]; ok {
		if !cmp.Equal(existing.payload, canonical) {
			return "", &NamingCollisionError{Entity: entity, Name: existing.name}
		}
		return existing.name, nil
	}

	name := fmt.Sprintf("%s_config_%d", entity, names.next)
	names.next++
	names.byKey[string(key)] = namedPayload{name: name, payload: canonical}
	return name, nil
}

// Count returns the number of non-default variants registered for a model.
func (r *Registry) Count(entity string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if names := r.entities[entity]; names != nil {
		return names.next
	}
	return 0
}

// canonicalize strips the name field from a copy of the payload so that two
// configs differing only in name compare equal.
func canonicalize(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == "name" {
			continue
		}
		out[k] = v
	}
	return out
}
