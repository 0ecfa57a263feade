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

package search

const (
	// DefaultRadius is the Chebyshev radius used for neighbor enumeration
	// when none is configured.
	DefaultRadius = 3
	// DefaultMinInitialized is the minimum number of distinct coordinates
	// that must be measured before a search may terminate.
	DefaultMinInitialized = 3
)

// Config groups the dimension set with the step-policy knobs shared by the
// generator and its caller.
type Config struct {
	dims           *DimensionSet
	radius         int
	minInitialized int
}

// NewConfig creates a search config. Non-positive radius or minInitialized
// fall back to the package defaults.
func NewConfig(dims *DimensionSet, radius, minInitialized int) *Config {
	if radius <= 0 {
		radius = DefaultRadius
	}
	if minInitialized <= 0 {
		minInitialized = DefaultMinInitialized
	}
	return &Config{dims: dims, radius: radius, minInitialized: minInitialized}
}

// Dimensions returns the dimension set.
func (c *Config) Dimensions() *DimensionSet { return c.dims }

// Radius returns the neighbor enumeration radius.
func (c *Config) Radius() int { return c.radius }

// MinInitialized returns the minimum number of measured coordinates required
// before termination.
func (c *Config) MinInitialized() int { return c.minInitialized }
