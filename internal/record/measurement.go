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

package record

import "fmt"

// RunMeasurement holds the records measured for one multi-entity run config,
// one record list per entity position, in the same order the run config
// lists its entities.
type RunMeasurement struct {
	perEntity [][]Record
}

// NewRunMeasurement creates an empty measurement.
func NewRunMeasurement() *RunMeasurement {
	return &RunMeasurement{}
}

// AddEntity appends the record list for the next entity position.
func (m *RunMeasurement) AddEntity(records []Record) {
	m.perEntity = append(m.perEntity, records)
}

// Entities returns the per-entity record lists.
func (m *RunMeasurement) Entities() [][]Record {
	return m.perEntity
}

// Get returns the record with the given tag for an entity position, or nil
// if that entity did not report the metric.
func (m *RunMeasurement) Get(entity int, tag string) Record {
	if entity < 0 || entity >= len(m.perEntity) {
		return nil
	}
	for _, r := range m.perEntity[entity] {
		if r.Tag() == tag {
			return r
		}
	}
	return nil
}

// GainOver returns the mean percentage gain of this measurement over a
// baseline for the given metric tag, averaged across entity positions. A
// positive result always means improvement, whatever the metric's polarity.
func (m *RunMeasurement) GainOver(baseline *RunMeasurement, tag string) (float64, error) {
	if len(m.perEntity) != len(baseline.perEntity) {
		return 0, fmt.Errorf("measurements cover %d and %d entities", len(m.perEntity), len(baseline.perEntity))
	}
	total := 0.0
	count := 0
	for i := range m.perEntity {
		cand := m.Get(i, tag)
		base := baseline.Get(i, tag)
		if cand == nil || base == nil {
			continue
		}
		total += cand.GainOver(base)
		count++
	}
	if count == 0 {
		return 0, fmt.Errorf("no entity reported metric %q in both measurements", tag)
	}
	return total / float64(count), nil
}

// BetterThan reports whether this measurement improves on other for the
// given objective tags, using the mean gain across objectives.
func (m *RunMeasurement) BetterThan(other *RunMeasurement, tags []string) (bool, error) {
	if len(tags) == 0 {
		return false, fmt.Errorf("no objective tags given")
	}
	total := 0.0
	for _, tag := range tags {
		gain, err := m.GainOver(other, tag)
		if err != nil {
			return false, err
		}
		total += gain
	}
	return total/float64(len(tags)) > 0, nil
}
