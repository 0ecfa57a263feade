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

package datastore

import (
	"errors"
	"sync"

	"github.com/modelperf/variant-search/internal/record"
	"github.com/modelperf/variant-search/internal/runconfig"
)

var errNotMeasured = errors.New("run config not found in datastore")

// Measured pairs a run config with the measurement it produced. A nil
// Measurement marks a config that was generated but failed to measure.
type Measured struct {
	RunConfig   *runconfig.RunConfig
	Measurement *record.RunMeasurement
}

// The datastore is a local cache of every run config evaluated during a
// search, keyed by the config's canonical representation. It deduplicates
// repeat visits: value-equal configs reached from different coordinates
// resolve to the same entry.
type Datastore interface {
	Put(rc *runconfig.RunConfig, m *record.RunMeasurement)
	Get(representation string) (*Measured, error)
	Seen(representation string) bool
	List() []*Measured
	Count() int

	// Clears the store state, happens when a new search starts.
	Clear()
}

func NewDatastore() Datastore {
	return &datastore{entries: &sync.Map{}}
}

type datastore struct {
	entries *sync.Map
}

func (ds *datastore) Put(rc *runconfig.RunConfig, m *record.RunMeasurement) {
	ds.entries.Store(rc.Representation(), &Measured{RunConfig: rc, Measurement: m})
}

func (ds *datastore) Get(representation string) (*Measured, error) {
	v, exist := ds.entries.Load(representation)
	if !exist {
		return nil, errNotMeasured
	}
	return v.(*Measured), nil
}

func (ds *datastore) Seen(representation string) bool {
	_, exist := ds.entries.Load(representation)
	return exist
}

func (ds *datastore) List() []*Measured {
	res := []*Measured{}
	ds.entries.Range(func(k, v any) bool {
		res = append(res, v.(*Measured))
		return true
	})
	return res
}

func (ds *datastore) Count() int {
	n := 0
	ds.entries.Range(func(k, v any) bool {
		n++
		return true
	})
	return n
}

func (ds *datastore) Clear() {
	ds.entries.Clear()
}
