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

// Polarity states whether higher or lower values of a metric are better.
type Polarity int

const (
	HigherIsBetter Polarity = iota
	LowerIsBetter
)

// Record is one measured value of a named metric. Every metric kind supplies
// its own polarity; comparison, combination and percentage gain all respect
// it, so callers can rank candidates without knowing which metric they hold.
type Record interface {
	// Tag is the stable identifier of the metric kind.
	Tag() string
	// Header is the human-readable column name for display.
	Header() string
	// Polarity states the ordering direction of the metric.
	Polarity() Polarity
	// Value returns the measured value.
	Value() float64
	// Timestamp is the elapsed time from the start of the run, if known.
	Timestamp() float64
	// Better reports whether this record beats other under the metric's
	// polarity. Records of different tags are never comparable.
	Better(other Record) bool
	// Add combines two records of the same tag into a new one.
	Add(other Record) Record
	// Sub produces the polarity-aware difference of two records: the result
	// is positive when the receiver is the better of the two.
	Sub(other Record) Record
	// GainOver returns the percentage gain of this record over a baseline,
	// positive exactly when this record is an improvement.
	GainOver(baseline Record) float64
}

// New creates a record of the given tag. Unknown tags are an error so that
// constraint and objective declarations are validated up front.
func New(tag string, value, timestamp float64) (Record, error) {
	ctor, ok := registry[tag]
	if !ok {
		return nil, fmt.Errorf("unknown metric tag %q", tag)
	}
	return ctor(value, timestamp), nil
}

// KnownTag reports whether tag names a registered metric kind.
func KnownTag(tag string) bool {
	_, ok := registry[tag]
	return ok
}

var registry = map[string]func(value, timestamp float64) Record{
	TagPerfThroughput: func(v, ts float64) Record { return NewPerfThroughput(v, ts) },
	TagPerfLatencyAvg: func(v, ts float64) Record { return NewPerfLatencyAvg(v, ts) },
	TagPerfLatencyP99: func(v, ts float64) Record { return NewPerfLatencyP99(v, ts) },
	TagGPUUtilization: func(v, ts float64) Record { return NewGPUUtilization(v, ts) },
	TagGPUUsedMemory:  func(v, ts float64) Record { return NewGPUUsedMemory(v, ts) },
}

// metric carries the per-kind behavior shared by all record values.
type metric struct {
	tag      string
	header   string
	polarity Polarity
}

// value is the common implementation behind every record kind.
type value struct {
	metric
	val float64
	ts  float64
}

func (r value) Tag() string        { return r.tag }
func (r value) Header() string     { return r.header }
func (r value) Polarity() Polarity { return r.polarity }
func (r value) Value() float64     { return r.val }
func (r value) Timestamp() float64 { return r.ts }

func (r value) Better(other Record) bool {
	if r.polarity == LowerIsBetter {
		return r.val < other.Value()
	}
	return r.val > other.Value()
}

func (r value) Add(other Record) Record {
	return value{metric: r.metric, val: r.val + other.Value()}
}

func (r value) Sub(other Record) Record {
	if r.polarity == LowerIsBetter {
		return value{metric: r.metric, val: other.Value() - r.val}
	}
	return value{metric: r.metric, val: r.val - other.Value()}
}

func (r value) GainOver(baseline Record) float64 {
	if r.polarity == LowerIsBetter {
		return (baseline.Value() - r.val) / r.val * 100
	}
	return (r.val - baseline.Value()) / baseline.Value() * 100
}

func (r value) String() string {
	return fmt.Sprintf("%s=%v", r.tag, r.val)
}
