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

// Package analyzer ranks the measured run configs of a finished sweep.
// Feasible candidates are ordered by their mean objective gain over the
// baseline, infeasible ones trail in order of how close they came.
package analyzer

import (
	"fmt"
	"sort"

	"github.com/modelperf/variant-search/internal/constraints"
	"github.com/modelperf/variant-search/internal/datastore"
)

// Ranked is one measured candidate with its standing in the sweep.
type Ranked struct {
	Measured *datastore.Measured
	Feasible bool
	// Gain is the mean percentage gain over the baseline across the
	// objective metrics, positive meaning improvement. For infeasible
	// candidates it holds the negated infeasibility score instead.
	Gain float64
}

// Analysis is the ranked outcome for one entity group.
type Analysis struct {
	Group      string
	Baseline   *datastore.Measured
	Candidates []Ranked
}

// Best returns the top feasible candidate, or nil when the sweep found none.
func (a Analysis) Best() *Ranked {
	if len(a.Candidates) == 0 || !a.Candidates[0].Feasible {
		return nil
	}
	return &a.Candidates[0]
}

// Analyzer ranks sweeps. TopN limits how many candidates each analysis
// keeps; zero keeps all.
type Analyzer struct {
	topN int
}

func New(topN int) *Analyzer {
	return &Analyzer{topN: topN}
}

// Analyze ranks the measured candidates of one group against its baseline.
// Candidates without a measurement are dropped. The baseline must itself
// carry a measurement, it is the reference every gain is computed from.
func (a *Analyzer) Analyze(group string, baseline *datastore.Measured, measured []*datastore.Measured, cs constraints.Set, objectives []string) (Analysis, error) {
	if baseline == nil || baseline.Measurement == nil {
		return Analysis{}, fmt.Errorf("group %q has no baseline measurement", group)
	}
	if len(objectives) == 0 {
		return Analysis{}, fmt.Errorf("group %q has no objectives", group)
	}

	candidates := make([]Ranked, 0, len(measured))
	for _, m := range measured {
		if m == nil || m.Measurement == nil {
			continue
		}
		r := Ranked{Measured: m, Feasible: cs.Satisfies(m.Measurement)}
		if r.Feasible {
			gain, err := meanGain(m, baseline, objectives)
			if err != nil {
				return Analysis{}, fmt.Errorf("group %q: %w", group, err)
			}
			r.Gain = gain
		} else {
			r.Gain = -cs.InfeasibilityScore(m.Measurement)
		}
		candidates = append(candidates, r)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Feasible != candidates[j].Feasible {
			return candidates[i].Feasible
		}
		return candidates[i].Gain > candidates[j].Gain
	})
	if a.topN > 0 && len(candidates) > a.topN {
		candidates = candidates[:a.topN]
	}

	return Analysis{Group: group, Baseline: baseline, Candidates: candidates}, nil
}

func meanGain(candidate, baseline *datastore.Measured, objectives []string) (float64, error) {
	total := 0.0
	for _, tag := range objectives {
		gain, err := candidate.Measurement.GainOver(baseline.Measurement, tag)
		if err != nil {
			return 0, err
		}
		total += gain
	}
	return total / float64(len(objectives)), nil
}
