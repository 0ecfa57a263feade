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

// Package runner drives the stepping phase of a search: it walks the
// coordinate space one neighborhood at a time, dispatches each candidate to
// a measurement executor, and keeps the best feasible measurement per
// entity group. The engine itself never decides where to go next; that
// policy lives here.
package runner

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/modelperf/variant-search/internal/constraints"
	"github.com/modelperf/variant-search/internal/datastore"
	"github.com/modelperf/variant-search/internal/engines/quick"
	"github.com/modelperf/variant-search/internal/interfaces"
	"github.com/modelperf/variant-search/internal/logging"
	"github.com/modelperf/variant-search/internal/metrics"
	"github.com/modelperf/variant-search/internal/runconfig"
	"github.com/modelperf/variant-search/internal/search"
)

// Group is one independently searched entity group: its generator, the
// constraints its measurements are judged against, and the metric tags that
// order candidates. Groups share a variant name registry but nothing else.
type Group struct {
	Name        string
	Generator   *quick.Generator
	Constraints constraints.Set
	Objectives  []string
}

// Result reports the outcome of one group's search.
type Result struct {
	Group    string
	Best     *datastore.Measured
	Baseline *datastore.Measured
	Visited  int
}

// Runner walks searches for one or more entity groups concurrently, one
// goroutine per group. The shared datastore dedupes value-equal candidates
// reached from different coordinates.
type Runner struct {
	executor       interfaces.MeasurementExecutor
	store          datastore.Datastore
	radius         int
	minInitialized int
}

func New(executor interfaces.MeasurementExecutor, store datastore.Datastore, sc *search.Config) *Runner {
	return &Runner{
		executor:       executor,
		store:          store,
		radius:         sc.Radius(),
		minInitialized: sc.MinInitialized(),
	}
}

// Search runs every group to termination and returns one result per group,
// in input order. A group whose search fails poisons the whole call; a
// candidate that merely fails to measure does not.
func (r *Runner) Search(ctx context.Context, groups []Group) ([]Result, error) {
	results := make([]Result, len(groups))
	errs := make([]error, len(groups))

	var wg sync.WaitGroup
	for i, g := range groups {
		wg.Add(1)
		go func(i int, g Group) {
			defer wg.Done()
			results[i], errs[i] = r.searchGroup(ctx, g)
		}(i, g)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("search for group %q: %w", groups[i].Name, err)
		}
	}
	return results, nil
}

// searchGroup measures the mandatory default config, then hill-climbs: from
// the current home coordinate it measures unvisited neighbors within the
// radius, moving home to the best feasible one found. Among infeasible
// candidates the lowest infeasibility score steers the walk until a feasible
// region is reached. The walk terminates when a neighborhood yields no move,
// and never before min-initialized distinct candidates have been measured.
func (r *Runner) searchGroup(ctx context.Context, g Group) (Result, error) {
	res := Result{Group: g.Name}
	log := logging.Logger()

	defaultRC, err := g.Generator.Next()
	if err != nil {
		return res, err
	}
	baseline, err := r.measure(ctx, defaultRC)
	if err != nil {
		return res, err
	}
	res.Baseline = baseline
	res.Visited++

	var best *datastore.Measured
	if baseline.Measurement != nil && g.Constraints.Satisfies(baseline.Measurement) {
		best = baseline
	}

	home := g.Generator.StartingCoordinate()
	homeScore := math.Inf(1)
	homeMeasured, visited, err := r.visit(ctx, g, home)
	if err != nil {
		return res, err
	}
	res.Visited += visited
	initialized := visited
	if homeMeasured != nil && homeMeasured.Measurement != nil {
		if g.Constraints.Satisfies(homeMeasured.Measurement) {
			better, err := betterThan(homeMeasured, best, g.Objectives)
			if err != nil {
				return res, err
			}
			if better {
				best = homeMeasured
			}
		} else {
			homeScore = g.Constraints.InfeasibilityScore(homeMeasured.Measurement)
		}
	}

	for {
		move, moveScore, moved, visitedNow, err := r.bestNeighbor(ctx, g, home, homeScore, &best, initialized)
		if err != nil {
			return res, err
		}
		res.Visited += visitedNow
		initialized += visitedNow
		if !moved {
			break
		}
		log.Debugw("search step", "group", g.Name, "from", home.String(), "to", move.String())
		home, homeScore = move, moveScore
	}

	res.Best = best
	if best == nil {
		log.Warnw("no feasible candidate found", "group", g.Name, "visited", res.Visited)
	}
	return res, nil
}

// bestNeighbor measures the unvisited neighbors of home and picks the next
// home coordinate. With a feasible best on hand the walk moves to any
// strictly better feasible neighbor, allowed to cut the neighborhood short
// once min-initialized candidates have been measured overall. While no
// feasible candidate exists, the full neighborhood is evaluated and the walk
// steers to the neighbor with the lowest infeasibility score, required to be
// strictly lower than home's own score so plateaus end the walk instead of
// trapping it.
func (r *Runner) bestNeighbor(ctx context.Context, g Group, home search.Coordinate, homeScore float64, best **datastore.Measured, initialized int) (search.Coordinate, float64, bool, int, error) {
	var (
		move     search.Coordinate
		moved    bool
		visited  int
		fallback = homeScore
	)

	for neighbor := range home.Neighborhood(r.radius) {
		if err := ctx.Err(); err != nil {
			return move, fallback, false, visited, err
		}

		rc, err := g.Generator.RunConfigAt(neighbor)
		if err != nil {
			return move, fallback, false, visited, err
		}
		if r.store.Seen(rc.Representation()) {
			metrics.MeasurementsSkipped.Inc()
			continue
		}

		measured, err := r.measure(ctx, rc)
		if err != nil {
			return move, fallback, false, visited, err
		}
		visited++
		if measured.Measurement == nil {
			continue
		}

		if g.Constraints.Satisfies(measured.Measurement) {
			better, err := betterThan(measured, *best, g.Objectives)
			if err != nil {
				return move, fallback, false, visited, err
			}
			if better {
				*best = measured
				move, moved = neighbor, true
				fallback = 0
			}
		} else if *best == nil {
			score := g.Constraints.InfeasibilityScore(measured.Measurement)
			if score < fallback {
				fallback = score
				move, moved = neighbor, true
			}
		}

		if moved && *best != nil && initialized+visited >= r.minInitialized {
			break
		}
	}
	return move, fallback, moved, visited, nil
}

// visit measures the home coordinate itself, so the walk never skips the
// point it stands on. Returns nil when the coordinate resolved to an
// already-measured run config.
func (r *Runner) visit(ctx context.Context, g Group, coord search.Coordinate) (*datastore.Measured, int, error) {
	rc, err := g.Generator.RunConfigAt(coord)
	if err != nil {
		return nil, 0, err
	}
	if r.store.Seen(rc.Representation()) {
		metrics.MeasurementsSkipped.Inc()
		return nil, 0, nil
	}

	measured, err := r.measure(ctx, rc)
	if err != nil {
		return nil, 0, err
	}
	return measured, 1, nil
}

// measure dispatches one run config to the executor and records the outcome
// in the datastore. Executor failures are per-candidate: the config is
// stored with a nil measurement so the walk does not revisit it.
func (r *Runner) measure(ctx context.Context, rc *runconfig.RunConfig) (*datastore.Measured, error) {
	m, err := r.executor.Execute(ctx, rc)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logging.Logger().Warnw("measurement failed", "representation", rc.Representation(), "error", err)
		r.store.Put(rc, nil)
		return &datastore.Measured{RunConfig: rc}, nil
	}

	metrics.MeasurementsEvaluated.Inc()
	r.store.Put(rc, m)
	return &datastore.Measured{RunConfig: rc, Measurement: m}, nil
}

func betterThan(candidate, incumbent *datastore.Measured, objectives []string) (bool, error) {
	if incumbent == nil || incumbent.Measurement == nil {
		return true, nil
	}
	return candidate.Measurement.BetterThan(incumbent.Measurement, objectives)
}
