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

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean aggregates repeated measurements of the same metric into one record
// holding their arithmetic mean. All records must share a tag.
func Mean(records []Record) (Record, error) {
	values, tag, err := sameTagValues(records)
	if err != nil {
		return nil, err
	}
	return New(tag, stat.Mean(values, nil), records[len(records)-1].Timestamp())
}

// Quantile aggregates repeated measurements into the q-th empirical quantile
// (0 < q <= 1), e.g. 0.99 for a p99 view of repeated runs.
func Quantile(q float64, records []Record) (Record, error) {
	values, tag, err := sameTagValues(records)
	if err != nil {
		return nil, err
	}
	sort.Float64s(values)
	return New(tag, stat.Quantile(q, stat.Empirical, values, nil), records[len(records)-1].Timestamp())
}

func sameTagValues(records []Record) ([]float64, string, error) {
	if len(records) == 0 {
		return nil, "", fmt.Errorf("no records to aggregate")
	}
	tag := records[0].Tag()
	values := make([]float64, len(records))
	for i, r := range records {
		if r.Tag() != tag {
			return nil, "", fmt.Errorf("cannot aggregate %q with %q", tag, r.Tag())
		}
		values[i] = r.Value()
	}
	return values, tag, nil
}
