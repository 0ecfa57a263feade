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

// Metric tags understood by the search. Constraint and objective
// declarations reference these names.
const (
	TagPerfThroughput = "perf_throughput"
	TagPerfLatencyAvg = "perf_latency_avg"
	TagPerfLatencyP99 = "perf_latency_p99"
	TagGPUUtilization = "gpu_utilization"
	TagGPUUsedMemory  = "gpu_used_memory"
)

// NewPerfThroughput creates a throughput record (inferences/second, higher
// is better).
func NewPerfThroughput(v, ts float64) Record {
	return value{metric: metric{TagPerfThroughput, "Throughput (infer/sec)", HigherIsBetter}, val: v, ts: ts}
}

// NewPerfLatencyAvg creates an average-latency record. Latency is inverted:
// lower values are better, and comparison, subtraction and percentage gain
// all flip accordingly.
func NewPerfLatencyAvg(v, ts float64) Record {
	return value{metric: metric{TagPerfLatencyAvg, "Avg Latency (ms)", LowerIsBetter}, val: v, ts: ts}
}

// NewPerfLatencyP99 creates a p99-latency record (lower is better).
func NewPerfLatencyP99(v, ts float64) Record {
	return value{metric: metric{TagPerfLatencyP99, "p99 Latency (ms)", LowerIsBetter}, val: v, ts: ts}
}

// NewGPUUtilization creates a GPU utilization record (percent, higher is
// better).
func NewGPUUtilization(v, ts float64) Record {
	return value{metric: metric{TagGPUUtilization, "GPU Utilization (%)", HigherIsBetter}, val: v, ts: ts}
}

// NewGPUUsedMemory creates a GPU used-memory record (MB, lower is better).
func NewGPUUsedMemory(v, ts float64) Record {
	return value{metric: metric{TagGPUUsedMemory, "GPU Memory Usage (MB)", LowerIsBetter}, val: v, ts: ts}
}
