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

package quick

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/modelperf/variant-search/internal/config"
	"github.com/modelperf/variant-search/internal/runconfig"
	"github.com/modelperf/variant-search/internal/search"
	"github.com/modelperf/variant-search/internal/variant"
)

func plainBaseline() map[string]any {
	return map[string]any{
		"name": "fake_model_name",
		"input": []any{
			map[string]any{"name": "INPUT__0", "data_type": "TYPE_FP32", "dims": []any{16}},
		},
		"max_batch_size": 4,
	}
}

func sequenceBaseline() map[string]any {
	return map[string]any{
		"name": "fake_model_A",
		"input": []any{
			map[string]any{"name": "INPUT__0", "data_type": "TYPE_FP32", "dims": []any{16}},
		},
		"max_batch_size":    4,
		"sequence_batching": map[string]any{},
	}
}

func secondBaseline() map[string]any {
	return map[string]any{
		"name": "fake_model_B",
		"input": []any{
			map[string]any{"name": "INPUT__2", "data_type": "TYPE_FP16", "dims": []any{32}},
		},
		"max_batch_size": 8,
	}
}

func ensembleBaseline() map[string]any {
	return map[string]any{
		"name":     "my-model",
		"platform": "ensemble",
		"ensemble_scheduling": map[string]any{
			"step": []any{
				map[string]any{"model_name": "fake_model_A"},
				map[string]any{"model_name": "fake_model_B"},
			},
		},
		"input": []any{
			map[string]any{"name": "INPUT__0", "data_type": "TYPE_FP32", "dims": []any{16}},
		},
		"max_batch_size": 4,
	}
}

func mustEntity(baseline, perfFlags map[string]any) *Entity {
	e, err := NewEntity("", baseline, perfFlags)
	Expect(err).NotTo(HaveOccurred())
	return e
}

func newGenerator(bounds config.SearchBounds, entities ...*Entity) *Generator {
	dims := BuildDimensionSet(entities, false)
	sc := search.NewConfig(dims, 5, 2)
	g, err := NewGenerator(sc, bounds, entities, variant.NewRegistry())
	Expect(err).NotTo(HaveOccurred())
	return g
}

var _ = Describe("Generator", func() {
	Describe("default phase", func() {
		It("emits the baseline config with the reserved default name", func() {
			g := newGenerator(config.SearchBounds{}, mustEntity(plainBaseline(), map[string]any{"percentile": 96}))

			rc, err := g.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(rc.ModelRunConfigs()).To(HaveLen(1))

			run := rc.ModelRunConfigs()[0]
			Expect(run.VariantName()).To(Equal("fake_model_name_config_default"))
			Expect(run.ModelConfig().MaxBatchSize()).To(Equal(4))
			Expect(run.PerfConfig().Concurrency()).To(Equal(1))
			Expect(run.PerfConfig().BatchSize()).To(Equal(1))
			Expect(run.PerfConfig().Representation()).To(ContainSubstring("--percentile=96"))
		})

		It("names every ensemble stage with the default suffix", func() {
			ensemble := mustEntity(ensembleBaseline(), nil)
			ensemble.AddSubEntities(mustEntity(sequenceBaseline(), nil), mustEntity(secondBaseline(), nil))
			g := newGenerator(config.SearchBounds{}, ensemble)

			rc, err := g.Next()
			Expect(err).NotTo(HaveOccurred())

			run := rc.ModelRunConfigs()[0]
			Expect(run.VariantName()).To(Equal("my-model_config_default"))
			Expect(run.SubConfigs()).To(HaveLen(2))
			Expect(run.SubConfigs()[0].Name()).To(Equal("fake_model_A_config_default"))
			Expect(run.SubConfigs()[1].Name()).To(Equal("fake_model_B_config_default"))
		})
	})

	Describe("stepping phase", func() {
		It("resolves the cursor into a fully valued variant", func() {
			g := newGenerator(config.SearchBounds{}, mustEntity(plainBaseline(), nil))
			_, err := g.Next() // default phase
			Expect(err).NotTo(HaveOccurred())

			g.SetCursor(search.NewCoordinate([]int{5, 7}))
			rc, err := g.Next()
			Expect(err).NotTo(HaveOccurred())

			run := rc.ModelRunConfigs()[0]
			Expect(run.ModelConfig().Fields()).To(Equal(map[string]any{
				"name": "fake_model_name_config_0",
				"input": []any{
					map[string]any{"name": "INPUT__0", "data_type": "TYPE_FP32", "dims": []any{16}},
				},
				"max_batch_size":   32,
				"cpu_only":         false,
				"dynamic_batching": map[string]any{},
				"instance_group": []any{
					map[string]any{"count": 8, "kind": "KIND_GPU"},
				},
			}))
			Expect(run.PerfConfig().Concurrency()).To(Equal(512))
			Expect(run.PerfConfig().BatchSize()).To(Equal(1))
		})

		It("builds one run config per model for multi-model searches", func() {
			first := mustEntity(sequenceBaseline(), map[string]any{"model-version": 2})
			second := mustEntity(secondBaseline(), map[string]any{"model-version": 3})
			g := newGenerator(config.SearchBounds{}, first, second)
			_, err := g.Next()
			Expect(err).NotTo(HaveOccurred())

			g.SetCursor(search.NewCoordinate([]int{1, 2, 4, 5}))
			rc, err := g.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(rc.ModelRunConfigs()).To(HaveLen(2))

			mc1 := rc.ModelRunConfigs()[0].ModelConfig()
			pc1 := rc.ModelRunConfigs()[0].PerfConfig()
			mc2 := rc.ModelRunConfigs()[1].ModelConfig()
			pc2 := rc.ModelRunConfigs()[1].PerfConfig()

			// Sequence batching is preserved and dynamic batching stays off.
			Expect(mc1.HasSequenceBatching()).To(BeTrue())
			Expect(mc1.Field(runconfig.FieldDynamicBatching)).To(BeNil())
			Expect(mc1.MaxBatchSize()).To(Equal(2))
			Expect(mc1.InstanceCount()).To(Equal(3))
			Expect(mc1.Name()).To(Equal("fake_model_A_config_0"))
			Expect(pc1.Concurrency()).To(Equal(12))
			Expect(pc1.Param("model-version")).To(Equal(2))

			Expect(mc2.Field(runconfig.FieldDynamicBatching)).To(Equal(map[string]any{}))
			Expect(mc2.MaxBatchSize()).To(Equal(16))
			Expect(mc2.InstanceCount()).To(Equal(6))
			Expect(mc2.Name()).To(Equal("fake_model_B_config_0"))
			Expect(pc2.Concurrency()).To(Equal(192))
			Expect(pc2.Param("model-version")).To(Equal(3))
		})

		It("reuses variant names for value-equal configs from different coordinates", func() {
			g := newGenerator(config.SearchBounds{MaxModelBatchSize: 16, MaxInstanceCount: 4}, mustEntity(plainBaseline(), nil))
			_, err := g.Next()
			Expect(err).NotTo(HaveOccurred())

			// Both coordinates clamp to batch 16 / instances 4.
			rc1, err := g.RunConfigAt(search.NewCoordinate([]int{5, 7}))
			Expect(err).NotTo(HaveOccurred())
			rc2, err := g.RunConfigAt(search.NewCoordinate([]int{6, 9}))
			Expect(err).NotTo(HaveOccurred())

			Expect(rc1.ModelRunConfigs()[0].VariantName()).To(Equal("fake_model_name_config_0"))
			Expect(rc2.ModelRunConfigs()[0].VariantName()).To(Equal("fake_model_name_config_0"))
			Expect(rc1.Representation()).To(Equal(rc2.Representation()))
		})

		It("rejects a short coordinate with a DimensionError", func() {
			g := newGenerator(config.SearchBounds{}, mustEntity(plainBaseline(), nil))
			_, err := g.Next()
			Expect(err).NotTo(HaveOccurred())

			_, err = g.RunConfigAt(search.NewCoordinate([]int{5}))
			var dimErr *search.DimensionError
			Expect(errors.As(err, &dimErr)).To(BeTrue())
			Expect(dimErr.Want).To(Equal(2))
			Expect(dimErr.Got).To(Equal(1))
		})
	})

	Describe("global bound clamping", func() {
		coordinate := search.NewCoordinate([]int{5, 7})

		type clampCase struct {
			bounds          config.SearchBounds
			wantBatchSize   int
			wantInstances   int
			wantConcurrency int
		}

		DescribeTable("recomputes concurrency from the clamped values",
			func(c clampCase) {
				g := newGenerator(c.bounds, mustEntity(plainBaseline(), nil))
				_, err := g.Next()
				Expect(err).NotTo(HaveOccurred())

				rc, err := g.RunConfigAt(coordinate)
				Expect(err).NotTo(HaveOccurred())

				run := rc.ModelRunConfigs()[0]
				Expect(run.ModelConfig().MaxBatchSize()).To(Equal(c.wantBatchSize))
				Expect(run.ModelConfig().InstanceCount()).To(Equal(c.wantInstances))
				Expect(run.PerfConfig().Concurrency()).To(Equal(c.wantConcurrency))
			},
			Entry("no bounds", clampCase{
				wantBatchSize: 32, wantInstances: 8, wantConcurrency: 512,
			}),
			Entry("max batch size caps downward", clampCase{
				bounds:        config.SearchBounds{MaxModelBatchSize: 16},
				wantBatchSize: 16, wantInstances: 8, wantConcurrency: 256,
			}),
			Entry("min batch size floors upward", clampCase{
				bounds:        config.SearchBounds{MinModelBatchSize: 64},
				wantBatchSize: 64, wantInstances: 8, wantConcurrency: 1024,
			}),
			Entry("max instance count caps downward", clampCase{
				bounds:        config.SearchBounds{MaxInstanceCount: 4},
				wantBatchSize: 32, wantInstances: 4, wantConcurrency: 256,
			}),
			Entry("min instance count floors upward", clampCase{
				bounds:        config.SearchBounds{MinInstanceCount: 16},
				wantBatchSize: 32, wantInstances: 16, wantConcurrency: 1024,
			}),
			Entry("concurrency itself is clamped last", clampCase{
				bounds:        config.SearchBounds{MaxConcurrency: 100},
				wantBatchSize: 32, wantInstances: 8, wantConcurrency: 100,
			}),
		)

		It("rejects contradictory bounds at construction", func() {
			entities := []*Entity{mustEntity(plainBaseline(), nil)}
			dims := BuildDimensionSet(entities, false)
			sc := search.NewConfig(dims, 5, 2)

			_, err := NewGenerator(sc, config.SearchBounds{MinConcurrency: 64, MaxConcurrency: 8}, entities, variant.NewRegistry())
			var boundsErr *config.BoundsError
			Expect(errors.As(err, &boundsErr)).To(BeTrue())
			Expect(boundsErr.Axis).To(Equal("concurrency"))
		})
	})

	Describe("composite entities", func() {
		buildEnsemble := func(bounds config.SearchBounds) (*Generator, *runconfig.RunConfig) {
			ensemble := mustEntity(ensembleBaseline(), nil)
			ensemble.AddSubEntities(mustEntity(sequenceBaseline(), nil), mustEntity(secondBaseline(), nil))
			g := newGenerator(bounds, ensemble)
			_, err := g.Next()
			Expect(err).NotTo(HaveOccurred())

			g.SetCursor(search.NewCoordinate([]int{1, 2, 4, 5}))
			rc, err := g.Next()
			Expect(err).NotTo(HaveOccurred())
			return g, rc
		}

		It("uses the minimum sub-entity concurrency", func() {
			_, rc := buildEnsemble(config.SearchBounds{})

			run := rc.ModelRunConfigs()[0]
			Expect(run.SubConfigs()).To(HaveLen(2))
			Expect(run.SubConfigs()[0].Name()).To(Equal("fake_model_A_config_0"))
			Expect(run.SubConfigs()[0].MaxBatchSize()).To(Equal(2))
			Expect(run.SubConfigs()[0].InstanceCount()).To(Equal(3))
			Expect(run.SubConfigs()[0].HasSequenceBatching()).To(BeTrue())
			Expect(run.SubConfigs()[1].Name()).To(Equal("fake_model_B_config_0"))
			Expect(run.SubConfigs()[1].MaxBatchSize()).To(Equal(16))
			Expect(run.SubConfigs()[1].InstanceCount()).To(Equal(6))

			// Sub concurrencies are 12 and 192.
			Expect(run.PerfConfig().Concurrency()).To(Equal(12))

			// The top config references the stage variants.
			Expect(run.ModelConfig().EnsembleStepModels()).To(Equal([]string{
				"fake_model_A_config_0", "fake_model_B_config_0",
			}))
		})

		It("uses a max concurrency override verbatim", func() {
			_, rc := buildEnsemble(config.SearchBounds{MaxConcurrency: 8})
			Expect(rc.ModelRunConfigs()[0].PerfConfig().Concurrency()).To(Equal(8))
		})

		It("uses a min concurrency override verbatim", func() {
			_, rc := buildEnsemble(config.SearchBounds{MinConcurrency: 16})
			Expect(rc.ModelRunConfigs()[0].PerfConfig().Concurrency()).To(Equal(16))
		})
	})

	Describe("coordinate-driven concurrency", func() {
		It("overrides the formula when a concurrency dimension is present", func() {
			entities := []*Entity{mustEntity(plainBaseline(), nil)}
			dims := BuildDimensionSet(entities, true)
			sc := search.NewConfig(dims, 5, 2)
			g, err := NewGenerator(sc, config.SearchBounds{}, entities, variant.NewRegistry())
			Expect(err).NotTo(HaveOccurred())
			_, err = g.Next()
			Expect(err).NotTo(HaveOccurred())

			rc, err := g.RunConfigAt(search.NewCoordinate([]int{5, 7, 3}))
			Expect(err).NotTo(HaveOccurred())

			run := rc.ModelRunConfigs()[0]
			Expect(run.ModelConfig().MaxBatchSize()).To(Equal(32))
			Expect(run.PerfConfig().Concurrency()).To(Equal(8))
		})
	})
})
