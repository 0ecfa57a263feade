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

package config

import (
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/modelperf/variant-search/internal/record"
	"github.com/modelperf/variant-search/internal/search"
)

// envPrefix namespaces the environment variables the loader reads, e.g.
// VARIANT_SEARCH_RADIUS.
const envPrefix = "VARIANT_SEARCH"

// flagBindings maps viper keys (= config file keys) to pflag names.
var flagBindings = map[string]string{
	"model_repository":                       "model-repository",
	"radius":                                 "radius",
	"min_initialized":                        "min-initialized",
	"run_config_search_max_model_batch_size": "run-config-search-max-model-batch-size",
	"run_config_search_min_model_batch_size": "run-config-search-min-model-batch-size",
	"run_config_search_max_instance_count":   "run-config-search-max-instance-count",
	"run_config_search_min_instance_count":   "run-config-search-min-instance-count",
	"run_config_search_max_concurrency":      "run-config-search-max-concurrency",
	"run_config_search_min_concurrency":      "run-config-search-min-concurrency",
	"concurrency_multiplier":                 "concurrency-multiplier",
	"debug":                                  "debug",
	"log_datetime":                           "log-datetime",
}

// RegisterFlags declares the CLI flags understood by Load on the given flag
// set.
func RegisterFlags(fs *flag.FlagSet) {
	fs.String("model-repository", "", "Path of the model repository holding baseline configs")
	fs.Int("radius", search.DefaultRadius, "Chebyshev radius for coordinate neighbor enumeration")
	fs.Int("min-initialized", search.DefaultMinInitialized, "Minimum measured coordinates before a search may stop")
	fs.Int("run-config-search-max-model-batch-size", 0, "Upper bound on generated model batch sizes (0 = unbounded)")
	fs.Int("run-config-search-min-model-batch-size", 0, "Lower bound on generated model batch sizes (0 = unbounded)")
	fs.Int("run-config-search-max-instance-count", 0, "Upper bound on generated instance counts (0 = unbounded)")
	fs.Int("run-config-search-min-instance-count", 0, "Lower bound on generated instance counts (0 = unbounded)")
	fs.Int("run-config-search-max-concurrency", 0, "Upper bound on generated concurrency (0 = unbounded)")
	fs.Int("run-config-search-min-concurrency", 0, "Lower bound on generated concurrency (0 = unbounded)")
	fs.Int("concurrency-multiplier", DefaultConcurrencyMultiplier, "Multiplier in concurrency = batch size * instance count * multiplier")
	fs.Bool("debug", false, "Enable debug logging")
	fs.Bool("log-datetime", false, "Prefix log entries with a timestamp")
}

// Load resolves the configuration with the precedence flags > env > config
// file > defaults and validates it fail-fast. flagSet may be nil (tests);
// configFile may be empty.
func Load(flagSet *flag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("model_repository", "")
	v.SetDefault("radius", search.DefaultRadius)
	v.SetDefault("min_initialized", search.DefaultMinInitialized)
	v.SetDefault("concurrency_multiplier", DefaultConcurrencyMultiplier)
	v.SetDefault("debug", false)
	v.SetDefault("log_datetime", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flagSet != nil {
		for viperKey, flagName := range flagBindings {
			if f := flagSet.Lookup(flagName); f != nil {
				if err := v.BindPFlag(viperKey, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", flagName, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	normalizeObjectives(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalizeObjectives fills in the default objective for models that do not
// declare any.
func normalizeObjectives(cfg *Config) {
	for i := range cfg.ProfileModels {
		if len(cfg.ProfileModels[i].Objectives) == 0 {
			cfg.ProfileModels[i].Objectives = []string{record.TagPerfThroughput}
		}
	}
}
