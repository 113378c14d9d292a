// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/juju/errors"
	"github.com/spf13/viper"
	"github.com/yelpify/yelpify/dataset"
	"github.com/yelpify/yelpify/model"
	"github.com/yelpify/yelpify/recommend"
)

// Config is the configuration for yelpify.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Schema    dataset.Schema  `mapstructure:"schema"`
	Model     ModelConfig     `mapstructure:"model"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

// DataConfig is the configuration for data preparation.
type DataConfig struct {
	URL           string `mapstructure:"url" validate:"required"`
	ReviewURL     string `mapstructure:"review_url" validate:"required_if=Raw true"`
	UserURL       string `mapstructure:"user_url" validate:"required_if=Raw true"`
	BusinessURL   string `mapstructure:"business_url" validate:"required_if=Raw true"`
	Raw           bool   `mapstructure:"raw"`
	RoundRatings  bool   `mapstructure:"round_ratings"`
	TopCategories int    `mapstructure:"top_categories" validate:"gte=0"`
	ShowProgress  bool   `mapstructure:"show_progress"`
}

// ModelConfig is the configuration for training and tuning.
type ModelConfig struct {
	Hybrid      bool    `mapstructure:"hybrid"`
	Evaluate    bool    `mapstructure:"evaluate"`
	TestRatio   float64 `mapstructure:"test_ratio" validate:"gte=0,lt=1"`
	Seed        int64   `mapstructure:"seed"`
	Jobs        int     `mapstructure:"jobs" validate:"gt=0"`
	Verbose     int     `mapstructure:"verbose" validate:"gte=0"`
	NFactors    int     `mapstructure:"n_factors" validate:"gt=0"`
	NEpochs     int     `mapstructure:"n_epochs" validate:"gt=0"`
	Lr          float64 `mapstructure:"lr" validate:"gt=0"`
	Reg         float64 `mapstructure:"reg" validate:"gte=0"`
	InitStdDev  float64 `mapstructure:"init_std" validate:"gte=0"`
	Loss        string  `mapstructure:"loss" validate:"oneof=warp bpr"`
	MaxSampled  int     `mapstructure:"max_sampled" validate:"gt=0"`
	RandomState int64   `mapstructure:"random_state"`
	Trials      int     `mapstructure:"trials" validate:"gt=0"`
}

// RecommendConfig is the configuration for rankings.
type RecommendConfig struct {
	TopN      int     `mapstructure:"top_n" validate:"gt=0"`
	Threshold float32 `mapstructure:"threshold"`
	NewOnly   bool    `mapstructure:"new_only"`
	Show      bool    `mapstructure:"show"`
	Filter    string  `mapstructure:"filter"`
}

func GetDefaultConfig() *Config {
	source := dataset.DefaultSource()
	return &Config{
		Data: DataConfig{
			URL:          source.CleanURL,
			ReviewURL:    source.ReviewURL,
			UserURL:      source.UserURL,
			BusinessURL:  source.BusinessURL,
			ShowProgress: true,
		},
		Schema: dataset.DefaultSchema(),
		Model: ModelConfig{
			TestRatio:  0.2,
			Jobs:       10,
			Verbose:    1,
			NFactors:   100,
			NEpochs:    10,
			Lr:         0.05,
			InitStdDev: 0.01,
			Loss:       model.WARP,
			MaxSampled: 50,
			Trials:     10,
		},
		Recommend: RecommendConfig{
			TopN:      10,
			Threshold: 3,
			Show:      true,
		},
	}
}

func (config *Config) LoadDefaultIfNil() *Config {
	if config == nil {
		return GetDefaultConfig()
	}
	return config
}

// GetSource returns where PrepareData loads reviews from.
func (c *DataConfig) GetSource() dataset.Source {
	return dataset.Source{
		CleanURL:     c.URL,
		ReviewURL:    c.ReviewURL,
		UserURL:      c.UserURL,
		BusinessURL:  c.BusinessURL,
		Raw:          c.Raw,
		RoundRatings: c.RoundRatings,
	}
}

func (c *ModelConfig) GetParams() model.Params {
	return model.Params{
		model.NFactors:    c.NFactors,
		model.NEpochs:     c.NEpochs,
		model.Lr:          c.Lr,
		model.Reg:         c.Reg,
		model.InitStdDev:  c.InitStdDev,
		model.Loss:        c.Loss,
		model.MaxSampled:  c.MaxSampled,
		model.RandomState: c.RandomState,
	}
}

func (c *ModelConfig) GetFitConfig() *model.FitConfig {
	return model.NewFitConfig().SetJobs(c.Jobs).SetVerbose(c.Verbose)
}

func (c *ModelConfig) GetTrainConfig() *model.TrainConfig {
	return &model.TrainConfig{
		Hybrid:    c.Hybrid,
		Evaluate:  c.Evaluate,
		TestRatio: c.TestRatio,
		Seed:      c.Seed,
		Params:    c.GetParams(),
		Fit:       c.GetFitConfig(),
	}
}

func (c *RecommendConfig) GetOptions() *recommend.Options {
	return recommend.NewOptions().
		SetShow(c.Show).
		SetNewOnly(c.NewOnly).
		SetThreshold(c.Threshold).
		SetFilter(c.Filter)
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [data]
	v.SetDefault("data.url", defaultConfig.Data.URL)
	v.SetDefault("data.review_url", defaultConfig.Data.ReviewURL)
	v.SetDefault("data.user_url", defaultConfig.Data.UserURL)
	v.SetDefault("data.business_url", defaultConfig.Data.BusinessURL)
	v.SetDefault("data.raw", defaultConfig.Data.Raw)
	v.SetDefault("data.round_ratings", defaultConfig.Data.RoundRatings)
	v.SetDefault("data.top_categories", defaultConfig.Data.TopCategories)
	v.SetDefault("data.show_progress", defaultConfig.Data.ShowProgress)
	// [schema]
	v.SetDefault("schema.user_id", defaultConfig.Schema.UserID)
	v.SetDefault("schema.item_id", defaultConfig.Schema.ItemID)
	v.SetDefault("schema.rating", defaultConfig.Schema.Rating)
	v.SetDefault("schema.item_name", defaultConfig.Schema.ItemName)
	v.SetDefault("schema.user_numeric", defaultConfig.Schema.UserNumeric)
	v.SetDefault("schema.categories", []string{})
	// [model]
	v.SetDefault("model.hybrid", defaultConfig.Model.Hybrid)
	v.SetDefault("model.evaluate", defaultConfig.Model.Evaluate)
	v.SetDefault("model.test_ratio", defaultConfig.Model.TestRatio)
	v.SetDefault("model.seed", defaultConfig.Model.Seed)
	v.SetDefault("model.jobs", defaultConfig.Model.Jobs)
	v.SetDefault("model.verbose", defaultConfig.Model.Verbose)
	v.SetDefault("model.n_factors", defaultConfig.Model.NFactors)
	v.SetDefault("model.n_epochs", defaultConfig.Model.NEpochs)
	v.SetDefault("model.lr", defaultConfig.Model.Lr)
	v.SetDefault("model.reg", defaultConfig.Model.Reg)
	v.SetDefault("model.init_std", defaultConfig.Model.InitStdDev)
	v.SetDefault("model.loss", defaultConfig.Model.Loss)
	v.SetDefault("model.max_sampled", defaultConfig.Model.MaxSampled)
	v.SetDefault("model.random_state", defaultConfig.Model.RandomState)
	v.SetDefault("model.trials", defaultConfig.Model.Trials)
	// [recommend]
	v.SetDefault("recommend.top_n", defaultConfig.Recommend.TopN)
	v.SetDefault("recommend.threshold", defaultConfig.Recommend.Threshold)
	v.SetDefault("recommend.new_only", defaultConfig.Recommend.NewOnly)
	v.SetDefault("recommend.show", defaultConfig.Recommend.Show)
	v.SetDefault("recommend.filter", defaultConfig.Recommend.Filter)
}

// LoadConfig loads configuration from defaults, an optional file and
// YELPIFY_* environment variables, e.g. YELPIFY_MODEL_N_FACTORS.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	v.SetEnvPrefix("yelpify")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "read config %s", path)
		}
	}
	var conf Config
	if err := v.Unmarshal(&conf, viper.DecodeHook(mapstructure.StringToSliceHookFunc(","))); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}
