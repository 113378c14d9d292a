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

package main

import (
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/yelpify/yelpify/base"
	"github.com/yelpify/yelpify/base/log"
	"github.com/yelpify/yelpify/common/util"
	"github.com/yelpify/yelpify/config"
	"github.com/yelpify/yelpify/recommend"
	"go.uber.org/zap"
)

var recommendCommand = &cobra.Command{
	Use:   "recommend",
	Short: "Train a model and rank users or businesses",
}

// recommendFor trains a model and ranks with it.
func recommendFor(cmd *cobra.Command, hybrid bool, rank func(*config.Settings) ([]string, error)) {
	settings := loadSettings(cmd, applyDataFlags, applyModelFlags, applyRecommendFlags)
	if hybrid && !settings.Config.Model.Hybrid {
		log.Logger().Info("cold-start ranking needs side features, train a hybrid model")
		settings.Config.Model.Hybrid = true
	}
	if err := prepareFrame(cmd.Context(), settings); err != nil {
		log.Logger().Fatal("failed to prepare data", zap.Error(err))
	}
	if err := trainModel(cmd.Context(), settings); err != nil {
		log.Logger().Fatal("failed to train model", zap.Error(err))
	}
	ids, err := rank(settings)
	if err != nil {
		log.Logger().Fatal("failed to recommend", zap.Error(err))
	}
	log.Logger().Info("recommend complete", zap.Strings("result", ids))
}

var recommendUserCommand = &cobra.Command{
	Use:   "user <user_id>",
	Short: "Recommend businesses to a known user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		recommendFor(cmd, false, func(settings *config.Settings) ([]string, error) {
			return settings.Recommender.ItemsForUser(args[0], settings.Config.Recommend.TopN)
		})
	},
}

var recommendItemCommand = &cobra.Command{
	Use:   "item <business_id>",
	Short: "Recommend users to a known business",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		recommendFor(cmd, false, func(settings *config.Settings) ([]string, error) {
			return settings.Recommender.UsersForItem(args[0], settings.Config.Recommend.TopN)
		})
	},
}

var recommendNewUserCommand = &cobra.Command{
	Use:   "new-user",
	Short: "Recommend businesses to a new user described by features",
	Run: func(cmd *cobra.Command, args []string) {
		recommendFor(cmd, true, func(settings *config.Settings) ([]string, error) {
			features, err := coldStartFeatures(cmd, settings.Result.Model.CountUserFeatures())
			if err != nil {
				return nil, errors.Trace(err)
			}
			return settings.Recommender.ItemsForNewUser(features, settings.Config.Recommend.TopN)
		})
	},
}

var recommendNewItemCommand = &cobra.Command{
	Use:   "new-item",
	Short: "Recommend users to a new business described by features",
	Run: func(cmd *cobra.Command, args []string) {
		recommendFor(cmd, true, func(settings *config.Settings) ([]string, error) {
			features, err := coldStartFeatures(cmd, settings.Result.Model.CountItemFeatures())
			if err != nil {
				return nil, errors.Trace(err)
			}
			return settings.Recommender.UsersForNewItem(features, settings.Config.Recommend.TopN)
		})
	},
}

// coldStartFeatures reads --features, or draws random features of dimension
// dim when --random is set.
func coldStartFeatures(cmd *cobra.Command, dim int) ([]float32, error) {
	flags := cmd.Flags()
	if flags.Changed("features") {
		text, _ := flags.GetString("features")
		return parseFeatures(text)
	}
	if flags.Changed("random") {
		p, _ := flags.GetFloat64("random")
		seed, _ := flags.GetInt64("seed")
		return recommend.RandomFeatures(base.NewRandomGenerator(seed), dim, p), nil
	}
	return nil, errors.NotValidf("missing --features or --random")
}

// parseFeatures parses comma separated values.
func parseFeatures(text string) ([]float32, error) {
	fields := strings.Split(text, ",")
	features := make([]float32, len(fields))
	for i, field := range fields {
		value, err := util.ParseFloat[float32](field)
		if err != nil {
			return nil, errors.NotValidf("feature %q", field)
		}
		features[i] = value
	}
	return features, nil
}

func init() {
	flags := recommendCommand.PersistentFlags()
	addDataFlags(flags)
	addModelFlags(flags)
	addRecommendFlags(flags)
	for _, command := range []*cobra.Command{recommendNewUserCommand, recommendNewItemCommand} {
		command.Flags().String("features", "", "comma separated feature values")
		command.Flags().Float64("random", 0.05, "draw each feature from Bernoulli(p)")
		command.Flags().Int64("seed", 0, "seed of random features")
	}
	recommendCommand.AddCommand(recommendUserCommand, recommendItemCommand, recommendNewUserCommand, recommendNewItemCommand)
	rootCommand.AddCommand(recommendCommand)
}
