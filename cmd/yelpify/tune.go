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
	"fmt"
	"os"
	"time"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/yelpify/yelpify/base/log"
	"github.com/yelpify/yelpify/config"
	"github.com/yelpify/yelpify/dataset"
	"github.com/yelpify/yelpify/model"
	"go.uber.org/zap"
)

var tuneCommand = &cobra.Command{
	Use:   "tune",
	Short: "Search hyper-parameters on a random split",
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings(cmd, applyDataFlags, applyModelFlags, func(cmd *cobra.Command, conf *config.Config) {
			if cmd.Flags().Changed("trials") {
				conf.Model.Trials, _ = cmd.Flags().GetInt("trials")
			}
		})
		if err := prepareFrame(cmd.Context(), settings); err != nil {
			log.Logger().Fatal("failed to prepare data", zap.Error(err))
		}
		start := time.Now()
		result, err := tune(cmd, settings)
		if err != nil {
			log.Logger().Fatal("failed to tune model", zap.Error(err))
		}
		if err = renderTrials(result); err != nil {
			log.Logger().Fatal("failed to render trials", zap.Error(err))
		}
		log.Logger().Info("complete model search",
			zap.String("time", time.Since(start).String()),
			zap.String("best_params", result.Params.ToString()),
			zap.Float32("best_auc", result.Score.AUC))
	},
}

func tune(cmd *cobra.Command, settings *config.Settings) (model.SearchResult, error) {
	conf := settings.Config
	schema := conf.Schema
	var features *dataset.Features
	if conf.Model.Hybrid {
		schema = schema.WithCategories(settings.Frame)
		var err error
		if features, err = dataset.BuildFeatures(settings.Frame, schema); err != nil {
			return model.SearchResult{}, errors.Trace(err)
		}
	}
	trainSet, testSet, err := model.SplitDataset(settings.Frame, schema, features, conf.Model.TestRatio, conf.Model.Seed)
	if err != nil {
		return model.SearchResult{}, errors.Trace(err)
	}
	return model.Search(cmd.Context(), conf.Model.GetParams(), trainSet, testSet, conf.Model.Trials, conf.Model.GetFitConfig())
}

func renderTrials(result model.SearchResult) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"#", "AUC", "Params"})
	for i, trial := range result.Trials {
		if err := table.Append([]string{
			fmt.Sprintf("%v", i),
			fmt.Sprintf("%.4f", trial.Score.AUC),
			trial.Params.ToString(),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func init() {
	addDataFlags(tuneCommand.Flags())
	addModelFlags(tuneCommand.Flags())
	tuneCommand.Flags().Int("trials", 0, "number of trials (overrides model.trials)")
	rootCommand.AddCommand(tuneCommand)
}
