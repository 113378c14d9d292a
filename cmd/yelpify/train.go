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

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/yelpify/yelpify/base/log"
	"github.com/yelpify/yelpify/model"
	"go.uber.org/zap"
)

var trainCommand = &cobra.Command{
	Use:   "train",
	Short: "Train a collaborative or hybrid model",
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings(cmd, applyDataFlags, applyModelFlags)
		if err := prepareFrame(cmd.Context(), settings); err != nil {
			log.Logger().Fatal("failed to prepare data", zap.Error(err))
		}
		if err := trainModel(cmd.Context(), settings); err != nil {
			log.Logger().Fatal("failed to train model", zap.Error(err))
		}
		result := settings.Result
		log.Logger().Info("train model complete",
			zap.Int("n_users", result.Interactions.CountUsers()),
			zap.Int("n_items", result.Interactions.CountItems()),
			zap.Int("n_user_features", result.Model.CountUserFeatures()),
			zap.Int("n_item_features", result.Model.CountItemFeatures()))
		if result.TrainScore != nil && result.TestScore != nil {
			if err := renderScores(*result.TrainScore, *result.TestScore); err != nil {
				log.Logger().Fatal("failed to render scores", zap.Error(err))
			}
		}
	},
}

func renderScores(train, test model.Score) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Split", "AUC"})
	for _, row := range [][]string{
		{"train", fmt.Sprintf("%.4f", train.AUC)},
		{"test", fmt.Sprintf("%.4f", test.AUC)},
	} {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func init() {
	addDataFlags(trainCommand.Flags())
	addModelFlags(trainCommand.Flags())
	rootCommand.AddCommand(trainCommand)
}
