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
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/yelpify/yelpify/base/log"
	"github.com/yelpify/yelpify/cmd/version"
	"github.com/yelpify/yelpify/config"
	"github.com/yelpify/yelpify/dataset"
	"github.com/yelpify/yelpify/model"
	"github.com/yelpify/yelpify/recommend"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:   "yelpify",
	Short: "Recommend Yelp businesses to users and users to businesses.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.CloseLogger()
	},
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show the version of yelpify",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(version.BuildInfo())
	},
}

func init() {
	flags := rootCommand.PersistentFlags()
	flags.StringP("config", "c", "", "configuration file path")
	flags.Bool("debug", false, "use debug log mode")
	flags.Int("jobs", 0, "number of training jobs (overrides model.jobs)")
	log.AddFlags(flags)
	rootCommand.AddCommand(versionCommand)
}

// loadSettings loads the configuration named by --config and overrides it by
// command line flags.
func loadSettings(cmd *cobra.Command, overrides ...func(*cobra.Command, *config.Config)) *config.Settings {
	configPath, _ := cmd.Flags().GetString("config")
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		log.Logger().Fatal("failed to load config", zap.String("config", configPath), zap.Error(err))
	}
	if cmd.Flags().Changed("jobs") {
		conf.Model.Jobs, _ = cmd.Flags().GetInt("jobs")
	}
	for _, override := range overrides {
		override(cmd, conf)
	}
	if err = conf.Validate(); err != nil {
		log.Logger().Fatal("invalid config", zap.Error(err))
	}
	return config.NewSettings(conf)
}

// prepareFrame downloads reviews and expands categories into indicator
// columns unless the data already carries them.
func prepareFrame(ctx context.Context, settings *config.Settings) error {
	conf := settings.Config
	loader := dataset.NewLoader()
	loader.ShowProgress = conf.Data.ShowProgress
	frame, err := dataset.PrepareData(ctx, loader, conf.Data.GetSource())
	if err != nil {
		return errors.Trace(err)
	}
	if len(dataset.CategoryColumns(frame)) == 0 && frame.HasColumn("categories") {
		if _, err = dataset.ExpandCategories(frame, "categories", conf.Data.TopCategories); err != nil {
			return errors.Trace(err)
		}
	}
	settings.Frame = frame
	return nil
}

// trainModel fits a model on the prepared frame.
func trainModel(ctx context.Context, settings *config.Settings) error {
	conf := settings.Config
	result, err := model.Train(ctx, settings.Frame, conf.Schema, conf.Model.GetTrainConfig())
	if err != nil {
		return errors.Trace(err)
	}
	settings.Result = result
	settings.Recommender, err = recommend.FromResult(result, conf.Recommend.GetOptions())
	return errors.Trace(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCommand.ExecuteContext(ctx); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
