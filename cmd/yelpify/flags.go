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
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yelpify/yelpify/config"
)

func addDataFlags(flags *pflag.FlagSet) {
	flags.Bool("raw", false, "join raw reviews, users and businesses instead of the cleaned table")
	flags.Bool("round-ratings", false, "round average stars to half stars")
	flags.Int("top-categories", 0, "number of most frequent categories to expand (0 for all)")
}

func applyDataFlags(cmd *cobra.Command, conf *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("raw") {
		conf.Data.Raw, _ = flags.GetBool("raw")
	}
	if flags.Changed("round-ratings") {
		conf.Data.RoundRatings, _ = flags.GetBool("round-ratings")
	}
	if flags.Changed("top-categories") {
		conf.Data.TopCategories, _ = flags.GetInt("top-categories")
	}
}

func addModelFlags(flags *pflag.FlagSet) {
	flags.Bool("hybrid", false, "train with user and item features")
	flags.Bool("evaluate", false, "report train and test AUC on a random split")
	flags.Int("epochs", 0, "number of training epochs (overrides model.n_epochs)")
}

func applyModelFlags(cmd *cobra.Command, conf *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("hybrid") {
		conf.Model.Hybrid, _ = flags.GetBool("hybrid")
	}
	if flags.Changed("evaluate") {
		conf.Model.Evaluate, _ = flags.GetBool("evaluate")
	}
	if flags.Changed("epochs") {
		conf.Model.NEpochs, _ = flags.GetInt("epochs")
	}
}

func addRecommendFlags(flags *pflag.FlagSet) {
	flags.IntP("top-n", "n", 0, "number of recommendations (overrides recommend.top_n)")
	flags.Bool("new-only", false, "exclude businesses the user already likes")
	flags.Float32("threshold", 0, "ratings above threshold are likes (overrides recommend.threshold)")
	flags.String("filter", "", "expression selecting candidate businesses")
	flags.Bool("quiet", false, "do not print the report")
}

func applyRecommendFlags(cmd *cobra.Command, conf *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("top-n") {
		conf.Recommend.TopN, _ = flags.GetInt("top-n")
	}
	if flags.Changed("new-only") {
		conf.Recommend.NewOnly, _ = flags.GetBool("new-only")
	}
	if flags.Changed("threshold") {
		conf.Recommend.Threshold, _ = flags.GetFloat32("threshold")
	}
	if flags.Changed("filter") {
		conf.Recommend.Filter, _ = flags.GetString("filter")
	}
	if quiet, _ := flags.GetBool("quiet"); quiet {
		conf.Recommend.Show = false
	}
}
