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
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/yelpify/yelpify/base/log"
	"github.com/yelpify/yelpify/dataset"
	"go.uber.org/zap"
)

var prepareCommand = &cobra.Command{
	Use:   "prepare",
	Short: "Download reviews and show the first rows",
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings(cmd, applyDataFlags)
		if err := prepareFrame(cmd.Context(), settings); err != nil {
			log.Logger().Fatal("failed to prepare data", zap.Error(err))
		}
		frame := settings.Frame
		log.Logger().Info("prepare data complete",
			zap.Int("n_rows", frame.Len()),
			zap.Int("n_columns", len(frame.Columns())))
		n, _ := cmd.Flags().GetInt("head")
		if err := renderHead(frame, n); err != nil {
			log.Logger().Fatal("failed to render data", zap.Error(err))
		}
	},
}

func renderHead(frame *dataset.Frame, n int) error {
	columns := lo.Without(frame.Columns(), dataset.CategoryColumns(frame)...)
	head, err := frame.Head(n).Select(columns...)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header(head.Columns())
	for i := 0; i < head.Len(); i++ {
		if err := table.Append(head.Row(i)); err != nil {
			return err
		}
	}
	return table.Render()
}

func init() {
	flags := prepareCommand.Flags()
	addDataFlags(flags)
	flags.Int("head", 5, "number of rows to show")
	rootCommand.AddCommand(prepareCommand)
}
