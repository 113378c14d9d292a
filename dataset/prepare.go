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

package dataset

import (
	"context"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/yelpify/yelpify/base/log"
	"github.com/yelpify/yelpify/common/util"
	"go.uber.org/zap"
)

const (
	DefaultCleanURL    = "https://www.dropbox.com/s/0c9zandfdsn4ujj/data_clean.parquet?dl=1"
	DefaultReviewURL   = "https://www.dropbox.com/s/mtln9b6udoydn2h/yelp_academic_dataset_review_sample.csv?dl=1"
	DefaultUserURL     = "https://www.dropbox.com/s/pngrptljotqm4ds/yelp_academic_dataset_user.json?dl=1"
	DefaultBusinessURL = "https://www.dropbox.com/s/w0wy854u5swrhmc/yelp_academic_dataset_business.json?dl=1"
)

// RawColumns are the columns kept after joining reviews, users and businesses.
var RawColumns = []string{
	"user_id", "business_id", "stars", "text", "name", "average_stars",
	"name_business", "stars_business", "categories", "state", "city",
}

// RoundedColumns are rounded to half stars when rounding is requested.
var RoundedColumns = []string{"average_stars", "stars_business"}

// Source tells PrepareData where the review data lives.
type Source struct {
	CleanURL     string
	ReviewURL    string
	UserURL      string
	BusinessURL  string
	Raw          bool
	RoundRatings bool
}

func DefaultSource() Source {
	return Source{
		CleanURL:    DefaultCleanURL,
		ReviewURL:   DefaultReviewURL,
		UserURL:     DefaultUserURL,
		BusinessURL: DefaultBusinessURL,
	}
}

// PrepareData downloads the cleaned table, or joins the raw review, user and
// business tables, and optionally rounds ratings to half stars.
func PrepareData(ctx context.Context, loader *Loader, source Source) (*Frame, error) {
	log.Logger().Info("downloading input data", zap.Bool("raw", source.Raw))
	var (
		frame *Frame
		err   error
	)
	if source.Raw {
		frame, err = joinRaw(ctx, loader, source)
	} else {
		frame, err = loader.Load(ctx, source.CleanURL)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	if source.RoundRatings {
		for _, column := range RoundedColumns {
			if err = RoundColumn(frame, column); err != nil {
				return nil, errors.Trace(err)
			}
		}
	}
	return frame, nil
}

func joinRaw(ctx context.Context, loader *Loader, source Source) (*Frame, error) {
	review, err := loader.Load(ctx, source.ReviewURL)
	if err != nil {
		return nil, errors.Trace(err)
	}
	user, err := loader.Load(ctx, source.UserURL)
	if err != nil {
		return nil, errors.Trace(err)
	}
	business, err := loader.Load(ctx, source.BusinessURL)
	if err != nil {
		return nil, errors.Trace(err)
	}
	reviewUser, err := review.LeftJoin(user, "user_id", "_user")
	if err != nil {
		return nil, errors.Trace(err)
	}
	joined, err := reviewUser.LeftJoin(business, "business_id", "_business")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return joined.Select(RawColumns...)
}

// RoundOfRating rounds a number to the closest half integer. Exact quarters
// are rounded half to even, so 1.25 becomes 1.0 and 1.75 becomes 2.0.
func RoundOfRating(number float64) float64 {
	return math.RoundToEven(number*2) / 2
}

// RoundColumn applies RoundOfRating to every non-empty cell of a column.
func RoundColumn(frame *Frame, column string) error {
	values, err := frame.Column(column)
	if err != nil {
		return errors.Trace(err)
	}
	for i, cell := range values {
		if cell == "" {
			continue
		}
		v, err := util.ParseFloat[float64](cell)
		if err != nil {
			return errors.NotValidf("column %q row %d: %q is not a number", column, i, cell)
		}
		values[i] = strconv.FormatFloat(RoundOfRating(v), 'f', -1, 64)
	}
	return frame.SetColumn(column, values)
}

// ExpandCategories turns a comma separated column into one indicator column
// per category. Only the topK most frequent categories are kept when topK is
// positive. Categories clashing with an existing column are skipped. The new
// column names are returned in order of decreasing frequency.
func ExpandCategories(frame *Frame, column string, topK int) ([]string, error) {
	cells, err := frame.Column(column)
	if err != nil {
		return nil, errors.Trace(err)
	}
	dict := NewFreqDict()
	rowCategories := make([]mapset.Set[string], len(cells))
	for i, cell := range cells {
		rowCategories[i] = mapset.NewThreadUnsafeSet[string]()
		for _, category := range strings.Split(cell, ",") {
			category = strings.TrimSpace(category)
			if category == "" || frame.HasColumn(category) || rowCategories[i].Contains(category) {
				continue
			}
			rowCategories[i].Add(category)
			dict.Id(category)
		}
	}
	ids := lo.Range(dict.Count())
	slices.SortStableFunc(ids, func(a, b int) int {
		return dict.Freq(b) - dict.Freq(a)
	})
	if topK > 0 && topK < len(ids) {
		ids = ids[:topK]
	}
	categories := lo.Map(ids, func(id int, _ int) string {
		name, _ := dict.String(id)
		return name
	})
	for _, category := range categories {
		values := lo.Map(rowCategories, func(set mapset.Set[string], _ int) string {
			if set.Contains(category) {
				return "1"
			}
			return "0"
		})
		if err = frame.SetColumn(category, values); err != nil {
			return nil, errors.Trace(err)
		}
	}
	log.Logger().Info("expand categories",
		zap.String("column", column),
		zap.Int("n_categories", dict.Count()),
		zap.Int("n_kept", len(categories)))
	return categories, nil
}

// CategoryColumns returns the indicator columns of a frame, recognised by a
// name starting with an upper case letter.
func CategoryColumns(frame *Frame) []string {
	return lo.Filter(frame.Columns(), func(column string, _ int) bool {
		r, _ := utf8.DecodeRuneInString(column)
		return unicode.IsUpper(r)
	})
}
