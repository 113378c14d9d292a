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
	"slices"
	"strings"

	"github.com/juju/errors"
	"github.com/yelpify/yelpify/base"
	"github.com/yelpify/yelpify/base/log"
	"go.uber.org/zap"
)

// Schema names the columns of a review frame.
type Schema struct {
	UserID      string   `mapstructure:"user_id" validate:"required"`
	ItemID      string   `mapstructure:"item_id" validate:"required"`
	Rating      string   `mapstructure:"rating" validate:"required"`
	ItemName    string   `mapstructure:"item_name" validate:"required"`
	UserNumeric string   `mapstructure:"user_numeric" validate:"required"`
	Categories  []string `mapstructure:"categories"`
}

func DefaultSchema() Schema {
	return Schema{
		UserID:      "user_id",
		ItemID:      "business_id",
		Rating:      "stars",
		ItemName:    "name_business",
		UserNumeric: "average_stars",
	}
}

// WithCategories fills the category columns from the frame when none are set.
func (s Schema) WithCategories(frame *Frame) Schema {
	if len(s.Categories) == 0 {
		s.Categories = CategoryColumns(frame)
	}
	return s
}

// Validate checks that every column the schema names exists in the frame.
func (s Schema) Validate(frame *Frame) error {
	columns := append([]string{s.UserID, s.ItemID, s.Rating, s.ItemName, s.UserNumeric}, s.Categories...)
	for _, column := range columns {
		if _, err := frame.ColumnIndex(column); err != nil {
			return err
		}
	}
	return nil
}

// Features holds the side features of users and items. Row k of a matrix
// describes the k-th distinct entity in order of first appearance.
type Features struct {
	Users       *base.SparseMatrix
	Items       *base.SparseMatrix
	UserColumns []string
	ItemColumns []string
	userDict    *FreqDict
	itemDict    *FreqDict
}

// BuildFeatures builds user features from the numeric user column and item
// features from the category indicator columns. Empty cells are filled with
// zeros.
func BuildFeatures(frame *Frame, schema Schema) (*Features, error) {
	if err := schema.Validate(frame); err != nil {
		return nil, errors.Trace(err)
	}
	features := &Features{
		Users:       base.NewSparseMatrix(1),
		Items:       base.NewSparseMatrix(len(schema.Categories)),
		UserColumns: []string{schema.UserNumeric},
		ItemColumns: append([]string(nil), schema.Categories...),
		userDict:    NewFreqDict(),
		itemDict:    NewFreqDict(),
	}

	var nMissing int
	value := func(frame *Frame, i int, column string) (float32, error) {
		if cell, _ := frame.Get(i, column); strings.TrimSpace(cell) == "" {
			nMissing++
			return 0, nil
		}
		return frame.Float(i, column)
	}

	users, err := frame.DropDuplicates(schema.UserID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for i := 0; i < users.Len(); i++ {
		userId, _ := users.Get(i, schema.UserID)
		features.userDict.NotCount(userId)
		x, err := value(users, i, schema.UserNumeric)
		if err != nil {
			return nil, errors.Annotatef(err, "user %q", userId)
		}
		if err = features.Users.AppendRow([]float32{x}); err != nil {
			return nil, errors.Trace(err)
		}
	}

	items, err := frame.DropDuplicates(schema.ItemID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	row := make([]float32, len(schema.Categories))
	for i := 0; i < items.Len(); i++ {
		itemId, _ := items.Get(i, schema.ItemID)
		features.itemDict.NotCount(itemId)
		for j, column := range schema.Categories {
			if row[j], err = value(items, i, column); err != nil {
				return nil, errors.Annotatef(err, "item %q", itemId)
			}
		}
		if err = features.Items.AppendRow(row); err != nil {
			return nil, errors.Trace(err)
		}
	}

	if nMissing > 0 {
		log.Logger().Warn("fill missing features with zeros", zap.Int("n_missing", nMissing))
	}
	log.Logger().Info("build feature matrices",
		zap.Int("n_users", features.Users.Rows()),
		zap.Int("n_user_features", features.Users.Cols()),
		zap.Int("n_items", features.Items.Rows()),
		zap.Int("n_item_features", features.Items.Cols()))
	return features, nil
}

// UserRow returns the row of a user in the user matrix.
func (f *Features) UserRow(userId string) (int, error) {
	u, err := f.userDict.Index(userId)
	return u, errors.Annotate(err, "user")
}

// ItemRow returns the row of an item in the item matrix.
func (f *Features) ItemRow(itemId string) (int, error) {
	i, err := f.itemDict.Index(itemId)
	return i, errors.Annotate(err, "item")
}

// AlignedWith checks that row k of each matrix describes the k-th user and
// item of the interaction matrix.
func (f *Features) AlignedWith(interactions *Interactions) error {
	if f.Users.Rows() != interactions.CountUsers() {
		return errors.NotValidf("user feature matrix of %d rows for %d users",
			f.Users.Rows(), interactions.CountUsers())
	}
	if f.Items.Rows() != interactions.CountItems() {
		return errors.NotValidf("item feature matrix of %d rows for %d items",
			f.Items.Rows(), interactions.CountItems())
	}
	if !slices.Equal(f.userDict.Strings(), interactions.UserIds()) {
		return errors.NotValidf("user feature rows in a different order than users")
	}
	if !slices.Equal(f.itemDict.Strings(), interactions.ItemIds()) {
		return errors.NotValidf("item feature rows in a different order than items")
	}
	return nil
}

// BuildItemDict maps item ids to names, the last name seen winning.
func BuildItemDict(frame *Frame, schema Schema) (*ItemDict, error) {
	ids, err := frame.Column(schema.ItemID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	names, err := frame.Column(schema.ItemName)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return NewItemDict(ids, names)
}
