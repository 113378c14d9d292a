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
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFeatures(t *testing.T) {
	frame := newToyFrame(t)
	_, err := ExpandCategories(frame, "categories", 0)
	require.NoError(t, err)
	schema := DefaultSchema().WithCategories(frame)
	assert.Equal(t, []string{"Food", "Coffee & Tea", "Bakeries", "Diners"}, schema.Categories)

	features, err := BuildFeatures(frame, schema)
	require.NoError(t, err)
	assert.Equal(t, 3, features.Users.Rows())
	assert.Equal(t, 1, features.Users.Cols())
	assert.Equal(t, []float32{4.3}, features.Users.Dense(0))
	assert.Equal(t, []float32{3.1}, features.Users.Dense(1))
	assert.Equal(t, []float32{2.6}, features.Users.Dense(2))
	assert.Equal(t, 3, features.Items.Rows())
	assert.Equal(t, 4, features.Items.Cols())
	assert.Equal(t, []float32{1, 1, 0, 0}, features.Items.Dense(0))
	assert.Equal(t, []float32{0, 0, 0, 1}, features.Items.Dense(1))
	assert.Equal(t, []float32{1, 0, 1, 0}, features.Items.Dense(2))
	assert.Equal(t, []string{"average_stars"}, features.UserColumns)
	assert.Equal(t, schema.Categories, features.ItemColumns)

	row, err := features.UserRow("u3")
	assert.NoError(t, err)
	assert.Equal(t, 2, row)
	row, err = features.ItemRow("b2")
	assert.NoError(t, err)
	assert.Equal(t, 1, row)
	_, err = features.UserRow("u9")
	assert.True(t, errors.Is(err, errors.NotFound))
	_, err = features.ItemRow("b9")
	assert.True(t, errors.Is(err, errors.NotFound))

	interactions, err := BuildInteractions(frame, schema)
	require.NoError(t, err)
	assert.NoError(t, features.AlignedWith(interactions))
	head, err := BuildInteractions(frame.Head(1), schema)
	require.NoError(t, err)
	assert.True(t, errors.Is(features.AlignedWith(head), errors.NotValid))

	// same users and items in another order
	reversed, err := NewFrame(frame.Columns()...)
	require.NoError(t, err)
	for i := frame.Len() - 1; i >= 0; i-- {
		require.NoError(t, reversed.Append(frame.Row(i)...))
	}
	shuffled, err := BuildInteractions(reversed, schema)
	require.NoError(t, err)
	assert.Equal(t, interactions.CountUsers(), shuffled.CountUsers())
	assert.Equal(t, interactions.CountItems(), shuffled.CountItems())
	assert.True(t, errors.Is(features.AlignedWith(shuffled), errors.NotValid))
}

func TestBuildFeatures_EmptyCells(t *testing.T) {
	frame := newToyFrame(t)
	require.NoError(t, frame.Append("u4", "b4", "3", "", "Bar", "AZ", ""))
	_, err := ExpandCategories(frame, "categories", 0)
	require.NoError(t, err)
	schema := DefaultSchema().WithCategories(frame)
	features, err := BuildFeatures(frame, schema)
	require.NoError(t, err)
	row, err := features.UserRow("u4")
	require.NoError(t, err)
	assert.Equal(t, []float32{0}, features.Users.Dense(row))
	row, err = features.ItemRow("b4")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 0}, features.Items.Dense(row))

	// non-empty cells must still be numbers
	stars, err := frame.Column("average_stars")
	require.NoError(t, err)
	stars[5] = "n/a"
	require.NoError(t, frame.SetColumn("average_stars", stars))
	_, err = BuildFeatures(frame, schema)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestBuildFeatures_MissingColumn(t *testing.T) {
	frame := newToyFrame(t)
	schema := DefaultSchema()
	schema.Categories = []string{"Nightlife"}
	_, err := BuildFeatures(frame, schema)
	assert.True(t, errors.Is(err, errors.NotValid))

	schema = DefaultSchema()
	schema.UserNumeric = "review_count"
	_, err = BuildFeatures(frame, schema)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestBuildItemDict(t *testing.T) {
	frame := newToyFrame(t)
	dict, err := BuildItemDict(frame, DefaultSchema())
	require.NoError(t, err)
	assert.Equal(t, 3, dict.Count())
	name, err := dict.Name("b3")
	assert.NoError(t, err)
	assert.Equal(t, "Bakery", name)
}
