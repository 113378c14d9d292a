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

func newToyFrame(t *testing.T) *Frame {
	frame, err := NewFrame("user_id", "business_id", "stars", "average_stars", "name_business", "state", "categories")
	require.NoError(t, err)
	require.NoError(t, frame.Append("u1", "b1", "5", "4.3", "Cafe", "AZ", "Coffee & Tea, Food"))
	require.NoError(t, frame.Append("u1", "b2", "2", "4.3", "Diner", "NV", "Diners"))
	require.NoError(t, frame.Append("u2", "b1", "4", "3.1", "Cafe", "AZ", "Coffee & Tea, Food"))
	require.NoError(t, frame.Append("u3", "b3", "4", "2.6", "Bakery", "AZ", "Food, Bakeries"))
	require.NoError(t, frame.Append("u2", "b3", "1", "3.1", "Bakery", "AZ", "Food, Bakeries"))
	return frame
}

func TestFrame(t *testing.T) {
	frame := newToyFrame(t)
	assert.Equal(t, 5, frame.Len())
	assert.True(t, frame.HasColumn("stars"))
	assert.False(t, frame.HasColumn("text"))
	assert.Equal(t, []string{"u1", "b2", "2", "4.3", "Diner", "NV", "Diners"}, frame.Row(1))

	cell, err := frame.Get(3, "name_business")
	assert.NoError(t, err)
	assert.Equal(t, "Bakery", cell)
	_, err = frame.Get(0, "text")
	assert.True(t, errors.Is(err, errors.NotValid))

	v, err := frame.Float(0, "average_stars")
	assert.NoError(t, err)
	assert.Equal(t, float32(4.3), v)
	_, err = frame.Float(0, "name_business")
	assert.True(t, errors.Is(err, errors.NotValid))

	users, err := frame.Column("user_id")
	assert.NoError(t, err)
	assert.Equal(t, []string{"u1", "u1", "u2", "u3", "u2"}, users)

	assert.True(t, errors.Is(frame.Append("u4"), errors.NotValid))
	_, err = NewFrame("a", "a")
	assert.True(t, errors.Is(err, errors.AlreadyExists))
}

func TestFrame_DropDuplicates(t *testing.T) {
	frame := newToyFrame(t)
	users, err := frame.DropDuplicates("user_id")
	assert.NoError(t, err)
	assert.Equal(t, 3, users.Len())
	ids, _ := users.Column("user_id")
	assert.Equal(t, []string{"u1", "u2", "u3"}, ids)
	items, _ := users.Column("business_id")
	assert.Equal(t, []string{"b1", "b1", "b3"}, items)
	_, err = frame.DropDuplicates("text")
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestFrame_SetColumn(t *testing.T) {
	frame := newToyFrame(t)
	head := frame.Head(2)
	assert.Equal(t, 2, head.Len())
	assert.NoError(t, head.SetColumn("stars", []string{"1", "1"}))
	assert.NoError(t, head.SetColumn("flag", []string{"x", "y"}))
	stars, _ := head.Column("stars")
	assert.Equal(t, []string{"1", "1"}, stars)
	// the parent frame is untouched
	stars, _ = frame.Column("stars")
	assert.Equal(t, []string{"5", "2", "4", "4", "1"}, stars)
	assert.False(t, frame.HasColumn("flag"))
	assert.True(t, errors.Is(head.SetColumn("flag", []string{"x"}), errors.NotValid))
	assert.Equal(t, 0, frame.Head(-1).Len())
	assert.Equal(t, 5, frame.Head(10).Len())
}

func TestFrame_Select(t *testing.T) {
	frame := newToyFrame(t)
	selected, err := frame.Select("business_id", "user_id")
	assert.NoError(t, err)
	assert.Equal(t, []string{"business_id", "user_id"}, selected.Columns())
	assert.Equal(t, []string{"b1", "u1"}, selected.Row(0))
	_, err = frame.Select("text")
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestFrame_LeftJoin(t *testing.T) {
	review, err := NewFrame("user_id", "business_id", "stars")
	require.NoError(t, err)
	require.NoError(t, review.Append("u1", "b1", "5"))
	require.NoError(t, review.Append("u2", "b1", "3"))
	require.NoError(t, review.Append("u9", "b2", "4"))
	user, err := NewFrame("user_id", "name", "average_stars")
	require.NoError(t, err)
	require.NoError(t, user.Append("u1", "Alice", "4.5"))
	require.NoError(t, user.Append("u2", "Bob", "3.2"))
	business, err := NewFrame("business_id", "name", "stars")
	require.NoError(t, err)
	require.NoError(t, business.Append("b1", "Cafe", "4.0"))
	require.NoError(t, business.Append("b2", "Diner", "3.5"))

	reviewUser, err := review.LeftJoin(user, "user_id", "_user")
	assert.NoError(t, err)
	assert.Equal(t, []string{"user_id", "business_id", "stars", "name", "average_stars"}, reviewUser.Columns())
	assert.Equal(t, []string{"u9", "b2", "4", "", ""}, reviewUser.Row(2))

	joined, err := reviewUser.LeftJoin(business, "business_id", "_business")
	assert.NoError(t, err)
	assert.Equal(t, []string{"user_id", "business_id", "stars", "name", "average_stars", "name_business", "stars_business"}, joined.Columns())
	assert.Equal(t, 3, joined.Len())
	assert.Equal(t, []string{"u1", "b1", "5", "Alice", "4.5", "Cafe", "4.0"}, joined.Row(0))
	assert.Equal(t, []string{"u9", "b2", "4", "", "", "Diner", "3.5"}, joined.Row(2))

	// one output row per match
	duplicated, err := NewFrame("user_id", "name")
	require.NoError(t, err)
	require.NoError(t, duplicated.Append("u1", "A"))
	require.NoError(t, duplicated.Append("u1", "B"))
	joined, err = review.LeftJoin(duplicated, "user_id", "_user")
	assert.NoError(t, err)
	assert.Equal(t, 4, joined.Len())

	_, err = review.LeftJoin(business, "user_id", "_business")
	assert.True(t, errors.Is(err, errors.NotValid))
}
