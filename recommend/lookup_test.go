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

package recommend

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/yelpify/yelpify/base"
)

func TestLookup(t *testing.T) {
	row, ok := Existing(2).Row()
	assert.True(t, ok)
	assert.Equal(t, 2, row)

	// the feature vector is copied
	features := []float32{0, 1}
	lookup := New(features)
	features[0] = 5
	_, ok = lookup.Row()
	assert.False(t, ok)
	matrix := base.NewSparseMatrix(2)
	assert.NoError(t, matrix.AppendRow([]float32{0, 0}))
	e, err := lookup.entity("user", 1, matrix)
	assert.NoError(t, err)
	assert.Equal(t, []int32{1}, e.Features.Indices)
	assert.Equal(t, []float32{1}, e.Features.Values)
}

func TestLookup_Entity(t *testing.T) {
	matrix := base.NewSparseMatrix(2)
	assert.NoError(t, matrix.AppendRow([]float32{1, 0}))
	assert.NoError(t, matrix.AppendRow([]float32{0, 3}))

	e, err := Existing(1).entity("user", 2, matrix)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), e.Row)
	assert.Equal(t, []int32{1}, e.Features.Indices)
	_, err = Existing(2).entity("user", 2, matrix)
	assert.True(t, errors.Is(err, errors.NotFound))

	e, err = New([]float32{0, 2}).entity("user", 2, matrix)
	assert.NoError(t, err)
	assert.True(t, e.IsNew())
	assert.Equal(t, []float32{2}, e.Features.Values)
	_, err = New([]float32{1}).entity("user", 2, matrix)
	assert.True(t, errors.Is(err, errors.NotValid))
	_, err = New([]float32{1}).entity("user", 2, nil)
	assert.True(t, errors.Is(err, errors.NotSupported))
}

func TestReport(t *testing.T) {
	report := new(Report).Add("Known Likes", []string{"Cafe"}).Add("Recommended Items", nil)
	assert.Equal(t, "Known Likes:\n1- Cafe\nRecommended Items:\n", report.String())
}

func TestRandomFeatures(t *testing.T) {
	rng := base.NewRandomGenerator(0)
	features := RandomFeatures(rng, 89, 0.05)
	assert.Len(t, features, 89)
	for _, v := range features {
		assert.Contains(t, []float32{0, 1}, v)
	}
}
