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

package model

import (
	"context"
	"fmt"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yelpify/yelpify/dataset"
)

func TestAUC(t *testing.T) {
	assert.Equal(t, float32(1), AUC([]float32{3, 4}, []float32{1, 2}))
	assert.Equal(t, float32(0), AUC([]float32{1, 2}, []float32{3, 4}))
	assert.Equal(t, float32(0.5), AUC([]float32{1, 3}, []float32{2, 4}))
	assert.Equal(t, float32(0), AUC(nil, []float32{1}))
}

func TestEvaluate(t *testing.T) {
	data := newBlockDataset(t, 8, 8)
	fm := NewFM(Params{NFactors: 4, NEpochs: 1})
	_, err := Evaluate(context.Background(), fm, data, 1)
	assert.True(t, errors.Is(err, errors.NotValid))

	_, err = fm.Fit(context.Background(), data, nil, nil)
	require.NoError(t, err)
	score1, err := Evaluate(context.Background(), fm, data, 1)
	require.NoError(t, err)
	score4, err := Evaluate(context.Background(), fm, data, 4)
	require.NoError(t, err)
	assert.Equal(t, score1, score4)
	assert.GreaterOrEqual(t, score1.AUC, float32(0))
	assert.LessOrEqual(t, score1.AUC, float32(1))

	other := newBlockDataset(t, 6, 8)
	_, err = Evaluate(context.Background(), fm, other, 1)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestEvaluate_UserWithoutNegatives(t *testing.T) {
	data := newBlockDataset(t, 8, 8)
	fm := newTestFM()
	_, err := fm.Fit(context.Background(), data, nil, nil)
	require.NoError(t, err)

	// u0 likes every item
	full := newBlockDataset(t, 8, 8)
	for i := 4; i < 8; i++ {
		require.NoError(t, full.Interactions.Add("u0", fmt.Sprintf("i%d", i), 1))
	}
	items, _ := full.Interactions.UserFeedback(0)
	require.Len(t, items, 8)

	// u0 likes nothing
	userDict, itemDict := dataset.NewFreqDict(), dataset.NewFreqDict()
	for u := 0; u < 8; u++ {
		userDict.NotCount(fmt.Sprintf("u%d", u))
	}
	for i := 0; i < 8; i++ {
		itemDict.NotCount(fmt.Sprintf("i%d", i))
	}
	others := dataset.NewInteractions(userDict, itemDict)
	for u := 1; u < 8; u++ {
		items, _ := data.Interactions.UserFeedback(u)
		for _, i := range items {
			require.NoError(t, others.Add(fmt.Sprintf("u%d", u), fmt.Sprintf("i%d", i), 1))
		}
	}

	fullScore, err := Evaluate(context.Background(), fm, full, 1)
	require.NoError(t, err)
	othersScore, err := Evaluate(context.Background(), fm, Dataset{
		Interactions: others,
		UserFeatures: data.UserFeatures,
		ItemFeatures: data.ItemFeatures,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, othersScore, fullScore)
	assert.Greater(t, fullScore.AUC, float32(0.5))
}
