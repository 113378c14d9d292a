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

package base

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

func TestRandomGenerator_NormalMatrix(t *testing.T) {
	rng := NewRandomGenerator(0)
	m := rng.NormalMatrix(3, 4, 0, 0.01)
	assert.Len(t, m, 3)
	for _, row := range m {
		assert.Len(t, row, 4)
	}
	// same seed, same values
	assert.Equal(t, m, NewRandomGenerator(0).NormalMatrix(3, 4, 0, 0.01))
}

func TestRandomGenerator_BinomialVector(t *testing.T) {
	rng := NewRandomGenerator(0)
	assert.Equal(t, make([]float32, 10), rng.BinomialVector(10, 0))
	ones := rng.BinomialVector(10, 1)
	for _, v := range ones {
		assert.Equal(t, float32(1), v)
	}
}

func TestRandomGenerator_SampleInt32(t *testing.T) {
	rng := NewRandomGenerator(0)
	exclude := mapset.NewSet[int32](0, 1, 2)
	sampled := rng.SampleInt32(0, 10, 3, exclude)
	assert.Len(t, sampled, 3)
	for _, v := range sampled {
		assert.False(t, exclude.Contains(v))
		assert.GreaterOrEqual(t, v, int32(0))
		assert.Less(t, v, int32(10))
	}
	// request more than available
	sampled = rng.SampleInt32(0, 5, 10, exclude)
	assert.ElementsMatch(t, []int32{3, 4}, sampled)
	// several thread-unsafe exclude sets
	feedback := mapset.NewThreadUnsafeSet[int32](0, 2)
	assert.Equal(t, []int32{1}, rng.SampleInt32(0, 4, 1, feedback, mapset.NewThreadUnsafeSet[int32](3)))
	assert.Empty(t, rng.SampleInt32(0, 2, 1, mapset.NewThreadUnsafeSet[int32](0, 1)))
	for i := 0; i < 100; i++ {
		sampled = rng.SampleInt32(0, 100, 1, feedback)
		assert.Len(t, sampled, 1)
		assert.False(t, feedback.Contains(sampled[0]))
	}
}
