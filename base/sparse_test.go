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

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestSparseVector(t *testing.T) {
	vec := NewSparseVectorFromDense([]float32{0, 1, 0, 2})
	assert.Equal(t, 2, vec.Len())
	assert.Equal(t, []int32{1, 3}, vec.Indices)
	assert.Equal(t, []float32{1, 2}, vec.Values)
	var sum float32
	vec.ForEach(func(_ int, index int32, value float32) {
		sum += float32(index) * value
	})
	assert.Equal(t, float32(7), sum)
}

func TestSparseMatrix(t *testing.T) {
	m := NewSparseMatrix(3)
	assert.NoError(t, m.AppendRow([]float32{1, 0, 0}))
	assert.NoError(t, m.AppendRow([]float32{0, 0, 0}))
	assert.NoError(t, m.AppendRow([]float32{0, 2, 3}))
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 0, m.Row(1).Len())
	assert.Equal(t, []int32{1, 2}, m.Row(2).Indices)
	assert.Equal(t, []float32{0, 2, 3}, m.Dense(2))
	assert.Equal(t, []float32{1, 0, 0}, m.Dense(0))

	err := m.AppendRow([]float32{1, 2})
	assert.True(t, errors.Is(err, errors.NotValid))
	assert.Equal(t, 3, m.Rows())

	var empty *SparseMatrix
	assert.Zero(t, empty.Rows())
	assert.Zero(t, empty.Cols())
}
