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
	"github.com/juju/errors"
)

// SparseVector is the data structure for the sparse vector.
type SparseVector struct {
	Indices []int32
	Values  []float32
}

// NewSparseVectorFromDense keeps the non-zero entries of a dense vector.
func NewSparseVectorFromDense(dense []float32) SparseVector {
	var vec SparseVector
	for i, v := range dense {
		if v != 0 {
			vec.Add(int32(i), v)
		}
	}
	return vec
}

// Add a new item.
func (vec *SparseVector) Add(index int32, value float32) {
	vec.Indices = append(vec.Indices, index)
	vec.Values = append(vec.Values, value)
}

// Len returns the number of items.
func (vec SparseVector) Len() int {
	return len(vec.Values)
}

// ForEach iterates items in the sparse vector.
func (vec SparseVector) ForEach(f func(i int, index int32, value float32)) {
	for i := range vec.Indices {
		f(i, vec.Indices[i], vec.Values[i])
	}
}

// SparseMatrix is a row-major compressed sparse matrix. Row i holds the
// entries Indices[IndPtr[i]:IndPtr[i+1]].
type SparseMatrix struct {
	IndPtr  []int
	Indices []int32
	Values  []float32
	cols    int
}

// NewSparseMatrix creates an empty matrix with a fixed number of columns.
func NewSparseMatrix(cols int) *SparseMatrix {
	return &SparseMatrix{IndPtr: []int{0}, cols: cols}
}

// AppendRow appends a dense row. Zero entries are not stored.
func (m *SparseMatrix) AppendRow(dense []float32) error {
	if len(dense) != m.cols {
		return errors.NotValidf("row of %d columns for matrix of %d columns", len(dense), m.cols)
	}
	for j, v := range dense {
		if v != 0 {
			m.Indices = append(m.Indices, int32(j))
			m.Values = append(m.Values, v)
		}
	}
	m.IndPtr = append(m.IndPtr, len(m.Indices))
	return nil
}

// Rows returns the number of rows.
func (m *SparseMatrix) Rows() int {
	if m == nil {
		return 0
	}
	return len(m.IndPtr) - 1
}

// Cols returns the number of columns.
func (m *SparseMatrix) Cols() int {
	if m == nil {
		return 0
	}
	return m.cols
}

// Row returns a view of the i-th row. The view shares memory with the matrix.
func (m *SparseMatrix) Row(i int) SparseVector {
	begin, end := m.IndPtr[i], m.IndPtr[i+1]
	return SparseVector{
		Indices: m.Indices[begin:end],
		Values:  m.Values[begin:end],
	}
}

// Dense returns the i-th row as a dense slice.
func (m *SparseMatrix) Dense(i int) []float32 {
	ret := make([]float32, m.cols)
	m.Row(i).ForEach(func(_ int, index int32, value float32) {
		ret[index] = value
	})
	return ret
}
