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
	"github.com/juju/errors"
	"github.com/yelpify/yelpify/base"
	"github.com/yelpify/yelpify/model"
)

// Lookup identifies the target of a ranking: an existing user or item by its
// row in the interaction matrix, or a new one by its feature vector.
type Lookup struct {
	row      int
	features []float32
	isNew    bool
}

// Existing refers to the row of a known user or item.
func Existing(row int) Lookup {
	return Lookup{row: row}
}

// New describes an unseen user or item by a dense feature vector.
func New(features []float32) Lookup {
	return Lookup{features: append([]float32(nil), features...), isNew: true}
}

// Row returns the row of an existing target.
func (l Lookup) Row() (int, bool) {
	return l.row, !l.isNew
}

// entity resolves the lookup against a feature matrix with n rows. matrix is
// nil when the model has no side features.
func (l Lookup) entity(side string, n int, matrix *base.SparseMatrix) (model.Entity, error) {
	if !l.isNew {
		if l.row < 0 || l.row >= n {
			return model.Entity{}, errors.NotFoundf("%s row %d", side, l.row)
		}
		if matrix == nil {
			return model.Known(l.row, base.SparseVector{}), nil
		}
		return model.Known(l.row, matrix.Row(l.row)), nil
	}
	if matrix == nil {
		return model.Entity{}, errors.NotSupportedf("new %s without %s features", side, side)
	}
	if len(l.features) != matrix.Cols() {
		return model.Entity{}, errors.NotValidf("%s feature vector of dimension %d, expect %d",
			side, len(l.features), matrix.Cols())
	}
	return model.Unknown(base.NewSparseVectorFromDense(l.features)), nil
}
