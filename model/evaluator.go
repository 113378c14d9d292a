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
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/juju/errors"
	"github.com/yelpify/yelpify/base"
	"github.com/yelpify/yelpify/common/floats"
	"github.com/yelpify/yelpify/common/parallel"
	"gonum.org/v1/gonum/stat"
	"modernc.org/sortutil"
)

// AUC is the probability that a positive is scored above a negative.
func AUC(posPrediction, negPrediction []float32) float32 {
	sort.Sort(sortutil.Float32Slice(posPrediction))
	sort.Sort(sortutil.Float32Slice(negPrediction))
	var sum float32
	var nPos int
	for pPos := range posPrediction {
		// find the negative sample with the greatest prediction less than current positive sample
		for nPos < len(negPrediction) && negPrediction[nPos] < posPrediction[pPos] {
			nPos++
		}
		// add the number of negative samples have less prediction than current positive sample
		sum += float32(nPos)
	}
	if len(posPrediction)*len(negPrediction) == 0 {
		return 0
	}
	return sum / float32(len(posPrediction)*len(negPrediction))
}

// Evaluate computes the mean AUC over users with at least one interaction in
// testSet. For every such user, the items of the user in testSet are positives
// and all other items are negatives. Users without negatives are skipped.
func Evaluate(ctx context.Context, fm *FM, testSet Dataset, jobs int) (Score, error) {
	if fm.Invalid() {
		return Score{}, errors.NotValidf("unfitted model")
	}
	if err := testSet.Validate(); err != nil {
		return Score{}, errors.Trace(err)
	}
	if testSet.Interactions.CountUsers() != fm.nUsers || testSet.Interactions.CountItems() != fm.nItems {
		return Score{}, errors.NotValidf("test set of %dx%d for a model of %dx%d",
			testSet.Interactions.CountUsers(), testSet.Interactions.CountItems(), fm.nUsers, fm.nItems)
	}
	jobs = max(jobs, 1)
	// Item representations are shared by all users
	itemFactor := base.NewMatrix32(fm.nItems, fm.nFactors)
	itemBias := make([]float32, fm.nItems)
	for i := 0; i < fm.nItems; i++ {
		item := testSet.ItemEntity(i)
		if err := checkEntity("item", item, fm.nItems, fm.nItemFeatures); err != nil {
			return Score{}, err
		}
		itemBias[i] = fm.itemRepresentation(item, itemFactor[i])
	}
	userFactor := base.NewMatrix32(jobs, fm.nFactors)
	aucs := make([]float64, fm.nUsers)
	evaluated := make([]bool, fm.nUsers)
	marks := make([]*bitset.BitSet, jobs)
	for i := range marks {
		marks[i] = bitset.New(uint(fm.nItems))
	}
	err := parallel.Parallel(ctx, fm.nUsers, jobs, func(workerId, userIndex int) error {
		items, _ := testSet.Interactions.UserFeedback(userIndex)
		if len(items) == 0 || len(items) >= fm.nItems {
			return nil
		}
		user := testSet.UserEntity(userIndex)
		if err := checkEntity("user", user, fm.nUsers, fm.nUserFeatures); err != nil {
			return err
		}
		userBias := fm.userRepresentation(user, userFactor[workerId])
		mark := marks[workerId]
		mark.ClearAll()
		for _, i := range items {
			mark.Set(uint(i))
		}
		posPrediction := make([]float32, 0, len(items))
		negPrediction := make([]float32, 0, fm.nItems-len(items))
		for i := 0; i < fm.nItems; i++ {
			score := userBias + itemBias[i] + floats.Dot(userFactor[workerId], itemFactor[i])
			if mark.Test(uint(i)) {
				posPrediction = append(posPrediction, score)
			} else {
				negPrediction = append(negPrediction, score)
			}
		}
		aucs[userIndex] = float64(AUC(posPrediction, negPrediction))
		evaluated[userIndex] = true
		return nil
	})
	if err != nil {
		return Score{}, errors.Trace(err)
	}
	var values []float64
	for u := 0; u < fm.nUsers; u++ {
		if evaluated[u] {
			values = append(values, aucs[u])
		}
	}
	if len(values) == 0 {
		return Score{}, nil
	}
	return Score{AUC: float32(stat.Mean(values, nil))}, nil
}
