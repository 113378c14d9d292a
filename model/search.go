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
	"sync"

	"github.com/c-bata/goptuna"
	"github.com/c-bata/goptuna/tpe"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/yelpify/yelpify/base/log"
	"go.uber.org/zap"
)

// SearchResult is the best trial of a search.
type SearchResult struct {
	Params Params
	Score  Score
	Trials []Trial
}

// Trial is one evaluated set of hyper-parameters.
type Trial struct {
	Params Params
	Score  Score
}

// ModelSearch is a goptuna objective fitting factorization machines.
type ModelSearch struct {
	ctx      context.Context
	params   Params
	trainSet Dataset
	testSet  Dataset
	config   *FitConfig

	mu     sync.Mutex
	result SearchResult
}

// NewModelSearch creates a search. Suggested values override params.
func NewModelSearch(ctx context.Context, params Params, trainSet, testSet Dataset, config *FitConfig) *ModelSearch {
	return &ModelSearch{
		ctx:      ctx,
		params:   params,
		trainSet: trainSet,
		testSet:  testSet,
		config:   config.LoadDefaultIfNil(),
	}
}

func (ms *ModelSearch) Objective(trial goptuna.Trial) (float64, error) {
	m := NewFM(ms.params)
	params := ms.params.Overwrite(m.SuggestParams(trial))
	m.SetParams(params)
	score, err := m.Fit(ms.ctx, ms.trainSet, &ms.testSet, ms.config)
	if err != nil {
		return 0, errors.Trace(err)
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.result.Trials = append(ms.result.Trials, Trial{Params: params, Score: score})
	if ms.result.Params == nil || score.BetterThan(ms.result.Score) {
		ms.result.Params = params
		ms.result.Score = score
	}
	return float64(score.AUC), nil
}

func (ms *ModelSearch) Result() SearchResult {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.result
}

// Search runs a TPE study of nTrials trials maximizing test AUC.
func Search(ctx context.Context, params Params, trainSet, testSet Dataset, nTrials int, config *FitConfig) (SearchResult, error) {
	name := "yelpify-" + uuid.NewString()
	log.Logger().Info("start model search",
		zap.String("study", name),
		zap.Int("n_trials", nTrials))
	study, err := goptuna.CreateStudy(name,
		goptuna.StudyOptionDirection(goptuna.StudyDirectionMaximize),
		goptuna.StudyOptionSampler(tpe.NewSampler()))
	if err != nil {
		return SearchResult{}, errors.Trace(err)
	}
	search := NewModelSearch(ctx, params, trainSet, testSet, config)
	if err = study.Optimize(search.Objective, nTrials); err != nil {
		return SearchResult{}, errors.Trace(err)
	}
	result := search.Result()
	log.Logger().Info("complete model search",
		append([]zap.Field{zap.Any("params", result.Params)}, result.Score.ZapFields()...)...)
	return result, nil
}
