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

	"github.com/juju/errors"
	"github.com/yelpify/yelpify/base/log"
	"github.com/yelpify/yelpify/dataset"
	"go.uber.org/zap"
)

// TrainConfig controls Train.
type TrainConfig struct {
	Hybrid    bool    // fit with user and item side features
	Evaluate  bool    // report train and test AUC on a random split first
	TestRatio float64 // share of rows held out for evaluation
	Seed      int64   // seed of the evaluation split
	Params    Params
	Fit       *FitConfig
}

func NewTrainConfig() *TrainConfig {
	return &TrainConfig{
		TestRatio: 0.2,
		Params:    Params{},
		Fit:       NewFitConfig(),
	}
}

func (config *TrainConfig) LoadDefaultIfNil() *TrainConfig {
	if config == nil {
		return NewTrainConfig()
	}
	return config
}

// Result is everything needed to rank with a trained model.
type Result struct {
	Model        *FM
	Interactions *dataset.Interactions
	Features     *dataset.Features // nil for collaborative filtering
	Items        *dataset.ItemDict
	TrainScore   *Score // set when evaluation was requested
	TestScore    *Score // set when evaluation was requested
}

// Dataset returns the data the model was fitted on.
func (r *Result) Dataset() Dataset {
	d := Dataset{Interactions: r.Interactions}
	if r.Features != nil {
		d.UserFeatures = r.Features.Users
		d.ItemFeatures = r.Features.Items
	}
	return d
}

// Train fits a model on a review frame. Interactions, feature matrices and
// dictionaries are all derived from the same frame.
func Train(ctx context.Context, frame *dataset.Frame, schema dataset.Schema, config *TrainConfig) (*Result, error) {
	config = config.LoadDefaultIfNil()
	result := &Result{}
	var err error
	if config.Hybrid {
		schema = schema.WithCategories(frame)
		if result.Features, err = dataset.BuildFeatures(frame, schema); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if config.Evaluate {
		log.Logger().Info("evaluating model")
		trainScore, testScore, err := evaluateSplit(ctx, frame, schema, result.Features, config)
		if err != nil {
			return nil, errors.Trace(err)
		}
		result.TrainScore, result.TestScore = &trainScore, &testScore
		log.Logger().Info("model evaluation",
			zap.Float32("train_auc", trainScore.AUC),
			zap.Float32("test_auc", testScore.AUC))
	}

	log.Logger().Info("training model", zap.Bool("hybrid", config.Hybrid))
	if result.Interactions, err = dataset.BuildInteractions(frame, schema); err != nil {
		return nil, errors.Trace(err)
	}
	if result.Items, err = dataset.BuildItemDict(frame, schema); err != nil {
		return nil, errors.Trace(err)
	}
	if result.Features != nil {
		if err = result.Features.AlignedWith(result.Interactions); err != nil {
			return nil, errors.Trace(err)
		}
	}
	result.Model = NewFM(config.Params)
	if _, err = result.Model.Fit(ctx, result.Dataset(), nil, config.Fit); err != nil {
		return nil, errors.Trace(err)
	}
	return result, nil
}

// SplitDataset randomly holds out a share of the rows of a frame. Both parts
// share the indices and the feature matrices of the whole frame.
func SplitDataset(frame *dataset.Frame, schema dataset.Schema, features *dataset.Features, testRatio float64, seed int64) (Dataset, Dataset, error) {
	train, test, err := dataset.SplitInteractions(frame, schema, testRatio, seed)
	if err != nil {
		return Dataset{}, Dataset{}, errors.Trace(err)
	}
	trainSet, testSet := Dataset{Interactions: train}, Dataset{Interactions: test}
	if features != nil {
		if err = features.AlignedWith(train); err != nil {
			return Dataset{}, Dataset{}, errors.Trace(err)
		}
		trainSet.UserFeatures, trainSet.ItemFeatures = features.Users, features.Items
		testSet.UserFeatures, testSet.ItemFeatures = features.Users, features.Items
	}
	return trainSet, testSet, nil
}

// evaluateSplit fits a model on a random split and scores both parts.
func evaluateSplit(ctx context.Context, frame *dataset.Frame, schema dataset.Schema, features *dataset.Features, config *TrainConfig) (Score, Score, error) {
	trainSet, testSet, err := SplitDataset(frame, schema, features, config.TestRatio, config.Seed)
	if err != nil {
		return Score{}, Score{}, errors.Trace(err)
	}
	fm := NewFM(config.Params)
	if _, err = fm.Fit(ctx, trainSet, nil, config.Fit); err != nil {
		return Score{}, Score{}, errors.Trace(err)
	}
	jobs := config.Fit.LoadDefaultIfNil().Jobs
	trainScore, err := Evaluate(ctx, fm, trainSet, jobs)
	if err != nil {
		return Score{}, Score{}, errors.Trace(err)
	}
	testScore, err := Evaluate(ctx, fm, testSet, jobs)
	if err != nil {
		return Score{}, Score{}, errors.Trace(err)
	}
	return trainScore, testScore, nil
}
