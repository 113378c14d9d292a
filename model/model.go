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
	"github.com/c-bata/goptuna"
	"github.com/juju/errors"
	"github.com/yelpify/yelpify/base"
	"github.com/yelpify/yelpify/dataset"
	"go.uber.org/zap"
)

// Model is the interface for all models. Any model in this
// package should implement it.
type Model interface {
	// Set parameters.
	SetParams(params Params)
	// Get parameters.
	GetParams() Params
	// Suggest parameters for a search trial.
	SuggestParams(trial goptuna.Trial) Params
	// Clear model weights
	Clear()
}

// BaseModel model must be included by every recommendation model. Hyper-parameters,
// random generator and random state are managed the BaseModel model.
type BaseModel struct {
	Params    Params               // Hyper-parameters
	rng       base.RandomGenerator // Random generator
	randState int64                // Random seed
}

// SetParams sets hyper-parameters for the BaseModel model.
func (model *BaseModel) SetParams(params Params) {
	model.Params = params
	model.randState = model.Params.GetInt64(RandomState, 0)
	model.rng = base.NewRandomGenerator(model.randState)
}

// GetParams returns all hyper-parameters.
func (model *BaseModel) GetParams() Params {
	return model.Params
}

// Entity is a user or an item as seen by a model. Row is the identity row in
// the interaction matrix, or -1 for an entity the model has never seen, which
// is then described by its features only.
type Entity struct {
	Row      int32
	Features base.SparseVector
}

// Known returns an entity with an identity row.
func Known(row int, features base.SparseVector) Entity {
	return Entity{Row: int32(row), Features: features}
}

// Unknown returns an entity described only by its features.
func Unknown(features base.SparseVector) Entity {
	return Entity{Row: -1, Features: features}
}

// IsNew returns true if the entity has no identity row.
func (e Entity) IsNew() bool {
	return e.Row < 0
}

// Dataset is the training input of a model: the interaction matrix plus the
// optional feature matrices aligned with its axes.
type Dataset struct {
	Interactions *dataset.Interactions
	UserFeatures *base.SparseMatrix // nil without side features
	ItemFeatures *base.SparseMatrix // nil without side features
}

// Validate checks the feature matrices against the interaction matrix.
func (d Dataset) Validate() error {
	if d.Interactions == nil {
		return errors.NotValidf("dataset without interactions")
	}
	if d.UserFeatures != nil && d.UserFeatures.Rows() != d.Interactions.CountUsers() {
		return errors.NotValidf("user feature matrix of %d rows for %d users",
			d.UserFeatures.Rows(), d.Interactions.CountUsers())
	}
	if d.ItemFeatures != nil && d.ItemFeatures.Rows() != d.Interactions.CountItems() {
		return errors.NotValidf("item feature matrix of %d rows for %d items",
			d.ItemFeatures.Rows(), d.Interactions.CountItems())
	}
	return nil
}

// UserEntity returns the u-th user with its feature row.
func (d Dataset) UserEntity(u int) Entity {
	if d.UserFeatures == nil {
		return Known(u, base.SparseVector{})
	}
	return Known(u, d.UserFeatures.Row(u))
}

// ItemEntity returns the i-th item with its feature row.
func (d Dataset) ItemEntity(i int) Entity {
	if d.ItemFeatures == nil {
		return Known(i, base.SparseVector{})
	}
	return Known(i, d.ItemFeatures.Row(i))
}

// Score is the evaluation result of a model.
type Score struct {
	AUC float32
}

func (score Score) ZapFields() []zap.Field {
	return []zap.Field{
		zap.Float32("AUC", score.AUC),
	}
}

func (score Score) BetterThan(s Score) bool {
	return score.AUC > s.AUC
}

type FitConfig struct {
	Jobs    int
	Verbose int
}

func NewFitConfig() *FitConfig {
	return &FitConfig{
		Jobs:    1,
		Verbose: 1,
	}
}

func (config *FitConfig) SetVerbose(verbose int) *FitConfig {
	config.Verbose = verbose
	return config
}

func (config *FitConfig) SetJobs(jobs int) *FitConfig {
	config.Jobs = jobs
	return config
}

func (config *FitConfig) LoadDefaultIfNil() *FitConfig {
	if config == nil {
		return NewFitConfig()
	}
	return config
}
