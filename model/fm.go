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
	"time"

	"github.com/c-bata/goptuna"
	"github.com/chewxy/math32"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/yelpify/yelpify/base"
	"github.com/yelpify/yelpify/base/log"
	"github.com/yelpify/yelpify/common/floats"
	"github.com/yelpify/yelpify/common/parallel"
	"go.uber.org/zap"
)

// maxLoss caps the rank weight of a WARP update.
const maxLoss = 10

// FM is a factorization machine over two feature fields. A user is the sum of
// the embeddings of its identity and of its side features, and so is an item.
//
//	ŷ(u,i) = Σ b_u + Σ b_i + <Σ x_f v_f, Σ x_g w_g>
//
// Parameters of identities come first in UserFactor and ItemFactor, followed
// by parameters of side features. The model is fitted on implicit feedback with
// a pairwise loss (WARP or BPR) and per-parameter adaptive learning rates.
type FM struct {
	BaseModel
	// Model parameters
	UserBias   []float32
	ItemBias   []float32
	UserFactor [][]float32
	ItemFactor [][]float32
	// Shape
	nUsers        int
	nItems        int
	nUserFeatures int
	nItemFeatures int
	// Hyper parameters
	nFactors   int
	nEpochs    int
	lr         float32
	reg        float32
	initMean   float32
	initStdDev float32
	loss       string
	maxSampled int
}

// NewFM creates a factorization machine.
func NewFM(params Params) *FM {
	fm := new(FM)
	fm.SetParams(params)
	return fm
}

// SetParams sets hyper-parameters. Defaults are 100 factors, learning rate
// 0.05, 10 epochs and WARP loss with at most 50 sampled negatives.
func (fm *FM) SetParams(params Params) {
	fm.BaseModel.SetParams(params)
	fm.nFactors = fm.Params.GetInt(NFactors, 100)
	fm.nEpochs = fm.Params.GetInt(NEpochs, 10)
	fm.lr = fm.Params.GetFloat32(Lr, 0.05)
	fm.reg = fm.Params.GetFloat32(Reg, 0)
	fm.initMean = fm.Params.GetFloat32(InitMean, 0)
	fm.initStdDev = fm.Params.GetFloat32(InitStdDev, 0.01)
	fm.loss = fm.Params.GetString(Loss, WARP)
	fm.maxSampled = fm.Params.GetInt(MaxSampled, 50)
}

func (fm *FM) SuggestParams(trial goptuna.Trial) Params {
	return Params{
		NFactors: lo.Must(trial.SuggestInt(string(NFactors), 8, 128)),
		Lr:       lo.Must(trial.SuggestLogFloat(string(Lr), 0.005, 0.2)),
		Reg:      lo.Must(trial.SuggestLogFloat(string(Reg), 1e-6, 1e-2)),
		Loss:     lo.Must(trial.SuggestCategorical(string(Loss), []string{WARP, BPR})),
	}
}

// Clear model weights.
func (fm *FM) Clear() {
	fm.UserBias = nil
	fm.ItemBias = nil
	fm.UserFactor = nil
	fm.ItemFactor = nil
	fm.nUsers, fm.nItems = 0, 0
	fm.nUserFeatures, fm.nItemFeatures = 0, 0
}

// Invalid returns true if the model has not been fitted.
func (fm *FM) Invalid() bool {
	return fm == nil || fm.UserFactor == nil || fm.ItemFactor == nil
}

// CountUserFeatures returns the number of user side features the model was fitted with.
func (fm *FM) CountUserFeatures() int {
	return fm.nUserFeatures
}

// CountItemFeatures returns the number of item side features the model was fitted with.
func (fm *FM) CountItemFeatures() int {
	return fm.nItemFeatures
}

// Init allocates and randomizes parameters for a dataset.
func (fm *FM) Init(trainSet Dataset) {
	fm.nUsers = trainSet.Interactions.CountUsers()
	fm.nItems = trainSet.Interactions.CountItems()
	fm.nUserFeatures = trainSet.UserFeatures.Cols()
	fm.nItemFeatures = trainSet.ItemFeatures.Cols()
	fm.rng = base.NewRandomGenerator(fm.randState)
	fm.UserBias = make([]float32, fm.nUsers+fm.nUserFeatures)
	fm.ItemBias = make([]float32, fm.nItems+fm.nItemFeatures)
	fm.UserFactor = fm.rng.NormalMatrix(fm.nUsers+fm.nUserFeatures, fm.nFactors, fm.initMean, fm.initStdDev)
	fm.ItemFactor = fm.rng.NormalMatrix(fm.nItems+fm.nItemFeatures, fm.nFactors, fm.initMean, fm.initStdDev)
}

// forEachParam visits the parameter rows of an entity with their input values.
func forEachParam(e Entity, offset int, f func(k int, x float32)) {
	if e.Row >= 0 {
		f(int(e.Row), 1)
	}
	e.Features.ForEach(func(_ int, index int32, value float32) {
		f(offset+int(index), value)
	})
}

// represent sums the embeddings of an entity into dst and returns its bias.
func represent(factor [][]float32, bias []float32, offset int, e Entity, dst []float32) (b float32) {
	floats.Zero(dst)
	forEachParam(e, offset, func(k int, x float32) {
		floats.MulConstAdd(factor[k], x, dst)
		b += x * bias[k]
	})
	return
}

func (fm *FM) userRepresentation(e Entity, dst []float32) float32 {
	return represent(fm.UserFactor, fm.UserBias, fm.nUsers, e, dst)
}

func (fm *FM) itemRepresentation(e Entity, dst []float32) float32 {
	return represent(fm.ItemFactor, fm.ItemBias, fm.nItems, e, dst)
}

func checkEntity(side string, e Entity, n, nFeatures int) error {
	if e.Row < -1 || int(e.Row) >= n {
		return errors.NotValidf("%s row %d out of %d", side, e.Row, n)
	}
	if e.IsNew() && nFeatures == 0 {
		return errors.NotSupportedf("new %s in a model fitted without %s features", side, side)
	}
	if len(e.Features.Indices) != len(e.Features.Values) {
		return errors.NotValidf("%s features of %d indices and %d values",
			side, len(e.Features.Indices), len(e.Features.Values))
	}
	for _, index := range e.Features.Indices {
		if index < 0 || int(index) >= nFeatures {
			return errors.NotValidf("%s feature %d out of %d", side, index, nFeatures)
		}
	}
	return nil
}

// Predict scores user-item pairs. A single user is paired with every item and
// a single item with every user; otherwise both slices must have the same
// length.
func (fm *FM) Predict(users, items []Entity) ([]float32, error) {
	if fm.Invalid() {
		return nil, errors.NotValidf("unfitted model")
	}
	n := len(users)
	switch {
	case len(users) == len(items):
	case len(users) == 1:
		n = len(items)
	case len(items) == 1:
	default:
		return nil, errors.NotValidf("%d users paired with %d items", len(users), len(items))
	}
	for _, user := range users {
		if err := checkEntity("user", user, fm.nUsers, fm.nUserFeatures); err != nil {
			return nil, err
		}
	}
	for _, item := range items {
		if err := checkEntity("item", item, fm.nItems, fm.nItemFeatures); err != nil {
			return nil, err
		}
	}
	scores := make([]float32, n)
	userFactor := make([]float32, fm.nFactors)
	itemFactor := make([]float32, fm.nFactors)
	var userBias, itemBias float32
	for k := 0; k < n; k++ {
		if k < len(users) {
			userBias = fm.userRepresentation(users[k], userFactor)
		}
		if k < len(items) {
			itemBias = fm.itemRepresentation(items[k], itemFactor)
		}
		scores[k] = userBias + itemBias + floats.Dot(userFactor, itemFactor)
	}
	return scores, nil
}

type positive struct {
	user   int32
	item   int32
	weight float32
}

// adagrad moves param along x*dir with a per-coordinate step size.
func adagrad(param, acc, dir []float32, x, lr, reg float32) {
	for f := range param {
		grad := x*dir[f] - reg*param[f]
		acc[f] += grad * grad
		param[f] += lr * grad / math32.Sqrt(acc[f])
	}
}

func adagradScalar(param, acc *float32, grad, lr float32) {
	*acc += grad * grad
	*param += lr * grad / math32.Sqrt(*acc)
}

// Fit trains the model on a dataset. The score on valSet is returned when
// valSet is not nil.
func (fm *FM) Fit(ctx context.Context, trainSet Dataset, valSet *Dataset, config *FitConfig) (Score, error) {
	config = config.LoadDefaultIfNil()
	if err := trainSet.Validate(); err != nil {
		return Score{}, errors.Trace(err)
	}
	if fm.loss != WARP && fm.loss != BPR {
		return Score{}, errors.NotSupportedf("loss %q", fm.loss)
	}
	log.Logger().Info("fit factorization machine",
		zap.Int("n_users", trainSet.Interactions.CountUsers()),
		zap.Int("n_items", trainSet.Interactions.CountItems()),
		zap.Int("n_user_features", trainSet.UserFeatures.Cols()),
		zap.Int("n_item_features", trainSet.ItemFeatures.Cols()),
		zap.Int("train_set_size", trainSet.Interactions.CountFeedback()),
		zap.Any("params", fm.GetParams()),
		zap.Any("config", config))
	fm.Init(trainSet)
	nItems := int32(fm.nItems)
	jobs := max(config.Jobs, 1)

	// Collect positives and convert feedback to sets
	var positives []positive
	userFeedback := make([]mapset.Set[int32], fm.nUsers)
	for u := 0; u < fm.nUsers; u++ {
		items, weights := trainSet.Interactions.UserFeedback(u)
		userFeedback[u] = mapset.NewThreadUnsafeSet(items...)
		for k, i := range items {
			positives = append(positives, positive{user: int32(u), item: i, weight: weights[k]})
		}
	}
	users := lo.Map(lo.Range(fm.nUsers), func(u int, _ int) Entity { return trainSet.UserEntity(u) })
	items := lo.Map(lo.Range(fm.nItems), func(i int, _ int) Entity { return trainSet.ItemEntity(i) })

	// Create buffers
	itemBiasAcc := base.RepeatFloat32s(len(fm.ItemBias), 1)
	userFactorAcc := lo.Times(len(fm.UserFactor), func(int) []float32 { return base.RepeatFloat32s(fm.nFactors, 1) })
	itemFactorAcc := lo.Times(len(fm.ItemFactor), func(int) []float32 { return base.RepeatFloat32s(fm.nFactors, 1) })
	userFactor := base.NewMatrix32(jobs, fm.nFactors)
	positiveFactor := base.NewMatrix32(jobs, fm.nFactors)
	negativeFactor := base.NewMatrix32(jobs, fm.nFactors)
	temp := base.NewMatrix32(jobs, fm.nFactors)
	rng := make([]base.RandomGenerator, jobs)
	for i := range rng {
		rng[i] = base.NewRandomGenerator(fm.rng.Int63())
	}

	update := func(workerId int, user, pos, neg Entity, grad float32) {
		// Update user latent factor: h_i-h_j
		floats.SubTo(positiveFactor[workerId], negativeFactor[workerId], temp[workerId])
		floats.MulConst(temp[workerId], grad)
		forEachParam(user, fm.nUsers, func(k int, x float32) {
			adagrad(fm.UserFactor[k], userFactorAcc[k], temp[workerId], x, fm.lr, fm.reg)
		})
		// Update positive item latent factor: +w_u
		floats.MulConstTo(userFactor[workerId], grad, temp[workerId])
		forEachParam(pos, fm.nItems, func(k int, x float32) {
			adagrad(fm.ItemFactor[k], itemFactorAcc[k], temp[workerId], x, fm.lr, fm.reg)
			adagradScalar(&fm.ItemBias[k], &itemBiasAcc[k], x*grad, fm.lr)
		})
		// Update negative item latent factor: -w_u
		floats.MulConst(temp[workerId], -1)
		forEachParam(neg, fm.nItems, func(k int, x float32) {
			adagrad(fm.ItemFactor[k], itemFactorAcc[k], temp[workerId], x, fm.lr, fm.reg)
			adagradScalar(&fm.ItemBias[k], &itemBiasAcc[k], -x*grad, fm.lr)
		})
	}

	score := Score{}
	for epoch := 1; epoch <= fm.nEpochs; epoch++ {
		fitStart := time.Now()
		perm := fm.rng.Perm(len(positives))
		cost := make([]float32, jobs)
		err := parallel.Parallel(ctx, len(perm), jobs, func(workerId, jobId int) error {
			p := positives[perm[jobId]]
			if userFeedback[p.user].Cardinality() >= fm.nItems {
				return nil
			}
			user, pos := users[p.user], items[p.item]
			userBias := fm.userRepresentation(user, userFactor[workerId])
			posScore := userBias + fm.itemRepresentation(pos, positiveFactor[workerId]) +
				floats.Dot(userFactor[workerId], positiveFactor[workerId])
			switch fm.loss {
			case BPR:
				neg := items[rng[workerId].SampleInt32(0, nItems, 1, userFeedback[p.user])[0]]
				negScore := userBias + fm.itemRepresentation(neg, negativeFactor[workerId]) +
					floats.Dot(userFactor[workerId], negativeFactor[workerId])
				diff := posScore - negScore
				cost[workerId] += p.weight * math32.Log1p(math32.Exp(-diff))
				update(workerId, user, pos, neg, p.weight/(1+math32.Exp(diff)))
			case WARP:
				for sampled := 1; sampled <= fm.maxSampled; sampled++ {
					negIndex := rng[workerId].Int31n(nItems)
					if userFeedback[p.user].Contains(negIndex) {
						continue
					}
					neg := items[negIndex]
					negScore := userBias + fm.itemRepresentation(neg, negativeFactor[workerId]) +
						floats.Dot(userFactor[workerId], negativeFactor[workerId])
					if negScore > posScore-1 {
						rank := math32.Floor(float32(fm.nItems-1) / float32(sampled))
						grad := p.weight * min(math32.Log(max(rank, 1)), maxLoss)
						cost[workerId] += grad * (1 - posScore + negScore)
						update(workerId, user, pos, neg, grad)
						break
					}
				}
			}
			return nil
		})
		if err != nil {
			return Score{}, errors.Trace(err)
		}
		fitTime := time.Since(fitStart)
		if epoch%max(config.Verbose, 1) == 0 || epoch == fm.nEpochs {
			fields := []zap.Field{
				zap.String("fit_time", fitTime.String()),
				zap.Float32("loss", lo.Sum(cost)),
			}
			if valSet != nil {
				if score, err = Evaluate(ctx, fm, *valSet, jobs); err != nil {
					return Score{}, errors.Trace(err)
				}
				fields = append(fields, score.ZapFields()...)
			}
			log.Logger().Info(fmt.Sprintf("fit factorization machine %v/%v", epoch, fm.nEpochs), fields...)
		}
	}
	log.Logger().Info("fit factorization machine complete", score.ZapFields()...)
	return score, nil
}
