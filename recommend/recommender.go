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
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/yelpify/yelpify/base"
	"github.com/yelpify/yelpify/base/log"
	"github.com/yelpify/yelpify/common/heap"
	"github.com/yelpify/yelpify/dataset"
	"github.com/yelpify/yelpify/model"
	"go.uber.org/zap"
)

// Scorer scores user-item pairs. A single user is paired with every item and
// a single item with every user.
type Scorer interface {
	Predict(users, items []model.Entity) ([]float32, error)
}

// Recommender ranks the users and items of a trained model.
type Recommender struct {
	scorer       Scorer
	interactions *dataset.Interactions
	items        *dataset.ItemDict
	features     *dataset.Features
	options      *Options
	filter       *Filter
}

// NewRecommender creates a recommender. features is nil for a model fitted
// without side features.
func NewRecommender(scorer Scorer, interactions *dataset.Interactions, items *dataset.ItemDict,
	features *dataset.Features, options *Options) (*Recommender, error) {
	if scorer == nil || interactions == nil || items == nil {
		return nil, errors.NotValidf("recommender without scorer, interactions or items")
	}
	if features != nil {
		if err := features.AlignedWith(interactions); err != nil {
			return nil, errors.Trace(err)
		}
	}
	r := &Recommender{
		scorer:       scorer,
		interactions: interactions,
		items:        items,
		features:     features,
	}
	if err := r.setOptions(options); err != nil {
		return nil, errors.Trace(err)
	}
	return r, nil
}

// FromResult creates a recommender for a trained model.
func FromResult(result *model.Result, options *Options) (*Recommender, error) {
	return NewRecommender(result.Model, result.Interactions, result.Items, result.Features, options)
}

// WithOptions returns a recommender sharing the model but ranking with other options.
func (r *Recommender) WithOptions(options *Options) (*Recommender, error) {
	cp := *r
	if err := cp.setOptions(options); err != nil {
		return nil, errors.Trace(err)
	}
	return &cp, nil
}

func (r *Recommender) setOptions(options *Options) error {
	r.options = options.LoadDefaultIfNil()
	r.filter = nil
	if strings.TrimSpace(r.options.Filter) != "" {
		filter, err := NewFilter(r.options.Filter)
		if err != nil {
			return errors.Trace(err)
		}
		r.filter = filter
	}
	return nil
}

func (r *Recommender) userFeatures() *base.SparseMatrix {
	if r.features == nil {
		return nil
	}
	return r.features.Users
}

func (r *Recommender) itemFeatures() *base.SparseMatrix {
	if r.features == nil {
		return nil
	}
	return r.features.Items
}

// UsersForItem returns the topN users most likely to like a known item.
func (r *Recommender) UsersForItem(itemId string, topN int) ([]string, error) {
	log.Logger().Info("recommending users for item", zap.String("item_id", itemId))
	i, err := r.interactions.ItemIndex(itemId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return r.RecommendUsers(Existing(i), topN)
}

// ItemsForUser returns the topN items a known user most likely likes.
func (r *Recommender) ItemsForUser(userId string, topN int) ([]string, error) {
	log.Logger().Info("recommending items for user", zap.String("user_id", userId))
	u, err := r.interactions.UserIndex(userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return r.RecommendItems(Existing(u), topN)
}

// UsersForNewItem returns the topN users most likely to like an item known
// only by its features.
func (r *Recommender) UsersForNewItem(features []float32, topN int) ([]string, error) {
	log.Logger().Info("recommending users for new item")
	return r.RecommendUsers(New(features), topN)
}

// ItemsForNewUser returns the topN items a user known only by its features
// most likely likes.
func (r *Recommender) ItemsForNewUser(features []float32, topN int) ([]string, error) {
	log.Logger().Info("recommending items for new user")
	return r.RecommendItems(New(features), topN)
}

// RecommendUsers ranks every user of the interaction matrix for an item.
func (r *Recommender) RecommendUsers(item Lookup, topN int) ([]string, error) {
	if topN < 1 {
		return nil, errors.NotValidf("top %d", topN)
	}
	target, err := item.entity("item", r.interactions.CountItems(), r.itemFeatures())
	if err != nil {
		return nil, errors.Trace(err)
	}
	nUsers := r.interactions.CountUsers()
	users := make([]model.Entity, nUsers)
	for u := range users {
		users[u], _ = Existing(u).entity("user", nUsers, r.userFeatures())
	}
	scores, err := r.predict(users, []model.Entity{target}, nUsers)
	if err != nil {
		return nil, errors.Trace(err)
	}
	filter := heap.NewTopKFilter[int, float32](topN)
	for u, score := range scores {
		filter.Push(u, score)
	}
	userIds := lo.Map(filter.PopAllValues(), func(u int, _ int) string {
		return r.interactions.UserId(u)
	})
	if r.options.Show {
		report := new(Report).Add("Recommended Users", userIds)
		if _, err = report.WriteTo(r.options.Writer); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return userIds, nil
}

// RecommendItems ranks every item of the interaction matrix for a user.
func (r *Recommender) RecommendItems(user Lookup, topN int) ([]string, error) {
	if topN < 1 {
		return nil, errors.NotValidf("top %d", topN)
	}
	target, err := user.entity("user", r.interactions.CountUsers(), r.userFeatures())
	if err != nil {
		return nil, errors.Trace(err)
	}
	nItems := r.interactions.CountItems()
	items := make([]model.Entity, nItems)
	for i := range items {
		items[i], _ = Existing(i).entity("item", nItems, r.itemFeatures())
	}
	scores, err := r.predict([]model.Entity{target}, items, nItems)
	if err != nil {
		return nil, errors.Trace(err)
	}

	// Known likes of an existing user, ordered by id descending
	var (
		knownIds []string
		known    *bitset.BitSet
	)
	row, existing := user.Row()
	if existing {
		known = r.interactions.KnownPositives(row, r.options.Threshold)
		for i, ok := known.NextSet(0); ok; i, ok = known.NextSet(i + 1) {
			knownIds = append(knownIds, r.interactions.ItemId(int(i)))
		}
		slices.Sort(knownIds)
		slices.Reverse(knownIds)
	}

	filter := heap.NewTopKFilter[int, float32](topN)
	for i, score := range scores {
		if r.options.NewOnly && known != nil && known.Test(uint(i)) {
			continue
		}
		if r.filter != nil {
			matched, err := r.matchItem(i, score)
			if err != nil {
				return nil, errors.Trace(err)
			}
			if !matched {
				continue
			}
		}
		filter.Push(i, score)
	}
	itemIds := lo.Map(filter.PopAllValues(), func(i int, _ int) string {
		return r.interactions.ItemId(i)
	})

	// Resolve names before anything is printed
	knownNames, err := r.names(knownIds)
	if err != nil {
		return nil, errors.Trace(err)
	}
	itemNames, err := r.names(itemIds)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if r.options.Show {
		report := new(Report)
		if existing {
			report.Add("Known Likes", knownNames)
		}
		report.Add("Recommended Items", itemNames)
		if _, err = report.WriteTo(r.options.Writer); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return itemIds, nil
}

func (r *Recommender) predict(users, items []model.Entity, n int) ([]float32, error) {
	scores, err := r.scorer.Predict(users, items)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(scores) != n {
		return nil, errors.NotValidf("%d scores for %d candidates", len(scores), n)
	}
	return scores, nil
}

func (r *Recommender) names(itemIds []string) ([]string, error) {
	names := make([]string, len(itemIds))
	for k, itemId := range itemIds {
		name, err := r.items.Name(itemId)
		if err != nil {
			return nil, errors.Trace(err)
		}
		names[k] = name
	}
	return names, nil
}

func (r *Recommender) matchItem(i int, score float32) (bool, error) {
	item := Item{Id: r.interactions.ItemId(i), Score: score}
	item.Name, _ = r.items.Name(item.Id)
	if matrix := r.itemFeatures(); matrix != nil {
		for _, index := range matrix.Row(i).Indices {
			item.Categories = append(item.Categories, r.features.ItemColumns[index])
		}
	}
	return r.filter.Match(item)
}
