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

package dataset

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/juju/errors"
	"github.com/yelpify/yelpify/base"
)

// Interactions is the user-item weight matrix. Users and items are indexed in
// order of first appearance. Repeated observations of a pair are summed.
type Interactions struct {
	userDict    *FreqDict
	itemDict    *FreqDict
	userItems   [][]int32
	userWeights [][]float32
	position    []map[int32]int
	count       int
}

// NewInteractions creates an empty matrix over fixed user and item indices.
func NewInteractions(userDict, itemDict *FreqDict) *Interactions {
	return &Interactions{
		userDict:    userDict,
		itemDict:    itemDict,
		userItems:   make([][]int32, userDict.Count()),
		userWeights: make([][]float32, userDict.Count()),
		position:    make([]map[int32]int, userDict.Count()),
	}
}

// BuildInteractions indexes every user and item of the frame and adds one
// observation per row.
func BuildInteractions(frame *Frame, schema Schema) (*Interactions, error) {
	userDict, itemDict, err := IndexEntities(frame, schema)
	if err != nil {
		return nil, errors.Trace(err)
	}
	interactions := NewInteractions(userDict, itemDict)
	for i := 0; i < frame.Len(); i++ {
		if err = interactions.addRow(frame, schema, i); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return interactions, nil
}

// SplitInteractions randomly assigns a testRatio share of the rows to a test
// matrix. Both matrices share the indices of the whole frame.
func SplitInteractions(frame *Frame, schema Schema, testRatio float64, seed int64) (*Interactions, *Interactions, error) {
	if testRatio < 0 || testRatio >= 1 {
		return nil, nil, errors.NotValidf("test ratio %v", testRatio)
	}
	userDict, itemDict, err := IndexEntities(frame, schema)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	train := NewInteractions(userDict, itemDict)
	test := NewInteractions(userDict, itemDict)
	rng := base.NewRandomGenerator(seed)
	perm := rng.Perm(frame.Len())
	nTest := int(float64(frame.Len())*testRatio + 0.5)
	for k, i := range perm {
		target := train
		if k < nTest {
			target = test
		}
		if err = target.addRow(frame, schema, i); err != nil {
			return nil, nil, errors.Trace(err)
		}
	}
	return train, test, nil
}

// IndexEntities registers users and items in order of first appearance.
func IndexEntities(frame *Frame, schema Schema) (*FreqDict, *FreqDict, error) {
	users, err := frame.Column(schema.UserID)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	items, err := frame.Column(schema.ItemID)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	userDict, itemDict := NewFreqDict(), NewFreqDict()
	for i := range users {
		userDict.Id(users[i])
		itemDict.Id(items[i])
	}
	return userDict, itemDict, nil
}

func (m *Interactions) addRow(frame *Frame, schema Schema, i int) error {
	userId, err := frame.Get(i, schema.UserID)
	if err != nil {
		return err
	}
	itemId, err := frame.Get(i, schema.ItemID)
	if err != nil {
		return err
	}
	rating, err := frame.Float(i, schema.Rating)
	if err != nil {
		return err
	}
	return m.Add(userId, itemId, rating)
}

// Add records one observation of a known user and item.
func (m *Interactions) Add(userId, itemId string, weight float32) error {
	u, err := m.userDict.Index(userId)
	if err != nil {
		return errors.Annotate(err, "user")
	}
	i, err := m.itemDict.Index(itemId)
	if err != nil {
		return errors.Annotate(err, "item")
	}
	m.add(int32(u), int32(i), weight)
	return nil
}

func (m *Interactions) add(u, i int32, weight float32) {
	if m.position[u] == nil {
		m.position[u] = make(map[int32]int)
	}
	if p, exist := m.position[u][i]; exist {
		m.userWeights[u][p] += weight
		return
	}
	m.position[u][i] = len(m.userItems[u])
	m.userItems[u] = append(m.userItems[u], i)
	m.userWeights[u] = append(m.userWeights[u], weight)
	m.count++
}

func (m *Interactions) CountUsers() int {
	return m.userDict.Count()
}

func (m *Interactions) CountItems() int {
	return m.itemDict.Count()
}

// CountFeedback returns the number of non-empty cells.
func (m *Interactions) CountFeedback() int {
	return m.count
}

// UserIndex returns the row of a user id.
func (m *Interactions) UserIndex(userId string) (int, error) {
	u, err := m.userDict.Index(userId)
	return u, errors.Annotate(err, "user")
}

// ItemIndex returns the column of an item id.
func (m *Interactions) ItemIndex(itemId string) (int, error) {
	i, err := m.itemDict.Index(itemId)
	return i, errors.Annotate(err, "item")
}

// UserId returns the id of a row.
func (m *Interactions) UserId(u int) string {
	s, _ := m.userDict.String(u)
	return s
}

// ItemId returns the id of a column.
func (m *Interactions) ItemId(i int) string {
	s, _ := m.itemDict.String(i)
	return s
}

// UserIds returns all user ids in row order.
func (m *Interactions) UserIds() []string {
	return m.userDict.Strings()
}

// ItemIds returns all item ids in column order.
func (m *Interactions) ItemIds() []string {
	return m.itemDict.Strings()
}

// UserFeedback returns the items of a user and their summed weights. The
// slices must not be modified.
func (m *Interactions) UserFeedback(u int) ([]int32, []float32) {
	return m.userItems[u], m.userWeights[u]
}

// KnownPositives marks the items whose weight for user u exceeds threshold.
func (m *Interactions) KnownPositives(u int, threshold float32) *bitset.BitSet {
	known := bitset.New(uint(m.CountItems()))
	for k, i := range m.userItems[u] {
		if m.userWeights[u][k] > threshold {
			known.Set(uint(i))
		}
	}
	return known
}
