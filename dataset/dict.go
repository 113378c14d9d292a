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
	"github.com/juju/errors"
)

// FreqDict maps strings to dense ids in first-appearance order and counts how
// many times each string has been seen.
type FreqDict struct {
	si  map[string]int
	is  []string
	cnt []int
}

func NewFreqDict() (d *FreqDict) {
	d = &FreqDict{map[string]int{}, []string{}, []int{}}
	return
}

func (d *FreqDict) Count() int {
	return len(d.is)
}

// Id returns the id of s, registering it if absent, and counts one occurrence.
func (d *FreqDict) Id(s string) (y int) {
	if y, ok := d.si[s]; ok {
		d.cnt[y]++
		return y
	}

	y = len(d.is)
	d.si[s] = y
	d.is = append(d.is, s)
	d.cnt = append(d.cnt, 1)
	return
}

// NotCount returns the id of s, registering it if absent, without counting.
func (d *FreqDict) NotCount(s string) (y int) {
	if y, ok := d.si[s]; ok {
		return y
	}

	y = len(d.is)
	d.si[s] = y
	d.is = append(d.is, s)
	d.cnt = append(d.cnt, 0)
	return
}

// Index looks up s without registering it.
func (d *FreqDict) Index(s string) (int, error) {
	if y, ok := d.si[s]; ok {
		return y, nil
	}
	return -1, errors.NotFoundf("id %q", s)
}

func (d *FreqDict) String(id int) (s string, ok bool) {
	if id < 0 || id >= len(d.is) {
		return "", false
	}
	return d.is[id], true
}

// Strings returns a copy of all registered strings ordered by id.
func (d *FreqDict) Strings() []string {
	ret := make([]string, len(d.is))
	copy(ret, d.is)
	return ret
}

func (d *FreqDict) Freq(id int) int {
	if id < 0 || id >= len(d.cnt) {
		return 0
	}
	return d.cnt[id]
}

// ItemDict maps item ids to display names. When an id appears with several
// names the last one wins.
type ItemDict struct {
	names map[string]string
}

// NewItemDict builds the dictionary from two aligned columns.
func NewItemDict(ids, names []string) (*ItemDict, error) {
	if len(ids) != len(names) {
		return nil, errors.NotValidf("%d ids with %d names", len(ids), len(names))
	}
	d := &ItemDict{names: make(map[string]string, len(ids))}
	for i, id := range ids {
		d.names[id] = names[i]
	}
	return d, nil
}

// Name returns the display name of an item.
func (d *ItemDict) Name(id string) (string, error) {
	if name, ok := d.names[id]; ok {
		return name, nil
	}
	return "", errors.NotFoundf("item %q", id)
}

func (d *ItemDict) Count() int {
	return len(d.names)
}
