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
	"math/rand"

	mapset "github.com/deckarep/golang-set/v2"
)

// RandomGenerator is the random generator for yelpify.
type RandomGenerator struct {
	*rand.Rand
}

// NewRandomGenerator creates a RandomGenerator.
func NewRandomGenerator(seed int64) RandomGenerator {
	return RandomGenerator{rand.New(rand.NewSource(seed))}
}

// NormalVector makes a vec filled with normal random floats.
func (rng RandomGenerator) NormalVector(size int, mean, stdDev float32) []float32 {
	ret := make([]float32, size)
	for i := 0; i < len(ret); i++ {
		ret[i] = float32(rng.NormFloat64())*stdDev + mean
	}
	return ret
}

// NormalMatrix makes a matrix filled with normal random floats.
func (rng RandomGenerator) NormalMatrix(row, col int, mean, stdDev float32) [][]float32 {
	ret := make([][]float32, row)
	for i := range ret {
		ret[i] = rng.NormalVector(col, mean, stdDev)
	}
	return ret
}

// BinomialVector makes a vec of independent Bernoulli(p) draws, each 0 or 1.
func (rng RandomGenerator) BinomialVector(size int, p float64) []float32 {
	ret := make([]float32, size)
	for i := range ret {
		if rng.Float64() < p {
			ret[i] = 1
		}
	}
	return ret
}

// SampleInt32 n 32bit values between low and high, but not in exclude. Fewer
// values are returned when fewer are available.
func (rng RandomGenerator) SampleInt32(low, high int32, n int, exclude ...mapset.Set[int32]) []int32 {
	intervalLength := high - low
	sampled := make([]int32, 0, n)
	sampledSet := mapset.NewThreadUnsafeSet[int32]()
	excluded := func(v int32) bool {
		if sampledSet.Contains(v) {
			return true
		}
		for _, set := range exclude {
			if set.Contains(v) {
				return true
			}
		}
		return false
	}
	nExcluded := 0
	for _, set := range exclude {
		nExcluded += set.Cardinality()
	}
	if n >= int(intervalLength)-nExcluded {
		for i := low; i < high && len(sampled) < n; i++ {
			if !excluded(i) {
				sampled = append(sampled, i)
				sampledSet.Add(i)
			}
		}
	} else {
		for len(sampled) < n {
			v := rng.Int31n(intervalLength) + low
			if !excluded(v) {
				sampled = append(sampled, v)
				sampledSet.Add(v)
			}
		}
	}
	return sampled
}
