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

import "github.com/yelpify/yelpify/base"

// RandomFeatures draws a cold-start feature vector whose entries are 1 with
// probability p.
func RandomFeatures(rng base.RandomGenerator, dim int, p float64) []float32 {
	return rng.BinomialVector(dim, p)
}
