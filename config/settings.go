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

package config

import (
	"github.com/yelpify/yelpify/dataset"
	"github.com/yelpify/yelpify/model"
	"github.com/yelpify/yelpify/recommend"
)

// Settings carries the state of one run from preparation to ranking.
type Settings struct {
	Config *Config

	// prepared reviews
	Frame *dataset.Frame

	// trained model
	Result      *model.Result
	Recommender *recommend.Recommender
}

func NewSettings(config *Config) *Settings {
	return &Settings{
		Config: config.LoadDefaultIfNil(),
	}
}
