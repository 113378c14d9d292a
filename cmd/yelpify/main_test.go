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

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yelpify/yelpify/config"
)

func TestParseFeatures(t *testing.T) {
	features, err := parseFeatures("1, 0,0.5")
	assert.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0.5}, features)
	_, err = parseFeatures("1,x")
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte(`user_id,business_id,stars,average_stars,name_business,categories
u1,b1,5,4.3,Cafe,"Coffee & Tea, Food"
u1,b2,2,4.3,Diner,Diners
u2,b1,4,3.1,Cafe,"Coffee & Tea, Food"
u3,b3,4,2.6,Bakery,"Food, Bakeries"
u2,b3,1,3.1,Bakery,"Food, Bakeries"
u3,b2,5,2.6,Diner,Diners
`), 0644))
	conf := config.GetDefaultConfig()
	conf.Data.URL = path
	conf.Data.ShowProgress = false
	conf.Model.Hybrid = true
	conf.Model.Jobs = 1
	conf.Model.NFactors = 4
	conf.Model.NEpochs = 2
	conf.Recommend.Show = false
	settings := config.NewSettings(conf)

	require.NoError(t, prepareFrame(context.Background(), settings))
	assert.True(t, settings.Frame.HasColumn("Food"))
	assert.NoError(t, renderHead(settings.Frame, 2))

	require.NoError(t, trainModel(context.Background(), settings))
	assert.Equal(t, 4, settings.Result.Model.CountItemFeatures())
	items, err := settings.Recommender.ItemsForUser("u1", 2)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	users, err := settings.Recommender.UsersForNewItem([]float32{1, 0, 0, 0}, 2)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
}
