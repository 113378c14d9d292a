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
	"io"
	"os"
)

// Options controls rankings.
type Options struct {
	Show      bool      // print a report to Writer
	NewOnly   bool      // exclude known likes of a user
	Threshold float32   // ratings above threshold are known likes
	Filter    string    // expression selecting candidate items
	Writer    io.Writer // destination of reports
}

func NewOptions() *Options {
	return &Options{
		Threshold: 3,
		Writer:    os.Stdout,
	}
}

func (o *Options) SetShow(show bool) *Options {
	o.Show = show
	return o
}

func (o *Options) SetNewOnly(newOnly bool) *Options {
	o.NewOnly = newOnly
	return o
}

func (o *Options) SetThreshold(threshold float32) *Options {
	o.Threshold = threshold
	return o
}

func (o *Options) SetFilter(filter string) *Options {
	o.Filter = filter
	return o
}

func (o *Options) SetWriter(w io.Writer) *Options {
	o.Writer = w
	return o
}

func (o *Options) LoadDefaultIfNil() *Options {
	if o == nil {
		return NewOptions()
	}
	if o.Writer == nil {
		o.Writer = os.Stdout
	}
	return o
}
