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
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/juju/errors"
)

// Item is the environment of filter expressions, e.g.
//
//	"Food" in item.Categories && item.Score > 0
type Item struct {
	Id         string
	Name       string
	Categories []string
	Score      float32
}

// Filter selects candidate items by an expression.
type Filter struct {
	program *vm.Program
}

// NewFilter compiles a boolean expression over item.
func NewFilter(source string) (*Filter, error) {
	program, err := expr.Compile(source, expr.Env(map[string]any{
		"item": Item{},
	}), expr.AsBool())
	if err != nil {
		return nil, errors.NotValidf("filter %q: %v", source, err)
	}
	return &Filter{program: program}, nil
}

// Match evaluates the expression for an item.
func (f *Filter) Match(item Item) (bool, error) {
	result, err := expr.Run(f.program, map[string]any{
		"item": item,
	})
	if err != nil {
		return false, errors.Annotatef(err, "evaluate filter for item %q", item.Id)
	}
	return result.(bool), nil
}
