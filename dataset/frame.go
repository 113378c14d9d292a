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
	"github.com/samber/lo"
	"github.com/yelpify/yelpify/common/util"
	"modernc.org/strutil"
)

// Frame is an in-memory table of string cells. Missing values are empty
// strings. Repeated cell values share storage through a string pool.
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]string
	pool    *strutil.Pool
	shared  bool // rows are also referenced by another frame
}

// NewFrame creates an empty frame with the given column names.
func NewFrame(columns ...string) (*Frame, error) {
	f := &Frame{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		pool:    strutil.NewPool(),
	}
	for _, column := range columns {
		if _, exist := f.index[column]; exist {
			return nil, errors.AlreadyExistsf("column %q", column)
		}
		f.index[column] = len(f.columns)
		f.columns = append(f.columns, column)
	}
	return f, nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

func (f *Frame) Len() int {
	return len(f.rows)
}

func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// ColumnIndex returns the position of a column, or NotValid if it is missing.
func (f *Frame) ColumnIndex(name string) (int, error) {
	if j, ok := f.index[name]; ok {
		return j, nil
	}
	return -1, errors.NotValidf("column %q missing from frame %v", name, f.columns)
}

// Append adds a row. The row must have one cell per column.
func (f *Frame) Append(cells ...string) error {
	if len(cells) != len(f.columns) {
		return errors.NotValidf("row of %d cells for %d columns", len(cells), len(f.columns))
	}
	row := make([]string, len(cells))
	for j, cell := range cells {
		row[j] = f.pool.Align(cell)
	}
	f.rows = append(f.rows, row)
	return nil
}

// Row returns a copy of the i-th row.
func (f *Frame) Row(i int) []string {
	return append([]string(nil), f.rows[i]...)
}

// Get returns a cell by row number and column name.
func (f *Frame) Get(i int, column string) (string, error) {
	j, err := f.ColumnIndex(column)
	if err != nil {
		return "", err
	}
	return f.rows[i][j], nil
}

// Float parses a cell as a number.
func (f *Frame) Float(i int, column string) (float32, error) {
	cell, err := f.Get(i, column)
	if err != nil {
		return 0, err
	}
	v, err := util.ParseFloat[float32](cell)
	if err != nil {
		return 0, errors.NotValidf("column %q row %d: %q is not a number", column, i, cell)
	}
	return v, nil
}

// Column returns a copy of a column.
func (f *Frame) Column(name string) ([]string, error) {
	j, err := f.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	return lo.Map(f.rows, func(row []string, _ int) string { return row[j] }), nil
}

// SetColumn replaces a column or appends it if absent.
func (f *Frame) SetColumn(name string, values []string) error {
	if len(values) != len(f.rows) {
		return errors.NotValidf("column %q of %d values for %d rows", name, len(values), len(f.rows))
	}
	if f.shared {
		f.rows = lo.Map(f.rows, func(row []string, _ int) []string {
			return append([]string(nil), row...)
		})
		f.shared = false
	}
	j, ok := f.index[name]
	if !ok {
		j = len(f.columns)
		f.index[name] = j
		f.columns = append(f.columns, name)
		for i := range f.rows {
			f.rows[i] = append(f.rows[i], "")
		}
	}
	for i, v := range values {
		f.rows[i][j] = f.pool.Align(v)
	}
	return nil
}

// Select projects the frame onto the given columns, in the given order.
func (f *Frame) Select(columns ...string) (*Frame, error) {
	positions := make([]int, len(columns))
	for k, column := range columns {
		j, err := f.ColumnIndex(column)
		if err != nil {
			return nil, err
		}
		positions[k] = j
	}
	out, err := NewFrame(columns...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	out.pool = f.pool
	out.rows = lo.Map(f.rows, func(row []string, _ int) []string {
		return lo.Map(positions, func(j int, _ int) string { return row[j] })
	})
	return out, nil
}

// Head returns the first n rows.
func (f *Frame) Head(n int) *Frame {
	n = min(max(n, 0), len(f.rows))
	out := f.emptyLike()
	out.rows = f.rows[:n:n]
	return out
}

// DropDuplicates keeps the first row of every distinct value of a column.
func (f *Frame) DropDuplicates(column string) (*Frame, error) {
	j, err := f.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := f.emptyLike()
	for _, row := range f.rows {
		if _, exist := seen[row[j]]; !exist {
			seen[row[j]] = struct{}{}
			out.rows = append(out.rows, row)
		}
	}
	return out, nil
}

// LeftJoin joins other on a shared key column. Every row of f is kept; rows
// without a match get empty cells. Non-key columns of other that clash with
// columns of f are renamed with suffix. A key matching several rows of other
// yields one output row per match.
func (f *Frame) LeftJoin(other *Frame, on, suffix string) (*Frame, error) {
	leftKey, err := f.ColumnIndex(on)
	if err != nil {
		return nil, errors.Annotate(err, "left frame")
	}
	rightKey, err := other.ColumnIndex(on)
	if err != nil {
		return nil, errors.Annotate(err, "right frame")
	}
	columns := f.Columns()
	var rightColumns []int
	for j, column := range other.columns {
		if j == rightKey {
			continue
		}
		if f.HasColumn(column) {
			column += suffix
		}
		columns = append(columns, column)
		rightColumns = append(rightColumns, j)
	}
	out, err := NewFrame(columns...)
	if err != nil {
		return nil, errors.Annotatef(err, "join on %q", on)
	}
	out.pool = f.pool
	lookup := make(map[string][]int)
	for i, row := range other.rows {
		lookup[row[rightKey]] = append(lookup[row[rightKey]], i)
	}
	for _, row := range f.rows {
		matches := lookup[row[leftKey]]
		if len(matches) == 0 {
			joined := make([]string, len(columns))
			copy(joined, row)
			out.rows = append(out.rows, joined)
			continue
		}
		for _, m := range matches {
			joined := make([]string, 0, len(columns))
			joined = append(joined, row...)
			for _, j := range rightColumns {
				joined = append(joined, out.pool.Align(other.rows[m][j]))
			}
			out.rows = append(out.rows, joined)
		}
	}
	return out, nil
}

func (f *Frame) emptyLike() *Frame {
	f.shared = true
	return &Frame{
		shared:  true,
		columns: f.Columns(),
		index:   lo.Assign(f.index),
		pool:    f.pool,
	}
}
