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
	"fmt"
	"io"
	"strings"
)

// Report lists names under titled sections, numbered from 1.
type Report struct {
	sections []section
}

type section struct {
	title string
	lines []string
}

func (r *Report) Add(title string, lines []string) *Report {
	r.sections = append(r.sections, section{title: title, lines: lines})
	return r
}

func (r *Report) String() string {
	var b strings.Builder
	for _, s := range r.sections {
		b.WriteString(s.title)
		b.WriteString(":\n")
		for i, line := range s.lines {
			_, _ = fmt.Fprintf(&b, "%d- %s\n", i+1, line)
		}
	}
	return b.String()
}

func (r *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}
