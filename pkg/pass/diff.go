// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pass

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders the changed lines between before and after, prefixed with
// "-" and "+". Unchanged runs are shown as a single "@@" separator.
func Diff(path, before, after string) string {
	enc := lineEncoder{index: map[string]rune{}}
	a, b := enc.encode(before), enc.encode(after)
	diffs := diffmatchpatch.New().DiffMainRunes(a, b, false)

	var out strings.Builder
	fmt.Fprintf(&out, "--- %s\n+++ %s\n", path, path)
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			out.WriteString("@@\n")
			continue
		}
		for _, r := range d.Text {
			line := enc.lines[enc.slot(r)]
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}

// lineEncoder maps every distinct line to one rune so the diff runs over
// whole lines. Runes skip the surrogate range, which does not survive a
// string round trip.
type lineEncoder struct {
	index map[string]rune
	lines []string
}

const (
	surrogateMin = 0xD800
	surrogateLen = 0x800
)

func (e *lineEncoder) encode(text string) []rune {
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	out := make([]rune, 0, len(parts))
	for _, line := range parts {
		r, ok := e.index[line]
		if !ok {
			r = rune(len(e.lines) + 1)
			if r >= surrogateMin {
				r += surrogateLen
			}
			e.index[line] = r
			e.lines = append(e.lines, line)
		}
		out = append(out, r)
	}
	return out
}

func (e *lineEncoder) slot(r rune) int {
	if r >= surrogateMin+surrogateLen {
		r -= surrogateLen
	}
	return int(r) - 1
}
