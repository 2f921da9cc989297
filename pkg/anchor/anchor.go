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

// Package anchor locates structural positions in source text.
//
// Matching is purely textual. Nested or overlapping constructs of the same
// shape (an annotation inside a string literal, an import inside a block
// comment) are not told apart from real ones.
package anchor

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔖 Kind classifies an anchor
type Kind string

const (
	KindLastImport       Kind = "last-import"       // end of the import block
	KindDeclarationStart Kind = "declaration-start" // annotated declaration header
	KindCallExpression   Kind = "call-expression"   // every occurrence of a call token
	KindPattern          Kind = "pattern"           // every match of a free-form pattern
)

// ErrAmbiguousAnchor is returned when a single-location anchor matches more than once.
var ErrAmbiguousAnchor = errors.Base("ambiguous anchor")

// 📍 Anchor is a located range within a file's text
type Anchor struct {
	Kind  Kind
	Start int    // byte offset of the first matched byte
	End   int    // byte offset just past the match
	Name  string // captured declaration name, declaration-start only
}

// 🎯 Spec describes what to look for
type Spec struct {
	Kind    Kind
	Label   string // human name used in "Could not find <label>"
	Pattern *regexp.Regexp
}

func (s Spec) String() string {
	if s.Label != "" {
		return s.Label
	}
	return string(s.Kind)
}

// 🔍 Finder locates anchors in text
type Finder interface {
	// Find returns the anchors matching spec. An empty result means "not
	// found" and is not an error.
	Find(text string, spec Spec) ([]Anchor, error)
}

// RegexpFinder is the regular-expression backed Finder.
type RegexpFinder struct{}

// NewRegexpFinder creates a new RegexpFinder
func NewRegexpFinder() *RegexpFinder {
	return &RegexpFinder{}
}

// Find implements Finder.Find
func (f *RegexpFinder) Find(text string, spec Spec) ([]Anchor, error) {
	if spec.Pattern == nil {
		return nil, errors.Errorf("anchor %q has no pattern", spec)
	}

	switch spec.Kind {
	case KindLastImport:
		return []Anchor{findLastImport(text, spec)}, nil
	case KindDeclarationStart:
		return findDeclaration(text, spec)
	case KindCallExpression, KindPattern:
		return findAll(text, spec), nil
	default:
		return nil, errors.Errorf("unknown anchor kind %q", spec.Kind)
	}
}

// findLastImport spans the final import line, newline included. Without
// imports it falls back to the top of the file.
func findLastImport(text string, spec Spec) Anchor {
	locs := spec.Pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return Anchor{Kind: spec.Kind}
	}

	last := locs[len(locs)-1]
	end := last[1]
	if end < len(text) && text[end] == '\n' {
		end++
	}
	return Anchor{Kind: spec.Kind, Start: last[0], End: end}
}

func findDeclaration(text string, spec Spec) ([]Anchor, error) {
	matches := spec.Pattern.FindAllStringSubmatchIndex(text, -1)
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, submatch(text, m))
		}
		return nil, errors.Errorf("%w: %s matched %d declarations (%s)",
			ErrAmbiguousAnchor, spec, len(matches), strings.Join(names, ", "))
	}

	m := matches[0]
	return []Anchor{{
		Kind:  spec.Kind,
		Start: m[0],
		End:   m[1],
		Name:  submatch(text, m),
	}}, nil
}

func findAll(text string, spec Spec) []Anchor {
	locs := spec.Pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	anchors := make([]Anchor, 0, len(locs))
	for _, loc := range locs {
		anchors = append(anchors, Anchor{Kind: spec.Kind, Start: loc[0], End: loc[1]})
	}
	return anchors
}

func submatch(text string, m []int) string {
	if len(m) < 4 || m[2] < 0 {
		return ""
	}
	return text[m[2]:m[3]]
}
