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

// Package rewrite plans the edits a set of transformations makes to one
// file. Planning never touches the file system; the result is handed to
// text.Apply.
package rewrite

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dimigrate/pkg/anchor"
	"github.com/walteh/dimigrate/pkg/generate"
	"github.com/walteh/dimigrate/pkg/status"
	"github.com/walteh/dimigrate/pkg/text"
)

// 🎬 Action is what a transformation does at its anchors
type Action string

const (
	ActionDelete       Action = "delete"        // remove every match
	ActionReplace      Action = "replace"       // replace every match with the content
	ActionInsertBefore Action = "insert-before" // insert the content before the first match
	ActionInsertAfter  Action = "insert-after"  // insert the content after the first match
	ActionRequire      Action = "require"       // the anchor must be present, no edit
	ActionCapture      Action = "capture"       // as require, and the captured name becomes the target
)

// 🔧 Transformation is a named edit rule
type Transformation struct {
	Name     string
	Anchor   anchor.Spec
	Action   Action
	Content  Content
	Required bool // a missing or ambiguous anchor skips the whole file
}

// 📋 Plan is the set of edits for one file
type Plan struct {
	Target string      // logical target the content was rendered for
	Edits  []text.Edit // in transformation order
	Skips  []status.Skip

	// Skipped is set when the whole file must be left untouched
	Skipped *status.Skip
}

// 🗺️ Planner turns transformations into edits
type Planner struct {
	finder anchor.Finder
	gen    *generate.Generator
	indent string
}

// Option configures a Planner
type Option func(*Planner)

// WithIndent fixes the indentation unit instead of detecting it per file
func WithIndent(indent string) Option {
	return func(p *Planner) {
		p.indent = indent
	}
}

// 🏭 NewPlanner creates a planner
func NewPlanner(finder anchor.Finder, gen *generate.Generator, opts ...Option) *Planner {
	p := &Planner{finder: finder, gen: gen}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan computes the edits transforms make to content. Errors are reserved
// for broken transformations; everything a file can cause is a skip.
func (p *Planner) Plan(ctx context.Context, content, target string, transforms []Transformation) (*Plan, error) {
	logger := zerolog.Ctx(ctx)

	style := generate.Style{Indent: p.indent, Newline: anchor.DetectNewline(content)}
	if style.Indent == "" {
		style.Indent = anchor.DetectIndent(content)
	}

	plan := &Plan{Target: target}
	for _, t := range transforms {
		env := Env{Target: plan.Target, Generator: p.gen, Style: style}

		var (
			edits []text.Edit
			skip  *status.Skip
			err   error
		)
		if t.Action == ActionCapture {
			var name string
			name, skip, err = p.capture(content, t)
			if name != "" {
				plan.Target = name
			}
		} else {
			edits, skip, err = p.planOne(content, t, env)
		}
		if err != nil {
			return nil, errors.Errorf("planning %s: %w", t.Name, err)
		}

		if skip != nil {
			logger.Debug().Str("rule", t.Name).Str("reason", string(skip.Reason)).Bool("required", t.Required).Msg("skipping")
			if t.Required || skip.Reason == status.ReasonUnsupportedTarget {
				plan.Skipped = skip
				plan.Edits = nil
				return plan, nil
			}
			plan.Skips = append(plan.Skips, *skip)
			continue
		}

		plan.Edits = append(plan.Edits, edits...)
	}

	return plan, nil
}

func (p *Planner) planOne(content string, t Transformation, env Env) ([]text.Edit, *status.Skip, error) {
	switch t.Action {
	case ActionDelete, ActionReplace, ActionRequire:
		return p.planMatches(content, t, env)
	case ActionInsertBefore, ActionInsertAfter:
		return p.planInsert(content, t, env)
	default:
		return nil, nil, errors.Errorf("unknown action %q", t.Action)
	}
}

func (p *Planner) find(content string, t Transformation) ([]anchor.Anchor, *status.Skip, error) {
	anchors, err := p.finder.Find(content, t.Anchor)
	if err != nil {
		if errors.Is(err, anchor.ErrAmbiguousAnchor) {
			return nil, &status.Skip{Reason: status.ReasonAmbiguousAnchor, Rule: t.Name, Anchor: t.Anchor.String(), Err: err}, nil
		}
		return nil, nil, err
	}
	return anchors, nil, nil
}

func (p *Planner) planMatches(content string, t Transformation, env Env) ([]text.Edit, *status.Skip, error) {
	anchors, skip, err := p.find(content, t)
	if err != nil || skip != nil {
		return nil, skip, err
	}

	if len(anchors) == 0 {
		if t.Required {
			return nil, notFound(t), nil
		}
		// nothing left to delete or replace
		return nil, nil, nil
	}

	if t.Action == ActionRequire {
		return nil, nil, nil
	}

	replacement := ""
	if t.Action == ActionReplace {
		if t.Content == nil {
			return nil, nil, errors.Errorf("replace needs content")
		}
		block, err := t.Content.Render(env)
		if err != nil {
			return nil, unsupported(t, err), nil
		}
		replacement = block.Text
	}

	edits := make([]text.Edit, 0, len(anchors))
	for _, a := range anchors {
		edits = append(edits, text.Edit{Start: a.Start, End: a.End, Text: replacement, Rule: t.Name})
	}
	return edits, nil, nil
}

// capture returns the name captured by the first anchor of t
func (p *Planner) capture(content string, t Transformation) (string, *status.Skip, error) {
	anchors, skip, err := p.find(content, t)
	if err != nil || skip != nil {
		return "", skip, err
	}
	if len(anchors) == 0 {
		if t.Required {
			return "", notFound(t), nil
		}
		return "", nil, nil
	}
	return anchors[0].Name, nil, nil
}

func (p *Planner) planInsert(content string, t Transformation, env Env) ([]text.Edit, *status.Skip, error) {
	if t.Content == nil {
		return nil, nil, errors.Errorf("insert needs content")
	}

	block, err := t.Content.Render(env)
	if err != nil {
		return nil, unsupported(t, err), nil
	}
	if Present(content, block) {
		return nil, nil, nil
	}

	anchors, skip, err := p.find(content, t)
	if err != nil || skip != nil {
		return nil, skip, err
	}
	if len(anchors) == 0 {
		return nil, notFound(t), nil
	}

	a := anchors[0]
	offset := a.End
	if t.Action == ActionInsertBefore {
		offset = a.Start
	}

	return []text.Edit{{
		Start: offset,
		End:   offset,
		Text:  pad(content, offset, block, t.Action, env.Style.Newline),
		Rule:  t.Name,
	}}, nil, nil
}

// Present reports whether block has already been inserted into content.
// Imports must appear as a whole line; other blocks are found by signature.
func Present(content string, block generate.Block) bool {
	sig := block.Signature
	if sig == "" {
		sig = strings.TrimSpace(block.Text)
	}
	if sig == "" {
		return true
	}

	if block.Kind == generate.BlockImport {
		for _, line := range strings.Split(content, "\n") {
			if strings.TrimSpace(line) == sig {
				return true
			}
		}
		return false
	}
	return strings.Contains(content, sig)
}

// pad surrounds a block with the newlines it needs at offset. Imports sit
// on their own line; other blocks get a blank line on the side facing the
// anchor. Normalization removes any blank lines this doubles up. Line
// endings inside the block are rewritten to nl.
func pad(content string, offset int, block generate.Block, action Action, nl string) string {
	if nl == "" {
		nl = "\n"
	}
	body := block.Text
	if nl != "\n" {
		body = strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", nl)
	}

	var b strings.Builder
	if offset > 0 && content[offset-1] != '\n' {
		b.WriteString(nl)
	}

	switch {
	case block.Kind == generate.BlockImport:
		b.WriteString(body)
		b.WriteString(nl)
	case action == ActionInsertAfter:
		b.WriteString(nl)
		b.WriteString(body)
		b.WriteString(nl)
	default:
		b.WriteString(body)
		b.WriteString(nl + nl)
	}
	return b.String()
}

func notFound(t Transformation) *status.Skip {
	return &status.Skip{Reason: status.ReasonAnchorNotFound, Rule: t.Name, Anchor: t.Anchor.String()}
}

func unsupported(t Transformation, err error) *status.Skip {
	return &status.Skip{Reason: status.ReasonUnsupportedTarget, Rule: t.Name, Err: err}
}
