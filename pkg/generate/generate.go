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

// Package generate turns logical target names into the exact text that gets
// inserted into, or substituted in, a source file.
package generate

import (
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrUnsupportedTarget is returned when a logical name has no table entry.
var ErrUnsupportedTarget = errors.Base("unsupported target")

// 📐 BlockKind says how a generated block sits in the file
type BlockKind int

const (
	BlockFactory BlockKind = iota // declaration separated by blank lines
	BlockImport                   // single line, no blank lines around it
)

func (k BlockKind) String() string {
	switch k {
	case BlockFactory:
		return "factory"
	case BlockImport:
		return "import"
	default:
		return "unknown"
	}
}

// 🧱 Block is generated text for one target
type Block struct {
	Target    string
	Kind      BlockKind
	Text      string // exact text without surrounding blank lines
	Signature string // present in a file once the block has been inserted
}

// 🎯 Target is one row of the generation table
type Target struct {
	Name     string // logical name, e.g. ServerListScreen
	Category string // path segment, e.g. server

	// Factory is the declaration to insert, indented with tabs. Tabs are
	// rewritten to the file's indentation unit.
	Factory string

	// Signature identifies an inserted factory. Defaults to the first
	// declaration line of Factory (annotations and comments skipped) up to
	// and including the first "(".
	Signature string

	// Call replaces generic call sites, e.g. serverEditViewModel(serverId).
	Call string
}

// 📚 Table is an immutable name → Target mapping
type Table struct {
	targets map[string]Target
	names   []string
}

// NewTable builds a table, rejecting unnamed and duplicate targets.
func NewTable(targets []Target) (*Table, error) {
	t := &Table{targets: make(map[string]Target, len(targets))}
	for i, target := range targets {
		if target.Name == "" {
			return nil, errors.Errorf("target %d: name is required", i)
		}
		if _, ok := t.targets[target.Name]; ok {
			return nil, errors.Errorf("target %q: duplicate name", target.Name)
		}
		if target.Signature == "" {
			target.Signature = deriveSignature(target.Factory)
		}
		t.targets[target.Name] = target
		t.names = append(t.names, target.Name)
	}
	return t, nil
}

// Lookup returns the target registered under name.
func (t *Table) Lookup(name string) (Target, bool) {
	if t == nil {
		return Target{}, false
	}
	target, ok := t.targets[name]
	return target, ok
}

// Names returns the registered names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := append([]string(nil), t.names...)
	sort.Strings(names)
	return names
}

// 🎨 Style carries the conventions of the file receiving the text
type Style struct {
	Indent  string
	Newline string // line ending, "\n" when empty
}

// 🏭 Generator renders blocks from a Table
type Generator struct {
	table *Table
}

// New creates a Generator over table.
func New(table *Table) *Generator {
	return &Generator{table: table}
}

// Factory renders the factory declaration for name.
func (g *Generator) Factory(name string, style Style) (Block, error) {
	target, ok := g.table.Lookup(name)
	if !ok || strings.TrimSpace(target.Factory) == "" {
		return Block{}, errors.Errorf("%w: no factory for %q", ErrUnsupportedTarget, name)
	}

	return Block{
		Target:    name,
		Kind:      BlockFactory,
		Text:      reindent(strings.Trim(target.Factory, "\n"), style.Indent),
		Signature: target.Signature,
	}, nil
}

// Call returns the call token that replaces generic call sites for name.
func (g *Generator) Call(name string) (string, error) {
	target, ok := g.table.Lookup(name)
	if !ok || target.Call == "" {
		return "", errors.Errorf("%w: no call for %q", ErrUnsupportedTarget, name)
	}
	return target.Call, nil
}

// 📦 Import renders an import line. The line is its own signature.
func Import(keyword, path string) Block {
	if keyword == "" {
		keyword = "import"
	}
	line := keyword + " " + path
	return Block{
		Target:    path,
		Kind:      BlockImport,
		Text:      line,
		Signature: line,
	}
}

func deriveSignature(factory string) string {
	var first string
	for _, line := range strings.Split(factory, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isPreamble(line) {
			continue
		}
		first = line
		break
	}
	if i := strings.Index(first, "("); i >= 0 {
		return first[:i+1]
	}
	return first
}

func isPreamble(line string) bool {
	for _, prefix := range []string{"@", "/*", "*", "//"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// reindent replaces each leading tab with indent.
func reindent(text, indent string) string {
	if indent == "" || indent == "\t" {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		depth := len(line) - len(strings.TrimLeft(line, "\t"))
		if depth > 0 {
			lines[i] = strings.Repeat(indent, depth) + line[depth:]
		}
	}
	return strings.Join(lines, "\n")
}
