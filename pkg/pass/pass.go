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

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dimigrate/pkg/anchor"
	"github.com/walteh/dimigrate/pkg/config"
	"github.com/walteh/dimigrate/pkg/generate"
	"github.com/walteh/dimigrate/pkg/locate"
	"github.com/walteh/dimigrate/pkg/rewrite"
)

// 📂 FileSet is either a template expanded per target or a glob
type FileSet struct {
	Template string
	Targets  []locate.Target
	Glob     string
	Exclude  []string
}

// String describes the file set for listings
func (f FileSet) String() string {
	if f.Glob != "" {
		return f.Glob
	}
	return fmt.Sprintf("%s (%d targets)", f.Template, len(f.Targets))
}

// 📦 Pass is a named list of transformations over a file set
type Pass struct {
	Name            string
	Description     string
	Files           FileSet
	Transformations []rewrite.Transformation
}

// 📚 Catalog is the compiled form of a config
type Catalog struct {
	Root          string
	Indent        string
	ImportKeyword string

	passes []Pass
	table  *generate.Table
}

// 🏗️ Build compiles cfg into passes and a target table
func Build(cfg *config.Config) (*Catalog, error) {
	targets := make([]generate.Target, 0, len(cfg.Targets))
	categories := make(map[string]string, len(cfg.Targets))
	for _, t := range cfg.Targets {
		targets = append(targets, generate.Target{
			Name:      t.Name,
			Category:  t.Category,
			Factory:   t.Factory,
			Signature: t.Signature,
			Call:      t.Call,
		})
		categories[t.Name] = t.Category
	}

	table, err := generate.NewTable(targets)
	if err != nil {
		return nil, errors.Errorf("building target table: %w", err)
	}

	keyword := cfg.ImportKeyword
	if keyword == "" {
		keyword = anchor.DefaultImportKeyword
	}

	c := &Catalog{
		Root:          cfg.Root,
		Indent:        cfg.Indent,
		ImportKeyword: keyword,
		table:         table,
	}

	for _, pc := range cfg.Passes {
		p, err := buildPass(pc, keyword, categories, table)
		if err != nil {
			return nil, errors.Errorf("building pass %q: %w", pc.Name, err)
		}
		c.passes = append(c.passes, p)
	}

	return c, nil
}

// Table returns the generated content table
func (c *Catalog) Table() *generate.Table {
	return c.table
}

// Passes returns every pass in config order
func (c *Catalog) Passes() []Pass {
	return append([]Pass(nil), c.passes...)
}

// Select returns the named passes in the order given. No names selects
// every pass.
func (c *Catalog) Select(names ...string) ([]Pass, error) {
	if len(names) == 0 {
		return c.Passes(), nil
	}

	selected := make([]Pass, 0, len(names))
	for _, name := range names {
		found := false
		for _, p := range c.passes {
			if p.Name == name {
				selected = append(selected, p)
				found = true
				break
			}
		}
		if !found {
			return nil, errors.Errorf("unknown pass %q", name)
		}
	}
	return selected, nil
}

func buildPass(pc config.Pass, keyword string, categories map[string]string, table *generate.Table) (Pass, error) {
	p := Pass{
		Name:        pc.Name,
		Description: pc.Description,
		Files: FileSet{
			Template: pc.Template,
			Glob:     pc.Glob,
			Exclude:  pc.Exclude,
		},
	}

	if pc.Template != "" {
		names := pc.Targets
		if len(names) == 0 {
			names = table.Names()
		}
		for _, name := range names {
			p.Files.Targets = append(p.Files.Targets, locate.Target{Name: name, Category: categories[name]})
		}
	}

	var ts []rewrite.Transformation

	if d := pc.Declaration; d != nil {
		spec, err := anchor.Declaration(d.Marker, d.Keyword, d.Name)
		if err != nil {
			return Pass{}, err
		}
		action := rewrite.ActionRequire
		if pc.TargetFrom == config.TargetFromDeclaration {
			action = rewrite.ActionCapture
		}
		ts = append(ts, rewrite.Transformation{
			Name:     "declaration",
			Anchor:   spec,
			Action:   action,
			Required: true,
		})
	}

	for _, path := range pc.StripImports {
		ts = append(ts, rewrite.Transformation{
			Name:   "strip-import " + path,
			Anchor: anchor.Import(keyword, path),
			Action: rewrite.ActionDelete,
		})
	}

	for _, name := range pc.StripAnnotations {
		ts = append(ts, rewrite.Transformation{
			Name:   "strip-annotation " + name,
			Anchor: anchor.Annotation(name),
			Action: rewrite.ActionDelete,
		})
	}

	for i, r := range pc.Rules {
		spec, err := anchor.Pattern(r.Pattern)
		if err != nil {
			return Pass{}, errors.Errorf("rules[%d]: %w", i, err)
		}
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("rule %d", i)
		}
		t := rewrite.Transformation{Name: name, Anchor: spec, Action: rewrite.ActionDelete}
		if r.With != "" {
			t.Action = rewrite.ActionReplace
			t.Content = rewrite.Fixed(r.With)
		}
		ts = append(ts, t)
	}

	for _, r := range pc.Replace {
		ts = append(ts, rewrite.Transformation{
			Name:    "replace " + r.Call,
			Anchor:  anchor.Call(r.Call),
			Action:  rewrite.ActionReplace,
			Content: rewrite.Fixed(r.With),
		})
	}

	for _, path := range pc.AddImports {
		ts = append(ts, rewrite.Transformation{
			Name:    "add-import " + path,
			Anchor:  anchor.LastImport(keyword),
			Action:  rewrite.ActionInsertAfter,
			Content: rewrite.ImportLine(keyword, path),
		})
	}

	if pc.AddFactory {
		ts = append(ts, rewrite.Transformation{
			Name:    "add-factory",
			Anchor:  anchor.LastImport(keyword),
			Action:  rewrite.ActionInsertAfter,
			Content: rewrite.TargetFactory(),
		})
	}

	if pc.RewireCall != "" {
		ts = append(ts, rewrite.Transformation{
			Name:    "rewire " + pc.RewireCall,
			Anchor:  anchor.Call(pc.RewireCall),
			Action:  rewrite.ActionReplace,
			Content: rewrite.TargetCall(),
		})
	}

	p.Transformations = ts
	return p, nil
}
