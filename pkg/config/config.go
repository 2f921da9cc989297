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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.Base("invalid config")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte, filename string) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// Target sources for a pass
const (
	TargetFromFile        = "file"        // logical name of the resolved file
	TargetFromDeclaration = "declaration" // name captured by the declaration anchor
)

// 🎯 Target is one row of the generated content table
type Target struct {
	Name      string `json:"name" yaml:"name" hcl:"name,label"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty" hcl:"category,optional"`
	Factory   string `json:"factory,omitempty" yaml:"factory,omitempty" hcl:"factory,optional"`
	Signature string `json:"signature,omitempty" yaml:"signature,omitempty" hcl:"signature,optional"`
	Call      string `json:"call,omitempty" yaml:"call,omitempty" hcl:"call,optional"`
}

// 🏷️ Declaration selects the annotated declaration a pass hangs off
type Declaration struct {
	Marker  string `json:"marker" yaml:"marker" hcl:"marker"`
	Keyword string `json:"keyword" yaml:"keyword" hcl:"keyword"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty" hcl:"name,optional"`
}

// 🔄 Replace swaps every occurrence of a call token for fixed text
type Replace struct {
	Call string `json:"call" yaml:"call" hcl:"call"`
	With string `json:"with" yaml:"with" hcl:"with"`
}

// ✂️ Rule is a free-form regular expression rewrite. An empty With deletes.
type Rule struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty" hcl:"name,optional"`
	Pattern string `json:"pattern" yaml:"pattern" hcl:"pattern"`
	With    string `json:"with,omitempty" yaml:"with,omitempty" hcl:"with,optional"`
}

// 📦 Pass is a named, ordered set of rules over a file set
type Pass struct {
	Name        string `json:"name" yaml:"name" hcl:"name,label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" hcl:"description,optional"`

	// file set: a template expanded per target, or a glob under the root
	Template string   `json:"template,omitempty" yaml:"template,omitempty" hcl:"template,optional"`
	Targets  []string `json:"targets,omitempty" yaml:"targets,omitempty" hcl:"targets,optional"`
	Glob     string   `json:"glob,omitempty" yaml:"glob,omitempty" hcl:"glob,optional"`
	Exclude  []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`

	TargetFrom  string       `json:"target_from,omitempty" yaml:"target_from,omitempty" hcl:"target_from,optional"`
	Declaration *Declaration `json:"declaration,omitempty" yaml:"declaration,omitempty" hcl:"declaration,block"`

	StripImports     []string  `json:"strip_imports,omitempty" yaml:"strip_imports,omitempty" hcl:"strip_imports,optional"`
	StripAnnotations []string  `json:"strip_annotations,omitempty" yaml:"strip_annotations,omitempty" hcl:"strip_annotations,optional"`
	Rules            []Rule    `json:"rules,omitempty" yaml:"rules,omitempty" hcl:"rule,block"`
	Replace          []Replace `json:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,block"`
	AddImports       []string  `json:"add_imports,omitempty" yaml:"add_imports,omitempty" hcl:"add_imports,optional"`
	AddFactory       bool      `json:"add_factory,omitempty" yaml:"add_factory,omitempty" hcl:"add_factory,optional"`
	RewireCall       string    `json:"rewire_call,omitempty" yaml:"rewire_call,omitempty" hcl:"rewire_call,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Root          string   `json:"root" yaml:"root" hcl:"root,optional"`
	Indent        string   `json:"indent,omitempty" yaml:"indent,omitempty" hcl:"indent,optional"`
	ImportKeyword string   `json:"import_keyword,omitempty" yaml:"import_keyword,omitempty" hcl:"import_keyword,optional"`
	Targets       []Target `json:"targets,omitempty" yaml:"targets,omitempty" hcl:"target,block"`
	Passes        []Pass   `json:"passes" yaml:"passes" hcl:"pass,block"`

	location string
}

// Location returns the file the config was loaded from, or "" for the
// built-in default.
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data, path)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Int("targets", len(cfg.Targets)).Int("passes", len(cfg.Passes)).Msg("configuration loaded")
	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid. Targets referenced by a
// pass are not checked here; a miss is reported per file at run time.
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		return errors.Errorf("%w: root is required", ErrInvalid)
	}
	if len(cfg.Passes) == 0 {
		return errors.Errorf("%w: at least one pass is required", ErrInvalid)
	}

	cfg.Root = filepath.Clean(cfg.Root)

	seen := make(map[string]bool, len(cfg.Targets))
	for i, t := range cfg.Targets {
		if t.Name == "" {
			return errors.Errorf("%w: targets[%d]: name is required", ErrInvalid, i)
		}
		if seen[t.Name] {
			return errors.Errorf("%w: target %q: duplicate name", ErrInvalid, t.Name)
		}
		seen[t.Name] = true
	}

	passes := make(map[string]bool, len(cfg.Passes))
	for i := range cfg.Passes {
		p := &cfg.Passes[i]
		if p.Name == "" {
			return errors.Errorf("%w: passes[%d]: name is required", ErrInvalid, i)
		}
		if passes[p.Name] {
			return errors.Errorf("%w: pass %q: duplicate name", ErrInvalid, p.Name)
		}
		passes[p.Name] = true

		if err := p.validate(); err != nil {
			return errors.Errorf("%w: pass %q: %s", ErrInvalid, p.Name, err.Error())
		}
	}

	return nil
}

func (p *Pass) validate() error {
	switch {
	case p.Template == "" && p.Glob == "":
		return errors.Errorf("one of template or glob is required")
	case p.Template != "" && p.Glob != "":
		return errors.Errorf("template and glob are mutually exclusive")
	}

	switch p.TargetFrom {
	case "":
		p.TargetFrom = TargetFromFile
	case TargetFromFile:
	case TargetFromDeclaration:
		if p.Declaration == nil {
			return errors.Errorf("target_from %q needs a declaration", p.TargetFrom)
		}
	default:
		return errors.Errorf("unknown target_from %q", p.TargetFrom)
	}

	if d := p.Declaration; d != nil {
		if d.Marker == "" || d.Keyword == "" {
			return errors.Errorf("declaration needs a marker and a keyword")
		}
		if d.Name != "" {
			if _, err := regexp.Compile(d.Name); err != nil {
				return errors.Errorf("declaration name: %w", err)
			}
		}
	}

	for i, r := range p.Rules {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return errors.Errorf("rules[%d]: %w", i, err)
		}
	}
	for i, r := range p.Replace {
		if r.Call == "" {
			return errors.Errorf("replace[%d]: call is required", i)
		}
	}

	return nil
}

// Pass returns the pass called name
func (cfg *Config) Pass(name string) (Pass, bool) {
	for _, p := range cfg.Passes {
		if p.Name == name {
			return p, true
		}
	}
	return Pass{}, false
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	names := make([]string, 0, len(cfg.Passes))
	for _, p := range cfg.Passes {
		names = append(names, p.Name)
	}
	return fmt.Sprintf("%s [%s]", cfg.Root, strings.Join(names, ", "))
}
