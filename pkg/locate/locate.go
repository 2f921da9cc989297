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

// Package locate turns path templates and globs into the list of files a
// pass operates on.
package locate

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dimigrate/pkg/status"
)

// ErrNoFiles is returned when a glob matches nothing
var ErrNoFiles = errors.Base("no files matched")

// 🎯 Target is a logical name and the path segment it lives under
type Target struct {
	Name     string
	Category string
}

// 📄 File is a resolved path and the logical name it was resolved for
type File struct {
	Path     string
	Name     string
	Category string
}

// Failure is a requested path whose existence could not be checked
type Failure struct {
	File
	Err error
}

// 📋 Result is the outcome of a resolution. Files exist; Missing were
// requested but are not on disk; Failed could not be checked.
type Result struct {
	Files   []File
	Missing []File
	Failed  []Failure
}

// Checker reports whether a path is an existing regular file
type Checker interface {
	FileExists(ctx context.Context, path string) (bool, error)
}

// 🔍 Locator resolves files under a root directory
type Locator struct {
	root  string
	files Checker
}

// Option configures a Locator
type Option func(*Locator)

// WithFiles checks template paths through files instead of a status.Manager on root
func WithFiles(files Checker) Option {
	return func(l *Locator) {
		l.files = files
	}
}

// 🏭 New creates a locator rooted at root
func New(root string, opts ...Option) *Locator {
	l := &Locator{root: filepath.Clean(root)}
	for _, opt := range opts {
		opt(l)
	}
	if l.files == nil {
		l.files = status.New(l.root)
	}
	return l
}

// Root returns the directory paths are resolved against
func (l *Locator) Root() string {
	return l.root
}

// Expand substitutes {root}, {category} and {name} in template. A template
// without {root} that expands to a relative path is joined to the root.
func (l *Locator) Expand(template string, target Target) string {
	path := strings.NewReplacer(
		"{root}", l.root,
		"{category}", target.Category,
		"{name}", target.Name,
	).Replace(template)

	path = filepath.FromSlash(path)
	if !filepath.IsAbs(path) && !strings.Contains(template, "{root}") {
		path = filepath.Join(l.root, path)
	}
	return filepath.Clean(path)
}

// Resolve expands template for every target. The first target claiming a
// path wins; later duplicates are dropped. A path that cannot be checked
// lands in Failed and never fails the whole resolution.
func (l *Locator) Resolve(ctx context.Context, template string, targets []Target) (*Result, error) {
	if template == "" {
		return nil, errors.Errorf("empty path template")
	}

	result := &Result{}
	seen := make(map[string]bool, len(targets))
	for _, target := range targets {
		file := File{
			Path:     l.Expand(template, target),
			Name:     target.Name,
			Category: target.Category,
		}
		if seen[file.Path] {
			zerolog.Ctx(ctx).Debug().Str("path", file.Path).Str("target", target.Name).Msg("duplicate path dropped")
			continue
		}
		seen[file.Path] = true

		ok, err := l.files.FileExists(ctx, file.Path)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("path", file.Path).Msg("checking file failed")
			result.Failed = append(result.Failed, Failure{File: file, Err: err})
			continue
		}
		if !ok {
			result.Missing = append(result.Missing, file)
			continue
		}
		result.Files = append(result.Files, file)
	}

	return result, nil
}

// Glob matches pattern under the root, skipping anything matched by one of
// the exclude patterns. Paths are returned sorted. The logical name of a
// file is its base name without extension.
func (l *Locator) Glob(ctx context.Context, pattern string, exclude ...string) (*Result, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid glob pattern %q", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(l.root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %q under %s: %w", pattern, l.root, err)
	}
	sort.Strings(matches)

	result := &Result{}
	seen := make(map[string]bool, len(matches))
outer:
	for _, match := range matches {
		for _, ex := range exclude {
			ok, err := doublestar.Match(ex, match)
			if err != nil {
				return nil, errors.Errorf("matching exclude pattern %q: %w", ex, err)
			}
			if ok {
				zerolog.Ctx(ctx).Debug().Str("path", match).Str("exclude", ex).Msg("excluded")
				continue outer
			}
		}

		path := filepath.Join(l.root, filepath.FromSlash(match))
		if seen[path] {
			continue
		}
		seen[path] = true

		base := filepath.Base(path)
		result.Files = append(result.Files, File{
			Path:     path,
			Name:     strings.TrimSuffix(base, filepath.Ext(base)),
			Category: filepath.Base(filepath.Dir(path)),
		})
	}

	if len(result.Files) == 0 {
		return result, errors.Errorf("%w: %q under %s", ErrNoFiles, pattern, l.root)
	}
	return result, nil
}
