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
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/dimigrate/pkg/anchor"
	"github.com/walteh/dimigrate/pkg/generate"
	"github.com/walteh/dimigrate/pkg/locate"
	"github.com/walteh/dimigrate/pkg/rewrite"
	"github.com/walteh/dimigrate/pkg/status"
	"github.com/walteh/dimigrate/pkg/text"
)

// Observer is told about every file result as it is recorded
type Observer func(ctx context.Context, result status.FileResult)

// ⚙️ Options configures a Driver
type Options struct {
	// Root is the directory templates and globs resolve against
	Root string
	// Table holds the generated content for every target
	Table *generate.Table
	// Indent overrides the indentation detected per file
	Indent string
	// Files reads and writes source files, defaults to the os-backed manager
	Files status.FileManager
	// DryRun computes diffs instead of writing
	DryRun bool
	// Jobs is the number of files processed at once within a pass
	Jobs int
	// OnResult is called for every file result
	OnResult Observer
}

// 🚂 Driver runs passes over their file sets
type Driver struct {
	locator  *locate.Locator
	planner  *rewrite.Planner
	files    status.FileManager
	dryRun   bool
	jobs     int
	onResult Observer
}

// 🏭 NewDriver creates a driver
func NewDriver(opts Options) (*Driver, error) {
	if opts.Root == "" {
		return nil, errors.Errorf("root is required")
	}
	if opts.Table == nil {
		return nil, errors.Errorf("target table is required")
	}

	files := opts.Files
	if files == nil {
		files = status.New(opts.Root)
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	var plannerOpts []rewrite.Option
	if opts.Indent != "" {
		plannerOpts = append(plannerOpts, rewrite.WithIndent(opts.Indent))
	}

	return &Driver{
		locator:  locate.New(opts.Root, locate.WithFiles(files)),
		planner:  rewrite.NewPlanner(anchor.NewRegexpFinder(), generate.New(opts.Table), plannerOpts...),
		files:    files,
		dryRun:   opts.DryRun,
		jobs:     jobs,
		onResult: opts.OnResult,
	}, nil
}

// Run runs passes in order. Per-file problems end up in the reports; an
// error means invalid input or cancellation, in which case the reports
// gathered so far are returned with it.
func (d *Driver) Run(ctx context.Context, passes ...Pass) ([]*status.Report, error) {
	if len(passes) == 0 {
		return nil, errors.Errorf("no passes to run")
	}

	reports := make([]*status.Report, 0, len(passes))
	for _, p := range passes {
		report, err := d.runPass(ctx, p)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			return reports, errors.Errorf("running pass %s: %w", p.Name, err)
		}
	}
	return reports, nil
}

func (d *Driver) runPass(ctx context.Context, p Pass) (*status.Report, error) {
	logger := zerolog.Ctx(ctx).With().Str("pass", p.Name).Logger()
	ctx = logger.WithContext(ctx)

	report := status.NewReport(p.Name)

	resolved, err := d.resolve(ctx, p.Files)
	if err != nil {
		if errors.Is(err, locate.ErrNoFiles) {
			logger.Warn().Err(err).Msg("no files to process")
			report.Warnings = append(report.Warnings, err.Error())
			return report, nil
		}
		return nil, err
	}

	for i, f := range resolved.Files {
		report.Reserve(f.Path, i)
	}
	for i, f := range resolved.Missing {
		report.Reserve(f.Path, len(resolved.Files)+i)
		d.record(ctx, report, status.FileResult{Path: f.Path, Name: f.Name, Outcome: status.OutcomeMissingFile})
	}
	for i, f := range resolved.Failed {
		report.Reserve(f.Path, len(resolved.Files)+len(resolved.Missing)+i)
		d.record(ctx, report, status.FileResult{
			Path:    f.Path,
			Name:    f.Name,
			Outcome: status.OutcomeFailed,
			Err:     errors.Errorf("checking %s: %w", f.Path, f.Err),
			Skips:   []status.Skip{{Reason: status.ReasonReadFailure, Err: f.Err}},
		})
	}

	logger.Debug().
		Int("files", len(resolved.Files)).
		Int("missing", len(resolved.Missing)).
		Int("failed", len(resolved.Failed)).
		Int("jobs", d.jobs).
		Msg("processing files")

	g := &errgroup.Group{}
	g.SetLimit(d.jobs)
	for _, f := range resolved.Files {
		// stop between files, never inside one
		if ctx.Err() != nil {
			break
		}
		f := f
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			d.record(ctx, report, d.processFile(ctx, p, f))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		report.Cancelled = true
		return report, err
	}
	return report, nil
}

func (d *Driver) resolve(ctx context.Context, files FileSet) (*locate.Result, error) {
	if files.Glob != "" {
		return d.locator.Glob(ctx, files.Glob, files.Exclude...)
	}
	return d.locator.Resolve(ctx, files.Template, files.Targets)
}

func (d *Driver) record(ctx context.Context, report *status.Report, result status.FileResult) {
	result.Pass = report.Pass
	report.Add(result)
	if d.onResult != nil {
		d.onResult(ctx, result)
	}
}

// processFile reads f once, plans and applies the pass, and writes only if
// the content changed.
func (d *Driver) processFile(ctx context.Context, p Pass, f locate.File) status.FileResult {
	logger := zerolog.Ctx(ctx).With().Str("file", f.Path).Logger()
	result := status.FileResult{Path: f.Path, Name: f.Name}

	data, err := d.files.ReadFile(ctx, f.Path)
	if err != nil {
		result.Outcome = status.OutcomeFailed
		result.Err = errors.Errorf("reading %s: %w", f.Path, err)
		result.Skips = []status.Skip{{Reason: status.ReasonReadFailure, Err: err}}
		return result
	}
	content := string(data)

	plan, err := d.planner.Plan(ctx, content, f.Name, p.Transformations)
	if err != nil {
		result.Outcome = status.OutcomeFailed
		result.Err = err
		return result
	}
	if plan.Target != "" {
		result.Name = plan.Target
	}
	result.Skips = plan.Skips

	if plan.Skipped != nil {
		logger.Debug().Str("reason", string(plan.Skipped.Reason)).Msg("file skipped")
		result.Outcome = status.OutcomeSkipped
		result.Skips = append([]status.Skip{*plan.Skipped}, result.Skips...)
		return result
	}

	applied := text.Apply(content, plan.Edits)
	for _, e := range applied.Dropped {
		result.Skips = append(result.Skips, status.Skip{Reason: status.ReasonOverlappingEdit, Rule: e.Rule})
	}
	result.Edits = applied.EditCount

	if !applied.WasModified {
		result.Outcome = status.OutcomeUnchanged
		if len(result.Skips) > 0 {
			result.Outcome = status.OutcomeSkipped
		}
		return result
	}

	if d.dryRun {
		result.Outcome = status.OutcomeUpdated
		result.Diff = Diff(f.Path, applied.OriginalContent, applied.ModifiedContent)
		return result
	}

	if err := d.files.WriteFileAtomic(ctx, f.Path, []byte(applied.ModifiedContent)); err != nil {
		logger.Error().Err(err).Msg("write failed")
		result.Outcome = status.OutcomeFailed
		result.Err = errors.Errorf("writing %s: %w", f.Path, err)
		result.Skips = append([]status.Skip{{Reason: status.ReasonWriteFailure, Err: err}}, result.Skips...)
		return result
	}

	logger.Debug().Int("edits", applied.EditCount).Msg("file updated")
	result.Outcome = status.OutcomeUpdated
	return result
}
