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

package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dimigrate/cmd/dimigrate/opts"
	"github.com/walteh/dimigrate/pkg/log"
	"github.com/walteh/dimigrate/pkg/pass"
	"github.com/walteh/dimigrate/pkg/status"
)

// RunOpts holds the flags of the run command
type RunOpts struct {
	DryRun bool
	Jobs   int
}

// NewRunCmd creates a new run command
func NewRunCmd(ro *opts.RootOpts) *cobra.Command {
	ropts := &RunOpts{}

	cmd := &cobra.Command{
		Use:   "run [pass...]",
		Short: "Run migration passes",
		Long: `Run applies the named passes in the order given, or every pass in
config order when none are named. For each file it will:
1. Read the file once
2. Locate anchors and plan the edits
3. Apply them and write the file only if it changed

Files that are missing, or whose anchors cannot be found, are reported
and skipped. The command fails when any file could not be read or written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), ro, ropts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&ropts.DryRun, "dry-run", false, "print a diff for each file instead of writing it")
	cmd.Flags().IntVarP(&ropts.Jobs, "jobs", "j", 1, "files processed at once within a pass")

	return cmd
}

// Run executes passes and prints their results
func Run(ctx context.Context, ro *opts.RootOpts, ropts *RunOpts, names []string, out io.Writer) error {
	logger := log.FromContext(ctx)

	cfg, err := ro.LoadConfig(ctx)
	if err != nil {
		return err
	}

	catalog, err := pass.Build(cfg)
	if err != nil {
		return errors.Errorf("building passes: %w", err)
	}

	passes, err := catalog.Select(names...)
	if err != nil {
		return err
	}

	driver, err := pass.NewDriver(pass.Options{
		Root:     catalog.Root,
		Table:    catalog.Table(),
		Indent:   catalog.Indent,
		DryRun:   ropts.DryRun,
		Jobs:     ropts.Jobs,
		OnResult: logger.LogResult,
	})
	if err != nil {
		return errors.Errorf("creating driver: %w", err)
	}

	mode := "writing"
	if ropts.DryRun {
		mode = "dry run"
	}
	logger.Header(fmt.Sprintf("%s (%s)", catalog.Root, mode))

	var (
		reports []*status.Report
		runErr  error
	)
	for _, p := range passes {
		logger.StartPass(ctx, p.Name, p.Description)
		rs, err := driver.Run(ctx, p)
		for _, r := range rs {
			for _, w := range r.Warnings {
				logger.Warning(w)
			}
			logger.LogSummary(ctx, r)
		}
		logger.LogNewline()
		reports = append(reports, rs...)
		if err != nil {
			runErr = err
			break
		}
	}

	if err := renderSummary(out, reports); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}

	failed := 0
	for _, r := range reports {
		failed += r.Count(status.OutcomeFailed)
	}
	if failed > 0 {
		return errors.Errorf("%d file(s) failed", failed)
	}

	logger.Success("migration complete")
	return nil
}

// renderSummary prints one row of counts per pass
func renderSummary(out io.Writer, reports []*status.Report) error {
	if len(reports) == 0 {
		return nil
	}

	data := pterm.TableData{{"Pass", "Updated", "Unchanged", "Skipped", "Missing", "Failed"}}
	for _, r := range reports {
		name := r.Pass
		if r.Cancelled {
			name += " (cancelled)"
		}
		data = append(data, []string{
			name,
			strconv.Itoa(r.Count(status.OutcomeUpdated)),
			strconv.Itoa(r.Count(status.OutcomeUnchanged)),
			strconv.Itoa(r.Count(status.OutcomeSkipped)),
			strconv.Itoa(r.Count(status.OutcomeMissingFile)),
			strconv.Itoa(r.Count(status.OutcomeFailed)),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}
	fmt.Fprintln(out, table)
	return nil
}
