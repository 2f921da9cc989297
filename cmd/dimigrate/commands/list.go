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
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dimigrate/cmd/dimigrate/opts"
	"github.com/walteh/dimigrate/pkg/config"
	"github.com/walteh/dimigrate/pkg/pass"
)

// NewListCmd creates a new list command
func NewListCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List passes and targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}
			return List(cfg, cmd.OutOrStdout())
		},
	}

	return cmd
}

// List prints the passes and targets of cfg
func List(cfg *config.Config, out io.Writer) error {
	catalog, err := pass.Build(cfg)
	if err != nil {
		return errors.Errorf("building passes: %w", err)
	}

	fmt.Fprintf(out, "root: %s\n\n", catalog.Root)

	passes := pterm.TableData{{"Pass", "Files", "Rules", "Description"}}
	for _, p := range catalog.Passes() {
		passes = append(passes, []string{p.Name, p.Files.String(), fmt.Sprint(len(p.Transformations)), p.Description})
	}
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(passes).Srender()
	if err != nil {
		return errors.Errorf("rendering passes: %w", err)
	}
	fmt.Fprintln(out, rendered)

	targets := pterm.TableData{{"Target", "Category", "Call", "Factory"}}
	for _, t := range cfg.Targets {
		factory := "no"
		if t.Factory != "" {
			factory = "yes"
		}
		targets = append(targets, []string{t.Name, t.Category, t.Call, factory})
	}
	rendered, err = pterm.DefaultTable.WithHasHeader().WithData(targets).Srender()
	if err != nil {
		return errors.Errorf("rendering targets: %w", err)
	}
	fmt.Fprintln(out, rendered)

	return nil
}
