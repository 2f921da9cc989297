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
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dimigrate/cmd/dimigrate/opts"
	"github.com/walteh/dimigrate/pkg/config"
)

// BuildInfo describes the binary and the migration table it would run
type BuildInfo struct {
	Version   string
	Revision  string
	Dirty     bool
	Built     string
	GoVersion string
	Platform  string

	// Config is the config file in effect, "built-in" for the embedded table
	Config  string
	Passes  []string
	Targets int
}

// ReadBuildInfo fills the binary fields from the embedded module info
func ReadBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   "dev",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.time":
			info.Built = s.Value
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// WithConfig records which config the run command would load
func (info BuildInfo) WithConfig(cfg *config.Config) BuildInfo {
	info.Config = cfg.Location()
	if info.Config == "" {
		info.Config = "built-in"
	}
	info.Passes = info.Passes[:0]
	for _, p := range cfg.Passes {
		info.Passes = append(info.Passes, p.Name)
	}
	info.Targets = len(cfg.Targets)
	return info
}

// Render writes info as a two column table
func (info BuildInfo) Render(out io.Writer) error {
	revision := info.Revision
	if info.Dirty {
		revision += " (modified)"
	}
	rows := pterm.TableData{
		{"version", info.Version},
		{"revision", revision},
		{"built", info.Built},
		{"go", info.GoVersion},
		{"platform", info.Platform},
	}
	if info.Config != "" {
		rows = append(rows,
			[]string{"config", info.Config},
			[]string{"passes", strings.Join(info.Passes, ", ")},
			[]string{"targets", fmt.Sprint(info.Targets)},
		)
	}

	rendered, err := pterm.DefaultTable.WithData(rows).Srender()
	if err != nil {
		return errors.Errorf("rendering version: %w", err)
	}
	fmt.Fprintf(out, "🚀 dimigrate %s\n%s\n", info.Version, rendered)
	return nil
}

// NewVersionCmd creates a new version command
func NewVersionCmd(ro *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and config information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := ReadBuildInfo()
			cfg, err := ro.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}
			return info.WithConfig(cfg).Render(cmd.OutOrStdout())
		},
	}
}
