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

package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/dimigrate/cmd/dimigrate/commands"
	"github.com/walteh/dimigrate/cmd/dimigrate/opts"
	"github.com/walteh/dimigrate/pkg/log"
)

// newRootCmd creates the command tree. Console output goes to stdout,
// structured logs to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	ro := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "dimigrate",
		Short: "Migrate a Kotlin Android project off Hilt injection",
		Long: `dimigrate rewrites Kotlin sources in ordered passes: it strips injection
annotations and imports, switches screens to compose viewModel(), and inserts
AppContainer-backed factories for each screen's ViewModel.

Every pass is idempotent, so running it twice leaves files untouched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(setupLogging(cmd.Context(), stdout, stderr, ro.Debug))
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addRootFlags(cmd, ro)

	cmd.AddCommand(
		commands.NewRunCmd(ro),
		commands.NewListCmd(ro),
		commands.NewVersionCmd(ro),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, ro *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&ro.ConfigFile, "config", "c", "", "config file path (.yaml, .hcl or .json), built-in table when empty")
	cmd.PersistentFlags().StringVarP(&ro.Root, "root", "r", "", "override the source root from the config")
	cmd.PersistentFlags().BoolVarP(&ro.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging puts a zerolog logger and a console logger into ctx
func setupLogging(ctx context.Context, stdout, stderr io.Writer, debug bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()

	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.New(stdout, zlog))
}
