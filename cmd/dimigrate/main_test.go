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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/dimigrate/pkg/testutils"
)

const testConfig = `root: src
targets:
  - name: One
    category: a
  - name: Two
    category: b
  - name: Three
    category: c
passes:
  - name: strip-inject
    description: remove Inject
    template: "{root}/{category}/{name}.kt"
    strip_imports:
      - javax.inject.Inject
    strip_annotations:
      - Inject
`

func setupProject(t *testing.T) (dir string, cfgPath string) {
	t.Helper()
	color.NoColor = true
	pterm.DisableColor()

	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "dimigrate.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0o644))

	testutils.WriteTree(t, dir, map[string]string{
		"src/a/One.kt": "package a\n\nimport javax.inject.Inject\n\nclass One @Inject constructor()\n",
		"src/b/Two.kt": "package b\n\nclass Two\n",
	})
	return dir, cfgPath
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRunCommand(t *testing.T) {
	dir, cfgPath := setupProject(t)
	root := filepath.Join(dir, "src")

	stdout, _, err := execute(t, "run", "--config", cfgPath, "--root", root)
	require.NoError(t, err)

	assert.Contains(t, stdout, "◆ strip-inject • remove Inject")
	assert.Contains(t, stdout, "Processed: One")
	assert.Contains(t, stdout, "Processed: Two")
	assert.Contains(t, stdout, "File not found: "+filepath.Join(root, "c", "Three.kt"))
	assert.Contains(t, stdout, "strip-inject: 1 updated, 1 unchanged, 0 skipped, 1 missing, 0 failed")
	assert.Contains(t, stdout, "migration complete")

	assert.Equal(t, "package a\n\nclass One constructor()\n", testutils.ReadFile(t, root, "a/One.kt"))

	// second run is a no-op
	stdout, _, err = execute(t, "run", "-c", cfgPath, "-r", root, "strip-inject")
	require.NoError(t, err)
	assert.Contains(t, stdout, "strip-inject: 0 updated, 2 unchanged, 0 skipped, 1 missing, 0 failed")
}

func TestRunCommand_DryRun(t *testing.T) {
	dir, cfgPath := setupProject(t)
	root := filepath.Join(dir, "src")

	stdout, _, err := execute(t, "run", "-c", cfgPath, "-r", root, "--dry-run", "--jobs", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dry run")
	assert.Contains(t, stdout, "-import javax.inject.Inject\n")
	assert.Contains(t, stdout, "+class One constructor()\n")

	assert.Contains(t, testutils.ReadFile(t, root, "a/One.kt"), "@Inject", "dry run leaves the file alone")
}

func TestRunCommand_Errors(t *testing.T) {
	dir, cfgPath := setupProject(t)
	root := filepath.Join(dir, "src")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown_pass",
			args:    []string{"run", "-c", cfgPath, "-r", root, "nope"},
			wantErr: `unknown pass "nope"`,
		},
		{
			name:    "missing_config",
			args:    []string{"run", "-c", filepath.Join(dir, "missing.yaml")},
			wantErr: "loading config",
		},
		{
			name:    "unsupported_config_format",
			args:    []string{"list", "-c", filepath.Join(dir, "config.toml")},
			wantErr: "loading config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunCommand_FailedFileExitsNonZero(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir, cfgPath := setupProject(t)
	root := filepath.Join(dir, "src")

	locked := filepath.Join(root, "a")
	require.NoError(t, os.Chmod(locked, 0o555))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	stdout, _, err := execute(t, "run", "-c", cfgPath, "-r", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 file(s) failed")
	assert.Contains(t, stdout, "Processed: Two", "the batch continues past the failure")
}

func TestListCommand(t *testing.T) {
	_, cfgPath := setupProject(t)

	stdout, _, err := execute(t, "list", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "strip-inject")
	assert.Contains(t, stdout, "{root}/{category}/{name}.kt (3 targets)")
	assert.Contains(t, stdout, "Three")
}

func TestListCommand_Default(t *testing.T) {
	color.NoColor = true
	pterm.DisableColor()

	stdout, _, err := execute(t, "list")
	require.NoError(t, err)
	for _, name := range []string{"strip-viewmodel-injection", "strip-injection", "use-compose-viewmodel", "add-viewmodel-factories"} {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "serverEditViewModel(serverId)")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "🚀 dimigrate")
	assert.Contains(t, stdout, "built-in")
	assert.Contains(t, stdout, "add-viewmodel-factories")

	_, cfgPath := setupProject(t)
	stdout, _, err = execute(t, "version", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, cfgPath)
	assert.Contains(t, stdout, "strip-inject")
}

func TestDebugLogging(t *testing.T) {
	dir, cfgPath := setupProject(t)

	_, stderr, err := execute(t, "run", "-d", "-c", cfgPath, "-r", filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "file processed")
	assert.Contains(t, stderr, "strip-inject")
}
