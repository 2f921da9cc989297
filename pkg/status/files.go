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

package status

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 FileManager handles the file system side of a pass
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	FileExists(ctx context.Context, path string) (bool, error)

	// WriteFileAtomic replaces the whole file or leaves it as it was
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
}

// 🔧 Manager is the os-backed FileManager. Relative paths resolve against
// baseDir.
type Manager struct {
	baseDir string
}

// 🏭 New creates a new file manager
func New(baseDir string) *Manager {
	if baseDir != "" {
		baseDir = filepath.Clean(baseDir)
	}
	return &Manager{baseDir: baseDir}
}

func (m *Manager) getAbsPath(path string) string {
	if filepath.IsAbs(path) || m.baseDir == "" {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// FileExists reports whether path is a regular file. Paths that cannot
// exist are not an error.
func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(m.getAbsPath(path))
	if err == nil {
		return info.Mode().IsRegular(), nil
	}
	// a path segment that is a regular file means the path cannot exist
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

// WriteFileAtomic writes content to a temp file in the same directory and
// renames it over path. The original mode is kept.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) (err error) {
	absPath := m.getAbsPath(path)

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(absPath); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(absPath), "."+filepath.Base(absPath)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	defer func() {
		if err != nil {
			if rmErr := os.Remove(tempPath); rmErr != nil && !os.IsNotExist(rmErr) {
				zerolog.Ctx(ctx).Debug().Err(rmErr).Str("path", tempPath).Msg("removing temp file")
			}
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Chmod(mode); err != nil {
		tmp.Close()
		return errors.Errorf("setting temp file mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}

	if err = os.Rename(tempPath, absPath); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
