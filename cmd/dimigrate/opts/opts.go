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

package opts

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dimigrate/pkg/config"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigFile is the config path, empty for the built-in table
	ConfigFile string
	// Root overrides the config root
	Root  string
	Debug bool
}

// LoadConfig loads the configured table and applies the root override.
// The root is made absolute against the working directory.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.ConfigFile == "" {
		cfg, err = config.Default()
	} else {
		cfg, err = config.Load(ctx, o.ConfigFile)
	}
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	if o.Root != "" {
		cfg.Root = o.Root
	}

	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, errors.Errorf("getting absolute root path: %w", err)
	}
	cfg.Root = abs

	zerolog.Ctx(ctx).Debug().Str("config", cfg.Location()).Str("root", cfg.Root).Msg("config loaded")
	return cfg, nil
}
