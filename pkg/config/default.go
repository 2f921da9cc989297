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
	"bytes"
	_ "embed"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// 🏠 Default returns the built-in migration table. Each call returns a fresh
// copy, so callers may override fields such as Root.
func Default() (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(defaultYAML))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing built-in config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating built-in config: %w", err)
	}
	return &cfg, nil
}
