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

package rewrite

import (
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dimigrate/pkg/generate"
)

// Env is what content is rendered against
type Env struct {
	Target    string
	Generator *generate.Generator
	Style     generate.Style
}

// 📝 Content renders the text a transformation writes
type Content interface {
	Render(env Env) (generate.Block, error)
}

// ContentFunc adapts a function to Content
type ContentFunc func(env Env) (generate.Block, error)

func (f ContentFunc) Render(env Env) (generate.Block, error) {
	return f(env)
}

// Fixed renders the same text for every target
func Fixed(text string) Content {
	return ContentFunc(func(Env) (generate.Block, error) {
		return generate.Block{Text: text}, nil
	})
}

// TargetFactory renders the target's factory declaration
func TargetFactory() Content {
	return ContentFunc(func(env Env) (generate.Block, error) {
		if env.Generator == nil {
			return generate.Block{}, errors.Errorf("%w: no generator", generate.ErrUnsupportedTarget)
		}
		return env.Generator.Factory(env.Target, env.Style)
	})
}

// TargetCall renders the call that replaces generic call sites
func TargetCall() Content {
	return ContentFunc(func(env Env) (generate.Block, error) {
		if env.Generator == nil {
			return generate.Block{}, errors.Errorf("%w: no generator", generate.ErrUnsupportedTarget)
		}
		call, err := env.Generator.Call(env.Target)
		if err != nil {
			return generate.Block{}, err
		}
		return generate.Block{Target: env.Target, Text: call}, nil
	})
}

// ImportLine renders a single import statement
func ImportLine(keyword, path string) Content {
	return ContentFunc(func(Env) (generate.Block, error) {
		return generate.Import(keyword, path), nil
	})
}
