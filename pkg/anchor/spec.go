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

package anchor

import (
	"regexp"
	"strings"
	"unicode"

	"gitlab.com/tozd/go/errors"
)

// DefaultImportKeyword is the keyword that starts an import line in Kotlin and Java.
const DefaultImportKeyword = "import"

// 📥 LastImport matches the final line that starts with keyword.
func LastImport(keyword string) Spec {
	if keyword == "" {
		keyword = DefaultImportKeyword
	}
	return Spec{
		Kind:    KindLastImport,
		Label:   "last " + keyword,
		Pattern: regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(keyword) + `[ \t]+[^\n]*`),
	}
}

// 🏷️ Declaration matches a header annotated with marker, e.g.
//
//	@Composable
//	fun ServerListScreen(
//
// namePattern is captured as the declared name. Modifiers such as
// "private" may sit between the marker and keyword.
func Declaration(marker, keyword, namePattern string) (Spec, error) {
	if marker == "" || keyword == "" {
		return Spec{}, errors.Errorf("declaration anchor needs a marker and a keyword")
	}
	if namePattern == "" {
		namePattern = `\w+`
	}

	expr := `(?m)^[ \t]*` + regexp.QuoteMeta(marker) + `\s+(?:\w+[ \t]+)*?` +
		regexp.QuoteMeta(keyword) + `[ \t]+(` + namePattern + `)\b`
	re, err := regexp.Compile(expr)
	if err != nil {
		return Spec{}, errors.Errorf("compiling declaration pattern %q: %w", namePattern, err)
	}

	return Spec{
		Kind:    KindDeclarationStart,
		Label:   marker + " " + keyword + " " + namePattern,
		Pattern: re,
	}, nil
}

// 📞 Call matches every occurrence of a call token such as "viewModel()".
func Call(token string) Spec {
	expr := regexp.QuoteMeta(token)
	if startsWithWord(token) {
		expr = `\b` + expr
	}
	return Spec{
		Kind:    KindCallExpression,
		Label:   token,
		Pattern: regexp.MustCompile(expr),
	}
}

// Pattern matches every occurrence of a free-form regular expression.
func Pattern(expr string) (Spec, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Spec{}, errors.Errorf("compiling pattern %q: %w", expr, err)
	}
	return Spec{Kind: KindPattern, Label: expr, Pattern: re}, nil
}

// 📦 Import matches whole import lines for path, newline included. A path
// also matches anything nested under it, so "dagger.hilt" covers
// "dagger.hilt.android.HiltAndroidApp".
func Import(keyword, path string) Spec {
	if keyword == "" {
		keyword = DefaultImportKeyword
	}
	return Spec{
		Kind:  KindPattern,
		Label: keyword + " " + path,
		Pattern: regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(keyword) + `[ \t]+` +
			regexp.QuoteMeta(path) + `(?:[^\w\n][^\n]*)?(?:\n|\z)`),
	}
}

// 🧷 Annotation matches @name either alone on its line (the line is
// removed with it) or inline, in which case trailing whitespace goes too:
// "class Foo @Inject constructor" becomes "class Foo constructor".
func Annotation(name string) Spec {
	at := `@` + regexp.QuoteMeta(strings.TrimPrefix(name, "@"))
	args := `(?:\([^)\n]*\))`
	return Spec{
		Kind:  KindPattern,
		Label: "@" + strings.TrimPrefix(name, "@"),
		Pattern: regexp.MustCompile(`(?m)^[ \t]*` + at + args + `?[ \t]*(?:\n|\z)` +
			`|` + at + `(?:` + args + `|\b)\s*`),
	}
}

func startsWithWord(s string) bool {
	for _, r := range s {
		return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return false
}
