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
	"strings"
)

// DefaultIndent is used when a file has no indented code lines.
const DefaultIndent = "    "

// 📏 DetectIndent returns the indentation unit of text: a tab when the
// first indented code line uses tabs, otherwise the narrowest run of
// leading spaces (two at minimum). Doc-comment continuation lines
// (" * foo") are ignored.
func DetectIndent(text string) string {
	narrowest := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || trimmed == line || strings.HasPrefix(trimmed, "*") {
			continue
		}
		if line[0] == '\t' {
			if narrowest == 0 {
				return "\t"
			}
			continue
		}

		width := len(line) - len(strings.TrimLeft(line, " "))
		if width < 2 {
			continue
		}
		if narrowest == 0 || width < narrowest {
			narrowest = width
		}
	}

	if narrowest == 0 {
		return DefaultIndent
	}
	return strings.Repeat(" ", narrowest)
}

// DetectNewline returns "\r\n" when most line endings in text are CRLF,
// otherwise "\n".
func DetectNewline(text string) string {
	total := strings.Count(text, "\n")
	crlf := strings.Count(text, "\r\n")
	if crlf > 0 && crlf*2 >= total {
		return "\r\n"
	}
	return "\n"
}
