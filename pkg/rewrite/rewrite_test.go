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
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/dimigrate/pkg/anchor"
	"github.com/walteh/dimigrate/pkg/generate"
	"github.com/walteh/dimigrate/pkg/status"
	"github.com/walteh/dimigrate/pkg/text"
)

func testPlanner(t *testing.T) *Planner {
	t.Helper()
	table, err := generate.NewTable([]generate.Target{
		{
			Name:    "FooScreen",
			Factory: "fun fooViewModel(): FooViewModel {\n\treturn FooViewModel()\n}",
			Call:    "fooViewModel()",
		},
		{
			Name: "CallOnly",
			Call: "callOnly()",
		},
	})
	require.NoError(t, err)
	return NewPlanner(anchor.NewRegexpFinder(), generate.New(table))
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func mustDeclaration(t *testing.T) anchor.Spec {
	t.Helper()
	spec, err := anchor.Declaration("@Composable", "fun", `\w+Screen`)
	require.NoError(t, err)
	return spec
}

// run plans and applies transforms, returning the new content
func run(t *testing.T, p *Planner, content, target string, transforms []Transformation) (string, *Plan) {
	t.Helper()
	plan, err := p.Plan(testContext(t), content, target, transforms)
	require.NoError(t, err)
	if plan.Skipped != nil {
		return content, plan
	}
	return text.Apply(content, plan.Edits).ModifiedContent, plan
}

func TestPlan_StripMarker(t *testing.T) {
	p := testPlanner(t)
	input := "package p\n\nimport a.b.Marker\nimport a.b.Other\n\n@Marker\nclass Foo constructor(x: T)\n"

	transforms := []Transformation{
		{Name: "strip-import", Anchor: anchor.Import("import", "a.b.Marker"), Action: ActionDelete},
		{Name: "strip-annotation", Anchor: anchor.Annotation("Marker"), Action: ActionDelete},
	}

	out, plan := run(t, p, input, "Foo", transforms)
	assert.Empty(t, plan.Skips)
	assert.Equal(t, "package p\n\nimport a.b.Other\n\nclass Foo constructor(x: T)\n", out)
	assert.NotContains(t, out, "import a.b.Marker")
	assert.NotContains(t, out, "@Marker")

	again, _ := run(t, p, out, "Foo", transforms)
	assert.Equal(t, out, again, "second run should be a no-op")
}

func TestPlan_InlineAnnotation(t *testing.T) {
	p := testPlanner(t)
	input := "@HiltViewModel\nclass VM @Inject constructor(\n    private val repo: Repo\n) : ViewModel()\n"

	out, _ := run(t, p, input, "VM", []Transformation{
		{Name: "hilt", Anchor: anchor.Annotation("HiltViewModel"), Action: ActionDelete},
		{Name: "inject", Anchor: anchor.Annotation("Inject"), Action: ActionDelete},
	})
	assert.Equal(t, "class VM constructor(\n    private val repo: Repo\n) : ViewModel()\n", out)
}

func TestPlan_InsertFactoryAfterLastImport(t *testing.T) {
	p := testPlanner(t)
	input := "package p\n\nimport a.A\nimport b.B\n\nfun main() {\n    val x = 1\n}\n"

	transforms := []Transformation{
		{Name: "add-factory", Anchor: anchor.LastImport("import"), Action: ActionInsertAfter, Content: TargetFactory()},
	}

	out, plan := run(t, p, input, "FooScreen", transforms)
	require.Len(t, plan.Edits, 1)
	assert.Equal(t,
		"package p\n\nimport a.A\nimport b.B\n\n"+
			"fun fooViewModel(): FooViewModel {\n    return FooViewModel()\n}\n\n"+
			"fun main() {\n    val x = 1\n}\n",
		out, "block follows the imports and the file indentation")

	again, plan := run(t, p, out, "FooScreen", transforms)
	assert.Equal(t, out, again, "no duplicate block on a second run")
	assert.Empty(t, plan.Edits)
}

func TestPlan_InsertWithoutImports(t *testing.T) {
	p := testPlanner(t)
	out, _ := run(t, p, "fun main() {}\n", "FooScreen", []Transformation{
		{Name: "add-import", Anchor: anchor.LastImport("import"), Action: ActionInsertAfter, Content: ImportLine("import", "a.B")},
	})
	assert.Equal(t, "import a.B\nfun main() {}\n", out, "falls back to the top of the file")
}

func TestPlan_ImportsAndFactoryShareAnchor(t *testing.T) {
	p := testPlanner(t)
	input := "package p\n\nimport a.A\nimport androidx.hilt.navigation.compose.hiltViewModel\n\n@Composable\nfun FooScreen(vm: FooViewModel = hiltViewModel()) {}\n"

	transforms := []Transformation{
		{Name: "capture", Anchor: mustDeclaration(t), Action: ActionCapture, Required: true},
		{Name: "strip-hilt", Anchor: anchor.Import("import", "androidx.hilt.navigation.compose.hiltViewModel"), Action: ActionDelete},
		{Name: "add-import", Anchor: anchor.LastImport("import"), Action: ActionInsertAfter, Content: ImportLine("import", "di.AppContainer")},
		{Name: "add-factory", Anchor: anchor.LastImport("import"), Action: ActionInsertAfter, Content: TargetFactory()},
		{Name: "rewire", Anchor: anchor.Call("hiltViewModel()"), Action: ActionReplace, Content: TargetCall()},
	}

	out, plan := run(t, p, input, "", transforms)
	assert.Equal(t, "FooScreen", plan.Target, "target comes from the declaration")
	assert.Equal(t,
		"package p\n\nimport a.A\nimport di.AppContainer\n\n"+
			"fun fooViewModel(): FooViewModel {\n    return FooViewModel()\n}\n\n"+
			"@Composable\nfun FooScreen(vm: FooViewModel = fooViewModel()) {}\n",
		out)

	again, _ := run(t, p, out, "", transforms)
	assert.Equal(t, out, again, "second run should be a no-op")
}

func TestPlan_KeepsCRLFLineEndings(t *testing.T) {
	p := testPlanner(t)
	input := "package p\r\n\r\nimport a.A\r\n\r\nfun main() {\r\n    val x = 1\r\n}\r\n"

	transforms := []Transformation{
		{Name: "add-import", Anchor: anchor.LastImport("import"), Action: ActionInsertAfter, Content: ImportLine("import", "di.AppContainer")},
		{Name: "add-factory", Anchor: anchor.LastImport("import"), Action: ActionInsertAfter, Content: TargetFactory()},
	}

	out, plan := run(t, p, input, "FooScreen", transforms)
	assert.Empty(t, plan.Skips)
	assert.Equal(t,
		"package p\r\n\r\nimport a.A\r\nimport di.AppContainer\r\n\r\n"+
			"fun fooViewModel(): FooViewModel {\r\n    return FooViewModel()\r\n}\r\n\r\n"+
			"fun main() {\r\n    val x = 1\r\n}\r\n",
		out)
	assert.Equal(t, strings.Count(out, "\n"), strings.Count(out, "\r\n"), "no bare line feeds")

	again, _ := run(t, p, out, "FooScreen", transforms)
	assert.Equal(t, out, again, "second run should be a no-op")
}

func TestPlan_CallRewriteCompleteness(t *testing.T) {
	p := testPlanner(t)
	input := "val a = f()\nval b = listOf(f(), f())\nval c = gf()\n"

	out, plan := run(t, p, input, "FooScreen", []Transformation{
		{Name: "rewire", Anchor: anchor.Call("f()"), Action: ActionReplace, Content: TargetCall()},
	})
	require.Len(t, plan.Edits, 3)

	original := regexp.MustCompile(`\bf\(\)`)
	assert.Len(t, original.FindAllString(out, -1), 0, "no original tokens remain")
	assert.Len(t, regexp.MustCompile(`fooViewModel\(\)`).FindAllString(out, -1), 3, "every token was replaced")
	assert.Contains(t, out, "gf()", "longer identifiers are left alone")
}

func TestPlan_Skips(t *testing.T) {
	missing, err := anchor.Pattern(`(?m)^// anchor$`)
	require.NoError(t, err)

	tests := []struct {
		name        string
		content     string
		target      string
		transforms  func(t *testing.T) []Transformation
		wantSkipped status.Reason
		wantSkips   []status.Reason
		wantEdits   int
	}{
		{
			name:    "required_declaration_missing",
			content: "import a.A\n\nfun helper() {}\n",
			transforms: func(t *testing.T) []Transformation {
				return []Transformation{
					{Name: "capture", Anchor: mustDeclaration(t), Action: ActionCapture, Required: true},
					{Name: "add-factory", Anchor: anchor.LastImport("import"), Action: ActionInsertAfter, Content: TargetFactory()},
				}
			},
			wantSkipped: status.ReasonAnchorNotFound,
		},
		{
			name:    "ambiguous_declaration",
			content: "@Composable\nfun AScreen() {}\n\n@Composable\nfun BScreen() {}\n",
			transforms: func(t *testing.T) []Transformation {
				return []Transformation{
					{Name: "capture", Anchor: mustDeclaration(t), Action: ActionCapture, Required: true},
				}
			},
			wantSkipped: status.ReasonAmbiguousAnchor,
		},
		{
			name:    "unsupported_target",
			content: "import a.A\n",
			target:  "Nope",
			transforms: func(t *testing.T) []Transformation {
				return []Transformation{
					{Name: "strip", Anchor: anchor.Import("import", "a.A"), Action: ActionDelete},
					{Name: "add-factory", Anchor: anchor.LastImport("import"), Action: ActionInsertAfter, Content: TargetFactory()},
				}
			},
			wantSkipped: status.ReasonUnsupportedTarget,
		},
		{
			name:    "target_without_factory",
			content: "import a.A\n",
			target:  "CallOnly",
			transforms: func(t *testing.T) []Transformation {
				return []Transformation{
					{Name: "add-factory", Anchor: anchor.LastImport("import"), Action: ActionInsertAfter, Content: TargetFactory()},
				}
			},
			wantSkipped: status.ReasonUnsupportedTarget,
		},
		{
			name:    "optional_anchor_missing_keeps_other_edits",
			content: "import a.A\n@Inject\nclass X\n",
			target:  "FooScreen",
			transforms: func(t *testing.T) []Transformation {
				return []Transformation{
					{Name: "insert", Anchor: missing, Action: ActionInsertBefore, Content: Fixed("// generated")},
					{Name: "strip", Anchor: anchor.Annotation("Inject"), Action: ActionDelete},
				}
			},
			wantSkips: []status.Reason{status.ReasonAnchorNotFound},
			wantEdits: 1,
		},
		{
			name:    "absent_delete_is_not_a_skip",
			content: "class X\n",
			transforms: func(t *testing.T) []Transformation {
				return []Transformation{
					{Name: "strip", Anchor: anchor.Annotation("Inject"), Action: ActionDelete},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlanner(t)
			plan, err := p.Plan(testContext(t), tt.content, tt.target, tt.transforms(t))
			require.NoError(t, err)

			if tt.wantSkipped != "" {
				require.NotNil(t, plan.Skipped, "file should be skipped")
				assert.Equal(t, tt.wantSkipped, plan.Skipped.Reason)
				assert.Empty(t, plan.Edits, "a skipped file has no edits")
				return
			}

			require.Nil(t, plan.Skipped)
			var reasons []status.Reason
			for _, s := range plan.Skips {
				reasons = append(reasons, s.Reason)
			}
			assert.Equal(t, tt.wantSkips, reasons)
			assert.Len(t, plan.Edits, tt.wantEdits)
		})
	}
}

func TestPlan_UnknownAction(t *testing.T) {
	p := testPlanner(t)
	_, err := p.Plan(testContext(t), "x", "", []Transformation{
		{Name: "bad", Anchor: anchor.Call("x"), Action: Action("explode")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestPresent(t *testing.T) {
	content := "import a.B\nimport a.BC\nfun fooViewModel(): Foo {}\n"

	assert.True(t, Present(content, generate.Import("import", "a.B")))
	assert.False(t, Present(content, generate.Import("import", "a.C")))
	assert.False(t, Present("import a.BC\n", generate.Import("import", "a.B")), "imports match whole lines")
	assert.True(t, Present(content, generate.Block{Text: "x", Signature: "fun fooViewModel("}))
	assert.False(t, Present(content, generate.Block{Text: "fun barViewModel() {}"}))
}

func TestPlan_FixedIndentOverride(t *testing.T) {
	table, err := generate.NewTable([]generate.Target{{
		Name:    "FooScreen",
		Factory: "fun fooViewModel(): FooViewModel {\n\treturn FooViewModel()\n}",
	}})
	require.NoError(t, err)
	p := NewPlanner(anchor.NewRegexpFinder(), generate.New(table), WithIndent("  "))

	out, _ := run(t, p, "import a.A\n\nfun x() {\n    y()\n}\n", "FooScreen", []Transformation{
		{Name: "add-factory", Anchor: anchor.LastImport("import"), Action: ActionInsertAfter, Content: TargetFactory()},
	})
	assert.Contains(t, out, "\n  return FooViewModel()\n")
}
