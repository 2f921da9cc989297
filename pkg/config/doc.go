/*
Package config loads the table that drives a migration: the root the file
templates resolve against, the generated content for every target, and the
ordered passes.

	+-----------+    Parser     +---------+    Validate    +--------+
	| .yaml     | ------------> |         | -------------> |        |
	| .hcl      | ------------> | Config  |                | passes |
	| .json     | ------------> |         | <------------- | Default|
	+-----------+               +---------+   embedded     +--------+

🎯 Purpose:
- Picks a parser by file extension (YAML, HCL, JSON)
- Rejects unknown keys so typos fail loudly
- Ships the built-in Android table through Default

🔄 Flow:
1. Load reads the file and asks the registered parsers which one applies
2. The parser decodes into Config
3. Validate checks names, file sets and patterns

📝 HCL files can read the environment:

	root = env.APP_ROOT

	pass "use-compose-viewmodel" {
	  template = "{root}/presentation/{category}/{name}.kt"
	  targets  = ["ServerListScreen"]

	  replace {
	    call = "hiltViewModel("
	    with = "viewModel("
	  }
	}

Targets a pass names are not checked against the table at load time. A
miss shows up per file as unsupported-target when the pass runs.
*/
package config
