package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/dimigrate/pkg/config"
)

func ExampleLoad_hcl() {
	dir, err := os.MkdirTemp("", "dimigrate")
	if err != nil {
		fmt.Printf("Error creating temp dir: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	configHCL := `
root = "app/src"

pass "strip-injection" {
  glob              = "**/*.kt"
  strip_imports     = ["dagger.hilt", "javax.inject.Inject"]
  strip_annotations = ["Inject", "Singleton"]
}
`
	configPath := filepath.Join(dir, "dimigrate.hcl")
	if err := os.WriteFile(configPath, []byte(configHCL), 0o644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(context.Background(), configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	p := cfg.Passes[0]
	fmt.Printf("Pass %s over %s\n", p.Name, p.Glob)
	fmt.Printf("Strips %d imports and %d annotations\n", len(p.StripImports), len(p.StripAnnotations))

	// Output:
	// Pass strip-injection over **/*.kt
	// Strips 2 imports and 2 annotations
}

func ExampleDefault() {
	cfg, err := config.Default()
	if err != nil {
		fmt.Printf("Error loading default: %v\n", err)
		return
	}

	for _, p := range cfg.Passes {
		fmt.Println(p.Name)
	}

	// Output:
	// strip-viewmodel-injection
	// strip-injection
	// use-compose-viewmodel
	// add-viewmodel-factories
}
