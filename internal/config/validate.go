// CUE schema validation code
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

// ValidateWithCue validates a YAML content catalog using a CUE schema file.
func ValidateWithCue(contentFile, cueFile string) error {
	ctx := cuecontext.New()

	yamlBytes, err := os.ReadFile(contentFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML content catalog: %w", err)
	}
	contentAST, err := yaml.Extract(contentFile, yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML content catalog: %w", err)
	}
	contentVal := ctx.BuildFile(contentAST)

	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}
	schemaVal := ctx.CompileBytes(schemaBytes)

	// Merge values with schema
	final := contentVal.Unify(schemaVal)
	if final.Err() != nil {
		return fmt.Errorf("schema unify failed: %w", final.Err())
	}

	if err := final.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
