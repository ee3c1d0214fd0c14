package config

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var cueSchema []byte

// validateWithCue checks a raw YAML config against the embedded CUE schema
// before unmarshalling, so structural mistakes fail with a field-level error
// instead of a half-applied config.
func validateWithCue(yamlBytes []byte) error {
	ctx := cuecontext.New()

	file, err := yaml.Extract("config.yaml", yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(file)
	if configVal.Err() != nil {
		return fmt.Errorf("cannot parse YAML config: %w", configVal.Err())
	}

	schemaVal := ctx.CompileBytes(cueSchema)
	if schemaVal.Err() != nil {
		return fmt.Errorf("cannot compile config schema: %w", schemaVal.Err())
	}

	final := configVal.Unify(schemaVal)
	if final.Err() != nil {
		return fmt.Errorf("schema unify failed: %w", final.Err())
	}
	if err := final.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
