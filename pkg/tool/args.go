package tool

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Arguments is a decoded tool argument map.
type Arguments map[string]any

// ParseArguments decodes the JSON argument string of a tool call.
func ParseArguments(raw string) (Arguments, error) {
	if raw == "" {
		return Arguments{}, nil
	}
	var args Arguments
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, &types.ArgumentError{Field: "arguments", Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return args, nil
}

// Has reports whether the argument is present and non-null.
func (a Arguments) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// String returns a string argument; (value, true) only when present and a
// string.
func (a Arguments) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Number returns a numeric argument as float64.
func (a Arguments) Number(key string) (float64, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// Int returns an integral numeric argument.
func (a Arguments) Int(key string) (int, bool) {
	f, ok := a.Number(key)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// Validate checks the argument map against a tool's declared JSON schema:
// required presence, primitive types, enum membership and numeric range
// keywords. It is a structural gate; anything it passes is safe to hand to
// the handler.
func Validate(args Arguments, schema types.JSONSchema) error {
	props, _ := schema["properties"].(map[string]any)

	if required, ok := schema["required"].([]string); ok {
		for _, field := range required {
			if !args.Has(field) {
				return &types.ArgumentError{Field: field, Reason: "required argument missing"}
			}
		}
	}

	for name, raw := range args {
		if raw == nil {
			continue
		}
		propAny, ok := props[name]
		if !ok {
			return &types.ArgumentError{Field: name, Reason: "unknown argument"}
		}
		prop, _ := propAny.(map[string]any)
		if err := validateValue(name, raw, prop); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(name string, v any, prop map[string]any) error {
	switch prop["type"] {
	case "string":
		s, ok := v.(string)
		if !ok {
			return &types.ArgumentError{Field: name, Reason: "must be a string"}
		}
		if enum, ok := prop["enum"].([]string); ok {
			for _, allowed := range enum {
				if s == allowed {
					return nil
				}
			}
			return &types.ArgumentError{Field: name, Reason: fmt.Sprintf("must be one of %v", enum)}
		}
	case "number", "integer":
		f, ok := v.(float64)
		if !ok {
			return &types.ArgumentError{Field: name, Reason: "must be a number"}
		}
		if min, ok := toFloat(prop["minimum"]); ok && f < min {
			return &types.ArgumentError{Field: name, Reason: fmt.Sprintf("must be at least %v", min)}
		}
		if max, ok := toFloat(prop["maximum"]); ok && f > max {
			return &types.ArgumentError{Field: name, Reason: fmt.Sprintf("must be at most %v", max)}
		}
		if min, ok := toFloat(prop["exclusiveMinimum"]); ok && f <= min {
			return &types.ArgumentError{Field: name, Reason: fmt.Sprintf("must be greater than %v", min)}
		}
		if prop["type"] == "integer" && f != math.Trunc(f) {
			return &types.ArgumentError{Field: name, Reason: "must be an integer"}
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return &types.ArgumentError{Field: name, Reason: "must be a boolean"}
		}
	case "array":
		if _, ok := v.([]any); !ok {
			return &types.ArgumentError{Field: name, Reason: "must be an array"}
		}
	default:
		// Untyped properties (e.g. measurement fields accepting number or
		// string) are validated by the handler's parser.
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
