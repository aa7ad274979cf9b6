package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// ValidateArguments checks args against the schema and returns a validated
// copy: every required property must be present, every provided value is
// coerced to its declared type, and declared defaults fill in missing
// optional properties. The input map is never modified.
//
// Violations are reported as a DispatchError with kind
// FailureInvalidArgument naming the offending parameter, so the dispatcher
// can turn them into failed results before any handler logic runs.
func (s *JSONSchema) ValidateArguments(args map[string]interface{}) (map[string]interface{}, error) {
	validated := make(map[string]interface{}, len(args))
	for name, value := range args {
		validated[name] = value
	}

	for _, name := range s.Required {
		if _, exists := validated[name]; !exists {
			return nil, NewDispatchError(FailureInvalidArgument, "missing required parameter: %s", name)
		}
	}

	for name, raw := range s.Properties {
		prop, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		value, exists := validated[name]
		if !exists {
			if def, hasDefault := prop["default"]; hasDefault {
				validated[name] = def
			}
			continue
		}

		propType, _ := prop["type"].(string)
		coerced, err := coerceValue(name, value, propType)
		if err != nil {
			return nil, err
		}
		validated[name] = coerced
	}

	return validated, nil
}

// coerceValue converts value to the declared JSON Schema type.
// JSON decoding delivers every number as float64, and callers driven by a
// language model also produce numeric strings, so both are accepted for
// "number" and "integer".
func coerceValue(name string, value interface{}, propType string) (interface{}, error) {
	switch propType {
	case "string":
		s, ok := value.(string)
		if !ok {
			return nil, NewDispatchError(FailureInvalidArgument, "parameter %s must be a string", name)
		}
		return s, nil

	case "number":
		f, ok := toFloat(value)
		if !ok {
			return nil, NewDispatchError(FailureInvalidArgument, "parameter %s must be a number", name)
		}
		return f, nil

	case "integer":
		f, ok := toFloat(value)
		if !ok || f != math.Trunc(f) {
			return nil, NewDispatchError(FailureInvalidArgument, "parameter %s must be an integer", name)
		}
		return int(f), nil

	default:
		return value, nil
	}
}

// toFloat normalizes the numeric representations seen in tool arguments.
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
