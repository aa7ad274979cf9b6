package application

import (
	"products-mcp-server/internal/domain"
)

// getStringParam extracts a string parameter from the arguments map.
// Returns a failure if the parameter is required but missing or not a string.
func getStringParam(args map[string]interface{}, name string, required bool) (string, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return "", domain.NewDispatchError(domain.FailureInvalidArgument, "missing required parameter: %s", name)
		}
		return "", nil
	}

	strValue, ok := value.(string)
	if !ok {
		return "", domain.NewDispatchError(domain.FailureInvalidArgument, "parameter %s must be a string", name)
	}

	return strValue, nil
}

// getIntParam extracts an integer parameter from the arguments map.
// Returns a failure if the parameter is required but missing or not a number.
// Also returns a failure if the parameter exists but is not a valid number type.
func getIntParam(args map[string]interface{}, name string, required bool) (int, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return 0, domain.NewDispatchError(domain.FailureInvalidArgument, "missing required parameter: %s", name)
		}
		return 0, nil
	}

	// Handle both float64 (from JSON) and int
	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		// If the parameter exists but is not a valid type, return a failure
		// even if it's not required
		return 0, domain.NewDispatchError(domain.FailureInvalidArgument, "parameter %s must be an integer", name)
	}
}

// getFloatParam extracts a numeric parameter from the arguments map.
// Returns a failure if the parameter is required but missing or not a number.
func getFloatParam(args map[string]interface{}, name string, required bool) (float64, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return 0, domain.NewDispatchError(domain.FailureInvalidArgument, "missing required parameter: %s", name)
		}
		return 0, nil
	}

	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, domain.NewDispatchError(domain.FailureInvalidArgument, "parameter %s must be a number", name)
	}
}

// optionalStringParam extracts an optional string parameter, distinguishing
// an absent parameter (nil) from a provided value.
func optionalStringParam(args map[string]interface{}, name string) (*string, error) {
	if _, exists := args[name]; !exists {
		return nil, nil
	}

	value, err := getStringParam(args, name, false)
	if err != nil {
		return nil, err
	}

	return &value, nil
}

// optionalFloatParam extracts an optional numeric parameter, distinguishing
// an absent parameter (nil) from a provided value.
func optionalFloatParam(args map[string]interface{}, name string) (*float64, error) {
	if _, exists := args[name]; !exists {
		return nil, nil
	}

	value, err := getFloatParam(args, name, false)
	if err != nil {
		return nil, err
	}

	return &value, nil
}

// optionalIntParam extracts an optional integer parameter, distinguishing
// an absent parameter (nil) from a provided value.
func optionalIntParam(args map[string]interface{}, name string) (*int, error) {
	if _, exists := args[name]; !exists {
		return nil, nil
	}

	value, err := getIntParam(args, name, false)
	if err != nil {
		return nil, err
	}

	return &value, nil
}
