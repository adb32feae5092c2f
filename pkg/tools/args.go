package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"auggie-mcp/pkg/operations"
	"auggie-mcp/pkg/utils"
)

// requiredString decodes a non-empty string argument.
func requiredString(args map[string]any, key string) (string, error) {
	s, ok, err := utils.OptionalMapField[string](args, key)
	if err != nil {
		return "", operations.Invalid(key, "must be a string")
	}
	if !ok || strings.TrimSpace(s) == "" {
		return "", operations.Invalid(key, "is required")
	}
	return s, nil
}

func optionalString(args map[string]any, key string) (string, error) {
	s, _, err := utils.OptionalMapField[string](args, key)
	if err != nil {
		return "", operations.Invalid(key, "must be a string")
	}
	return s, nil
}

func optionalBool(args map[string]any, key string, def bool) (bool, error) {
	b, ok, err := utils.OptionalMapField[bool](args, key)
	if err != nil {
		return false, operations.Invalid(key, "must be a boolean")
	}
	if !ok {
		return def, nil
	}
	return b, nil
}

// optionalStrings accepts a JSON array of strings.
func optionalStrings(args map[string]any, key string) ([]string, error) {
	raw, ok, err := utils.OptionalMapField[[]any](args, key)
	if err != nil {
		return nil, operations.Invalid(key, "must be an array of strings")
	}
	if !ok {
		return nil, nil
	}
	out := make([]string, 0, len(raw))
	for i, v := range raw {
		s, isString := utils.SafeAssert[string](v)
		if !isString {
			return nil, operations.Invalid(key, "element %d must be a string, got %T", i, v)
		}
		out = append(out, s)
	}
	return out, nil
}

// timeoutSeconds decodes a positive whole number of seconds. Zero is
// returned when the key is absent so the service applies its default.
func timeoutSeconds(args map[string]any, key string) (time.Duration, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, nil
	}

	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, operations.Invalid(key, "must be a number")
		}
		n = f
	default:
		return 0, operations.Invalid(key, "must be a number, got %T", v)
	}

	if n != math.Trunc(n) || n <= 0 {
		return 0, operations.Invalid(key, "must be a positive whole number, got %v", v)
	}
	if n > math.MaxInt32 {
		return 0, operations.Invalid(key, "is too large")
	}
	return time.Duration(n) * time.Second, nil
}

func marshalResult(v any) (*ExecResult, error) {
	content, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &ExecResult{Content: string(content), Structured: v}, nil
}
