package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonNumericRe    = regexp.MustCompile(`[^0-9.\-]`)
	leadingNumberRe = regexp.MustCompile(`^-?(?:\d+(?:\.\d*)?|\.\d+)`)
)

// Coerce walks doc along schema and applies the lenient conversions models
// need in practice:
//   - number and integer fields given as strings ("12.50", "$4.99") become numbers
//   - boolean fields given as "true" or "false" become booleans
//   - string fields given as an array of strings are joined with single spaces
//   - optional fields that are absent or null take their default, or are dropped
//
// Values that cannot be converted are left alone for Validate to reject.
// Maps and slices in doc are modified in place; the coerced value is returned.
func Coerce(doc interface{}, schema JSONSchema) interface{} {
	return coerce(doc, Property{
		Type:       schema.Type,
		Properties: schema.Properties,
		Required:   schema.Required,
	})
}

func coerce(value interface{}, prop Property) interface{} {
	switch prop.Type {
	case "number", "integer":
		if s, ok := value.(string); ok {
			if n, ok := ParseAmount(s); ok {
				return n
			}
		}
	case "boolean":
		if s, ok := value.(string); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true":
				return true
			case "false":
				return false
			}
		}
	case "string":
		if arr, ok := value.([]interface{}); ok {
			if joined, ok := joinStrings(arr); ok {
				return joined
			}
		}
	case "array":
		if arr, ok := value.([]interface{}); ok && prop.Items != nil {
			for i, item := range arr {
				arr[i] = coerce(item, *prop.Items)
			}
		}
	case "object":
		if obj, ok := value.(map[string]interface{}); ok {
			coerceObject(obj, prop)
		}
	}
	return value
}

func coerceObject(obj map[string]interface{}, prop Property) {
	for name, field := range prop.Properties {
		required := contains(prop.Required, name)
		v, present := obj[name]
		if present && v == nil && !required {
			delete(obj, name)
			present = false
		}
		if !present {
			if field.Default != nil && !required {
				obj[name] = cloneValue(field.Default)
			}
			continue
		}
		obj[name] = coerce(v, field)
	}
}

// ParseAmount reads a number out of loosely formatted text such as "$4.99",
// "1,200.50" or "about 12". Plain numerals, exponent form included, are parsed
// as is. Otherwise everything but digits, '.' and '-' is dropped and the
// leading number is parsed. NaN and infinities are rejected.
func ParseAmount(s string) (float64, bool) {
	if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}

	match := leadingNumberRe.FindString(nonNumericRe.ReplaceAllString(s, ""))
	if match == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func joinStrings(arr []interface{}) (string, bool) {
	parts := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return "", false
		}
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " "), true
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = item
		}
		return out
	}
	return v
}
