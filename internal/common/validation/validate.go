package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// compiled caches gojsonschema schemas by their JSON text.
var compiled sync.Map

// Compile turns schema into a gojsonschema.Schema, failing when it is not a
// well-formed JSON Schema document.
func Compile(schema JSONSchema) (*gojsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	key := string(raw)
	if cached, ok := compiled.Load(key); ok {
		return cached.(*gojsonschema.Schema), nil
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	compiled.Store(key, s)
	return s, nil
}

// Validate checks a decoded JSON document against schema.
// The error is reserved for a schema that does not compile; an invalid
// document is reported through the result.
func Validate(doc interface{}, schema JSONSchema) (*ValidationResult, error) {
	s, err := Compile(schema)
	if err != nil {
		return nil, err
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}
