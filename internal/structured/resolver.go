// Package structured turns raw model text into schema-valid values.
//
// The ladder is: decode the text as-is, then decode its normalized form,
// then move on to the next attempt, and finally fall back to a caller-built
// deterministic value. Whatever comes back has passed schema validation.
// Nothing here logs; callers inspect Result.Failures to report which stage
// failed.
package structured

import (
	"encoding/json"

	"toolbox-ai/internal/common/errors"
	"toolbox-ai/internal/common/validation"
	"toolbox-ai/internal/jsonrepair"
)

// Source records which rung of the ladder produced a Result.
type Source string

const (
	SourceDirect     Source = "direct"
	SourceNormalized Source = "normalized"
	SourceFallback   Source = "fallback"
)

var (
	ErrUnparseableText = errors.Sentinel(errors.ErrCodeUnparseableText, "text was not valid JSON even after normalization")
	ErrSchemaMismatch  = errors.Sentinel(errors.ErrCodeSchemaMismatch, "parsed JSON did not match the expected shape")
	ErrInvalidFallback = errors.Sentinel(errors.ErrCodeInvalidFallback, "fallback value does not satisfy its schema")
)

// Result is a value of T that passed schema validation.
type Result[T any] struct {
	Value  T
	Source Source
	// Attempt is the index of the attempt that produced Value, or -1 when
	// Value came from the fallback builder.
	Attempt int
	// Failures lists why earlier rungs were rejected, oldest first.
	Failures []error
}

// FallbackBuilder returns the deterministic value used when no attempt
// yields usable text. It must always satisfy the schema.
type FallbackBuilder[T any] func() T

// Attempt produces one candidate text, typically by calling a model.
type Attempt func() (string, error)

// Parse decodes raw as-is and, failing that, after normalization. The
// returned error matches ErrUnparseableText or ErrSchemaMismatch and
// describes the normalized rung.
func Parse[T any](raw string, schema validation.JSONSchema) (*Result[T], error) {
	value, directErr := decode[T](raw, schema)
	if directErr == nil {
		return &Result[T]{Value: value, Source: SourceDirect}, nil
	}

	value, err := decode[T](jsonrepair.Normalize(raw), schema)
	if err != nil {
		return nil, err
	}
	return &Result[T]{Value: value, Source: SourceNormalized, Failures: []error{directErr}}, nil
}

// Resolve runs Parse over each attempt text in order and returns the first
// success, otherwise the validated fallback. The only error is one matching
// ErrInvalidFallback.
func Resolve[T any](schema validation.JSONSchema, fallback FallbackBuilder[T], attempts ...string) (*Result[T], error) {
	lazy := make([]Attempt, len(attempts))
	for i, text := range attempts {
		lazy[i] = func() (string, error) { return text, nil }
	}
	return ResolveEach(schema, fallback, lazy...)
}

// ResolveEach is Resolve for attempts that are only produced when needed.
// An attempt that returns an error is recorded in Failures and skipped.
func ResolveEach[T any](schema validation.JSONSchema, fallback FallbackBuilder[T], attempts ...Attempt) (*Result[T], error) {
	var failures []error
	for i, attempt := range attempts {
		raw, err := attempt()
		if err != nil {
			failures = append(failures, err)
			continue
		}

		res, err := Parse[T](raw, schema)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		res.Attempt = i
		res.Failures = append(failures, res.Failures...)
		return res, nil
	}
	return Fallback(schema, fallback, failures...)
}

// Fallback builds the deterministic value, checks it against schema and
// wraps it in a Result.
func Fallback[T any](schema validation.JSONSchema, fallback FallbackBuilder[T], failures ...error) (*Result[T], error) {
	if fallback == nil {
		return nil, errors.NewInvalidFallbackError("no fallback builder")
	}

	value := fallback()
	doc, err := validation.ToDocument(value)
	if err != nil {
		return nil, errors.NewInvalidFallbackError(err.Error())
	}
	result, err := validation.Validate(doc, schema)
	if err != nil {
		return nil, errors.NewInvalidFallbackError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewInvalidFallbackError(result.Summary())
	}

	return &Result[T]{Value: value, Source: SourceFallback, Attempt: -1, Failures: failures}, nil
}

func decode[T any](text string, schema validation.JSONSchema) (T, error) {
	var zero T

	var doc interface{}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return zero, errors.NewUnparseableTextError(err)
	}

	doc = validation.Coerce(doc, schema)
	result, err := validation.Validate(doc, schema)
	if err != nil {
		return zero, errors.NewSchemaMismatchError(err.Error())
	}
	if !result.Valid {
		return zero, errors.NewSchemaMismatchError(result.Summary())
	}

	// The document already matches the schema; bind it to T.
	data, err := json.Marshal(doc)
	if err != nil {
		return zero, errors.NewSchemaMismatchError(err.Error())
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, errors.NewSchemaMismatchError(err.Error())
	}
	return value, nil
}
