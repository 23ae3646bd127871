// Package pipeline runs the generate-then-resolve ladder shared by every
// flow worker and reports how each result was obtained.
package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"toolbox-ai/internal/audit"
	"toolbox-ai/internal/common/errors"
	"toolbox-ai/internal/common/logger"
	"toolbox-ai/internal/common/metrics"
	"toolbox-ai/internal/common/observability"
	"toolbox-ai/internal/common/validation"
	"toolbox-ai/internal/llm"
	"toolbox-ai/internal/structured"
)

const (
	StageGeneration = "generation"
	StageParse      = "parse"
	StageSchema     = "schema"
)

// Recorder persists fallback events. *audit.Store satisfies it.
type Recorder interface {
	RecordFallback(ctx context.Context, e audit.Event) (string, error)
}

// Deps are the collaborators a flow needs. Audit and Obs are optional.
type Deps struct {
	Generator llm.Generator
	Audit     Recorder
	Obs       *observability.Observability
	Logger    logger.Logger
}

// Job identifies one resolution run.
type Job struct {
	Flow    string
	JobKey  int64
	Request llm.Request
}

// Resolve asks the primary chain for text, then the secondary model, and
// finally falls back to the deterministic builder. The only error is an
// invalid fallback.
func Resolve[T any](ctx context.Context, d Deps, job Job, schema validation.JSONSchema, fallback structured.FallbackBuilder[T]) (*structured.Result[T], error) {
	log := d.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.With(map[string]interface{}{"flow": job.Flow, "jobKey": job.JobKey})

	primary := job.Request
	primary.SkipPrimary = false
	secondary := job.Request
	secondary.SkipPrimary = true
	requests := []llm.Request{primary, secondary}

	var lastRaw string
	produced := make([]bool, len(requests))
	attempts := make([]structured.Attempt, len(requests))
	for i, req := range requests {
		attempts[i] = func() (string, error) {
			if d.Generator == nil {
				return "", errors.NewProviderNotConfiguredError("Primary")
			}
			text, err := d.Generator.Generate(ctx, req)
			if err != nil {
				return "", err
			}
			produced[i] = true
			lastRaw = text
			return text, nil
		}
	}

	res, err := structured.ResolveEach(schema, fallback, attempts...)
	if err != nil {
		log.Error("fallback value rejected by its own schema", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	for _, failure := range res.Failures {
		stage := StageOf(failure)
		code := errors.Normalize(failure).Code
		metrics.ResolutionFailures.WithLabelValues(job.Flow, stage, string(code)).Inc()
		log.Warn("model output unusable", map[string]interface{}{
			"stage":     stage,
			"errorCode": string(code),
			"error":     failure.Error(),
		})
	}

	forgetRejected(ctx, d.Generator, requests, produced, res.Attempt, log)

	metrics.ResolutionOutcomes.WithLabelValues(job.Flow, string(res.Source)).Inc()
	d.Obs.RecordResolution(ctx, job.Flow, string(res.Source))

	if res.Source == structured.SourceFallback {
		recordFallback(ctx, d.Audit, job, res.Failures, lastRaw, log)
	}

	log.Info("structured result resolved", map[string]interface{}{
		"source":   string(res.Source),
		"attempt":  res.Attempt,
		"failures": len(res.Failures),
	})
	return res, nil
}

// StageOf names the rung a failure belongs to.
func StageOf(err error) string {
	switch {
	case stderrors.Is(err, structured.ErrUnparseableText):
		return StageParse
	case stderrors.Is(err, structured.ErrSchemaMismatch):
		return StageSchema
	default:
		return StageGeneration
	}
}

// forgetRejected drops cached text that the resolver turned down so a
// retried job regenerates it.
func forgetRejected(ctx context.Context, gen llm.Generator, requests []llm.Request, produced []bool, winner int, log logger.Logger) {
	forgetter, ok := gen.(llm.Forgetter)
	if !ok {
		return
	}
	for i, req := range requests {
		if !produced[i] || i == winner {
			continue
		}
		if err := forgetter.Forget(ctx, req); err != nil {
			log.Warn("failed to drop rejected cached response", map[string]interface{}{"error": err.Error()})
		}
	}
}

func recordFallback(ctx context.Context, rec Recorder, job Job, failures []error, raw string, log logger.Logger) {
	if rec == nil {
		return
	}

	event := audit.Event{
		Flow:   job.Flow,
		Stage:  "none",
		Reason: "no attempts produced text",
		Raw:    raw,
		JobKey: job.JobKey,
	}
	if n := len(failures); n > 0 {
		event.Stage = StageOf(failures[n-1])
		event.Reason = failures[n-1].Error()
	}

	if _, err := rec.RecordFallback(ctx, event); err != nil {
		log.Warn("failed to record fallback", map[string]interface{}{"error": err.Error()})
	}
}

// DecodeVariables binds job variables to out. Unknown variables are ignored;
// a type mismatch is an INVALID_INPUT error.
func DecodeVariables(variables string, out interface{}) error {
	if err := json.Unmarshal([]byte(variables), out); err != nil {
		return errors.NewInvalidInputError(err.Error())
	}
	return nil
}

// ValidateInput checks a flow input struct against schema.
func ValidateInput(input interface{}, schema validation.JSONSchema) error {
	result, err := validation.ValidateStruct(input, schema)
	if err != nil {
		return errors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return errors.NewInvalidInputError(result.Summary())
	}
	return nil
}
