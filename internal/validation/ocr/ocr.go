// Package ocr defines the OCR engine boundary and the degradation wrapper the
// pipeline consumes it through.
package ocr

import (
	"context"
	"log/slog"
	"time"
)

// Word is one recognized token with the engine's confidence for it.
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Result is the raw output of an OCR engine. Confidence is whatever the engine
// reports on a 0-100 scale.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words,omitempty"`
}

// Empty is the degraded result used when extraction fails or times out.
func Empty() *Result {
	return &Result{}
}

// Engine is the OCR boundary. Implementations must honor ctx cancellation;
// the extractor enforces the timeout.
type Engine interface {
	Extract(ctx context.Context, image []byte) (*Result, error)
}

// Extractor wraps an Engine with the pipeline's failure policy: extraction
// never fails, it degrades to an empty zero-confidence result so downstream
// stages score low instead of aborting the submission.
type Extractor struct {
	engine  Engine
	timeout time.Duration
	logger  *slog.Logger
}

type ExtractorOption func(*Extractor)

func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

func WithTimeout(timeout time.Duration) ExtractorOption {
	return func(e *Extractor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// NewExtractor builds an Extractor with a 15s default timeout.
func NewExtractor(engine Engine, opts ...ExtractorOption) *Extractor {
	e := &Extractor{engine: engine, timeout: 15 * time.Second}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the engine under the configured timeout. Engine errors and
// timeouts both degrade to Empty; they are logged, never propagated.
func (e *Extractor) Extract(ctx context.Context, image []byte) *Result {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result, err := e.engine.Extract(ctx, image)
	if err != nil {
		if e.logger != nil {
			e.logger.WarnContext(ctx, "ocr extraction degraded to empty result",
				"error", err,
			)
		}
		return Empty()
	}
	if result == nil {
		return Empty()
	}
	return result
}
