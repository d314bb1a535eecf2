package redline

import (
	"context"
	"log/slog"

	"github.com/caldew/redline/pkg/engine"
)

// DefaultAuthorTag labels the edits when no author is configured.
const DefaultAuthorTag = "Redline"

// Runner is the collaborator that computes the true redline between two
// document byte buffers. *engine.Client is the production implementation;
// tests inject fakes.
type Runner interface {
	Run(ctx context.Context, authorTag string, original, modified []byte) (*engine.Result, error)
}

// options holds the internal configuration for one pipeline run.
type options struct {
	authorTag string
	engine    Runner
	fallback  bool
	logger    *slog.Logger
}

// Option defines a functional option for configuring a pipeline run.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		authorTag: DefaultAuthorTag,
		fallback:  false,
		logger:    nil,
	}
}

// WithAuthorTag sets the author label attributed to the proposed edits.
func WithAuthorTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.authorTag = tag
		}
	}
}

// WithEngine injects the external engine runner. Without one, the pipeline
// always uses the internal renderer.
func WithEngine(r Runner) Option {
	return func(o *options) {
		o.engine = r
	}
}

// WithFallback renders an internal approximation instead of failing when the
// external engine run fails.
func WithFallback(enabled bool) Option {
	return func(o *options) {
		o.fallback = enabled
	}
}

// WithLogger sets the logger for the run.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
