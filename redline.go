package redline

import (
	"context"
	"fmt"

	"github.com/caldew/redline/pkg/apply"
	"github.com/caldew/redline/pkg/change"
	"github.com/caldew/redline/pkg/docx"
)

// Version exposes the version of the library.
const Version = "0.1.0"

// Result is the outcome of one pipeline run. Normalization skips and
// unmatched fragments are warnings surfaced here, never failures.
type Result struct {
	Redlined []byte // redline rendering, nil for apply-only runs
	Modified []byte // document with changes applied

	Applied   int      // change records that matched at least one element
	Skipped   int      // raw records that matched no recognized schema
	Unmatched []string // canonical fragments that matched nothing

	EngineStdout string // informational side channel from the engine
	EngineStderr string
	UsedFallback bool // true when the internal renderer replaced a failed engine run
}

// ApplyChanges normalizes the raw change records and substitutes them into
// the document, returning the modified bytes and the coverage report. No
// redline rendering is performed.
func ApplyChanges(original []byte, raw []map[string]any, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return applyChanges(original, raw, o)
}

func applyChanges(original []byte, raw []map[string]any, o *options) (*Result, error) {
	records, skipped := change.Normalize(raw)
	if o.logger != nil {
		for _, s := range skipped {
			o.logger.Warn("skipping change with unknown field names", "index", s.Index, "keys", s.Keys)
		}
	}

	doc, err := docx.Load(original)
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}

	applier := &apply.Applier{Logger: o.logger}
	report := applier.Apply(doc, records)

	modified, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serializing modified document: %w", err)
	}

	return &Result{
		Modified:  modified,
		Applied:   report.Applied,
		Skipped:   len(skipped),
		Unmatched: report.Unmatched,
	}, nil
}

// Run executes the full pipeline: apply the raw changes, then compute the
// redline between the original and modified documents. With an engine
// configured the redline is delegated to it; engine failures abort the run
// with a typed error unless WithFallback is set, in which case the internal
// positional renderer takes over. Without an engine the internal renderer is
// always used.
func Run(ctx context.Context, original []byte, raw []map[string]any, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	res, err := applyChanges(original, raw, o)
	if err != nil {
		return nil, err
	}

	if o.engine != nil {
		engRes, err := o.engine.Run(ctx, o.authorTag, original, res.Modified)
		if err == nil {
			res.Redlined = engRes.Redlined
			res.EngineStdout = engRes.Stdout
			res.EngineStderr = engRes.Stderr
			return res, nil
		}
		if !o.fallback {
			return nil, err
		}
		if o.logger != nil {
			o.logger.Warn("engine run failed, falling back to internal renderer", "error", err)
		}
		res.UsedFallback = true
	}

	redlined, err := renderInternal(original, res.Modified)
	if err != nil {
		return nil, err
	}
	res.Redlined = redlined
	return res, nil
}

// RunJSON is Run for a raw JSON change payload, accepting the wrapper
// shapes language models produce.
func RunJSON(ctx context.Context, original, payload []byte, opts ...Option) (*Result, error) {
	raw, err := change.ParseRaw(payload)
	if err != nil {
		return nil, err
	}
	return Run(ctx, original, raw, opts...)
}

// RenderPreview produces the internal positional redline between two
// already-materialized documents. It is the lower-fidelity path: a coarse
// index-for-index pairing, not a true alignment.
func RenderPreview(original, modified []byte) ([]byte, error) {
	return renderInternal(original, modified)
}

func renderInternal(original, modified []byte) ([]byte, error) {
	origDoc, err := docx.Load(original)
	if err != nil {
		return nil, fmt.Errorf("loading original document: %w", err)
	}
	modDoc, err := docx.Load(modified)
	if err != nil {
		return nil, fmt.Errorf("loading modified document: %w", err)
	}

	apply.Redline(origDoc, modDoc, apply.DefaultHighlight)

	out, err := modDoc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serializing redline: %w", err)
	}
	return out, nil
}
