// Package redline turns a document plus a set of proposed textual changes
// into a visually marked "redline" rendering of the edit.
//
// The pipeline is: load the DOCX, normalize the loosely-shaped change
// records, substitute them into the document (longest fragment first),
// serialize the modified document, and hand the original and modified bytes
// to an external redline engine that computes a tracked-changes rendering.
// When the engine is unavailable, an internal positional renderer provides a
// coarse highlighted approximation instead.
//
// Usage:
//
//	client, err := engine.New(engine.WithLogger(logger))
//	result, err := redline.Run(ctx, originalBytes, rawChanges,
//		redline.WithAuthorTag("Legal Review"),
//		redline.WithEngine(client),
//	)
//
// Normalization skips and unmatched fragments never abort the run; they are
// reported on the Result. Engine failures abort it with a typed error so the
// caller can decide whether to retry with the internal renderer.
package redline
