package redline_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/caldew/redline"
	"github.com/caldew/redline/pkg/change"
	"github.com/caldew/redline/pkg/docx"
	"github.com/caldew/redline/pkg/docx/docxtest"
	"github.com/caldew/redline/pkg/engine"
)

// fakeRunner records the invocation and returns a canned outcome.
type fakeRunner struct {
	result *engine.Result
	err    error

	author   string
	original []byte
	modified []byte
}

func (f *fakeRunner) Run(_ context.Context, authorTag string, original, modified []byte) (*engine.Result, error) {
	f.author = authorTag
	f.original = original
	f.modified = modified
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func fixture(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	data, err := docxtest.Doc{Paragraphs: paragraphs}.Bytes()
	if err != nil {
		t.Fatalf("building fixture: %v", err)
	}
	return data
}

func documentXML(t *testing.T, data []byte) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening part: %v", err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("reading part: %v", err)
		}
		return content
	}
	t.Fatal("word/document.xml not found")
	return nil
}

func TestApplyChanges(t *testing.T) {
	original := fixture(t, "The quick brown fox", "Unchanged tail")

	raw := []map[string]any{
		{"original_text": "quick brown", "new_text": "slow red"},
		{"original_text": "not in the document", "new_text": "whatever"},
		{"unknown_a": "x", "unknown_b": "y"},
	}

	res, err := redline.ApplyChanges(original, raw)
	if err != nil {
		t.Fatalf("ApplyChanges failed: %v", err)
	}

	if res.Applied != 1 {
		t.Errorf("Applied = %d, want 1", res.Applied)
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}
	if len(res.Unmatched) != 1 || res.Unmatched[0] != "not in the document" {
		t.Errorf("Unmatched = %v", res.Unmatched)
	}
	if res.Redlined != nil {
		t.Error("ApplyChanges should not render a redline")
	}

	doc, err := docx.Load(res.Modified)
	if err != nil {
		t.Fatalf("loading modified output: %v", err)
	}
	if got := doc.Paragraphs()[0].Text(); got != "The slow red fox" {
		t.Errorf("Modified text = %q", got)
	}
}

func TestRun(t *testing.T) {
	original := fixture(t, "Before text", "Stable")
	raw := []map[string]any{{"original_text": "Before", "new_text": "After"}}

	t.Run("Engine Success", func(t *testing.T) {
		runner := &fakeRunner{result: &engine.Result{
			Redlined: []byte("engine-output"),
			Stdout:   "tracked 1 change",
		}}

		res, err := redline.Run(context.Background(), original, raw,
			redline.WithEngine(runner),
			redline.WithAuthorTag("Legal Review"),
		)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if !bytes.Equal(res.Redlined, []byte("engine-output")) {
			t.Errorf("Redlined = %q", res.Redlined)
		}
		if res.EngineStdout != "tracked 1 change" {
			t.Errorf("EngineStdout = %q", res.EngineStdout)
		}
		if runner.author != "Legal Review" {
			t.Errorf("Author tag = %q", runner.author)
		}
		if !bytes.Equal(runner.original, original) {
			t.Error("Engine did not receive the original bytes")
		}

		// The engine receives the post-substitution document.
		modDoc, err := docx.Load(runner.modified)
		if err != nil {
			t.Fatalf("loading modified bytes: %v", err)
		}
		if got := modDoc.Paragraphs()[0].Text(); got != "After text" {
			t.Errorf("Engine modified input = %q", got)
		}
	})

	t.Run("Engine Failure Aborts Without Fallback", func(t *testing.T) {
		procErr := &engine.ProcessError{ExitCode: 2, Stderr: "corrupt input"}
		runner := &fakeRunner{err: procErr}

		_, err := redline.Run(context.Background(), original, raw, redline.WithEngine(runner))
		var gotErr *engine.ProcessError
		if !errors.As(err, &gotErr) {
			t.Fatalf("Expected ProcessError, got %v", err)
		}
		if gotErr.ExitCode != 2 {
			t.Errorf("ExitCode = %d", gotErr.ExitCode)
		}
	})

	t.Run("Engine Failure Falls Back When Enabled", func(t *testing.T) {
		runner := &fakeRunner{err: &engine.TimeoutError{}}

		res, err := redline.Run(context.Background(), original, raw,
			redline.WithEngine(runner),
			redline.WithFallback(true),
		)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if !res.UsedFallback {
			t.Error("UsedFallback should be set")
		}

		xml := documentXML(t, res.Redlined)
		if !bytes.Contains(xml, []byte(`<w:highlight`)) {
			t.Error("Fallback redline should carry highlight marks")
		}
	})

	t.Run("No Engine Uses Internal Renderer", func(t *testing.T) {
		res, err := redline.Run(context.Background(), original, raw)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if res.UsedFallback {
			t.Error("Internal-only rendering is not a fallback")
		}

		doc, err := docx.Load(res.Redlined)
		if err != nil {
			t.Fatalf("loading redline: %v", err)
		}
		if got := doc.Paragraphs()[0].Text(); got != "After text" {
			t.Errorf("Redline text = %q", got)
		}
	})
}

func TestRunJSON(t *testing.T) {
	original := fixture(t, "Hello ABC World")

	t.Run("Wrapped Payload", func(t *testing.T) {
		payload := []byte(`{"changes":[{"original_text":"ABC","new_text":"XYZ"}]}`)

		res, err := redline.RunJSON(context.Background(), original, payload)
		if err != nil {
			t.Fatalf("RunJSON failed: %v", err)
		}
		doc, err := docx.Load(res.Modified)
		if err != nil {
			t.Fatalf("loading modified: %v", err)
		}
		if got := doc.Paragraphs()[0].Text(); got != "Hello XYZ World" {
			t.Errorf("Modified text = %q", got)
		}
	})

	t.Run("Unrecognized Payload Fails", func(t *testing.T) {
		_, err := redline.RunJSON(context.Background(), original, []byte(`{"nope":1}`))
		if !errors.Is(err, change.ErrUnrecognizedPayload) {
			t.Errorf("Expected ErrUnrecognizedPayload, got %v", err)
		}
	})
}

func TestRenderPreview(t *testing.T) {
	original := fixture(t, "same", "old")
	modified := fixture(t, "same", "new")

	out, err := redline.RenderPreview(original, modified)
	if err != nil {
		t.Fatalf("RenderPreview failed: %v", err)
	}

	xml := documentXML(t, out)
	if !bytes.Contains(xml, []byte(`<w:highlight w:val="red"/>`)) {
		t.Error("Preview should highlight the changed paragraph")
	}
	if !bytes.Contains(xml, []byte(`<w:p><w:r><w:t xml:space="preserve">same</w:t></w:r></w:p>`)) {
		t.Error("Unchanged paragraph should keep its original XML")
	}
}
