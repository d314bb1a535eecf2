package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/google/uuid"
)

// Result holds the output of one successful engine run. Stdout and Stderr
// are informational side channels, never used for control flow.
type Result struct {
	Redlined []byte
	Stdout   string
	Stderr   string
}

// Run invokes the engine on the original and modified document bytes and
// returns the redlined document. The engine is called as:
//
//	binary <authorTag> <originalPath> <modifiedPath> <outputPath>
//
// Both inputs and the output slot are fresh temporary files, removed on
// every exit path; removal failures are logged and never mask the primary
// outcome. The run is bounded by the client timeout; exceeding it is fatal
// and not retried.
func (c *Client) Run(ctx context.Context, authorTag string, original, modified []byte) (*Result, error) {
	opID := uuid.NewString()[:8]

	originalPath, err := c.writeTemp(opID, "original", original)
	if err != nil {
		return nil, err
	}
	defer c.removeTemp(originalPath)

	modifiedPath, err := c.writeTemp(opID, "modified", modified)
	if err != nil {
		return nil, err
	}
	defer c.removeTemp(modifiedPath)

	outputPath, err := c.writeTemp(opID, "redlined", nil)
	if err != nil {
		return nil, err
	}
	defer c.removeTemp(outputPath)

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.BinaryPath(), authorTag, originalPath, modifiedPath, outputPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if c.logger != nil {
		c.logger.Debug("running redline engine", "op", opID, "author", authorTag)
	}

	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			if c.logger != nil {
				c.logger.Error("redline engine timed out", "op", opID, "timeout", c.timeout)
			}
			return nil, &TimeoutError{Timeout: c.timeout}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ProcessError{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}
		}
		return nil, fmt.Errorf("running redline engine: %w", err)
	}

	redlined, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("reading engine output: %w", err)
	}
	if len(redlined) == 0 {
		return nil, fmt.Errorf("engine reported success but wrote no output to %s", outputPath)
	}

	return &Result{
		Redlined: redlined,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

// writeTemp creates a fresh temporary file holding data (which may be nil
// for an output slot) and returns its path.
func (c *Client) writeTemp(opID, role string, data []byte) (string, error) {
	f, err := os.CreateTemp(c.tempDir, fmt.Sprintf("redline-%s-%s-*.docx", opID, role))
	if err != nil {
		return "", fmt.Errorf("creating %s temp file: %w", role, err)
	}
	if len(data) > 0 {
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("writing %s temp file: %w", role, err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing %s temp file: %w", role, err)
	}
	return f.Name(), nil
}

// removeTemp deletes a temporary file. Failures are logged only: cleanup
// must never mask the primary result or error.
func (c *Client) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		if c.logger != nil {
			c.logger.Warn("failed to delete temp file", "path", path, "error", err)
		}
	}
}
