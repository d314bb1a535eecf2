package engine

import (
	"fmt"
	"strings"
	"time"
)

// TimeoutError reports an engine run that exceeded the wall-clock limit.
// Timed-out runs are fatal and never retried here; a caller wanting a retry
// must resubmit the operation.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("redline engine timed out after %s", e.Timeout)
}

// ProcessError reports a non-zero engine exit, with the captured output
// streams for diagnostics.
type ProcessError struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("redline engine exited with code %d", e.ExitCode)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}
