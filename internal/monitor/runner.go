// internal/monitor/runner.go
package monitor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"loginsights/internal/report"
)

// Runner executes one bounded analysis against one target. A non-zero
// exit or a timeout is recorded into the run, never returned as an
// error: partial results beat no results.
type Runner interface {
	Run(ctx context.Context, target string, logLines []string) report.Run
}

// CommandRunner invokes the external analysis command as a subprocess
// under a hard wall-clock timeout.
type CommandRunner struct {
	Command    string
	Model      string
	OllamaHost string
	MaxEntries int
	Timeout    time.Duration
}

func (r *CommandRunner) Run(ctx context.Context, target string, logLines []string) report.Run {
	run := report.Run{
		Target:  target,
		Start:   time.Now(),
		Timeout: r.Timeout,
	}

	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.Command,
		"--source", "docker",
		"--container", target,
		"--model", r.Model,
		"--ollama-host", r.OllamaHost,
		"--entries", fmt.Sprint(r.MaxEntries),
		"--timeout", fmt.Sprint(int(r.Timeout.Seconds())),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	run.Stdout = stdout.String()
	run.Stderr = stderr.String()

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		run.TimedOut = true
		run.ExitCode = -1
	case err != nil:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			run.ExitCode = exitErr.ExitCode()
		} else {
			run.ExitCode = -1
			if run.Stderr != "" {
				run.Stderr += "\n"
			}
			run.Stderr += err.Error()
		}
	}

	return run
}

// OllamaRunner summarizes the fetched log lines directly through the
// backend generate endpoint. Used when no external analysis command is
// configured.
type OllamaRunner struct {
	Backend Backend
	Model   string
	Timeout time.Duration
}

// maxPromptBytes caps the log excerpt sent to the model
const maxPromptBytes = 4000

func (r *OllamaRunner) Run(ctx context.Context, target string, logLines []string) report.Run {
	run := report.Run{
		Target:  target,
		Start:   time.Now(),
		Timeout: r.Timeout,
	}

	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	response, err := r.Backend.Generate(runCtx, r.Model, buildPrompt(target, logLines))
	run.Stdout = response

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		run.TimedOut = true
		run.ExitCode = -1
	case err != nil:
		run.Stderr = err.Error()
		run.ExitCode = 1
	}

	return run
}

func buildPrompt(target string, logLines []string) string {
	text := strings.Join(logLines, "\n")
	if len(text) > maxPromptBytes {
		text = text[len(text)-maxPromptBytes:]
	}

	return fmt.Sprintf(`Analyze the following logs from container %q and produce a short summary:

1. Most relevant messages
2. Critical errors or warnings
3. Overall service state
4. Recommended actions

Answer briefly and structured.

Logs:
%s`, target, text)
}
