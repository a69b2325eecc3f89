package llm

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// LocalProcessBackend runs a local CLI model (e.g. an ollama wrapper):
// prompts go in on stdin, a JSON object comes back on stdout.
type LocalProcessBackend struct {
	argv []string
}

// NewLocalProcessBackend creates the local process backend from the
// configured command line.
func NewLocalProcessBackend(command string) (*LocalProcessBackend, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, &FatalError{Op: "local init", Err: errors.New("LOCAL_LLM_COMMAND is not set")}
	}
	return &LocalProcessBackend{argv: argv}, nil
}

func (l *LocalProcessBackend) Name() string { return BackendLocalProcess }

// GenerateJSON runs one process invocation and extracts the JSON object
// from its output (CLIs tend to wrap it in extra text).
func (l *LocalProcessBackend) GenerateJSON(ctx context.Context, systemPrompt, userPayload string) (string, error) {
	cmd := exec.CommandContext(ctx, l.argv[0], l.argv[1:]...)
	cmd.Stdin = strings.NewReader(systemPrompt + "\n\n" + userPayload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", &FatalError{Op: "local generate", Err: err}
		}
		return "", &RetryableError{Op: "local generate: " + strings.TrimSpace(stderr.String()), Err: err}
	}

	return extractJSONObject(stdout.String()), nil
}

// extractJSONObject returns the outermost {...} span of s, or s trimmed
// when no braces are found (the caller's JSON parse reports the failure).
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return strings.TrimSpace(s)
}
