package evaluator

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/interview-prep/backend/internal/models"
)

// writeStubCLI writes an executable shell script standing in for the claude
// CLI and returns its path.
func writeStubCLI(t *testing.T, dir, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub CLI needs a POSIX shell")
	}
	path := filepath.Join(dir, "claude")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write stub CLI: %v", err)
	}
	return path
}

func TestCLIClient_JSONOutput(t *testing.T) {
	dir := t.TempDir()

	evaluation := `{"accuracy": 72, "feedback": "Solid", "goodPoints": ["names the lock"], "improvementPoints": [], "detailedAdvice": "Mention contention."}`
	envelope, err := json.Marshal(map[string]any{
		"type":     "result",
		"is_error": false,
		"result":   "```json\n" + evaluation + "\n```",
		"usage":    map[string]int{"input_tokens": 120, "output_tokens": 40},
	})
	if err != nil {
		t.Fatalf("failed to build envelope: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "envelope.json"), envelope, 0o644); err != nil {
		t.Fatalf("failed to write envelope: %v", err)
	}

	path := writeStubCLI(t, dir, `cat > "`+dir+`/stdin"
echo "$@" > "`+dir+`/args"
cat "`+dir+`/envelope.json"`)

	result, err := NewCLIClient(path).Evaluate(context.Background(), models.EvaluationRequest{
		QuestionContent: "What does a mutex do?",
		ExampleAnswer:   "It serializes access to shared state.",
		UserAnswer:      "It locks things.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Accuracy != 72 || result.Feedback != "Solid" {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(result.GoodPoints) != 1 || result.GoodPoints[0] != "names the lock" {
		t.Errorf("unexpected good points %v", result.GoodPoints)
	}

	args, _ := os.ReadFile(filepath.Join(dir, "args"))
	if !strings.Contains(string(args), "--output-format json") {
		t.Errorf("expected JSON output flag, got args %q", args)
	}
	stdin, _ := os.ReadFile(filepath.Join(dir, "stdin"))
	if !strings.Contains(string(stdin), "It locks things.") {
		t.Errorf("expected user answer on stdin, got %q", stdin)
	}
}

func TestCLIClient_ReportedError(t *testing.T) {
	path := writeStubCLI(t, t.TempDir(), `cat > /dev/null
echo '{"type":"result","is_error":true,"result":"Credit balance is too low"}'`)

	_, err := NewCLIClient(path).Evaluate(context.Background(), models.EvaluationRequest{UserAnswer: "x"})
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got: %v", err)
	}
	if !strings.Contains(err.Error(), "Credit balance is too low") {
		t.Errorf("expected CLI message in error, got: %v", err)
	}
}

func TestCLIClient_NonZeroExit(t *testing.T) {
	path := writeStubCLI(t, t.TempDir(), `cat > /dev/null
echo "   " >&2
echo "Error: not logged in" >&2
exit 3`)

	_, err := NewCLIClient(path).Evaluate(context.Background(), models.EvaluationRequest{UserAnswer: "x"})
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got: %v", err)
	}
	if !strings.HasSuffix(err.Error(), "Error: not logged in") {
		t.Errorf("expected trimmed stderr at the end of the error, got: %q", err.Error())
	}
}

func TestCLIClient_NotJSON(t *testing.T) {
	path := writeStubCLI(t, t.TempDir(), `cat > /dev/null
echo "plain text answer"`)

	_, err := NewCLIClient(path).Evaluate(context.Background(), models.EvaluationRequest{UserAnswer: "x"})
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got: %v", err)
	}
	if !strings.Contains(err.Error(), "decode claude CLI output") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCLIClient_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeStubCLI(t, dir, `touch "`+dir+`/ran"
exec sleep 5`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCLIClient(path).Evaluate(ctx, models.EvaluationRequest{UserAnswer: "x"})
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "ran")); statErr == nil {
		t.Error("CLI should not start with a cancelled context")
	}
}

func TestCLIClient_DeadlineKillsCLI(t *testing.T) {
	path := writeStubCLI(t, t.TempDir(), `exec sleep 5`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewCLIClient(path).Evaluate(ctx, models.EvaluationRequest{UserAnswer: "x"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("CLI was not stopped on deadline, took %v", elapsed)
	}
}

func TestTail(t *testing.T) {
	if got := tail("  \n"); got != "no output" {
		t.Errorf("expected placeholder for blank output, got %q", got)
	}

	long := strings.Repeat("x", 2*maxStderrBytes) + "last line"
	got := tail(long)
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "last line") {
		t.Errorf("expected truncated tail, got %q", got)
	}
	if len(got) != maxStderrBytes+len("...") {
		t.Errorf("expected %d bytes, got %d", maxStderrBytes+len("..."), len(got))
	}
}
