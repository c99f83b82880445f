package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/interview-prep/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// maxStderrBytes caps how much CLI diagnostic output ends up in an error.
const maxStderrBytes = 512

// CLIClient scores answers through the claude CLI in print mode. It uses
// the CLI's own login, so no API key is configured.
type CLIClient struct {
	cliPath string
}

func NewCLIClient(cliPath string) *CLIClient {
	return &CLIClient{cliPath: cliPath}
}

// cliResult is the envelope printed by `claude --print --output-format json`.
type cliResult struct {
	IsError bool   `json:"is_error"`
	Result  string `json:"result"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *CLIClient) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &RemoteError{Err: err}
	}

	cmd := exec.CommandContext(ctx,
		c.cliPath,
		"--print",
		"--output-format", "json",
		"--system-prompt", EvaluationSystemPrompt(),
		"--max-turns", "1",
	)
	cmd.Stdin = strings.NewReader(BuildEvaluationUserPrompt(req))
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &RemoteError{Err: ctxErr}
		}
		return nil, &RemoteError{Err: fmt.Errorf("claude CLI: %w: %s", err, tail(stderr.String()))}
	}

	var out cliResult
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &out); err != nil {
		return nil, &RemoteError{Err: fmt.Errorf("decode claude CLI output: %w", err)}
	}
	if out.IsError {
		return nil, &RemoteError{Err: fmt.Errorf("claude CLI reported an error: %s", tail(out.Result))}
	}

	result, err := ParseEvaluation(out.Result)
	if err != nil {
		return nil, &RemoteError{Err: fmt.Errorf("parse evaluation: %w", err)}
	}

	log.Debug().
		Int("prompt_tokens", out.Usage.InputTokens).
		Int("output_tokens", out.Usage.OutputTokens).
		Float64("accuracy", result.Accuracy).
		Msg("answer evaluated via CLI")
	return result, nil
}

// tail keeps the last maxStderrBytes of s, where CLI errors usually are.
func tail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "no output"
	}
	if len(s) > maxStderrBytes {
		s = "..." + strings.ToValidUTF8(s[len(s)-maxStderrBytes:], "")
	}
	return s
}
