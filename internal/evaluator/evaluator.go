package evaluator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/interview-prep/backend/internal/config"
	"github.com/interview-prep/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// Client scores a single free-text answer against the question's example
// answer. Implementations never retry; a failed call returns *RemoteError.
type Client interface {
	Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error)
}

// RemoteError reports a failed evaluation call: transport failure, a
// non-success status, or a payload that could not be used.
type RemoteError struct {
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote evaluation failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote evaluation failed: %v", e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NewFromConfig picks the evaluator implementation named by cfg.Evaluator.Kind.
func NewFromConfig(cfg *config.Config) (Client, error) {
	switch cfg.Evaluator.Kind {
	case config.EvaluatorHTTP:
		log.Info().Str("base_url", cfg.Backend.BaseURL).Msg("evaluator using backend evaluation API")
		return NewHTTPClient(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Evaluator.Timeout}), nil
	case config.EvaluatorAnthropic:
		log.Info().Str("model", cfg.Evaluator.Model).Msg("evaluator using Anthropic API")
		return NewLLMEvaluator(NewAPIClient(cfg.Evaluator.APIKey, cfg.Evaluator.Model)), nil
	case config.EvaluatorCLI:
		log.Info().Str("cli_path", cfg.Evaluator.CLIPath).Msg("evaluator using Claude CLI")
		return NewCLIClient(cfg.Evaluator.CLIPath), nil
	case config.EvaluatorMock:
		log.Info().Msg("evaluator using keyword-overlap mock")
		return NewMockEvaluator(), nil
	default:
		return nil, fmt.Errorf("unknown evaluator %q", cfg.Evaluator.Kind)
	}
}
