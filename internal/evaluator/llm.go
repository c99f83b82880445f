package evaluator

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/interview-prep/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// LLMClient is the interface both model-backed implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// LLMEvaluator scores answers by prompting a language model directly instead
// of going through the backend.
type LLMEvaluator struct {
	llm LLMClient
}

func NewLLMEvaluator(llm LLMClient) *LLMEvaluator {
	return &LLMEvaluator{llm: llm}
}

func (e *LLMEvaluator) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error) {
	resp, err := e.llm.Generate(ctx, EvaluationSystemPrompt(), BuildEvaluationUserPrompt(req))
	if err != nil {
		return nil, &RemoteError{Err: fmt.Errorf("generate evaluation: %w", err)}
	}

	result, err := ParseEvaluation(resp.Content)
	if err != nil {
		return nil, &RemoteError{Err: fmt.Errorf("parse evaluation: %w", err)}
	}

	log.Debug().
		Int("prompt_tokens", resp.PromptTokens).
		Int("output_tokens", resp.OutputTokens).
		Float64("accuracy", result.Accuracy).
		Msg("answer evaluated")
	return result, nil
}

// ── APIClient: Anthropic SDK ───────────────────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(apiKey, model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &APIClient{client: &client, model: model}
}

// Generate makes exactly one Messages call. The quiz engine attempts every
// evaluation once, so there is no retry loop here.
func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   2048,
		Temperature: param.NewOpt(0.2),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API: %w", err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}
