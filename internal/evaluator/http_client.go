package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/interview-prep/backend/internal/models"
)

const maxResponseBytes = 1 << 20

// HTTPClient posts answers to the backend's /api/evaluate endpoint.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{baseURL: baseURL, http: httpClient}
}

func (c *HTTPClient) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &RemoteError{Err: fmt.Errorf("encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/evaluate", bytes.NewReader(body))
	if err != nil {
		return nil, &RemoteError{Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &RemoteError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	result, err := ParseEvaluation(string(payload))
	if err != nil {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Err: err}
	}
	return result, nil
}
