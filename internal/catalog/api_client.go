package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/interview-prep/backend/internal/models"
)

// APIClient talks to the backend REST API that owns questions and
// categories.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &APIClient{baseURL: baseURL + "/api", http: httpClient}
}

func (c *APIClient) ListQuestions(ctx context.Context) ([]models.Question, error) {
	data, err := fetch[[]models.Question](ctx, c, http.MethodGet, c.baseURL+"/questions", nil, true)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return *data, nil
}

func (c *APIClient) ListQuestionsPage(ctx context.Context, page, size int, categoryIDs []int64) (*models.QuestionPage, error) {
	if page < 0 {
		return nil, ErrInvalidPage
	}
	if size <= 0 {
		return nil, ErrInvalidPageSize
	}
	for _, id := range categoryIDs {
		if id <= 0 {
			return nil, fmt.Errorf("category: %w", ErrInvalidID)
		}
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	for _, id := range categoryIDs {
		q.Add("categoryIds", strconv.FormatInt(id, 10))
	}

	data, err := fetch[models.QuestionPage](ctx, c, http.MethodGet, c.baseURL+"/questions/page?"+q.Encode(), nil, true)
	if err != nil {
		return nil, fmt.Errorf("list questions page %d: %w", page, err)
	}
	return data, nil
}

func (c *APIClient) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	data, err := fetch[models.Question](ctx, c, http.MethodGet, c.questionURL(id), nil, true)
	if err != nil {
		return nil, fmt.Errorf("get question %d: %w", id, err)
	}
	return data, nil
}

func (c *APIClient) CreateQuestion(ctx context.Context, q models.Question) (*models.Question, error) {
	data, err := fetch[models.Question](ctx, c, http.MethodPost, c.baseURL+"/questions", q, true)
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return data, nil
}

func (c *APIClient) UpdateQuestion(ctx context.Context, id int64, q models.Question) (*models.Question, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	data, err := fetch[models.Question](ctx, c, http.MethodPut, c.questionURL(id), q, true)
	if err != nil {
		return nil, fmt.Errorf("update question %d: %w", id, err)
	}
	return data, nil
}

func (c *APIClient) DeleteQuestion(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if _, err := fetch[struct{}](ctx, c, http.MethodDelete, c.questionURL(id), nil, false); err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	return nil
}

func (c *APIClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	data, err := fetch[[]models.Category](ctx, c, http.MethodGet, c.baseURL+"/categories", nil, true)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return *data, nil
}

func (c *APIClient) questionURL(id int64) string {
	return c.baseURL + "/questions/" + strconv.FormatInt(id, 10)
}

// fetch performs one request and unwraps the backend envelope. When
// requireData is set, a successful envelope with null data is an error.
func fetch[T any](ctx context.Context, c *APIClient, method, rawURL string, body any, requireData bool) (*T, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &BackendError{Message: err.Error()}
	}
	defer resp.Body.Close()

	var envelope models.APIResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &BackendError{StatusCode: resp.StatusCode, Message: "invalid response body: " + err.Error()}
	}

	if !envelope.Success {
		return nil, &BackendError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}
	if envelope.Data == nil {
		if requireData {
			return nil, &BackendError{StatusCode: resp.StatusCode, Message: "response contained no data"}
		}
		return new(T), nil
	}
	return envelope.Data, nil
}
