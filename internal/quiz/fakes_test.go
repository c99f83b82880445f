package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/interview-prep/backend/internal/evaluator"
	"github.com/interview-prep/backend/internal/models"
)

type fakeSource struct {
	questions  []models.Question
	categories []models.Category
	err        error
}

func (f *fakeSource) ListQuestions(ctx context.Context) ([]models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

func (f *fakeSource) ListCategories(ctx context.Context) ([]models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

// fakeEvaluator scores by user answer. Answers listed in failures fail with
// a network error. When gate is set every call blocks until it is closed,
// regardless of context cancellation.
type fakeEvaluator struct {
	scores   map[string]float64
	failures map[string]bool
	gate     chan struct{}

	mu       sync.Mutex
	requests []models.EvaluationRequest
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.gate != nil {
		<-f.gate
	}

	if f.failures[req.UserAnswer] {
		return nil, &evaluator.RemoteError{Err: errors.New("connection refused")}
	}
	return &models.EvaluationResult{
		Accuracy:          f.scores[req.UserAnswer],
		Feedback:          "feedback for " + req.UserAnswer,
		GoodPoints:        []string{"good"},
		ImprovementPoints: []string{"improve"},
		DetailedAdvice:    "advice",
	}, nil
}

func (f *fakeEvaluator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func question(id int64, categoryIDs ...int64) models.Question {
	q := models.Question{
		ID:            &id,
		Title:         fmt.Sprintf("Question %d", id),
		Content:       fmt.Sprintf("What is concept %d?", id),
		ExampleAnswer: fmt.Sprintf("Concept %d is explained like this.", id),
	}
	for _, c := range categoryIDs {
		q.Categories = append(q.Categories, models.Category{ID: c, Name: fmt.Sprintf("cat-%d", c), Code: fmt.Sprintf("C%d", c)})
	}
	return q
}

func questions(n int) []models.Question {
	out := make([]models.Question, n)
	for i := range out {
		out[i] = question(int64(i + 1))
	}
	return out
}
