package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/interview-prep/backend/internal/models"
)

// Source supplies question and category records. The quiz engine only reads
// through it.
type Source interface {
	ListQuestions(ctx context.Context) ([]models.Question, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Editor is implemented by sources that can also page and modify questions.
type Editor interface {
	Source
	ListQuestionsPage(ctx context.Context, page, size int, categoryIDs []int64) (*models.QuestionPage, error)
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)
	CreateQuestion(ctx context.Context, q models.Question) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id int64, q models.Question) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

var (
	ErrInvalidID       = errors.New("id must be 1 or greater")
	ErrInvalidPage     = errors.New("page must be 0 or greater")
	ErrInvalidPageSize = errors.New("page size must be 1 or greater")
	ErrNotFound        = errors.New("not found")
)

// BackendError carries the message from a {success:false} backend envelope
// or a transport-level failure.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

func (e *BackendError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}
