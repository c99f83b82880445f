package models

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Question is a question/answer record as stored by the backend. ID is nil
// for drafts that have not been saved yet.
type Question struct {
	ID              *int64     `json:"id,omitempty"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	ExampleAnswer   string     `json:"exampleAnswer"`
	DetailedContent string     `json:"detailedContent"`
	CreatedAt       string     `json:"createdAt,omitempty"`
	UpdatedAt       string     `json:"updatedAt,omitempty"`
	Categories      []Category `json:"categories,omitempty"`
}

// HasAnyCategory reports whether the question belongs to at least one of
// the given category ids.
func (q Question) HasAnyCategory(ids map[int64]bool) bool {
	for _, c := range q.Categories {
		if ids[c.ID] {
			return true
		}
	}
	return false
}

// RenderedQuestion carries HTML renderings of the markdown fields.
type RenderedQuestion struct {
	Question
	ContentHTML         string `json:"contentHtml"`
	ExampleAnswerHTML   string `json:"exampleAnswerHtml"`
	DetailedContentHTML string `json:"detailedContentHtml"`
}

type QuestionPage struct {
	Content       []Question `json:"content"`
	TotalPages    int        `json:"totalPages"`
	TotalElements int64      `json:"totalElements"`
}

// APIResponse is the envelope every backend endpoint wraps its payload in.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
