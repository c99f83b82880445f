package evaluator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/interview-prep/backend/internal/models"
)

type MalformedError struct {
	Errors []string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed evaluation: %s", strings.Join(e.Errors, "; "))
}

// rawEvaluation mirrors models.EvaluationResult with a pointer accuracy so a
// missing field can be told apart from a genuine zero score.
type rawEvaluation struct {
	Accuracy          *float64 `json:"accuracy"`
	Feedback          string   `json:"feedback"`
	GoodPoints        []string `json:"goodPoints"`
	ImprovementPoints []string `json:"improvementPoints"`
	DetailedAdvice    string   `json:"detailedAdvice"`
}

// ParseEvaluation decodes an evaluation payload, tolerating markdown code
// fences around the JSON, and checks it is usable.
func ParseEvaluation(body string) (*models.EvaluationResult, error) {
	cleaned := stripCodeFences(body)

	var raw rawEvaluation
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation JSON: %w", err)
	}

	if err := validateEvaluation(&raw); err != nil {
		return nil, err
	}

	result := &models.EvaluationResult{
		Accuracy:          *raw.Accuracy,
		Feedback:          raw.Feedback,
		GoodPoints:        raw.GoodPoints,
		ImprovementPoints: raw.ImprovementPoints,
		DetailedAdvice:    raw.DetailedAdvice,
	}
	if result.GoodPoints == nil {
		result.GoodPoints = []string{}
	}
	if result.ImprovementPoints == nil {
		result.ImprovementPoints = []string{}
	}
	return result, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func validateEvaluation(raw *rawEvaluation) error {
	var errs []string

	if raw.Accuracy == nil {
		errs = append(errs, "missing accuracy")
	} else if *raw.Accuracy < models.MinAccuracy || *raw.Accuracy > models.MaxAccuracy {
		errs = append(errs, fmt.Sprintf("accuracy %v outside range [%d, %d]", *raw.Accuracy, models.MinAccuracy, models.MaxAccuracy))
	}

	for i, p := range raw.GoodPoints {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Sprintf("good point %d is empty", i+1))
		}
	}
	for i, p := range raw.ImprovementPoints {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Sprintf("improvement point %d is empty", i+1))
		}
	}

	if len(errs) > 0 {
		return &MalformedError{Errors: errs}
	}
	return nil
}
