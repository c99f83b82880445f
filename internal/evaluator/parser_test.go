package evaluator

import (
	"errors"
	"strings"
	"testing"
)

const validEvaluationJSON = `{
  "accuracy": 72,
  "feedback": "Covers the main idea but skips the cost model.",
  "goodPoints": ["Explains the index lookup", "Mentions B-trees"],
  "improvementPoints": ["Discuss write amplification"],
  "detailedAdvice": "Start from the access pattern, then explain the tradeoffs."
}`

func TestParseEvaluation_ValidJSON(t *testing.T) {
	result, err := ParseEvaluation(validEvaluationJSON)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if result.Accuracy != 72 {
		t.Errorf("expected accuracy 72, got %v", result.Accuracy)
	}
	if len(result.GoodPoints) != 2 {
		t.Errorf("expected 2 good points, got %d", len(result.GoodPoints))
	}
	if len(result.ImprovementPoints) != 1 {
		t.Errorf("expected 1 improvement point, got %d", len(result.ImprovementPoints))
	}
	if !strings.HasPrefix(result.DetailedAdvice, "Start from") {
		t.Errorf("unexpected detailed advice %q", result.DetailedAdvice)
	}
}

func TestParseEvaluation_MarkdownFences(t *testing.T) {
	for _, input := range []string{
		"```json\n" + validEvaluationJSON + "\n```",
		"```\n" + validEvaluationJSON + "\n```",
		"\n\n" + validEvaluationJSON + "\n",
	} {
		result, err := ParseEvaluation(input)
		if err != nil {
			t.Fatalf("expected no error with fenced input, got: %v", err)
		}
		if result.Accuracy != 72 {
			t.Errorf("expected accuracy 72, got %v", result.Accuracy)
		}
	}
}

func TestParseEvaluation_ZeroAccuracyIsValid(t *testing.T) {
	result, err := ParseEvaluation(`{"accuracy": 0, "feedback": "Off topic."}`)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Accuracy != 0 {
		t.Errorf("expected accuracy 0, got %v", result.Accuracy)
	}
	// Missing lists come back empty, never nil.
	if result.GoodPoints == nil || result.ImprovementPoints == nil {
		t.Error("expected empty point lists, got nil")
	}
}

func TestParseEvaluation_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing accuracy", `{"feedback": "ok"}`, "missing accuracy"},
		{"accuracy too high", `{"accuracy": 130}`, "outside range"},
		{"negative accuracy", `{"accuracy": -5}`, "outside range"},
		{"blank good point", `{"accuracy": 50, "goodPoints": ["fine", "  "]}`, "good point 2 is empty"},
		{"blank improvement point", `{"accuracy": 50, "improvementPoints": [""]}`, "improvement point 1 is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvaluation(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}

			var me *MalformedError
			if !errors.As(err, &me) {
				t.Fatalf("expected MalformedError, got: %T", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestParseEvaluation_NotJSON(t *testing.T) {
	_, err := ParseEvaluation("I think this answer deserves a 70.")
	if err == nil {
		t.Fatal("expected error for non-JSON body")
	}

	// A decode failure is not a validation failure.
	var me *MalformedError
	if errors.As(err, &me) {
		t.Fatal("expected parse error, not MalformedError")
	}
}
