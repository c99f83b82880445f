package evaluator

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/interview-prep/backend/internal/models"
)

// MockEvaluator scores by keyword overlap with the example answer. It needs
// no network access and is deterministic.
type MockEvaluator struct{}

func NewMockEvaluator() *MockEvaluator {
	return &MockEvaluator{}
}

func (m *MockEvaluator) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &RemoteError{Err: err}
	}

	expected := tokenize(req.ExampleAnswer)
	given := tokenize(req.UserAnswer)

	var hits, misses []string
	for w := range expected {
		if given[w] {
			hits = append(hits, w)
		} else {
			misses = append(misses, w)
		}
	}

	// Recall against the example answer; extra words never lower the score.
	accuracy := 0.0
	if len(expected) > 0 {
		accuracy = math.Round(float64(len(hits)) / float64(len(expected)) * 100)
	}

	result := &models.EvaluationResult{
		Accuracy:          accuracy,
		Feedback:          fmt.Sprintf("[Mock] Your answer covers %d of %d key terms from the example answer.", len(hits), len(expected)),
		GoodPoints:        []string{},
		ImprovementPoints: []string{},
		DetailedAdvice:    "[Mock] Compare your answer with the example answer and cover the missing terms.",
	}
	if len(hits) > 0 {
		result.GoodPoints = append(result.GoodPoints, "Mentions: "+strings.Join(sortedCopy(hits), ", "))
	}
	if len(misses) > 0 {
		result.ImprovementPoints = append(result.ImprovementPoints, "Missing: "+strings.Join(sortedCopy(misses), ", "))
	}
	return result, nil
}

// tokenize splits s into comparable terms. Words of space-separated
// scripts count when longer than three runes, which skips most articles
// and prepositions. Runs of Japanese or Chinese text have no word breaks,
// so they contribute overlapping character bigrams instead.
func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	isSeparator := func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	}

	for _, field := range strings.FieldsFunc(strings.ToLower(s), isSeparator) {
		var word, run []rune
		flushWord := func() {
			if len(word) > 3 {
				tokens[string(word)] = true
			}
			word = word[:0]
		}
		flushRun := func() {
			addBigrams(tokens, run)
			run = run[:0]
		}

		for _, r := range field {
			if isUnspaced(r) {
				flushWord()
				run = append(run, r)
			} else {
				flushRun()
				word = append(word, r)
			}
		}
		flushWord()
		flushRun()
	}
	return tokens
}

func isUnspaced(r rune) bool {
	// U+30FC (prolonged sound mark) belongs to the Common script.
	return r == 'ー' || unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana)
}

func addBigrams(tokens map[string]bool, run []rune) {
	if len(run) == 1 {
		tokens[string(run)] = true
		return
	}
	for i := 0; i+1 < len(run); i++ {
		tokens[string(run[i:i+2])] = true
	}
}

func sortedCopy(words []string) []string {
	out := append([]string(nil), words...)
	slices.Sort(out)
	return out
}
