package evaluator

import (
	"fmt"
	"strings"

	"github.com/interview-prep/backend/internal/models"
)

func EvaluationSystemPrompt() string {
	return `You are a senior engineer grading answers to technical interview questions.

You receive the question, an example answer written by the question author, and the candidate's answer.
Judge how accurately and completely the candidate's answer covers the essential points of the example answer.
Do not reward length. Credit correct points the example answer does not mention.

Respond with a single JSON object and nothing else:
{
  "accuracy": <integer 0-100>,
  "feedback": "<two or three sentence overall assessment>",
  "goodPoints": ["<what the answer got right>", ...],
  "improvementPoints": ["<what is missing or wrong>", ...],
  "detailedAdvice": "<concrete advice for answering this question in an interview>"
}

Write every string in the language the question is written in.`
}

func BuildEvaluationUserPrompt(req models.EvaluationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Question\n%s\n\n", strings.TrimSpace(req.QuestionContent))
	fmt.Fprintf(&b, "## Example answer\n%s\n\n", strings.TrimSpace(req.ExampleAnswer))
	fmt.Fprintf(&b, "## Candidate answer\n%s\n", strings.TrimSpace(req.UserAnswer))
	return b.String()
}
