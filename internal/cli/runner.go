package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/interview-prep/backend/internal/models"
	"github.com/interview-prep/backend/internal/quiz"
)

// Runner drives one quiz session on a text terminal. Answers may span
// several lines; an empty line ends the answer.
type Runner struct {
	engine *quiz.Engine
	in     *bufio.Scanner
	out    io.Writer
}

func NewRunner(engine *quiz.Engine, in io.Reader, out io.Writer) *Runner {
	return &Runner{engine: engine, in: bufio.NewScanner(in), out: out}
}

func (r *Runner) Run(ctx context.Context, categoryIDs []int64) (models.SessionSnapshot, error) {
	snap, err := r.engine.Start(ctx, categoryIDs)
	if err != nil {
		return snap, err
	}

	if snap.State == models.StateEmpty {
		fmt.Fprintln(r.out, "No questions found for the selected categories.")
		return snap, nil
	}

	for snap.State == models.StateAnswering {
		q := snap.CurrentQuestion
		fmt.Fprintf(r.out, "\nQuestion %d / %d: %s\n\n%s\n\n", snap.Cursor+1, snap.PoolSize, q.Title, q.Content)

		answer, err := r.readAnswer()
		if err != nil {
			return snap, err
		}

		next, err := r.engine.SubmitAnswer(answer)
		var validationErr *quiz.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintln(r.out, "Please enter an answer.")
			continue
		}
		if err != nil {
			return next, err
		}
		snap = next
	}

	fmt.Fprintln(r.out, "\nEvaluating your answers...")
	snap, err = r.engine.Wait(ctx)
	if err != nil {
		return snap, err
	}

	r.printSummary(snap)
	return snap, nil
}

func (r *Runner) readAnswer() (string, error) {
	fmt.Fprintln(r.out, "Your answer (finish with an empty line):")

	var lines []string
	for r.in.Scan() {
		line := r.in.Text()
		if strings.TrimSpace(line) == "" {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
	}
	if err := r.in.Err(); err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	if len(lines) == 0 {
		return "", io.ErrUnexpectedEOF
	}
	return strings.Join(lines, "\n"), nil
}

func (r *Runner) printSummary(snap models.SessionSnapshot) {
	fmt.Fprintln(r.out, "\n== Summary ==")
	if snap.Summary != nil {
		fmt.Fprintf(r.out, "Accuracy: %.0f%%\n", snap.Summary.Accuracy)
		if snap.Summary.Failed > 0 {
			fmt.Fprintf(r.out, "(%d of %d answers could not be evaluated and count as 0%%)\n", snap.Summary.Failed, snap.Summary.Answered)
		}
	}

	for i, a := range snap.Answers {
		fmt.Fprintf(r.out, "\nQuestion %d: %s\n", i+1, a.Question.Content)
		fmt.Fprintf(r.out, "Your answer: %s\n", a.UserAnswer)
		fmt.Fprintf(r.out, "Example answer: %s\n", a.Question.ExampleAnswer)

		if a.Evaluation == nil {
			fmt.Fprintf(r.out, "Evaluation unavailable: %s\n", a.EvaluationError)
			continue
		}
		ev := a.Evaluation
		fmt.Fprintf(r.out, "Accuracy: %.0f%%\n", ev.Accuracy)
		fmt.Fprintf(r.out, "Feedback: %s\n", ev.Feedback)
		printList(r.out, "Good points", ev.GoodPoints)
		printList(r.out, "Improvements", ev.ImprovementPoints)
		fmt.Fprintf(r.out, "Advice: %s\n", ev.DetailedAdvice)
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
