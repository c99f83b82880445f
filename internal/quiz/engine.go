package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/interview-prep/backend/internal/catalog"
	"github.com/interview-prep/backend/internal/evaluator"
	"github.com/interview-prep/backend/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultEvaluationTimeout bounds each evaluation call of the fan-out.
const DefaultEvaluationTimeout = 60 * time.Second

type Option func(*Engine)

// WithRand sets the random source used for sampling. The engine takes
// ownership of r.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithEvaluationTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine owns one quiz session: the sampled pool, the answer cursor, the
// collected answers and their evaluations. Presentation code reads it only
// through Snapshot.
//
// Every started session gets a new generation number. An evaluation fan-out
// remembers the generation it was launched for and its results are dropped
// if the session was reset in the meantime.
type Engine struct {
	source  catalog.Source
	eval    evaluator.Client
	timeout time.Duration
	logger  zerolog.Logger

	mu         sync.Mutex
	rng        *rand.Rand
	state      models.SessionState
	generation uint64
	pool       []models.Question
	cursor     int
	answers    []models.AnswerRecord
	summary    *models.Summary
	sessionErr error
	cancel     context.CancelFunc
	settled    chan struct{}
}

func NewEngine(source catalog.Source, eval evaluator.Client, opts ...Option) *Engine {
	e := &Engine{
		source:  source,
		eval:    eval,
		timeout: DefaultEvaluationTimeout,
		logger:  log.Logger,
		state:   models.StateSelecting,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// Start loads every question, keeps those matching categoryIDs (all of them
// when categoryIDs is empty), samples up to PoolSize and begins answering.
// A source failure leaves the engine in StateSelecting with the error
// recorded on the snapshot.
func (e *Engine) Start(ctx context.Context, categoryIDs []int64) (models.SessionSnapshot, error) {
	e.mu.Lock()
	if e.state != models.StateSelecting {
		err := &InvalidStateError{Op: "start", State: e.state}
		e.mu.Unlock()
		return e.Snapshot(), err
	}
	e.mu.Unlock()

	questions, err := e.source.ListQuestions(ctx)
	if err != nil {
		dataErr := &SessionDataError{Op: "load questions", Err: err}
		e.logger.Error().Err(err).Msg("quiz start: question source failed")
		e.mu.Lock()
		e.sessionErr = dataErr
		e.mu.Unlock()
		return e.Snapshot(), dataErr
	}

	candidates := FilterByCategories(questions, categoryIDs)

	e.mu.Lock()
	pool := Sample(e.rng, candidates, PoolSize)
	e.mu.Unlock()

	e.logger.Info().
		Int("questions", len(questions)).
		Int("candidates", len(candidates)).
		Ints64("category_ids", categoryIDs).
		Int("pool", len(pool)).
		Msg("quiz pool sampled")

	return e.StartWithPool(pool)
}

// StartWithPool begins a session over an already sampled pool. An empty
// pool moves straight to the terminal StateEmpty.
func (e *Engine) StartWithPool(pool []models.Question) (models.SessionSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != models.StateSelecting {
		return e.snapshotLocked(), &InvalidStateError{Op: "start", State: e.state}
	}
	if len(pool) > PoolSize {
		return e.snapshotLocked(), &ValidationError{
			Field:   "pool",
			Message: fmt.Sprintf("%d questions exceeds the pool size of %d", len(pool), PoolSize),
		}
	}

	e.generation++
	e.pool = append([]models.Question(nil), pool...)
	e.cursor = 0
	e.answers = make([]models.AnswerRecord, 0, len(pool))
	e.summary = nil
	e.sessionErr = nil

	if len(e.pool) == 0 {
		e.state = models.StateEmpty
	} else {
		e.state = models.StateAnswering
	}
	return e.snapshotLocked(), nil
}

// SubmitAnswer records an answer for the current question. After the last
// question it switches to StateEvaluating and launches the evaluation
// fan-out in the background; use Wait to block until it settles.
func (e *Engine) SubmitAnswer(text string) (models.SessionSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != models.StateAnswering {
		return e.snapshotLocked(), &InvalidStateError{Op: "submit answer", State: e.state}
	}

	answer := strings.TrimSpace(text)
	if answer == "" {
		return e.snapshotLocked(), &ValidationError{Field: "answer", Message: "must not be empty"}
	}

	e.answers = append(e.answers, models.AnswerRecord{
		Question:   e.pool[e.cursor],
		UserAnswer: answer,
	})

	e.cursor++
	if e.cursor < len(e.pool) {
		return e.snapshotLocked(), nil
	}

	e.startEvaluationLocked()
	return e.snapshotLocked(), nil
}

func (e *Engine) startEvaluationLocked() {
	e.state = models.StateEvaluating

	// Evaluation outlives whatever request submitted the last answer, so it
	// hangs off a fresh context that only Reset cancels.
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.cancel = cancel
	e.settled = done

	requests := make([]models.EvaluationRequest, len(e.answers))
	for i, a := range e.answers {
		requests[i] = models.EvaluationRequest{
			QuestionContent: a.Question.Content,
			ExampleAnswer:   a.Question.ExampleAnswer,
			UserAnswer:      a.UserAnswer,
		}
	}

	go e.runEvaluation(ctx, cancel, e.generation, requests, done)
}

type evaluationOutcome struct {
	result *models.EvaluationResult
	err    error
}

func (e *Engine) runEvaluation(ctx context.Context, cancel context.CancelFunc, generation uint64, requests []models.EvaluationRequest, done chan struct{}) {
	defer close(done)
	defer cancel()

	started := time.Now()
	e.logger.Info().Uint64("generation", generation).Int("answers", len(requests)).Msg("evaluation fan-out started")

	outcomes := make([]evaluationOutcome, len(requests))

	// Tasks never return an error to the group: every call settles on its
	// own and one failure must not cancel the others.
	var g errgroup.Group
	for i, req := range requests {
		g.Go(func() error {
			callCtx, callCancel := context.WithTimeout(ctx, e.timeout)
			defer callCancel()

			result, err := e.eval.Evaluate(callCtx, req)
			if err == nil && result == nil {
				err = &evaluator.RemoteError{Err: errors.New("evaluator returned no result")}
			}
			outcomes[i] = evaluationOutcome{result: result, err: err}
			return nil
		})
	}
	_ = g.Wait()

	e.applyEvaluations(generation, outcomes, time.Since(started))
}

func (e *Engine) applyEvaluations(generation uint64, outcomes []evaluationOutcome, elapsed time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if generation != e.generation || e.state != models.StateEvaluating {
		e.logger.Info().
			Uint64("generation", generation).
			Uint64("current_generation", e.generation).
			Msg("discarding evaluations for a session that was reset")
		return
	}

	var errs []error
	for i, o := range outcomes {
		if o.err != nil {
			e.answers[i].EvaluationError = o.err.Error()
			errs = append(errs, fmt.Errorf("answer %d: %w", i+1, o.err))
			e.logger.Warn().Err(o.err).Int("answer", i+1).Msg("evaluation failed")
			continue
		}
		e.answers[i].Evaluation = o.result
	}

	summary := Summarize(e.answers)
	e.summary = &summary
	e.sessionErr = errors.Join(errs...)
	e.state = models.StateSummary
	e.cancel = nil

	e.logger.Info().
		Uint64("generation", generation).
		Float64("accuracy", summary.Accuracy).
		Int("evaluated", summary.Evaluated).
		Int("failed", summary.Failed).
		Dur("elapsed", elapsed).
		Msg("quiz summary ready")
}

// Wait blocks until the current evaluation fan-out settles or ctx is done.
// It returns immediately when no fan-out is in flight.
func (e *Engine) Wait(ctx context.Context) (models.SessionSnapshot, error) {
	e.mu.Lock()
	done := e.settled
	e.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return e.Snapshot(), ctx.Err()
		}
	}
	return e.Snapshot(), nil
}

// Reset discards the session and returns to StateSelecting. It is allowed in
// every state; in-flight evaluations are cancelled and their results
// ignored.
func (e *Engine) Reset() models.SessionSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.state != models.StateSelecting {
		e.generation++
	}

	e.state = models.StateSelecting
	e.pool = nil
	e.cursor = 0
	e.answers = nil
	e.summary = nil
	e.sessionErr = nil
	e.settled = nil

	return e.snapshotLocked()
}

// Err returns the last session-level error: a question source failure, or
// the joined evaluation failures of a best-effort summary.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionErr
}

func (e *Engine) State() models.SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Snapshot() models.SessionSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() models.SessionSnapshot {
	snap := models.SessionSnapshot{
		State:      e.state,
		Generation: e.generation,
		PoolSize:   len(e.pool),
		Cursor:     e.cursor,
		Answers:    make([]models.AnswerRecord, len(e.answers)),
	}

	if e.state == models.StateAnswering {
		q := cloneQuestion(e.pool[e.cursor])
		snap.CurrentQuestion = &q
	}
	for i, a := range e.answers {
		snap.Answers[i] = models.AnswerRecord{
			Question:        cloneQuestion(a.Question),
			UserAnswer:      a.UserAnswer,
			Evaluation:      cloneEvaluation(a.Evaluation),
			EvaluationError: a.EvaluationError,
		}
	}
	if e.summary != nil {
		s := *e.summary
		snap.Summary = &s
	}
	if e.sessionErr != nil {
		snap.Error = e.sessionErr.Error()
	}
	return snap
}

func cloneQuestion(q models.Question) models.Question {
	if q.ID != nil {
		id := *q.ID
		q.ID = &id
	}
	q.Categories = append([]models.Category(nil), q.Categories...)
	return q
}

func cloneEvaluation(r *models.EvaluationResult) *models.EvaluationResult {
	if r == nil {
		return nil
	}
	c := *r
	c.GoodPoints = append([]string{}, r.GoodPoints...)
	c.ImprovementPoints = append([]string{}, r.ImprovementPoints...)
	return &c
}
