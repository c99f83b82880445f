package models

type SessionState string

const (
	StateSelecting  SessionState = "selecting"
	StateAnswering  SessionState = "answering"
	StateEvaluating SessionState = "evaluating"
	StateSummary    SessionState = "summary"
	// StateEmpty is terminal: the category filter matched no questions.
	StateEmpty SessionState = "empty"
)

// AnswerRecord pairs a pooled question with what the user typed. Evaluation
// is attached once scoring succeeds; EvaluationError is set instead when the
// scorer failed for this record.
type AnswerRecord struct {
	Question        Question          `json:"question"`
	UserAnswer      string            `json:"userAnswer"`
	Evaluation      *EvaluationResult `json:"evaluation,omitempty"`
	EvaluationError string            `json:"evaluationError,omitempty"`
}

type Summary struct {
	Accuracy  float64 `json:"accuracy"`
	Answered  int     `json:"answered"`
	Evaluated int     `json:"evaluated"`
	Failed    int     `json:"failed"`
}

// SessionSnapshot is a point-in-time copy of a quiz session. Nothing in it
// aliases engine state.
type SessionSnapshot struct {
	ID              string         `json:"id,omitempty"`
	State           SessionState   `json:"state"`
	Generation      uint64         `json:"generation"`
	PoolSize        int            `json:"poolSize"`
	Cursor          int            `json:"cursor"`
	CurrentQuestion *Question      `json:"currentQuestion,omitempty"`
	Answers         []AnswerRecord `json:"answers"`
	Summary         *Summary       `json:"summary,omitempty"`
	Error           string         `json:"error,omitempty"`
}

type StartSessionRequest struct {
	CategoryIDs []int64 `json:"categoryIds"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}
