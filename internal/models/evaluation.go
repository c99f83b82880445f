package models

const (
	MinAccuracy = 0
	MaxAccuracy = 100
)

type EvaluationRequest struct {
	QuestionContent string `json:"questionContent"`
	ExampleAnswer   string `json:"exampleAnswer"`
	UserAnswer      string `json:"userAnswer"`
}

type EvaluationResult struct {
	Accuracy          float64  `json:"accuracy"`
	Feedback          string   `json:"feedback"`
	GoodPoints        []string `json:"goodPoints"`
	ImprovementPoints []string `json:"improvementPoints"`
	DetailedAdvice    string   `json:"detailedAdvice"`
}
