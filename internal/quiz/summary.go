package quiz

import "github.com/interview-prep/backend/internal/models"

// AverageAccuracy is the session score. A record whose evaluation failed
// counts as 0 and the divisor is the number of answers, not the number of
// successful evaluations, so an evaluator outage lowers the score exactly
// like a wrong answer would.
//
// Whether failed evaluations should leave the divisor is an open product
// question. Keep this policy until it is answered.
func AverageAccuracy(records []models.AnswerRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		if r.Evaluation != nil {
			sum += r.Evaluation.Accuracy
		}
	}
	return sum / float64(len(records))
}

func Summarize(records []models.AnswerRecord) models.Summary {
	s := models.Summary{
		Accuracy: AverageAccuracy(records),
		Answered: len(records),
	}
	for _, r := range records {
		if r.Evaluation != nil {
			s.Evaluated++
		} else {
			s.Failed++
		}
	}
	return s
}
