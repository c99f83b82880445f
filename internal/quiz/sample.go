package quiz

import (
	"math/rand"

	"github.com/interview-prep/backend/internal/models"
)

// PoolSize is the maximum number of questions in one quiz session.
const PoolSize = 5

// FilterByCategories keeps the questions tagged with at least one of the
// selected categories. An empty selection means no filter: every question
// is a candidate.
func FilterByCategories(questions []models.Question, categoryIDs []int64) []models.Question {
	if len(categoryIDs) == 0 {
		return append([]models.Question(nil), questions...)
	}

	selected := make(map[int64]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		selected[id] = true
	}

	var out []models.Question
	for _, q := range questions {
		if q.HasAnyCategory(selected) {
			out = append(out, q)
		}
	}
	return out
}

// Sample draws min(n, len(candidates)) questions without replacement using
// a partial Fisher–Yates shuffle over a copy. The draw order is the
// presentation order.
func Sample(rng *rand.Rand, candidates []models.Question, n int) []models.Question {
	k := n
	if k > len(candidates) {
		k = len(candidates)
	}
	if k <= 0 {
		return []models.Question{}
	}

	shuffled := append([]models.Question(nil), candidates...)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:k:k]
}
