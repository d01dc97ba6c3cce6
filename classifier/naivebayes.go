package classifier

import (
	"math"

	"github.com/happyhackingspace/langid/internal/sparse"
	"github.com/happyhackingspace/langid/model"
)

// scores computes per-class Naive Bayes log-scores into dst:
// dst[c] = prior[c] + sum(count(f) * logP(f|c)) over the live features only.
func scores(dst []float64, m *model.Model, fv *sparse.CountingSet) []float64 {
	copy(dst, m.ClassPrior())

	keys := fv.Keys()
	counts := fv.Counts()
	for c := range dst {
		row := m.Row(c)
		var v float64
		for j, f := range keys {
			v += float64(counts[j]) * row[f]
		}
		dst[c] += v
	}
	return dst
}

// argmax returns the first index holding the maximum score.
func argmax(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

// normalizeConfidence renormalizes the log-score of class c into a
// probability, 1 / sum_j exp(scores[j] - scores[c]), without exponentiating
// the raw log-scores.
func normalizeConfidence(scores []float64, c int) float64 {
	v := scores[c]
	var s float64
	for _, x := range scores {
		s += math.Exp(x - v)
	}
	return 1 / s
}
