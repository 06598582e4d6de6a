package ranker

import "math"

// IDFTable holds one weight per indexed term. It is built once and only read
// afterwards.
type IDFTable struct {
	weights map[string]float64
}

// NewIDFTable computes ln((N - df + 0.5)/(df + 0.5) + 1) for every term.
// The weight is positive whenever df <= N.
func NewIDFTable(totalDocs int, docFreq map[string]int) IDFTable {
	weights := make(map[string]float64, len(docFreq))
	for term, df := range docFreq {
		weights[term] = computeIDF(int64(totalDocs), int64(df))
	}
	return IDFTable{weights: weights}
}

// Weight returns the IDF of term. ok is false when the term never occurred
// in the corpus, which callers treat as a zero contribution.
func (t IDFTable) Weight(term string) (weight float64, ok bool) {
	weight, ok = t.weights[term]
	return weight, ok
}

func (t IDFTable) Len() int { return len(t.weights) }

func computeIDF(totalDocs int64, docFreq int64) float64 {
	numerator := float64(totalDocs) - float64(docFreq) + 0.5
	denominator := float64(docFreq) + 0.5
	return math.Log(numerator/denominator + 1)
}
