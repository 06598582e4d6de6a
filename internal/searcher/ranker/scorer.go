package ranker

import (
	"fmt"
	"math"

	apperrors "github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/errors"
)

const (
	DefaultK1 = 1.5
	DefaultB  = 0.75
)

// Params are the BM25 free parameters: K1 controls term-frequency
// saturation, B controls document-length normalisation.
type Params struct {
	K1 float64 `json:"k1" yaml:"k1"`
	B  float64 `json:"b" yaml:"b"`
}

func DefaultParams() Params {
	return Params{K1: DefaultK1, B: DefaultB}
}

// Validate requires K1 > 0 and B >= 0, both finite.
func (p Params) Validate() error {
	if math.IsNaN(p.K1) || math.IsInf(p.K1, 0) || p.K1 <= 0 {
		return apperrors.Validation(apperrors.ErrInvalidParameters, "k1 must be a finite value > 0, got %v", p.K1)
	}
	if math.IsNaN(p.B) || math.IsInf(p.B, 0) || p.B < 0 {
		return apperrors.Validation(apperrors.ErrInvalidParameters, "b must be a finite value >= 0, got %v", p.B)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("k1=%g b=%g", p.K1, p.B)
}

// Corpus is the read-only view of the index the scorer needs.
type Corpus interface {
	DocCount() int
	DocLength(doc int) int
	TermFrequency(doc int, term string) int
	AvgDocLength() float64
}

// Scorer computes BM25 scores against a fixed corpus and IDF table.
type Scorer struct {
	corpus Corpus
	idf    IDFTable
	params Params
}

func NewScorer(corpus Corpus, idf IDFTable, params Params) *Scorer {
	return &Scorer{corpus: corpus, idf: idf, params: params}
}

func (s *Scorer) Params() Params { return s.params }

// TermScore is the BM25 contribution of one term to one document. Unknown
// terms, a zero IDF and a zero term frequency all contribute exactly 0.
func (s *Scorer) TermScore(doc int, term string) float64 {
	idf, ok := s.idf.Weight(term)
	if !ok || idf == 0 {
		return 0
	}
	tf := s.corpus.TermFrequency(doc, term)
	if tf == 0 {
		return 0
	}
	return s.termScore(idf, float64(tf), float64(s.corpus.DocLength(doc)))
}

// DocumentScore sums TermScore over terms, counting each distinct term once.
func (s *Scorer) DocumentScore(doc int, terms []string) float64 {
	return s.documentScore(doc, distinct(terms))
}

func (s *Scorer) documentScore(doc int, unique []string) float64 {
	var total float64
	for _, term := range unique {
		total += s.TermScore(doc, term)
	}
	return total
}

func (s *Scorer) termScore(idf, termFreq, docLength float64) float64 {
	k1, b := s.params.K1, s.params.B
	numerator := idf * termFreq * (k1 + 1)
	denominator := termFreq + k1*(1-b+b*lengthRatio(docLength, s.corpus.AvgDocLength()))
	return numerator / denominator
}

func lengthRatio(docLength, avgDocLength float64) float64 {
	if avgDocLength == 0 {
		return 0
	}
	return docLength / avgDocLength
}

func distinct(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
