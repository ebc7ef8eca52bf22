package fingerprint

import (
	"math"
	"math/bits"
	"sort"

	"github.com/turtacn/DiverseMol/pkg/errors"
)

// SimilarityMetric selects the algorithm used to compare two fingerprints.
type SimilarityMetric string

const (
	MetricTanimoto SimilarityMetric = "tanimoto"
	MetricDice     SimilarityMetric = "dice"
	MetricCosine   SimilarityMetric = "cosine"
)

// IsValid reports whether the metric is supported.
func (m SimilarityMetric) IsValid() bool {
	switch m {
	case MetricTanimoto, MetricDice, MetricCosine:
		return true
	default:
		return false
	}
}

// String returns the metric name.
func (m SimilarityMetric) String() string { return string(m) }

// ParseSimilarityMetric parses a metric name.
func ParseSimilarityMetric(s string) (SimilarityMetric, error) {
	m := SimilarityMetric(s)
	if m.IsValid() {
		return m, nil
	}
	return "", errors.New(errors.CodeValidation, "unsupported similarity metric: "+s)
}

// checkComparable rejects fingerprint pairs of different kind or width.
func checkComparable(a, b *Fingerprint) error {
	if a.Kind != b.Kind || a.NumBits != b.NumBits {
		return errors.New(errors.CodeValidation, "fingerprints must have same kind and dimension")
	}
	return nil
}

// Tanimoto computes the Tanimoto (Jaccard) similarity via byte-level
// popcounts on the packed bit vectors.
func Tanimoto(a, b *Fingerprint) (float64, error) {
	if err := checkComparable(a, b); err != nil {
		return 0, err
	}
	intersection, union := 0, 0
	for i := range a.Bits {
		intersection += bits.OnesCount8(a.Bits[i] & b.Bits[i])
		union += bits.OnesCount8(a.Bits[i] | b.Bits[i])
	}
	if union == 0 {
		return 0, nil
	}
	return float64(intersection) / float64(union), nil
}

// Dice computes the Dice coefficient.
func Dice(a, b *Fingerprint) (float64, error) {
	if err := checkComparable(a, b); err != nil {
		return 0, err
	}
	intersection := 0
	for i := range a.Bits {
		intersection += bits.OnesCount8(a.Bits[i] & b.Bits[i])
	}
	denom := a.NumOnBits + b.NumOnBits
	if denom == 0 {
		return 0, nil
	}
	return 2 * float64(intersection) / float64(denom), nil
}

// Cosine computes the cosine similarity of the bit vectors.
func Cosine(a, b *Fingerprint) (float64, error) {
	if err := checkComparable(a, b); err != nil {
		return 0, err
	}
	intersection := 0
	for i := range a.Bits {
		intersection += bits.OnesCount8(a.Bits[i] & b.Bits[i])
	}
	if a.NumOnBits == 0 || b.NumOnBits == 0 {
		return 0, nil
	}
	return float64(intersection) / math.Sqrt(float64(a.NumOnBits)*float64(b.NumOnBits)), nil
}

// Similarity dispatches on the metric.
func Similarity(a, b *Fingerprint, metric SimilarityMetric) (float64, error) {
	switch metric {
	case MetricTanimoto:
		return Tanimoto(a, b)
	case MetricDice:
		return Dice(a, b)
	case MetricCosine:
		return Cosine(a, b)
	default:
		return 0, errors.New(errors.CodeValidation, "unsupported similarity metric: "+string(metric))
	}
}

// SimilarityResult is a single match from a ranking over candidates.
type SimilarityResult struct {
	Index int     `json:"index"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// RankBySimilarity scores every candidate against the target and returns the
// results sorted best first, tied scores ordered by candidate index.
func RankBySimilarity(target *Fingerprint, candidates []*Fingerprint, names []string, metric SimilarityMetric) ([]SimilarityResult, error) {
	out := make([]SimilarityResult, 0, len(candidates))
	for i, c := range candidates {
		score, err := Similarity(target, c, metric)
		if err != nil {
			return nil, err
		}
		r := SimilarityResult{Index: i, Score: score}
		if i < len(names) {
			r.Name = names[i]
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Index < out[b].Index
	})
	return out, nil
}
