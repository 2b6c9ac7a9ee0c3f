// Package scorer implements the Dirichlet+ relevance model and the
// phrase-position check. It operates on plain inputs rather than index
// types to keep the scoring arithmetic independently testable and free
// of any dependency on the index package.
package scorer

import "math"

// Mu and Delta are the Dirichlet+ smoothing constants.
const (
	Mu    = 2000.0
	Delta = 0.05

	// minFieldTokens is the floor applied to a field's TotalTokensSeen
	// before it is used as termProb's denominator.
	minFieldTokens = 500
)

// FieldTermInput bundles everything the per-term-per-field Dirichlet+
// score needs for one (document, term, field) triple.
type FieldTermInput struct {
	// TermWeight is the correlation weight for this term (or 0.1 if the
	// term carries no correlation weight), already multiplied by 1.5 if
	// the term is mandatory.
	TermWeight float64

	// TFInDoc is DocumentEntry.TermFrequencies[term] for this field.
	TFInDoc int

	// TimesAppeared is TermEntry.TimesAppeared[(propertyName, field)].
	TimesAppeared int

	// FieldTotalTokensSeen is Field.TotalTokensSeen.
	FieldTotalTokensSeen int

	// DocLen is DocumentEntry.Len for this field.
	DocLen int

	// QueryLen is the number of original (pre-correlation) query terms.
	QueryLen int

	FieldWeight       float64
	FieldLengthWeight float64
	DocumentWeight    float64
}

// TermProbability computes TimesAppeared / max(FieldTotalTokensSeen, 500).
func (in FieldTermInput) TermProbability() float64 {
	denom := float64(in.FieldTotalTokensSeen)
	if denom < minFieldTokens {
		denom = minFieldTokens
	}
	return float64(in.TimesAppeared) / denom
}

// DirichletPlusFieldScore computes one per-field contribution to a
// document's relevance score for a single term. A zero term probability
// (the term never registered in this property/field pair) contributes 0.
func DirichletPlusFieldScore(in FieldTermInput) float64 {
	termProb := in.TermProbability()
	if termProb == 0 {
		return 0
	}

	tf := float64(in.TFInDoc)
	docLen := float64(in.DocLen)
	queryLen := float64(in.QueryLen)

	termScore := in.TermWeight * (
		log2(1+tf/(Mu*termProb)) +
			log2(1+Delta/(Mu*termProb)) +
			queryLen*log2(Mu/(docLen+Mu)))

	return termScore * in.FieldWeight * in.FieldLengthWeight * in.DocumentWeight
}

func log2(x float64) float64 {
	return math.Log2(x)
}
