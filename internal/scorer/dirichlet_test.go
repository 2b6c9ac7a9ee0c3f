package scorer

import "testing"

func TestTermProbabilityAppliesFloor(t *testing.T) {
	in := FieldTermInput{TimesAppeared: 10, FieldTotalTokensSeen: 100}
	got := in.TermProbability()
	want := 10.0 / 500.0 // floor kicks in since 100 < 500
	if got != want {
		t.Errorf("TermProbability() = %v, want %v", got, want)
	}
}

func TestTermProbabilityAboveFloor(t *testing.T) {
	in := FieldTermInput{TimesAppeared: 50, FieldTotalTokensSeen: 1000}
	got := in.TermProbability()
	want := 50.0 / 1000.0
	if got != want {
		t.Errorf("TermProbability() = %v, want %v", got, want)
	}
}

func TestDirichletPlusFieldScoreZeroTermProb(t *testing.T) {
	in := FieldTermInput{
		TermWeight:           1.0,
		TimesAppeared:        0,
		FieldTotalTokensSeen: 1000,
		FieldWeight:          1,
		FieldLengthWeight:    1,
		DocumentWeight:       1,
	}
	if got := DirichletPlusFieldScore(in); got != 0 {
		t.Errorf("expected zero contribution when termProb is 0, got %v", got)
	}
}

func TestDirichletPlusFieldScorePositive(t *testing.T) {
	in := FieldTermInput{
		TermWeight:           1.0,
		TFInDoc:               3,
		TimesAppeared:         5,
		FieldTotalTokensSeen:  2000,
		DocLen:                10,
		QueryLen:              1,
		FieldWeight:           1,
		FieldLengthWeight:     1,
		DocumentWeight:        1,
	}
	got := DirichletPlusFieldScore(in)
	if got <= 0 {
		t.Errorf("expected a positive score for a matched term, got %v", got)
	}
}

func TestDirichletPlusFieldScoreScalesWithWeights(t *testing.T) {
	base := FieldTermInput{
		TermWeight:           1.0,
		TFInDoc:               3,
		TimesAppeared:         5,
		FieldTotalTokensSeen:  2000,
		DocLen:                10,
		QueryLen:              1,
		FieldWeight:           1,
		FieldLengthWeight:     1,
		DocumentWeight:        1,
	}
	boosted := base
	boosted.FieldWeight = 10

	baseScore := DirichletPlusFieldScore(base)
	boostedScore := DirichletPlusFieldScore(boosted)
	if boostedScore != baseScore*10 {
		t.Errorf("expected score to scale linearly with field weight: base=%v boosted=%v", baseScore, boostedScore)
	}
}

func TestDirichletPlusFieldScoreMandatoryBoost(t *testing.T) {
	base := FieldTermInput{
		TermWeight:           0.1,
		TFInDoc:               2,
		TimesAppeared:         5,
		FieldTotalTokensSeen:  2000,
		DocLen:                10,
		QueryLen:              1,
		FieldWeight:           1,
		FieldLengthWeight:     1,
		DocumentWeight:        1,
	}
	mandatory := base
	mandatory.TermWeight = base.TermWeight * 1.5

	if DirichletPlusFieldScore(mandatory) <= DirichletPlusFieldScore(base) {
		t.Error("expected the 1.5x mandatory-term weight to strictly increase the score")
	}
}
