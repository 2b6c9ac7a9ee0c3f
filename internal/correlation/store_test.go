package correlation

import "testing"

func TestCollectCorrelationsSeedsQueryTerms(t *testing.T) {
	s := New()
	weights := s.CollectCorrelations([]string{"k8s"})
	if weights["k8"] != 1.0 { // Stem("k8s") == "k8"
		t.Errorf("expected stemmed query term at weight 1.0, got %v (weights=%v)", weights["k8"], weights)
	}
}

func TestCollectCorrelationsSingleTokenProbe(t *testing.T) {
	s := New()
	s.CorrelateWord("k8s", "hopping", 0.9)

	weights := s.CollectCorrelations([]string{"k8s"})
	if weights["hop"] != 0.9 {
		t.Errorf("expected correlated synonym at weight 0.9, got %v (weights=%v)", weights["hop"], weights)
	}
}

func TestCollectCorrelationsBigramProbe(t *testing.T) {
	s := New()
	s.CorrelateWord("k8s xyz", "falling", 0.8)

	weights := s.CollectCorrelations([]string{"k8s", "xyz"})
	if weights["fall"] != 0.8 {
		t.Errorf("expected bigram-derived synonym, got weights=%v", weights)
	}
}

func TestCollectCorrelationsMaxWeightWins(t *testing.T) {
	s := New()
	s.CorrelateWord("k8s", "hopping", 0.5)
	s.CorrelateWord("k8s", "hopping", 0.95)

	weights := s.CollectCorrelations([]string{"k8s"})
	if weights["hop"] != 0.95 {
		t.Errorf("expected the higher of two conflicting weights to win, got %v", weights["hop"])
	}
}

func TestCollectCorrelationsTransitiveSingleHop(t *testing.T) {
	s := New()
	s.CorrelateWord("k8s", "hopping", 0.9)
	s.CorrelateWord("hopping", "falling", 0.7)

	weights := s.CollectCorrelations([]string{"k8s"})
	if _, ok := weights["fall"]; !ok {
		t.Errorf("expected a single-hop transitive correlation to be folded in, got weights=%v", weights)
	}
}
