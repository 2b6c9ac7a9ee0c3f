package analyzer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		keepPrefixes bool
		want         []string
	}{
		{"simple lowercase", "hello world", false, []string{"hello", "world"}},
		{"camelCase", "theOffice", false, []string{"the", "office"}},
		{"acronym then camelCase", "HTTPRequestManager", false, []string{"http", "request", "manager"}},
		{"correlation prefixes kept", "%%k8s $gke %docker", true, []string{"%%k8s", "$gke", "%docker"}},
		{"correlation prefixes dropped", "%%k8s $gke %docker", false, []string{"k8s", "gke", "docker"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input, tt.keepPrefixes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q, %v) = %v, want %v", tt.input, tt.keepPrefixes, got, tt.want)
			}
		})
	}
}

func TestStemIdempotent(t *testing.T) {
	for _, word := range []string{"running", "databases", "connection", "cat"} {
		once := Stem(word)
		twice := Stem(once)
		if once != twice {
			t.Errorf("Stem(%q) = %q, but Stem(Stem(%q)) = %q", word, once, word, twice)
		}
	}
}

func TestProcessTokenStopWord(t *testing.T) {
	a := New()
	_, _, ok := a.ProcessToken("the")
	if ok {
		t.Error("expected 'the' to be dropped as a stop word")
	}
}

func TestProcessTokenStemsPlainTokens(t *testing.T) {
	a := New()
	stored, hint, ok := a.ProcessToken("databases")
	if !ok {
		t.Fatal("expected plain token to be kept")
	}
	if hint != nil {
		t.Errorf("expected no correlation hint for a plain token, got %+v", hint)
	}
	if stored != Stem("databases") {
		t.Errorf("stored = %q, want stemmed form %q", stored, Stem("databases"))
	}
}

func TestProcessTokenCorrelationPrefix(t *testing.T) {
	a := New()
	stored, hint, ok := a.ProcessToken("%%k8s")
	if !ok {
		t.Fatal("expected prefixed token to be kept")
	}
	if stored != "%%k8s" {
		t.Errorf("stored = %q, want verbatim %q", stored, "%%k8s")
	}
	if hint == nil {
		t.Fatal("expected a correlation hint")
	}
	if hint.Word != "k8s" || hint.Synonym != "%%k8s" || hint.Closeness != 0.9 {
		t.Errorf("hint = %+v, want {k8s %%%%k8s 0.9}", hint)
	}
}

func TestProcessTokenDollarAndPercentPrefix(t *testing.T) {
	a := New()
	for _, raw := range []string{"$gke", "%docker"} {
		stored, hint, ok := a.ProcessToken(raw)
		if !ok {
			t.Fatalf("expected %q to be kept", raw)
		}
		if stored != raw {
			t.Errorf("stored = %q, want verbatim %q", stored, raw)
		}
		if hint == nil || hint.Closeness != 0.9 {
			t.Errorf("hint for %q = %+v, want closeness 0.9", raw, hint)
		}
	}
}

func TestIsStopWord(t *testing.T) {
	a := New()
	if !a.IsStopWord("the") {
		t.Error("expected 'the' to be a stop word")
	}
	if a.IsStopWord("kubernetes") {
		t.Error("did not expect 'kubernetes' to be a stop word")
	}
}
