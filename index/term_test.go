package index

import "testing"

func TestRegisterFirstOccurrenceCountsOncePerPair(t *testing.T) {
	te := NewTermEntry()
	te.RegisterFirstOccurrence("corpusA", "title", 1)
	te.RegisterFirstOccurrence("corpusA", "title", 2)

	if got := te.AppearanceCount("corpusA", "title"); got != 2 {
		t.Errorf("AppearanceCount = %d, want 2", got)
	}
	if got := te.AppearanceCount("corpusA", "text"); got != 0 {
		t.Errorf("AppearanceCount for an untouched field = %d, want 0", got)
	}
	if len(te.Docs) != 2 {
		t.Errorf("Docs = %v, want 2 entries", te.Docs)
	}
}

func TestAppearanceCountIsPerPropertyAndField(t *testing.T) {
	te := NewTermEntry()
	te.RegisterFirstOccurrence("corpusA", "title", 1)
	te.RegisterFirstOccurrence("corpusB", "title", 2)

	if got := te.AppearanceCount("corpusA", "title"); got != 1 {
		t.Errorf("corpusA/title = %d, want 1", got)
	}
	if got := te.AppearanceCount("corpusB", "title"); got != 1 {
		t.Errorf("corpusB/title = %d, want 1", got)
	}
}

func TestAppendPositionAlwaysRecords(t *testing.T) {
	te := NewTermEntry()
	te.AppendPosition(1, 0)
	te.AppendPosition(1, 5)

	if got := te.Positions[1]; len(got) != 2 || got[0] != 0 || got[1] != 5 {
		t.Errorf("Positions[1] = %v, want [0 5]", got)
	}
}
