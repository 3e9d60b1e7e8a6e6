package tones

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/benvon/thai-toolkit/internal/models"
	"github.com/benvon/thai-toolkit/internal/services/ai"
)

type mockGenerator struct {
	result ai.Result[models.ToneSetList]
	err    error
	calls  int
}

func (m *mockGenerator) GenerateToneSets(_ context.Context, _ int, _ []string) (ai.Result[models.ToneSetList], error) {
	m.calls++
	return m.result, m.err
}

func toneSet(base string, words int) models.ToneSet {
	set := models.ToneSet{BaseSound: base}
	for range words {
		set.Words = append(set.Words, models.ToneWord{Thai: base, Tone: models.ToneMid})
	}
	return set
}

func baseSounds(sets []models.ToneSet) map[string]bool {
	out := make(map[string]bool, len(sets))
	for _, s := range sets {
		out[s.BaseSound] = true
	}
	return out
}

func newTestService(gen Generator) *Service {
	return NewService(gen, nil).WithRand(rand.New(rand.NewPCG(1, 2)))
}

func TestLibrary(t *testing.T) {
	t.Parallel()
	lib := Library()
	if len(lib) != 10 {
		t.Fatalf("library has %d sets, want 10", len(lib))
	}
	for _, set := range lib {
		if len(set.Words) < 2 {
			t.Errorf("set %q has %d words", set.BaseSound, len(set.Words))
		}
		for _, w := range set.Words {
			if w.ToneExplanation == "" {
				t.Errorf("word %q has no tone explanation", w.Thai)
			}
		}
	}
	lib[0].Words[0].Thai = "changed"
	if Library()[0].Words[0].Thai == "changed" {
		t.Error("Library() returned shared backing storage")
	}
}

func TestSelect_PrefersLibrary(t *testing.T) {
	t.Parallel()
	gen := &mockGenerator{err: errors.New("must not be called")}
	s := newTestService(gen)

	sel := s.Select(context.Background(), 5, []string{"mai", "khao"})
	if sel.Source != SourceLibrary {
		t.Errorf("source = %s, want library", sel.Source)
	}
	if len(sel.Sets) != 5 {
		t.Errorf("got %d sets, want 5", len(sel.Sets))
	}
	got := baseSounds(sel.Sets)
	if got["mai"] || got["khao"] {
		t.Errorf("used sets returned: %v", got)
	}
	if len(got) != 5 {
		t.Errorf("duplicate sets returned: %v", got)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times, want 0", gen.calls)
	}
}

func TestSelect_DefaultCount(t *testing.T) {
	t.Parallel()
	sel := newTestService(nil).Select(context.Background(), 0, nil)
	if len(sel.Sets) != DefaultCount {
		t.Errorf("got %d sets, want %d", len(sel.Sets), DefaultCount)
	}
}

func TestSelect_GeneratesWhenLibraryShort(t *testing.T) {
	t.Parallel()
	used := []string{"mai", "khao", "ma", "kao", "naa", "suai", "klai"}
	gen := &mockGenerator{result: ai.Parsed(models.ToneSetList{Sets: []models.ToneSet{
		toneSet("sao", 3),
		toneSet("", 3),    // no base sound
		toneSet("kai", 1), // too few words
		toneSet("mai", 4), // already used
		toneSet("suea", 2),
	}})}
	s := newTestService(gen)

	sel := s.Select(context.Background(), 5, used)
	if sel.Source != SourceGenerated {
		t.Fatalf("source = %s, want generated", sel.Source)
	}
	got := baseSounds(sel.Sets)
	if len(sel.Sets) != 2 || !got["sao"] || !got["suea"] {
		t.Errorf("sets = %v, want sao and suea", got)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
}

func TestSelect_TruncatesGenerated(t *testing.T) {
	t.Parallel()
	used := []string{"mai", "khao", "ma", "kao", "naa", "suai", "klai", "sii", "paa", "phan"}
	gen := &mockGenerator{result: ai.Parsed(models.ToneSetList{Sets: []models.ToneSet{
		toneSet("a", 2), toneSet("b", 2), toneSet("c", 2),
	}})}
	sel := newTestService(gen).Select(context.Background(), 2, used)
	if len(sel.Sets) != 2 {
		t.Errorf("got %d sets, want 2", len(sel.Sets))
	}
}

func TestSelect_FallsBackToLibrary(t *testing.T) {
	t.Parallel()
	used := []string{"mai", "khao", "ma", "kao", "naa", "suai", "klai", "sii"}

	tests := []struct {
		name string
		gen  Generator
	}{
		{"no generator", nil},
		{"transport failure", &mockGenerator{err: errors.New("timeout")}},
		{"malformed completion", &mockGenerator{result: ai.Malformed[models.ToneSetList]("oops", "no JSON object")}},
		{"nothing usable", &mockGenerator{result: ai.Parsed(models.ToneSetList{Sets: []models.ToneSet{toneSet("mai", 3)}})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sel := newTestService(tt.gen).Select(context.Background(), 5, used)
			if sel.Source != SourceFallback {
				t.Errorf("source = %s, want fallback", sel.Source)
			}
			got := baseSounds(sel.Sets)
			if len(sel.Sets) != 2 || !got["paa"] || !got["phan"] {
				t.Errorf("sets = %v, want the two remaining library sets", got)
			}
		})
	}
}
