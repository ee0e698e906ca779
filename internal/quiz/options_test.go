package quiz

import (
	"reflect"
	"sort"
	"testing"
)

func TestDedupeOptions_CorrectRepeatedInDistractors(t *testing.T) {
	got := DedupeOptions("Paris", []string{"Lyon", "Paris", " Paris ", "Nice", "", "Lyon"})
	want := []string{"Paris", "Lyon", "Nice"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupeOptions = %v, want %v", got, want)
	}
}

func TestBuildOptions_ContainsCorrectExactlyOnce(t *testing.T) {
	sh := NewShuffler(7)
	for i := 0; i < 50; i++ {
		opts, err := BuildOptions("4", []string{"3", "4", "5", "4"}, sh)
		if err != nil {
			t.Fatalf("BuildOptions: %v", err)
		}
		if len(opts) != 3 {
			t.Fatalf("len = %d, want 3 (%v)", len(opts), opts)
		}
		n := 0
		for _, o := range opts {
			if o == "4" {
				n++
			}
		}
		if n != 1 {
			t.Fatalf("correct answer appears %d times in %v", n, opts)
		}
	}
}

func TestBuildOptions_TooFew(t *testing.T) {
	if _, err := BuildOptions("yes", []string{"yes", " yes"}, NewShuffler(1)); err != ErrTooFewOptions {
		t.Errorf("err = %v, want ErrTooFewOptions", err)
	}
	if _, err := BuildOptions("  ", []string{"a", "b"}, NewShuffler(1)); err == nil {
		t.Error("expected error for empty correct answer")
	}
}

func TestShuffler_SeededIsReproducible(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "f"}
	a := NewShuffler(42).Shuffle(in)
	b := NewShuffler(42).Shuffle(in)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed gave %v and %v", a, b)
	}
	if !reflect.DeepEqual(in, []string{"a", "b", "c", "d", "e", "f"}) {
		t.Errorf("input mutated: %v", in)
	}
	sorted := append([]string(nil), a...)
	sort.Strings(sorted)
	if !reflect.DeepEqual(sorted, in) {
		t.Errorf("shuffle is not a permutation: %v", a)
	}
}

func TestShuffler_CorrectPositionVaries(t *testing.T) {
	sh := NewShuffler(3)
	positions := map[int]bool{}
	for i := 0; i < 100; i++ {
		opts, _ := BuildOptions("a", []string{"b", "c", "d"}, sh)
		for p, o := range opts {
			if o == "a" {
				positions[p] = true
			}
		}
	}
	if len(positions) < 4 {
		t.Errorf("correct answer landed in only %d positions", len(positions))
	}
}

func TestDraftBuild(t *testing.T) {
	q, err := Draft{
		ID:          "q1",
		Category:    " geography ",
		Difficulty:  "HARD",
		Prompt:      " Capital of France? ",
		Answer:      "Paris",
		Distractors: []string{"Rome", "Paris"},
	}.Build(NewShuffler(1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if q.Prompt != "Capital of France?" || q.Category != "geography" || q.Difficulty != DifficultyHard {
		t.Errorf("unexpected question: %+v", q)
	}
	if err := q.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	if _, err := (Draft{Prompt: "x", Answer: ""}).Build(NewShuffler(1)); err == nil {
		t.Error("expected error for empty answer")
	}
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"ok", Question{ID: "1", Prompt: "p", CorrectAnswer: "a", Options: []string{"b", "a"}}, false},
		{"missing correct", Question{ID: "1", Prompt: "p", CorrectAnswer: "a", Options: []string{"b", "c"}}, true},
		{"duplicate", Question{ID: "1", Prompt: "p", CorrectAnswer: "a", Options: []string{"a", "a"}}, true},
		{"single option", Question{ID: "1", Prompt: "p", CorrectAnswer: "a", Options: []string{"a"}}, true},
		{"empty prompt", Question{ID: "1", CorrectAnswer: "a", Options: []string{"a", "b"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
