package quiz

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	mrand "math/rand"
	"strings"
	"sync"
)

// MinOptions is the smallest number of distinct options a question may show.
const MinOptions = 2

// ErrTooFewOptions is returned when de-duplication leaves fewer than
// MinOptions distinct values.
var ErrTooFewOptions = errors.New("fewer than two distinct options")

// Shuffler permutes option lists with Fisher-Yates. It is safe for
// concurrent use.
type Shuffler struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewShuffler returns a deterministic shuffler for the given seed.
func NewShuffler(seed int64) *Shuffler {
	return &Shuffler{rng: mrand.New(mrand.NewSource(seed))}
}

// NewRandomShuffler returns a shuffler seeded from crypto/rand.
func NewRandomShuffler() *Shuffler {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("quiz: reading random seed: " + err.Error())
	}
	return NewShuffler(int64(binary.LittleEndian.Uint64(b[:])))
}

// Shuffle returns a shuffled copy of items. The input is left untouched.
func (s *Shuffler) Shuffle(items []string) []string {
	out := append([]string(nil), items...)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(out) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DedupeOptions trims and de-duplicates the correct answer plus the
// distractors, keeping the correct answer first. Blank values are dropped.
func DedupeOptions(correct string, distractors []string) []string {
	seen := make(map[string]bool, len(distractors)+1)
	out := make([]string, 0, len(distractors)+1)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	add(correct)
	for _, d := range distractors {
		add(d)
	}
	return out
}

// BuildOptions de-duplicates and shuffles the candidate answers. The
// correct answer appears exactly once in the result.
func BuildOptions(correct string, distractors []string, sh *Shuffler) ([]string, error) {
	if strings.TrimSpace(correct) == "" {
		return nil, errors.New("empty correct answer")
	}
	opts := DedupeOptions(correct, distractors)
	if len(opts) < MinOptions {
		return nil, ErrTooFewOptions
	}
	return sh.Shuffle(opts), nil
}

// Draft is an unvalidated question as it comes from a deck file or a
// model response.
type Draft struct {
	ID          string
	Category    string
	Difficulty  string
	Prompt      string
	Answer      string
	Distractors []string
}

// Build turns a draft into a Question with shuffled options.
func (d Draft) Build(sh *Shuffler) (Question, error) {
	prompt := strings.TrimSpace(d.Prompt)
	if prompt == "" {
		return Question{}, errors.New("empty prompt")
	}
	correct := strings.TrimSpace(d.Answer)
	opts, err := BuildOptions(correct, d.Distractors, sh)
	if err != nil {
		return Question{}, err
	}
	return Question{
		ID:            d.ID,
		Category:      strings.TrimSpace(d.Category),
		Difficulty:    ParseDifficulty(d.Difficulty),
		Prompt:        prompt,
		CorrectAnswer: correct,
		Options:       opts,
	}, nil
}
