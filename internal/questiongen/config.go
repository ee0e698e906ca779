package questiongen

import "github.com/abhisek/studyquiz/internal/quiz"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every raw item; the first failure drops it.
	Validators []Validator

	// Shuffler orders options. Nil uses a crypto-seeded shuffler.
	Shuffler *quiz.Shuffler

	MaxTokens   int
	Temperature float64

	// DefaultCount is used when Input.Count is zero.
	DefaultCount int

	// MaxCount caps Input.Count.
	MaxCount int

	// MaxAvoid caps how many prior prompts are listed in the prompt.
	MaxAvoid int

	// MaxTextChars truncates inline source text.
	MaxTextChars int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&OptionsValidator{},
		},
		MaxTokens:    4096,
		Temperature:  0.7,
		DefaultCount: 10,
		MaxCount:     30,
		MaxAvoid:     20,
		MaxTextChars: 60000,
	}
}
