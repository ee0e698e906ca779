//go:build cucumber

package play

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/abhisek/studyquiz/internal/deck"
	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/llm"
	"github.com/abhisek/studyquiz/internal/questiongen"
	"github.com/abhisek/studyquiz/internal/questionset"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/session"
	"github.com/abhisek/studyquiz/internal/timer"
)

// TestQuizSessionScenarios runs the quiz session feature scenarios.
func TestQuizSessionScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "quiz-session",
		ScenarioInitializer: InitializeQuizScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("..", "..", "features", "quiz_session.feature")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeQuizScenario wires the quiz session steps.
func InitializeQuizScenario(ctx *godog.ScenarioContext) {
	state := &quizScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a deck "([^"]+)" with (\d+) questions$`, state.givenDeck)
	ctx.Step(`^I start it in "([^"]+)" mode$`, state.givenStarted)
	ctx.Step(`^I answer question (\d+) (correctly|incorrectly)$`, state.whenAnswer)
	ctx.Step(`^I answer question (\d+) correctly after (\d+) seconds$`, state.whenAnswerAfter)
	ctx.Step(`^(\d+) seconds pass without an answer$`, state.whenTimeRunsOut)
	ctx.Step(`^I answer (\d+) of the questions correctly$`, state.whenAnswerMany)
	ctx.Step(`^I finish the quiz$`, state.whenFinish)
	ctx.Step(`^I retake the quiz$`, state.whenRetake)
	ctx.Step(`^the model returns 4 questions, one with an empty answer$`, state.givenModelBatch)
	ctx.Step(`^I generate a set from the outcomes "([^"]+)"$`, state.whenGenerate)

	ctx.Step(`^the score is (\d+)$`, state.thenScore)
	ctx.Step(`^there is (\d+) wrong answers?$`, state.thenWrongAnswers)
	ctx.Step(`^the saved attempt scores (\d+) percent$`, state.thenPercentage)
	ctx.Step(`^(\d+) response times are recorded$`, state.thenResponseTimes)
	ctx.Step(`^the wrong answer for question (\d+) is a timeout$`, state.thenTimeout)
	ctx.Step(`^the timer cannot expire again$`, state.thenNoSecondExpiry)
	ctx.Step(`^the set has (\d+) questions$`, state.thenSetSize)
	ctx.Step(`^the attempt percentages are (\d+) then (\d+)$`, state.thenPercentages)
	ctx.Step(`^the improvement is "([^"]+)"$`, state.thenImprovement)
}

// quizScenarioState holds one scenario's controller, clock and results.
type quizScenarioState struct {
	ctx     context.Context
	clock   *testClock
	ledger  *history.MemoryLedger
	ctrl    *Controller
	set     quiz.Set
	result  Result
	lastKey timer.Key
	mock    *llm.MockProvider
	built   quiz.Set
}

func (s *quizScenarioState) reset() {
	s.ctx = context.Background()
	s.clock = &testClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	s.ledger = history.NewMemoryLedger()
	store := session.NewStore(s.ledger, session.WithClock(s.clock.Now))
	s.ctrl = NewController(store, WithCountdown(timer.New(s.clock.Now)))
	s.set = quiz.Set{}
	s.result = Result{}
	s.lastKey = 0
	s.mock = nil
	s.built = quiz.Set{}
}

// givenDeck builds a deck whose i-th question has the answer "right-i".
func (s *quizScenarioState) givenDeck(id string, n int) error {
	s.set = quiz.Set{ID: id, Title: id}
	for i := 1; i <= n; i++ {
		s.set.Questions = append(s.set.Questions, quiz.Question{
			ID:            fmt.Sprintf("%s-%d", id, i),
			Category:      "general",
			Difficulty:    quiz.DifficultyEasy,
			Prompt:        fmt.Sprintf("Question %d?", i),
			CorrectAnswer: fmt.Sprintf("right-%d", i),
			Options:       []string{fmt.Sprintf("right-%d", i), fmt.Sprintf("wrong-%d", i)},
		})
	}
	return nil
}

func (s *quizScenarioState) givenStarted(mode string) error {
	m, err := quiz.ParseMode(mode)
	if err != nil {
		return err
	}
	return s.ctrl.Start(s.ctx, s.set, m)
}

func (s *quizScenarioState) answer(n int, correct bool) error {
	card := s.ctrl.Card()
	if card.Position != n {
		return fmt.Errorf("on question %d, expected %d", card.Position, n)
	}
	choice := fmt.Sprintf("wrong-%d", n)
	if correct {
		choice = fmt.Sprintf("right-%d", n)
	}
	out, err := s.ctrl.Select(choice)
	if err != nil {
		return err
	}
	if out.Correct != correct {
		return fmt.Errorf("question %d: correct = %v", n, out.Correct)
	}
	_, err = s.ctrl.Advance()
	return err
}

func (s *quizScenarioState) whenAnswer(n int, how string) error {
	return s.answer(n, how == "correctly")
}

func (s *quizScenarioState) whenAnswerAfter(n, seconds int) error {
	s.clock.Advance(time.Duration(seconds) * time.Second)
	return s.answer(n, true)
}

func (s *quizScenarioState) whenTimeRunsOut(seconds int) error {
	s.lastKey = s.ctrl.TimerKey()
	s.clock.Advance(time.Duration(seconds) * time.Second)
	out, forfeited, err := s.ctrl.Tick(s.lastKey)
	if err != nil {
		return err
	}
	if !forfeited || !out.TimedOut {
		return fmt.Errorf("expected the question to be forfeited, got %+v", out)
	}
	_, err = s.ctrl.Advance()
	return err
}

func (s *quizScenarioState) whenAnswerMany(correct int) error {
	for i := 1; i <= len(s.set.Questions); i++ {
		if err := s.answer(i, i <= correct); err != nil {
			return err
		}
	}
	return nil
}

func (s *quizScenarioState) whenFinish() error {
	res, err := s.ctrl.Finish(s.ctx)
	if err != nil {
		return err
	}
	s.result = res
	return nil
}

func (s *quizScenarioState) whenRetake() error {
	return s.ctrl.Retake()
}

func (s *quizScenarioState) givenModelBatch() error {
	s.mock = llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions": [
		{"question": "What is the powerhouse of the cell?", "answer": "Mitochondria",
		 "distractors": ["Ribosome", "Nucleus", "Vacuole"], "difficulty": "easy", "category": "Cells"},
		{"question": "Which gas do plants absorb?", "answer": "",
		 "distractors": ["Oxygen", "Nitrogen", "Helium"], "difficulty": "easy", "category": "Plants"},
		{"question": "What controls what enters a cell?", "answer": "Cell membrane",
		 "distractors": ["Cell wall", "Cytoplasm"], "difficulty": "medium", "category": "Cells"},
		{"question": "Where does photosynthesis happen?", "answer": "Chloroplast",
		 "distractors": ["Mitochondria", "Nucleus"], "difficulty": "easy", "category": "Plants"}
	]}`)})
	return nil
}

func (s *quizScenarioState) whenGenerate(list string) error {
	var outcomes []string
	for _, o := range strings.Split(list, ";") {
		outcomes = append(outcomes, strings.TrimSpace(o))
	}
	cfg := questiongen.DefaultConfig()
	cfg.Shuffler = quiz.NewShuffler(7)
	p := questionset.NewProvider(deck.NewStaticLoader(),
		questionset.WithGenerator(questiongen.New(s.mock, cfg)),
		questionset.WithShuffler(quiz.NewShuffler(7)),
	)
	set, err := p.Load(s.ctx, questionset.OutcomesSource{Outcomes: outcomes, Count: 4})
	if err != nil {
		return err
	}
	s.built = set
	return nil
}

func (s *quizScenarioState) thenScore(want int) error {
	if got := s.result.Attempt.Score; got != want {
		return fmt.Errorf("score = %d, want %d", got, want)
	}
	return nil
}

func (s *quizScenarioState) thenWrongAnswers(want int) error {
	if got := len(s.result.Attempt.WrongAnswers); got != want {
		return fmt.Errorf("wrong answers = %d, want %d", got, want)
	}
	return nil
}

func (s *quizScenarioState) thenPercentage(want int) error {
	if got := s.result.Attempt.Percentage; got != want {
		return fmt.Errorf("percentage = %d, want %d", got, want)
	}
	return nil
}

func (s *quizScenarioState) thenResponseTimes(want int) error {
	if got := len(s.ctrl.Store().Snapshot().ResponseTimes); got != want {
		return fmt.Errorf("response times = %d, want %d", got, want)
	}
	return nil
}

func (s *quizScenarioState) thenTimeout(n int) error {
	prompt := s.set.Questions[n-1].Prompt
	for _, w := range s.ctrl.Store().Snapshot().WrongAnswers {
		if w.QuestionText == prompt {
			if !w.TimedOut() {
				return fmt.Errorf("question %d answered %q, want a timeout", n, w.UserAnswer)
			}
			return nil
		}
	}
	return fmt.Errorf("no wrong answer recorded for question %d", n)
}

func (s *quizScenarioState) thenNoSecondExpiry() error {
	if _, forfeited, _ := s.ctrl.Tick(s.lastKey); forfeited {
		return fmt.Errorf("expiry applied twice")
	}
	return nil
}

func (s *quizScenarioState) thenSetSize(want int) error {
	if got := len(s.built.Questions); got != want {
		return fmt.Errorf("set has %d questions, want %d", got, want)
	}
	return nil
}

func (s *quizScenarioState) thenPercentages(first, second int) error {
	attempts, err := s.ledger.Attempts(s.ctx, s.set.ID)
	if err != nil {
		return err
	}
	if len(attempts) != 2 || attempts[0].Percentage != first || attempts[1].Percentage != second {
		return fmt.Errorf("attempts = %+v", attempts)
	}
	return nil
}

func (s *quizScenarioState) thenImprovement(want string) error {
	if !s.result.Comparison.HasDelta {
		return fmt.Errorf("no previous attempt to compare against")
	}
	if got := history.FormatDelta(s.result.Comparison.Delta); got != want {
		return fmt.Errorf("improvement = %s, want %s", got, want)
	}
	return nil
}
