package coach

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an encouraging study coach. A student just finished a multiple-choice quiz. Give short, specific feedback grounded only in the results below. Never invent questions they did not see.`

// maxWrongListed caps the wrong answers quoted in the prompt.
const maxWrongListed = 10

func buildUserMessage(in Input) string {
	var b strings.Builder

	a := in.Attempt
	if in.Title != "" {
		fmt.Fprintf(&b, "Quiz: %s\n", in.Title)
	}
	fmt.Fprintf(&b, "Mode: %s\n", a.Mode.Label())
	fmt.Fprintf(&b, "Score: %d/%d (%d%%)\n", a.Score, a.TotalQuestions, a.Percentage)
	fmt.Fprintf(&b, "Attempt number: %d\n", a.AttemptNumber)
	if in.Previous != nil {
		fmt.Fprintf(&b, "Previous attempt: %d%%\n", in.Previous.Percentage)
	}
	if avg := a.AverageResponse(); avg > 0 {
		fmt.Fprintf(&b, "Average response time: %.1fs\n", avg)
	}
	if in.Summary.TimedOut > 0 {
		fmt.Fprintf(&b, "Questions that ran out of time: %d\n", in.Summary.TimedOut)
	}

	if len(in.Summary.Categories) > 0 {
		b.WriteString("\nBy topic:\n")
		for _, c := range in.Summary.Categories {
			fmt.Fprintf(&b, "- %s: %d/%d\n", c.Category, c.Correct, c.Attempted)
		}
	}

	b.WriteString("\nWrong answers:\n")
	if len(a.WrongAnswers) == 0 {
		b.WriteString("None\n")
	}
	for i, w := range a.WrongAnswers {
		if i == maxWrongListed {
			fmt.Fprintf(&b, "... and %d more\n", len(a.WrongAnswers)-maxWrongListed)
			break
		}
		user := w.UserAnswer
		if w.TimedOut() {
			user = "(ran out of time)"
		}
		fmt.Fprintf(&b, "- Q: %s | answered: %s | correct: %s\n", w.QuestionText, user, w.CorrectAnswer)
	}

	return b.String()
}
