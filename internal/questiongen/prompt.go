package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a teacher writing multiple-choice revision questions for a student.

Rules:
- Base every question strictly on the provided material or learning outcomes. Do not invent facts.
- Each question has exactly one correct answer and three distractors.
- Distractors must be plausible and reflect common misconceptions, never jokes or "all of the above".
- Keep answers short: a word, a number, or a brief phrase.
- Vary difficulty across the batch and label each question easy, medium or hard for the given grade.
- The category is a short topic label for the concept being tested.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage constructs the user message from Input and Config limits.
func buildUserMessage(input Input, count int, cfg Config) string {
	var b strings.Builder

	if input.Title != "" {
		fmt.Fprintf(&b, "Material: %s\n", input.Title)
	}
	if input.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", input.Subject)
	}
	if input.Grade != "" {
		fmt.Fprintf(&b, "Grade: %s\n", input.Grade)
	}
	fmt.Fprintf(&b, "Number of questions: %d\n", count)

	if len(input.Outcomes) > 0 {
		b.WriteString("\nLearning outcomes to assess:\n")
		b.WriteString(numbered(input.Outcomes, 0))
		b.WriteString("\n")
	}

	if input.Document != nil {
		fmt.Fprintf(&b, "\nThe attached document %q is the source material.\n", input.Document.Name)
	}

	if text := strings.TrimSpace(input.Text); text != "" {
		if cfg.MaxTextChars > 0 && len(text) > cfg.MaxTextChars {
			text = text[:cfg.MaxTextChars]
		}
		b.WriteString("\nSource material:\n")
		b.WriteString(text)
		b.WriteString("\n")
	}

	b.WriteString("\nAlready asked:\n")
	b.WriteString(numbered(input.Avoid, cfg.MaxAvoid))

	return b.String()
}

// numbered formats a list for the prompt, keeping only the last max entries.
// Returns "None" for an empty list.
func numbered(items []string, max int) string {
	if len(items) == 0 {
		return "None"
	}
	if max > 0 && len(items) > max {
		items = items[len(items)-max:]
	}
	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it)
	}
	return strings.TrimRight(b.String(), "\n")
}
