package session

import (
	"sort"

	"github.com/abhisek/studyquiz/internal/quiz"
)

// CategoryResult tracks per-category stats for the results screen.
type CategoryResult struct {
	Category  string
	Attempted int
	Correct   int
}

// Accuracy returns the correct fraction in [0, 1].
func (c CategoryResult) Accuracy() float64 {
	if c.Attempted == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Attempted)
}

// Summary holds the data displayed once a run is over.
type Summary struct {
	QuizID          string
	Mode            quiz.Mode
	Total           int
	Answered        int
	Correct         int
	TimedOut        int
	AverageResponse float64
	Categories      []CategoryResult
}

// BuildSummary derives a Summary from a state snapshot. Only questions
// that have been answered are counted.
func BuildSummary(st State) Summary {
	sum := Summary{
		QuizID:   st.QuizID,
		Mode:     st.Mode,
		Total:    len(st.Questions),
		Answered: len(st.ResponseTimes),
		Correct:  st.Score,
	}
	if n := len(st.ResponseTimes); n > 0 {
		var total float64
		for _, rt := range st.ResponseTimes {
			total += rt
		}
		sum.AverageResponse = total / float64(n)
	}

	pendingWrong := make(map[string]int, len(st.WrongAnswers))
	for _, w := range st.WrongAnswers {
		pendingWrong[w.QuestionText]++
		if w.TimedOut() {
			sum.TimedOut++
		}
	}

	byCategory := make(map[string]*CategoryResult)
	for i := 0; i < sum.Answered && i < len(st.Questions); i++ {
		q := st.Questions[i]
		cat := q.Category
		if cat == "" {
			cat = "general"
		}
		cr, ok := byCategory[cat]
		if !ok {
			cr = &CategoryResult{Category: cat}
			byCategory[cat] = cr
		}
		cr.Attempted++
		if pendingWrong[q.Prompt] > 0 {
			pendingWrong[q.Prompt]--
			continue
		}
		cr.Correct++
	}
	for _, cr := range byCategory {
		sum.Categories = append(sum.Categories, *cr)
	}
	sort.Slice(sum.Categories, func(i, j int) bool {
		return sum.Categories[i].Category < sum.Categories[j].Category
	})
	return sum
}

// Weakest returns up to n categories with the lowest accuracy.
func (s Summary) Weakest(n int) []CategoryResult {
	cats := append([]CategoryResult(nil), s.Categories...)
	sort.SliceStable(cats, func(i, j int) bool {
		return cats[i].Accuracy() < cats[j].Accuracy()
	})
	var out []CategoryResult
	for _, c := range cats {
		if len(out) == n || c.Correct == c.Attempted {
			break
		}
		out = append(out, c)
	}
	return out
}
