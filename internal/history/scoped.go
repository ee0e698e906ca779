package history

import (
	"context"
	"strings"
)

// Scoped namespaces every quiz id of a ledger under an owner, so several
// players can share one backing ledger.
func Scoped(l Ledger, owner string) Ledger {
	return &scopedLedger{inner: l, prefix: owner + "/"}
}

type scopedLedger struct {
	inner  Ledger
	prefix string
}

func (s *scopedLedger) Append(ctx context.Context, a Attempt) (Attempt, error) {
	quizID := a.QuizID
	a.QuizID = s.prefix + quizID
	saved, err := s.inner.Append(ctx, a)
	if err != nil {
		return Attempt{}, err
	}
	saved.QuizID = quizID
	return saved, nil
}

func (s *scopedLedger) Attempts(ctx context.Context, quizID string) ([]Attempt, error) {
	attempts, err := s.inner.Attempts(ctx, s.prefix+quizID)
	if err != nil {
		return nil, err
	}
	for i := range attempts {
		attempts[i].QuizID = quizID
	}
	return attempts, nil
}

func (s *scopedLedger) QuizIDs(ctx context.Context) ([]string, error) {
	all, err := s.inner.QuizIDs(ctx)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, id := range all {
		if rest, ok := strings.CutPrefix(id, s.prefix); ok {
			ids = append(ids, rest)
		}
	}
	return ids, nil
}

func (s *scopedLedger) Clear(ctx context.Context, quizID string) error {
	if quizID != "" {
		return s.inner.Clear(ctx, s.prefix+quizID)
	}
	ids, err := s.QuizIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.inner.Clear(ctx, s.prefix+id); err != nil {
			return err
		}
	}
	return nil
}
