package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryLedger is a process-lifetime Ledger.
type MemoryLedger struct {
	mu       sync.RWMutex
	attempts map[string][]Attempt
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{attempts: make(map[string][]Attempt)}
}

// Append numbers a after the quiz's earlier attempts and stores a copy.
func (m *MemoryLedger) Append(_ context.Context, a Attempt) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a = a.clone()
	a.AttemptNumber = len(m.attempts[a.QuizID]) + 1
	m.attempts[a.QuizID] = append(m.attempts[a.QuizID], a)
	return a.clone(), nil
}

// Attempts returns copies of a quiz's attempts, oldest first.
func (m *MemoryLedger) Attempts(_ context.Context, quizID string) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.attempts[quizID]
	out := make([]Attempt, len(src))
	for i, a := range src {
		out[i] = a.clone()
	}
	return out, nil
}

// QuizIDs lists every quiz with at least one attempt, sorted.
func (m *MemoryLedger) QuizIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.attempts))
	for id := range m.attempts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Clear drops one quiz's attempts, or all of them when quizID is empty.
func (m *MemoryLedger) Clear(_ context.Context, quizID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if quizID == "" {
		m.attempts = make(map[string][]Attempt)
		return nil
	}
	delete(m.attempts, quizID)
	return nil
}
