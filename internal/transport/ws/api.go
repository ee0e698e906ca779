package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/questionset"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/upload"
)

type createSetRequest struct {
	Upload    *upload.Source `json:"upload,omitempty"`
	DeckID    string         `json:"deckId,omitempty"`
	ChapterID string         `json:"chapterId,omitempty"`
	Outcomes  []string       `json:"outcomes,omitempty"`
	Count     int            `json:"count,omitempty"`
}

type setResponse struct {
	QuizID    string `json:"quizId"`
	Title     string `json:"title"`
	Questions int    `json:"questions"`
}

type historyEntry struct {
	QuizID   string            `json:"quizId"`
	Attempts []history.Attempt `json:"attempts"`
	Delta    *int              `json:"delta,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var nf *quiz.NotFoundError
	var empty *quiz.EmptyResultError
	var netErr *quiz.NetworkError
	switch {
	case errors.As(err, &nf):
		status = http.StatusNotFound
	case errors.As(err, &empty):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &netErr):
		status = http.StatusBadGateway
	case errors.Is(err, upload.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, upload.ErrUnsupportedType):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, upload.ErrMalformed):
		status = http.StatusBadRequest
	case errors.Is(err, questionset.ErrGenerationDisabled):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorMessage(err).Payload)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	list, err := s.decks.ListDecks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	// Base64 inflates uploads by a third; leave room for the JSON envelope.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload*4/3+64<<10)
	var req createSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, upload.ErrTooLarge)
			return
		}
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid request body"})
		return
	}

	var src questionset.Source
	switch {
	case req.Upload != nil:
		src = questionset.DocumentSource{Upload: *req.Upload, Count: req.Count}
	case req.DeckID != "" || len(req.Outcomes) > 0:
		src = questionset.OutcomesSource{DeckID: req.DeckID, ChapterID: req.ChapterID, Outcomes: req.Outcomes, Count: req.Count}
	default:
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "upload or outcomes required"})
		return
	}

	set, err := s.sets.Load(r.Context(), src)
	if err != nil {
		s.logger.Printf("http: create set: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, setResponse{QuizID: set.ID, Title: set.Title, Questions: len(set.Questions)})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	player, err := s.playerID(r, w)
	if err != nil {
		writeError(w, err)
		return
	}
	ledger := history.Scoped(s.ledger, player)
	ctx := r.Context()

	ids := []string{r.URL.Query().Get("quizId")}
	if ids[0] == "" {
		if ids, err = ledger.QuizIDs(ctx); err != nil {
			writeError(w, err)
			return
		}
		sort.Strings(ids)
	}

	out := make([]historyEntry, 0, len(ids))
	for _, id := range ids {
		attempts, err := ledger.Attempts(ctx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		entry := historyEntry{QuizID: id, Attempts: attempts}
		if d, ok := history.Improvement(attempts); ok {
			entry.Delta = &d
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, out)
}
