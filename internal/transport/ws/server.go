// Package ws serves quiz sessions over HTTP and websockets. Each
// connection drives its own session; history is shared through a ledger
// and scoped per player.
package ws

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"

	"github.com/abhisek/studyquiz/internal/coach"
	"github.com/abhisek/studyquiz/internal/deck"
	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/play"
	"github.com/abhisek/studyquiz/internal/questionset"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/session"
	"github.com/abhisek/studyquiz/internal/timer"
	"github.com/abhisek/studyquiz/internal/upload"
)

const (
	cookieName = "studyquiz"
	playerKey  = "player"
)

// Server wires the question set provider, the ledger and the optional
// coach into HTTP handlers.
type Server struct {
	sets    *questionset.Provider
	decks   deck.Lister
	ledger  history.Ledger
	coach   *coach.Service
	cookies sessions.Store
	logger  *log.Logger

	clock        func() time.Time
	delays       play.Delays
	defaultMode  quiz.Mode
	tickInterval time.Duration
	maxUpload    int64
	upgrader     websocket.Upgrader
}

type Option func(*Server)

// WithCoach enables coaching requests.
func WithCoach(c *coach.Service) Option {
	return func(s *Server) { s.coach = c }
}

// WithDelays sets the feedback pauses before a session moves on.
func WithDelays(d play.Delays) Option {
	return func(s *Server) { s.delays = d }
}

// WithTickInterval sets how often timed sessions are checked for expiry.
func WithTickInterval(d time.Duration) Option {
	return func(s *Server) { s.tickInterval = d }
}

// WithClock replaces time.Now for sessions and countdowns.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.clock = now }
}

// WithDefaultMode sets the mode of a start message that names none.
func WithDefaultMode(m quiz.Mode) Option {
	return func(s *Server) { s.defaultMode = m }
}

// WithLogger receives connection and session errors. Logging is off by
// default.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMaxUpload caps the decoded size of an uploaded document.
func WithMaxUpload(n int64) Option {
	return func(s *Server) { s.maxUpload = n }
}

// NewServer builds a server. cookieSecret signs the player cookie; an
// empty secret uses a random one, so identities reset on restart.
func NewServer(sets *questionset.Provider, decks deck.Lister, ledger history.Ledger, cookieSecret string, opts ...Option) *Server {
	secret := []byte(cookieSecret)
	if len(secret) == 0 {
		secret = []byte(uuid.NewString())
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		sets:         sets,
		decks:        decks,
		ledger:       ledger,
		cookies:      store,
		logger:       log.New(io.Discard, "", 0),
		clock:        time.Now,
		delays:       play.DefaultDelays(),
		defaultMode:  quiz.ModeNormal,
		tickInterval: 250 * time.Millisecond,
		maxUpload:    upload.DefaultMaxBytes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /api/decks", s.handleDecks)
	mux.HandleFunc("POST /api/sets", s.handleCreateSet)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /ws", s.ServeWS)
	return mux
}

func (s *Server) newController(ledger history.Ledger) *play.Controller {
	store := session.NewStore(ledger, session.WithClock(s.clock))
	return play.NewController(store,
		play.WithDelays(s.delays),
		play.WithCountdown(timer.New(s.clock)),
	)
}

// playerID returns the player id from the session cookie, minting one if
// needed. Save writes Set-Cookie into h.
func (s *Server) playerID(r *http.Request, w http.ResponseWriter) (string, error) {
	sess, _ := s.cookies.Get(r, cookieName)
	if id, ok := sess.Values[playerKey].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values[playerKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}

// headerCapture collects headers written by session.Save so they can be
// passed to the websocket upgrade response.
type headerCapture struct {
	h http.Header
}

func (c *headerCapture) Header() http.Header         { return c.h }
func (c *headerCapture) Write(b []byte) (int, error) { return len(b), nil }
func (c *headerCapture) WriteHeader(int)             {}
