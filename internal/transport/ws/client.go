package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abhisek/studyquiz/internal/coach"
	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/play"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/session"
	"github.com/abhisek/studyquiz/internal/timer"
)

var (
	errNoResult       = errors.New("no finished attempt to coach")
	errNothingToRetry = errors.New("nothing to retry")
)

// client is one websocket connection and the session it drives. Game
// actions are serialized by mu; the writer goroutine owns the socket.
type client struct {
	srv    *Server
	ctx    context.Context
	cancel context.CancelFunc
	send   chan outboundMessage
	ledger history.Ledger

	mu      sync.Mutex
	ctrl    *play.Controller
	round   uint64
	watched timer.Key
	result  *play.Result
	pending func() // the last request that failed with a retryable error
}

// ServeWS upgrades the request and runs the connection until it closes.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	capture := &headerCapture{h: http.Header{}}
	player, err := s.playerID(r, capture)
	if err != nil {
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, capture.h)
	if err != nil {
		s.logger.Printf("ws: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ledger := history.Scoped(s.ledger, player)
	c := &client{
		srv:    s,
		ctx:    ctx,
		cancel: cancel,
		send:   make(chan outboundMessage, 16),
		ledger: ledger,
		ctrl:   s.newController(ledger),
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case msg := <-c.send:
				if err := conn.WriteJSON(msg); err != nil {
					s.logger.Printf("ws: write error: %v", err)
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		var in inboundMessage
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("ws: read error: %v", err)
			}
			break
		}
		c.handle(in)
	}

	cancel()
	c.ctrl.Stop()
	<-writerDone
}

// emit queues msg unless the connection is gone.
func (c *client) emit(msg outboundMessage) {
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	}
}

func (c *client) fail(err error) {
	c.emit(errorMessage(err))
}

// failRetryable reports err and, when a retry can help, remembers again
// for the next retry message.
func (c *client) failRetryable(err error, again func()) {
	if retryable(err) {
		c.mu.Lock()
		c.pending = again
		c.mu.Unlock()
	}
	c.fail(err)
}

func (c *client) retry() {
	c.mu.Lock()
	again := c.pending
	c.pending = nil
	c.mu.Unlock()
	if again == nil {
		c.fail(errNothingToRetry)
		return
	}
	again()
}

func (c *client) handle(in inboundMessage) {
	switch in.Type {
	case "start":
		var p startPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil || p.QuizID == "" {
			c.fail(fmt.Errorf("invalid start payload"))
			return
		}
		c.start(p)
	case "answer":
		var p answerPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			c.fail(fmt.Errorf("invalid answer payload"))
			return
		}
		c.answer(p.Choice)
	case "retake":
		c.retake()
	case "coach":
		c.requestCoaching()
	case "retry":
		c.retry()
	default:
		c.fail(fmt.Errorf("unsupported message type %q", in.Type))
	}
}

func (c *client) start(p startPayload) {
	mode := c.srv.defaultMode
	if p.Mode != "" {
		m, err := quiz.ParseMode(p.Mode)
		if err != nil {
			c.fail(err)
			return
		}
		mode = m
	}
	set, err := c.srv.sets.Get(c.ctx, p.QuizID)
	if err != nil {
		c.failRetryable(err, func() { c.start(p) })
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A new start abandons whatever was running on this connection.
	c.ctrl.Stop()
	c.ctrl = c.srv.newController(c.ledger)
	c.result = nil
	c.pending = nil
	c.watched = 0
	if err := c.ctrl.Start(c.ctx, set, mode); err != nil {
		c.fail(err)
		return
	}
	c.presentLocked()
}

func (c *client) answer(choice string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, err := c.ctrl.Select(choice)
	if err != nil {
		c.fail(err)
		return
	}
	c.emit(feedbackMessage(out, choice, c.ctrl.Card().Score))
	c.scheduleAdvanceLocked(out.Delay)
}

func (c *client) retake() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ctrl.Retake(); err != nil {
		c.fail(err)
		return
	}
	c.result = nil
	c.presentLocked()
}

// presentLocked sends the current question and starts watching its
// countdown. Callers hold mu.
func (c *client) presentLocked() {
	c.round++
	card := c.ctrl.Card()
	if card.Done {
		c.finishLocked()
		return
	}
	c.emit(questionMessage(card))
	// A session countdown keeps its key across questions and is
	// already being watched.
	if card.Timed && card.Live && card.TimerKey != c.watched {
		c.watched = card.TimerKey
		c.watch(c.ctrl, card.TimerKey)
	}
}

func (c *client) watch(ctrl *play.Controller, key timer.Key) {
	lastSec := -1
	go ctrl.Watch(c.ctx, key, c.srv.tickInterval,
		func(remaining time.Duration) {
			if sec := int(remaining / time.Second); sec != lastSec {
				lastSec = sec
				c.emit(tickMessage(remaining))
			}
		},
		func(out play.Outcome, forfeited bool, err error) {
			c.mu.Lock()
			defer c.mu.Unlock()
			if err != nil {
				c.fail(err)
				return
			}
			if !forfeited || ctrl != c.ctrl {
				return
			}
			c.emit(feedbackMessage(out, "", ctrl.Card().Score))
			c.scheduleAdvanceLocked(out.Delay)
		})
}

// scheduleAdvanceLocked advances after delay unless something else moved
// the session on first.
func (c *client) scheduleAdvanceLocked(delay time.Duration) {
	round := c.round
	ctrl := c.ctrl
	time.AfterFunc(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.ctx.Err() != nil || round != c.round || ctrl != c.ctrl {
			return
		}
		if _, err := ctrl.Advance(); err != nil {
			c.fail(err)
			return
		}
		c.presentLocked()
	})
}

func (c *client) finishLocked() {
	res, err := c.ctrl.Finish(c.ctx)
	if err != nil {
		if errors.Is(err, session.ErrAlreadySaved) {
			return
		}
		c.fail(err)
		return
	}
	c.result = &res
	c.emit(resultMessage(res))
}

func (c *client) requestCoaching() {
	if c.srv.coach == nil {
		c.fail(errors.New("coaching is not configured"))
		return
	}
	c.mu.Lock()
	res := c.result
	title := c.ctrl.Title()
	c.mu.Unlock()
	if res == nil {
		c.fail(errNoResult)
		return
	}

	in := coach.Input{Title: title, Attempt: res.Attempt, Previous: res.Comparison.Previous, Summary: res.Summary}
	go func() {
		report, err := c.srv.coach.Generate(c.ctx, in)
		if err != nil {
			c.failRetryable(err, c.requestCoaching)
			return
		}
		c.emit(coachingMessage(report))
	}()
}
