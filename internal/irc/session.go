package irc

import (
	"fmt"
	"log"
	"sync"

	"github.com/ergochat/irc-go/ircmsg"
)

// Session is the client-side state of one connection: the server's
// capabilities, our confirmed nickname and the handler table that keeps
// them current. Lines must be dispatched in arrival order; getters may be
// called from any goroutine.
type Session struct {
	info       *ServerInfo
	dispatcher dispatcher
	metrics    *Metrics

	// serializes dispatch; handlers must not dispatch re-entrantly
	dispatchMu sync.Mutex

	mu   sync.RWMutex
	nick string

	// MOTD lines collected since the last RPL_MOTDSTART, dispatch-only
	motd []string

	hooksMu     sync.RWMutex
	subscribers []func(Event)
	onException []func(*RawEvent, error)
}

// Option configures a Session.
type Option func(*Session)

// WithMetrics counts dispatched events and tracked exceptions in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// NewSession returns a session with the default listeners registered.
func NewSession(opts ...Option) *Session {
	s := &Session{info: newServerInfo()}
	for _, opt := range opts {
		opt(s)
	}
	s.registerDefaultListeners()
	return s
}

// ServerInfo returns the session's capability registry.
func (s *Session) ServerInfo() *ServerInfo {
	return s.info
}

// Nick is the nickname last confirmed by the server, or "" before welcome.
func (s *Session) Nick() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nick
}

func (s *Session) setNick(nick string) {
	s.mu.Lock()
	s.nick = nick
	s.mu.Unlock()
}

// Register adds h to the dispatch table.
func (s *Session) Register(h Handler) error {
	return s.dispatcher.register(h)
}

// Commands lists the wire commands registered handlers want delivered.
func (s *Session) Commands() []string {
	return s.dispatcher.commands()
}

// Subscribe delivers every derived event to fn, on the dispatching goroutine.
func (s *Session) Subscribe(fn func(Event)) {
	s.hooksMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.hooksMu.Unlock()
}

// OnException calls fn for each exception tracked while dispatching.
func (s *Session) OnException(fn func(*RawEvent, error)) {
	s.hooksMu.Lock()
	s.onException = append(s.onException, fn)
	s.hooksMu.Unlock()
}

// HandleLine tokenizes one wire line and dispatches it.
func (s *Session) HandleLine(line string) (*RawEvent, error) {
	msg, err := ircmsg.ParseLine(line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse line: %w", err)
	}
	return s.Dispatch(msg), nil
}

// Dispatch runs every matching handler for msg, highest priority first, and
// returns the event with any exceptions tracked along the way.
func (s *Session) Dispatch(msg ircmsg.Message) *RawEvent {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	e := newRawEvent(s, msg)
	s.dispatcher.dispatch(e)

	s.metrics.observeEvent(e, s.dispatcher.handles(e))
	if len(e.exceptions) > 0 {
		s.hooksMu.RLock()
		hooks := s.onException
		s.hooksMu.RUnlock()
		for _, err := range e.exceptions {
			log.Printf("Tracked exception on %s: %v", e.Command(), err)
			for _, fn := range hooks {
				fn(e, err)
			}
		}
	}
	return e
}

// Connected announces that the transport is up.
func (s *Session) Connected() {
	s.emit(&ConnectionEstablishedEvent{eventBase{s}})
}

func (s *Session) emit(e Event) {
	s.hooksMu.RLock()
	subscribers := s.subscribers
	s.hooksMu.RUnlock()
	for _, fn := range subscribers {
		fn(e)
	}
}
