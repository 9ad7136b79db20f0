package multiplayer

import "sync"

// SessionHandle is how the coordinator and matches reach a client.
type SessionHandle interface {
	ID() SessionID

	// Send delivers an event without blocking.
	Send(evt SessionEvent)

	// Done is closed when the client goes away.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by a buffered channel. The TUI
// reads Events and closes the session when the program exits.
type ChannelSession struct {
	id     SessionID
	events chan SessionEvent
	done   chan struct{}
	once   sync.Once
}

// NewChannelSession creates a session with room for buffer pending events.
func NewChannelSession(id SessionID, buffer int) *ChannelSession {
	if buffer < 1 {
		buffer = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, buffer),
		done:   make(chan struct{}),
	}
}

func (s *ChannelSession) ID() SessionID { return s.id }

// Send queues evt. When the buffer is full the oldest event is discarded;
// snapshots supersede each other so a slow reader only loses stale frames.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}
	for range 2 {
		select {
		case s.events <- evt:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

// Events is the receive side for the client.
func (s *ChannelSession) Events() <-chan SessionEvent { return s.events }

func (s *ChannelSession) Done() <-chan struct{} { return s.done }

// Close ends the session. It is safe to call more than once.
func (s *ChannelSession) Close() {
	s.once.Do(func() { close(s.done) })
}

// SessionRegistry maps session IDs to handles for the coordinator.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[SessionID]SessionHandle)}
}

func (r *SessionRegistry) Register(s SessionHandle) {
	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
}

func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
