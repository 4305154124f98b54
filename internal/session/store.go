// Package session keeps the editors that remote hosts drive over the
// gesture transport. Each session owns one editor and the in-memory
// surface it renders on.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/mapdraw/internal/editor"
	"github.com/signalsfoundry/mapdraw/internal/logging"
	"github.com/signalsfoundry/mapdraw/internal/surface"
	"github.com/signalsfoundry/mapdraw/model"
)

var (
	// ErrSessionNotFound indicates an unknown or closed session ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExists indicates an Open with an ID already in use.
	ErrSessionExists = errors.New("session already exists")
	// ErrInvalidShape indicates an Open with an unknown shape kind.
	ErrInvalidShape = errors.New("invalid shape")
)

// EventType indicates what happened to a session.
type EventType int

const (
	// EventOpened fires once a session is registered.
	EventOpened EventType = iota
	// EventEdited fires for every committed edit.
	EventEdited
	// EventClosed fires once a session is removed.
	EventClosed
)

// Event is delivered to subscribers outside every lock.
type Event struct {
	Type      EventType
	SessionID string
	Edit      editor.EditEvent // set for EventEdited
}

// MetricsRecorder receives the number of open sessions.
type MetricsRecorder interface {
	SetSessions(n int)
}

// OpenRequest describes a new session.
type OpenRequest struct {
	// ID is optional; a random one is assigned when empty.
	ID          string
	Shape       string // polygon | polyline
	Coordinates []model.Coordinate
	// Draggable overrides the store default when set.
	Draggable *bool
}

// Store is a thread-safe registry of sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int

	editorOpts  []editor.Option
	log         logging.Logger
	metrics     MetricsRecorder
	editMetrics editor.MetricsRecorder
}

// StoreOption customises Store construction.
type StoreOption func(*Store)

// WithEditorOptions sets the options every new editor starts from.
func WithEditorOptions(opts ...editor.Option) StoreOption {
	return func(s *Store) { s.editorOpts = append(s.editorOpts, opts...) }
}

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetricsRecorder attaches a recorder for the session count.
func WithMetricsRecorder(m MetricsRecorder) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// WithEditMetrics attaches a recorder handed to every editor.
func WithEditMetrics(m editor.MetricsRecorder) StoreOption {
	return func(s *Store) { s.editMetrics = m }
}

// NewStore constructs an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		subs:     make(map[int]func(Event)),
		log:      logging.Noop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Open creates a session and renders its editor.
func (s *Store) Open(ctx context.Context, req OpenRequest) (*Session, error) {
	var topo editor.Topology
	switch req.Shape {
	case "polygon", "":
		topo = editor.Ring
	case "polyline":
		topo = editor.Chain
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidShape, req.Shape)
	}

	id := req.ID
	if id == "" {
		id = logging.NewID()
	}

	sess := &Session{
		id:      id,
		surface: surface.NewMemory(),
		store:   s,
		log:     logging.FromContext(ctx, s.log).With(logging.String("session_id", id)),
	}

	opts := append([]editor.Option{}, s.editorOpts...)
	opts = append(opts,
		editor.WithID(id),
		editor.WithCoordinates(req.Coordinates),
		editor.WithLogger(sess.log),
		editor.WithCallbacks(editor.Callbacks{OnEditEnd: sess.queue}),
	)
	if req.Draggable != nil {
		opts = append(opts, editor.WithDraggable(*req.Draggable))
	}
	if s.editMetrics != nil {
		opts = append(opts, editor.WithMetricsRecorder(s.editMetrics))
	}

	s.mu.Lock()
	if _, exists := s.sessions[id]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrSessionExists, id)
	}
	sess.editor = editor.New(topo, sess.surface, opts...)
	s.sessions[id] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	s.setCount(count)
	sess.log.Info(ctx, "session opened",
		logging.String("shape", topo.Name()),
		logging.Int("vertices", len(req.Coordinates)),
	)
	s.publish(Event{Type: EventOpened, SessionID: id})
	return sess, nil
}

// Get returns the session with the given ID.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Close removes the session and clears its editor from the surface.
func (s *Store) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()

	sess.mu.Lock()
	sess.closed = true
	sess.editor.Close()
	sess.surface.Compact()
	sess.pending = nil
	sess.mu.Unlock()

	s.setCount(count)
	sess.log.Info(ctx, "session closed")
	s.publish(Event{Type: EventClosed, SessionID: id})
	return nil
}

// Len returns the number of open sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// IDs returns the open session IDs in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Subscribe registers a callback for session events. It returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	token := s.nextID
	s.nextID++
	s.subs[token] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, token)
	}
}

func (s *Store) publish(events ...Event) {
	if len(events) == 0 {
		return
	}
	s.subMu.Lock()
	subs := make([]func(Event), 0, len(s.subs))
	tokens := make([]int, 0, len(s.subs))
	for token := range s.subs {
		tokens = append(tokens, token)
	}
	sort.Ints(tokens)
	for _, token := range tokens {
		subs = append(subs, s.subs[token])
	}
	s.subMu.Unlock()

	for _, ev := range events {
		for _, sub := range subs {
			sub(ev)
		}
	}
}

func (s *Store) setCount(n int) {
	if s.metrics != nil {
		s.metrics.SetSessions(n)
	}
}

// Session is one editor plus its surface. All access goes through Do so
// concurrent RPCs on the same session are serialised.
type Session struct {
	mu      sync.Mutex
	id      string
	editor  *editor.Editor
	surface *surface.Memory
	closed  bool
	pending []editor.EditEvent

	store *Store
	log   logging.Logger
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Do runs fn with exclusive access to the session's editor and surface.
// Edit events committed by fn are published to subscribers after the lock
// is released.
func (s *Session) Do(fn func(ed *editor.Editor, surf *surface.Memory) error) error {
	pending, err := s.run(fn)
	if s.store != nil && len(pending) > 0 {
		events := make([]Event, len(pending))
		for i, ev := range pending {
			events[i] = Event{Type: EventEdited, SessionID: s.id, Edit: ev}
		}
		s.store.publish(events...)
	}
	return err
}

// run holds s.mu for fn and returns the edit events it queued. The lock is
// released even if fn panics.
func (s *Session) run(fn func(ed *editor.Editor, surf *surface.Memory) error) ([]editor.EditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, s.id)
	}
	defer func() {
		s.surface.Compact()
		s.pending = nil
	}()
	err := fn(s.editor, s.surface)
	return s.pending, err
}

// queue runs under s.mu from inside an editor call.
func (s *Session) queue(ev editor.EditEvent) {
	s.pending = append(s.pending, ev)
}
