package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// ErrDiscarded is returned for a turn whose session was reset while it ran.
var ErrDiscarded = errors.New("dialog: turn discarded after reset")

// Manager owns session storage and runs one turn per session at a time.
type Manager struct {
	orc   *Orchestrator
	store Store
	log   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session // only sessions with a call in flight
}

type session struct {
	turn   sync.Mutex
	refs   int                // guarded by Manager.mu
	epoch  int64              // guarded by Manager.mu
	cancel context.CancelFunc // guarded by Manager.mu
}

func NewManager(orc *Orchestrator, store Store, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{orc: orc, store: store, log: log, sessions: map[string]*session{}}
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string { return uuid.NewString() }

// acquire returns the in-memory entry for id. Every acquire is paired with a
// release; the entry is dropped when the last caller releases it, so idle
// sessions live only in the store.
func (m *Manager) acquire(id string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = &session{}
		m.sessions[id] = s
	}
	s.refs++
	return s
}

func (m *Manager) release(id string, s *session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.refs--
	if s.refs == 0 && m.sessions[id] == s {
		delete(m.sessions, id)
	}
}

// active reports how many sessions have a call in flight.
func (m *Manager) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Handle runs one turn. Turns for the same session queue behind each other.
func (m *Manager) Handle(ctx context.Context, sessionID, text string) (Reply, error) {
	s := m.acquire(sessionID)
	defer m.release(sessionID, s)
	s.turn.Lock()
	defer s.turn.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	epoch := s.epoch
	s.cancel = cancel
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		s.cancel = nil
		m.mu.Unlock()
		cancel()
	}()

	st, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return Reply{}, fmt.Errorf("load session: %w", err)
	}
	st.SessionID = sessionID

	reply, next := m.orc.HandleTurn(ctx, text, st)

	m.mu.Lock()
	stale := s.epoch != epoch
	m.mu.Unlock()
	if stale {
		m.log.Info("turn discarded after reset", "session", sessionID)
		return Reply{}, ErrDiscarded
	}

	next.Epoch = epoch
	if err := m.store.Set(context.WithoutCancel(ctx), next); err != nil {
		return Reply{}, fmt.Errorf("save session: %w", err)
	}
	return reply, nil
}

// Reset drops the session. A turn still running for it is cancelled and its
// result is thrown away.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	s := m.acquire(sessionID)
	defer m.release(sessionID, s)
	m.mu.Lock()
	s.epoch++
	if s.cancel != nil {
		s.cancel()
	}
	m.mu.Unlock()

	s.turn.Lock()
	defer s.turn.Unlock()
	if err := m.store.Reset(ctx, sessionID); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

// State returns a copy of the stored session.
func (m *Manager) State(ctx context.Context, sessionID string) (State, error) {
	s := m.acquire(sessionID)
	defer m.release(sessionID, s)
	s.turn.Lock()
	defer s.turn.Unlock()
	return m.store.Get(ctx, sessionID)
}

// SetRateOverrides merges family rates into the session, e.g. from an uploaded rate sheet.
func (m *Manager) SetRateOverrides(ctx context.Context, sessionID string, rates map[string]float64) error {
	s := m.acquire(sessionID)
	defer m.release(sessionID, s)
	s.turn.Lock()
	defer s.turn.Unlock()

	st, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	st.SessionID = sessionID
	if st.RateOverrides == nil {
		st.RateOverrides = make(map[string]float64, len(rates))
	}
	maps.Copy(st.RateOverrides, rates)
	return m.store.Set(ctx, st)
}
