package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists session state between turns.
type Store interface {
	Get(ctx context.Context, sessionID string) (State, error)
	Set(ctx context.Context, st State) error
	Reset(ctx context.Context, sessionID string) error
}

// Repo keeps sessions in postgres, one JSON payload per session.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Get(ctx context.Context, sessionID string) (State, error) {
	row := r.pool.QueryRow(ctx, `SELECT payload FROM dialog_states WHERE session_id = $1`, sessionID)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		// no row yet: a fresh session
		if errors.Is(err, pgx.ErrNoRows) {
			return NewState(sessionID), nil
		}
		return State{}, fmt.Errorf("get dialog state: %w", err)
	}
	st := NewState(sessionID)
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("decode dialog state: %w", err)
	}
	st.SessionID = sessionID
	return st, nil
}

func (r *Repo) Set(ctx context.Context, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode dialog state: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO dialog_states (session_id, mode, payload, epoch, updated_at)
		VALUES ($1,$2,$3,$4,now())
		ON CONFLICT (session_id) DO UPDATE SET
		  mode=$2, payload=$3, epoch=$4, updated_at=now()
	`, st.SessionID, string(st.Mode), raw, st.Epoch)
	return err
}

func (r *Repo) Reset(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM dialog_states WHERE session_id = $1`, sessionID)
	return err
}

// MemoryRepo is an in-process Store. States are kept JSON-encoded so callers
// never share memory with the stored copy.
type MemoryRepo struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{data: map[string][]byte{}} }

func (m *MemoryRepo) Get(_ context.Context, sessionID string) (State, error) {
	m.mu.Lock()
	raw, ok := m.data[sessionID]
	m.mu.Unlock()
	if !ok {
		return NewState(sessionID), nil
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("decode dialog state: %w", err)
	}
	return st, nil
}

func (m *MemoryRepo) Set(_ context.Context, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode dialog state: %w", err)
	}
	m.mu.Lock()
	m.data[st.SessionID] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryRepo) Reset(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.data, sessionID)
	m.mu.Unlock()
	return nil
}
