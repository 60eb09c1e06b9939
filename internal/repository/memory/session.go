// Package memory keeps sessions in process memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RMahshie/specplot/internal/repository"
	"github.com/RMahshie/specplot/pkg/models"
)

// SessionRepository implements repository.SessionRepository with a map
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	now      func() time.Time
}

// NewSessionRepository creates an empty in-memory session repository
func NewSessionRepository() repository.SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
	}
}

// Create inserts a new empty session
func (r *SessionRepository) Create(ctx context.Context) (*models.Session, error) {
	now := r.now().UTC()
	s := &models.Session{
		ID:        uuid.New().String(),
		Tables:    []models.NamedTable{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return snapshot(s), nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return snapshot(s), nil
}

// ReplaceTables swaps in a complete new table set
func (r *SessionRepository) ReplaceTables(ctx context.Context, id string, tables []models.NamedTable) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	next := *s
	next.Tables = append([]models.NamedTable(nil), tables...)
	next.UpdatedAt = r.now().UTC()
	r.sessions[id] = &next

	return snapshot(&next), nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// List returns all sessions, oldest first
func (r *SessionRepository) List(ctx context.Context) ([]*models.Session, error) {
	r.mu.RLock()
	out := make([]*models.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, snapshot(s))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// snapshot copies the session header and table slice; tables themselves are
// never mutated after load so they can be shared.
func snapshot(s *models.Session) *models.Session {
	c := *s
	c.Tables = append([]models.NamedTable(nil), s.Tables...)
	return &c
}
