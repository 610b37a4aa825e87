// Package session keeps the in-memory editing sessions, one Conclusion
// Lifecycle Manager each, and evicts the idle ones.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ndt-conclusions/internal/config"
	"github.com/heartmarshall/ndt-conclusions/internal/domain"
	"github.com/heartmarshall/ndt-conclusions/internal/service/conclusion"
)

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

// Session is one editing session. Its Manager is only reachable through
// Service.Do, which holds the session lock.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu         sync.Mutex
	manager    *conclusion.Manager
	outbox     *outbox
	lastAccess time.Time
}

// Service provides session lifecycle operations.
type Service struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	audit auditLogger
	cfg   config.SessionConfig
	loc   *time.Location
	now   func() time.Time
	base  *slog.Logger
	log   *slog.Logger
}

// NewService creates a new session Service.
func NewService(
	log *slog.Logger,
	audit auditLogger,
	cfg config.SessionConfig,
) *Service {
	return &Service{
		sessions: make(map[uuid.UUID]*Session),
		audit:    audit,
		cfg:      cfg,
		loc:      cfg.Location(),
		now:      time.Now,
		base:     log,
		log:      log.With("service", "session"),
	}
}

// Create opens a new session with an empty form.
func (s *Service) Create(ctx context.Context) (*Session, error) {
	now := s.now()
	id := uuid.New()

	box := newOutbox(s.cfg.MaxNotifications)
	opts := []conclusion.Option{
		conclusion.WithSessionID(id),
		conclusion.WithNotifier(box),
		conclusion.WithLocation(s.loc),
	}
	if s.audit != nil {
		opts = append(opts, conclusion.WithAuditLogger(s.audit))
	}

	sess := &Session{
		ID:         id,
		CreatedAt:  now,
		manager:    conclusion.NewManager(s.base, opts...),
		outbox:     box,
		lastAccess: now,
	}

	s.mu.Lock()
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		return nil, fmt.Errorf("create session: limit of %d reached: %w", s.cfg.MaxSessions, domain.ErrConflict)
	}
	s.sessions[id] = sess
	total := len(s.sessions)
	s.mu.Unlock()

	s.log.InfoContext(ctx, "session created",
		slog.String("session_id", id.String()),
		slog.Int("active", total),
	)

	return sess, nil
}

// Do runs fn against the session's Manager while holding the session lock,
// so operations on one session never interleave.
func (s *Service) Do(ctx context.Context, id uuid.UUID, fn func(m *conclusion.Manager) error) error {
	sess, err := s.get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastAccess = s.now()
	return fn(sess.manager)
}

// DrainNotifications returns the notifications emitted since the previous
// drain and clears them.
func (s *Service) DrainNotifications(_ context.Context, id uuid.UUID) ([]domain.Notification, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return sess.outbox.drain(), nil
}

// Delete closes a session.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}

	s.log.InfoContext(ctx, "session deleted", slog.String("session_id", id.String()))
	return nil
}

// Count returns the number of open sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return sess, nil
}
