package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/heartmarshall/ndt-conclusions/internal/config"
	"github.com/heartmarshall/ndt-conclusions/internal/domain"
	"github.com/heartmarshall/ndt-conclusions/internal/service/conclusion"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type auditLoggerMock struct {
	mu    sync.Mutex
	calls []domain.AuditRecord
}

func (m *auditLoggerMock) Log(_ context.Context, record domain.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, record)
	return nil
}

func (m *auditLoggerMock) LogCalls() []domain.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AuditRecord(nil), m.calls...)
}

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		IdleTTL:          time.Hour,
		SweepInterval:    time.Minute,
		MaxSessions:      3,
		MaxNotifications: 2,
		Timezone:         "UTC",
	}
}

// newTestService creates a Service with a controllable clock.
func newTestService(t *testing.T, audit auditLogger) (*Service, *time.Time) {
	t.Helper()
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	svc := NewService(slog.Default(), audit, testConfig())
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestCreate_RegistersSession(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	sess, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.ID == uuid.Nil {
		t.Fatal("session id should be set")
	}
	if svc.Count() != 1 {
		t.Errorf("count: got %d, want 1", svc.Count())
	}

	err = svc.Do(ctx, sess.ID, func(m *conclusion.Manager) error {
		if m.Form().Status != domain.StatusDraft {
			t.Errorf("fresh form status: %q", m.Form().Status)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestCreate_LimitReached(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	_, err := svc.Create(ctx)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if svc.Count() != 3 {
		t.Errorf("count: got %d, want 3", svc.Count())
	}
}

func TestDo_UnknownSession(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)

	called := false
	err := svc.Do(context.Background(), uuid.New(), func(*conclusion.Manager) error {
		called = true
		return nil
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if called {
		t.Error("fn must not run for unknown session")
	}
}

func TestDo_PropagatesError(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)

	err := svc.Do(ctx, sess.ID, func(m *conclusion.Manager) error {
		return m.UpdateField(ctx, domain.Field("bogus"), "x")
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSessions_AreIsolated(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	a, _ := svc.Create(ctx)
	b, _ := svc.Create(ctx)

	_ = svc.Do(ctx, a.ID, func(m *conclusion.Manager) error {
		if err := m.UpdateField(ctx, domain.FieldJointNumber, "A-1"); err != nil {
			return err
		}
		m.SaveDraft(ctx)
		return nil
	})

	_ = svc.Do(ctx, b.ID, func(m *conclusion.Manager) error {
		if got := m.Form().JointNumber; got != "" {
			t.Errorf("session b sees %q", got)
		}
		if got := len(m.Drafts()); got != 0 {
			t.Errorf("session b drafts: %d", got)
		}
		return nil
	})
}

func TestDrainNotifications(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)

	_ = svc.Do(ctx, sess.ID, func(m *conclusion.Manager) error {
		m.SaveDraft(ctx)
		m.GenerateDocument(ctx)
		return nil
	})

	notes, err := svc.DrainNotifications(ctx, sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("notifications: got %d, want 2", len(notes))
	}
	if notes[0].Message != domain.MessageDraftSaved || notes[1].Message != domain.MessageDocumentGenerated {
		t.Errorf("unexpected order: %+v", notes)
	}

	again, _ := svc.DrainNotifications(ctx, sess.ID)
	if len(again) != 0 {
		t.Errorf("second drain: got %d, want 0", len(again))
	}
}

func TestDrainNotifications_KeepsNewest(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)

	_ = svc.Do(ctx, sess.ID, func(m *conclusion.Manager) error {
		m.SaveDraft(ctx)
		m.SaveDraft(ctx)
		m.GenerateDocument(ctx)
		return nil
	})

	notes, _ := svc.DrainNotifications(ctx, sess.ID)
	if len(notes) != 2 {
		t.Fatalf("notifications: got %d, want 2 (limit)", len(notes))
	}
	if notes[1].Message != domain.MessageDocumentGenerated {
		t.Errorf("newest notification dropped: %+v", notes)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)

	if err := svc.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, sess.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.DrainNotifications(ctx, sess.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("drain after delete: expected ErrNotFound, got %v", err)
	}
}

func TestSweep_EvictsIdleSessions(t *testing.T) {
	t.Parallel()

	svc, now := newTestService(t, nil)
	ctx := context.Background()
	idle, _ := svc.Create(ctx)

	*now = now.Add(40 * time.Minute)
	active, _ := svc.Create(ctx)

	*now = now.Add(30 * time.Minute)
	_ = svc.Do(ctx, active.ID, func(*conclusion.Manager) error { return nil })

	removed := svc.Sweep(*now)
	if removed != 1 {
		t.Fatalf("removed: got %d, want 1", removed)
	}
	if err := svc.Do(ctx, idle.ID, func(*conclusion.Manager) error { return nil }); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("idle session should be gone, got %v", err)
	}
	if err := svc.Do(ctx, active.ID, func(*conclusion.Manager) error { return nil }); err != nil {
		t.Errorf("active session should survive: %v", err)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	svc.cfg.SweepInterval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestCreate_WiresAuditLogger(t *testing.T) {
	t.Parallel()

	audit := &auditLoggerMock{}
	svc, _ := newTestService(t, audit)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)

	var draftID uuid.UUID
	_ = svc.Do(ctx, sess.ID, func(m *conclusion.Manager) error {
		draftID = m.SaveDraft(ctx).ID
		return nil
	})

	calls := audit.LogCalls()
	if len(calls) != 1 {
		t.Fatalf("audit calls: got %d, want 1", len(calls))
	}
	if calls[0].SessionID != sess.ID {
		t.Errorf("session id: got %s, want %s", calls[0].SessionID, sess.ID)
	}
	if calls[0].ConclusionID != draftID {
		t.Errorf("conclusion id: got %s, want %s", calls[0].ConclusionID, draftID)
	}
}

func TestDo_SerializesConcurrentCalls(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.Do(ctx, sess.ID, func(m *conclusion.Manager) error {
				m.SaveDraft(ctx)
				return nil
			})
		}()
	}
	wg.Wait()

	_ = svc.Do(ctx, sess.ID, func(m *conclusion.Manager) error {
		if got := len(m.Drafts()); got != 50 {
			t.Errorf("drafts: got %d, want 50", got)
		}
		return nil
	})
}
