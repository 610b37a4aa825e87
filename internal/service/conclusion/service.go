// Package conclusion holds the lifecycle state of one conclusion editing
// session: the in-progress form, saved drafts and finalized documents.
package conclusion

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ndt-conclusions/internal/domain"
)

type clock interface {
	Now() time.Time
}

type idGenerator interface {
	NewID() uuid.UUID
}

type notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

// Manager owns a FormState and the draft and history collections. The
// exported operations are the only way to mutate them. A Manager is not
// safe for concurrent use; callers serialize access.
type Manager struct {
	form    domain.FormState
	drafts  []domain.ConclusionRecord
	history []domain.ConclusionRecord
	section domain.Section

	sessionID uuid.UUID
	clock     clock
	ids       idGenerator
	notifier  notifier
	audit     auditLogger
	loc       *time.Location
	log       *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source for record timestamps, the default date
// and the monthly counter.
func WithClock(c clock) Option { return func(m *Manager) { m.clock = c } }

// WithIDGenerator sets the record identifier source.
func WithIDGenerator(g idGenerator) Option { return func(m *Manager) { m.ids = g } }

// WithNotifier sets the receiver of user-visible notifications.
func WithNotifier(n notifier) Option { return func(m *Manager) { m.notifier = n } }

// WithAuditLogger sets the lifecycle journal.
func WithAuditLogger(a auditLogger) Option { return func(m *Manager) { m.audit = a } }

// WithLocation sets the timezone used for calendar dates and months.
func WithLocation(loc *time.Location) Option {
	return func(m *Manager) {
		if loc != nil {
			m.loc = loc
		}
	}
}

// WithSessionID tags journal entries and log lines with the owning session.
func WithSessionID(id uuid.UUID) Option { return func(m *Manager) { m.sessionID = id } }

// NewManager creates a Manager with an empty form dated today.
func NewManager(log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		section:  domain.SectionCreate,
		clock:    systemClock{},
		ids:      uuidGenerator{},
		notifier: nopNotifier{},
		audit:    nopAudit{},
		loc:      time.UTC,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = log.With("service", "conclusion", slog.String("session_id", m.sessionID.String()))
	m.form = domain.NewFormState(m.today())
	return m
}

// Form returns a copy of the in-progress form.
func (m *Manager) Form() domain.FormState { return m.form }

// Drafts returns a copy of the saved drafts in creation order.
func (m *Manager) Drafts() []domain.ConclusionRecord { return slices.Clone(m.drafts) }

// History returns a copy of the finalized documents in creation order.
func (m *Manager) History() []domain.ConclusionRecord { return slices.Clone(m.history) }

// Snapshot is a consistent copy of the whole manager state.
type Snapshot struct {
	Form    domain.FormState
	Drafts  []domain.ConclusionRecord
	History []domain.ConclusionRecord
	Section domain.Section
	Stats   domain.Stats
}

// Snapshot returns a copy of the form, both collections, the active
// section and the derived counters.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		Form:    m.form,
		Drafts:  m.Drafts(),
		History: m.History(),
		Section: m.section,
		Stats:   m.Stats(),
	}
}

func (m *Manager) today() string {
	return domain.Today(m.clock.Now(), m.loc)
}

// newRecord freezes the current form with a fresh identity.
func (m *Manager) newRecord(status domain.Status) domain.ConclusionRecord {
	return m.form.Record(m.ids.NewID(), status, m.clock.Now())
}

func (m *Manager) notify(ctx context.Context, level domain.NotificationLevel, msg string) {
	m.notifier.Notify(ctx, domain.Notification{
		Level:     level,
		Message:   msg,
		CreatedAt: m.clock.Now(),
	})
}

// journal appends to the audit log. Failures never fail the operation.
func (m *Manager) journal(ctx context.Context, action domain.AuditAction, rec domain.ConclusionRecord) {
	err := m.audit.Log(ctx, domain.AuditRecord{
		ID:           uuid.New(),
		SessionID:    m.sessionID,
		ConclusionID: rec.ID,
		Action:       action,
		Changes: map[string]any{
			"jointNumber":   rec.JointNumber,
			"inspectorName": rec.InspectorName,
			"date":          rec.Date,
			"controlType":   rec.ControlType.String(),
			"status":        rec.Status.String(),
		},
		CreatedAt: m.clock.Now().UTC(),
	})
	if err != nil {
		m.log.WarnContext(ctx, "audit log failed",
			slog.String("action", action.String()),
			slog.String("conclusion_id", rec.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type uuidGenerator struct{}

func (uuidGenerator) NewID() uuid.UUID { return uuid.New() }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, domain.Notification) {}

type nopAudit struct{}

func (nopAudit) Log(context.Context, domain.AuditRecord) error { return nil }
