package conclusion

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/ndt-conclusions/internal/domain"
)

// SaveDraft stores a copy of the form as a new draft. The form itself is
// left as is so editing can continue.
func (m *Manager) SaveDraft(ctx context.Context) domain.ConclusionRecord {
	draft := m.newRecord(domain.StatusDraft)
	m.drafts = append(m.drafts, draft)

	m.journal(ctx, domain.AuditActionDraftSaved, draft)
	m.notify(ctx, domain.NotificationSuccess, domain.MessageDraftSaved)

	m.log.InfoContext(ctx, "draft saved",
		slog.String("conclusion_id", draft.ID.String()),
		slog.Int("drafts", len(m.drafts)),
	)

	return draft
}
