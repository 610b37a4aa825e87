package conclusion

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/ndt-conclusions/internal/domain"
)

// GenerateDocument finalizes the form into a completed history entry and
// resets the form to its empty default dated today.
func (m *Manager) GenerateDocument(ctx context.Context) domain.ConclusionRecord {
	doc := m.newRecord(domain.StatusCompleted)
	m.history = append(m.history, doc)
	m.form = domain.NewFormState(m.today())

	m.journal(ctx, domain.AuditActionDocumentGenerated, doc)
	m.notify(ctx, domain.NotificationSuccess, domain.MessageDocumentGenerated)

	m.log.InfoContext(ctx, "document generated",
		slog.String("conclusion_id", doc.ID.String()),
		slog.String("control_type", doc.ControlType.String()),
		slog.Int("history", len(m.history)),
	)

	return doc
}
