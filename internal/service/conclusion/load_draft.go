package conclusion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/ndt-conclusions/internal/domain"
)

// LoadDraft copies the editable fields of rec into the form and switches
// the view back to the editor. The draft stays in the collection.
func (m *Manager) LoadDraft(ctx context.Context, rec domain.ConclusionRecord) {
	m.form = rec.Form()
	m.form.Status = domain.StatusDraft
	m.section = domain.SectionCreate

	m.journal(ctx, domain.AuditActionDraftLoaded, rec)
	m.notify(ctx, domain.NotificationInfo, domain.MessageDraftLoaded)

	m.log.InfoContext(ctx, "draft loaded", slog.String("conclusion_id", rec.ID.String()))
}

// LoadDraftByID finds a saved draft by id and loads it.
func (m *Manager) LoadDraftByID(ctx context.Context, id uuid.UUID) (domain.ConclusionRecord, error) {
	rec, ok := m.FindDraft(id)
	if !ok {
		return domain.ConclusionRecord{}, fmt.Errorf("draft %s: %w", id, domain.ErrNotFound)
	}

	m.LoadDraft(ctx, rec)
	return rec, nil
}

// FindDraft returns the saved draft with the given id.
func (m *Manager) FindDraft(id uuid.UUID) (domain.ConclusionRecord, bool) {
	for _, d := range m.drafts {
		if d.ID == id {
			return d, true
		}
	}
	return domain.ConclusionRecord{}, false
}
