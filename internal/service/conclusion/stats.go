package conclusion

import "github.com/heartmarshall/ndt-conclusions/internal/domain"

// Stats derives the dashboard counters. ThisMonth counts finalized
// documents created in the current calendar month of the manager's
// location, as of the call.
func (m *Manager) Stats() domain.Stats {
	now := m.clock.Now()

	thisMonth := 0
	for _, h := range m.history {
		if domain.SameMonth(h.CreatedAt, now, m.loc) {
			thisMonth++
		}
	}

	return domain.Stats{
		TotalDocuments: len(m.history),
		DraftsCount:    len(m.drafts),
		ThisMonth:      thisMonth,
	}
}
