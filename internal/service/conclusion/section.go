package conclusion

import (
	"context"

	"github.com/heartmarshall/ndt-conclusions/internal/domain"
)

// Section returns the active view.
func (m *Manager) Section() domain.Section { return m.section }

// SetSection switches the active view.
func (m *Manager) SetSection(_ context.Context, s domain.Section) error {
	if !s.IsValid() {
		return domain.NewValidationError("section", "unknown section")
	}
	m.section = s
	return nil
}
