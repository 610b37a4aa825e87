package conclusion

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/ndt-conclusions/internal/domain"
)

// UpdateField replaces one field of the in-progress form. Any value is
// accepted, including the empty string; only an unknown field name is
// rejected.
func (m *Manager) UpdateField(ctx context.Context, field domain.Field, value string) error {
	if err := m.form.Set(field, value); err != nil {
		return err
	}

	m.log.DebugContext(ctx, "form field updated", slog.String("field", field.String()))
	return nil
}
