package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format of the inspection date field.
const DateLayout = "2006-01-02"

// ConclusionRecord is an immutable snapshot of a conclusion, either a saved
// draft or a finalized document.
type ConclusionRecord struct {
	ID            uuid.UUID
	JointNumber   string
	InspectorName string
	Date          string
	ControlType   ControlType
	Results       string
	Notes         string
	Status        Status
	CreatedAt     time.Time
}

// Form returns the editable part of the record as a FormState.
func (r ConclusionRecord) Form() FormState {
	return FormState{
		JointNumber:   r.JointNumber,
		InspectorName: r.InspectorName,
		Date:          r.Date,
		ControlType:   r.ControlType,
		Results:       r.Results,
		Notes:         r.Notes,
		Status:        r.Status,
	}
}

// FormState is the single in-progress edit session: a ConclusionRecord
// without ID and CreatedAt.
type FormState struct {
	JointNumber   string
	InspectorName string
	Date          string
	ControlType   ControlType
	Results       string
	Notes         string
	Status        Status
}

// NewFormState returns the empty form dated today.
func NewFormState(today string) FormState {
	return FormState{
		Date:   today,
		Status: StatusDraft,
	}
}

// Set replaces a single field. Values are stored as given, including
// control type codes outside the known methods.
func (f *FormState) Set(field Field, value string) error {
	switch field {
	case FieldJointNumber:
		f.JointNumber = value
	case FieldInspectorName:
		f.InspectorName = value
	case FieldDate:
		f.Date = value
	case FieldControlType:
		f.ControlType = ControlType(value)
	case FieldResults:
		f.Results = value
	case FieldNotes:
		f.Notes = value
	default:
		return NewValidationError("field", "unknown field "+string(field))
	}
	return nil
}

// Record freezes the form into a new record.
func (f FormState) Record(id uuid.UUID, status Status, createdAt time.Time) ConclusionRecord {
	return ConclusionRecord{
		ID:            id,
		JointNumber:   f.JointNumber,
		InspectorName: f.InspectorName,
		Date:          f.Date,
		ControlType:   f.ControlType,
		Results:       f.Results,
		Notes:         f.Notes,
		Status:        status,
		CreatedAt:     createdAt,
	}
}

// Stats are counters derived from the stored collections.
type Stats struct {
	TotalDocuments int
	DraftsCount    int
	ThisMonth      int
}

// Notification is a transient message shown to the user after an operation.
type Notification struct {
	Level     NotificationLevel
	Message   string
	CreatedAt time.Time
}

// Notification messages shown by the client.
const (
	MessageDraftSaved        = "Черновик сохранён"
	MessageDocumentGenerated = "Заключение создано и готово к скачиванию"
	MessageDraftLoaded       = "Черновик загружен"
)

// AuditRecord is one entry of the lifecycle journal.
type AuditRecord struct {
	ID           uuid.UUID
	SessionID    uuid.UUID
	ConclusionID uuid.UUID
	Action       AuditAction
	Changes      map[string]any
	CreatedAt    time.Time
}

// SameMonth reports whether t falls in the calendar month and year of now,
// both read in loc.
func SameMonth(t, now time.Time, loc *time.Location) bool {
	ty, tm, _ := t.In(loc).Date()
	ny, nm, _ := now.In(loc).Date()
	return ty == ny && tm == nm
}

// Today formats now as an inspection date in loc.
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateLayout)
}
