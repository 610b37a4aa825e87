package domain

// Status is the write-once lifecycle tag of a conclusion record.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusCompleted:
		return true
	}
	return false
}

// ControlType is the NDT method of an inspection. The zero value means
// the method has not been chosen yet.
type ControlType string

const (
	ControlTypeUnset      ControlType = ""
	ControlTypeUltrasonic ControlType = "ut"
	ControlTypeRadiograph ControlType = "rt"
	ControlTypeMagnetic   ControlType = "mt"
	ControlTypePenetrant  ControlType = "pt"
	ControlTypeVisual     ControlType = "vt"
)

var controlTypeLabels = map[ControlType]string{
	ControlTypeUltrasonic: "Ультразвуковой контроль (УЗК)",
	ControlTypeRadiograph: "Радиографический контроль (РК)",
	ControlTypeMagnetic:   "Магнитопорошковый контроль (МПК)",
	ControlTypePenetrant:  "Капиллярный контроль (ПВК)",
	ControlTypeVisual:     "Визуальный контроль (ВИК)",
}

func (c ControlType) String() string { return string(c) }

// IsValid reports whether c is one of the known methods or unset.
func (c ControlType) IsValid() bool {
	if c == ControlTypeUnset {
		return true
	}
	_, ok := controlTypeLabels[c]
	return ok
}

func (c ControlType) IsSet() bool { return c != ControlTypeUnset }

// Label returns the full method name printed on conclusion documents.
// Codes outside the known methods are printed as entered.
func (c ControlType) Label() string {
	if label, ok := controlTypeLabels[c]; ok {
		return label
	}
	return string(c)
}

// ControlTypes lists the selectable methods in display order.
func ControlTypes() []ControlType {
	return []ControlType{
		ControlTypeUltrasonic, ControlTypeRadiograph, ControlTypeMagnetic,
		ControlTypePenetrant, ControlTypeVisual,
	}
}

// Field names an editable form field, using its wire name.
type Field string

const (
	FieldJointNumber   Field = "jointNumber"
	FieldInspectorName Field = "inspectorName"
	FieldDate          Field = "date"
	FieldControlType   Field = "controlType"
	FieldResults       Field = "results"
	FieldNotes         Field = "notes"
)

func (f Field) String() string { return string(f) }

func (f Field) IsValid() bool {
	switch f {
	case FieldJointNumber, FieldInspectorName, FieldDate, FieldControlType,
		FieldResults, FieldNotes:
		return true
	}
	return false
}

// Section is the active view of the client application.
type Section string

const (
	SectionCreate    Section = "create"
	SectionTemplates Section = "templates"
	SectionHistory   Section = "history"
	SectionDrafts    Section = "drafts"
	SectionSettings  Section = "settings"
	SectionProfile   Section = "profile"
)

func (s Section) String() string { return string(s) }

func (s Section) IsValid() bool {
	switch s {
	case SectionCreate, SectionTemplates, SectionHistory, SectionDrafts,
		SectionSettings, SectionProfile:
		return true
	}
	return false
}

// NotificationLevel is the severity of a transient user notification.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationInfo    NotificationLevel = "info"
)

func (l NotificationLevel) String() string { return string(l) }

// AuditAction is the lifecycle event recorded in the audit journal.
type AuditAction string

const (
	AuditActionDraftSaved        AuditAction = "DRAFT_SAVED"
	AuditActionDocumentGenerated AuditAction = "DOCUMENT_GENERATED"
	AuditActionDraftLoaded       AuditAction = "DRAFT_LOADED"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionDraftSaved, AuditActionDocumentGenerated, AuditActionDraftLoaded:
		return true
	}
	return false
}
