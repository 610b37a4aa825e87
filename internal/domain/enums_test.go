package domain

import "testing"

func TestStatus_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status Status
		want   bool
	}{
		{StatusDraft, true},
		{StatusCompleted, true},
		{Status("archived"), false},
		{Status(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("Status(%q).IsValid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestControlType_IsValid(t *testing.T) {
	t.Parallel()

	for _, c := range ControlTypes() {
		if !c.IsValid() {
			t.Errorf("ControlType(%q).IsValid() = false, want true", c)
		}
		if !c.IsSet() {
			t.Errorf("ControlType(%q).IsSet() = false, want true", c)
		}
	}
	if !ControlTypeUnset.IsValid() {
		t.Error("unset control type should be valid")
	}
	if ControlTypeUnset.IsSet() {
		t.Error("unset control type should not be set")
	}
	if ControlType("UT").IsValid() {
		t.Error("ControlType(UT).IsValid() = true, want false")
	}
}

func TestControlType_Label(t *testing.T) {
	t.Parallel()

	if got := ControlTypeUltrasonic.Label(); got != "Ультразвуковой контроль (УЗК)" {
		t.Errorf("ut label: got %q", got)
	}
	if got := ControlTypeVisual.Label(); got != "Визуальный контроль (ВИК)" {
		t.Errorf("vt label: got %q", got)
	}
	if got := ControlTypeUnset.Label(); got != "" {
		t.Errorf("unset label: got %q, want empty", got)
	}
	if got := ControlType("xray").Label(); got != "xray" {
		t.Errorf("custom label: got %q, want xray", got)
	}
}

func TestField_IsValid(t *testing.T) {
	t.Parallel()

	valid := []Field{
		FieldJointNumber, FieldInspectorName, FieldDate,
		FieldControlType, FieldResults, FieldNotes,
	}
	for _, f := range valid {
		if !f.IsValid() {
			t.Errorf("Field(%q).IsValid() = false, want true", f)
		}
	}
	for _, f := range []Field{"status", "id", "createdAt", ""} {
		if f.IsValid() {
			t.Errorf("Field(%q).IsValid() = true, want false", f)
		}
	}
}

func TestSection_IsValid(t *testing.T) {
	t.Parallel()

	valid := []Section{
		SectionCreate, SectionTemplates, SectionHistory,
		SectionDrafts, SectionSettings, SectionProfile,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("Section(%q).IsValid() = false, want true", s)
		}
	}
	if Section("export").IsValid() {
		t.Error("Section(export).IsValid() = true, want false")
	}
}

func TestAuditAction_IsValid(t *testing.T) {
	t.Parallel()

	valid := []AuditAction{AuditActionDraftSaved, AuditActionDocumentGenerated, AuditActionDraftLoaded}
	for _, a := range valid {
		if !a.IsValid() {
			t.Errorf("AuditAction(%q).IsValid() = false, want true", a)
		}
	}
	if AuditAction("DELETE").IsValid() {
		t.Error("AuditAction(DELETE).IsValid() = true, want false")
	}
}
