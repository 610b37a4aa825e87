package rest

import (
	"time"

	"github.com/heartmarshall/ndt-conclusions/internal/domain"
	"github.com/heartmarshall/ndt-conclusions/internal/service/conclusion"
)

type formResponse struct {
	JointNumber      string `json:"jointNumber"`
	InspectorName    string `json:"inspectorName"`
	Date             string `json:"date"`
	ControlType      string `json:"controlType"`
	ControlTypeLabel string `json:"controlTypeLabel,omitempty"`
	Results          string `json:"results"`
	Notes            string `json:"notes"`
	Status           string `json:"status"`
}

type recordResponse struct {
	ID string `json:"id"`
	formResponse
	CreatedAt time.Time `json:"createdAt"`
}

type statsResponse struct {
	TotalDocuments int `json:"totalDocuments"`
	DraftsCount    int `json:"draftsCount"`
	ThisMonth      int `json:"thisMonth"`
}

type notificationResponse struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type snapshotResponse struct {
	SessionID     string                 `json:"sessionId"`
	Section       string                 `json:"section"`
	Form          formResponse           `json:"form"`
	Drafts        []recordResponse       `json:"drafts"`
	History       []recordResponse       `json:"history"`
	Stats         statsResponse          `json:"stats"`
	Notifications []notificationResponse `json:"notifications"`
}

type controlTypeResponse struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type journalEntryResponse struct {
	ID           string         `json:"id"`
	ConclusionID string         `json:"conclusionId"`
	Action       string         `json:"action"`
	Changes      map[string]any `json:"changes"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type updateFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type sectionRequest struct {
	Section string `json:"section"`
}

type sectionResponse struct {
	Section string `json:"section"`
}

func toFormResponse(f domain.FormState) formResponse {
	return formResponse{
		JointNumber:      f.JointNumber,
		InspectorName:    f.InspectorName,
		Date:             f.Date,
		ControlType:      f.ControlType.String(),
		ControlTypeLabel: f.ControlType.Label(),
		Results:          f.Results,
		Notes:            f.Notes,
		Status:           f.Status.String(),
	}
}

func toJournalResponses(records []domain.AuditRecord) []journalEntryResponse {
	out := make([]journalEntryResponse, 0, len(records))
	for _, rec := range records {
		changes := rec.Changes
		if changes == nil {
			changes = map[string]any{}
		}
		out = append(out, journalEntryResponse{
			ID:           rec.ID.String(),
			ConclusionID: rec.ConclusionID.String(),
			Action:       rec.Action.String(),
			Changes:      changes,
			CreatedAt:    rec.CreatedAt,
		})
	}
	return out
}

func toRecordResponse(rec domain.ConclusionRecord) recordResponse {
	return recordResponse{
		ID:           rec.ID.String(),
		formResponse: toFormResponse(rec.Form()),
		CreatedAt:    rec.CreatedAt,
	}
}

func toRecordResponses(recs []domain.ConclusionRecord) []recordResponse {
	out := make([]recordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecordResponse(rec))
	}
	return out
}

func toStatsResponse(s domain.Stats) statsResponse {
	return statsResponse{
		TotalDocuments: s.TotalDocuments,
		DraftsCount:    s.DraftsCount,
		ThisMonth:      s.ThisMonth,
	}
}

func toNotificationResponses(ns []domain.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationResponse{
			Level:     n.Level.String(),
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

func toSnapshotResponse(sessionID string, s conclusion.Snapshot, ns []domain.Notification) snapshotResponse {
	return snapshotResponse{
		SessionID:     sessionID,
		Section:       s.Section.String(),
		Form:          toFormResponse(s.Form),
		Drafts:        toRecordResponses(s.Drafts),
		History:       toRecordResponses(s.History),
		Stats:         toStatsResponse(s.Stats),
		Notifications: toNotificationResponses(ns),
	}
}
