package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/ndt-conclusions/internal/domain"
	"github.com/heartmarshall/ndt-conclusions/internal/service/conclusion"
	"github.com/heartmarshall/ndt-conclusions/internal/service/session"
	"github.com/heartmarshall/ndt-conclusions/internal/transport/middleware"
	"github.com/heartmarshall/ndt-conclusions/pkg/ctxutil"
)

// sessionService defines the minimal interface needed by SessionHandler.
type sessionService interface {
	Create(ctx context.Context) (*session.Session, error)
	Do(ctx context.Context, id uuid.UUID, fn func(m *conclusion.Manager) error) error
	DrainNotifications(ctx context.Context, id uuid.UUID) ([]domain.Notification, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SessionHandler serves the conclusion editing endpoints.
type SessionHandler struct {
	svc sessionService
	log *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(svc sessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, log: logger.With("handler", "session")}
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Create(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	w.Header().Set(middleware.SessionIDHeader, sess.ID.String())

	h.writeSnapshot(w, r, sess.ID, http.StatusCreated)
}

// Get handles GET /api/sessions/{id}. Pending notifications are drained
// into the response.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	r, id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	h.writeSnapshot(w, r, id, http.StatusOK)
}

// Delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	r, id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateField handles PATCH /api/sessions/{id}/form.
func (h *SessionHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	r, id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req updateFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var form domain.FormState
	err := h.svc.Do(r.Context(), id, func(m *conclusion.Manager) error {
		if err := m.UpdateField(r.Context(), domain.Field(req.Field), req.Value); err != nil {
			return err
		}
		form = m.Form()
		return nil
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFormResponse(form))
}

// SaveDraft handles POST /api/sessions/{id}/drafts.
func (h *SessionHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	r, id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var rec domain.ConclusionRecord
	err := h.svc.Do(r.Context(), id, func(m *conclusion.Manager) error {
		rec = m.SaveDraft(r.Context())
		return nil
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecordResponse(rec))
}

// LoadDraft handles POST /api/sessions/{id}/drafts/{draftId}/load.
func (h *SessionHandler) LoadDraft(w http.ResponseWriter, r *http.Request) {
	r, id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	draftID, err := uuid.Parse(r.PathValue("draftId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid draft id")
		return
	}

	var form domain.FormState
	err = h.svc.Do(r.Context(), id, func(m *conclusion.Manager) error {
		if _, err := m.LoadDraftByID(r.Context(), draftID); err != nil {
			return err
		}
		form = m.Form()
		return nil
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFormResponse(form))
}

// GenerateDocument handles POST /api/sessions/{id}/documents.
func (h *SessionHandler) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	r, id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var rec domain.ConclusionRecord
	err := h.svc.Do(r.Context(), id, func(m *conclusion.Manager) error {
		rec = m.GenerateDocument(r.Context())
		return nil
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecordResponse(rec))
}

// SetSection handles PUT /api/sessions/{id}/section.
func (h *SessionHandler) SetSection(w http.ResponseWriter, r *http.Request) {
	r, id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req sectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.svc.Do(r.Context(), id, func(m *conclusion.Manager) error {
		return m.SetSection(r.Context(), domain.Section(req.Section))
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sectionResponse{Section: req.Section})
}

// Stats handles GET /api/sessions/{id}/stats.
func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	r, id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var stats domain.Stats
	err := h.svc.Do(r.Context(), id, func(m *conclusion.Manager) error {
		stats = m.Stats()
		return nil
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatsResponse(stats))
}

// ControlTypes handles GET /api/control-types.
func (h *SessionHandler) ControlTypes(w http.ResponseWriter, _ *http.Request) {
	types := domain.ControlTypes()
	out := make([]controlTypeResponse, 0, len(types))
	for _, ct := range types {
		out = append(out, controlTypeResponse{Code: ct.String(), Label: ct.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SessionHandler) writeSnapshot(w http.ResponseWriter, r *http.Request, id uuid.UUID, status int) {
	var snap conclusion.Snapshot
	err := h.svc.Do(r.Context(), id, func(m *conclusion.Manager) error {
		snap = m.Snapshot()
		return nil
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	notes, err := h.svc.DrainNotifications(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, status, toSnapshotResponse(id.String(), snap, notes))
}

func (h *SessionHandler) sessionID(w http.ResponseWriter, r *http.Request) (*http.Request, uuid.UUID, bool) {
	return pathSessionID(w, r)
}

// pathSessionID parses the {id} path value, tags the response with it and
// returns the request with the id stored in its context.
func pathSessionID(w http.ResponseWriter, r *http.Request) (*http.Request, uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return r, uuid.Nil, false
	}
	w.Header().Set(middleware.SessionIDHeader, id.String())
	return r.WithContext(ctxutil.WithSessionID(r.Context(), id)), id, true
}

func (h *SessionHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := h.log
	if id, ok := ctxutil.SessionIDFromCtx(r.Context()); ok {
		log = log.With(slog.String("session_id", id.String()))
	}
	handleError(log, w, r, err)
}
