package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/heartmarshall/ndt-conclusions/internal/domain"
)

const (
	defaultJournalLimit = 100
	maxJournalLimit     = 1000
)

type journalReader interface {
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.AuditRecord, error)
}

// JournalHandler exposes the audit journal to operators. Entries are
// read straight from storage and outlive the in-memory session.
type JournalHandler struct {
	repo journalReader
	log  *slog.Logger
}

// NewJournalHandler creates a JournalHandler.
func NewJournalHandler(repo journalReader, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{repo: repo, log: logger.With("handler", "journal")}
}

// List handles GET /api/sessions/{id}/journal?limit=N.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	r, id, ok := pathSessionID(w, r)
	if !ok {
		return
	}

	log := h.log.With(slog.String("session_id", id.String()))

	limit := defaultJournalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxJournalLimit {
			handleError(log, w, r, domain.NewValidationError("limit", "must be an integer in 1.."+strconv.Itoa(maxJournalLimit)))
			return
		}
		limit = n
	}

	records, err := h.repo.ListBySession(r.Context(), id, limit)
	if err != nil {
		handleError(log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toJournalResponses(records))
}
