package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/heartmarshall/ndt-conclusions/pkg/ctxutil"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})), &buf
}

func TestLogger_Success(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferLogger()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/abc/stats", nil)
	rec := httptest.NewRecorder()

	Logger(logger)(handler).ServeHTTP(rec, req)

	logOutput := buf.String()
	for _, want := range []string{"http.request", `"method":"GET"`, "/api/sessions/abc/stats", `"status":200`, "duration", `"level":"INFO"`} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("expected log to contain %q, got %q", want, logOutput)
		}
	}
	if strings.Contains(logOutput, "session_id") {
		t.Errorf("session_id should be omitted when not set, got %q", logOutput)
	}
}

func TestLogger_ServerError(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferLogger()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	rec := httptest.NewRecorder()

	Logger(logger)(handler).ServeHTTP(rec, req)

	logOutput := buf.String()
	if !strings.Contains(logOutput, `"level":"ERROR"`) {
		t.Errorf("expected ERROR level for status 500, got %q", logOutput)
	}
	if !strings.Contains(logOutput, `"status":500`) {
		t.Errorf("expected log to contain status 500, got %q", logOutput)
	}
}

func TestLogger_Identifiers(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferLogger()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(SessionIDHeader, "4a3f0c2e-0000-4000-8000-000000000001")
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/x/drafts", nil)
	req = req.WithContext(ctxutil.WithRequestID(req.Context(), "req-7"))
	rec := httptest.NewRecorder()

	Logger(logger)(handler).ServeHTTP(rec, req)

	logOutput := buf.String()
	if !strings.Contains(logOutput, `"request_id":"req-7"`) {
		t.Errorf("expected request_id in log, got %q", logOutput)
	}
	if !strings.Contains(logOutput, `"session_id":"4a3f0c2e-0000-4000-8000-000000000001"`) {
		t.Errorf("expected session_id in log, got %q", logOutput)
	}
	if !strings.Contains(logOutput, `"status":201`) {
		t.Errorf("expected status 201, got %q", logOutput)
	}
}

func TestStatusWriter_FirstWriteHeaderWins(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	sw.WriteHeader(http.StatusNotFound)
	sw.WriteHeader(http.StatusInternalServerError)

	if sw.status != http.StatusNotFound {
		t.Errorf("expected captured status 404, got %d", sw.status)
	}
}
