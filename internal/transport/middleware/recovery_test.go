package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func panicking(v any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic(v) })
}

func TestRecovery_PassesThrough(t *testing.T) {
	h := Recovery(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/applications", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRecovery_APIPanicAnswersJSON(t *testing.T) {
	h := Recovery(slog.New(slog.DiscardHandler))(panicking("nil store"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestRecovery_PagePanicAnswersText(t *testing.T) {
	h := Recovery(slog.New(slog.DiscardHandler))(panicking("template missing"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "internal server error\n", rec.Body.String())
}

func TestRecovery_LogsWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Chain(RequestID(), Recovery(logger))(panicking("index out of range"))

	req := httptest.NewRequest(http.MethodPost, "/apply", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "panic recovered")
	assert.Contains(t, out, "index out of range")
	assert.Contains(t, out, "path=/apply")
	assert.Contains(t, out, "stack=")
	assert.Contains(t, out, "request_id=req-42")
}

func TestRecovery_AbortHandlerIsRepanicked(t *testing.T) {
	h := Recovery(slog.New(slog.DiscardHandler))(panicking(http.ErrAbortHandler))

	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/export.csv", nil))
	})
}
