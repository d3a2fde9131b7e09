package inspect

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRecovery_Panic(t *testing.T) {
	t.Parallel()

	handler := withRecovery(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/values/a", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errorResponse

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/values/a", body.Path)
	assert.Equal(t, "Internal Server Error", body.Error)
}

func TestWithRecovery_PanicAfterWrite(t *testing.T) {
	t.Parallel()

	handler := withRecovery(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("late")
	}))

	rec := httptest.NewRecorder()

	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWithRecovery_AbortHandlerRepanics(t *testing.T) {
	t.Parallel()

	handler := withRecovery(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestWithAccessLog_PassesStatusThrough(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		status int
	}{
		{"ok", http.StatusOK},
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			handler := withAccessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(testCase.status)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/values", nil))

			assert.Equal(t, testCase.status, rec.Code)
		})
	}
}

func TestStatusRecorder_ImplicitOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	recorder := &statusRecorder{ResponseWriter: rec, status: 0}

	_, err := recorder.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.status)
	assert.Equal(t, rec, recorder.Unwrap())
}

type logRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type captureHandler struct {
	mu      sync.Mutex
	records []logRecord
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

//nolint:varnamelen // r is conventional for slog.Record.
func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	rec := logRecord{Level: r.Level, Message: r.Message, Attrs: make(map[string]any)}

	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.Any()

		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, rec)

	return nil
}

func (h *captureHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(_ string) slog.Handler      { return h }

func (h *captureHandler) accessRecords() []logRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []logRecord

	for _, rec := range h.records {
		if rec.Message == "inspector request" {
			out = append(out, rec)
		}
	}

	return out
}

func setupTestLogger(t *testing.T) *captureHandler {
	t.Helper()

	oldDefault := slog.Default()

	h := &captureHandler{}
	slog.SetDefault(slog.New(h))

	t.Cleanup(func() { slog.SetDefault(oldDefault) })

	return h
}

//nolint:paralleltest // replaces the global slog default
func TestWithAccessLog_LogsRecoveredPanic(t *testing.T) {
	capture := setupTestLogger(t)

	handler := withAccessLog(withRecovery(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/values/a", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	records := capture.accessRecords()
	require.Len(t, records, 1)
	assert.Equal(t, slog.LevelError, records[0].Level)
	assert.Equal(t, int64(http.StatusInternalServerError), records[0].Attrs["status"])
	assert.Equal(t, "/values/a", records[0].Attrs["path"])
}

//nolint:paralleltest // replaces the global slog default
func TestWithAccessLog_LogsUnrecoveredPanic(t *testing.T) {
	capture := setupTestLogger(t)

	handler := withAccessLog(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/values/b", nil))
	})

	records := capture.accessRecords()
	require.Len(t, records, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), records[0].Attrs["status"])
	assert.Equal(t, true, records[0].Attrs["panicked"])
}

//nolint:paralleltest // replaces the global slog default
func TestWithAccessLog_LevelsByStatus(t *testing.T) {
	capture := setupTestLogger(t)

	handler, err := NewHandler(sampleDocument(t))
	require.NoError(t, err)

	for _, target := range []string{"/values/server.port", "/values/server.missing"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	records := capture.accessRecords()
	require.Len(t, records, 2)
	assert.Equal(t, slog.LevelInfo, records[0].Level)
	assert.Equal(t, int64(http.StatusOK), records[0].Attrs["status"])
	assert.Equal(t, slog.LevelDebug, records[1].Level)
	assert.Equal(t, int64(http.StatusNotFound), records[1].Attrs["status"])
}
