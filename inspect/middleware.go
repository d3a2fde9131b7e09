package inspect

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"
)

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}

	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	return w.ResponseWriter.Write(b) //nolint:wrapcheck
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// withAccessLog logs every lookup via global slog, including one whose handler
// panics. Lookups that fail with a client error are routine for an inspector
// and are logged at debug level.
func withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: 0}
		completed := false

		defer func() {
			status := recorder.status

			switch {
			case status != 0:
			case completed:
				status = http.StatusOK
			default:
				status = http.StatusInternalServerError
			}

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
			}

			if !completed {
				attrs = append(attrs, slog.Bool("panicked", true))
			}

			switch {
			case status >= http.StatusInternalServerError:
				slog.Error("inspector request", attrs...)
			case status >= http.StatusBadRequest:
				slog.Debug("inspector request", attrs...)
			default:
				slog.Info("inspector request", attrs...)
			}
		}()

		next.ServeHTTP(recorder, r)

		completed = true
	})
}

// withRecovery answers 500 when a downstream handler panics, unless the
// response has already started.
func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: 0}

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if rec == http.ErrAbortHandler { //nolint:errorlint,err113
				panic(rec)
			}

			slog.Error("panic recovered",
				slog.String("panic", fmt.Sprintf("%v", rec)),
				slog.String("stack", string(debug.Stack())),
				slog.String("path", r.URL.Path),
			)

			if recorder.status != 0 {
				return
			}

			writeJSON(recorder, http.StatusInternalServerError, errorResponse{
				Path:  r.URL.Path,
				Error: http.StatusText(http.StatusInternalServerError),
			})
		}()

		next.ServeHTTP(recorder, r)
	})
}
