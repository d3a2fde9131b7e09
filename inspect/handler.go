package inspect

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/0xalexb/yamlconfig/config"
)

// ValuesPrefix is the URL prefix under which document values are served.
const ValuesPrefix = "/values"

type valueResponse struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type errorResponse struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// NewHandler returns an http.Handler exposing doc read-only:
//
//	GET /values                    -> the whole document
//	GET /values/server.port        -> one value
//	GET /values/server.port?as=int -> one value read as a kind (see config.ParseKind)
//
// Absent keys answer 404, malformed paths or kinds 400 and type mismatches 422.
func NewHandler(doc *config.Document) (http.Handler, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET "+ValuesPrefix, func(w http.ResponseWriter, r *http.Request) {
		serveValue(w, r, doc, "")
	})
	mux.HandleFunc("GET "+ValuesPrefix+"/{path...}", func(w http.ResponseWriter, r *http.Request) {
		serveValue(w, r, doc, r.PathValue("path"))
	})

	return withAccessLog(withRecovery(mux)), nil
}

func serveValue(w http.ResponseWriter, r *http.Request, doc *config.Document, path string) {
	kind, err := config.ParseKind(r.URL.Query().Get("as"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Path: path, Error: err.Error()})

		return
	}

	value, err := doc.As(path, kind)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Path: path, Error: err.Error()})

		return
	}

	if duration, ok := value.(time.Duration); ok {
		value = duration.String()
	}

	writeJSON(w, http.StatusOK, valueResponse{Path: path, Value: config.JSONValue(value)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, config.ErrKeyNotFound):
		return http.StatusNotFound
	case errors.Is(err, config.ErrInvalidPath):
		return http.StatusBadRequest
	case errors.Is(err, config.ErrTypeMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes body before touching the response, so an encoding
// failure still answers 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, body any) {
	var buf bytes.Buffer

	err := json.NewEncoder(&buf).Encode(body)
	if err != nil {
		slog.Error("failed to encode inspector response", "status", status, "error", err)

		status = http.StatusInternalServerError

		buf.Reset()
		buf.WriteString(`{"error":"Internal Server Error"}` + "\n")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(buf.Bytes())
	if err != nil {
		slog.Error("failed to write inspector response", "status", status, "error", err)
	}
}
