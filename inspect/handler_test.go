package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xalexb/yamlconfig/config"
	yamlparser "github.com/0xalexb/yamlconfig/config/parser/yaml"
)

const sampleYAML = `
server:
  port: 8080
  host: localhost
  timeout: 30s
services:
  names:
    - first: James
    - first: Andrew
`

func sampleDocument(t *testing.T) *config.Document {
	t.Helper()

	doc, err := yamlparser.NewParser().Parse([]byte(sampleYAML))
	require.NoError(t, err)

	return doc
}

func get(t *testing.T, handler http.Handler, target string) (int, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec.Code, body
}

func TestHandler_Values(t *testing.T) {
	t.Parallel()

	handler, err := NewHandler(sampleDocument(t))
	require.NoError(t, err)

	testCases := []struct {
		name   string
		target string
		status int
		value  any
	}{
		{"scalar", "/values/server.port", http.StatusOK, 8080.0},
		{"indexed", "/values/services.names[1].first", http.StatusOK, "Andrew"},
		{"as string", "/values/server.port?as=string", http.StatusOK, "8080"},
		{"as duration", "/values/server.timeout?as=duration", http.StatusOK, "30s"},
		{"mapping", "/values/server", http.StatusOK, map[string]any{"port": 8080.0, "host": "localhost", "timeout": "30s"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			status, body := get(t, handler, testCase.target)
			assert.Equal(t, testCase.status, status)
			assert.Equal(t, testCase.value, body["value"])
		})
	}
}

func TestHandler_WholeDocumentKeepsOrder(t *testing.T) {
	t.Parallel()

	handler, err := NewHandler(sampleDocument(t))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ValuesPrefix, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"value":{"server":{"port":8080,"host":"localhost","timeout":"30s"},"services"`)
}

func TestHandler_Errors(t *testing.T) {
	t.Parallel()

	handler, err := NewHandler(sampleDocument(t))
	require.NoError(t, err)

	testCases := []struct {
		name   string
		target string
		status int
	}{
		{"missing key", "/values/server.missing", http.StatusNotFound},
		{"index out of range", "/values/services.names[5].first", http.StatusNotFound},
		{"malformed path", "/values/server..port", http.StatusBadRequest},
		{"unknown kind", "/values/server.port?as=uuid", http.StatusBadRequest},
		{"type mismatch", "/values/server.host?as=int", http.StatusUnprocessableEntity},
		{"key through scalar", "/values/server.host.name", http.StatusUnprocessableEntity},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			status, body := get(t, handler, testCase.target)
			assert.Equal(t, testCase.status, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandler_RejectsWrites(t *testing.T) {
	t.Parallel()

	handler, err := NewHandler(sampleDocument(t))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/values/server.port", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNewHandler_NilDocument(t *testing.T) {
	t.Parallel()

	handler, err := NewHandler(nil)
	require.ErrorIs(t, err, ErrNilDocument)
	assert.Nil(t, handler)
}

func TestStatusFor_Unknown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestHandler_NonFiniteFloats(t *testing.T) {
	t.Parallel()

	doc, err := yamlparser.NewParser().Parse([]byte("n: .nan\nlimits:\n  - .inf\n  - -.inf\n"))
	require.NoError(t, err)

	handler, err := NewHandler(doc)
	require.NoError(t, err)

	status, body := get(t, handler, "/values/n")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, ".nan", body["value"])

	status, body = get(t, handler, "/values/limits")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{".inf", "-.inf"}, body["value"])

	status, body = get(t, handler, ValuesPrefix)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"n": ".nan", "limits": []any{".inf", "-.inf"}}, body["value"])
}

func TestWriteJSON_EncodeFailureAnswers500(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()

	writeJSON(rec, http.StatusOK, valueResponse{Path: "c", Value: make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}
