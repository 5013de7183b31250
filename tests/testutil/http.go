package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Do sends a request through handler and returns the recorded response.
// A non-nil body is encoded as JSON.
func Do(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = ToJSONReader(t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// DecodeSuccess asserts a SUCCESS envelope and decodes its data into T.
func DecodeSuccess[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Status string `json:"status"`
		Data   T      `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "Failed to parse JSON response: %s", w.Body.String())
	require.Equal(t, dto.StatusSuccess, envelope.Status, "Unexpected envelope: %s", w.Body.String())
	return envelope.Data
}

// DecodeFailure asserts a FAILED envelope and returns its error payload.
func DecodeFailure(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorData {
	t.Helper()

	var envelope struct {
		Status string        `json:"status"`
		Data   dto.ErrorData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "Failed to parse JSON response: %s", w.Body.String())
	require.Equal(t, dto.StatusFailed, envelope.Status, "Unexpected envelope: %s", w.Body.String())
	return envelope.Data
}

// AssertFailed asserts the status code and error code of a FAILED response.
func AssertFailed(t *testing.T, w *httptest.ResponseRecorder, status int, code string) dto.ErrorData {
	t.Helper()

	assert.Equal(t, status, w.Code, "Unexpected status code")
	data := DecodeFailure(t, w)
	assert.Equal(t, code, data.Code, "Unexpected error code")
	return data
}

// ToJSONReader converts a value to a JSON io.Reader.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
