package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failedEnvelope struct {
	Status string        `json:"status"`
	Data   dto.ErrorData `json:"data"`
}

func decodeFailed(t *testing.T, w *httptest.ResponseRecorder) failedEnvelope {
	t.Helper()
	var resp failedEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.StatusFailed, resp.Status)
	return resp
}

func newTestContext(w *httptest.ResponseRecorder) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-id")
				c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(httptest.NewRecorder())
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()

	h.Success(newTestContext(w), map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"SUCCESS","data":{"key":"value"}}`, w.Body.String())
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()

	h.Created(newTestContext(w), map[string]int{"id": 7})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"status":"SUCCESS","data":{"id":7}}`, w.Body.String())
}

func TestBaseHandlerFile(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()

	h.File(newTestContext(w), "report.xlsx", "application/octet-stream", []byte("xlsx"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="report.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "xlsx", w.Body.String())
}

func TestBaseHandlerValidationError(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c := newTestContext(w)
	c.Set(middleware.RequestIDKey, "val-req-456")

	h.ValidationError(c, "name - Required", "page - Must be at least 1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeFailed(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Data.Code)
	assert.Equal(t, "val-req-456", resp.Data.RequestID)
	assert.Equal(t, []string{"name - Required", "page - Must be at least 1"}, resp.Data.Errors)
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
		expectedMsg  string
	}{
		{
			name:         "not found",
			err:          shared.NotFound("Revenue center 9 not found"),
			expectedCode: http.StatusNotFound,
			expectedErr:  dto.ErrCodeNotFound,
			expectedMsg:  "Revenue center 9 not found",
		},
		{
			name:         "invalid input",
			err:          shared.InvalidInput("toDate - Must not be before fromDate"),
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeInvalidInput,
			expectedMsg:  "toDate - Must not be before fromDate",
		},
		{
			name:         "concurrency conflict",
			err:          shared.ErrConcurrencyConflict,
			expectedCode: http.StatusConflict,
			expectedErr:  dto.ErrCodeConcurrencyConflict,
			expectedMsg:  shared.ErrConcurrencyConflict.Message,
		},
		{
			name:         "wrapped domain error",
			err:          fmt.Errorf("loading center: %w", shared.ErrNotFound),
			expectedCode: http.StatusNotFound,
			expectedErr:  dto.ErrCodeNotFound,
			expectedMsg:  shared.ErrNotFound.Message,
		},
		{
			name:         "plain error is hidden",
			err:          assert.AnError,
			expectedCode: http.StatusInternalServerError,
			expectedErr:  dto.ErrCodeInternal,
			expectedMsg:  shared.ErrInternal.Message,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c := newTestContext(w)
			c.Set(middleware.RequestIDKey, "req-1")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeFailed(t, w)
			assert.Equal(t, tt.expectedErr, resp.Data.Code)
			assert.Equal(t, tt.expectedMsg, resp.Data.Message)
			assert.Equal(t, "req-1", resp.Data.RequestID)
			assert.Len(t, c.Errors, 1)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		h := &BaseHandler{}
		w := httptest.NewRecorder()

		h.HandleError(newTestContext(w), nil)

		assert.Empty(t, w.Body.String())
	})
}

func TestBaseHandlerHandleError_LogsThroughRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := &BaseHandler{}

	engine := gin.New()
	engine.Use(middleware.RequestID(), logger.GinMiddleware(zap.New(core)))
	engine.GET("/boom", func(c *gin.Context) { h.HandleError(c, assert.AnError) })
	engine.GET("/missing", func(c *gin.Context) { h.HandleError(c, shared.NotFound("Revenue center 9 not found")) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	failed := logs.FilterMessage("Unhandled handler error").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, "/boom", failed[0].ContextMap()["path"])

	rejected := logs.FilterMessage("Request rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, shared.CodeNotFound, rejected[0].ContextMap()["code"])
}

func TestBaseHandlerParamID(t *testing.T) {
	tests := []struct {
		raw    string
		wantID uint
		wantOK bool
	}{
		{raw: "42", wantID: 42, wantOK: true},
		{raw: "0", wantOK: false},
		{raw: "-3", wantOK: false},
		{raw: "abc", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c := newTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tt.raw}}

			id, ok := h.ParamID(c, "id")

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, []string{"id - Must be a positive integer"}, decodeFailed(t, w).Data.Errors)
			}
		})
	}
}
