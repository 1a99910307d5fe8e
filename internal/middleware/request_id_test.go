package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"sampleapp/internal/logger"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		require.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "upstream-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, "upstream-1", w.Header().Get(RequestIDHeader))
	})
}

type recorded struct {
	method, route string
	status        int
}

type fakeRecorder struct{ calls []recorded }

func (f *fakeRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.calls = append(f.calls, recorded{method, route, status})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(io.Discard) })

	gin.SetMode(gin.TestMode)
	rec := &fakeRecorder{}
	r := gin.New()
	r.Use(RequestID(), RequestLogger(rec))
	r.GET("/items/:id", func(c *gin.Context) {
		c.Set(GinUserIDKey, "u1")
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, []recorded{
		{http.MethodGet, "/items/:id", http.StatusNotFound},
		{http.MethodGet, "unmatched", http.StatusNotFound},
	}, rec.calls)

	var line map[string]any
	first, _, _ := bytes.Cut(buf.Bytes(), []byte("\n"))
	require.NoError(t, json.Unmarshal(first, &line))
	require.Equal(t, "warn", line["level"])
	require.Equal(t, "/items/7", line["path"])
	require.Equal(t, "u1", line["user_id"])
	require.Equal(t, w.Header().Get(RequestIDHeader), line["request_id"])
}
