package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sampleapp/internal/auth/credentials"
	"sampleapp/internal/auth/throttle"
	"sampleapp/internal/logger"
	"sampleapp/internal/middleware"
	"sampleapp/internal/session"
	"sampleapp/internal/store"
)

// Login results reported to the LoginRecorder.
const (
	LoginSucceeded = "success"
	LoginRejected  = "invalid_credentials"
	LoginThrottled = "throttled"
	LoginFailed    = "error"
)

type SessionWriter interface {
	SetSession(ctx context.Context, userID string, s store.Session) error
}

type LoginRecorder interface {
	RecordLogin(result string)
}

type Handler struct {
	accounts *credentials.Service
	sessions SessionWriter
	limiter  throttle.Limiter
	recorder LoginRecorder
	ttl      time.Duration
	now      func() time.Time
}

// NewHandler wires the signup and login endpoints. limiter may be nil to
// disable login throttling.
func NewHandler(
	accounts *credentials.Service,
	sessions SessionWriter,
	limiter throttle.Limiter,
	ttl time.Duration,
) *Handler {
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	return &Handler{
		accounts: accounts,
		sessions: sessions,
		limiter:  limiter,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (h *Handler) WithRecorder(rec LoginRecorder) *Handler {
	h.recorder = rec
	return h
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
}

func (h *Handler) record(result string) {
	if h.recorder != nil {
		h.recorder.RecordLogin(result)
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":   true,
		"message": message,
	})
}

func internalError(c *gin.Context, msg string, err error) {
	logger.Error(msg, map[string]any{
		"error":      err.Error(),
		"path":       c.Request.URL.Path,
		"request_id": c.GetString(middleware.RequestIDKey),
	})
	fail(c, http.StatusInternalServerError, "internal server error")
}
