package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sampleapp/internal/auth/credentials"
	"sampleapp/internal/logger"
	"sampleapp/internal/session"
)

// Login verifies the password and replaces the user's session with a new
// one. A failed attempt never touches the stored session.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	clientIP := c.ClientIP()

	if h.limiter != nil {
		wait, err := h.limiter.Locked(ctx, clientIP)
		if err != nil {
			logger.Warn("login throttle unavailable", map[string]any{
				"error": err.Error(),
			})
		}
		if wait > 0 {
			h.record(LoginThrottled)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			fail(c, http.StatusTooManyRequests, "too many failed login attempts, try again later")
			return
		}
	}

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.accounts.Authenticate(ctx, req.Username, req.Password)
	if errors.Is(err, credentials.ErrInvalidCredentials) {
		h.record(LoginRejected)
		h.recordFailure(c, clientIP)
		fail(c, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		h.record(LoginFailed)
		internalError(c, "login lookup failed", err)
		return
	}

	sess, err := session.New(h.now().UTC(), h.ttl)
	if err != nil {
		h.record(LoginFailed)
		internalError(c, "session generation failed", err)
		return
	}

	if err := h.sessions.SetSession(ctx, user.ID, sess); err != nil {
		h.record(LoginFailed)
		internalError(c, "session persist failed", err)
		return
	}

	if h.limiter != nil {
		if err := h.limiter.Reset(ctx, clientIP); err != nil {
			logger.Warn("login throttle reset failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	h.record(LoginSucceeded)
	logger.Info("login succeeded", map[string]any{
		"user_id":   user.ID,
		"client_ip": clientIP,
	})

	c.JSON(http.StatusOK, gin.H{
		"error":   false,
		"message": "login successful",
		"session": gin.H{
			"sessionId": sess.SessionID,
			"expiresAt": sess.ExpiresAt,
			"userId":    user.ID,
		},
	})
}

func (h *Handler) recordFailure(c *gin.Context, clientIP string) {
	if h.limiter == nil {
		return
	}

	left, err := h.limiter.Fail(c.Request.Context(), clientIP)
	if err != nil {
		logger.Warn("login throttle update failed", map[string]any{
			"error": err.Error(),
		})
		return
	}
	if left == 0 {
		logger.Warn("login locked for client", map[string]any{
			"client_ip": clientIP,
		})
	}
}
