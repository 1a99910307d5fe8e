package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sampleapp/internal/auth/credentials"
	"sampleapp/internal/logger"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup creates an account. It never logs the user in.
func (h *Handler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, credentials.ErrAlreadyRegistered) {
		fail(c, http.StatusConflict, "username already taken")
		return
	}
	if errors.Is(err, credentials.ErrPasswordTooLong) {
		fail(c, http.StatusBadRequest, "password must be at most 72 bytes")
		return
	}
	if err != nil {
		internalError(c, "signup failed", err)
		return
	}

	logger.Info("user registered", map[string]any{
		"user_id": user.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"error":   false,
		"message": "user created",
		"result":  user,
	})
}
