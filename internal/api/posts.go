package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sampleapp/internal/logger"
	"sampleapp/internal/middleware"
	"sampleapp/internal/store"
)

type createPostRequest struct {
	Session *struct {
		SessionID string `json:"sessionId"`
		UserID    string `json:"userId"`
	} `json:"session"`
	Post struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"post"`
}

// CreatePost stores a post owned by the authenticated user. The body must
// repeat the session the gate accepted.
func (h *Handler) CreatePost(c *gin.Context) {
	userID := c.GetString(middleware.GinUserIDKey)
	if userID == "" {
		fail(c, http.StatusForbidden, "not authenticated")
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Session == nil || req.Session.SessionID == "" || req.Session.UserID == "" {
		fail(c, http.StatusForbidden, "session is required")
		return
	}
	if req.Session.UserID != userID {
		fail(c, http.StatusForbidden, "session does not match the authenticated user")
		return
	}

	title := strings.TrimSpace(req.Post.Title)
	if title == "" {
		fail(c, http.StatusBadRequest, "post title is required")
		return
	}

	post := &store.Post{
		Title:     title,
		Content:   req.Post.Content,
		CreatedBy: userID,
		CreatedAt: h.now().UTC(),
	}
	if err := h.posts.CreatePost(c.Request.Context(), post); err != nil {
		internalError(c, "create post failed", err)
		return
	}

	logger.Info("post created", map[string]any{
		"post_id": post.ID,
		"user_id": userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"error":   false,
		"message": "post created",
		"result":  post,
	})
}
